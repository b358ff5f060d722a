package typst

import "strings"

// fontFallbacks maps proprietary font families to metric-compatible or
// visually close open alternatives, in preference order.
var fontFallbacks = map[string][]string{
	"calibri":         {"Carlito"},
	"cambria":         {"Caladea"},
	"arial":           {"Liberation Sans", "Arimo"},
	"helvetica":       {"Liberation Sans", "Arimo"},
	"times new roman": {"Liberation Serif", "Tinos"},
	"times":           {"Liberation Serif", "Tinos"},
	"courier new":     {"Liberation Mono", "Cousine"},
	"courier":         {"Liberation Mono", "Cousine"},
	"georgia":         {"Gelasio"},
	"verdana":         {"DejaVu Sans"},
	"tahoma":          {"DejaVu Sans"},
	"segoe ui":        {"Selawik", "Open Sans"},
	"consolas":        {"Inconsolata", "DejaVu Sans Mono"},
	"aptos":           {"Carlito"},
}

// fontFamilies returns the font list to request for family: the family
// itself followed by its open alternatives. Unknown families are returned
// alone.
func fontFamilies(family string) []string {
	family = strings.TrimSpace(family)
	if family == "" {
		return nil
	}
	fallbacks := fontFallbacks[strings.ToLower(family)]
	return append([]string{family}, fallbacks...)
}

// fontValue renders the font argument for family.
func fontValue(family string) string {
	families := fontFamilies(family)
	switch len(families) {
	case 0:
		return ""
	case 1:
		return quote(families[0])
	}
	quoted := make([]string, len(families))
	for i, f := range families {
		quoted[i] = quote(f)
	}
	return "(" + strings.Join(quoted, ", ") + ")"
}
