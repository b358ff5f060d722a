package model

// ChartType is the plot style of a chart.
type ChartType int

const (
	ChartBar ChartType = iota
	ChartColumn
	ChartLine
	ChartPie
	ChartArea
	ChartScatter
	ChartOther
)

func (t ChartType) String() string {
	switch t {
	case ChartBar:
		return "bar"
	case ChartColumn:
		return "column"
	case ChartLine:
		return "line"
	case ChartPie:
		return "pie"
	case ChartArea:
		return "area"
	case ChartScatter:
		return "scatter"
	default:
		return "other"
	}
}

// ChartSeries is a named list of values sharing the chart's category axis.
type ChartSeries struct {
	Name   string
	Values []float64
}

// Chart is a chart reduced to its data.
type Chart struct {
	Type       ChartType
	Title      string
	Categories []string
	Series     []ChartSeries
}

// Len returns the number of data points: the longer of the category list
// and the longest series.
func (c *Chart) Len() int {
	n := len(c.Categories)
	for _, s := range c.Series {
		if len(s.Values) > n {
			n = len(s.Values)
		}
	}
	return n
}

// Value returns the value of series s at index i, treating short series as
// zero-padded.
func (c *Chart) Value(s, i int) float64 {
	if s < 0 || s >= len(c.Series) {
		return 0
	}
	values := c.Series[s].Values
	if i < 0 || i >= len(values) {
		return 0
	}
	return values[i]
}
