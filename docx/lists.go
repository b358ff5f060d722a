package docx

import (
	"strconv"

	"github.com/tsawler/officeconv/model"
)

// NumberingResolver resolves numbering definitions from numbering.xml.
type NumberingResolver struct {
	abstractNums map[string]*abstractNumXML // abstractNumId -> definition
	numMappings  map[string]*numXML         // numId -> instance
}

// NewNumberingResolver creates a resolver from parsed numbering.xml.
func NewNumberingResolver(numbering *numberingXML) *NumberingResolver {
	nr := &NumberingResolver{
		abstractNums: make(map[string]*abstractNumXML),
		numMappings:  make(map[string]*numXML),
	}

	if numbering == nil {
		return nr
	}

	for i := range numbering.AbstractNums {
		an := &numbering.AbstractNums[i]
		nr.abstractNums[an.AbstractNumID] = an
	}
	for i := range numbering.Nums {
		num := &numbering.Nums[i]
		nr.numMappings[num.NumID] = num
	}

	return nr
}

// ResolveLevel returns the list kind and first ordinal for a numId and
// level. Bullet formats are unordered; every other format is ordered.
// Unknown definitions resolve to an unordered list starting at 1.
func (nr *NumberingResolver) ResolveLevel(numID string, level int) (kind model.ListKind, startAt int) {
	kind = model.ListUnordered
	startAt = 1

	num, ok := nr.numMappings[numID]
	if !ok {
		return
	}
	abstractNum, ok := nr.abstractNums[num.AbstractNumID.Val]
	if !ok {
		return
	}

	levelStr := strconv.Itoa(level)
	for _, lvl := range abstractNum.Levels {
		if lvl.ILvl != levelStr {
			continue
		}
		switch lvl.NumFmt.Val {
		case "bullet", "none", "":
			kind = model.ListUnordered
		default:
			kind = model.ListOrdered
		}
		if s, err := strconv.Atoi(lvl.Start.Val); err == nil {
			startAt = s
		}
		break
	}

	for _, o := range num.Overrides {
		if o.ILvl == levelStr {
			if s, err := strconv.Atoi(o.StartOverride.Val); err == nil {
				startAt = s
			}
		}
	}
	return
}

// IsListParagraph reports whether a numbering reference makes a paragraph a
// list item. numId 0 explicitly removes numbering.
func IsListParagraph(numID string) bool {
	return numID != "" && numID != "0"
}

// listBuilder groups consecutive list paragraphs into model.List blocks.
// A change of numbering instance starts a new list.
type listBuilder struct {
	resolver *NumberingResolver
	current  *model.List
	numID    string
}

// add appends an item to the open list, opening a new one when needed. It
// returns the list that was closed as a result, if any.
func (lb *listBuilder) add(numID string, level int, content []model.Block) *model.List {
	var closed *model.List
	if lb.current != nil && numID != lb.numID {
		closed = lb.flush()
	}
	if lb.current == nil {
		kind, start := lb.resolver.ResolveLevel(numID, level)
		lb.current = &model.List{Kind: kind, Start: start}
		lb.numID = numID
	}
	lb.current.Items = append(lb.current.Items, model.ListItem{Content: content, Level: level})
	return closed
}

// flush closes the open list and returns it, or nil if none is open.
func (lb *listBuilder) flush() *model.List {
	list := lb.current
	lb.current = nil
	lb.numID = ""
	return list
}
