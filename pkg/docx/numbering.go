package docx

import (
	"strconv"

	"github.com/matzehuels/polisher/pkg/document"
)

// numberingResolver resolves list kinds and sequences from numbering.xml.
//
// Word continues counting across numbering instances that share an
// abstract definition unless an instance overrides the start of its first
// level. Such continuing instances are folded onto one sequence id.
type numberingResolver struct {
	abstractNums map[string]*abstractNumXML // abstractNumId -> definition
	numMappings  map[string]string          // numId -> abstractNumId
	sequences    map[string]string          // numId -> numId of the sequence it continues
	starts       map[string]int             // numId -> startOverride of level 0
}

func newNumberingResolver(numbering *numberingXML) *numberingResolver {
	nr := &numberingResolver{
		abstractNums: make(map[string]*abstractNumXML),
		numMappings:  make(map[string]string),
		sequences:    make(map[string]string),
		starts:       make(map[string]int),
	}
	if numbering == nil {
		return nr
	}
	for i := range numbering.AbstractNums {
		an := &numbering.AbstractNums[i]
		nr.abstractNums[an.AbstractNumID] = an
	}

	continued := make(map[string]string) // abstractNumId -> first numId without override
	for _, num := range numbering.Nums {
		abstractID := num.AbstractNumID.Val
		nr.numMappings[num.NumID] = abstractID
		if start, ok := num.startOverride(0); ok {
			nr.starts[num.NumID] = start
			nr.sequences[num.NumID] = num.NumID
			continue
		}
		first, ok := continued[abstractID]
		if !ok {
			first = num.NumID
			continued[abstractID] = first
		}
		nr.sequences[num.NumID] = first
	}
	return nr
}

// sequence returns the id of the numbering sequence numID belongs to.
func (nr *numberingResolver) sequence(numID string) string {
	if seq, ok := nr.sequences[numID]; ok {
		return seq
	}
	return numID
}

// start returns the first number of numID's top level, or 0 when the list
// starts at 1.
func (nr *numberingResolver) start(numID string) int {
	start, ok := nr.starts[numID]
	if !ok {
		if lvl := nr.level(numID, 0); lvl != nil && lvl.Start.Val != "" {
			start, _ = strconv.Atoi(lvl.Start.Val)
		}
	}
	if start == 1 {
		return 0
	}
	return start
}

// kind returns the list kind for numID at level. ok is false when the
// numbering definition is missing, so callers can fall back on the style.
func (nr *numberingResolver) kind(numID string, level int) (kind document.ListKind, ok bool) {
	lvl := nr.level(numID, level)
	if lvl == nil {
		return document.ListUnordered, false
	}
	switch lvl.NumFmt.Val {
	case "bullet", "none", "":
		return document.ListUnordered, true
	default:
		return document.ListOrdered, true
	}
}

func (nr *numberingResolver) level(numID string, level int) *lvlXML {
	abstractID, found := nr.numMappings[numID]
	if !found {
		return nil
	}
	an, found := nr.abstractNums[abstractID]
	if !found {
		return nil
	}
	levelStr := strconv.Itoa(level)
	for i := range an.Levels {
		if an.Levels[i].ILvl == levelStr {
			return &an.Levels[i]
		}
	}
	return nil
}
