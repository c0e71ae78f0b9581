package docx

import (
	"encoding/xml"
	"strconv"
)

// XML namespaces used in DOCX packages.
const (
	nsW  = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	nsR  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsCT = "http://schemas.openxmlformats.org/package/2006/content-types"
	nsPR = "http://schemas.openxmlformats.org/package/2006/relationships"
	nsCP = "http://schemas.openxmlformats.org/package/2006/metadata/core-properties"
	nsDC = "http://purl.org/dc/elements/1.1/"
)

// The structs in this file decode WordprocessingML. They match on local
// names, so the "w:" prefix is irrelevant when reading.

// documentXML represents the structure of word/document.xml.
type documentXML struct {
	XMLName xml.Name `xml:"document"`
	Body    *bodyXML `xml:"body"`
}

// bodyXML keeps paragraphs and tables in document order.
type bodyXML struct {
	Elements []bodyElement
	SectPr   *sectPrXML
}

// bodyElement is a paragraph or a table.
type bodyElement struct {
	Paragraph *paragraphXML
	Table     *tableXML
}

// sdtXML is a content control; its content is flattened into the body.
type sdtXML struct {
	Content bodyXML `xml:"sdtContent"`
}

// UnmarshalXML walks the body children in order. xml.Unmarshal would
// collect paragraphs and tables into separate slices and lose interleaving.
func (b *bodyXML) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				var p paragraphXML
				if err := d.DecodeElement(&p, &t); err != nil {
					return err
				}
				b.Elements = append(b.Elements, bodyElement{Paragraph: &p})
			case "tbl":
				var tbl tableXML
				if err := d.DecodeElement(&tbl, &t); err != nil {
					return err
				}
				b.Elements = append(b.Elements, bodyElement{Table: &tbl})
			case "sdt":
				var sdt sdtXML
				if err := d.DecodeElement(&sdt, &t); err != nil {
					return err
				}
				b.Elements = append(b.Elements, sdt.Content.Elements...)
			case "sectPr":
				var s sectPrXML
				if err := d.DecodeElement(&s, &t); err != nil {
					return err
				}
				b.SectPr = &s
			default:
				if err := d.Skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			return nil
		}
	}
}

// sectPrXML represents section properties.
type sectPrXML struct {
	PgMar *pgMarXML `xml:"pgMar"`
}

// pgMarXML represents page margins in twips.
type pgMarXML struct {
	Top    string `xml:"top,attr"`
	Bottom string `xml:"bottom,attr"`
	Left   string `xml:"left,attr"`
	Right  string `xml:"right,attr"`
}

// paragraphXML represents a paragraph element (<w:p>).
type paragraphXML struct {
	Properties paragraphPropsXML
	Runs       []runXML
}

// runContainerXML is an inline wrapper (hyperlink, insertion, smart tag)
// whose runs belong to the enclosing paragraph.
type runContainerXML struct {
	Runs []runXML `xml:"r"`
}

// UnmarshalXML collects runs in order, including runs nested in inline
// wrappers.
func (p *paragraphXML) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "pPr":
				if err := d.DecodeElement(&p.Properties, &t); err != nil {
					return err
				}
			case "r":
				var r runXML
				if err := d.DecodeElement(&r, &t); err != nil {
					return err
				}
				p.Runs = append(p.Runs, r)
			case "hyperlink", "ins", "smartTag", "fldSimple":
				var c runContainerXML
				if err := d.DecodeElement(&c, &t); err != nil {
					return err
				}
				p.Runs = append(p.Runs, c.Runs...)
			case "sdt":
				var sdt inlineSdtXML
				if err := d.DecodeElement(&sdt, &t); err != nil {
					return err
				}
				p.Runs = append(p.Runs, sdt.Content.Runs...)
			default:
				if err := d.Skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			return nil
		}
	}
}

// inlineSdtXML is a content control inside a paragraph. Its content is
// walked like a paragraph, so nested wrappers keep their runs.
type inlineSdtXML struct {
	Content paragraphXML `xml:"sdtContent"`
}

// paragraphPropsXML represents paragraph properties (<w:pPr>).
type paragraphPropsXML struct {
	Style           valXML     `xml:"pStyle"`
	NumPr           *numPrXML  `xml:"numPr"`
	Justification   valXML     `xml:"jc"`
	Spacing         spacingXML `xml:"spacing"`
	Indent          indentXML  `xml:"ind"`
	OutlineLvl      valXML     `xml:"outlineLvl"`
	KeepNext        *onOffXML  `xml:"keepNext"`
	PageBreakBefore *onOffXML  `xml:"pageBreakBefore"`
	SectPr          *sectPrXML `xml:"sectPr"`
}

// valXML is any element carrying a single w:val attribute.
type valXML struct {
	Val string `xml:"val,attr"`
}

// onOffXML is a toggle property; presence means on unless val says otherwise.
type onOffXML struct {
	Val string `xml:"val,attr"`
}

func (o *onOffXML) on() bool {
	if o == nil {
		return false
	}
	switch o.Val {
	case "false", "0", "off":
		return false
	}
	return true
}

// numPrXML represents numbering properties for lists.
type numPrXML struct {
	ILvl  valXML `xml:"ilvl"`
	NumID valXML `xml:"numId"`
}

// spacingXML represents paragraph spacing.
type spacingXML struct {
	Before   string `xml:"before,attr"` // twips
	After    string `xml:"after,attr"`  // twips
	Line     string `xml:"line,attr"`   // 240ths of a line when lineRule is auto
	LineRule string `xml:"lineRule,attr"`
}

// indentXML represents paragraph indentation.
type indentXML struct {
	Left  string `xml:"left,attr"`
	Start string `xml:"start,attr"`
	Right string `xml:"right,attr"`
	End   string `xml:"end,attr"`
}

// runXML represents a text run (<w:r>). Text, tabs and breaks are decoded
// in order by UnmarshalXML.
type runXML struct {
	Properties runPropsXML
	Text       string
}

// UnmarshalXML collects run content in document order.
func (r *runXML) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var text []byte
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "rPr":
				if err := d.DecodeElement(&r.Properties, &t); err != nil {
					return err
				}
			case "t":
				var s string
				if err := d.DecodeElement(&s, &t); err != nil {
					return err
				}
				text = append(text, s...)
			case "tab":
				text = append(text, '\t')
				if err := d.Skip(); err != nil {
					return err
				}
			case "br", "cr":
				text = append(text, '\n')
				if err := d.Skip(); err != nil {
					return err
				}
			default:
				if err := d.Skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			r.Text = string(text)
			return nil
		}
	}
}

// runPropsXML represents run properties (<w:rPr>).
type runPropsXML struct {
	Bold      *onOffXML `xml:"b"`
	Italic    *onOffXML `xml:"i"`
	Underline *valXML   `xml:"u"`
	FontSize  valXML    `xml:"sz"` // half-points
	Font      fontXML   `xml:"rFonts"`
	Color     valXML    `xml:"color"`
}

// fontXML represents font settings.
type fontXML struct {
	ASCII string `xml:"ascii,attr"`
	HAnsi string `xml:"hAnsi,attr"`
}

// tableXML represents a table (<w:tbl>).
type tableXML struct {
	Grid tableGridXML
	Rows []tableRowXML
}

// rowSdtXML is a content control wrapping rows; its rows join the table.
type rowSdtXML struct {
	Content struct {
		Rows []tableRowXML `xml:"tr"`
	} `xml:"sdtContent"`
}

// UnmarshalXML collects rows in order, including rows nested in content
// controls.
func (tbl *tableXML) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "tblGrid":
				if err := d.DecodeElement(&tbl.Grid, &t); err != nil {
					return err
				}
			case "tr":
				var row tableRowXML
				if err := d.DecodeElement(&row, &t); err != nil {
					return err
				}
				tbl.Rows = append(tbl.Rows, row)
			case "sdt":
				var sdt rowSdtXML
				if err := d.DecodeElement(&sdt, &t); err != nil {
					return err
				}
				tbl.Rows = append(tbl.Rows, sdt.Content.Rows...)
			default:
				if err := d.Skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			return nil
		}
	}
}

// tableGridXML represents the table grid definition.
type tableGridXML struct {
	Cols []gridColXML `xml:"gridCol"`
}

// gridColXML represents a grid column.
type gridColXML struct {
	W string `xml:"w,attr"` // twips
}

// tableRowXML represents a table row (<w:tr>).
type tableRowXML struct {
	Properties rowPropsXML
	Cells      []tableCellXML
}

// cellSdtXML is a content control wrapping cells; its cells join the row.
type cellSdtXML struct {
	Content struct {
		Cells []tableCellXML `xml:"tc"`
	} `xml:"sdtContent"`
}

// UnmarshalXML collects cells in order, including cells nested in content
// controls.
func (row *tableRowXML) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "trPr":
				if err := d.DecodeElement(&row.Properties, &t); err != nil {
					return err
				}
			case "tc":
				var c tableCellXML
				if err := d.DecodeElement(&c, &t); err != nil {
					return err
				}
				row.Cells = append(row.Cells, c)
			case "sdt":
				var sdt cellSdtXML
				if err := d.DecodeElement(&sdt, &t); err != nil {
					return err
				}
				row.Cells = append(row.Cells, sdt.Content.Cells...)
			default:
				if err := d.Skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			return nil
		}
	}
}

// rowPropsXML represents row properties.
type rowPropsXML struct {
	Height *rowHeightXML `xml:"trHeight"`
	Header *onOffXML     `xml:"tblHeader"`
}

// rowHeightXML represents row height.
type rowHeightXML struct {
	Val  string `xml:"val,attr"`
	Rule string `xml:"hRule,attr"`
}

// tableCellXML represents a table cell (<w:tc>).
type tableCellXML struct {
	Properties cellPropsXML
	Paragraphs []paragraphXML
	Tables     []tableXML
}

// UnmarshalXML collects cell content, including blocks nested in content
// controls.
func (c *tableCellXML) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "tcPr":
				if err := d.DecodeElement(&c.Properties, &t); err != nil {
					return err
				}
			case "p":
				var p paragraphXML
				if err := d.DecodeElement(&p, &t); err != nil {
					return err
				}
				c.Paragraphs = append(c.Paragraphs, p)
			case "tbl":
				var tbl tableXML
				if err := d.DecodeElement(&tbl, &t); err != nil {
					return err
				}
				c.Tables = append(c.Tables, tbl)
			case "sdt":
				var sdt sdtXML
				if err := d.DecodeElement(&sdt, &t); err != nil {
					return err
				}
				for _, el := range sdt.Content.Elements {
					switch {
					case el.Paragraph != nil:
						c.Paragraphs = append(c.Paragraphs, *el.Paragraph)
					case el.Table != nil:
						c.Tables = append(c.Tables, *el.Table)
					}
				}
			default:
				if err := d.Skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			return nil
		}
	}
}

// cellPropsXML represents cell properties.
type cellPropsXML struct {
	GridSpan valXML         `xml:"gridSpan"`
	Borders  cellBordersXML `xml:"tcBorders"`
	Shading  shadingXML     `xml:"shd"`
	Margins  cellMarginsXML `xml:"tcMar"`
}

// cellBordersXML represents cell borders.
type cellBordersXML struct {
	Top    *borderXML `xml:"top"`
	Bottom *borderXML `xml:"bottom"`
	Left   *borderXML `xml:"left"`
	Right  *borderXML `xml:"right"`
}

// borderXML represents a single border.
type borderXML struct {
	Val   string `xml:"val,attr"`   // single, nil, none, ...
	Sz    string `xml:"sz,attr"`    // eighths of a point
	Color string `xml:"color,attr"` // hex or auto
}

// cellMarginsXML represents per-cell padding.
type cellMarginsXML struct {
	Top    *widthXML `xml:"top"`
	Bottom *widthXML `xml:"bottom"`
	Left   *widthXML `xml:"left"`
	Right  *widthXML `xml:"right"`
}

// widthXML represents a measurement with a unit type.
type widthXML struct {
	W    string `xml:"w,attr"`
	Type string `xml:"type,attr"`
}

// shadingXML represents cell shading.
type shadingXML struct {
	Val  string `xml:"val,attr"`
	Fill string `xml:"fill,attr"`
}

// stylesXML represents the structure of word/styles.xml.
type stylesXML struct {
	Styles []styleDefXML `xml:"style"`
}

// styleDefXML represents a style definition.
type styleDefXML struct {
	Type    string            `xml:"type,attr"`
	StyleID string            `xml:"styleId,attr"`
	Name    valXML            `xml:"name"`
	BasedOn valXML            `xml:"basedOn"`
	PPr     paragraphPropsXML `xml:"pPr"`
}

// numberingXML represents word/numbering.xml.
type numberingXML struct {
	AbstractNums []abstractNumXML `xml:"abstractNum"`
	Nums         []numXML         `xml:"num"`
}

// abstractNumXML represents an abstract numbering definition.
type abstractNumXML struct {
	AbstractNumID string   `xml:"abstractNumId,attr"`
	Levels        []lvlXML `xml:"lvl"`
}

// lvlXML represents a numbering level.
type lvlXML struct {
	ILvl   string `xml:"ilvl,attr"`
	Start  valXML `xml:"start"`
	NumFmt valXML `xml:"numFmt"`
}

// numXML represents a numbering instance.
type numXML struct {
	NumID         string           `xml:"numId,attr"`
	AbstractNumID valXML           `xml:"abstractNumId"`
	Overrides     []lvlOverrideXML `xml:"lvlOverride"`
}

// lvlOverrideXML overrides one level of the abstract definition.
type lvlOverrideXML struct {
	ILvl          string  `xml:"ilvl,attr"`
	StartOverride *valXML `xml:"startOverride"`
}

// startOverride returns the restart value for level, if the instance sets one.
func (n numXML) startOverride(level int) (int, bool) {
	want := strconv.Itoa(level)
	for _, o := range n.Overrides {
		if o.ILvl != want || o.StartOverride == nil {
			continue
		}
		start, err := strconv.Atoi(o.StartOverride.Val)
		if err != nil {
			return 0, false
		}
		return start, true
	}
	return 0, false
}
