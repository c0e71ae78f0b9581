package docx

import "encoding/xml"

// The structs in this file encode WordprocessingML. encoding/xml writes tag
// names verbatim, so the "w:" prefix is spelled out and bound once on the
// root element.

type wDocument struct {
	XMLName xml.Name `xml:"w:document"`
	XmlnsW  string   `xml:"xmlns:w,attr"`
	XmlnsR  string   `xml:"xmlns:r,attr"`
	Body    wBody    `xml:"w:body"`
}

type wBody struct {
	Content []any    `xml:",any"`
	SectPr  *wSectPr `xml:"w:sectPr"`
}

type wSectPr struct {
	XMLName xml.Name `xml:"w:sectPr"`
	PgSz    wPgSz    `xml:"w:pgSz"`
	PgMar   wPgMar   `xml:"w:pgMar"`
}

type wPgSz struct {
	W int `xml:"w:w,attr"`
	H int `xml:"w:h,attr"`
}

type wPgMar struct {
	Top    int `xml:"w:top,attr"`
	Right  int `xml:"w:right,attr"`
	Bottom int `xml:"w:bottom,attr"`
	Left   int `xml:"w:left,attr"`
	Header int `xml:"w:header,attr"`
	Footer int `xml:"w:footer,attr"`
	Gutter int `xml:"w:gutter,attr"`
}

type wVal struct {
	Val string `xml:"w:val,attr"`
}

type wOn struct{}

type wP struct {
	XMLName xml.Name `xml:"w:p"`
	PPr     *wPPr    `xml:"w:pPr"`
	Runs    []wR     `xml:"w:r"`
}

type wPPr struct {
	PStyle          *wVal     `xml:"w:pStyle"`
	KeepNext        *wOn      `xml:"w:keepNext"`
	PageBreakBefore *wOn      `xml:"w:pageBreakBefore"`
	NumPr           *wNumPr   `xml:"w:numPr"`
	Spacing         *wSpacing `xml:"w:spacing"`
	Ind             *wInd     `xml:"w:ind"`
	Jc              *wVal     `xml:"w:jc"`
	SectPr          *wSectPr  `xml:"w:sectPr"`
}

type wNumPr struct {
	ILvl  wVal `xml:"w:ilvl"`
	NumID wVal `xml:"w:numId"`
}

type wSpacing struct {
	Before   int    `xml:"w:before,attr"`
	After    int    `xml:"w:after,attr"`
	Line     int    `xml:"w:line,attr,omitempty"`
	LineRule string `xml:"w:lineRule,attr,omitempty"`
}

type wInd struct {
	Left  int `xml:"w:left,attr"`
	Right int `xml:"w:right,attr"`
}

type wR struct {
	RPr     *wRPr `xml:"w:rPr"`
	Content []any `xml:",any"`
}

type wRPr struct {
	RFonts *wRFonts `xml:"w:rFonts"`
	B      *wOn     `xml:"w:b"`
	I      *wOn     `xml:"w:i"`
	Color  *wVal    `xml:"w:color"`
	Sz     *wVal    `xml:"w:sz"`
	SzCs   *wVal    `xml:"w:szCs"`
	U      *wVal    `xml:"w:u"`
}

type wRFonts struct {
	ASCII string `xml:"w:ascii,attr"`
	HAnsi string `xml:"w:hAnsi,attr"`
	CS    string `xml:"w:cs,attr"`
}

type wT struct {
	XMLName xml.Name `xml:"w:t"`
	Space   string   `xml:"xml:space,attr,omitempty"`
	Value   string   `xml:",chardata"`
}

type wTab struct {
	XMLName xml.Name `xml:"w:tab"`
}

type wBr struct {
	XMLName xml.Name `xml:"w:br"`
}

type wTbl struct {
	XMLName xml.Name `xml:"w:tbl"`
	TblPr   wTblPr   `xml:"w:tblPr"`
	Grid    wTblGrid `xml:"w:tblGrid"`
	Rows    []wTr    `xml:"w:tr"`
}

type wTblPr struct {
	TblStyle   *wVal        `xml:"w:tblStyle"`
	TblW       wWidth       `xml:"w:tblW"`
	TblLayout  *wTblLayout  `xml:"w:tblLayout"`
	TblBorders *wTblBorders `xml:"w:tblBorders"`
	TblLook    *wTblLook    `xml:"w:tblLook"`
}

type wTblLayout struct {
	Type string `xml:"w:type,attr"`
}

type wTblLook struct {
	Val      string `xml:"w:val,attr"`
	FirstRow int    `xml:"w:firstRow,attr"`
	NoHBand  int    `xml:"w:noHBand,attr"`
	NoVBand  int    `xml:"w:noVBand,attr"`
}

type wTblBorders struct {
	Top     wBorder `xml:"w:top"`
	Left    wBorder `xml:"w:left"`
	Bottom  wBorder `xml:"w:bottom"`
	Right   wBorder `xml:"w:right"`
	InsideH wBorder `xml:"w:insideH"`
	InsideV wBorder `xml:"w:insideV"`
}

type wWidth struct {
	W    int    `xml:"w:w,attr"`
	Type string `xml:"w:type,attr"`
}

type wTblGrid struct {
	Cols []wGridCol `xml:"w:gridCol"`
}

type wGridCol struct {
	W int `xml:"w:w,attr"`
}

type wTr struct {
	TrPr  *wTrPr `xml:"w:trPr"`
	Cells []wTc  `xml:"w:tc"`
}

type wTrPr struct {
	TrHeight  *wTrHeight `xml:"w:trHeight"`
	TblHeader *wOn       `xml:"w:tblHeader"`
}

type wTrHeight struct {
	Val  int    `xml:"w:val,attr"`
	Rule string `xml:"w:hRule,attr"`
}

type wTc struct {
	TcPr       wTcPr `xml:"w:tcPr"`
	Paragraphs []wP  `xml:"w:p"`
}

type wTcPr struct {
	TcW       wWidth        `xml:"w:tcW"`
	GridSpan  *wVal         `xml:"w:gridSpan"`
	TcBorders *wTcBorders   `xml:"w:tcBorders"`
	Shd       *wShd         `xml:"w:shd"`
	TcMar     *wCellMargins `xml:"w:tcMar"`
}

type wTcBorders struct {
	Top    wBorder `xml:"w:top"`
	Left   wBorder `xml:"w:left"`
	Bottom wBorder `xml:"w:bottom"`
	Right  wBorder `xml:"w:right"`
}

type wBorder struct {
	Val   string `xml:"w:val,attr"`
	Sz    int    `xml:"w:sz,attr,omitempty"`
	Space int    `xml:"w:space,attr"`
	Color string `xml:"w:color,attr,omitempty"`
}

type wShd struct {
	Val   string `xml:"w:val,attr"`
	Color string `xml:"w:color,attr"`
	Fill  string `xml:"w:fill,attr"`
}

type wCellMargins struct {
	Top    wWidth `xml:"w:top"`
	Left   wWidth `xml:"w:left"`
	Bottom wWidth `xml:"w:bottom"`
	Right  wWidth `xml:"w:right"`
}

// numbering.xml

type wNumbering struct {
	XMLName      xml.Name       `xml:"w:numbering"`
	XmlnsW       string         `xml:"xmlns:w,attr"`
	AbstractNums []wAbstractNum `xml:"w:abstractNum"`
	Nums         []wNum         `xml:"w:num"`
}

type wAbstractNum struct {
	ID     int    `xml:"w:abstractNumId,attr"`
	Levels []wLvl `xml:"w:lvl"`
}

type wLvl struct {
	ILvl    int     `xml:"w:ilvl,attr"`
	Start   wVal    `xml:"w:start"`
	NumFmt  wVal    `xml:"w:numFmt"`
	LvlText wVal    `xml:"w:lvlText"`
	LvlJc   wVal    `xml:"w:lvlJc"`
	PPr     wLvlPPr `xml:"w:pPr"`
}

type wLvlPPr struct {
	Ind wHangingInd `xml:"w:ind"`
}

type wHangingInd struct {
	Left    int `xml:"w:left,attr"`
	Hanging int `xml:"w:hanging,attr"`
}

type wNum struct {
	ID            int            `xml:"w:numId,attr"`
	AbstractNumID wVal           `xml:"w:abstractNumId"`
	LvlOverrides  []wLvlOverride `xml:"w:lvlOverride"`
}

type wLvlOverride struct {
	ILvl          int  `xml:"w:ilvl,attr"`
	StartOverride wVal `xml:"w:startOverride"`
}

// core properties

type wCoreProperties struct {
	XMLName xml.Name `xml:"cp:coreProperties"`
	XmlnsCP string   `xml:"xmlns:cp,attr"`
	XmlnsDC string   `xml:"xmlns:dc,attr"`
	Title   string   `xml:"dc:title,omitempty"`
	Creator string   `xml:"dc:creator"`
}
