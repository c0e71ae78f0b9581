package document

// Body returns a body paragraph holding text as a single run.
// An empty text yields a paragraph without runs.
func Body(text string) *Paragraph {
	return newParagraph(RoleBody, text)
}

// Heading returns a heading paragraph of the given level.
func Heading(level int, text string) *Paragraph {
	p := newParagraph(RoleHeading, text)
	p.Level = level
	return p
}

// Title returns a document title paragraph.
func Title(text string) *Paragraph { return newParagraph(RoleTitle, text) }

// Subtitle returns a document subtitle paragraph.
func Subtitle(text string) *Paragraph { return newParagraph(RoleSubtitle, text) }

// Quote returns a block quote paragraph.
func Quote(text string) *Paragraph { return newParagraph(RoleQuote, text) }

// Caption returns a caption paragraph.
func Caption(text string) *Paragraph { return newParagraph(RoleCaption, text) }

// ListItem returns a list item of the given kind and depth.
func ListItem(kind ListKind, depth int, text string) *Paragraph {
	p := newParagraph(RoleListItem, text)
	p.List = &ListInfo{Kind: kind, Depth: depth, NumID: 1}
	return p
}

func newParagraph(role Role, text string) *Paragraph {
	p := &Paragraph{Role: role}
	if text != "" {
		p.Runs = []Run{{Text: text}}
	}
	return p
}
