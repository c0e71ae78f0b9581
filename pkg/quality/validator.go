package quality

import (
	"fmt"
	"math"

	"github.com/matzehuels/polisher/pkg/document"
	"github.com/matzehuels/polisher/pkg/table"
)

const (
	// DefaultRuntWords flags paragraphs with fewer words than this.
	DefaultRuntWords = 2
	// emptyRunLimit is the number of consecutive empty paragraphs that
	// counts as excessive spacing.
	emptyRunLimit = 3
	// marginTolerance absorbs twip rounding in documents read back from disk.
	marginTolerance = 0.5
)

// Validator checks styled documents. The zero value is not usable; call New.
// A Validator is immutable and safe for concurrent use.
type Validator struct {
	policy    Policy
	runtWords int
	margins   document.Margins
}

// Option configures a Validator.
type Option func(*Validator)

// WithPolicy replaces the severity-to-level mapping.
func WithPolicy(p Policy) Option { return func(v *Validator) { v.policy = p } }

// WithRuntThreshold sets the word count below which a paragraph is a runt.
func WithRuntThreshold(words int) Option { return func(v *Validator) { v.runtWords = words } }

// WithMargins sets the expected page margins.
func WithMargins(m document.Margins) Option { return func(v *Validator) { v.margins = m } }

// New returns a Validator with the default policy, a runt threshold of two
// words and the professional margin preset.
func New(opts ...Option) *Validator {
	v := &Validator{
		policy:    DefaultPolicy(),
		runtWords: DefaultRuntWords,
		margins:   document.ProfessionalMargins,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate inspects doc and returns a report. doc is not modified.
func (v *Validator) Validate(doc *document.Document) *Report {
	var issues []Issue
	issues = append(issues, v.checkTypography(doc)...)
	issues = append(issues, checkTables(doc)...)
	issues = append(issues, checkSpacing(doc)...)
	issues = append(issues, checkStructure(doc)...)
	issues = append(issues, v.checkLayout(doc)...)
	return NewReport(issues, v.policy)
}

// checkTypography flags runt lines: a heading or body paragraph shorter than
// the word threshold that is alone in its section, or a body paragraph of
// that length trailing a heading or list item.
func (v *Validator) checkTypography(doc *document.Document) []Issue {
	var issues []Issue
	for si, sec := range doc.Sections {
		var text []*document.Paragraph
		for _, b := range sec.Blocks {
			if p, ok := b.(*document.Paragraph); ok && !p.IsEmpty() {
				text = append(text, p)
			}
		}

		var prev document.Block
		for bi, b := range sec.Blocks {
			p, ok := b.(*document.Paragraph)
			if !ok {
				prev = b
				continue
			}
			if p.IsEmpty() {
				continue
			}

			if runtCandidate(p) && p.WordCount() < v.runtWords {
				alone := len(text) == 1
				trailing := p.Role != document.RoleHeading && trailsHeadingOrList(prev)
				if alone || trailing {
					issues = append(issues, Issue{
						Category:    CategoryTypography,
						Severity:    Review,
						Description: fmt.Sprintf("runt line %q may orphan or widow", p.Text()),
						Location:    location(si, bi),
					})
				}
			}
			prev = b
		}
	}
	return issues
}

func runtCandidate(p *document.Paragraph) bool {
	switch p.Role {
	case document.RoleHeading, document.RoleBody, document.RoleUnclassified:
		return true
	}
	return false
}

func trailsHeadingOrList(b document.Block) bool {
	p, ok := b.(*document.Paragraph)
	return ok && (p.Role == document.RoleHeading || p.Role == document.RoleListItem)
}

// checkTables flags ragged tables as critical and empty header cells for
// review.
func checkTables(doc *document.Document) []Issue {
	var issues []Issue
	for si, sec := range doc.Sections {
		for bi, b := range sec.Blocks {
			t, ok := b.(*document.Table)
			if !ok {
				continue
			}
			loc := location(si, bi)

			if t.IsRagged() {
				desc := fmt.Sprintf("rows have unequal cell counts (widest is %d columns)", t.ColumnCount())
				if t.ColumnCount() > table.MaxGridColumns {
					desc += fmt.Sprintf("; more than %d columns cannot be padded", table.MaxGridColumns)
				}
				issues = append(issues, Issue{
					Category:    CategoryTable,
					Severity:    Critical,
					Description: desc,
					Location:    loc,
				})
			}

			headers := t.HeaderRows()
			if len(headers) == 0 && len(t.Rows) > 0 {
				headers = t.Rows[:1]
			}
			for ri, r := range headers {
				for ci, c := range r.Cells {
					if c.IsEmpty() {
						issues = append(issues, Issue{
							Category:    CategoryTable,
							Severity:    Review,
							Description: "header cell is empty",
							Location:    fmt.Sprintf("%s, row %d, cell %d", loc, ri+1, ci+1),
						})
					}
				}
			}
		}
	}
	return issues
}

// checkSpacing flags each run of emptyRunLimit or more consecutive empty
// paragraphs once. Tables interrupt a run.
func checkSpacing(doc *document.Document) []Issue {
	var issues []Issue
	for si, sec := range doc.Sections {
		run, start := 0, 0
		flush := func() {
			if run >= emptyRunLimit {
				issues = append(issues, Issue{
					Category:    CategorySpacing,
					Severity:    Cosmetic,
					Description: fmt.Sprintf("%d consecutive empty paragraphs", run),
					Location:    location(si, start),
				})
			}
			run = 0
		}
		for bi, b := range sec.Blocks {
			if p, ok := b.(*document.Paragraph); ok && p.IsEmpty() {
				if run == 0 {
					start = bi
				}
				run++
				continue
			}
			flush()
		}
		flush()
	}
	return issues
}

// checkStructure flags a heading whose level exceeds the previous heading's
// level by more than one. Headings are compared across section boundaries.
// The first heading may start at any level.
func checkStructure(doc *document.Document) []Issue {
	var issues []Issue
	prevLevel := 0
	for si, sec := range doc.Sections {
		for bi, b := range sec.Blocks {
			p, ok := b.(*document.Paragraph)
			if !ok || p.Role != document.RoleHeading {
				continue
			}
			if prevLevel > 0 && p.Level > prevLevel+1 {
				issues = append(issues, Issue{
					Category:    CategoryStructure,
					Severity:    Review,
					Description: fmt.Sprintf("skipped heading level: H%d followed by H%d", prevLevel, p.Level),
					Location:    location(si, bi),
				})
			}
			prevLevel = p.Level
		}
	}
	return issues
}

// checkLayout flags sections whose margins differ from the expected preset.
func (v *Validator) checkLayout(doc *document.Document) []Issue {
	var issues []Issue
	for si, sec := range doc.Sections {
		if marginsMatch(sec.Margins, v.margins) {
			continue
		}
		m := sec.Margins
		issues = append(issues, Issue{
			Category: CategoryLayout,
			Severity: Cosmetic,
			Description: fmt.Sprintf("margins %g/%g/%g/%g pt differ from preset %g/%g/%g/%g pt",
				m.Top, m.Bottom, m.Left, m.Right,
				v.margins.Top, v.margins.Bottom, v.margins.Left, v.margins.Right),
			Location: fmt.Sprintf("section %d", si+1),
		})
	}
	return issues
}

func marginsMatch(a, b document.Margins) bool {
	near := func(x, y float64) bool { return math.Abs(x-y) <= marginTolerance }
	return near(a.Top, b.Top) && near(a.Bottom, b.Bottom) && near(a.Left, b.Left) && near(a.Right, b.Right)
}

func location(section, block int) string {
	return fmt.Sprintf("section %d, block %d", section+1, block+1)
}

// Fingerprint identifies the validator's configuration. Two validators with
// equal fingerprints produce the same verdict for the same document.
func (v *Validator) Fingerprint() string {
	return fmt.Sprintf("%v|%d|%v", v.policy, v.runtWords, v.margins)
}
