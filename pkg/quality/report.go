// Package quality inspects styled documents and assigns a quality verdict.
//
// A [Validator] runs five read-only checks over a document (typography,
// tables, spacing, heading structure and page layout) and collects
// [Issue]s. Each issue has a [Severity]; a [Policy] maps severities onto
// [Level]s and the report's level is the worst one reached. With the
// default policy a single critical issue fails the document no matter how
// many minor issues accompany it.
//
// Issues are never returned as errors: a FAILED report still comes with a
// complete styled document the caller may inspect.
package quality

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/google/uuid"
)

// Level is the overall verdict, ordered from best to worst.
type Level int

const (
	Perfect Level = iota
	Acceptable
	NeedsAttention
	Failed
)

var levelNames = [...]string{
	Perfect:        "PERFECT",
	Acceptable:     "ACCEPTABLE",
	NeedsAttention: "NEEDS_ATTENTION",
	Failed:         "FAILED",
}

func (l Level) String() string {
	if l >= 0 && int(l) < len(levelNames) {
		return levelNames[l]
	}
	return fmt.Sprintf("Level(%d)", int(l))
}

// MarshalText encodes the level by name.
func (l Level) MarshalText() ([]byte, error) { return []byte(l.String()), nil }

// UnmarshalText decodes a level name.
func (l *Level) UnmarshalText(b []byte) error {
	for i, name := range levelNames {
		if string(b) == name {
			*l = Level(i)
			return nil
		}
	}
	return fmt.Errorf("unknown quality level %q", b)
}

// ParseLevel parses a level name such as "NEEDS_ATTENTION".
func ParseLevel(s string) (Level, error) {
	var l Level
	err := l.UnmarshalText([]byte(s))
	return l, err
}

// Severity grades a single issue.
type Severity int

const (
	// Cosmetic issues are minor and auto-correctable.
	Cosmetic Severity = iota
	// Review issues need human judgment.
	Review
	// Critical issues are structural defects.
	Critical
)

var severityNames = [...]string{
	Cosmetic: "cosmetic",
	Review:   "review",
	Critical: "critical",
}

func (s Severity) String() string {
	if s >= 0 && int(s) < len(severityNames) {
		return severityNames[s]
	}
	return fmt.Sprintf("Severity(%d)", int(s))
}

// MarshalText encodes the severity by name.
func (s Severity) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText decodes a severity name.
func (s *Severity) UnmarshalText(b []byte) error {
	for i, name := range severityNames {
		if string(b) == name {
			*s = Severity(i)
			return nil
		}
	}
	return fmt.Errorf("unknown severity %q", b)
}

// Category names the check that raised an issue.
type Category string

const (
	CategoryTypography Category = "typography"
	CategoryTable      Category = "table"
	CategorySpacing    Category = "spacing"
	CategoryStructure  Category = "structure"
	CategoryLayout     Category = "layout"
)

// Issue is one finding.
type Issue struct {
	Category    Category `json:"category"`
	Severity    Severity `json:"severity"`
	Description string   `json:"description"`
	Location    string   `json:"location,omitempty"`
}

// Policy maps each severity to the verdict it forces.
type Policy map[Severity]Level

// DefaultPolicy is the standard priority chain: any critical issue fails
// the document, any review issue needs attention, and a document with only
// cosmetic issues is acceptable.
func DefaultPolicy() Policy {
	return Policy{
		Critical: Failed,
		Review:   NeedsAttention,
		Cosmetic: Acceptable,
	}
}

// Level returns the worst level any issue maps to, or Perfect for no issues.
// Severities missing from the policy map to NeedsAttention.
func (p Policy) Level(issues []Issue) Level {
	worst := Perfect
	for _, is := range issues {
		l, ok := p[is.Severity]
		if !ok {
			l = NeedsAttention
		}
		worst = max(worst, l)
	}
	return worst
}

// Report is the immutable result of one validation.
type Report struct {
	id     string
	level  Level
	issues []Issue
}

// NewReport builds a report with a fresh identifier, deriving the level from
// issues under policy.
func NewReport(issues []Issue, policy Policy) *Report {
	if policy == nil {
		policy = DefaultPolicy()
	}
	return &Report{
		id:     uuid.NewString(),
		level:  policy.Level(issues),
		issues: slices.Clone(issues),
	}
}

// ID returns the report's unique identifier.
func (r *Report) ID() string { return r.id }

// Level returns the verdict.
func (r *Report) Level() Level { return r.level }

// Issues returns a copy of the issues in the order they were found.
func (r *Report) Issues() []Issue { return slices.Clone(r.issues) }

// Counts returns the number of issues per severity.
func (r *Report) Counts() map[Severity]int {
	out := make(map[Severity]int)
	for _, is := range r.issues {
		out[is.Severity]++
	}
	return out
}

type reportJSON struct {
	ID     string  `json:"id"`
	Level  Level   `json:"level"`
	Issues []Issue `json:"issues"`
}

// MarshalJSON encodes the report as {"id", "level", "issues"}.
func (r *Report) MarshalJSON() ([]byte, error) {
	issues := r.issues
	if issues == nil {
		issues = []Issue{}
	}
	return json.Marshal(reportJSON{ID: r.id, Level: r.level, Issues: issues})
}

// UnmarshalJSON decodes a report previously encoded with MarshalJSON.
func (r *Report) UnmarshalJSON(data []byte) error {
	var v reportJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	r.id, r.level, r.issues = v.ID, v.Level, v.Issues
	return nil
}
