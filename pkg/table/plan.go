// Package table formats document tables for a brand theme.
//
// [Format] pads ragged rows, plans column widths from content length, and
// applies the brand's header, border, banding and padding rules. [PlanColumns]
// is the pure width planner on its own.
package table

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/matzehuels/polisher/pkg/document"
)

// Column fraction bounds for tables with two or more columns.
const (
	MinFraction = 0.15
	MaxFraction = 0.60
)

const (
	// maxPasses bounds the clamp-and-redistribute loop.
	maxPasses = 8
	// sumTolerance is how far the fractions may drift from 1.
	sumTolerance = 1e-3
	epsilon      = 1e-9
)

// ColumnWidthPlan is one fraction of the content width per grid column.
type ColumnWidthPlan struct {
	Fractions []float64
	// Fallback is set when the bounded plan was infeasible or did not
	// converge and equal widths were used instead.
	Fallback bool
}

// Widths scales the plan to a content width in points.
func (p ColumnWidthPlan) Widths(contentWidth float64) []float64 {
	out := make([]float64, len(p.Fractions))
	for i, f := range p.Fractions {
		out[i] = f * contentWidth
	}
	return out
}

// PlanColumns computes column fractions proportional to the longest trimmed
// cell text in each column, clamped to [MinFraction, MaxFraction].
//
// A single column always gets the full width. When the bounds cannot be met
// (seven or more columns cannot all be at least 15% wide) or the
// redistribution does not settle within the pass budget, every column gets
// an equal share and Fallback is set.
func PlanColumns(t *document.Table) ColumnWidthPlan {
	weights := columnWeights(t)
	n := len(weights)
	switch {
	case n == 0:
		return ColumnWidthPlan{}
	case n == 1:
		return ColumnWidthPlan{Fractions: []float64{1}}
	case float64(n)*MinFraction > 1+epsilon || float64(n)*MaxFraction < 1-epsilon:
		return equalPlan(n)
	}

	f := normalize(weights)
	for range maxPasses {
		clamp(f)

		excess := sum(f) - 1
		if math.Abs(excess) < epsilon {
			break
		}

		// Shed an excess from columns above the minimum, fill a deficit
		// into columns below the maximum.
		var eligible float64
		for _, v := range f {
			if movable(v, excess) {
				eligible += v
			}
		}
		if eligible == 0 {
			return equalPlan(n)
		}
		for i, v := range f {
			if movable(v, excess) {
				f[i] -= excess * v / eligible
			}
		}
	}

	if !valid(f) {
		return equalPlan(n)
	}
	return ColumnWidthPlan{Fractions: f}
}

// columnWeights returns, per grid column, the longest trimmed text length of
// any cell starting in that column. Spanning cells share their length
// evenly across the columns they cover. Every weight is at least 1.
func columnWeights(t *document.Table) []float64 {
	n := t.ColumnCount()
	if n == 0 {
		return nil
	}
	w := make([]float64, n)
	for _, r := range t.Rows {
		col := 0
		for _, c := range r.Cells {
			span := c.GridSpan()
			length := float64(utf8.RuneCountInString(strings.TrimSpace(c.Text()))) / float64(span)
			for i := col; i < col+span && i < n; i++ {
				w[i] = max(w[i], length)
			}
			col += span
		}
	}
	for i := range w {
		w[i] = max(w[i], 1)
	}
	return w
}

func normalize(w []float64) []float64 {
	total := sum(w)
	out := make([]float64, len(w))
	for i, v := range w {
		out[i] = v / total
	}
	return out
}

func clamp(f []float64) {
	for i, v := range f {
		f[i] = min(max(v, MinFraction), MaxFraction)
	}
}

func movable(v, excess float64) bool {
	if excess > 0 {
		return v > MinFraction+epsilon
	}
	return v < MaxFraction-epsilon
}

func valid(f []float64) bool {
	if math.Abs(sum(f)-1) > sumTolerance {
		return false
	}
	for _, v := range f {
		if v < MinFraction-epsilon || v > MaxFraction+epsilon {
			return false
		}
	}
	return true
}

func equalPlan(n int) ColumnWidthPlan {
	f := make([]float64, n)
	for i := range f {
		f[i] = 1 / float64(n)
	}
	return ColumnWidthPlan{Fractions: f, Fallback: true}
}

func sum(f []float64) float64 {
	var s float64
	for _, v := range f {
		s += v
	}
	return s
}
