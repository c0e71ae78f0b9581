package docx

import (
	"math"
	"strconv"
	"strings"
)

// WordprocessingML measures lengths in twentieths of a point (twips),
// font sizes in half-points, borders in eighths of a point and automatic
// line spacing in 240ths of a line.

func ptToTwips(pt float64) int { return int(math.Round(pt * 20)) }

func twipsToPt(s string) float64 { return float64(atoi(s)) / 20 }

func ptToHalfPoints(pt float64) int { return int(math.Round(pt * 2)) }

func halfPointsToPt(s string) float64 { return float64(atoi(s)) / 2 }

func ptToEighths(pt float64) int { return int(math.Round(pt * 8)) }

func eighthsToPt(s string) float64 { return float64(atoi(s)) / 8 }

func lineToMultiple(s string) float64 { return float64(atoi(s)) / 240 }

func multipleToLine(m float64) int { return int(math.Round(m * 240)) }

// atoi parses a decimal attribute, returning 0 for anything malformed.
// Some producers write fractional twips; the fraction is dropped.
func atoi(s string) int {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '.'); i >= 0 {
		s = s[:i]
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

func itoa(n int) string { return strconv.Itoa(n) }
