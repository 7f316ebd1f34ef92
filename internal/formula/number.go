package formula

import (
	"math"
	"strconv"
)

// FormatNumber prints integral values without a fractional part and infinity
// as "inf", matching how result tables show stock levels.
func FormatNumber(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	case math.IsNaN(v):
		return "nan"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
