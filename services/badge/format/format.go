package format

import (
	"strconv"
	"strings"
)

// Abbreviate renders an integer as a short human-readable string: values under
// one thousand are printed as-is, larger values are scaled to K or M with at
// most one decimal digit
func Abbreviate(n int64) string {
	if n < 0 {
		// the magnitude is computed in uint64 because -math.MinInt64 does not fit an int64
		return "-" + abbreviateMagnitude(uint64(-n))
	}

	return abbreviateMagnitude(uint64(n))
}

func abbreviateMagnitude(n uint64) string {
	switch {
	case n < 1000:
		return strconv.FormatUint(n, 10)
	case n < 1000000:
		return scale(n, 1000) + "K"
	default:
		return scale(n, 1000000) + "M"
	}
}

func scale(n uint64, unit uint64) string {
	s := strconv.FormatFloat(float64(n)/float64(unit), 'f', 1, 64)

	return strings.TrimSuffix(s, ".0")
}
