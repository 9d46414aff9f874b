package numutil

import "strconv"

// IntWithCommas returns a string representation of an integer with commas.
//
// Example:
//
//	12345 -> "12,345"
func IntWithCommas[T ~int | ~int64](i T) string {
	n := int64(i)
	if n < 0 {
		return "-" + IntWithCommas(-n)
	}
	if n < 1000 {
		return strconv.FormatInt(n, 10)
	}
	return IntWithCommas(n/1000) + "," + leftPad3(n%1000)
}

func leftPad3(n int64) string {
	s := strconv.FormatInt(n, 10)
	for len(s) < 3 {
		s = "0" + s
	}
	return s
}
