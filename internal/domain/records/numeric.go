package records

import "strconv"

// LeadingInt parses the integer prefix of s the way spreadsheet exports are
// read elsewhere in this service: leading whitespace is skipped, an optional
// sign is accepted, and parsing stops at the first non-digit. It reports
// false when no digit is found or the value overflows int.
func LeadingInt(s string) (int, bool) {
	i := 0
	for i < len(s) && isSpace(s[i]) {
		i++
	}
	start := i
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := i
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == digits {
		return 0, false
	}
	n, err := strconv.Atoi(s[start:i])
	if err != nil {
		return 0, false
	}
	return n, true
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}
