package domain

import "strings"

// maxScoreDigits bounds the digits read so large replies cannot overflow.
const maxScoreDigits = 9

// ParseLeadingInt reads an optionally signed integer at the start of s after
// leading whitespace. Anything after the digits is ignored, so "85" and
// "85 points" both yield 85 while "Score: 85" yields ok=false.
func ParseLeadingInt(s string) (n int, ok bool) {
	s = strings.TrimLeft(s, " \t\r\n\f\v")
	neg := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}

	digits := 0
	for digits < len(s) && s[digits] >= '0' && s[digits] <= '9' {
		digits++
	}
	if digits == 0 {
		return 0, false
	}

	for i := 0; i < digits; i++ {
		if i == maxScoreDigits {
			// Too large to be a score; saturate instead of overflowing.
			n = 1<<31 - 1
			break
		}
		n = n*10 + int(s[i]-'0')
	}
	if neg {
		n = -n
	}
	return n, true
}

// ValidScore reports whether n is inside the confidence score range.
func ValidScore(n int) bool {
	return n >= MinConfidenceScore && n <= MaxConfidenceScore
}

// ClampScore bounds n to the confidence score range.
func ClampScore(n int) int {
	if n < MinConfidenceScore {
		return MinConfidenceScore
	}
	if n > MaxConfidenceScore {
		return MaxConfidenceScore
	}
	return n
}
