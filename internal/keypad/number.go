package keypad

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// ParseNumber reads the longest numeric prefix of text, the way the display
// has always been consumed: "1.2.3" is 1.2, "5." is 5, ".5" is 0.5. Text with
// no numeric prefix ("Error", ".") is NaN.
func ParseNumber(text string) float64 {
	end := numericPrefix(text)
	if end == 0 {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(text[:end], 64)
	// ErrRange still yields ±Inf or 0, which is the value we want.
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return math.NaN()
	}
	return v
}

// numericPrefix returns the length of [+-]?digits*(.digits*)?(e[+-]?digits+)?
// at the start of s, or 0 when it holds no digit.
func numericPrefix(s string) int {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		j := i + 1
		frac := 0
		for j < len(s) && isDigit(s[j]) {
			j++
			frac++
		}
		if digits+frac > 0 {
			i = j
			digits += frac
		}
	}
	if digits == 0 {
		return 0
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		exp := 0
		for j < len(s) && isDigit(s[j]) {
			j++
			exp++
		}
		if exp > 0 {
			i = j
		}
	}
	return i
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// FormatNumber renders a result the way the display has always shown
// numbers: shortest round-trip digits, no trailing ".0", exponent notation
// below 1e-6 and from 1e21 up ("1e+21", "1.5e-7").
func FormatNumber(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	case v == 0:
		return "0"
	}

	abs := math.Abs(v)
	if abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(v, 'e', -1, 64)
		mantissa, exp, _ := strings.Cut(s, "e")
		sign := exp[:1]
		exp = strings.TrimLeft(exp[1:], "0")
		if exp == "" {
			exp = "0"
		}
		return mantissa + "e" + sign + exp
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
