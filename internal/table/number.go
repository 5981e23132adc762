package table

import (
	"errors"
	"math"
	"math/big"
	"strconv"
	"strings"
	"unicode"
)

var nan = math.NaN()

// Number converts cell text to a float64 with the same rules as the
// JavaScript Number() conversion the dataset tooling was built around:
// surrounding whitespace is ignored, an empty cell is 0, "Infinity" is
// accepted, 0x/0o/0b prefixed integers are accepted, and anything else that
// is not a plain decimal literal is NaN.
func Number(text string) float64 {
	s := strings.TrimFunc(text, func(r rune) bool {
		return unicode.IsSpace(r) || r == '\uFEFF'
	})
	if s == "" {
		return 0
	}

	switch s {
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}

	if len(s) > 2 && s[0] == '0' {
		if base := prefixBase(s[1]); base != 0 {
			return parseUnsigned(s[2:], base)
		}
	}

	// ParseFloat also understands inf, nan, hex floats and underscores,
	// none of which are decimal literals.
	for _, r := range s {
		if !strings.ContainsRune("0123456789+-.eE", r) {
			return nan
		}
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return f
		}
		return nan
	}
	return f
}

func prefixBase(c byte) int {
	switch c {
	case 'x', 'X':
		return 16
	case 'o', 'O':
		return 8
	case 'b', 'B':
		return 2
	}
	return 0
}

func parseUnsigned(digits string, base int) float64 {
	u, err := strconv.ParseUint(digits, base, 64)
	if err == nil {
		return float64(u)
	}
	if !errors.Is(err, strconv.ErrRange) {
		return nan
	}
	n, ok := new(big.Int).SetString(digits, base)
	if !ok {
		return nan
	}
	f, _ := new(big.Float).SetInt(n).Float64()
	return f
}

// FormatNumber renders f the way JavaScript's String(f) does: shortest
// round-tripping digits, plain notation for 1e-6 <= |f| < 1e21 and
// exponent notation outside that range.
func FormatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}

	abs := math.Abs(f)
	if abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}

	s := strconv.FormatFloat(f, 'e', -1, 64)
	mantissa, exp, _ := strings.Cut(s, "e")
	sign := exp[:1]
	exp = strings.TrimLeft(exp[1:], "0")
	return mantissa + "e" + sign + exp
}
