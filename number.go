package flexjson

import (
	"encoding/json"
	"math"
	"math/big"
	"strconv"
	"strings"
	"unsafe"
)

// Signed is the set of signed integer types.
type Signed interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64
}

// Unsigned is the set of unsigned integer types.
type Unsigned interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// IntegerKind is the set of integer types.
type IntegerKind interface{ Signed | Unsigned }

// FloatKind is the set of floating point types.
type FloatKind interface{ ~float32 | ~float64 }

func isSigned[T IntegerKind]() bool {
	var z T
	z--
	return z < 0
}

// maxIntegerDigits bounds the decimal digits of any value that can fit in 64
// bits.
const maxIntegerDigits = 20

// integral returns the exact integer value of a JSON number. 1, 1.0 and 1e2
// qualify; 1.5 does not. Numbers with more than 20 significant integer digits
// are rejected before any big arithmetic, so the cost stays linear in the
// length of the literal.
func integral(raw any) (*big.Int, bool) {
	switch n := raw.(type) {
	case json.Number:
		digits, ok := integerDigits(string(n))
		if !ok {
			return nil, false
		}
		bi, ok := new(big.Int).SetString(digits, 10)
		return bi, ok
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) || n != math.Trunc(n) {
			return nil, false
		}
		bi, _ := big.NewFloat(n).Int(nil)
		return bi, true
	default:
		return nil, false
	}
}

// integerDigits rewrites a JSON number literal as a plain, optionally signed,
// decimal integer. It fails when the literal has a fractional part or more
// than maxIntegerDigits digits.
func integerDigits(s string) (string, bool) {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	mant, exp := s, 0
	if i := strings.IndexAny(s, "eE"); i >= 0 {
		mant = s[:i]
		e, err := strconv.Atoi(strings.TrimPrefix(s[i+1:], "+"))
		if err != nil {
			// An exponent beyond int range is either huge or a tiny fraction.
			return "", false
		}
		exp = e
	}
	intPart, frac, _ := strings.Cut(mant, ".")
	digits := strings.TrimLeft(intPart+frac, "0")
	exp -= len(frac)
	if digits == "" {
		return "0", true
	}
	trimmed := strings.TrimRight(digits, "0")
	exp += len(digits) - len(trimmed)
	digits = trimmed
	if exp < 0 || len(digits)+exp > maxIntegerDigits {
		return "", false
	}
	for _, c := range digits {
		if c < '0' || c > '9' {
			return "", false
		}
	}
	return sign + digits + strings.Repeat("0", exp), true
}

func toInteger[T IntegerKind](raw any) (T, bool) {
	bi, ok := integral(raw)
	if !ok {
		return 0, false
	}
	if isSigned[T]() {
		if !bi.IsInt64() {
			return 0, false
		}
		i := bi.Int64()
		v := T(i)
		if int64(v) != i {
			return 0, false
		}
		return v, true
	}
	if bi.Sign() < 0 || !bi.IsUint64() {
		return 0, false
	}
	u := bi.Uint64()
	v := T(u)
	if uint64(v) != u {
		return 0, false
	}
	return v, true
}

func toFloat[T FloatKind](raw any) (T, bool) {
	var f float64
	switch n := raw.(type) {
	case json.Number:
		p, err := strconv.ParseFloat(string(n), 64)
		if err != nil {
			return 0, false
		}
		f = p
	case float64:
		f = n
	default:
		return 0, false
	}
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	var v T
	if unsafe.Sizeof(v) == 4 && math.Abs(f) > math.MaxFloat32 {
		return 0, false
	}
	v = T(f)
	return v, true
}
