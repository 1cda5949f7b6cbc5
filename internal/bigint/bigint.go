// Package bigint implements component A of the value core: a
// signed arbitrary-precision integer with a native int64 fast path that
// transparently promotes to math/big on overflow. See SPEC_FULL.md's
// DOMAIN STACK entry for why math/big (not a third-party bignum) backs
// the arbitrary-precision representation.
package bigint

import (
	"math/big"
	"strconv"
	"strings"

	"valuefold/internal/diag"
)

// Int is the BigInt of spec §3/§4.A. Exactly one of the two
// representations is live at a time; native is preferred whenever the
// value fits, and every operation that could overflow checks first and
// promotes both operands to big before retrying.
type Int struct {
	native    int64
	big       *big.Int // non-nil iff the native representation doesn't fit
	isNeg     bool     // cached sign, valid in both representations
	isError   bool     // absorbing error state (e.g. malformed string)
	errReason string
}

// Zero, One are convenience constants; they return Int values, and Int
// is a value type copied by assignment.
func Zero() Int { return Int{} }
func One() Int  { return Int{native: 1} }

// FromInt64 builds a native-form Int.
func FromInt64(v int64) Int {
	return Int{native: v, isNeg: v < 0}
}

// FromBigInt builds an Int from a math/big.Int, collapsing to native
// form when it fits.
func FromBigInt(v *big.Int) Int {
	if v.IsInt64() {
		return FromInt64(v.Int64())
	}
	return Int{big: new(big.Int).Set(v), isNeg: v.Sign() < 0}
}

// Error constructs the absorbing error-valued Int produced by a failed
// string conversion (spec §4.A: "conversion from out-of-range string
// produces an error-valued Value").
func Error(reason string) Int {
	return Int{isError: true, errReason: reason}
}

func (a Int) IsError() bool      { return a.isError }
func (a Int) ErrorReason() string { return a.errReason }

// IsNative reports whether the value is held in the native fast-path
// representation.
func (a Int) IsNative() bool { return a.big == nil }

// FitsNative32 returns true only when the value is native and also fits
// in a signed 32-bit integer (spec's is_native_fit).
func (a Int) FitsNative32() bool {
	if a.big != nil {
		return false
	}
	return a.native >= -(1<<31) && a.native <= (1<<31)-1
}

// AsNative returns the raw native value. Precondition: IsNative().
func (a Int) AsNative() int64 {
	if a.big != nil {
		diag.Fatalf("bigint: AsNative called on a non-native Int")
	}
	return a.native
}

func (a Int) IsNegative() bool { return a.isNeg }

// bigOf returns a *big.Int view of a, promoting native form on demand.
func bigOf(a Int) *big.Int {
	if a.big != nil {
		return a.big
	}
	return big.NewInt(a.native)
}

// FromString parses an optional sign followed by decimal digits.
// Leading whitespace and a non-sole leading zero are permitted with a
// warning; anything else produces an error-valued Int (spec §4.A).
func FromString(s string, loc diag.Location, sink *diag.Sink) Int {
	orig := s
	trimmed := strings.TrimLeft(s, " \t")
	if trimmed != s && sink != nil {
		sink.Warn(&diag.Warning{Message: "leading whitespace in integer literal " + strconv.Quote(orig), Location: loc})
	}
	s = trimmed

	neg := false
	if len(s) > 0 && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}
	if s == "" {
		return Error("empty integer literal")
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			if sink != nil {
				sink.Report(diag.New(diag.ConversionFormat, loc, "%q is not a valid integer value", orig))
			}
			return Error("not a valid integer value")
		}
	}
	if len(s) > 1 && s[0] == '0' {
		if sink != nil {
			sink.Warn(&diag.Warning{Message: "leading zero in integer literal " + strconv.Quote(orig), Location: loc})
		}
		s = strings.TrimLeft(s, "0")
		if s == "" {
			s = "0"
		}
	}

	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		if neg {
			v = -v
		}
		return FromInt64(v)
	}
	b, ok := new(big.Int).SetString(s, 10)
	if !ok {
		if sink != nil {
			sink.Report(diag.New(diag.ConversionFormat, loc, "%q is not a valid integer value", orig))
		}
		return Error("not a valid integer value")
	}
	if neg {
		b.Neg(b)
	}
	return FromBigInt(b)
}

// FromHexString parses a hexadecimal literal (no 0x prefix expected;
// callers strip it), used by hex2int.
func FromHexString(s string) Int {
	if s == "" {
		return FromInt64(0)
	}
	b, ok := new(big.Int).SetString(s, 16)
	if !ok {
		return Error("not a valid hexadecimal value")
	}
	return FromBigInt(b)
}

func (a Int) String() string {
	if a.isError {
		return "<error>"
	}
	if a.big != nil {
		return a.big.String()
	}
	return strconv.FormatInt(a.native, 10)
}

func (a Int) ToReal() float64 {
	if a.big != nil {
		f, _ := new(big.Float).SetInt(a.big).Float64()
		return f
	}
	return float64(a.native)
}

// addOverflows reports whether a+b overflows int64.
func addOverflows(a, b int64) bool {
	s := a + b
	return (b > 0 && s < a) || (b < 0 && s > a)
}

func mulOverflows(a, b int64) bool {
	if a == 0 || b == 0 {
		return false
	}
	p := a * b
	return p/b != a
}

func (a Int) Add(b Int) Int {
	if a.isError || b.isError {
		return Error("operand error")
	}
	if a.big == nil && b.big == nil && !addOverflows(a.native, b.native) {
		return FromInt64(a.native + b.native)
	}
	return FromBigInt(new(big.Int).Add(bigOf(a), bigOf(b)))
}

func (a Int) Sub(b Int) Int {
	if a.isError || b.isError {
		return Error("operand error")
	}
	if a.big == nil && b.big == nil && !addOverflows(a.native, -b.native) && b.native != (-1<<63) {
		return FromInt64(a.native - b.native)
	}
	return FromBigInt(new(big.Int).Sub(bigOf(a), bigOf(b)))
}

func (a Int) Mul(b Int) Int {
	if a.isError || b.isError {
		return Error("operand error")
	}
	if a.big == nil && b.big == nil && !mulOverflows(a.native, b.native) {
		return FromInt64(a.native * b.native)
	}
	return FromBigInt(new(big.Int).Mul(bigOf(a), bigOf(b)))
}

// Div truncates toward zero, matching Go's native / operator and
// math/big.Int.Quo. Division by zero is caller-guarded (§4.D); Div
// itself returns an error-valued Int rather than panicking so the
// Folder can turn it into a DomainValue diagnostic.
func (a Int) Div(b Int) Int {
	if a.isError || b.isError {
		return Error("operand error")
	}
	if b.big == nil && b.native == 0 {
		return Error("division by zero")
	}
	if b.big != nil && b.big.Sign() == 0 {
		return Error("division by zero")
	}
	if a.big == nil && b.big == nil && !(a.native == -1<<63 && b.native == -1) {
		return FromInt64(a.native / b.native)
	}
	return FromBigInt(new(big.Int).Quo(bigOf(a), bigOf(b)))
}

// Rem implements rem(a,b) = a - b*(a/b), i.e. Go's native % / big.Int.Rem.
func (a Int) Rem(b Int) Int {
	if a.isError || b.isError {
		return Error("operand error")
	}
	if (b.big == nil && b.native == 0) || (b.big != nil && b.big.Sign() == 0) {
		return Error("division by zero")
	}
	if a.big == nil && b.big == nil && !(a.native == -1<<63 && b.native == -1) {
		return FromInt64(a.native % b.native)
	}
	return FromBigInt(new(big.Int).Rem(bigOf(a), bigOf(b)))
}

// Mod implements mod(a,b) = rem(a,|b|) if a>0, else (rem==0 ? 0 : rem+|b|).
func (a Int) Mod(b Int) Int {
	if a.isError || b.isError {
		return Error("operand error")
	}
	absB := b
	if absB.IsNegative() {
		absB = absB.Neg()
	}
	r := a.Rem(absB)
	if r.isError {
		return r
	}
	if !a.IsNegative() && !(a.big == nil && a.native == 0) {
		return r
	}
	if r.big == nil && r.native == 0 {
		return r
	}
	return r.Add(absB)
}

func (a Int) Neg() Int {
	if a.isError {
		return a
	}
	if a.big == nil && a.native != -1<<63 {
		return FromInt64(-a.native)
	}
	return FromBigInt(new(big.Int).Neg(bigOf(a)))
}

// And applies bitwise AND against a native mask (§4.A: "bitwise `and`
// against a native mask").
func (a Int) And(mask int64) Int {
	if a.isError {
		return a
	}
	if a.big == nil {
		return FromInt64(a.native & mask)
	}
	return FromBigInt(new(big.Int).And(bigOf(a), big.NewInt(mask)))
}

// Shr shifts right by a non-negative native count, zero-extending.
func (a Int) Shr(n int64) Int {
	if a.isError {
		return a
	}
	if n < 0 {
		diag.Fatalf("bigint: Shr with negative count")
	}
	if a.big == nil && n < 63 {
		return FromInt64(a.native >> uint(n))
	}
	return FromBigInt(new(big.Int).Rsh(bigOf(a), uint(n)))
}

// Shl is a plain left shift (spec notes TTCN-3's `shl` string operator
// is distinct from this — this is the arithmetic shift BigInt itself
// exposes for int2bit-style width checks).
func (a Int) Shl(n int64) Int {
	if a.isError {
		return a
	}
	if n < 0 {
		diag.Fatalf("bigint: Shl with negative count")
	}
	return FromBigInt(new(big.Int).Lsh(bigOf(a), uint(n)))
}

// Cmp returns -1, 0, 1 the way big.Int.Cmp does.
func (a Int) Cmp(b Int) int {
	if a.big == nil && b.big == nil {
		switch {
		case a.native < b.native:
			return -1
		case a.native > b.native:
			return 1
		default:
			return 0
		}
	}
	return bigOf(a).Cmp(bigOf(b))
}

func (a Int) Equal(b Int) bool { return a.Cmp(b) == 0 }

func (a Int) IsZero() bool { return a.big == nil && a.native == 0 || (a.big != nil && a.big.Sign() == 0) }
