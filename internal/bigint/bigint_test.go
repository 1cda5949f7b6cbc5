package bigint

import (
	"math"
	"testing"

	"valuefold/internal/diag"
)

func TestAddSubMulNative(t *testing.T) {
	tests := []struct {
		name     string
		a, b     int64
		op       string
		expected int64
	}{
		{"add", 10, 20, "add", 30},
		{"sub", 50, 20, "sub", 30},
		{"mul", 6, 7, "mul", 42},
		{"neg add", -5, -7, "add", -12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, b := FromInt64(tt.a), FromInt64(tt.b)
			var got Int
			switch tt.op {
			case "add":
				got = a.Add(b)
			case "sub":
				got = a.Sub(b)
			case "mul":
				got = a.Mul(b)
			}
			if !got.IsNative() || got.AsNative() != tt.expected {
				t.Errorf("got %v, want %d", got, tt.expected)
			}
		})
	}
}

func TestOverflowPromotesToBig(t *testing.T) {
	max := FromInt64(math.MaxInt64)
	got := max.Add(FromInt64(1))
	if got.IsNative() {
		t.Fatalf("expected promotion to big representation, got native %v", got)
	}
	if got.String() != "9223372036854775808" {
		t.Errorf("got %s", got)
	}
}

func TestDivisionIdentities(t *testing.T) {
	// a == b*(a/b) + rem(a,b); 0 <= mod(a,b) < |b|
	pairs := [][2]int64{{17, 5}, {-17, 5}, {17, -5}, {-17, -5}, {0, 7}}
	for _, p := range pairs {
		a, b := FromInt64(p[0]), FromInt64(p[1])
		q := a.Div(b)
		r := a.Rem(b)
		recombined := b.Mul(q).Add(r)
		if !recombined.Equal(a) {
			t.Errorf("a=%d b=%d: b*(a/b)+rem != a (got %v)", p[0], p[1], recombined)
		}
		m := a.Mod(b)
		absB := b
		if absB.IsNegative() {
			absB = absB.Neg()
		}
		if m.IsNegative() || m.Cmp(absB) >= 0 {
			t.Errorf("a=%d b=%d: mod out of range [0,|b|): %v", p[0], p[1], m)
		}
	}
}

func TestDivisionByZero(t *testing.T) {
	a := FromInt64(5)
	z := FromInt64(0)
	if !a.Div(z).IsError() {
		t.Errorf("expected division by zero to be an error value")
	}
	if !a.Rem(z).IsError() {
		t.Errorf("expected rem by zero to be an error value")
	}
}

func TestFromStringRoundtrip(t *testing.T) {
	tests := []string{"0", "123", "-123", "9223372036854775807", "-9223372036854775808", "170141183460469231731687303715884105728"}
	for _, s := range tests {
		v := FromString(s, diag.Location{}, nil)
		if v.IsError() {
			t.Fatalf("FromString(%q) unexpectedly errored", s)
		}
		if v.String() != s {
			t.Errorf("FromString(%q).String() = %q", s, v.String())
		}
	}
}

func TestFromStringInvalid(t *testing.T) {
	sink := &diag.Sink{}
	v := FromString("abc", diag.Location{Line: 1}, sink)
	if !v.IsError() {
		t.Errorf("expected error value for non-numeric string")
	}
	if !sink.HasErrors() {
		t.Errorf("expected a ConversionFormat diagnostic to be reported")
	}
}

func TestFromStringLeadingZeroWarns(t *testing.T) {
	sink := &diag.Sink{}
	v := FromString("007", diag.Location{Line: 1}, sink)
	if v.IsError() {
		t.Fatalf("leading zero should be a warning, not an error")
	}
	if v.String() != "7" {
		t.Errorf("got %s, want 7", v)
	}
	if len(sink.Warnings) == 0 {
		t.Errorf("expected a leading-zero warning")
	}
}

func TestNeg(t *testing.T) {
	if FromInt64(5).Neg().AsNative() != -5 {
		t.Errorf("Neg(5) != -5")
	}
}

func TestShrShl(t *testing.T) {
	v := FromInt64(0b1011)
	if got := v.Shr(1).AsNative(); got != 0b101 {
		t.Errorf("Shr(1) = %d, want 5", got)
	}
	if got := v.Shl(2).AsNative(); got != 0b101100 {
		t.Errorf("Shl(2) = %d, want %d", got, 0b101100)
	}
}

func TestToReal(t *testing.T) {
	if FromInt64(10).ToReal() != 10.0 {
		t.Errorf("ToReal(10) != 10.0")
	}
}
