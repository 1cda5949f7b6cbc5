package strval

import (
	"testing"

	"valuefold/internal/bigint"
	"valuefold/internal/diag"
)

func TestBitHexOctRoundtrip(t *testing.T) {
	tests := []string{"1011", "0", "1", "111100001010", "0000"}
	for _, bits := range tests {
		t.Run(bits, func(t *testing.T) {
			b := NewBit(bits)
			hex := Bit2Hex(b)
			back := Hex2Bit(hex)
			padded := leftPad(bits, (len(bits)+3)/4*4)
			if back.String() != padded {
				t.Errorf("hex2bit(bit2hex(%q)) = %q, want %q", bits, back.String(), padded)
			}
		})
	}
}

func leftPad(s string, n int) string {
	for len(s) < n {
		s = "0" + s
	}
	return s
}

func TestBit2Int(t *testing.T) {
	// S1: bit2int('1011'B) == 11
	got := Bit2Int(NewBit("1011"))
	if got.String() != "11" {
		t.Errorf("bit2int('1011'B) = %s, want 11", got)
	}
}

func TestInt2Hex(t *testing.T) {
	// S2: int2hex(255, 4) == '00FF'H
	got := Int2Hex(bigint.FromInt64(255), 4, diag.Location{}, nil)
	if got.String() != "00FF" {
		t.Errorf("int2hex(255,4) = %q, want 00FF", got.String())
	}
	// int2hex(65536, 2) -> ConversionRange error
	sink := &diag.Sink{}
	got2 := Int2Hex(bigint.FromInt64(65536), 2, diag.Location{}, sink)
	if !sink.HasErrors() || sink.Errors[0].Kind != diag.ConversionRange {
		t.Errorf("expected ConversionRange error, got %v (%q)", sink.Errors, got2.String())
	}
}

func TestSubstr(t *testing.T) {
	// S3
	s := NewChar("Hello")
	got := s.Substr(1, 3, diag.Location{}, nil)
	if got.String() != "ell" {
		t.Errorf("substr(Hello,1,3) = %q, want ell", got.String())
	}
	sink := &diag.Sink{}
	s.Substr(1, 10, diag.Location{}, sink)
	if !sink.HasErrors() || sink.Errors[0].Kind != diag.IndexOutOfBounds {
		t.Errorf("expected IndexOutOfBounds, got %v", sink.Errors)
	}
}

func TestRegexp(t *testing.T) {
	// S4
	in := NewChar("abc123def")
	pat := NewChar("([a-z]+)([0-9]+)(.+)")
	got := Regexp(in, pat, 2, false, diag.Location{}, nil)
	if got.String() != "123" {
		t.Errorf("regexp group 2 = %q, want 123", got.String())
	}
	sink := &diag.Sink{}
	Regexp(in, pat, 5, false, diag.Location{}, sink)
	if !sink.HasErrors() || sink.Errors[0].Kind != diag.IndexOutOfBounds {
		t.Errorf("expected IndexOutOfBounds for group 5, got %v", sink.Errors)
	}
}

func TestGetStringEncoding(t *testing.T) {
	// S7
	utf8bom := NewOct("EFBBBF48656C6C6F")
	if got := GetStringEncoding(utf8bom); got != "UTF-8" {
		t.Errorf("got %q, want UTF-8", got)
	}
	ascii := NewOct("48656C6C6F")
	if got := GetStringEncoding(ascii); got != "ASCII" {
		t.Errorf("got %q, want ASCII", got)
	}
}

func TestUTF8Roundtrip(t *testing.T) {
	quads := []Quad{{Cell: 'H'}, {Cell: 'i'}, QuadFromRune('é'), QuadFromRune('中')}
	u := NewUString(quads)
	encoded := EncodeToUTF8(u)
	decoded, err := DecodeUTF8(encoded)
	if err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}
	if !decoded.Equal(u) {
		t.Errorf("decode(encode(u)) != u: got %v, want %v", decoded.Quads(), u.Quads())
	}
}

func TestRotateShift(t *testing.T) {
	b := NewBit("110001")
	if got := RotateLeft(b, 2).String(); got != "000111" {
		t.Errorf("rotate_left(110001,2) = %s, want 000111", got)
	}
	if got := RotateRight(b, 2).String(); got != "011100" {
		t.Errorf("rotate_right(110001,2) = %s, want 011100", got)
	}
	if got := ShiftLeft(b, 2).String(); got != "000100" {
		t.Errorf("shift_left(110001,2) = %s, want 000100", got)
	}
	if got := ShiftRight(b, 2).String(); got != "001100" {
		t.Errorf("shift_right(110001,2) = %s, want 001100", got)
	}
}
