package strval

import "valuefold/internal/diag"

// Quad is a universal character {group, plane, row, cell}, each 0..255,
// logically big-endian (spec GLOSSARY: "Quadruple").
type Quad struct {
	Group, Plane, Row, Cell byte
}

// CodePoint packs all four octets of the quadruple, group first, into
// one rune.
func (q Quad) CodePoint() rune {
	return rune(q.Group)<<24 | rune(q.Plane)<<16 | rune(q.Row)<<8 | rune(q.Cell)
}

func QuadFromRune(r rune) Quad {
	return Quad{
		Group: byte(r >> 24),
		Plane: byte(r >> 16),
		Row:   byte(r >> 8),
		Cell:  byte(r),
	}
}

// UString shares ByteString's shape but its elements are Quads instead
// of octets (spec §3).
type UString struct {
	ref  *refHeader
	data []Quad
}

func NewUString(quads []Quad) UString {
	cp := make([]Quad, len(quads))
	copy(cp, quads)
	return UString{ref: &refHeader{count: 1}, data: cp}
}

func (u UString) Len() int      { return len(u.data) }
func (u UString) IsEmpty() bool { return len(u.data) == 0 }
func (u UString) Quads() []Quad { return u.data }

func (u UString) Clear() UString { return NewUString(nil) }

func (u UString) Substr(pos, n int, loc diag.Location, sink *diag.Sink) UString {
	if !boundsCheck(loc, sink, pos, n, len(u.data)) {
		return UString{}
	}
	return NewUString(u.data[pos : pos+n])
}

func (u UString) Resize(n int, fill Quad) UString {
	if n < 0 {
		diag.Fatalf("strval: UString.Resize: negative length")
	}
	out := make([]Quad, n)
	copy(out, u.data)
	for i := len(u.data); i < n; i++ {
		out[i] = fill
	}
	return NewUString(out)
}

func (u UString) Replace(pos, n int, with UString, loc diag.Location, sink *diag.Sink) UString {
	if !boundsCheck(loc, sink, pos, n, len(u.data)) {
		return u
	}
	out := make([]Quad, 0, len(u.data)-n+with.Len())
	out = append(out, u.data[:pos]...)
	out = append(out, with.data...)
	out = append(out, u.data[pos+n:]...)
	return NewUString(out)
}

func (u UString) Find(c Quad, pos int) int {
	for i := pos; i < len(u.data); i++ {
		if u.data[i] == c {
			return i
		}
	}
	return -1
}

func (u UString) Rfind(c Quad, pos int) int {
	if pos < 0 || pos >= len(u.data) {
		pos = len(u.data) - 1
	}
	for i := pos; i >= 0; i-- {
		if u.data[i] == c {
			return i
		}
	}
	return -1
}

func (u UString) Concat(other UString) UString {
	out := make([]Quad, 0, len(u.data)+len(other.data))
	out = append(out, u.data...)
	out = append(out, other.data...)
	return NewUString(out)
}

func (u UString) At(i int, loc diag.Location, sink *diag.Sink) UString {
	if i < 0 || i >= len(u.data) {
		if sink != nil {
			sink.Report(diag.New(diag.IndexOutOfBounds, loc, "index %d out of bounds for universal string of length %d", i, len(u.data)))
		}
		return UString{}
	}
	return NewUString(u.data[i : i+1])
}

func (u UString) Equal(other UString) bool {
	if len(u.data) != len(other.data) {
		return false
	}
	for i := range u.data {
		if u.data[i] != other.data[i] {
			return false
		}
	}
	return true
}

// IsASCII reports whether every quadruple is a plain 7-bit ASCII
// character, the condition under which a Ustr may be demoted back to a
// Cstr (spec: set_valuetype Ustr -> Cstr "with diagnostics when chars >
// 127 or non-BMP").
func (u UString) IsASCII() bool {
	for _, q := range u.data {
		if q.Group != 0 || q.Plane != 0 || q.Row != 0 || q.Cell > 127 {
			return false
		}
	}
	return true
}

// ASCIIBytes returns u's plain-ASCII byte projection, the payload a
// demoted Cstr adopts via set_valuetype(Cstr). Only meaningful when
// IsASCII reports true; callers must check that first.
func (u UString) ASCIIBytes() []byte {
	out := make([]byte, len(u.data))
	for i, q := range u.data {
		out[i] = q.Cell
	}
	return out
}

// UStringFromByteString auto-detects UTF-8 and decodes; otherwise each byte
// maps to {0,0,0,byte} (spec §3: "Construction from a ByteString").
func UStringFromByteString(b ByteString) UString {
	if q, err := DecodeUTF8(b); err == nil {
		return q
	}
	out := make([]Quad, b.Len())
	for i, c := range b.Bytes() {
		out[i] = Quad{Cell: c}
	}
	return NewUString(out)
}
