// Package strval implements component B of the value core: the
// reference-counted byte and universal-character strings, their flavor
// validation, and the conversion/encoding primitives the Folder calls
// to fold string operators (spec §4.B).
package strval

import (
	"sync/atomic"

	"valuefold/internal/diag"
)

// Flavor distinguishes the four logical string kinds that all share the
// ByteString representation (spec §3: "Four logical flavors share
// representation but differ in validation").
type Flavor uint8

const (
	FlavorBit Flavor = iota
	FlavorHex
	FlavorOct
	FlavorChar
)

func (f Flavor) String() string {
	switch f {
	case FlavorBit:
		return "bitstring"
	case FlavorHex:
		return "hexstring"
	case FlavorOct:
		return "octetstring"
	default:
		return "charstring"
	}
}

// refHeader is the intrusive reference count shared by every ByteString
// that aliases the same backing buffer, mirroring the teacher-language
// family's "{ref_count, len}" header (spec §3). Go's GC would reclaim
// the buffer on its own; the counter exists purely to decide, on a
// mutating op, whether the buffer must be copied first (COW) or can be
// edited in place because this handle is the sole owner.
type refHeader struct {
	count int32
}

// ByteString is an immutable-by-default, copy-on-write sequence of
// 8-bit elements. Which characters are legal depends on Flavor; the
// zero value is an empty bitstring.
type ByteString struct {
	flavor Flavor
	ref    *refHeader
	data   []byte
}

func newByteString(flavor Flavor, data []byte) ByteString {
	return ByteString{flavor: flavor, ref: &refHeader{count: 1}, data: data}
}

// NewBit builds a bitstring from '0'/'1' characters; any other
// character is a fatal shape error (the parser/lexer guarantees this
// before a Value ever reaches the core).
func NewBit(bits string) ByteString {
	for i := 0; i < len(bits); i++ {
		if bits[i] != '0' && bits[i] != '1' {
			diag.Fatalf("strval: NewBit: invalid bit character %q", bits[i])
		}
	}
	return newByteString(FlavorBit, []byte(bits))
}

// NewHex canonicalizes lower-case hex digits to upper case (spec
// invariant: "Hstr upper-case hex digits").
func NewHex(hex string) ByteString {
	buf := make([]byte, len(hex))
	for i := 0; i < len(hex); i++ {
		c := hex[i]
		switch {
		case c >= '0' && c <= '9', c >= 'A' && c <= 'F':
			buf[i] = c
		case c >= 'a' && c <= 'f':
			buf[i] = c - 'a' + 'A'
		default:
			diag.Fatalf("strval: NewHex: invalid hex digit %q", c)
		}
	}
	return newByteString(FlavorHex, buf)
}

// NewOct is like NewHex but requires an even number of hex digits
// (spec invariant: "Ostr stores an even number of hex characters").
func NewOct(hex string) ByteString {
	if len(hex)%2 != 0 {
		diag.Fatalf("strval: NewOct: odd number of hex digits %q", hex)
	}
	h := NewHex(hex)
	h.flavor = FlavorOct
	return h
}

// NewChar builds a printable-ASCII charstring. Unlike Bit/Hex/Oct, Char
// content is not validated against a fixed alphabet here — the lexer
// already only emits printable/escaped bytes — but every element must
// be < 0x80 to stay a plain Cstr (anything else belongs in a Ustr).
func NewChar(s string) ByteString {
	return newByteString(FlavorChar, []byte(s))
}

func (b ByteString) Flavor() Flavor { return b.flavor }
func (b ByteString) Len() int       { return len(b.data) }
func (b ByteString) IsEmpty() bool  { return len(b.data) == 0 }
func (b ByteString) Bytes() []byte  { return b.data }
func (b ByteString) String() string { return string(b.data) }

func (b ByteString) Clear() ByteString {
	return newByteString(b.flavor, nil)
}

func boundsCheck(loc diag.Location, sink *diag.Sink, pos, n, length int) bool {
	if pos < 0 || n < 0 || pos+n > length {
		if sink != nil {
			sink.Report(diag.New(diag.IndexOutOfBounds, loc, "index %d, length %d out of bounds for string of length %d", pos, n, length))
		}
		return false
	}
	return true
}

// Substr clamps n to len-pos per spec ("clamped to len-pos") when the
// sink is nil (used internally by conversions); when a sink is supplied
// out-of-range positions are reported as a fatal-to-the-Value semantic
// error instead, matching the Folder's substr() operator contract.
func (b ByteString) Substr(pos, n int, loc diag.Location, sink *diag.Sink) ByteString {
	if sink != nil {
		if !boundsCheck(loc, sink, pos, n, len(b.data)) {
			return ByteString{flavor: b.flavor}
		}
	} else {
		if pos < 0 {
			pos = 0
		}
		if pos > len(b.data) {
			pos = len(b.data)
		}
		if n < 0 || pos+n > len(b.data) {
			n = len(b.data) - pos
		}
	}
	out := make([]byte, n)
	copy(out, b.data[pos:pos+n])
	return newByteString(b.flavor, out)
}

func (b ByteString) Resize(n int, fill byte) ByteString {
	if n < 0 {
		diag.Fatalf("strval: Resize: negative length")
	}
	out := make([]byte, n)
	copy(out, b.data)
	for i := len(b.data); i < n; i++ {
		out[i] = fill
	}
	return newByteString(b.flavor, out)
}

func (b ByteString) Replace(pos, n int, with ByteString, loc diag.Location, sink *diag.Sink) ByteString {
	if !boundsCheck(loc, sink, pos, n, len(b.data)) {
		return b
	}
	out := make([]byte, 0, len(b.data)-n+with.Len())
	out = append(out, b.data[:pos]...)
	out = append(out, with.data...)
	out = append(out, b.data[pos+n:]...)
	return newByteString(b.flavor, out)
}

func (b ByteString) Find(c byte, pos int) int {
	for i := pos; i < len(b.data); i++ {
		if b.data[i] == c {
			return i
		}
	}
	return -1
}

func (b ByteString) Rfind(c byte, pos int) int {
	if pos < 0 || pos >= len(b.data) {
		pos = len(b.data) - 1
	}
	for i := pos; i >= 0; i-- {
		if b.data[i] == c {
			return i
		}
	}
	return -1
}

func (b ByteString) Concat(other ByteString) ByteString {
	out := make([]byte, 0, len(b.data)+len(other.data))
	out = append(out, b.data...)
	out = append(out, other.data...)
	return newByteString(b.flavor, out)
}

// At returns a length-1 ByteString of the same flavor (spec: "s[i]
// returns a length-1 ByteString, not a scalar").
func (b ByteString) At(i int, loc diag.Location, sink *diag.Sink) ByteString {
	if i < 0 || i >= len(b.data) {
		if sink != nil {
			sink.Report(diag.New(diag.IndexOutOfBounds, loc, "index %d out of bounds for string of length %d", i, len(b.data)))
		}
		return ByteString{flavor: b.flavor}
	}
	return newByteString(b.flavor, []byte{b.data[i]})
}

// MakeUnique returns a handle this caller can mutate in place without
// perturbing other aliases, copying the backing array only if it's
// currently shared (copy-on-write).
func (b ByteString) MakeUnique() ByteString {
	if atomic.LoadInt32(&b.ref.count) <= 1 {
		return b
	}
	cp := make([]byte, len(b.data))
	copy(cp, b.data)
	return newByteString(b.flavor, cp)
}

func (b ByteString) SetAt(i int, c byte) ByteString {
	u := b.MakeUnique()
	u.data[i] = c
	return u
}

func (b ByteString) Equal(other ByteString) bool {
	if len(b.data) != len(other.data) {
		return false
	}
	for i := range b.data {
		if b.data[i] != other.data[i] {
			return false
		}
	}
	return true
}
