package strval

import (
	"valuefold/internal/bigint"
	"valuefold/internal/diag"
)

func hexVal(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	}
	return -1
}

// Bit2Int skips leading zeros and shift-and-adds the remaining bits.
func Bit2Int(b ByteString) bigint.Int {
	v := bigint.FromInt64(0)
	two := bigint.FromInt64(2)
	one := bigint.FromInt64(1)
	zero := bigint.FromInt64(0)
	for _, c := range b.Bytes() {
		v = v.Mul(two)
		if c == '1' {
			v = v.Add(one)
		} else {
			v = v.Add(zero)
		}
	}
	return v
}

// Bit2Hex groups 4 bits MSB-first, left-padding the final group.
func Bit2Hex(b ByteString) ByteString {
	bits := b.Bytes()
	pad := (4 - len(bits)%4) % 4
	padded := make([]byte, pad+len(bits))
	for i := 0; i < pad; i++ {
		padded[i] = '0'
	}
	copy(padded[pad:], bits)
	out := make([]byte, len(padded)/4)
	const hexDigits = "0123456789ABCDEF"
	for i := 0; i < len(out); i++ {
		v := 0
		for k := 0; k < 4; k++ {
			v = v<<1 | int(padded[i*4+k]-'0')
		}
		out[i] = hexDigits[v]
	}
	return newByteString(FlavorHex, out)
}

func Bit2Oct(b ByteString) ByteString {
	h := Bit2Hex(b)
	if h.Len()%2 != 0 {
		padded := make([]byte, h.Len()+1)
		padded[0] = '0'
		copy(padded[1:], h.Bytes())
		h = newByteString(FlavorHex, padded)
	}
	h.flavor = FlavorOct
	return h
}

// Hex2Bit expands each hex digit to 4 bits MSB-first.
func Hex2Bit(b ByteString) ByteString {
	out := make([]byte, 0, b.Len()*4)
	for _, c := range b.Bytes() {
		v := hexVal(c)
		for k := 3; k >= 0; k-- {
			if v&(1<<uint(k)) != 0 {
				out = append(out, '1')
			} else {
				out = append(out, '0')
			}
		}
	}
	return newByteString(FlavorBit, out)
}

func Hex2Int(b ByteString) bigint.Int {
	return bigint.FromHexString(b.String())
}

func Hex2Oct(b ByteString, loc diag.Location, sink *diag.Sink) ByteString {
	if b.Len()%2 != 0 {
		if sink != nil {
			sink.Report(diag.New(diag.ConversionFormat, loc, "hex2oct: odd number of hex digits cannot form an octetstring"))
		}
		return ByteString{flavor: FlavorOct}
	}
	out := make([]byte, b.Len())
	copy(out, b.Bytes())
	return newByteString(FlavorOct, out)
}

func Oct2Bit(b ByteString) ByteString {
	h := b
	h.flavor = FlavorHex
	return Hex2Bit(h)
}

func Oct2Hex(b ByteString) ByteString {
	h := b
	h.flavor = FlavorHex
	return h
}

func Oct2Int(b ByteString) bigint.Int {
	return bigint.FromHexString(b.String())
}

// Oct2Char fails if any octet is > 127 (spec §4.B).
func Oct2Char(b ByteString, loc diag.Location, sink *diag.Sink) ByteString {
	data := b.Bytes()
	out := make([]byte, 0, len(data)/2)
	for i := 0; i+1 < len(data); i += 2 {
		v := hexVal(data[i])<<4 | hexVal(data[i+1])
		if v > 127 {
			if sink != nil {
				sink.Report(diag.New(diag.ConversionRange, loc, "oct2char: octet 0x%02X is not in the printable ASCII range", v))
			}
			return ByteString{flavor: FlavorChar}
		}
		out = append(out, byte(v))
	}
	return newByteString(FlavorChar, out)
}

// Char2Int/Char2Oct/Unichar2Int require exactly one element.
func requireLenOne(n int, loc diag.Location, sink *diag.Sink) bool {
	if n != 1 {
		if sink != nil {
			sink.Report(diag.New(diag.DomainValue, loc, "expected a string of length 1, got length %d", n))
		}
		return false
	}
	return true
}

func Char2Int(b ByteString, loc diag.Location, sink *diag.Sink) bigint.Int {
	if !requireLenOne(b.Len(), loc, sink) {
		return bigint.Error("char2int: wrong length")
	}
	return bigint.FromInt64(int64(b.Bytes()[0]))
}

func Char2Oct(b ByteString, loc diag.Location, sink *diag.Sink) ByteString {
	if !requireLenOne(b.Len(), loc, sink) {
		return ByteString{flavor: FlavorOct}
	}
	const hexDigits = "0123456789ABCDEF"
	v := b.Bytes()[0]
	return newByteString(FlavorOct, []byte{hexDigits[v>>4], hexDigits[v&0xF]})
}

func Unichar2Int(u UString, loc diag.Location, sink *diag.Sink) bigint.Int {
	if !requireLenOne(u.Len(), loc, sink) {
		return bigint.Error("unichar2int: wrong length")
	}
	return bigint.FromInt64(int64(u.Quads()[0].CodePoint()))
}

// Int2Bit/Int2Hex/Int2Oct produce a fixed-width string, erroring if v
// doesn't fit in the requested width.
func Int2Bit(v bigint.Int, n int, loc diag.Location, sink *diag.Sink) ByteString {
	return int2width(v, n, 1, loc, sink, func(bits []byte) ByteString {
		return newByteString(FlavorBit, bits)
	})
}

func Int2Hex(v bigint.Int, n int, loc diag.Location, sink *diag.Sink) ByteString {
	return int2width(v, n, 4, loc, sink, func(bits []byte) ByteString {
		return Bit2Hex(newByteString(FlavorBit, bits))
	})
}

func Int2Oct(v bigint.Int, n int, loc diag.Location, sink *diag.Sink) ByteString {
	return int2width(v, 2*n, 4, loc, sink, func(bits []byte) ByteString {
		h := Bit2Hex(newByteString(FlavorBit, bits))
		h.flavor = FlavorOct
		return h
	})
}

// int2width checks v >= 0 and v >> width <= 0 where width = n*bitsPerDigit,
// then renders v as a binary string of that width before handing it to
// the caller's digit-grouping function.
func int2width(v bigint.Int, n, bitsPerDigit int, loc diag.Location, sink *diag.Sink, render func([]byte) ByteString) ByteString {
	if v.IsError() || v.IsNegative() {
		if sink != nil {
			sink.Report(diag.New(diag.DomainValue, loc, "int2bit/hex/oct: value must be non-negative"))
		}
		return ByteString{}
	}
	if n < 0 {
		if sink != nil {
			sink.Report(diag.New(diag.DomainValue, loc, "int2bit/hex/oct: length must be non-negative"))
		}
		return ByteString{}
	}
	width := n * bitsPerDigit
	if !v.Shr(int64(width)).IsZero() {
		if sink != nil {
			sink.Report(diag.New(diag.ConversionRange, loc, "value does not fit in %d digits", n))
		}
		return ByteString{}
	}
	bits := make([]byte, width)
	for i := 0; i < width; i++ {
		bitIdx := int64(width - 1 - i)
		if !v.Shr(bitIdx).And(1).IsZero() {
			bits[i] = '1'
		} else {
			bits[i] = '0'
		}
	}
	return render(bits)
}

// Int2Char/Int2Unichar produce a one-character string.
func Int2Char(v bigint.Int, loc diag.Location, sink *diag.Sink) ByteString {
	if v.IsError() || v.IsNegative() || v.Cmp(bigint.FromInt64(127)) > 0 {
		if sink != nil {
			sink.Report(diag.New(diag.ConversionRange, loc, "int2char: value out of range 0..127"))
		}
		return ByteString{flavor: FlavorChar}
	}
	return newByteString(FlavorChar, []byte{byte(v.AsNative())})
}

func Int2Unichar(v bigint.Int, loc diag.Location, sink *diag.Sink) UString {
	if v.IsError() || v.IsNegative() || v.Cmp(bigint.FromInt64(1<<31-1)) > 0 {
		if sink != nil {
			sink.Report(diag.New(diag.ConversionRange, loc, "int2unichar: value out of range 0..2^31-1"))
		}
		return UString{}
	}
	return NewUString([]Quad{QuadFromRune(rune(v.AsNative()))})
}

// RotateLeft/RotateRight rotate modulo length; a negative count rotates
// the other way (spec §4.B).
func RotateLeft(b ByteString, n int) ByteString {
	l := b.Len()
	if l == 0 {
		return b
	}
	n = ((n % l) + l) % l
	out := make([]byte, l)
	copy(out, b.Bytes()[n:])
	copy(out[l-n:], b.Bytes()[:n])
	return newByteString(b.flavor, out)
}

func RotateRight(b ByteString, n int) ByteString {
	return RotateLeft(b, -n)
}

// ShiftLeft/ShiftRight zero-fill; a negative count shifts the other way.
func ShiftLeft(b ByteString, n int) ByteString {
	l := b.Len()
	if n < 0 {
		return ShiftRight(b, -n)
	}
	out := make([]byte, l)
	fill := zeroElem(b.flavor)
	if n >= l {
		for i := range out {
			out[i] = fill
		}
		return newByteString(b.flavor, out)
	}
	copy(out, b.Bytes()[n:])
	for i := l - n; i < l; i++ {
		out[i] = fill
	}
	return newByteString(b.flavor, out)
}

func ShiftRight(b ByteString, n int) ByteString {
	l := b.Len()
	if n < 0 {
		return ShiftLeft(b, -n)
	}
	out := make([]byte, l)
	fill := zeroElem(b.flavor)
	if n >= l {
		for i := range out {
			out[i] = fill
		}
		return newByteString(b.flavor, out)
	}
	for i := 0; i < n; i++ {
		out[i] = fill
	}
	copy(out[n:], b.Bytes()[:l-n])
	return newByteString(b.flavor, out)
}

func zeroElem(f Flavor) byte {
	switch f {
	case FlavorBit:
		return '0'
	case FlavorHex, FlavorOct:
		return '0'
	default:
		return 0
	}
}
