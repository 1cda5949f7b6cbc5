package strval

import (
	"fmt"

	"golang.org/x/text/encoding/unicode"

	"valuefold/internal/diag"
)

// DecodeUTF8 decodes a ByteString as UTF-8 into a UString. Malformed
// lead/continuation bytes or overlong encodings are reported with the
// character and octet position of the offending byte; decoding
// continues with a {0,0,0,0} substitution so later diagnostics can
// still see the rest of the string (spec §4.B).
type Utf8Error struct {
	CharPos, BytePos int
	Reason           string
}

func (e *Utf8Error) Error() string {
	return fmt.Sprintf("malformed UTF-8 at character %d (byte %d): %s", e.CharPos, e.BytePos, e.Reason)
}

func DecodeUTF8(b ByteString) (UString, *Utf8Error) {
	data := b.Bytes()
	var out []Quad
	var firstErr *Utf8Error
	charPos := 0
	i := 0
	for i < len(data) {
		c0 := data[i]
		var n int
		var r rune
		var minVal rune
		switch {
		case c0&0x80 == 0:
			out = append(out, Quad{Cell: c0})
			i++
			charPos++
			continue
		case c0&0xE0 == 0xC0:
			n, r, minVal = 1, rune(c0&0x1F), 0x80
		case c0&0xF0 == 0xE0:
			n, r, minVal = 2, rune(c0&0x0F), 0x800
		case c0&0xF8 == 0xF0:
			n, r, minVal = 3, rune(c0&0x07), 0x10000
		case c0&0xFC == 0xF8:
			n, r, minVal = 4, rune(c0&0x03), 0x200000
		case c0&0xFE == 0xFC:
			n, r, minVal = 5, rune(c0&0x01), 0x4000000
		default:
			if firstErr == nil {
				firstErr = &Utf8Error{CharPos: charPos, BytePos: i, Reason: "invalid lead byte"}
			}
			out = append(out, Quad{})
			i++
			charPos++
			continue
		}
		ok := true
		if i+n >= len(data) {
			ok = false
		}
		for k := 1; ok && k <= n; k++ {
			cb := data[i+k]
			if cb&0xC0 != 0x80 {
				ok = false
				break
			}
			r = r<<6 | rune(cb&0x3F)
		}
		if !ok {
			if firstErr == nil {
				firstErr = &Utf8Error{CharPos: charPos, BytePos: i, Reason: "truncated or invalid continuation byte"}
			}
			out = append(out, Quad{})
			i++
			charPos++
			continue
		}
		if r < minVal {
			if firstErr == nil {
				firstErr = &Utf8Error{CharPos: charPos, BytePos: i, Reason: "overlong encoding"}
			}
			out = append(out, Quad{})
			i += n + 1
			charPos++
			continue
		}
		out = append(out, QuadFromRune(r))
		i += n + 1
		charPos++
	}
	return NewUString(out), firstErr
}

// EncodeToUTF8 encodes a UString using the 1..6 octet forms of the
// original ISO-10646 table. 5/6-octet forms are only emitted for code
// points outside BMP+SMP when group or plane is non-zero, i.e. this is
// not plain Go UTF-8 (which caps at 4 octets / U+10FFFF) — it mirrors
// the wider historical encoding the spec requires.
func EncodeToUTF8(u UString) ByteString {
	var out []byte
	for _, q := range u.Quads() {
		out = append(out, encodeQuad(q)...)
	}
	return NewChar(string(out))
}

func encodeQuad(q Quad) []byte {
	cp := uint32(q.Group)<<24 | uint32(q.Plane)<<16 | uint32(q.Row)<<8 | uint32(q.Cell)
	switch {
	case cp < 0x80:
		return []byte{byte(cp)}
	case cp < 0x800:
		return []byte{
			0xC0 | byte(cp>>6),
			0x80 | byte(cp&0x3F),
		}
	case cp < 0x10000:
		return []byte{
			0xE0 | byte(cp>>12),
			0x80 | byte((cp>>6)&0x3F),
			0x80 | byte(cp&0x3F),
		}
	case cp < 0x200000:
		return []byte{
			0xF0 | byte(cp>>18),
			0x80 | byte((cp>>12)&0x3F),
			0x80 | byte((cp>>6)&0x3F),
			0x80 | byte(cp&0x3F),
		}
	case cp < 0x4000000:
		return []byte{
			0xF8 | byte(cp>>24),
			0x80 | byte((cp>>18)&0x3F),
			0x80 | byte((cp>>12)&0x3F),
			0x80 | byte((cp>>6)&0x3F),
			0x80 | byte(cp&0x3F),
		}
	default:
		return []byte{
			0xFC | byte(cp>>30),
			0x80 | byte((cp>>24)&0x3F),
			0x80 | byte((cp>>18)&0x3F),
			0x80 | byte((cp>>12)&0x3F),
			0x80 | byte((cp>>6)&0x3F),
			0x80 | byte(cp&0x3F),
		}
	}
}

// GetStringEncoding inspects an octetstring's octets for a BOM prefix
// and returns the encoding name, "ASCII" if every octet is <= 0x7F, or
// "<unknown>" otherwise (spec §4.B).
func GetStringEncoding(b ByteString) string {
	data := octets(b)
	switch {
	case hasPrefix(data, 0xEF, 0xBB, 0xBF):
		return "UTF-8"
	case hasPrefix(data, 0x00, 0x00, 0xFE, 0xFF):
		return "UTF-32BE"
	case hasPrefix(data, 0xFF, 0xFE, 0x00, 0x00):
		return "UTF-32LE"
	case hasPrefix(data, 0xFE, 0xFF) && verifyUTF16BOM(data, unicode.BigEndian):
		return "UTF-16BE"
	case hasPrefix(data, 0xFF, 0xFE) && verifyUTF16BOM(data, unicode.LittleEndian):
		return "UTF-16LE"
	}
	allASCII := true
	for _, c := range data {
		if c > 0x7F {
			allASCII = false
			break
		}
	}
	if allASCII {
		return "ASCII"
	}
	return "<unknown>"
}

// octets decodes an octetstring's hex-digit carrier (two digits per
// octet) into the raw octet values.
func octets(b ByteString) []byte {
	hex := b.Bytes()
	out := make([]byte, len(hex)/2)
	for i := range out {
		out[i] = byte(hexVal(hex[2*i])<<4 | hexVal(hex[2*i+1]))
	}
	return out
}

func hasPrefix(data []byte, prefix ...byte) bool {
	if len(data) < len(prefix) {
		return false
	}
	for i, p := range prefix {
		if data[i] != p {
			return false
		}
	}
	return true
}

// RemoveBOM strips the BOM prefix GetStringEncoding would detect, if
// any.
func RemoveBOM(b ByteString) ByteString {
	data := octets(b)
	var n int
	switch {
	case hasPrefix(data, 0xEF, 0xBB, 0xBF):
		n = 3
	case hasPrefix(data, 0x00, 0x00, 0xFE, 0xFF), hasPrefix(data, 0xFF, 0xFE, 0x00, 0x00):
		n = 4
	case hasPrefix(data, 0xFE, 0xFF), hasPrefix(data, 0xFF, 0xFE):
		n = 2
	default:
		return b
	}
	return b.Substr(2*n, b.Len()-2*n, diag.Location{}, nil)
}

// verifyUTF16BOM corroborates a UTF-16 BOM sniff against a real decoder
// from golang.org/x/text/encoding/unicode, so get_string_encoding's
// byte-pattern match has an independent check behind it rather than
// trusting the prefix bytes alone.
func verifyUTF16BOM(data []byte, endian unicode.Endianness) bool {
	dec := unicode.UTF16(endian, unicode.ExpectBOM).NewDecoder()
	_, _, err := dec.Transform(make([]byte, len(data)*2), data, true)
	return err == nil
}
