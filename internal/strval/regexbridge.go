package strval

import (
	"encoding/base64"

	"github.com/dlclark/regexp2"

	"valuefold/internal/diag"
)

// Regexp bridges TTCN-3's POSIX-extended-regex regexp() operator onto
// dlclark/regexp2, whose RegexOptions expose a direct case-insensitive
// mode matching the `nocase` parameter (see SPEC_FULL.md's DOMAIN STACK
// entry for why regexp2 rather than regexp/syntax).
func Regexp(input, pattern ByteString, group int, nocase bool, loc diag.Location, sink *diag.Sink) ByteString {
	opts := regexp2.None
	if nocase {
		opts |= regexp2.IgnoreCase
	}
	re, err := regexp2.Compile(pattern.String(), opts)
	if err != nil {
		if sink != nil {
			sink.Report(diag.New(diag.ConversionFormat, loc, "regexp: pattern %q does not compile: %v", pattern.String(), err))
		}
		return ByteString{flavor: FlavorChar}
	}
	m, err := re.FindStringMatch(input.String())
	if err != nil || m == nil {
		return newByteString(FlavorChar, nil)
	}
	groups := m.Groups()
	if group < 0 || group >= len(groups) {
		if sink != nil {
			sink.Report(diag.New(diag.IndexOutOfBounds, loc, "regexp: group index %d exceeds the %d captured groups", group, len(groups)-1))
		}
		return ByteString{flavor: FlavorChar}
	}
	g := groups[group]
	if len(g.Captures) == 0 {
		return newByteString(FlavorChar, nil)
	}
	return NewChar(g.String())
}

// RegexpUnicode folds every quadruple's case via the same engine by
// round-tripping through UTF-8, matching spec's requirement that
// `nocase` on Ustr operands normalize all four octets of each character
// before compilation (regexp2's IgnoreCase already does Unicode-aware
// case folding once the input is proper UTF-8 text).
func RegexpUnicode(input, pattern UString, group int, nocase bool, loc diag.Location, sink *diag.Sink) UString {
	res := Regexp(EncodeToUTF8(input), EncodeToUTF8(pattern), group, nocase, loc, sink)
	out, _ := DecodeUTF8(res)
	return out
}

// EncodeBase64/DecodeBase64 back the encode_base64/decode_base64
// runtime-surface operators (always unfoldable per §4.D, but the
// primitive itself is pure and testable in isolation).
func EncodeBase64(b ByteString) ByteString {
	return NewChar(base64.StdEncoding.EncodeToString(b.Bytes()))
}

func DecodeBase64(s ByteString, loc diag.Location, sink *diag.Sink) ByteString {
	data, err := base64.StdEncoding.DecodeString(s.String())
	if err != nil {
		if sink != nil {
			sink.Report(diag.New(diag.ConversionFormat, loc, "decode_base64: %v", err))
		}
		return ByteString{flavor: FlavorOct}
	}
	const hexDigits = "0123456789ABCDEF"
	out := make([]byte, 0, len(data)*2)
	for _, c := range data {
		out = append(out, hexDigits[c>>4], hexDigits[c&0xF])
	}
	return newByteString(FlavorOct, out)
}
