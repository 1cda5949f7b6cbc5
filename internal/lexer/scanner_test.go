package lexer

import "testing"

func tokenTypes(toks []Token) []TokenType {
	out := make([]TokenType, len(toks))
	for i, t := range toks {
		out[i] = t.Type
	}
	return out
}

func assertTypes(t *testing.T, got []Token, want ...TokenType) {
	t.Helper()
	gotTypes := tokenTypes(got)
	if len(gotTypes) != len(want) {
		t.Fatalf("got %d tokens %v, want %d %v", len(gotTypes), gotTypes, len(want), want)
	}
	for i := range want {
		if gotTypes[i] != want[i] {
			t.Fatalf("token %d: got %s, want %s (all: %v)", i, gotTypes[i], want[i], gotTypes)
		}
	}
}

func TestScanPunctuationAndOperators(t *testing.T) {
	toks := NewScanner("1 + 2 * (3 - 4) / 5 mod 6 rem 7").ScanTokens()
	assertTypes(t, toks,
		TokenNumber, TokenPlus, TokenNumber, TokenStar, TokenLParen, TokenNumber,
		TokenMinus, TokenNumber, TokenRParen, TokenSlash, TokenNumber, TokenMod,
		TokenNumber, TokenRem, TokenNumber, TokenEOF)
}

func TestScanComparisonOperators(t *testing.T) {
	toks := NewScanner("a == b != c < d > e <= f >= g").ScanTokens()
	assertTypes(t, toks,
		TokenIdent, TokenEq, TokenIdent, TokenNe, TokenIdent, TokenLt, TokenIdent,
		TokenGt, TokenIdent, TokenLe, TokenIdent, TokenGe, TokenIdent, TokenEOF)
}

func TestScanShiftAndRotate(t *testing.T) {
	toks := NewScanner("x << 2 >> 3 <@ 1 @> 1").ScanTokens()
	assertTypes(t, toks,
		TokenIdent, TokenShl, TokenNumber, TokenShr, TokenNumber,
		TokenRotL, TokenNumber, TokenRotR, TokenNumber, TokenEOF)
}

func TestScanBooleanKeywords(t *testing.T) {
	toks := NewScanner("true and false or not x xor y").ScanTokens()
	assertTypes(t, toks,
		TokenTrue, TokenAnd, TokenFalse, TokenOr, TokenNot, TokenIdent,
		TokenXor, TokenIdent, TokenEOF)
}

func TestScanBinstringFlavors(t *testing.T) {
	toks := NewScanner(`'1011'B '0F'H '0A1B'O`).ScanTokens()
	assertTypes(t, toks, TokenBstr, TokenHstr, TokenOstr, TokenEOF)
	if toks[0].Lexeme != "1011" || toks[1].Lexeme != "0F" || toks[2].Lexeme != "0A1B" {
		t.Fatalf("unexpected lexemes: %v", toks[:3])
	}
}

func TestScanCharstringWithEscape(t *testing.T) {
	toks := NewScanner(`"hello \"world\""`).ScanTokens()
	assertTypes(t, toks, TokenCstr, TokenEOF)
	if toks[0].Lexeme != `hello \"world\"` {
		t.Fatalf("got lexeme %q", toks[0].Lexeme)
	}
}

func TestScanIntegerVsRealLiteral(t *testing.T) {
	toks := NewScanner("42 3.14 5.").ScanTokens()
	assertTypes(t, toks, TokenNumber, TokenNumber, TokenNumber, TokenDot, TokenEOF)
	if toks[0].Lexeme != "42" || toks[1].Lexeme != "3.14" {
		t.Fatalf("unexpected lexemes %v", toks[:2])
	}
}

func TestScanFieldAccessAndIndex(t *testing.T) {
	toks := NewScanner("rec.field[0]").ScanTokens()
	assertTypes(t, toks, TokenIdent, TokenDot, TokenIdent, TokenLBracket, TokenNumber, TokenRBracket, TokenEOF)
}

func TestScanSkipsLineAndBlockComments(t *testing.T) {
	toks := NewScanner("1 // trailing comment\n+ /* block\ncomment */ 2").ScanTokens()
	assertTypes(t, toks, TokenNumber, TokenPlus, TokenNumber, TokenEOF)
}

func TestScanUnterminatedBinstringReportsError(t *testing.T) {
	s := NewScanner("'1011")
	s.ScanTokens()
	if len(s.Errors()) == 0 {
		t.Fatal("expected an error for an unterminated quoted string literal")
	}
}

func TestScanUnknownFlavorTagReportsError(t *testing.T) {
	s := NewScanner("'1011'X")
	s.ScanTokens()
	if len(s.Errors()) == 0 {
		t.Fatal("expected an error for an unknown flavor tag")
	}
}

func TestScanTracksLineAndColumn(t *testing.T) {
	toks := NewScanner("1 + 2\n  foo").ScanTokens()
	assertTypes(t, toks, TokenNumber, TokenPlus, TokenNumber, TokenIdent, TokenEOF)
	if toks[0].Line != 1 || toks[0].Column != 1 {
		t.Errorf("token 0: got line %d col %d, want 1,1", toks[0].Line, toks[0].Column)
	}
	if toks[1].Column != 3 {
		t.Errorf("token 1 ('+'): got col %d, want 3", toks[1].Column)
	}
	if toks[3].Line != 2 || toks[3].Column != 3 {
		t.Errorf("token 3 ('foo'): got line %d col %d, want 2,3", toks[3].Line, toks[3].Column)
	}
}

func TestLineText(t *testing.T) {
	src := "first\nsecond\nthird"
	if got := LineText(src, 2); got != "second" {
		t.Errorf("LineText(src, 2) = %q, want %q", got, "second")
	}
	if got := LineText(src, 3); got != "third" {
		t.Errorf("LineText(src, 3) = %q, want %q", got, "third")
	}
	if got := LineText(src, 4); got != "" {
		t.Errorf("LineText(src, 4) = %q, want empty", got)
	}
}
