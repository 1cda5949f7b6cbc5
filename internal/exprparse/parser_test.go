package exprparse

import (
	"testing"

	"valuefold/internal/bigint"
	"valuefold/internal/fold"
	"valuefold/internal/lexer"
	"valuefold/internal/value"
)

func parse(t *testing.T, src string) *value.Value {
	t.Helper()
	toks := lexer.NewScanner(src).ScanTokens()
	p := NewParser(toks, nil, src)
	v := p.ParseExpression()
	if len(p.Errors) != 0 {
		t.Fatalf("unexpected parse errors for %q: %v", src, p.Errors)
	}
	return v
}

func foldIt(t *testing.T, v *value.Value) *value.Value {
	t.Helper()
	f := fold.NewFolder(nil)
	return f.GetValueRefdLast(fold.NewRefChain(), v)
}

func TestParseAndFoldArithmeticPrecedence(t *testing.T) {
	v := parse(t, "2 + 3 * 4")
	got := foldIt(t, v)
	if got.IntVal().String() != "14" {
		t.Fatalf("2 + 3 * 4 = %s, want 14", got.IntVal())
	}
}

func TestParseParenthesesOverridePrecedence(t *testing.T) {
	v := parse(t, "(2 + 3) * 4")
	got := foldIt(t, v)
	if got.IntVal().String() != "20" {
		t.Fatalf("(2 + 3) * 4 = %s, want 20", got.IntVal())
	}
}

func TestParseUnaryMinus(t *testing.T) {
	v := parse(t, "-5 + 2")
	got := foldIt(t, v)
	if got.IntVal().String() != "-3" {
		t.Fatalf("-5 + 2 = %s, want -3", got.IntVal())
	}
}

func TestParseStringConcat(t *testing.T) {
	v := parse(t, `"foo" & "bar"`)
	got := foldIt(t, v)
	if got.Str().String() != "foobar" {
		t.Fatalf(`"foo" & "bar" = %q, want "foobar"`, got.Str())
	}
}

func TestParseBooleanShortCircuit(t *testing.T) {
	v := parse(t, "false and true")
	got := foldIt(t, v)
	if got.BoolVal() != false {
		t.Fatal("false and true should fold to false")
	}
}

func TestParseBuiltinFunctionCall(t *testing.T) {
	v := parse(t, "bit2int('1011'B)")
	got := foldIt(t, v)
	if got.IntVal().String() != "11" {
		t.Fatalf("bit2int('1011'B) = %s, want 11", got.IntVal())
	}
}

func TestParseMultiArgBuiltin(t *testing.T) {
	v := parse(t, "int2hex(255, 4)")
	got := foldIt(t, v)
	if got.Str().String() != "00FF" {
		t.Fatalf("int2hex(255,4) = %s, want 00FF", got.Str())
	}
}

func TestParseComparisonChain(t *testing.T) {
	v := parse(t, "1 < 2")
	got := foldIt(t, v)
	if got.BoolVal() != true {
		t.Fatal("1 < 2 should fold to true")
	}
}

func TestParseUnknownBuiltinReportsError(t *testing.T) {
	toks := lexer.NewScanner("not_a_real_function(1)").ScanTokens()
	p := NewParser(toks, nil, "not_a_real_function(1)")
	v := p.ParseExpression()
	if len(p.Errors) == 0 {
		t.Fatal("expected a parse error for an unknown builtin")
	}
	if v.Kind() != value.KError {
		t.Fatal("unknown builtin should still yield an Error value, not panic")
	}
}

func TestParseUnmatchedParenPanicsIntoError(t *testing.T) {
	toks := lexer.NewScanner("(1 + 2").ScanTokens()
	p := NewParser(toks, nil, "(1 + 2")
	_ = p.ParseExpression()
	if len(p.Errors) == 0 {
		t.Fatal("expected a parse error for an unterminated parenthesis")
	}
}

func TestNumberLiteralDistinguishesIntAndReal(t *testing.T) {
	v := parse(t, "3.14")
	if v.Kind() != value.KReal {
		t.Fatalf("3.14 should parse as a real literal, got %s", v.Kind())
	}
	iv := parse(t, "42")
	if iv.Kind() != value.KInt || !iv.IntVal().Equal(bigint.FromInt64(42)) {
		t.Fatalf("42 should parse as the int 42, got %s", iv.StringRepr())
	}
}
