// Package exprparse is a minimal recursive-descent parser over
// internal/lexer's token stream, producing value.Value trees directly
// (literals, Refd references through a symtab.Scope, and Expr nodes
// built from value.Operator) rather than a separate AST the fold
// package would have to lower later.
package exprparse

import (
	"strconv"
	"strings"

	"valuefold/internal/bigint"
	"valuefold/internal/diag"
	"valuefold/internal/lexer"
	"valuefold/internal/strval"
	"valuefold/internal/symtab"
	"valuefold/internal/value"
)

// precedence is the binary-operator climbing table; higher binds
// tighter. Word operators (and/or/xor/mod/rem/and4b/...) sit alongside
// their symbolic cousins the same way the teacher's table mixes
// keyword and symbol tokens.
var precedence = map[lexer.TokenType]int{
	lexer.TokenOr:  1,
	lexer.TokenXor: 1,
	lexer.TokenAnd: 2,

	lexer.TokenEq: 3,
	lexer.TokenNe: 3,
	lexer.TokenLt: 3,
	lexer.TokenGt: 3,
	lexer.TokenLe: 3,
	lexer.TokenGe: 3,

	lexer.TokenPlus:  4,
	lexer.TokenMinus: 4,
	lexer.TokenAmp:   4,

	lexer.TokenStar: 5,
	lexer.TokenSlash: 5,
	lexer.TokenMod:  5,
	lexer.TokenRem:  5,

	lexer.TokenAnd4b: 6,
	lexer.TokenOr4b:  6,
	lexer.TokenXor4b: 6,
	lexer.TokenShl:   6,
	lexer.TokenShr:   6,
	lexer.TokenRotL:  6,
	lexer.TokenRotR:  6,
}

var binaryOp = map[lexer.TokenType]value.Operator{
	lexer.TokenOr:    value.OpOr,
	lexer.TokenXor:   value.OpXor,
	lexer.TokenAnd:   value.OpAnd,
	lexer.TokenEq:    value.OpEq,
	lexer.TokenNe:    value.OpNe,
	lexer.TokenLt:    value.OpLt,
	lexer.TokenGt:    value.OpGt,
	lexer.TokenLe:    value.OpLe,
	lexer.TokenGe:    value.OpGe,
	lexer.TokenPlus:  value.OpAdd,
	lexer.TokenMinus: value.OpSub,
	lexer.TokenAmp:   value.OpConcat,
	lexer.TokenStar:  value.OpMul,
	lexer.TokenSlash: value.OpDiv,
	lexer.TokenMod:   value.OpMod,
	lexer.TokenRem:   value.OpRem,
	lexer.TokenAnd4b: value.OpAnd4b,
	lexer.TokenOr4b:  value.OpOr4b,
	lexer.TokenXor4b: value.OpXor4b,
	lexer.TokenShl:   value.OpShl,
	lexer.TokenShr:   value.OpShr,
	lexer.TokenRotL:  value.OpRotateLeft,
	lexer.TokenRotR:  value.OpRotateRight,
}

// builtinFuncs maps a call-syntax identifier to the operator it
// builds, the way the Checker's operator table (spec §4.D) treats
// "bit2int(x)" and friends as ordinary Expr nodes rather than a
// separate function-call kind.
var builtinFuncs = map[string]value.Operator{
	"bit2int":            value.OpBit2Int,
	"bit2hex":            value.OpBit2Hex,
	"bit2oct":            value.OpBit2Oct,
	"hex2bit":            value.OpHex2Bit,
	"hex2int":            value.OpHex2Int,
	"hex2oct":            value.OpHex2Oct,
	"oct2bit":            value.OpOct2Bit,
	"oct2hex":            value.OpOct2Hex,
	"oct2int":            value.OpOct2Int,
	"oct2char":           value.OpOct2Char,
	"char2int":           value.OpChar2Int,
	"char2oct":           value.OpChar2Oct,
	"unichar2int":        value.OpUnichar2Int,
	"int2bit":            value.OpInt2Bit,
	"int2hex":            value.OpInt2Hex,
	"int2oct":            value.OpInt2Oct,
	"int2char":           value.OpInt2Char,
	"int2unichar":        value.OpInt2Unichar,
	"int2float":          value.OpInt2Float,
	"float2int":          value.OpFloat2Int,
	"str2int":            value.OpStr2Int,
	"str2float":          value.OpStr2Float,
	"int2str":            value.OpInt2Str,
	"float2str":          value.OpFloat2Str,
	"str2oct":            value.OpStr2Oct,
	"oct2str":            value.OpOct2Str,
	"enum2int":           value.OpEnum2Int,
	"substr":             value.OpSubstr,
	"replace":            value.OpReplace,
	"regexp":             value.OpRegexp,
	"lengthof":           value.OpLengthof,
	"sizeof":             value.OpSizeof,
	"get_stringencoding": value.OpGetStringencoding,
	"remove_bom":         value.OpRemoveBom,
}

// Parser consumes a fixed token slice left to right, the same no-
// backtrack discipline as the teacher's parser: advance/peek/check/
// match/consume plus a precedence-climbing expression() entry point.
type Parser struct {
	tokens  []lexer.Token
	current int
	scope   *symtab.Scope
	source  string
	Errors  []*diag.Error
}

// NewParser builds a Parser over tokens already scanned from source;
// source is kept only to let loc() attach the offending line's text to
// a diagnostic's Location for caret rendering.
func NewParser(tokens []lexer.Token, scope *symtab.Scope, source string) *Parser {
	return &Parser{tokens: tokens, scope: scope, source: source}
}

// ParseExpression parses one expression and requires the token stream
// to be fully consumed (EOF next); a malformed input yields an Error
// Value with every diagnostic recorded in Errors, rather than a panic.
func (p *Parser) ParseExpression() (result *value.Value) {
	defer func() {
		if r := recover(); r != nil {
			if err, ok := r.(*diag.Error); ok {
				p.Errors = append(p.Errors, err)
				result = value.NewErrorValue(diag.ParseError)
				return
			}
			panic(r)
		}
	}()
	expr := p.expression()
	if !p.check(lexer.TokenEOF) {
		p.errorHere("trailing input after expression")
		return value.NewErrorValue(diag.ParseError)
	}
	return expr
}

func (p *Parser) expression() *value.Value { return p.parseBinary(0) }

func (p *Parser) parseBinary(minPrec int) *value.Value {
	left := p.parseUnary()
	for {
		tok := p.peek()
		prec, ok := precedence[tok.Type]
		if !ok || prec < minPrec {
			break
		}
		p.advance()
		right := p.parseBinary(prec + 1)
		left = value.NewExpr(binaryOp[tok.Type], left, right)
	}
	return left
}

func (p *Parser) parseUnary() *value.Value {
	switch {
	case p.match(lexer.TokenNot):
		return value.NewExpr(value.OpNot, p.parseUnary())
	case p.match(lexer.TokenNot4b):
		return value.NewExpr(value.OpNot4b, p.parseUnary())
	case p.match(lexer.TokenMinus):
		return value.NewExpr(value.OpUnaryMinus, p.parseUnary())
	case p.match(lexer.TokenPlus):
		return value.NewExpr(value.OpUnaryPlus, p.parseUnary())
	}
	return p.parsePostfix()
}

// parsePostfix handles field access (a.b) and indexing (a[0]) chained
// onto an identifier reference; chains on any other expression shape
// are rejected since Reference.SubRefs only addresses a named
// declaration (spec §4.D get_refd_sub_value's precondition).
func (p *Parser) parsePostfix() *value.Value {
	expr := p.primary()
	for {
		switch {
		case p.match(lexer.TokenDot):
			field := p.consume(lexer.TokenIdent, "expected a field name after '.'")
			p.appendSubRef(expr, value.SubRef{Field: field.Lexeme})
		case p.match(lexer.TokenLBracket):
			idx := p.expression()
			p.consume(lexer.TokenRBracket, "expected ']' to close an index")
			p.appendSubRef(expr, value.SubRef{Index: idx})
		default:
			return expr
		}
	}
}

func (p *Parser) appendSubRef(expr *value.Value, sr value.SubRef) {
	if expr.Kind() != value.KRefd || expr.Ref() == nil {
		p.errorHere("field/index access is only supported on a plain reference")
		return
	}
	expr.Ref().SubRefs = append(expr.Ref().SubRefs, sr)
}

func (p *Parser) primary() *value.Value {
	tok := p.advance()
	switch tok.Type {
	case lexer.TokenNumber:
		return p.numberLiteral(tok.Lexeme)
	case lexer.TokenBstr:
		return value.NewBstr(strval.NewBit(tok.Lexeme))
	case lexer.TokenHstr:
		return value.NewHstr(strval.NewHex(tok.Lexeme))
	case lexer.TokenOstr:
		return p.octetLiteral(tok.Lexeme)
	case lexer.TokenCstr:
		return value.NewCstr(strval.NewChar(unescapeCstr(tok.Lexeme)))
	case lexer.TokenTrue:
		return value.NewBool(true)
	case lexer.TokenFalse:
		return value.NewBool(false)
	case lexer.TokenLParen:
		expr := p.expression()
		p.consume(lexer.TokenRParen, "expected ')' after a parenthesized expression")
		return expr
	case lexer.TokenIdent:
		if p.check(lexer.TokenLParen) {
			return p.call(tok.Lexeme)
		}
		return p.reference(tok.Lexeme)
	default:
		p.errorHere("unexpected token %q in expression", tok.Lexeme)
		return value.NewErrorValue(diag.ParseError)
	}
}

func (p *Parser) call(name string) *value.Value {
	op, ok := builtinFuncs[name]
	if !ok {
		p.errorHere("unknown operator %q", name)
		p.consume(lexer.TokenLParen, "expected '('")
		p.skipCallArgs()
		return value.NewErrorValue(diag.ParseError)
	}
	p.consume(lexer.TokenLParen, "expected '(' after "+name)
	var args []*value.Value
	if !p.check(lexer.TokenRParen) {
		for {
			args = append(args, p.expression())
			if !p.match(lexer.TokenComma) {
				break
			}
		}
	}
	p.consume(lexer.TokenRParen, "expected ')' to close "+name+"(...)")
	return value.NewExpr(op, args...)
}

func (p *Parser) skipCallArgs() {
	depth := 1
	for depth > 0 && !p.check(lexer.TokenEOF) {
		switch p.advance().Type {
		case lexer.TokenLParen:
			depth++
		case lexer.TokenRParen:
			depth--
		}
	}
}

// reference resolves name through the scope chain into a value.Refd
// wrapping the bound Assignment; an unresolved name still produces a
// Refd with a nil Assignment so later stages (foldRefd) can report
// Unresolved uniformly instead of the parser special-casing it.
func (p *Parser) reference(name string) *value.Value {
	var assign value.Assignment
	if p.scope != nil {
		if a, ok := p.scope.GetRefdAssignment(name); ok {
			assign = a
		}
	}
	return value.NewRefd(&value.Reference{Name: name, Assignment: assign})
}

func (p *Parser) numberLiteral(lexeme string) *value.Value {
	if strings.ContainsAny(lexeme, ".eE") {
		f, err := strconv.ParseFloat(lexeme, 64)
		if err != nil {
			p.errorHere("malformed real literal %q", lexeme)
			return value.NewErrorValue(diag.ParseError)
		}
		return value.NewReal(f)
	}
	return value.NewInt(bigint.FromString(lexeme, p.loc(), nil))
}

func (p *Parser) octetLiteral(lexeme string) *value.Value {
	if len(lexeme)%2 != 0 {
		p.errorHere("octetstring literal %q has an odd number of hex digits", lexeme)
		return value.NewErrorValue(diag.ParseError)
	}
	return value.NewOstr(strval.NewOct(lexeme))
}

func unescapeCstr(s string) string {
	if !strings.Contains(s, "\\") {
		return s
	}
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
			switch s[i] {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			default:
				sb.WriteByte(s[i])
			}
			continue
		}
		sb.WriteByte(s[i])
	}
	return sb.String()
}

func (p *Parser) loc() diag.Location {
	tok := p.peek()
	return diag.Location{Line: tok.Line, Column: tok.Column, Source: lexer.LineText(p.source, tok.Line)}
}

func (p *Parser) errorHere(format string, args ...any) {
	p.Errors = append(p.Errors, diag.New(diag.ParseError, p.loc(), format, args...))
}

func (p *Parser) match(t lexer.TokenType) bool {
	if p.check(t) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) consume(t lexer.TokenType, msg string) lexer.Token {
	if p.check(t) {
		return p.advance()
	}
	err := diag.New(diag.ParseError, p.loc(), "%s (got %q)", msg, p.peek().Lexeme)
	panic(err)
}

func (p *Parser) check(t lexer.TokenType) bool {
	return p.peek().Type == t
}

func (p *Parser) advance() lexer.Token {
	tok := p.peek()
	if tok.Type != lexer.TokenEOF {
		p.current++
	}
	return tok
}

func (p *Parser) peek() lexer.Token { return p.tokens[p.current] }
