// Package explain implements the debug shell (`variancecheck explain`):
// a tiny textual notation for hacktype.Type expressions, parsed the way the
// host type-checker's own types stringify themselves (internal/hacktype's
// String() methods are this grammar's informal spec, read backwards), plus
// an interactive REPL for running the traversal on ad hoc input and
// printing the full reason-chain rendering.
package explain

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/sunholo/variance/internal/ast"
	"github.com/sunholo/variance/internal/hacktype"
)

const fileName = "<explain>"

type tokenKind int

const (
	tokIdent tokenKind = iota
	tokPunct
	tokEOF
)

type token struct {
	kind tokenKind
	text string
	pos  int // byte offset
}

// lex tokenizes src into idents/keywords and single/double-char punctuation.
func lex(src string) []token {
	var toks []token
	i := 0
	for i < len(src) {
		c := rune(src[i])
		if unicode.IsSpace(c) {
			i++
			continue
		}
		if unicode.IsLetter(c) || c == '_' || c == '#' || c == '$' {
			start := i
			for i < len(src) {
				c := rune(src[i])
				if unicode.IsLetter(c) || unicode.IsDigit(c) || c == '_' || c == '#' || c == '$' {
					i++
					continue
				}
				break
			}
			toks = append(toks, token{kind: tokIdent, text: src[start:i], pos: start})
			continue
		}
		if strings.HasPrefix(src[i:], "::") {
			toks = append(toks, token{kind: tokPunct, text: "::", pos: i})
			i += 2
			continue
		}
		toks = append(toks, token{kind: tokPunct, text: string(c), pos: i})
		i++
	}
	toks = append(toks, token{kind: tokEOF, text: "", pos: len(src)})
	return toks
}

// parser is a hand-rolled recursive-descent parser over the token stream.
// scope tracks which identifiers are in-scope generic parameters at the
// current point (TGeneric) versus everything else (TApply, looked up by the
// oracle at check time, or a built-in primitive name).
type parser struct {
	toks  []token
	pos   int
	scope map[string]bool
}

var primNames = map[string]bool{
	"int": true, "string": true, "bool": true, "float": true,
	"void": true, "num": true, "arraykey": true, "resource": true,
}

// ParseType parses a single type expression under the given scope (the set
// of identifiers that should resolve to TGeneric rather than TApply).
func ParseType(src string, scope map[string]bool) (hacktype.Type, error) {
	p := &parser{toks: lex(src), scope: cloneScope(scope)}
	t, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if p.cur().kind != tokEOF {
		return nil, fmt.Errorf("unexpected trailing input at byte %d: %q", p.cur().pos, p.cur().text)
	}
	return t, nil
}

func cloneScope(scope map[string]bool) map[string]bool {
	out := make(map[string]bool, len(scope))
	for k, v := range scope {
		out[k] = v
	}
	return out
}

func (p *parser) cur() token  { return p.toks[p.pos] }
func (p *parser) advance() token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *parser) posAt() ast.Pos {
	return ast.Pos{File: fileName, Line: 1, Column: p.cur().pos + 1, Offset: p.cur().pos}
}

func (p *parser) expectPunct(s string) error {
	if p.cur().kind == tokPunct && p.cur().text == s {
		p.advance()
		return nil
	}
	return fmt.Errorf("expected %q at byte %d, got %q", s, p.cur().pos, p.cur().text)
}

func (p *parser) isPunct(s string) bool {
	return p.cur().kind == tokPunct && p.cur().text == s
}

func (p *parser) isIdent(s string) bool {
	return p.cur().kind == tokIdent && p.cur().text == s
}

// parseType parses the widest production: a parenthesized tuple/union/
// intersection group, or a single primary.
func (p *parser) parseType() (hacktype.Type, error) {
	if p.isPunct("(") {
		return p.parseParenGroup()
	}
	return p.parsePrimary()
}

func (p *parser) parseParenGroup() (hacktype.Type, error) {
	start := p.posAt()
	p.advance() // '('
	first, err := p.parseType()
	if err != nil {
		return nil, err
	}
	elems := []hacktype.Type{first}
	sep := ""
	for p.isPunct(",") || p.isPunct("|") || p.isPunct("&") {
		s := p.cur().text
		if sep == "" {
			sep = s
		} else if sep != s {
			return nil, fmt.Errorf("mixed separators in parenthesized group at byte %d", p.cur().pos)
		}
		p.advance()
		next, err := p.parseType()
		if err != nil {
			return nil, err
		}
		elems = append(elems, next)
	}
	if err := p.expectPunct(")"); err != nil {
		return nil, err
	}
	switch sep {
	case ",":
		return hacktype.TTuple{P: start, Elems: elems}, nil
	case "|":
		return hacktype.TUnion{P: start, Members: elems}, nil
	case "&":
		return hacktype.TIntersection{P: start, Members: elems}, nil
	default:
		return first, nil // bare grouping parens
	}
}

func (p *parser) parsePrimary() (hacktype.Type, error) {
	start := p.posAt()

	if p.isPunct("?") {
		p.advance()
		inner, err := p.parseType()
		if err != nil {
			return nil, err
		}
		return hacktype.TOption{P: start, Inner: inner}, nil
	}
	if p.isPunct("~") {
		p.advance()
		inner, err := p.parseType()
		if err != nil {
			return nil, err
		}
		return hacktype.TLike{P: start, Inner: inner}, nil
	}

	if p.cur().kind != tokIdent {
		return nil, fmt.Errorf("expected type at byte %d, got %q", p.cur().pos, p.cur().text)
	}

	switch p.cur().text {
	case "this":
		p.advance()
		return hacktype.TThis{P: start}, nil
	case "any":
		p.advance()
		return hacktype.TAny{P: start}, nil
	case "error":
		p.advance()
		return hacktype.TErr{P: start}, nil
	case "mixed":
		p.advance()
		return hacktype.TMixed{P: start}, nil
	case "nonnull":
		p.advance()
		return hacktype.TNonNull{P: start}, nil
	case "dynamic":
		p.advance()
		return hacktype.TDynamic{P: start}, nil
	case "darray":
		return p.parseDarrayLike(start)
	case "varray_or_darray":
		return p.parseDarrayLike(start)
	case "varray":
		p.advance()
		if err := p.expectPunct("<"); err != nil {
			return nil, err
		}
		val, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if err := p.expectPunct(">"); err != nil {
			return nil, err
		}
		return hacktype.TVarray{P: start, Value: val}, nil
	case "shape":
		return p.parseShape(start)
	case "function":
		return p.parseFun(start)
	}

	return p.parseNamedOrAccess(start)
}

func (p *parser) parseDarrayLike(start ast.Pos) (hacktype.Type, error) {
	name := p.advance().text
	if err := p.expectPunct("<"); err != nil {
		return nil, err
	}
	key, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if err := p.expectPunct(","); err != nil {
		return nil, err
	}
	val, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if err := p.expectPunct(">"); err != nil {
		return nil, err
	}
	if name == "darray" {
		return hacktype.TDarray{P: start, Key: key, Value: val}, nil
	}
	return hacktype.TVarrayOrDarray{P: start, Key: key, Value: val}, nil
}

func (p *parser) parseShape(start ast.Pos) (hacktype.Type, error) {
	p.advance() // 'shape'
	if err := p.expectPunct("("); err != nil {
		return nil, err
	}
	var fields []hacktype.ShapeField
	for !p.isPunct(")") {
		optional := false
		if p.isPunct("?") {
			optional = true
			p.advance()
		}
		if p.cur().kind != tokIdent {
			return nil, fmt.Errorf("expected shape field name at byte %d", p.cur().pos)
		}
		name := p.advance().text
		if err := p.expectPunct(":"); err != nil {
			return nil, err
		}
		ft, err := p.parseType()
		if err != nil {
			return nil, err
		}
		fields = append(fields, hacktype.ShapeField{Name: name, Optional: optional, Type: ft})
		if p.isPunct(",") {
			p.advance()
			continue
		}
		break
	}
	if err := p.expectPunct(")"); err != nil {
		return nil, err
	}
	return hacktype.TShape{P: start, Fields: fields}, nil
}

func (p *parser) parseNamedOrAccess(start ast.Pos) (hacktype.Type, error) {
	name := p.advance().text

	var args []hacktype.Type
	if p.isPunct("<") {
		p.advance()
		for {
			a, err := p.parseType()
			if err != nil {
				return nil, err
			}
			args = append(args, a)
			if p.isPunct(",") {
				p.advance()
				continue
			}
			break
		}
		if err := p.expectPunct(">"); err != nil {
			return nil, err
		}
	}

	var t hacktype.Type
	switch {
	case primNames[name]:
		t = hacktype.TPrim{P: start, Name: name}
	case p.scope[name]:
		t = hacktype.TGeneric{P: start, Name: name, Args: args}
	default:
		t = hacktype.TApply{P: start, Name: name, Args: args}
	}

	for p.isPunct("::") {
		accessPos := p.posAt()
		p.advance()
		if p.cur().kind != tokIdent {
			return nil, fmt.Errorf("expected member name after '::' at byte %d", p.cur().pos)
		}
		member := p.advance().text
		t = hacktype.TAccess{P: accessPos, Inner: t, Name: member}
	}
	return t, nil
}

// parseFun parses `function [<tparams>] (params): ret [where ...]`.
func (p *parser) parseFun(start ast.Pos) (hacktype.Type, error) {
	p.advance() // 'function'

	childScope := cloneScope(p.scope)
	var tparams []hacktype.TParam

	if p.isPunct("<") {
		p.advance()
		for {
			name, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			childScope[name] = true
			tp := hacktype.TParam{Name: name}
			for p.isIdent("as") || p.isIdent("super") || p.isPunct("=") {
				kind := hacktype.KindAs
				switch {
				case p.isIdent("super"):
					kind = hacktype.KindSuper
				case p.isPunct("="):
					kind = hacktype.KindEq
				}
				p.advance()
				saved := p.scope
				p.scope = childScope
				bt, err := p.parseType()
				p.scope = saved
				if err != nil {
					return nil, err
				}
				tp.Constraints = append(tp.Constraints, hacktype.Constraint{Kind: kind, Type: bt})
			}
			tparams = append(tparams, tp)
			if p.isPunct(",") {
				p.advance()
				continue
			}
			break
		}
		if err := p.expectPunct(">"); err != nil {
			return nil, err
		}
	}

	saved := p.scope
	p.scope = childScope

	if err := p.expectPunct("("); err != nil {
		p.scope = saved
		return nil, err
	}
	var params []hacktype.Param
	var variadic *hacktype.Param
	for !p.isPunct(")") {
		mode := hacktype.ModeNormal
		if p.isIdent("inout") {
			mode = hacktype.ModeInout
			p.advance()
		}
		variadicHere := false
		if p.isPunct(".") {
			// "..." variadic marker
			for p.isPunct(".") {
				p.advance()
			}
			variadicHere = true
		}
		pt, err := p.parseType()
		if err != nil {
			p.scope = saved
			return nil, err
		}
		if variadicHere {
			variadic = &hacktype.Param{Mode: mode, Type: pt}
		} else {
			params = append(params, hacktype.Param{Mode: mode, Type: pt})
		}
		if p.isPunct(",") {
			p.advance()
			continue
		}
		break
	}
	if err := p.expectPunct(")"); err != nil {
		p.scope = saved
		return nil, err
	}

	if err := p.expectPunct(":"); err != nil {
		p.scope = saved
		return nil, err
	}
	ret, err := p.parseType()
	if err != nil {
		p.scope = saved
		return nil, err
	}

	var wheres []hacktype.WhereConstraint
	if p.isIdent("where") {
		p.advance()
		for {
			left, err := p.parseType()
			if err != nil {
				p.scope = saved
				return nil, err
			}
			kind := hacktype.KindAs
			switch {
			case p.isIdent("super"):
				kind = hacktype.KindSuper
			case p.isPunct("="):
				kind = hacktype.KindEq
			case p.isIdent("as"):
				kind = hacktype.KindAs
			default:
				p.scope = saved
				return nil, fmt.Errorf("expected 'as'/'super'/'=' in where-clause at byte %d", p.cur().pos)
			}
			p.advance()
			right, err := p.parseType()
			if err != nil {
				p.scope = saved
				return nil, err
			}
			wheres = append(wheres, hacktype.WhereConstraint{Left: left, Kind: kind, Right: right})
			if p.isPunct(",") {
				p.advance()
				continue
			}
			break
		}
	}
	p.scope = saved

	return hacktype.TFun{
		P:        start,
		Params:   params,
		Variadic: variadic,
		TParams:  tparams,
		Where:    wheres,
		Ret:      ret,
	}, nil
}

func (p *parser) expectIdent() (string, error) {
	if p.cur().kind != tokIdent {
		return "", fmt.Errorf("expected identifier at byte %d, got %q", p.cur().pos, p.cur().text)
	}
	return p.advance().text, nil
}
