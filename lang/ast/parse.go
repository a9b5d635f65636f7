package ast

import (
	"github.com/ardnew/bv/lang/lexer"
	"github.com/ardnew/bv/lang/token"
)

// ParseString tokenizes and parses text.
func ParseString(text string) *Expr {
	return Parse(lexer.Tokenize(text))
}

// Parse parses a complete document from toks. Whitespace and comment
// tokens are ignored.
//
// Parse never fails. Syntax errors are reported as [Error] nodes placed
// where the malformed construct would have been; use [Errors] to list
// them.
func Parse(toks []token.Token) *Expr {
	p := &parser{}

	for _, t := range toks {
		if t.Kind != token.Whitespace && t.Kind != token.Comment {
			p.toks = append(p.toks, t)
		}
	}

	doc := p.parseExpr()

	if t, ok := p.peek(); ok {
		return &Expr{
			Kind:  Error,
			Pos:   t.Pos,
			Text:  "Unexpected token after document",
			Items: []*Expr{doc},
		}
	}

	return doc
}

// parser holds the parser state.
type parser struct {
	toks []token.Token
	pos  int
}

func (p *parser) peek() (token.Token, bool) {
	if p.pos >= len(p.toks) {
		return token.Token{}, false
	}

	return p.toks[p.pos], true
}

func (p *parser) next() (token.Token, bool) {
	t, ok := p.peek()
	if ok {
		p.pos++
	}

	return t, ok
}

// end returns the position just past the last token, for errors at EOF.
func (p *parser) end() token.Pos {
	if len(p.toks) == 0 {
		return token.Pos{Offset: 0, Line: 1, Column: 1}
	}

	last := p.toks[len(p.toks)-1]

	return token.Pos{
		Offset: last.Pos.Offset + len(last.Text),
		Line:   last.Pos.Line,
		Column: last.Pos.Column + len(last.Text),
	}
}

// expect consumes the next token and reports whether it has kind k. On
// mismatch it returns an Error node positioned at the offending token.
func (p *parser) expect(k token.Kind, msg string) *Expr {
	t, ok := p.next()
	if !ok {
		return &Expr{Kind: Error, Pos: p.end(), Text: msg}
	}

	if t.Kind != k {
		return &Expr{Kind: Error, Pos: t.Pos, Text: msg}
	}

	return nil
}

// startsExpr reports whether t can begin an expression.
func startsExpr(t token.Token) bool {
	switch t.Kind {
	case token.Literal, token.Error,
		token.KeyColumn, token.KeyStruct, token.KeyFrom, token.KeyCall,
		token.KeyRoot, token.KeySys, token.KeyLib, token.KeyMy, token.KeyUp:
		return true
	}

	return false
}

// parseExpr parses: Primary ('.' Name)*.
func (p *parser) parseExpr() *Expr {
	e := p.parsePrimary()

	for {
		t, ok := p.peek()
		if !ok || t.Kind != token.Dot {
			return e
		}

		p.pos++

		name, ok := p.peek()
		if !ok || name.Kind != token.Literal {
			return &Expr{Kind: Error, Pos: t.Pos, Text: "'.' must be followed by a field name"}
		}

		p.pos++

		e = &Expr{Kind: Field, Pos: t.Pos, Target: e, Text: name.Text}
	}
}

func (p *parser) parsePrimary() *Expr {
	t, ok := p.next()
	if !ok {
		return &Expr{Kind: Error, Pos: p.end(), Text: "Expected Expr, got EOF"}
	}

	switch t.Kind {
	case token.Literal:
		return &Expr{Kind: Literal, Pos: t.Pos, Text: t.Text}
	case token.Error:
		return &Expr{Kind: Error, Pos: t.Pos, Text: t.Text}
	case token.KeyRoot:
		return &Expr{Kind: KeyRoot, Pos: t.Pos}
	case token.KeySys:
		return &Expr{Kind: KeySys, Pos: t.Pos}
	case token.KeyLib:
		return &Expr{Kind: KeyLib, Pos: t.Pos}
	case token.KeyMy:
		return &Expr{Kind: KeyMy, Pos: t.Pos}
	case token.KeyUp:
		return &Expr{Kind: KeyUp, Pos: t.Pos}
	case token.KeyColumn:
		return p.parseColumn(t.Pos)
	case token.KeyStruct:
		return p.parseStruct(t.Pos)
	case token.KeyFrom:
		return p.parseFrom(t.Pos)
	case token.KeyCall:
		return p.parseCall(t.Pos)
	}

	return &Expr{Kind: Error, Pos: t.Pos, Text: "Unexpected token " + describe(t)}
}

// parseColumn parses: '{' Expr* '}' following @column.
func (p *parser) parseColumn(pos token.Pos) *Expr {
	if err := p.expect(token.CurlL, "@column must be followed by '{'"); err != nil {
		return err
	}

	items, err := p.parseExprs("Column must end with '}'")
	if err != nil {
		return err
	}

	return &Expr{Kind: Column, Pos: pos, Items: items}
}

// parseStruct parses: '{' Bind* '}' following @struct.
func (p *parser) parseStruct(pos token.Pos) *Expr {
	if err := p.expect(token.CurlL, "@struct must be followed by '{'"); err != nil {
		return err
	}

	binds, err := p.parseBinds("Struct must end with '}'")
	if err != nil {
		return err
	}

	return &Expr{Kind: Struct, Pos: pos, Binds: binds}
}

// parseFrom parses: Expr '{' Expr* '}' following @from.
func (p *parser) parseFrom(pos token.Pos) *Expr {
	base := p.parseExpr()

	if err := p.expect(token.CurlL, "@from must be followed by '{'"); err != nil {
		return err
	}

	parts, err := p.parseExprs("From must end with '}'")
	if err != nil {
		err.Items = append([]*Expr{base}, err.Items...)

		return err
	}

	return &Expr{Kind: From, Pos: pos, Items: append([]*Expr{base}, parts...)}
}

// parseCall parses: Expr '{' Bind* '}' following @call.
func (p *parser) parseCall(pos token.Pos) *Expr {
	fn := p.parseExpr()

	if err := p.expect(token.CurlL, "@call must be followed by '{'"); err != nil {
		return err
	}

	args, err := p.parseBinds("Call must end with '}'")
	if err != nil {
		err.Target = fn

		return err
	}

	return &Expr{Kind: Call, Pos: pos, Target: fn, Binds: args}
}

// parseExprs parses Expr* up to and including the closing '}'. Any other
// terminator is reported with msg. The returned Error node holds the
// items parsed before the failure.
func (p *parser) parseExprs(msg string) ([]*Expr, *Expr) {
	items := make([]*Expr, 0)

	for {
		t, ok := p.peek()

		switch {
		case !ok:
			return nil, &Expr{Kind: Error, Pos: p.end(), Text: msg, Items: items}
		case t.Kind == token.CurlR:
			p.pos++

			return items, nil
		case startsExpr(t):
			items = append(items, p.parseExpr())
		default:
			p.pos++

			return nil, &Expr{Kind: Error, Pos: t.Pos, Text: msg, Items: items}
		}
	}
}

// parseBinds parses Bind* up to and including the closing '}'. The
// returned Error node holds the binds parsed before the failure.
func (p *parser) parseBinds(msg string) ([]*Bind, *Expr) {
	binds := make([]*Bind, 0)

	for {
		t, ok := p.peek()

		switch {
		case !ok:
			return nil, &Expr{Kind: Error, Pos: p.end(), Text: msg, Binds: binds}
		case t.Kind == token.CurlR:
			p.pos++

			return binds, nil
		case t.Kind == token.KeyBind:
			p.pos++

			b, err := p.parseBind(t.Pos)
			if err != nil {
				err.Binds = append(binds, err.Binds...)

				return nil, err
			}

			binds = append(binds, b)
		default:
			p.pos++

			return nil, &Expr{Kind: Error, Pos: t.Pos, Text: msg, Binds: binds}
		}
	}
}

// parseBind parses: Name '{' Expr '}' following @bind.
func (p *parser) parseBind(pos token.Pos) (*Bind, *Expr) {
	name, ok := p.next()
	if !ok || name.Kind != token.Literal {
		at := p.end()
		if ok {
			at = name.Pos
		}

		return nil, &Expr{Kind: Error, Pos: at, Text: "@bind must be followed by a name"}
	}

	if err := p.expect(token.CurlL, "@bind must be followed by '{'"); err != nil {
		return nil, err
	}

	value := p.parseExpr()

	if err := p.expect(token.CurlR, "Bind must end with '}'"); err != nil {
		err.Binds = []*Bind{{Name: name.Text, Value: value, Pos: pos}}

		return nil, err
	}

	return &Bind{Name: name.Text, Value: value, Pos: pos}, nil
}

func describe(t token.Token) string {
	if sp := t.Kind.Spelling(); sp != "" {
		return "'" + sp + "'"
	}

	return t.Kind.String()
}
