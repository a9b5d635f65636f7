// Package token defines the lexical tokens of the bv language.
package token

import (
	"strconv"
	"strings"
)

// Kind identifies the lexical class of a [Token].
type Kind int

const (
	// Error is a lexical error. The token text holds the message.
	Error Kind = iota

	CurlL // '{'
	CurlR // '}'
	Dot   // '.'

	KeyStruct // @struct
	KeyBind   // @bind
	KeyFrom   // @from
	KeyColumn // @column
	KeyCall   // @call
	KeyRoot   // @root
	KeySys    // @sys
	KeyLib    // @lib
	KeyMy     // @my
	KeyUp     // @up

	// Literal is quoted or bare text. The token text holds the decoded value.
	Literal

	Whitespace
	Comment
)

var kindName = [...]string{
	Error:      "Error",
	CurlL:      "Curl Start",
	CurlR:      "Curl End",
	Dot:        "Dot",
	KeyStruct:  "Struct",
	KeyBind:    "Bind",
	KeyFrom:    "From",
	KeyColumn:  "Column",
	KeyCall:    "Call",
	KeyRoot:    "Root",
	KeySys:     "Sys",
	KeyLib:     "Lib",
	KeyMy:      "My",
	KeyUp:      "Up",
	Literal:    "Literal",
	Whitespace: "White",
	Comment:    "Comment",
}

// String returns the display name of k.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindName) {
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}

	return kindName[k]
}

// keyword maps the word following '@' to its token kind.
var keyword = map[string]Kind{
	"struct": KeyStruct,
	"bind":   KeyBind,
	"from":   KeyFrom,
	"column": KeyColumn,
	"call":   KeyCall,
	"root":   KeyRoot,
	"sys":    KeySys,
	"lib":    KeyLib,
	"my":     KeyMy,
	"up":     KeyUp,
}

// Keyword returns the kind of the keyword spelled "@word".
func Keyword(word string) (Kind, bool) {
	k, ok := keyword[word]

	return k, ok
}

// Keywords returns the spelling of every keyword, including the '@' prefix.
func Keywords() []string {
	words := make([]string, 0, len(keyword))
	for w := range keyword {
		words = append(words, "@"+w)
	}

	return words
}

// IsKeyword reports whether k is an '@' keyword.
func (k Kind) IsKeyword() bool { return k >= KeyStruct && k <= KeyUp }

// Spelling returns the source spelling of a keyword or punctuation kind.
// It returns "" for kinds whose spelling depends on the token text.
func (k Kind) Spelling() string {
	switch k {
	case CurlL:
		return "{"
	case CurlR:
		return "}"
	case Dot:
		return "."
	}

	if k.IsKeyword() {
		for w, kw := range keyword {
			if kw == k {
				return "@" + w
			}
		}
	}

	return ""
}

// Pos is a position in source text. Line and Column are 1-based; Column
// counts runes.
type Pos struct {
	Offset int
	Line   int
	Column int
}

// IsValid reports whether p refers to a source location.
func (p Pos) IsValid() bool { return p.Line > 0 }

// String formats p as "line:column".
func (p Pos) String() string {
	if !p.IsValid() {
		return "-"
	}

	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// Token is a single lexical token.
type Token struct {
	Kind Kind
	Text string
	Pos  Pos
}

// String returns a short description of t, e.g. "q hello" for a literal.
func (t Token) String() string {
	switch t.Kind {
	case Literal:
		return "q " + t.Text
	case Whitespace:
		return "White " + strconv.Itoa(len(t.Text))
	case Comment, Error:
		return t.Kind.String() + " " + t.Text
	default:
		return t.Kind.String()
	}
}

// Quote returns text as a single-quoted bv literal when it can be written
// that way, otherwise as a Tc"..." literal (escapes on, curly escapes off).
func Quote(text string) string {
	if !strings.ContainsAny(text, "'\n") {
		return "'" + text + "'"
	}

	var b strings.Builder

	b.WriteString(`Tc"`)

	for _, r := range text {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\t':
			b.WriteString(`\t`)
		case '\n':
			b.WriteString(`\n`)
		case 0:
			b.WriteString(`\0`)
		default:
			b.WriteRune(r)
		}
	}

	b.WriteByte('"')

	return b.String()
}
