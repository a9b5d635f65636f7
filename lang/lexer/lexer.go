// Package lexer converts bv source text into a sequence of tokens.
//
// Lexing never fails: malformed input produces [token.Error] tokens carrying
// a message, and scanning resumes after the offending text.
package lexer

import (
	"iter"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ardnew/bv/lang/token"
)

type config struct {
	whitespace bool
	comments   bool
}

// Option configures which tokens the lexer emits.
type Option func(config) config

// WithWhitespace controls whether whitespace tokens are emitted.
func WithWhitespace(keep bool) Option {
	return func(c config) config {
		c.whitespace = keep

		return c
	}
}

// WithComments controls whether comment tokens are emitted.
func WithComments(keep bool) Option {
	return func(c config) config {
		c.comments = keep

		return c
	}
}

// Tokenize returns the significant tokens of text. Whitespace and comments
// are dropped unless enabled with opts.
func Tokenize(text string, opts ...Option) []token.Token {
	return slices.Collect(Tokens(text, opts...))
}

// Scan returns every token of text, including whitespace and comments.
func Scan(text string) []token.Token {
	return Tokenize(text, WithWhitespace(true), WithComments(true))
}

// Tokens returns an iterator over the tokens of text.
func Tokens(text string, opts ...Option) iter.Seq[token.Token] {
	var cfg config
	for _, opt := range opts {
		cfg = opt(cfg)
	}

	return func(yield func(token.Token) bool) {
		s := &scanner{src: text, line: 1, col: 1}

		for !s.eof() {
			tok := s.next()

			switch tok.Kind {
			case token.Whitespace:
				if !cfg.whitespace {
					continue
				}
			case token.Comment:
				if !cfg.comments {
					continue
				}
			}

			if !yield(tok) {
				return
			}
		}
	}
}

// scanner holds the lexer state.
type scanner struct {
	src  string
	off  int
	line int
	col  int
}

func (s *scanner) eof() bool { return s.off >= len(s.src) }

func (s *scanner) pos() token.Pos {
	return token.Pos{Offset: s.off, Line: s.line, Column: s.col}
}

// peek returns the next rune without consuming it, or -1 at EOF.
func (s *scanner) peek() rune {
	if s.eof() {
		return -1
	}

	r, _ := utf8.DecodeRuneInString(s.src[s.off:])

	return r
}

// advance consumes and returns the next rune, or -1 at EOF.
func (s *scanner) advance() rune {
	if s.eof() {
		return -1
	}

	r, n := utf8.DecodeRuneInString(s.src[s.off:])
	s.off += n

	if r == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}

	return r
}

// skipLine consumes input up to, but not including, the next newline.
func (s *scanner) skipLine() {
	for !s.eof() && s.peek() != '\n' {
		s.advance()
	}
}

func (s *scanner) next() token.Token {
	start := s.pos()
	c := s.peek()

	switch {
	case unicode.IsSpace(c):
		return s.whitespace(start)
	case isWord(c):
		return s.bare(start)
	}

	switch c {
	case '{':
		s.advance()

		return token.Token{Kind: token.CurlL, Text: "{", Pos: start}
	case '}':
		s.advance()

		return token.Token{Kind: token.CurlR, Text: "}", Pos: start}
	case '.':
		s.advance()

		return token.Token{Kind: token.Dot, Text: ".", Pos: start}
	case '\'':
		return s.single(start)
	case '"':
		s.advance()

		return s.double(start, "")
	case '@':
		return s.keyword(start)
	case '#':
		return s.hash(start)
	}

	s.advance()

	return errorf(start, "Unknown character "+quoteRune(c))
}

func (s *scanner) whitespace(start token.Pos) token.Token {
	for unicode.IsSpace(s.peek()) {
		s.advance()
	}

	return token.Token{
		Kind: token.Whitespace,
		Text: s.src[start.Offset:s.off],
		Pos:  start,
	}
}

func (s *scanner) keyword(start token.Pos) token.Token {
	s.advance() // '@'

	from := s.off
	for isAlnum(s.peek()) {
		s.advance()
	}

	word := s.src[from:s.off]
	if kind, ok := token.Keyword(word); ok {
		return token.Token{Kind: kind, Text: "@" + word, Pos: start}
	}

	return errorf(start, "Unknown keyword @"+word)
}

// bare scans an unquoted word. A word immediately followed by '"' is the
// flag prefix of a double-quoted literal.
func (s *scanner) bare(start token.Pos) token.Token {
	for isWord(s.peek()) {
		s.advance()
	}

	word := s.src[start.Offset:s.off]

	if s.peek() == '"' {
		s.advance()

		return s.double(start, word)
	}

	return token.Token{Kind: token.Literal, Text: word, Pos: start}
}

func (s *scanner) single(start token.Pos) token.Token {
	s.advance() // '\''

	var b strings.Builder

	for {
		switch c := s.peek(); c {
		case -1:
			return errorf(start, "Unterminated single quote")
		case '\n':
			return errorf(start, "Single quote to end of line")
		case '\'':
			s.advance()

			return token.Token{Kind: token.Literal, Text: b.String(), Pos: start}
		default:
			b.WriteRune(s.advance())
		}
	}
}

// qqFlags selects the escape classes recognized inside a double quote.
type qqFlags struct {
	curly bool // c: raw '{' introduces a code point escape
	digit bool // d: \{ddd}
	quote bool // q: \"
	tab   bool // t: \t \n \0
}

const qqOrder = "cdqt"

func parseFlags(word string) (qqFlags, string) {
	var f qqFlags

	if word == "" {
		return f, "qq empty word"
	}

	var on bool

	switch word[0] {
	case 't':
		on = true
	case 'T':
		f = qqFlags{curly: true, digit: true, quote: true, tab: true}
	case 'q', 'Q':
		return f, "qqq nyi"
	default:
		return f, "qq flags must start with T or Q"
	}

	last := -1

	for _, c := range word[1:] {
		ix := strings.IndexRune(qqOrder, c)
		if ix < 0 {
			return f, "unrecognized qq flag"
		}

		if ix <= last {
			return f, "qq flags must be ordered"
		}

		last = ix

		switch c {
		case 'c':
			f.curly = on
		case 'd':
			f.digit = on
		case 'q':
			f.quote = on
		case 't':
			f.tab = on
		}
	}

	return f, ""
}

// double scans the body of a double-quoted literal; the opening quote has
// been consumed.
func (s *scanner) double(start token.Pos, flags string) token.Token {
	f, msg := parseFlags(flags)
	if msg != "" {
		s.skipQuoted()

		return errorf(start, msg)
	}

	slash := f.tab || f.digit || f.quote

	var b strings.Builder

	for {
		c := s.peek()

		switch {
		case c == -1:
			return errorf(start, "Unterminated double quote")
		case c == '"':
			s.advance()

			return token.Token{Kind: token.Literal, Text: b.String(), Pos: start}
		case c == '\n':
			return errorf(start, "newline forbidden")
		case c == '\\' && slash:
			s.advance()

			r, ok := s.escape(f)
			if !ok {
				s.skipQuoted()

				return errorf(start, "invalid escape")
			}

			b.WriteRune(r)
		case c == '{' && f.curly:
			s.skipQuoted()

			return errorf(start, "curly escapes not supported")
		case unicode.IsControl(c):
			s.skipQuoted()

			return errorf(start, "hidden chars forbidden")
		default:
			b.WriteRune(s.advance())
		}
	}
}

func (s *scanner) escape(f qqFlags) (rune, bool) {
	switch c := s.peek(); {
	case c == '\\':
	case f.tab && c == 't':
		s.advance()

		return '\t', true
	case f.tab && c == 'n':
		s.advance()

		return '\n', true
	case f.tab && c == '0':
		s.advance()

		return 0, true
	case f.quote && c == '"':
	default:
		return 0, false
	}

	return s.advance(), true
}

// skipQuoted discards the rest of a double-quoted literal, stopping after
// the closing quote or before a newline.
func (s *scanner) skipQuoted() {
	for !s.eof() {
		switch s.peek() {
		case '\n':
			return
		case '"':
			s.advance()

			return
		case '\\':
			s.advance()
		}

		s.advance()
	}
}

func (s *scanner) hash(start token.Pos) token.Token {
	s.advance() // '#'

	hashes := 1
	for s.peek() == '#' {
		s.advance()
		hashes++
	}

	c := s.peek()

	switch {
	case c == -1 || c == '\n':
		if hashes > 1 {
			return errorf(start, "empty multihash not supported")
		}

		return token.Token{Kind: token.Comment, Pos: start}
	case unicode.IsSpace(c):
		if hashes > 1 {
			s.skipLine()

			return errorf(start, "multihash not supported")
		}

		s.advance()

		from := s.off
		s.skipLine()

		return token.Token{
			Kind: token.Comment,
			Text: strings.TrimRight(s.src[from:s.off], "\r"),
			Pos:  start,
		}
	case isAlnum(c):
		s.skipLine()

		return errorf(start, "pragma not supported")
	case strings.ContainsRune("{([<`'\"|", c):
		s.skipLine()

		return errorf(start, "inline comment not supported")
	case c == '+' || c == '-':
		s.skipLine()

		return errorf(start, "on/off pragma not supported")
	}

	s.skipLine()

	return errorf(start, "bad character after '#'")
}

func errorf(pos token.Pos, msg string) token.Token {
	return token.Token{Kind: token.Error, Text: msg, Pos: pos}
}

func isAlnum(r rune) bool { return unicode.IsLetter(r) || unicode.IsDigit(r) }

func isWord(r rune) bool { return isAlnum(r) || r == '_' || r == '-' }

func quoteRune(r rune) string {
	if r == '\'' {
		return `"'"`
	}

	return "'" + string(r) + "'"
}
