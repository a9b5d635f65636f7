package repl

import (
	"context"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/bv/lang"
	"github.com/ardnew/bv/lang/ast"
	"github.com/ardnew/bv/lang/token"
)

// ctrlCommands are the available control-mode commands.
var ctrlCommands = []string{"help", "list", "check", "edit", "clear", "quit"}

// isWordBoundary returns true if the rune is a word delimiter for completion
// purposes. This includes whitespace, the field-access dot, braces, and the
// quote and comment characters. Hyphens and '@' are part of words.
func isWordBoundary(r rune) bool {
	switch r {
	case '.', ' ', '\t', '\n',
		'{', '}', '\'', '"', '#':
		return true
	}

	return false
}

// wordBounds returns the current word at the cursor position and its byte
// boundaries within input.
// Returns an empty word when the cursor sits on a boundary (after a space,
// between dots, start of line, etc.).
func wordBounds(input string, cursor int) (word string, start, end int) {
	if cursor > len(input) {
		cursor = len(input)
	}

	// Walk backward from cursor to find word start.
	start = cursor

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	// Walk forward from cursor to find word end.
	end = cursor

	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}

		end += size
	}

	word = input[start:end]

	return word, start, end
}

// parentPath returns the dot-separated prefix path leading up to the current
// word, considering only the contiguous field-access chain. For input
// "@call @sys.text.re" with the word "re", the parent path is "@sys.text".
// Returns "" for top-level words.
func parentPath(input string, wordStart int) string {
	prefix := input[:wordStart]
	if !strings.HasSuffix(prefix, ".") {
		return ""
	}

	prefix = strings.TrimRight(prefix, ".")

	// Walk backward collecting words and dots, stopping at the first
	// boundary that is not a dot.
	end := len(prefix)
	pos := end

	for pos > 0 {
		r, size := utf8.DecodeLastRuneInString(prefix[:pos])
		if r != '.' && isWordBoundary(r) {
			break
		}

		pos -= size
	}

	return prefix[pos:end]
}

// topCandidates are offered for a word that is not part of a field chain.
var topCandidates = func() []string {
	words := token.Keywords()
	slices.Sort(words)

	return words
}()

// childCandidates returns the field names that are valid completions after
// the given parent path, along with the subset naming functions. The first
// segment of parent must be a keyword that denotes a structure; the rest are
// resolved by evaluating fields of the environment.
func childCandidates(
	ctx context.Context,
	env *lang.Environment,
	parent string,
) (names []string, funcs map[string]bool) {
	if parent == "" {
		return topCandidates, nil
	}

	segments := strings.Split(parent, ".")

	var base lang.Value

	switch segments[0] {
	case "@root", "@my":
		base = env.EvaluateIn(ctx, ast.My())
	case "@sys":
		base = lang.SheetValue(env.Sys())
	case "@lib":
		base = lang.SheetValue(env.Lib())
	default:
		return nil, nil
	}

	v, err := env.Lookup(ctx, base, segments[1:]...)
	if err != nil || v.Kind != lang.KindSheet {
		return nil, nil
	}

	funcs = make(map[string]bool)

	for name, c := range v.Sheet.All() {
		names = append(names, name)

		if val, ok := c.Peek(); ok && val.Kind == lang.KindFunction {
			funcs[name] = true
		}
	}

	return names, funcs
}

// computeMatches calculates the fuzzy match results for the word at the cursor.
// It returns the matches (ranked best-first), the candidate list with the
// names of function candidates, and the word boundaries. When the current
// word is empty at the top level, it returns nil matches. When the word is
// empty after a dot (field access), it returns all children as matches.
func (m model) computeMatches() (
	matches fuzzy.Matches,
	candidates []string,
	funcs map[string]bool,
	wordStart, wordEnd int,
) {
	input := m.input.Value()
	cursor := m.input.Position()

	word, ws, we := wordBounds(input, cursor)
	wordStart, wordEnd = ws, we

	if m.mode == modeCtrl {
		if word == "" {
			return nil, nil, nil, wordStart, wordEnd
		}

		candidates = ctrlCommands
	} else {
		parent := parentPath(input, wordStart)
		candidates, funcs = childCandidates(m.ctxFunc(), m.env, parent)

		// When the word is empty at the top level, don't show completions
		// (allows the hint text to be visible). After a dot, show all children
		// immediately so the user can browse the available fields.
		if word == "" {
			if parent == "" || len(candidates) == 0 {
				return nil, nil, nil, wordStart, wordEnd
			}

			matches = make(fuzzy.Matches, len(candidates))
			for i, c := range candidates {
				matches[i] = fuzzy.Match{Str: c, Index: i}
			}

			return matches, candidates, funcs, wordStart, wordEnd
		}
	}

	if len(candidates) == 0 {
		return nil, nil, nil, wordStart, wordEnd
	}

	matches = fuzzy.Find(word, candidates)

	return matches, candidates, funcs, wordStart, wordEnd
}

// renderCandidateBar builds the single-line completion bar, ellipsized to fit
// within the given terminal width. Each candidate is rendered with its matched
// characters highlighted. The selected candidate (when tabbing) uses the
// selected style.
func renderCandidateBar(
	matches fuzzy.Matches,
	funcs map[string]bool,
	suggIdx int,
	tabActive bool,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	sepWidth := lipgloss.Width(sep)
	ellipsis := hintStyle.Render("...")
	ellipsisWidth := lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		selected := tabActive && i == suggIdx
		rendered := renderCandidate(match, funcs[match.Str], selected)
		candidateWidth := lipgloss.Width(rendered)

		entryWidth := candidateWidth
		if i > 0 {
			entryWidth += sepWidth
		}

		// Check if adding this candidate would exceed width.
		if used+entryWidth+ellipsisWidth > width && i > 0 {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += entryWidth

		if i == len(matches)-1 {
			break
		}
	}

	return b.String()
}

// renderCandidate renders a single candidate with matched characters
// highlighted. Functions are displayed with a " {}" suffix.
func renderCandidate(match fuzzy.Match, function, selected bool) string {
	baseStyle := suggestionStyle
	highlightStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("4")).
		Bold(true)

	if selected {
		baseStyle = selectedStyle
		highlightStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4")).
			Bold(true)
	}

	matchSet := make(map[int]bool, len(match.MatchedIndexes))
	for _, idx := range match.MatchedIndexes {
		matchSet[idx] = true
	}

	var b strings.Builder

	for i, r := range match.Str {
		ch := string(r)
		if matchSet[i] {
			b.WriteString(highlightStyle.Render(ch))
		} else {
			b.WriteString(baseStyle.Render(ch))
		}
	}

	// The suffix is display only; it is never inserted.
	if function {
		b.WriteString(baseStyle.Render(" {}"))
	}

	return b.String()
}

// previewWidth is the longest field preview shown by the list command.
const previewWidth = 40

// formatPreview returns a one-line preview of a field: its value when it has
// already been computed, otherwise its source expression.
func formatPreview(c *lang.Cell) string {
	var text string

	if v, ok := c.Peek(); ok {
		text = "= " + v.String()
	} else if e := c.Expr(); e != nil {
		text = e.String()
	} else {
		text = "<" + c.Progress().String() + ">"
	}

	if r := []rune(text); len(r) > previewWidth {
		return string(r[:previewWidth-3]) + "..."
	}

	return text
}
