package repl

import (
	"bufio"
	"errors"
	"io/fs"
	"os"
	"strings"
	"sync"
)

const (
	baseHistory = "history.utf8"

	// maxHistory bounds the entries kept on disk.
	maxHistory = 1000
)

// modeTag prefixes each history file line with the mode of its entry.
var modeTag = map[inputMode]string{
	modeEval: "E:",
	modeCtrl: "C:",
}

// HistoryEntry represents a single history entry with its mode.
type HistoryEntry struct {
	Line string
	Mode inputMode
}

func (e HistoryEntry) encode() string { return modeTag[e.Mode] + e.Line + "\n" }

func decodeEntry(line string) HistoryEntry {
	for mode, tag := range modeTag {
		if s, ok := strings.CutPrefix(line, tag); ok {
			return HistoryEntry{Line: s, Mode: mode}
		}
	}

	return HistoryEntry{Line: line, Mode: modeEval}
}

// History manages REPL input history with file persistence. Each line of the
// file holds one entry prefixed with its mode, "E:" for expressions and "C:"
// for commands.
type History struct {
	path    string
	entries []HistoryEntry
	mu      sync.RWMutex
}

// NewHistory creates a new History instance with the given file path.
func NewHistory(path string) *History {
	return &History{path: path}
}

// Load reads history entries from the history file. A missing file is an
// empty history.
func (h *History) Load() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	file, err := os.Open(h.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	if err != nil {
		return err
	}
	defer file.Close()

	h.entries = nil

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			h.entries = append(h.entries, decodeEntry(line))
		}
	}

	return scanner.Err()
}

// WriteWithMode appends a new entry to the history with the specified mode.
// An earlier identical entry is moved to the end instead of repeated.
func (h *History) WriteWithMode(line string, mode inputMode) (int, error) {
	entry := HistoryEntry{Line: strings.TrimSpace(line), Mode: mode}
	if entry.Line == "" {
		return 0, nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if n := len(h.entries); n > 0 && h.entries[n-1] == entry {
		return len(entry.Line), nil
	}

	rewrite := false

	for i, e := range h.entries {
		if e == entry {
			h.entries = append(h.entries[:i], h.entries[i+1:]...)
			rewrite = true

			break
		}
	}

	h.entries = append(h.entries, entry)

	if over := len(h.entries) - maxHistory; over > 0 {
		h.entries = h.entries[over:]
		rewrite = true
	}

	if rewrite {
		return h.rewriteFile()
	}

	file, err := os.OpenFile(h.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	return file.WriteString(entry.encode())
}

// Seek returns the index of the nearest entry after from, moving by step
// (+1 or -1), that satisfies match. A nil match accepts every entry.
func (h *History) Seek(
	from, step int,
	match func(HistoryEntry) bool,
) (int, HistoryEntry, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for i := from + step; i >= 0 && i < len(h.entries); i += step {
		if match == nil || match(h.entries[i]) {
			return i, h.entries[i], true
		}
	}

	return 0, HistoryEntry{}, false
}

// Len returns the number of history entries.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.entries)
}

// Entries returns all history entries.
func (h *History) Entries() []HistoryEntry {
	h.mu.RLock()
	defer h.mu.RUnlock()

	result := make([]HistoryEntry, len(h.entries))
	copy(result, h.entries)

	return result
}

// rewriteFile rewrites the entire history file with current entries.
// Must be called with h.mu held.
func (h *History) rewriteFile() (int, error) {
	file, err := os.OpenFile(h.path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	total := 0

	for _, entry := range h.entries {
		n, err := file.WriteString(entry.encode())
		if err != nil {
			return total, err
		}

		total += n
	}

	return total, nil
}
