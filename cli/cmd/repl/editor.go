package repl

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/ardnew/bv/lang"
	"github.com/ardnew/bv/lang/ast"
	"github.com/ardnew/bv/log"
)

const defaultEditor = "vi"

// editDocumentCommand implements [tea.ExecCommand] for the document
// edit-parse-retry loop. It formats the current document to a temp file,
// opens the user's editor, and re-parses the result. On syntax error the user
// is prompted to re-edit; declining exits the program.
type editDocumentCommand struct {
	doc     *ast.Expr
	ctxFunc func() context.Context
	newDoc  *ast.Expr
	logger  log.Logger
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
}

// SetStdin sets the stdin reader for the command.
func (c *editDocumentCommand) SetStdin(r io.Reader) { c.stdin = r }

// SetStdout sets the stdout writer for the command.
func (c *editDocumentCommand) SetStdout(w io.Writer) { c.stdout = w }

// SetStderr sets the stderr writer for the command.
func (c *editDocumentCommand) SetStderr(w io.Writer) { c.stderr = w }

// Run executes the edit-parse-retry loop. It formats the document, opens the
// editor, parses the result, and prompts on error. If the user declines to
// re-edit, it returns [ErrEditDeclined].
func (c *editDocumentCommand) Run() error {
	ctx := c.ctxFunc()

	var buf bytes.Buffer
	if err := c.doc.Format(&buf, 2); err != nil {
		return fmt.Errorf("format document: %w", err)
	}

	content := buf.String()

	// Create a single temp file for the entire loop.
	f, err := os.CreateTemp(os.TempDir(), "bv-repl-*.bv")
	if err != nil {
		return err
	}

	tmpPath := f.Name()

	defer os.Remove(tmpPath)

	if err := f.Chmod(0o600); err != nil {
		f.Close()

		return err
	}

	f.Close()

	for {
		// Write current content to temp file.
		if err := os.WriteFile(tmpPath, []byte(content), 0o600); err != nil {
			return err
		}

		data, err := runEditor(ctx, c.stdin, c.stdout, c.stderr, tmpPath)
		if err != nil {
			return err
		}

		// The user cleared the content; treat as a cancelled edit.
		if len(bytes.TrimSpace(data)) == 0 {
			return nil
		}

		newDoc := lang.ParseString(ctx, string(data), lang.WithLogger(c.logger))
		parseErr := lang.SyntaxError(newDoc)
		c.logger.TraceContext(
			ctx,
			"editor parse attempt",
			slog.Int("content_length", len(data)),
			slog.Bool("success", parseErr == nil),
		)

		if parseErr == nil {
			c.newDoc = newDoc

			return nil
		}

		// Show error and prompt.
		fmt.Fprintf(c.stderr, "\nSyntax error: %s\n", parseErr)
		fmt.Fprintf(c.stdout, "Re-edit? [Y/n] ")

		scanner := bufio.NewScanner(c.stdin)
		if !scanner.Scan() {
			return ErrEditDeclined
		}

		response := strings.TrimSpace(strings.ToLower(scanner.Text()))
		if response == "n" || response == "no" {
			return ErrEditDeclined
		}

		// Keep the failed content for the next editor iteration.
		content = string(data)
	}
}

// runEditor launches the user's editor on the given file path and returns
// the edited file content.
func runEditor(
	ctx context.Context,
	stdin io.Reader,
	stdout io.Writer,
	stderr io.Writer,
	path string,
) ([]byte, error) {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = defaultEditor
	}

	cmd := exec.CommandContext(ctx, editor, path)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		return nil, err
	}

	return os.ReadFile(path)
}
