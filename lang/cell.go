package lang

import "github.com/ardnew/bv/lang/ast"

// Progress is the evaluation state of a [Cell].
type Progress int

const (
	// Pending cells have not been evaluated.
	Pending Progress = iota
	// InProgress cells are being evaluated; reaching one again is a cycle.
	InProgress
	// Done cells hold their final value.
	Done
)

func (p Progress) String() string {
	switch p {
	case Pending:
		return "pending"
	case InProgress:
		return "in progress"
	case Done:
		return "done"
	}

	return "unknown"
}

// Cell is a lazily evaluated, memoized slot holding an expression and the
// scope path it was defined in.
//
// A cell moves from Pending through InProgress to Done at most once and
// never leaves Done. Cells are not safe for concurrent evaluation; each
// goroutine must use its own [Environment].
type Cell struct {
	expr     *ast.Expr
	scope    scope
	progress Progress
	value    Value
}

func newCell(expr *ast.Expr, sc scope) *Cell {
	return &Cell{expr: expr, scope: sc}
}

// ValueCell returns a cell that is already Done with v.
func ValueCell(v Value) *Cell {
	return &Cell{progress: Done, value: v}
}

// Expr returns the cell's expression, or nil for a value cell.
func (c *Cell) Expr() *ast.Expr { return c.expr }

// Progress returns the cell's evaluation state.
func (c *Cell) Progress() Progress { return c.progress }

// Peek returns the cell's value if it is Done, without evaluating it.
func (c *Cell) Peek() (Value, bool) {
	if c.progress != Done {
		return Value{}, false
	}

	return c.value, true
}
