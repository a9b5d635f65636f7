// Package lang evaluates bv documents.
//
// A document is a single expression. Structures bind names to cells, and
// each cell is evaluated only when something asks for its value. Once
// evaluated, a cell keeps its value for the life of its [Environment].
//
// # Example
//
//	@struct {
//	  @bind name { world }
//	  @bind greeting {
//	    @call @sys.text.concat {
//	      @bind a { 'hello ' }
//	      @bind b { @my.name }
//	    }
//	  }
//	}
//
// # Scope
//
// Expressions address other cells relative to where they are written:
//
//   - @root is the value of the document
//   - @my is the innermost enclosing structure
//   - @up is the structure enclosing @my
//   - @sys holds the native functions of a [Registry]
//   - @lib holds documents added with [WithLibrary]
//
// The arguments of @call form a structure of their own, so @up inside an
// argument refers to the structure containing the call.
//
// # Errors
//
// Failures inside a document, such as a missing field or a reference
// cycle, are error values. They flow through expressions like any other
// value, and a structure holding one is still a valid structure. Go errors
// are reserved for the API itself: reading input, and [Environment.Lookup].
package lang
