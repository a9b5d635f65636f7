package repl

import "errors"

// Sentinel errors.
var (
	ErrEditDeclined = errors.New("decline edit")
	ErrNoSource     = errors.New("no document to evaluate")
)
