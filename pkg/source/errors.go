// Package source parses conversational workflow documents into the internal
// node/edge model and validates their shape.
package source

import (
	"errors"
	"fmt"
)

// Sentinel errors for programmatic checking via errors.Is().
var (
	// ErrParse indicates malformed JSON or a document failing shape validation.
	ErrParse = errors.New("parse error")

	// ErrStructural indicates graph-level violations: duplicate ids, dangling
	// edges, missing entry node.
	ErrStructural = errors.New("structural error")
)

// ParseError represents a failure to decode or shape-validate the document.
type ParseError struct {
	Msg string
	Err error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", ErrParse.Error(), e.Msg, e.Err)
	}

	return fmt.Sprintf("%s: %s", ErrParse.Error(), e.Msg)
}

func (e *ParseError) Unwrap() error { return ErrParse }

// StructuralError represents a graph-level violation. Kind is a stable
// machine-readable tag; Msg names the offending node or edge.
type StructuralError struct {
	Kind string
	Msg  string
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrStructural.Error(), e.Kind, e.Msg)
}

func (e *StructuralError) Unwrap() error { return ErrStructural }

// OrphanWarning flags a node excluded from compilation because nothing
// connects to it. Non-fatal: logged, never blocks output.
type OrphanWarning struct {
	NodeID string
	Reason string
}

func (w OrphanWarning) String() string {
	return fmt.Sprintf("orphan node %q excluded: %s", w.NodeID, w.Reason)
}
