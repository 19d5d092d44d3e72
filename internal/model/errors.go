package model

import "fmt"

// ErrorKind classifies input problems that abort a run before any report is
// produced. Over-capacity is deliberately absent: exceeding a declared
// capacity is a flag on report data, never an error.
type ErrorKind string

const (
	// DuplicateID - two entities of the same type share an id.
	DuplicateID ErrorKind = "duplicate_id"
	// DanglingReference - a step, machine, or order references an id that is
	// not in the catalog.
	DanglingReference ErrorKind = "dangling_reference"
	// EmptyRange - the requested window has start after end.
	EmptyRange ErrorKind = "empty_range"
	// MalformedInput - a structurally invalid configuration or plan document.
	MalformedInput ErrorKind = "malformed_input"
)

// ValidationError carries enough context (entity kind and offending id) for
// the user to fix the input file.
type ValidationError struct {
	Kind   ErrorKind
	Entity string
	ID     string
	Detail string
}

func (e *ValidationError) Error() string {
	msg := string(e.Kind)
	if e.Entity != "" {
		msg += " " + e.Entity
	}
	if e.ID != "" {
		msg += fmt.Sprintf(" %q", e.ID)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}
