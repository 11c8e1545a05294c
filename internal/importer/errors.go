package importer

import (
	"errors"
	"fmt"
)

// ErrMalformedDocument means the request body was not well-formed XML.
var ErrMalformedDocument = errors.New("malformed XML document")

// ErrNoQuestions means the document parsed cleanly but contained no
// <question> elements.
var ErrNoQuestions = errors.New("no questions found in document")

// MissingRequiredFieldError reports a question with an empty clue or answer.
// Position is 1-based within the uploaded document.
type MissingRequiredFieldError struct {
	Position int
	Field    string
}

func (e *MissingRequiredFieldError) Error() string {
	return fmt.Sprintf("question %d: missing required field %q", e.Position, e.Field)
}

// InsufficientOptionsError reports an mcq or typeahead question with fewer
// than two options.
type InsufficientOptionsError struct {
	Position int
	Mode     string
	Count    int
}

func (e *InsufficientOptionsError) Error() string {
	return fmt.Sprintf("question %d: %s mode needs at least 2 options, found %d", e.Position, e.Mode, e.Count)
}

// CorrectOptionCountError reports an option set without exactly one
// correct option.
type CorrectOptionCountError struct {
	Position int
	Found    int
}

func (e *CorrectOptionCountError) Error() string {
	return fmt.Sprintf("question %d: exactly one option must be marked correct, found %d", e.Position, e.Found)
}

// PersistenceError wraps a database failure partway through an import.
// Committed is how many questions made it in before the failure; rows
// already written stay written.
type PersistenceError struct {
	Committed int
	Err       error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("import failed after committing %d questions: %v", e.Committed, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
