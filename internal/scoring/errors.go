package scoring

import (
	"errors"
	"fmt"
)

// Kind classifies errors raised by the scorer.
type Kind string

// KindInvalidInput is the only kind the scorer produces.
const KindInvalidInput Kind = "invalid_input"

// ErrInvalidInput matches any *Error of KindInvalidInput via errors.Is.
var ErrInvalidInput = errors.New("invalid input")

// Error is a typed scorer failure. It is never retried.
type Error struct {
	Kind    Kind
	Field   string
	Message string
}

func (e *Error) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.Kind, e.Field, e.Message)
}

func (e *Error) Is(target error) bool {
	return target == ErrInvalidInput && e.Kind == KindInvalidInput
}

func invalidInput(field, message string) *Error {
	return &Error{Kind: KindInvalidInput, Field: field, Message: message}
}
