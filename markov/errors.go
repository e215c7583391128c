package markov

import (
	"errors"
	"fmt"
)

var (
	// ErrConformity matches every *ConformityError via errors.Is.
	ErrConformity   = errors.New("markov: conformity error")
	ErrNoSequences  = errors.New("markov: no training sequences")
	ErrNoModels     = errors.New("markov: no models")
	ErrBadChecksum  = errors.New("markov: model checksum mismatch")
	ErrInvalidModel = errors.New("markov: invalid model")
)

// ConformityError reports a sequence whose codebook size or class name
// differs from the one fixed by the first sequence (or model) of a batch.
type ConformityError struct {
	Field    string
	Expected string
	Got      string
}

func (e *ConformityError) Error() string {
	return fmt.Sprintf("conformity error: %s: %s != %s", e.Field, e.Expected, e.Got)
}

func (e *ConformityError) Is(target error) bool {
	return target == ErrConformity
}

func codebookMismatch(expected, got int) error {
	return &ConformityError{
		Field:    "codebook size",
		Expected: fmt.Sprint(expected),
		Got:      fmt.Sprint(got),
	}
}

func classNameMismatch(expected, got string) error {
	return &ConformityError{
		Field:    "class name",
		Expected: expected,
		Got:      got,
	}
}
