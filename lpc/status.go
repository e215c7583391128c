package lpc

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Status is the numeric outcome of an analysis.
type Status int

const (
	OK Status = iota
	// ZeroEnergy: the window has no energy (r[0] == 0).
	ZeroEnergy
	// NonPositiveResidual: residual energy reached zero or below during the
	// recursion; the order is too high for the data or the signal is
	// degenerate.
	NonPositiveResidual
)

var (
	ErrZeroEnergy          = errors.New("lpc: zero energy window")
	ErrNonPositiveResidual = errors.New("lpc: non-positive residual energy")
)

func (s Status) String() string {
	switch s {
	case OK:
		return "ok"
	case ZeroEnergy:
		return "zero-energy"
	case NonPositiveResidual:
		return "non-positive-residual"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Err maps the status onto a sentinel error, nil for OK.
func (s Status) Err() error {
	switch s {
	case OK:
		return nil
	case ZeroEnergy:
		return ErrZeroEnergy
	case NonPositiveResidual:
		return ErrNonPositiveResidual
	default:
		return fmt.Errorf("lpc: unknown status %d", int(s))
	}
}

func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}
