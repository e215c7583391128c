package markov

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"sequence-recognition/sequence"
)

// Model is a trained first-order Markov chain for one class: initial
// distribution Pi over the codebook and row-stochastic transitions A.
// A model is read-only once trained, so scoring may run concurrently.
type Model struct {
	ClassName string      `json:"className"`
	Pi        []float64   `json:"pi"`
	A         [][]float64 `json:"a"`
}

// CodebookSize returns the symbol alphabet size of the model.
func (m *Model) CodebookSize() int {
	return len(m.Pi)
}

// LogProb returns the log10 probability of the model generating symbols:
// log pi[s0] plus the log of every transition s_t -> s_t+1. Symbols must
// be in [0, CodebookSize()).
func (m *Model) LogProb(symbols []int) float64 {
	p := math.Log10(m.Pi[symbols[0]])
	for t := 0; t < len(symbols)-1; t++ {
		p += math.Log10(m.A[symbols[t]][symbols[t+1]])
	}
	return p
}

// LogProbSequence scores seq.Symbols.
func (m *Model) LogProbSequence(seq sequence.Sequence) float64 {
	return m.LogProb(seq.Symbols)
}

// Validate checks the model shape.
func (m *Model) Validate() error {
	k := len(m.Pi)
	if k == 0 {
		return fmt.Errorf("%w: empty initial distribution", ErrInvalidModel)
	}
	if len(m.A) != k {
		return fmt.Errorf("%w: %d transition rows for codebook size %d", ErrInvalidModel, len(m.A), k)
	}
	for i, row := range m.A {
		if len(row) != k {
			return fmt.Errorf("%w: transition row %d has %d entries, expected %d", ErrInvalidModel, i, len(row), k)
		}
	}
	return nil
}

// Show writes a readable dump of the model.
func (m *Model) Show(w io.Writer) {
	fmt.Fprintf(w, "# class_name='%s', codebook_size=%d\n", m.ClassName, m.CodebookSize())
	fmt.Fprintf(w, "pi = %s\n", joinFloats(m.Pi))
	fmt.Fprintln(w, " A = ")
	for _, row := range m.A {
		fmt.Fprintf(w, "     %s\n", joinFloats(row))
	}
}

func joinFloats(values []float64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strings.Join(parts, ", ")
}
