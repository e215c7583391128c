package sequence

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

var (
	ErrEmptySequence   = errors.New("sequence: no symbols")
	ErrSymbolRange     = errors.New("sequence: symbol out of range")
	ErrInvalidCodebook = errors.New("sequence: codebook size must be positive")
)

// Sequence is a labelled run of codebook symbols. Every symbol must lie in
// [0, CodebookSize).
type Sequence struct {
	ClassName    string `json:"className"`
	CodebookSize int    `json:"codebookSize"`
	Symbols      []int  `json:"symbols"`
}

// Validate checks the invariants a loader must guarantee before the
// sequence reaches training or scoring.
func (s Sequence) Validate() error {
	if s.CodebookSize <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidCodebook, s.CodebookSize)
	}
	if len(s.Symbols) == 0 {
		return ErrEmptySequence
	}
	for t, sym := range s.Symbols {
		if sym < 0 || sym >= s.CodebookSize {
			return fmt.Errorf("%w: symbols[%d]=%d, codebook size %d", ErrSymbolRange, t, sym, s.CodebookSize)
		}
	}
	return nil
}

// Load reads and validates a sequence stored as JSON.
func Load(path string) (Sequence, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Sequence{}, fmt.Errorf("failed to read sequence (%s): %w", path, err)
	}

	var seq Sequence
	if err := json.Unmarshal(data, &seq); err != nil {
		return Sequence{}, fmt.Errorf("unable to parse sequence %s: %w", path, err)
	}
	if err := seq.Validate(); err != nil {
		return Sequence{}, fmt.Errorf("invalid sequence %s: %w", path, err)
	}
	return seq, nil
}

// LoadAll loads every path in order, failing on the first bad file.
func LoadAll(paths []string) ([]Sequence, error) {
	seqs := make([]Sequence, 0, len(paths))
	for _, path := range paths {
		seq, err := Load(path)
		if err != nil {
			return nil, err
		}
		seqs = append(seqs, seq)
	}
	return seqs, nil
}

// Save writes the sequence as JSON.
func (s Sequence) Save(path string) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal sequence: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write sequence: %w", err)
	}
	return nil
}
