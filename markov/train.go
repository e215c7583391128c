package markov

import (
	"fmt"
	"runtime"
	"sync"

	"sequence-recognition/sequence"
)

// Training
//
// Every entry of Pi and A starts from an additive prior of one, so that no
// in-range symbol or transition ever gets probability zero:
//
//   Pi[i]   = (1 + first[i])     / (numSeqs + K)
//   A[i][j] = (1 + trans[i][j])  / (outgoing[i] + K)
//
// where first counts sequences starting with i, trans counts observed
// i -> j transitions and outgoing[i] is the row total of trans.

type counts struct {
	first    []int
	trans    [][]int
	outgoing []int
	numSeqs  int
}

func newCounts(k int) *counts {
	trans := make([][]int, k)
	for i := range trans {
		trans[i] = make([]int, k)
	}
	return &counts{
		first:    make([]int, k),
		trans:    trans,
		outgoing: make([]int, k),
	}
}

func (c *counts) add(symbols []int) {
	c.numSeqs++
	c.first[symbols[0]]++
	for t := 0; t < len(symbols)-1; t++ {
		c.outgoing[symbols[t]]++
		c.trans[symbols[t]][symbols[t+1]]++
	}
}

func (c *counts) merge(other *counts) {
	c.numSeqs += other.numSeqs
	for i := range c.first {
		c.first[i] += other.first[i]
		c.outgoing[i] += other.outgoing[i]
		for j := range c.trans[i] {
			c.trans[i][j] += other.trans[i][j]
		}
	}
}

func (c *counts) normalize(className string) *Model {
	k := len(c.first)
	kf := float64(k)

	pi := make([]float64, k)
	a := make([][]float64, k)
	for i := 0; i < k; i++ {
		pi[i] = (1 + float64(c.first[i])) / (float64(c.numSeqs) + kf)
		a[i] = make([]float64, k)
		for j := 0; j < k; j++ {
			a[i][j] = (1 + float64(c.trans[i][j])) / (float64(c.outgoing[i]) + kf)
		}
	}
	return &Model{ClassName: className, Pi: pi, A: a}
}

// checkConformity verifies that all sequences share the class name and
// codebook size of the first one.
func checkConformity(seqs []sequence.Sequence) error {
	if len(seqs) == 0 {
		return ErrNoSequences
	}
	className := seqs[0].ClassName
	codebookSize := seqs[0].CodebookSize
	if codebookSize <= 0 {
		return fmt.Errorf("%w: %d", sequence.ErrInvalidCodebook, codebookSize)
	}

	for idx, seq := range seqs {
		if seq.CodebookSize != codebookSize {
			return codebookMismatch(codebookSize, seq.CodebookSize)
		}
		if seq.ClassName != className {
			return classNameMismatch(className, seq.ClassName)
		}
		if len(seq.Symbols) == 0 {
			return fmt.Errorf("sequence %d: %w", idx, sequence.ErrEmptySequence)
		}
	}
	return nil
}

// Train estimates the model of one class from its training sequences. The
// first sequence fixes the class name and codebook size; any other
// sequence disagreeing on either fails the whole batch with a
// *ConformityError.
func Train(seqs []sequence.Sequence) (*Model, error) {
	if err := checkConformity(seqs); err != nil {
		return nil, err
	}

	c := newCounts(seqs[0].CodebookSize)
	for _, seq := range seqs {
		c.add(seq.Symbols)
	}
	return c.normalize(seqs[0].ClassName), nil
}

// TrainSharded is Train with the counting spread over up to workers
// goroutines, each filling private counts that are merged before
// normalization. The result equals Train's.
func TrainSharded(seqs []sequence.Sequence, workers int) (*Model, error) {
	if err := checkConformity(seqs); err != nil {
		return nil, err
	}

	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(seqs) {
		workers = len(seqs)
	}

	k := seqs[0].CodebookSize
	shards := make([]*counts, workers)
	shardSize := (len(seqs) + workers - 1) / workers

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * shardSize
		end := min(start+shardSize, len(seqs))
		shards[w] = newCounts(k)
		if start >= end {
			continue
		}

		wg.Add(1)
		go func(c *counts, part []sequence.Sequence) {
			defer wg.Done()
			for _, seq := range part {
				c.add(seq.Symbols)
			}
		}(shards[w], seqs[start:end])
	}
	wg.Wait()

	total := newCounts(k)
	for _, shard := range shards {
		total.merge(shard)
	}
	return total.normalize(seqs[0].ClassName), nil
}
