package markov

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"sequence-recognition/c12n"
	"sequence-recognition/sequence"
	"sequence-recognition/utils"
)

// ClassifyOptions tunes Classify.
type ClassifyOptions struct {
	// Workers bounds the goroutines scoring sequences; <= 0 uses GOMAXPROCS.
	Workers int
	// Observer receives every classified case.
	Observer c12n.Observer
	// Sources optionally names each sequence (e.g. its file), used in the
	// header of ranked listings.
	Sources []string
}

// Classify scores every sequence against every model and records the
// outcome. Sequences whose class has no model are skipped. Scoring runs
// in parallel; cases are recorded in input order.
func Classify(models []*Model, seqs []sequence.Sequence, opts ClassifyOptions) (*c12n.Results, error) {
	if len(models) == 0 {
		return nil, ErrNoModels
	}

	codebookSize := models[0].CodebookSize()
	classNames := make([]string, len(models))
	classIDs := make(map[string]int, len(models))
	for i, m := range models {
		if m.CodebookSize() != codebookSize {
			return nil, codebookMismatch(codebookSize, m.CodebookSize())
		}
		classNames[i] = m.ClassName
		if _, ok := classIDs[m.ClassName]; !ok {
			classIDs[m.ClassName] = i
		}
	}
	for idx, seq := range seqs {
		if seq.CodebookSize != codebookSize {
			return nil, codebookMismatch(codebookSize, seq.CodebookSize)
		}
		if len(seq.Symbols) == 0 {
			return nil, fmt.Errorf("sequence %d: %w", idx, sequence.ErrEmptySequence)
		}
	}

	var resultOpts []c12n.Option
	if opts.Observer != nil {
		resultOpts = append(resultOpts, c12n.WithObserver(opts.Observer))
	}
	results := c12n.NewResults(classNames, resultOpts...)

	logger := utils.GetLogger()
	ctx := context.Background()
	var known []int
	for idx, seq := range seqs {
		if _, ok := classIDs[seq.ClassName]; !ok {
			logger.WarnContext(ctx, "no model for sequence class, skipping",
				slog.Int("index", idx),
				slog.String("className", seq.ClassName))
			continue
		}
		known = append(known, idx)
	}

	scores := scoreAll(models, seqs, known, opts.Workers)

	for k, idx := range known {
		source := sourceName(opts.Sources, idx)
		className := seqs[idx].ClassName
		_, err := results.AddCase(classIDs[className], scores[k], c12n.WithHeader(func() string {
			return fmt.Sprintf(" %s: '%s'", source, className)
		}))
		if err != nil {
			return nil, fmt.Errorf("sequence %d: %w", idx, err)
		}
	}

	return results, nil
}

func sourceName(sources []string, idx int) string {
	if idx < len(sources) {
		return sources[idx]
	}
	return fmt.Sprintf("#%d", idx)
}

// scoreAll scores seqs[idx] for every idx in indices; row k belongs to
// indices[k].
func scoreAll(models []*Model, seqs []sequence.Sequence, indices []int, workers int) [][]float64 {
	scores := make([][]float64, len(indices))
	if len(indices) == 0 {
		return scores
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(indices) {
		workers = len(indices)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for k := range jobs {
				symbols := seqs[indices[k]].Symbols
				row := make([]float64, len(models))
				for i, m := range models {
					row[i] = m.LogProb(symbols)
				}
				scores[k] = row
			}
		}()
	}
	for k := range indices {
		jobs <- k
	}
	close(jobs)
	wg.Wait()

	return scores
}
