package c12n

import (
	"context"
	"encoding/json"
	"fmt"

	"gonum.org/v1/gonum/stat"

	"sequence-recognition/utils"
)

// DefaultSummaryPath is where the classify command writes its summary.
const DefaultSummaryPath = "mm-classification.json"

// Summary is the machine-readable outcome of a run. Both values are
// percentages in [0, 100].
type Summary struct {
	// Accuracy is the share of all test instances classified correctly.
	Accuracy float32 `json:"accuracy"`
	// AvgAccuracy is the unweighted mean of per-class accuracies over the
	// classes that had at least one test instance.
	AvgAccuracy float32 `json:"avg_accuracy"`
}

// SummaryWriter persists a Summary.
type SummaryWriter interface {
	WriteSummary(ctx context.Context, summary Summary) error
}

// FileSummaryWriter writes the summary as a JSON document to Path.
type FileSummaryWriter struct {
	Path string
}

func (f FileSummaryWriter) WriteSummary(_ context.Context, summary Summary) error {
	path := f.Path
	if path == "" {
		path = DefaultSummaryPath
	}
	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}
	return utils.WriteFileAtomic(path, data)
}

// MultiSummaryWriter fans a summary out to every writer, stopping at the
// first failure.
type MultiSummaryWriter []SummaryWriter

func (m MultiSummaryWriter) WriteSummary(ctx context.Context, summary Summary) error {
	for _, w := range m {
		if err := w.WriteSummary(ctx, summary); err != nil {
			return err
		}
	}
	return nil
}

// ClassStat is the per-class view of the result matrix.
type ClassStat struct {
	ClassID  int
	Tests    int
	Correct  int
	Accuracy float64 // fraction in [0, 1]
	Ranks    []int   // Ranks[r-1] counts instances ranked r-th
}

// ClassStats returns one entry per class with at least one test instance,
// in model order.
func (r *Results) ClassStats() []ClassStat {
	r.mu.Lock()
	defer r.mu.Unlock()

	numModels := len(r.classNames)
	stats := make([]ClassStat, 0, numModels)
	for classID := 0; classID < numModels; classID++ {
		if s, ok := r.classStat(classID); ok {
			stats = append(stats, s)
		}
	}
	return stats
}

// classStat requires r.mu.
func (r *Results) classStat(row int) (ClassStat, bool) {
	tests := r.result[row][0]
	if tests == 0 {
		return ClassStat{}, false
	}
	correct := r.result[row][1]
	return ClassStat{
		ClassID:  row,
		Tests:    tests,
		Correct:  correct,
		Accuracy: float64(correct) / float64(tests),
		Ranks:    append([]int(nil), r.result[row][1:]...),
	}, true
}

// Summary computes overall and average per-class accuracy. ok is false
// when no case has been recorded.
func (r *Results) Summary() (summary Summary, ok bool) {
	stats := r.ClassStats()
	if len(stats) == 0 {
		return Summary{}, false
	}

	r.mu.Lock()
	total, _ := r.classStat(len(r.classNames))
	r.mu.Unlock()

	accuracies := make([]float64, len(stats))
	for i, s := range stats {
		accuracies[i] = s.Accuracy
	}

	return Summary{
		Accuracy:    float32(100 * total.Accuracy),
		AvgAccuracy: float32(100 * stat.Mean(accuracies, nil)),
	}, true
}
