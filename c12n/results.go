package c12n

// Classification Results
//
// Results accumulates the outcome of classifying labelled test instances
// against a fixed, ordered set of class models.
//
//   - result is (N+1)x(N+1). Row c < N belongs to class c, row N holds the
//     totals. Column 0 counts test instances; column r >= 1 counts the
//     instances whose true class was ranked r-th by score.
//   - confusion is NxN, true class x best-scoring class.
//
// Ranking policy: candidates are ordered by descending score with a
// stable sort, so among equal scores the lower model index ranks better.
// NaN scores rank after every number.

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"
)

// Candidate is one model's score for a test instance.
type Candidate struct {
	ModelID int     `json:"modelId"`
	Score   float64 `json:"score"`
}

// Case describes a single classified instance as seen by observers.
type Case struct {
	ClassID    int
	Correct    bool
	Rank       int         // 1-based rank of the true class
	Ranking    []Candidate // best first
	ClassNames []string
	Header     func() string
}

// Results holds the confusion state of one classification run. It is safe
// for concurrent AddCase calls; reporting must happen after the last one.
// The observer is called outside the lock, possibly from several
// goroutines at once.
type Results struct {
	mu         sync.Mutex
	classNames []string
	result     [][]int
	confusion  [][]int
	observer   Observer
}

// Option configures Results.
type Option func(*Results)

// WithObserver registers an observer notified after every AddCase.
func WithObserver(o Observer) Option {
	return func(r *Results) {
		r.observer = o
	}
}

// NewResults creates empty results for the given model class names, in
// model order.
func NewResults(classNames []string, opts ...Option) *Results {
	numModels := len(classNames)
	r := &Results{
		classNames: append([]string(nil), classNames...),
		result:     newMatrix(numModels+1, numModels+1),
		confusion:  newMatrix(numModels, numModels),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func newMatrix(rows, cols int) [][]int {
	m := make([][]int, rows)
	for i := range m {
		m[i] = make([]int, cols)
	}
	return m
}

// CaseOption configures a single AddCase call.
type CaseOption func(*Case)

// WithHeader attaches a lazily built description of the test instance,
// used by observers that print ranked breakdowns.
func WithHeader(header func() string) CaseOption {
	return func(c *Case) {
		c.Header = header
	}
}

// Rank orders scores best first under the package ranking policy.
func Rank(scores []float64) []Candidate {
	ranking := make([]Candidate, len(scores))
	for i, s := range scores {
		ranking[i] = Candidate{ModelID: i, Score: s}
	}
	sort.SliceStable(ranking, func(i, j int) bool {
		return better(ranking[i].Score, ranking[j].Score)
	})
	return ranking
}

func better(a, b float64) bool {
	if math.IsNaN(b) {
		return !math.IsNaN(a)
	}
	return a > b
}

// ErrInvalidCase is returned by AddCase when the class or the score
// vector does not match the models.
var ErrInvalidCase = errors.New("c12n: invalid case")

// AddCase records one test instance of class classID given one score per
// model (log-probabilities, higher is better). It returns the case as
// passed to the observer. The observer runs after the state is updated
// and the lock released, so it may read the results.
func (r *Results) AddCase(classID int, scores []float64, opts ...CaseOption) (Case, error) {
	numModels := len(r.classNames)
	if len(scores) != numModels {
		return Case{}, fmt.Errorf("%w: %d scores for %d models", ErrInvalidCase, len(scores), numModels)
	}
	if classID < 0 || classID >= numModels {
		return Case{}, fmt.Errorf("%w: class %d out of range [0, %d)", ErrInvalidCase, classID, numModels)
	}

	ranking := Rank(scores)

	c := Case{
		ClassID:    classID,
		Ranking:    ranking,
		ClassNames: r.classNames,
	}
	for _, opt := range opts {
		opt(&c)
	}
	for i, cand := range ranking {
		if cand.ModelID == classID {
			c.Rank = i + 1
			break
		}
	}
	c.Correct = c.Rank == 1

	r.record(c)

	if r.observer != nil {
		r.observer.CaseClassified(c)
	}
	return c, nil
}

func (r *Results) record(c Case) {
	r.mu.Lock()
	defer r.mu.Unlock()

	numModels := len(r.classNames)
	r.result[numModels][0]++
	r.result[c.ClassID][0]++
	r.result[numModels][c.Rank]++
	r.result[c.ClassID][c.Rank]++

	r.confusion[c.ClassID][c.Ranking[0].ModelID]++
}

// NumModels returns the number of class models.
func (r *Results) NumModels() int {
	return len(r.classNames)
}

// ClassNames returns the model class names in model order.
func (r *Results) ClassNames() []string {
	return append([]string(nil), r.classNames...)
}

// NumCases returns the number of recorded test instances.
func (r *Results) NumCases() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.result[len(r.classNames)][0]
}

// Result returns result[row][col]; row NumModels() is the totals row.
func (r *Results) Result(row, col int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.result[row][col]
}

// Confusion returns how often class trueID was classified as predictedID.
func (r *Results) Confusion(trueID, predictedID int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.confusion[trueID][predictedID]
}
