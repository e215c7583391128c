package markov

import (
	"bytes"
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sequence-recognition/c12n"
	"sequence-recognition/sequence"
)

func seq(class string, k int, symbols ...int) sequence.Sequence {
	return sequence.Sequence{ClassName: class, CodebookSize: k, Symbols: symbols}
}

func TestTrainSingleSequence(t *testing.T) {
	t.Parallel()

	m, err := Train([]sequence.Sequence{seq("abc", 3, 0, 1, 2)})
	require.NoError(t, err)

	assert.Equal(t, "abc", m.ClassName)
	assert.Equal(t, 3, m.CodebookSize())
	assert.Equal(t, []float64{2.0 / 4, 1.0 / 4, 1.0 / 4}, m.Pi)
	assert.Equal(t, [][]float64{
		{1.0 / 4, 2.0 / 4, 1.0 / 4},
		{1.0 / 4, 1.0 / 4, 2.0 / 4},
		{1.0 / 3, 1.0 / 3, 1.0 / 3},
	}, m.A)
}

func TestTrainRowsAreDistributions(t *testing.T) {
	t.Parallel()

	m, err := Train([]sequence.Sequence{
		seq("x", 4, 0, 1, 1, 3, 2, 0),
		seq("x", 4, 3, 3, 3),
		seq("x", 4, 2),
	})
	require.NoError(t, err)

	for i, row := range m.A {
		sum := 0.0
		for _, v := range row {
			assert.Greater(t, v, 0.0)
			sum += v
		}
		assert.InDelta(t, 1.0, sum, 1e-12, "row %d", i)
	}
	// 3 sequences, starting 0, 3, 2
	assert.Equal(t, []float64{2.0 / 7, 1.0 / 7, 2.0 / 7, 2.0 / 7}, m.Pi)
}

func TestTrainConformityErrors(t *testing.T) {
	t.Parallel()

	_, err := Train([]sequence.Sequence{seq("a", 3, 0, 1), seq("a", 4, 1, 2)})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConformity)
	var ce *ConformityError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "codebook size", ce.Field)
	assert.Equal(t, "3", ce.Expected)
	assert.Equal(t, "4", ce.Got)
	assert.Contains(t, err.Error(), "3")
	assert.Contains(t, err.Error(), "4")

	_, err = Train([]sequence.Sequence{seq("a", 3, 0), seq("a", 3, 1), seq("b", 3, 2)})
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "class name", ce.Field)
	assert.Equal(t, "a", ce.Expected)
	assert.Equal(t, "b", ce.Got)

	_, err = Train(nil)
	assert.ErrorIs(t, err, ErrNoSequences)

	_, err = Train([]sequence.Sequence{seq("a", 3)})
	assert.ErrorIs(t, err, sequence.ErrEmptySequence)
}

func TestTrainShardedMatchesTrain(t *testing.T) {
	t.Parallel()

	var seqs []sequence.Sequence
	for i := 0; i < 23; i++ {
		symbols := make([]int, 5+i%7)
		for j := range symbols {
			symbols[j] = (i*7 + j*j) % 5
		}
		seqs = append(seqs, seq("mix", 5, symbols...))
	}

	want, err := Train(seqs)
	require.NoError(t, err)
	for _, workers := range []int{0, 1, 2, 4, 50} {
		got, err := TrainSharded(seqs, workers)
		require.NoError(t, err)
		assert.Equal(t, want, got, "workers=%d", workers)
	}

	_, err = TrainSharded([]sequence.Sequence{seq("a", 2, 0), seq("a", 3, 0)}, 2)
	assert.ErrorIs(t, err, ErrConformity)
}

func TestLogProb(t *testing.T) {
	t.Parallel()

	m := &Model{
		ClassName: "t",
		Pi:        []float64{0.1, 0.9},
		A:         [][]float64{{0.5, 0.5}, {0.01, 0.99}},
	}
	want := math.Log10(0.9) + math.Log10(0.01) + math.Log10(0.5)
	assert.InDelta(t, want, m.LogProb([]int{1, 0, 1}), 1e-12)
	assert.InDelta(t, math.Log10(0.1), m.LogProbSequence(seq("t", 2, 0)), 1e-12)

	trained, err := Train([]sequence.Sequence{seq("t", 3, 0, 0, 0)})
	require.NoError(t, err)
	score := trained.LogProb([]int{2, 1, 2, 1})
	assert.False(t, math.IsInf(score, 0), "unseen transitions must stay finite")
}

func TestEndToEndTwoClasses(t *testing.T) {
	t.Parallel()

	modelA, err := Train([]sequence.Sequence{
		seq("A", 2, 0, 0, 0, 0, 0, 0),
		seq("A", 2, 0, 0, 0, 1, 0, 0),
		seq("A", 2, 0, 0, 0, 0),
	})
	require.NoError(t, err)
	modelB, err := Train([]sequence.Sequence{
		seq("B", 2, 1, 1, 1, 1, 1),
		seq("B", 2, 1, 1, 0, 1, 1, 1),
		seq("B", 2, 1, 1, 1),
	})
	require.NoError(t, err)

	test := seq("A", 2, 0, 0, 0, 0)
	assert.Greater(t, modelA.LogProbSequence(test), modelB.LogProbSequence(test))

	var glyphs bytes.Buffer
	results, err := Classify([]*Model{modelA, modelB}, []sequence.Sequence{test}, ClassifyOptions{
		Observer: &c12n.GlyphObserver{W: &glyphs, NoColor: true},
	})
	require.NoError(t, err)
	assert.Equal(t, "*", glyphs.String())

	assert.Equal(t, 1, results.Confusion(0, 0))
	assert.Zero(t, results.Confusion(0, 1))
	assert.Zero(t, results.Confusion(1, 0))
	assert.Zero(t, results.Confusion(1, 1))

	summary, ok := results.Summary()
	require.True(t, ok)
	assert.Equal(t, float32(100), summary.Accuracy)
	assert.Equal(t, float32(100), summary.AvgAccuracy)
}

func TestClassifySkipsUnknownClassAndChecksCodebook(t *testing.T) {
	t.Parallel()

	a, err := Train([]sequence.Sequence{seq("A", 2, 0, 0)})
	require.NoError(t, err)
	b, err := Train([]sequence.Sequence{seq("B", 2, 1, 1)})
	require.NoError(t, err)

	results, err := Classify([]*Model{a, b}, []sequence.Sequence{
		seq("C", 2, 0, 1),
		seq("B", 2, 1, 1, 1),
		seq("A", 2, 1, 1, 1),
	}, ClassifyOptions{Workers: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, results.NumCases())
	assert.Equal(t, 1, results.Confusion(1, 1))
	assert.Equal(t, 1, results.Confusion(0, 1))
	assert.Equal(t, 1, results.Result(0, 2))

	_, err = Classify([]*Model{a, b}, []sequence.Sequence{seq("A", 3, 0)}, ClassifyOptions{})
	assert.ErrorIs(t, err, ErrConformity)

	_, err = Classify(nil, nil, ClassifyOptions{})
	assert.ErrorIs(t, err, ErrNoModels)

	var out bytes.Buffer
	require.NoError(t, results.ReportResults(context.Background(), &out, nil, nil))
	assert.Contains(t, out.String(), "avg_accuracy")
}

func TestScoreAllOnlyScoresSelectedSequences(t *testing.T) {
	t.Parallel()

	a, err := Train([]sequence.Sequence{seq("A", 2, 0, 0)})
	require.NoError(t, err)
	b, err := Train([]sequence.Sequence{seq("B", 2, 1, 1)})
	require.NoError(t, err)
	models := []*Model{a, b}

	seqs := []sequence.Sequence{
		seq("C", 2, 0, 1),
		seq("B", 2, 1, 1, 1),
		seq("D", 2, 1, 0),
		seq("A", 2, 0, 0, 1),
	}
	scores := scoreAll(models, seqs, []int{1, 3}, 4)
	require.Len(t, scores, 2)
	assert.Equal(t, []float64{a.LogProb(seqs[1].Symbols), b.LogProb(seqs[1].Symbols)}, scores[0])
	assert.Equal(t, []float64{a.LogProb(seqs[3].Symbols), b.LogProb(seqs[3].Symbols)}, scores[1])

	assert.Empty(t, scoreAll(models, seqs, nil, 2))
}

func TestSaveLoad(t *testing.T) {
	t.Parallel()

	m, err := Train([]sequence.Sequence{seq("yes", 3, 0, 2, 1, 1)})
	require.NoError(t, err)

	dir := t.TempDir()
	path := filepath.Join(dir, "yes.mm.json")
	require.NoError(t, m.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, m, loaded)

	models, err := LoadAll([]string{path, path})
	require.NoError(t, err)
	assert.Len(t, models, 2)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	tampered := strings.Replace(string(data), `"className": "yes"`, `"className": "no"`, 1)
	require.NotEqual(t, string(data), tampered)
	bad := filepath.Join(dir, "bad.mm.json")
	require.NoError(t, os.WriteFile(bad, []byte(tampered), 0o644))

	_, err = Load(bad)
	assert.ErrorIs(t, err, ErrBadChecksum)
}

func TestShow(t *testing.T) {
	t.Parallel()

	m := &Model{ClassName: "s", Pi: []float64{0.5, 0.5}, A: [][]float64{{0.25, 0.75}, {1, 0}}}
	var out bytes.Buffer
	m.Show(&out)
	assert.Equal(t, "# class_name='s', codebook_size=2\npi = 0.5, 0.5\n A = \n     0.25, 0.75\n     1, 0\n", out.String())
}
