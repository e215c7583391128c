package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sequence-recognition/lpc"
	"sequence-recognition/sequence"
)

func writeSequences(t *testing.T, dir, class string, runs ...[]int) []string {
	t.Helper()
	var paths []string
	for i, symbols := range runs {
		path := filepath.Join(dir, class+"-"+string(rune('a'+i))+".json")
		require.NoError(t, sequence.Sequence{ClassName: class, CodebookSize: 2, Symbols: symbols}.Save(path))
		paths = append(paths, path)
	}
	return paths
}

func TestLearnAndClassifyCommands(t *testing.T) {
	dir := t.TempDir()

	trainA := writeSequences(t, dir, "A", []int{0, 0, 0, 0, 1}, []int{0, 0, 0})
	trainB := writeSequences(t, dir, "B", []int{1, 1, 1, 1, 0}, []int{1, 1, 1})
	modelA := filepath.Join(dir, "A.mm.json")
	modelB := filepath.Join(dir, "B.mm.json")

	require.NoError(t, learnCmd(append([]string{"-o", modelA}, trainA...)))
	require.NoError(t, learnCmd(append([]string{"-o", modelB, "-workers", "2"}, trainB...)))
	require.NoError(t, showCmd([]string{modelA, modelB}))

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "test"), 0o755))
	tests := writeSequences(t, filepath.Join(dir, "test"), "A", []int{0, 0, 0, 0})
	summaryPath := filepath.Join(dir, "summary.json")

	args := []string{"-m", modelA + "," + modelB, "-summary", summaryPath, "-no-color"}
	require.NoError(t, classifyCmd(append(args, tests...)))

	data, err := os.ReadFile(summaryPath)
	require.NoError(t, err)
	var summary map[string]float64
	require.NoError(t, json.Unmarshal(data, &summary))
	assert.Equal(t, 100.0, summary["accuracy"])
	assert.Equal(t, 100.0, summary["avg_accuracy"])
}

func TestLearnRejectsMixedClasses(t *testing.T) {
	dir := t.TempDir()
	paths := append(writeSequences(t, dir, "A", []int{0, 1}), writeSequences(t, dir, "B", []int{1, 0})...)
	assert.Error(t, learnCmd(append([]string{"-o", filepath.Join(dir, "m.json")}, paths...)))
}

func TestLpcCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame.json")
	require.NoError(t, lpc.Input{X: []float64{1, 0.5, -0.25, -0.5, 0.1, 0.3}, P: 2}.Save(path))

	assert.NoError(t, lpcCmd([]string{path}))
	assert.NoError(t, lpcCmd([]string{"-p", "3", "-reduced", path}))
	assert.Error(t, lpcCmd([]string{"-p", "9", path}))
}

func TestStringList(t *testing.T) {
	var s stringList
	require.NoError(t, s.Set("a.json, b.json"))
	require.NoError(t, s.Set("c.json"))
	assert.Equal(t, stringList{"a.json", "b.json", "c.json"}, s)
	assert.Equal(t, "a.json,b.json,c.json", s.String())
}
