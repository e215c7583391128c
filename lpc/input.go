package lpc

import (
	"encoding/json"
	"fmt"
	"os"

	"sequence-recognition/utils"
)

// Input is a stored analysis request: a sample window and its order.
type Input struct {
	X []float64 `json:"x"`
	P int       `json:"p"`
}

// LoadInput reads an Input from a JSON file.
func LoadInput(path string) (Input, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Input{}, fmt.Errorf("failed to read lpc input (%s): %w", path, err)
	}

	var input Input
	if err := json.Unmarshal(data, &input); err != nil {
		return Input{}, fmt.Errorf("unable to parse lpc input: %w", err)
	}
	return input, nil
}

// Save writes the input as JSON.
func (in Input) Save(path string) error {
	data, err := json.MarshalIndent(in, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal lpc input: %w", err)
	}
	return utils.WriteFileAtomic(path, data)
}
