package markov

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strconv"

	"github.com/cespare/xxhash/v2"

	"sequence-recognition/utils"
)

type storedModel struct {
	Model
	Checksum string `json:"checksum"`
}

// Checksum returns a stable xxhash digest over the class name and every
// coefficient of the model.
func (m *Model) Checksum() uint64 {
	d := xxhash.New()
	d.WriteString(m.ClassName)

	buf := make([]byte, 0, 8*(len(m.Pi)+1))
	buf = binary.LittleEndian.AppendUint64(buf, uint64(len(m.Pi)))
	for _, v := range m.Pi {
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(v))
	}
	d.Write(buf)

	for _, row := range m.A {
		buf = buf[:0]
		for _, v := range row {
			buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(v))
		}
		d.Write(buf)
	}
	return d.Sum64()
}

// Save writes the model as JSON, replacing path atomically.
func (m *Model) Save(path string) error {
	stored := storedModel{
		Model:    *m,
		Checksum: strconv.FormatUint(m.Checksum(), 16),
	}
	data, err := json.MarshalIndent(stored, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal model: %w", err)
	}
	return utils.WriteFileAtomic(path, data)
}

// Load reads a model written by Save and verifies its checksum.
func Load(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load model (%s): %w", path, err)
	}

	var stored storedModel
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("unable to parse model %s: %w", path, err)
	}

	m := &stored.Model
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("model %s: %w", path, err)
	}
	if stored.Checksum != "" {
		want, err := strconv.ParseUint(stored.Checksum, 16, 64)
		if err != nil || want != m.Checksum() {
			return nil, fmt.Errorf("model %s: %w", path, ErrBadChecksum)
		}
	}
	return m, nil
}

// LoadAll loads models in the given order.
func LoadAll(paths []string) ([]*Model, error) {
	models := make([]*Model, 0, len(paths))
	for _, path := range paths {
		m, err := Load(path)
		if err != nil {
			return nil, err
		}
		models = append(models, m)
	}
	return models, nil
}
