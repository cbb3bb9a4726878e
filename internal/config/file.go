package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// File is the on-disk form of the settings. Absent fields keep their
// current value.
type File struct {
	Workers      *int    `json:"workers,omitempty"`
	BatchSize    *int    `json:"batchSize,omitempty"`
	Subdivisions *int    `json:"subdivisions,omitempty"`
	Seed         *int64  `json:"seed,omitempty"`
	Noise        *string `json:"noise,omitempty"`
}

// LoadSettings applies the JSON settings file at path. A missing file is not
// an error; the defaults stay in effect.
func LoadSettings(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read settings %s: %w", path, err)
	}

	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("failed to parse settings %s: %w", path, err)
	}
	Apply(f)
	return nil
}

// Apply pushes every set field through the clamping setters.
func Apply(f File) {
	if f.Workers != nil {
		SetWorkers(*f.Workers)
	}
	if f.BatchSize != nil {
		SetBatchSize(*f.BatchSize)
	}
	if f.Subdivisions != nil {
		SetDefaultSubdivisions(*f.Subdivisions)
	}
	if f.Seed != nil {
		SetSeed(*f.Seed)
	}
	if f.Noise != nil {
		SetNoiseBackend(*f.Noise)
	}
}
