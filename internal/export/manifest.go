package export

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Manifest describes what one run read and wrote.
type Manifest struct {
	Job       string           `toml:"job"`
	Generated time.Time        `toml:"generated"`
	Field     string           `toml:"field"`
	Rows      int              `toml:"rows"`
	Sources   []ManifestSource `toml:"sources"`
	Outputs   []string         `toml:"outputs"`
}

// ManifestSource is one input directory and how its files fared.
type ManifestSource struct {
	Name       string            `toml:"name"`
	Dir        string            `toml:"dir"`
	Replicates []string          `toml:"replicates"`
	Realigned  []string          `toml:"realigned,omitempty"`
	Failures   []ManifestFailure `toml:"failures,omitempty"`
}

type ManifestFailure struct {
	File   string `toml:"file"`
	Reason string `toml:"reason"`
	Error  string `toml:"error"`
}

func WriteManifest(path string, m Manifest) error {
	data, err := toml.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}

func ReadManifest(path string) (Manifest, error) {
	var m Manifest
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("read manifest: %w", err)
	}
	if err := toml.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("decode manifest (%s): %w", path, err)
	}
	return m, nil
}
