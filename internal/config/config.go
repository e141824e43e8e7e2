package config

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidJob = errors.New("config: invalid job")

// GridShape is the known layout of the flattened priority grid.
type GridShape struct {
	Rows int
	Cols int
}

// Cells returns the number of cells in the grid.
func (g GridShape) Cells() int {
	return g.Rows * g.Cols
}

// GridJob configures the averaged priority-grid analysis.
type GridJob struct {
	Label           string
	InputDir        string
	Extension       string
	Field           string
	Budget          float64
	OutputDir       string
	OutputPrefix    string
	Grid            GridShape
	ShapeInfoFile   string
	CSV             bool
	Heatmaps        bool
	Manifest        bool
	MetricsTextfile string
}

// IndexSource is one directory of replicates for one prioritization index.
type IndexSource struct {
	Name     string
	InputDir string
}

// FractionJob configures the per-species protected range fraction extraction.
type FractionJob struct {
	SpeciesDir      string
	RasterExt       string
	Extension       string
	Field           string
	Indices         []IndexSource
	OutputDir       string
	OutputName      string
	CSV             bool
	Manifest        bool
	MetricsTextfile string
}

func DefaultGridJob() GridJob {
	return GridJob{
		Label:         "EDGE",
		InputDir:      "outputs/CAPTAIN_2_outputs/edge_pred_20250720",
		Extension:     ".npz",
		Field:         "protection_matrix",
		Budget:        0.1,
		OutputDir:     ".",
		OutputPrefix:  "CAPTAIN2",
		Grid:          GridShape{Rows: 323, Cols: 720},
		ShapeInfoFile: "grid_shape_info.txt",
		CSV:           false,
		Heatmaps:      true,
		Manifest:      false,
	}
}

func DefaultFractionJob() FractionJob {
	return FractionJob{
		SpeciesDir: "Data/tif files continental",
		RasterExt:  ".tif",
		Extension:  ".npz",
		Field:      "protected_range_fraction",
		Indices: []IndexSource{
			{Name: "EDGE2", InputDir: "outputs/CAPTAIN_2_outputs/edge_pred_20250720"},
			{Name: "FUSE", InputDir: "outputs/CAPTAIN_2_outputs/fuse_pred_20250720"},
			{Name: "IUCN", InputDir: "outputs/CAPTAIN_2_outputs/iucn_pred_20250720"},
		},
		OutputDir:  ".",
		OutputName: "CAPTAIN2_protected_range_fractions_2ndrun",
		CSV:        true,
	}
}

func ValidateGridJob(cfg GridJob) error {
	if strings.TrimSpace(cfg.InputDir) == "" {
		return fmt.Errorf("%w: grid job missing input_dir", ErrInvalidJob)
	}
	if strings.TrimSpace(cfg.Field) == "" {
		return fmt.Errorf("%w: grid job missing field", ErrInvalidJob)
	}
	if err := validateExtension(cfg.Extension); err != nil {
		return err
	}
	if strings.TrimSpace(cfg.OutputPrefix) == "" {
		return fmt.Errorf("%w: grid job missing output_prefix", ErrInvalidJob)
	}
	if cfg.Budget < 0 {
		return fmt.Errorf("%w: budget must not be negative", ErrInvalidJob)
	}
	if cfg.Grid.Rows <= 0 || cfg.Grid.Cols <= 0 {
		return fmt.Errorf("%w: grid dimensions must be positive (rows=%d cols=%d)",
			ErrInvalidJob, cfg.Grid.Rows, cfg.Grid.Cols)
	}
	return nil
}

func ValidateFractionJob(cfg FractionJob) error {
	if strings.TrimSpace(cfg.Field) == "" {
		return fmt.Errorf("%w: fraction job missing field", ErrInvalidJob)
	}
	if err := validateExtension(cfg.Extension); err != nil {
		return err
	}
	if strings.TrimSpace(cfg.OutputName) == "" {
		return fmt.Errorf("%w: fraction job missing output_name", ErrInvalidJob)
	}
	if len(cfg.Indices) == 0 {
		return fmt.Errorf("%w: fraction job needs at least one index", ErrInvalidJob)
	}
	seen := make(map[string]struct{}, len(cfg.Indices))
	for i, idx := range cfg.Indices {
		name := strings.TrimSpace(idx.Name)
		if name == "" {
			return fmt.Errorf("%w: index[%d] missing name", ErrInvalidJob, i)
		}
		if strings.TrimSpace(idx.InputDir) == "" {
			return fmt.Errorf("%w: index[%d] %s missing input_dir", ErrInvalidJob, i, name)
		}
		if _, ok := seen[name]; ok {
			return fmt.Errorf("%w: index %s listed twice", ErrInvalidJob, name)
		}
		seen[name] = struct{}{}
	}
	return nil
}

func validateExtension(ext string) error {
	ext = strings.TrimSpace(ext)
	if ext == "" || !strings.HasPrefix(ext, ".") {
		return fmt.Errorf("%w: extension must start with a dot, got %q", ErrInvalidJob, ext)
	}
	return nil
}
