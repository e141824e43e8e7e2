package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

type fileGridJob struct {
	Label           string  `toml:"label"`
	InputDir        string  `toml:"input_dir"`
	Extension       string  `toml:"extension"`
	Field           string  `toml:"field"`
	Budget          float64 `toml:"budget"`
	OutputDir       string  `toml:"output_dir"`
	OutputPrefix    string  `toml:"output_prefix"`
	GridRows        int     `toml:"grid_rows"`
	GridCols        int     `toml:"grid_cols"`
	ShapeInfoFile   string  `toml:"shape_info_file"`
	CSV             bool    `toml:"csv"`
	Heatmaps        bool    `toml:"heatmaps"`
	Manifest        bool    `toml:"manifest"`
	MetricsTextfile string  `toml:"metrics_textfile"`
}

type fileIndexSource struct {
	Name     string `toml:"name"`
	InputDir string `toml:"input_dir"`
}

type fileFractionJob struct {
	SpeciesDir      string            `toml:"species_dir"`
	RasterExt       string            `toml:"raster_ext"`
	Extension       string            `toml:"extension"`
	Field           string            `toml:"field"`
	Indices         []fileIndexSource `toml:"indices"`
	OutputDir       string            `toml:"output_dir"`
	OutputName      string            `toml:"output_name"`
	CSV             bool              `toml:"csv"`
	Manifest        bool              `toml:"manifest"`
	MetricsTextfile string            `toml:"metrics_textfile"`
}

// LoadGridJob reads a grid job file; keys absent from the file keep their defaults.
func LoadGridJob(path string) (GridJob, error) {
	cfg := DefaultGridJob()

	var raw fileGridJob
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return GridJob{}, fmt.Errorf("load grid job (%s): %w", path, err)
	}

	if meta.IsDefined("label") {
		cfg.Label = strings.TrimSpace(raw.Label)
	}
	if meta.IsDefined("input_dir") {
		cfg.InputDir = strings.TrimSpace(raw.InputDir)
	}
	if meta.IsDefined("extension") {
		cfg.Extension = strings.TrimSpace(raw.Extension)
	}
	if meta.IsDefined("field") {
		cfg.Field = strings.TrimSpace(raw.Field)
	}
	if meta.IsDefined("budget") {
		cfg.Budget = raw.Budget
	}
	if meta.IsDefined("output_dir") {
		cfg.OutputDir = strings.TrimSpace(raw.OutputDir)
	}
	if meta.IsDefined("output_prefix") {
		cfg.OutputPrefix = strings.TrimSpace(raw.OutputPrefix)
	}
	if meta.IsDefined("grid_rows") {
		cfg.Grid.Rows = raw.GridRows
	}
	if meta.IsDefined("grid_cols") {
		cfg.Grid.Cols = raw.GridCols
	}
	if meta.IsDefined("shape_info_file") {
		cfg.ShapeInfoFile = strings.TrimSpace(raw.ShapeInfoFile)
	}
	if meta.IsDefined("csv") {
		cfg.CSV = raw.CSV
	}
	if meta.IsDefined("heatmaps") {
		cfg.Heatmaps = raw.Heatmaps
	}
	if meta.IsDefined("manifest") {
		cfg.Manifest = raw.Manifest
	}
	if meta.IsDefined("metrics_textfile") {
		cfg.MetricsTextfile = strings.TrimSpace(raw.MetricsTextfile)
	}

	if err := ValidateGridJob(cfg); err != nil {
		return GridJob{}, err
	}
	return cfg, nil
}

// LoadFractionJob reads a fraction job file; a present indices list replaces the default one.
func LoadFractionJob(path string) (FractionJob, error) {
	cfg := DefaultFractionJob()

	var raw fileFractionJob
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return FractionJob{}, fmt.Errorf("load fraction job (%s): %w", path, err)
	}

	if meta.IsDefined("species_dir") {
		cfg.SpeciesDir = strings.TrimSpace(raw.SpeciesDir)
	}
	if meta.IsDefined("raster_ext") {
		cfg.RasterExt = strings.TrimSpace(raw.RasterExt)
	}
	if meta.IsDefined("extension") {
		cfg.Extension = strings.TrimSpace(raw.Extension)
	}
	if meta.IsDefined("field") {
		cfg.Field = strings.TrimSpace(raw.Field)
	}
	if meta.IsDefined("indices") {
		cfg.Indices = normalizeIndices(raw.Indices)
	}
	if meta.IsDefined("output_dir") {
		cfg.OutputDir = strings.TrimSpace(raw.OutputDir)
	}
	if meta.IsDefined("output_name") {
		cfg.OutputName = strings.TrimSpace(raw.OutputName)
	}
	if meta.IsDefined("csv") {
		cfg.CSV = raw.CSV
	}
	if meta.IsDefined("manifest") {
		cfg.Manifest = raw.Manifest
	}
	if meta.IsDefined("metrics_textfile") {
		cfg.MetricsTextfile = strings.TrimSpace(raw.MetricsTextfile)
	}

	if err := ValidateFractionJob(cfg); err != nil {
		return FractionJob{}, err
	}
	return cfg, nil
}

func normalizeIndices(in []fileIndexSource) []IndexSource {
	out := make([]IndexSource, 0, len(in))
	for _, idx := range in {
		out = append(out, IndexSource{
			Name:     strings.TrimSpace(idx.Name),
			InputDir: strings.TrimSpace(idx.InputDir),
		})
	}
	return out
}
