package jobs

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/danmuck/captainctl/internal/aggregate"
	"github.com/danmuck/captainctl/internal/config"
	"github.com/danmuck/captainctl/internal/export"
	"github.com/danmuck/captainctl/internal/frame"
	"github.com/danmuck/captainctl/internal/observability"
	"github.com/danmuck/captainctl/internal/replicate"
	"github.com/danmuck/captainctl/internal/summary"
	"github.com/rs/zerolog/log"
)

const (
	ColumnPUID     = "PUID"
	ColumnPriority = "Priority"
)

// GridReport summarizes one grid run.
type GridReport struct {
	Files      []string
	Replicates []string
	Realigned  []string
	Failures   []replicate.Failure
	Frame      *frame.Frame
	Positive   summary.PositiveShare
	Outputs    []string
}

// RunGrid averages the priority grids of every replicate in cfg.InputDir and
// writes the PUID/Priority table. Human-readable results go to out.
func RunGrid(cfg config.GridJob, out io.Writer) (GridReport, error) {
	start := time.Now()
	source := sourceName(cfg.Label)

	batch, err := replicate.LoadDir(cfg.InputDir, cfg.Extension, cfg.Field)
	if err != nil {
		return GridReport{}, err
	}
	report := GridReport{Files: batch.Files, Failures: batch.Failures}
	if batch.Empty() {
		recordFailures(jobGrid, source, report.Failures)
		fmt.Fprintln(out, NoResultsMessage)
		return report, ErrNoResults
	}

	series := make([]aggregate.Series[int32], len(batch.Replicates))
	for i, r := range batch.Replicates {
		series[i] = aggregate.Series[int32]{
			IDs:    aggregate.SequentialIDs(len(r.Array.Data)),
			Values: r.Array.Data,
		}
	}
	res, err := aggregate.AlignedMean(series)
	if err != nil {
		return report, fmt.Errorf("average %s: %w", cfg.InputDir, err)
	}

	rejected := make(map[int]bool, len(res.Rejected))
	for _, rej := range res.Rejected {
		r := batch.Replicates[rej.Index]
		rejected[rej.Index] = true
		log.Warn().Err(rej.Err).Str("file", r.Name).Msg("PUID mismatch could not be realigned; replicate dropped")
		report.Failures = append(report.Failures, replicate.Failure{Name: r.Name, Path: r.Path, Err: rej.Err})
	}
	for _, idx := range res.Realigned {
		log.Warn().Str("file", batch.Replicates[idx].Name).Msg("PUID mismatch between results; realigned")
		report.Realigned = append(report.Realigned, batch.Replicates[idx].Name)
	}
	accepted := make([]replicate.Replicate, 0, res.Contributors)
	for i, r := range batch.Replicates {
		if !rejected[i] {
			accepted = append(accepted, r)
		}
	}
	report.Replicates = replicateNames(accepted)
	recordFailures(jobGrid, source, report.Failures)
	observability.RecordLoaded(jobGrid, source, res.Contributors)

	f, err := frame.New(
		frame.IntColumn(ColumnPUID, res.IDs),
		frame.FloatColumn(ColumnPriority, res.Values),
	)
	if err != nil {
		return report, err
	}
	report.Frame = f
	report.Positive = summary.Positive(res.Values)
	observability.RecordColumn(jobGrid, ColumnPriority, len(res.Values), report.Positive.Ratio())

	fmt.Fprintln(out, "\nSummary of averaged results:")
	if err := summary.WriteDescribe(out, f); err != nil {
		return report, err
	}
	if err := summary.WriteValueReport(out, ColumnPriority, res.Values); err != nil {
		return report, err
	}

	if err := ensureDir(cfg.OutputDir); err != nil {
		return report, err
	}
	rdsPath := filepath.Join(cfg.OutputDir, export.GridResultName(cfg.OutputPrefix, cfg.Label, cfg.Budget, res.Contributors))
	if err := export.WriteRDS(rdsPath, f); err != nil {
		return report, err
	}
	report.Outputs = append(report.Outputs, rdsPath)
	log.Info().Str("path", rdsPath).Int("replicates", res.Contributors).Msg("saved combined results")

	if cfg.CSV {
		csvPath := strings.TrimSuffix(rdsPath, ".rds") + ".csv"
		if err := export.WriteCSV(csvPath, f); err != nil {
			return report, err
		}
		report.Outputs = append(report.Outputs, csvPath)
		log.Info().Str("path", csvPath).Msg("saved csv mirror")
	}

	if cfg.ShapeInfoFile != "" {
		shapePath := filepath.Join(cfg.OutputDir, cfg.ShapeInfoFile)
		if err := export.WriteShapeInfo(shapePath, cfg.Grid); err != nil {
			return report, err
		}
		report.Outputs = append(report.Outputs, shapePath)
		log.Info().Str("path", shapePath).Msg("saved grid shape information")
	}

	if cfg.Heatmaps {
		report.Outputs = append(report.Outputs, writeGridHeatmaps(cfg, accepted[0], res.Values)...)
	}

	var manifest *export.Manifest
	manifestPath := export.ManifestName(rdsPath)
	if cfg.Manifest {
		report.Outputs = append(report.Outputs, manifestPath)
		manifest = &export.Manifest{
			Job:       jobGrid,
			Generated: time.Now().UTC(),
			Field:     cfg.Field,
			Rows:      f.Rows(),
			Sources: []export.ManifestSource{{
				Name:       source,
				Dir:        cfg.InputDir,
				Replicates: report.Replicates,
				Realigned:  report.Realigned,
				Failures:   manifestFailures(report.Failures),
			}},
			Outputs: report.Outputs,
		}
	}
	if err := finish(jobGrid, start, manifest, manifestPath, cfg.MetricsTextfile); err != nil {
		return report, err
	}
	return report, nil
}

// writeGridHeatmaps draws the first accepted replicate and the average. A grid
// that does not match the configured shape skips the image with a warning.
func writeGridHeatmaps(cfg config.GridJob, first replicate.Replicate, averaged []float64) []string {
	var written []string
	titlePrefix := strings.TrimSpace(cfg.Label + " Conservation Priority Grid")

	firstGrid := cfg.Grid
	if rows, cols, ok := first.Array.Matrix(); ok {
		firstGrid = config.GridShape{Rows: rows, Cols: cols}
	}
	images := []struct {
		kind   string
		title  string
		grid   config.GridShape
		values []float64
	}{
		{"single_replicate", titlePrefix + " (First Replicate)", firstGrid, first.Array.Data},
		{"averaged", titlePrefix + " (Averaged Across Replicates)", cfg.Grid, averaged},
	}
	for _, img := range images {
		path := filepath.Join(cfg.OutputDir, export.HeatmapName(cfg.Label, img.kind))
		if err := export.WriteHeatmap(path, img.title, img.grid, img.values); err != nil {
			if errors.Is(err, export.ErrGridSize) {
				log.Warn().Err(err).Str("path", path).Msg("heatmap skipped")
			} else {
				log.Error().Err(err).Str("path", path).Msg("heatmap failed")
			}
			continue
		}
		written = append(written, path)
		log.Info().Str("path", path).Msg("saved priority grid visualization")
	}
	return written
}

func sourceName(label string) string {
	if label = strings.TrimSpace(label); label != "" {
		return label
	}
	return jobGrid
}
