package jobs

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/danmuck/captainctl/internal/aggregate"
	"github.com/danmuck/captainctl/internal/config"
	"github.com/danmuck/captainctl/internal/export"
	"github.com/danmuck/captainctl/internal/frame"
	"github.com/danmuck/captainctl/internal/observability"
	"github.com/danmuck/captainctl/internal/replicate"
	"github.com/danmuck/captainctl/internal/species"
	"github.com/danmuck/captainctl/internal/summary"
	"github.com/rs/zerolog/log"
)

// ColumnSpecies labels the identifier column of the fractions table.
const ColumnSpecies = "Species"

const previewSpecies = 5

// IndexOutcome is what one index directory contributed.
type IndexOutcome struct {
	Name   string
	Dir    string
	Batch  replicate.Batch
	Values []float64
	Err    error
}

// FractionReport summarizes one fractions run.
type FractionReport struct {
	SpeciesNames []string
	Fallback     bool
	Indices      []IndexOutcome
	Frame        *frame.Frame
	Outputs      []string
}

// RunFractions averages the per-species protected range fractions of every
// configured index and writes one table with a column per index.
func RunFractions(cfg config.FractionJob, out io.Writer) (FractionReport, error) {
	start := time.Now()
	var report FractionReport

	names, err := species.FromRasterDir(cfg.SpeciesDir, cfg.RasterExt)
	if err != nil {
		log.Warn().Err(err).Msg("species names unavailable")
	}
	report.SpeciesNames = names
	logSpeciesPreview(names)

	count := -1
	for _, idx := range cfg.Indices {
		outcome := extractIndex(cfg, idx)
		if outcome.Err == nil {
			if count < 0 {
				count = len(outcome.Values)
			} else if len(outcome.Values) != count {
				outcome.Err = fmt.Errorf("%w: %s has %d species, expected %d",
					aggregate.ErrShapeMismatch, idx.Name, len(outcome.Values), count)
				log.Error().Err(outcome.Err).Msg("index dropped")
				outcome.Values = nil
			}
		}
		report.Indices = append(report.Indices, outcome)
	}
	if count < 0 {
		fmt.Fprintln(out, NoResultsMessage)
		return report, ErrNoResults
	}

	labels, fallback := species.Resolve(names, count)
	report.Fallback = fallback
	f, err := frame.New(frame.StringColumn(ColumnSpecies, labels))
	if err != nil {
		return report, err
	}
	for _, o := range report.Indices {
		if o.Err != nil {
			continue
		}
		if err := f.Add(frame.FloatColumn(o.Name, o.Values)); err != nil {
			return report, err
		}
		observability.RecordColumn(jobFractions, o.Name, len(o.Values), summary.Positive(o.Values).Ratio())
	}
	report.Frame = f

	fmt.Fprintf(out, "\nTotal species: %d\nColumns: %v\n\nSample data (first %d rows):\n", f.Rows(), f.Names(), previewSpecies)
	if err := summary.WriteHead(out, f, previewSpecies); err != nil {
		return report, err
	}
	fmt.Fprintln(out, "\nSummary statistics:")
	if err := summary.WriteDescribe(out, f); err != nil {
		return report, err
	}

	if err := ensureDir(cfg.OutputDir); err != nil {
		return report, err
	}
	rdsPath := filepath.Join(cfg.OutputDir, cfg.OutputName+".rds")
	if err := export.WriteRDS(rdsPath, f); err != nil {
		return report, err
	}
	report.Outputs = append(report.Outputs, rdsPath)
	log.Info().Str("path", rdsPath).Msg("saved fractions table")

	if cfg.CSV {
		csvPath := filepath.Join(cfg.OutputDir, cfg.OutputName+".csv")
		if err := export.WriteCSV(csvPath, f); err != nil {
			return report, err
		}
		report.Outputs = append(report.Outputs, csvPath)
		log.Info().Str("path", csvPath).Msg("saved csv mirror")
	}

	var manifest *export.Manifest
	manifestPath := export.ManifestName(rdsPath)
	if cfg.Manifest {
		report.Outputs = append(report.Outputs, manifestPath)
		manifest = &export.Manifest{
			Job:       jobFractions,
			Generated: time.Now().UTC(),
			Field:     cfg.Field,
			Rows:      f.Rows(),
			Outputs:   report.Outputs,
		}
		for _, o := range report.Indices {
			src := export.ManifestSource{
				Name:       o.Name,
				Dir:        o.Dir,
				Replicates: replicateNames(o.Batch.Replicates),
				Failures:   manifestFailures(o.Batch.Failures),
			}
			if o.Err != nil && !errors.Is(o.Err, aggregate.ErrEmpty) {
				src.Failures = append(src.Failures, export.ManifestFailure{File: o.Dir, Reason: "index", Error: o.Err.Error()})
			}
			manifest.Sources = append(manifest.Sources, src)
		}
	}
	if err := finish(jobFractions, start, manifest, manifestPath, cfg.MetricsTextfile); err != nil {
		return report, err
	}
	return report, nil
}

func extractIndex(cfg config.FractionJob, idx config.IndexSource) IndexOutcome {
	outcome := IndexOutcome{Name: idx.Name, Dir: idx.InputDir}
	log.Info().Str("index", idx.Name).Msg("extracting protected fractions")

	batch, err := replicate.LoadDir(idx.InputDir, cfg.Extension, cfg.Field)
	if err != nil {
		log.Error().Err(err).Str("index", idx.Name).Msg("index directory unreadable")
		outcome.Err = err
		return outcome
	}
	outcome.Batch = batch
	recordFailures(jobFractions, idx.Name, batch.Failures)
	observability.RecordLoaded(jobFractions, idx.Name, len(batch.Replicates))

	values, err := aggregate.Mean(batch.Arrays())
	if err != nil {
		if errors.Is(err, aggregate.ErrEmpty) {
			log.Warn().Str("dir", idx.InputDir).Msg("no valid fractions found")
		} else {
			log.Error().Err(err).Str("index", idx.Name).Msg("replicate fractions disagree in length")
		}
		outcome.Err = err
		return outcome
	}
	outcome.Values = values
	return outcome
}

func logSpeciesPreview(names []string) {
	head := names
	if len(head) > previewSpecies {
		head = head[:previewSpecies]
	}
	tail := names
	if len(tail) > previewSpecies {
		tail = tail[len(tail)-previewSpecies:]
	}
	log.Info().Int("count", len(names)).Strs("first", head).Strs("last", tail).Msg("found species names from raster files")
}
