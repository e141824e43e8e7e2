// Package jobs runs the batch analyses end to end: load replicates, average
// them, report statistics and write the outputs.
package jobs

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/danmuck/captainctl/internal/export"
	"github.com/danmuck/captainctl/internal/observability"
	"github.com/danmuck/captainctl/internal/replicate"
	"github.com/rs/zerolog/log"
)

var ErrNoResults = errors.New("jobs: no valid results")

const (
	jobGrid      = "grid"
	jobFractions = "fractions"
)

// NoResultsMessage is printed when a run has nothing to write.
const NoResultsMessage = "No valid results to process."

func ensureDir(dir string) error {
	if dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	return nil
}

func recordFailures(job, source string, failures []replicate.Failure) {
	for _, f := range failures {
		observability.RecordSkipped(job, source, f.Reason())
	}
}

func manifestFailures(failures []replicate.Failure) []export.ManifestFailure {
	if len(failures) == 0 {
		return nil
	}
	out := make([]export.ManifestFailure, 0, len(failures))
	for _, f := range failures {
		out = append(out, export.ManifestFailure{File: f.Name, Reason: f.Reason(), Error: f.Err.Error()})
	}
	return out
}

func replicateNames(reps []replicate.Replicate) []string {
	out := make([]string, 0, len(reps))
	for _, r := range reps {
		out = append(out, r.Name)
	}
	return out
}

// finish writes the optional manifest and metrics textfile shared by all jobs.
func finish(job string, start time.Time, manifest *export.Manifest, manifestPath, metricsPath string) error {
	observability.RecordDuration(job, time.Since(start))
	if manifest != nil {
		if err := export.WriteManifest(manifestPath, *manifest); err != nil {
			return err
		}
		log.Info().Str("path", manifestPath).Msg("saved run manifest")
	}
	if metricsPath != "" {
		if err := observability.WriteTextfile(metricsPath); err != nil {
			return err
		}
		log.Info().Str("path", metricsPath).Msg("saved metrics textfile")
	}
	return nil
}
