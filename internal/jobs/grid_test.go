package jobs

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/danmuck/captainctl/internal/aggregate"
	"github.com/danmuck/captainctl/internal/config"
	"github.com/danmuck/captainctl/internal/export"
	"github.com/danmuck/captainctl/internal/testutil/npzfix"
	"github.com/danmuck/captainctl/internal/testutil/testlog"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func gridJob(t *testing.T, inputDir string) config.GridJob {
	t.Helper()
	cfg := config.DefaultGridJob()
	cfg.InputDir = inputDir
	cfg.OutputDir = filepath.Join(t.TempDir(), "out")
	cfg.Grid = config.GridShape{Rows: 2, Cols: 3}
	cfg.Heatmaps = false
	return cfg
}

func TestRunGridAveragesReplicates(t *testing.T) {
	testlog.Start(t)
	in := t.TempDir()
	npzfix.Write(t, in, "rep_1.npz", map[string]any{"protection_matrix": []float64{0, 0, 1, 2, 4, 0}})
	npzfix.Write(t, in, "rep_2.npz", map[string]any{"protection_matrix": []float64{0, 2, 3, 2, 0, 0}})
	npzfix.Write(t, in, "rep_3.npz", map[string]any{"protected_range_fraction": []float64{0.5}})

	cfg := gridJob(t, in)
	cfg.CSV = true
	cfg.Manifest = true
	cfg.MetricsTextfile = filepath.Join(cfg.OutputDir, "captainctl.prom")

	var out bytes.Buffer
	report, err := RunGrid(cfg, &out)
	if err != nil {
		t.Fatalf("run grid: %v", err)
	}
	if diff := cmp.Diff([]string{"rep_1.npz", "rep_2.npz"}, report.Replicates); diff != "" {
		t.Fatalf("replicates mismatch (-want +got):\n%s", diff)
	}
	if len(report.Failures) != 1 || report.Failures[0].Name != "rep_3.npz" {
		t.Fatalf("unexpected failures: %+v", report.Failures)
	}
	if report.Frame.Rows() != 6 {
		t.Fatalf("rows must equal first replicate's id count, got %d", report.Frame.Rows())
	}
	priority, _ := report.Frame.Column(ColumnPriority)
	if diff := cmp.Diff([]float64{0, 1, 2, 2, 2, 0}, priority.Floats, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Fatalf("priority mismatch (-want +got):\n%s", diff)
	}
	puid, _ := report.Frame.Column(ColumnPUID)
	if diff := cmp.Diff([]int32{1, 2, 3, 4, 5, 6}, puid.Ints); diff != "" {
		t.Fatalf("puid mismatch (-want +got):\n%s", diff)
	}
	if report.Positive.Count != 4 {
		t.Fatalf("unexpected positive count: %+v", report.Positive)
	}

	rdsPath := filepath.Join(cfg.OutputDir, "CAPTAIN2_EDGE_full_results_averaged_budget0.1_replicates2.rds")
	for _, path := range []string{
		rdsPath,
		strings.TrimSuffix(rdsPath, ".rds") + ".csv",
		filepath.Join(cfg.OutputDir, "grid_shape_info.txt"),
		export.ManifestName(rdsPath),
		cfg.MetricsTextfile,
	} {
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("expected output %s: %v", path, err)
		}
	}

	manifest, err := export.ReadManifest(export.ManifestName(rdsPath))
	if err != nil {
		t.Fatalf("read manifest: %v", err)
	}
	if manifest.Rows != 6 || len(manifest.Sources) != 1 || len(manifest.Sources[0].Failures) != 1 {
		t.Fatalf("unexpected manifest: %+v", manifest)
	}
	if manifest.Sources[0].Failures[0].Reason != "missing_field" {
		t.Fatalf("unexpected failure reason: %+v", manifest.Sources[0].Failures[0])
	}

	text := out.String()
	if !strings.Contains(text, "Summary of averaged results:") || !strings.Contains(text, "Non-zero Priority cells: 4 (66.67%)") {
		t.Fatalf("unexpected report output:\n%s", text)
	}
}

func TestRunGridDropsReplicatesThatCannotAlign(t *testing.T) {
	testlog.Start(t)
	in := t.TempDir()
	npzfix.Write(t, in, "a.npz", map[string]any{"protection_matrix": []float64{1, 2, 3, 4, 5, 6}})
	npzfix.Write(t, in, "b.npz", map[string]any{"protection_matrix": []float64{9, 9, 9}})
	npzfix.Write(t, in, "c.npz", map[string]any{"protection_matrix": []float64{3, 2, 1, 0, 1, 2}})

	var out bytes.Buffer
	report, err := RunGrid(gridJob(t, in), &out)
	if err != nil {
		t.Fatalf("run grid: %v", err)
	}
	if diff := cmp.Diff([]string{"a.npz", "c.npz"}, report.Replicates); diff != "" {
		t.Fatalf("replicates mismatch (-want +got):\n%s", diff)
	}
	if len(report.Failures) != 1 || !errors.Is(report.Failures[0].Err, aggregate.ErrMissingID) {
		t.Fatalf("unexpected failures: %+v", report.Failures)
	}
	priority, _ := report.Frame.Column(ColumnPriority)
	if diff := cmp.Diff([]float64{2, 2, 2, 2, 3, 4}, priority.Floats); diff != "" {
		t.Fatalf("priority mismatch (-want +got):\n%s", diff)
	}
	if _, err := os.Stat(filepath.Join(gridOutput(report), "CAPTAIN2_EDGE_full_results_averaged_budget0.1_replicates2.rds")); err != nil {
		t.Fatalf("expected replicate count of accepted inputs in name: %v", err)
	}
}

func gridOutput(report GridReport) string {
	return filepath.Dir(report.Outputs[0])
}

func TestRunGridWithHeatmaps(t *testing.T) {
	testlog.Start(t)
	in := t.TempDir()
	npzfix.Write(t, in, "rep.npz", map[string]any{"protection_matrix": []float64{0, 1, 2, 3, 4, 5}})

	cfg := gridJob(t, in)
	cfg.Label = "IUCN"
	cfg.Heatmaps = true

	report, err := RunGrid(cfg, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("run grid: %v", err)
	}
	for _, kind := range []string{"single_replicate", "averaged"} {
		path := filepath.Join(cfg.OutputDir, export.HeatmapName("IUCN", kind))
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("expected heatmap %s: %v", path, err)
		}
	}
	if len(report.Outputs) != 4 {
		t.Fatalf("unexpected outputs: %v", report.Outputs)
	}
}

func TestRunGridNoValidResults(t *testing.T) {
	testlog.Start(t)
	in := t.TempDir()
	npzfix.Write(t, in, "rep.npz", map[string]any{"other": []float64{1}})

	cfg := gridJob(t, in)
	var out bytes.Buffer
	report, err := RunGrid(cfg, &out)
	if !errors.Is(err, ErrNoResults) {
		t.Fatalf("expected ErrNoResults, got %v", err)
	}
	if len(report.Failures) != 1 {
		t.Fatalf("unexpected failures: %+v", report.Failures)
	}
	if !strings.Contains(out.String(), NoResultsMessage) {
		t.Fatalf("missing terminal message: %q", out.String())
	}
	if _, err := os.Stat(cfg.OutputDir); !os.IsNotExist(err) {
		t.Fatalf("expected no output directory, got %v", err)
	}
}
