package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/danmuck/captainctl/internal/jobs"
	"github.com/danmuck/captainctl/internal/testutil/npzfix"
	"github.com/danmuck/captainctl/internal/testutil/testlog"
)

func writeJob(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "job.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write job: %v", err)
	}
	return path
}

func TestGridCommand(t *testing.T) {
	testlog.Start(t)
	in := t.TempDir()
	out := t.TempDir()
	npzfix.Write(t, in, "rep.npz", map[string]any{"protection_matrix": []float64{0, 1, 0, 1}})

	path := writeJob(t, fmt.Sprintf(`
label = "IUCN"
input_dir = %q
output_dir = %q
grid_rows = 2
grid_cols = 2
heatmaps = false
shape_info_file = ""
`, in, out))

	var buf bytes.Buffer
	if err := execute(&buf, "grid", "--config", path); err != nil {
		t.Fatalf("grid: %v", err)
	}
	if _, err := os.Stat(filepath.Join(out, "CAPTAIN2_IUCN_full_results_averaged_budget0.1_replicates1.rds")); err != nil {
		t.Fatalf("expected rds output: %v", err)
	}
	if !strings.Contains(buf.String(), "Non-zero Priority cells: 2 (50.00%)") {
		t.Fatalf("unexpected output:\n%s", buf.String())
	}
}

func TestFractionsCommandWithNothingToDo(t *testing.T) {
	testlog.Start(t)
	path := writeJob(t, fmt.Sprintf(`
species_dir = %q
output_dir = %q

[[indices]]
name = "EDGE2"
input_dir = %q
`, t.TempDir(), t.TempDir(), t.TempDir()))

	var buf bytes.Buffer
	if err := execute(&buf, "fractions", "-c", path); err != nil {
		t.Fatalf("fractions: %v", err)
	}
	if !strings.Contains(buf.String(), jobs.NoResultsMessage) {
		t.Fatalf("unexpected output:\n%s", buf.String())
	}
}

func TestCommandRejectsBadConfig(t *testing.T) {
	testlog.Start(t)
	path := writeJob(t, `grid_cols = -1`)
	if err := execute(&bytes.Buffer{}, "grid", "--config", path); err == nil {
		t.Fatalf("expected config error")
	}
}
