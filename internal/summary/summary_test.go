package summary

import (
	"bytes"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/danmuck/captainctl/internal/frame"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestDescribe(t *testing.T) {
	got := Describe([]float64{4, 1, 3, 2})
	want := Stats{
		Count:  4,
		Mean:   2.5,
		Std:    math.Sqrt(5.0 / 3.0),
		Min:    1,
		Q1:     1.75,
		Median: 2.5,
		Q3:     3.25,
		Max:    4,
	}
	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Fatalf("stats mismatch (-want +got):\n%s", diff)
	}
}

func TestDescribeSingleAndEmpty(t *testing.T) {
	one := Describe([]float64{7})
	if one.Count != 1 || one.Mean != 7 || one.Median != 7 || !math.IsNaN(one.Std) {
		t.Fatalf("unexpected single-value stats: %+v", one)
	}
	none := Describe([]float64{math.NaN()})
	if none.Count != 0 || !math.IsNaN(none.Mean) {
		t.Fatalf("unexpected empty stats: %+v", none)
	}
}

func TestPercentileLeavesInputAlone(t *testing.T) {
	in := []float64{10, 0, 5}
	if got := percentile(in, 0.5); got != 5 {
		t.Fatalf("unexpected median: %v", got)
	}
	if got := percentile(in, 0.75); got != 7.5 {
		t.Fatalf("unexpected p75: %v", got)
	}
	if diff := cmp.Diff([]float64{10, 0, 5}, in); diff != "" {
		t.Fatalf("input reordered (-want +got):\n%s", diff)
	}
}

func TestPositiveShare(t *testing.T) {
	share := Positive([]float64{0, 0, 1, 2})
	if share.Count != 2 || share.Total != 4 {
		t.Fatalf("unexpected share: %+v", share)
	}
	if got := fmt.Sprintf("%.2f%%", share.Percent()); got != "50.00%" {
		t.Fatalf("unexpected percent: %s", got)
	}
	if Positive([]float64{-1, 0}).Count != 0 {
		t.Fatalf("negative and zero values must not count")
	}
	if Positive(nil).Ratio() != 0 {
		t.Fatalf("empty input must have zero ratio")
	}
}

func TestUnique(t *testing.T) {
	got := Unique([]float64{0.5, 0, 0.5, 1, 0})
	if diff := cmp.Diff([]float64{0, 0.5, 1}, got); diff != "" {
		t.Fatalf("unique mismatch (-want +got):\n%s", diff)
	}
	withNaN := Unique([]float64{math.NaN(), 1, math.NaN()})
	if len(withNaN) != 2 || !math.IsNaN(withNaN[0]) || withNaN[1] != 1 {
		t.Fatalf("unexpected NaN handling: %v", withNaN)
	}
}

func TestWriteDescribeSkipsTextColumns(t *testing.T) {
	f, err := frame.New(
		frame.StringColumn("Species", []string{"a", "b"}),
		frame.FloatColumn("FUSE", []float64{0, 1}),
	)
	if err != nil {
		t.Fatalf("frame: %v", err)
	}
	var buf bytes.Buffer
	if err := WriteDescribe(&buf, f); err != nil {
		t.Fatalf("describe: %v", err)
	}
	out := buf.String()
	if strings.Contains(out, "Species") || !strings.Contains(out, "FUSE") {
		t.Fatalf("unexpected header:\n%s", out)
	}
	for _, label := range []string{"count", "mean", "std", "min", "25%", "50%", "75%", "max"} {
		if !strings.Contains(out, label) {
			t.Fatalf("missing %s row:\n%s", label, out)
		}
	}
}

func TestWriteHeadAndValueReport(t *testing.T) {
	f, err := frame.New(
		frame.IntColumn("PUID", []int32{1, 2, 3}),
		frame.FloatColumn("Priority", []float64{0, 0.5, 2}),
	)
	if err != nil {
		t.Fatalf("frame: %v", err)
	}
	var buf bytes.Buffer
	if err := WriteHead(&buf, f, 5); err != nil {
		t.Fatalf("head: %v", err)
	}
	if lines := strings.Count(buf.String(), "\n"); lines != 4 {
		t.Fatalf("expected header + 3 rows, got %d lines:\n%s", lines, buf.String())
	}

	buf.Reset()
	col, _ := f.Column("Priority")
	if err := WriteValueReport(&buf, "Priority", col.Floats); err != nil {
		t.Fatalf("value report: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Number of unique Priority values: 3") {
		t.Fatalf("missing unique count:\n%s", out)
	}
	if !strings.Contains(out, "Non-zero Priority cells: 2 (66.67%)") {
		t.Fatalf("missing positive share:\n%s", out)
	}
}
