package summary

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/danmuck/captainctl/internal/frame"
)

// UniquePreview is how many sorted unique values the reports print.
const UniquePreview = 20

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}

// WriteDescribe prints one statistics column per numeric frame column.
func WriteDescribe(w io.Writer, f *frame.Frame) error {
	var names []string
	var stats []Stats
	for _, c := range f.Columns() {
		if !c.Numeric() {
			continue
		}
		names = append(names, c.Name)
		stats = append(stats, Describe(c.Float64s()))
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "\t%s\t\n", strings.Join(names, "\t"))
	rows := []struct {
		label string
		value func(Stats) string
	}{
		{"count", func(s Stats) string { return strconv.Itoa(s.Count) }},
		{"mean", func(s Stats) string { return formatFloat(s.Mean) }},
		{"std", func(s Stats) string { return formatFloat(s.Std) }},
		{"min", func(s Stats) string { return formatFloat(s.Min) }},
		{"25%", func(s Stats) string { return formatFloat(s.Q1) }},
		{"50%", func(s Stats) string { return formatFloat(s.Median) }},
		{"75%", func(s Stats) string { return formatFloat(s.Q3) }},
		{"max", func(s Stats) string { return formatFloat(s.Max) }},
	}
	for _, row := range rows {
		cells := make([]string, len(stats))
		for i, s := range stats {
			cells[i] = row.value(s)
		}
		fmt.Fprintf(tw, "%s\t%s\t\n", row.label, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}

// WriteHead prints the first n rows with a positional index.
func WriteHead(w io.Writer, f *frame.Frame, n int) error {
	if n > f.Rows() {
		n = f.Rows()
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "\t%s\t\n", strings.Join(f.Names(), "\t"))
	cols := f.Columns()
	for i := 0; i < n; i++ {
		cells := make([]string, len(cols))
		for j, c := range cols {
			cells[j] = c.Cell(i)
		}
		fmt.Fprintf(tw, "%d\t%s\t\n", i, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}

// WriteValueReport prints the unique-value preview and the positive share of one column.
func WriteValueReport(w io.Writer, name string, values []float64) error {
	unique := Unique(values)
	preview := unique
	if len(preview) > UniquePreview {
		preview = preview[:UniquePreview]
	}
	cells := make([]string, len(preview))
	for i, v := range preview {
		cells[i] = formatFloat(v)
	}
	share := Positive(values)
	_, err := fmt.Fprintf(w,
		"\nNumber of unique %s values: %d\nFirst %d unique %s values:\n[%s]\n\nNon-zero %s cells: %d (%.2f%%)\n",
		name, len(unique), UniquePreview, name, strings.Join(cells, " "),
		name, share.Count, share.Percent())
	return err
}
