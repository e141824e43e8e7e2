package export

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// BudgetLabel renders a budget the shortest way that round-trips, e.g. 0.1.
func BudgetLabel(budget float64) string {
	return strconv.FormatFloat(budget, 'f', -1, 64)
}

// GridResultName is <prefix>_<label>_full_results_averaged_budget<b>_replicates<n>.rds.
func GridResultName(prefix, label string, budget float64, replicates int) string {
	return fmt.Sprintf("%s_full_results_averaged_budget%s_replicates%d.rds",
		joinName(prefix, label), BudgetLabel(budget), replicates)
}

// HeatmapName is <label>_priority_grid_<kind>.png.
func HeatmapName(label, kind string) string {
	return joinName(label, "priority_grid_"+kind) + ".png"
}

// ManifestName places the manifest next to the main output.
func ManifestName(output string) string {
	return strings.TrimSuffix(output, filepath.Ext(output)) + ".manifest.toml"
}

func joinName(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "_")
}
