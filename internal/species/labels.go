// Package species derives the species identifier axis from raster filenames.
package species

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
)

// FromRasterDir returns the base names (extension stripped) of files in dir
// ending in ext, sorted alphabetically to follow the model's species order.
// Hidden files, such as AppleDouble "._" companions, are skipped.
func FromRasterDir(dir, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list rasters in %s: %w", dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") || filepath.Ext(entry.Name()) != ext {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), ext))
	}
	sort.Strings(names)
	return names, nil
}

// Generic returns Species_1..Species_n.
func Generic(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("Species_%d", i+1)
	}
	return out
}

// Resolve returns names when they match the number of computed values and
// falls back to generic labels otherwise. fallback reports which one was used.
func Resolve(names []string, count int) (labels []string, fallback bool) {
	if len(names) != count {
		log.Warn().Int("rasters", len(names)).Int("values", count).
			Msg("species count from raster files does not match the model outputs; using generic labels")
		return Generic(count), true
	}
	log.Info().Int("species", count).Msg("species count matches")
	return names, false
}
