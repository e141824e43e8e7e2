package replicate

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
)

// Replicate is one archive's extracted array.
type Replicate struct {
	Name  string
	Path  string
	Array Array
}

// Failure records a file that did not contribute.
type Failure struct {
	Name string
	Path string
	Err  error
}

// Reason is a short metric-friendly failure class.
func (f Failure) Reason() string {
	switch {
	case errors.Is(f.Err, ErrMissingField):
		return "missing_field"
	case errors.Is(f.Err, ErrUnsupportedDType), errors.Is(f.Err, ErrBadLayout):
		return "bad_array"
	default:
		return "unreadable"
	}
}

func (f Failure) Error() string {
	return fmt.Sprintf("%s: %v", f.Path, f.Err)
}

// Batch is the outcome of scanning one directory.
type Batch struct {
	Dir        string
	Files      []string
	Replicates []Replicate
	Failures   []Failure
}

// Empty reports whether no replicate could be extracted.
func (b Batch) Empty() bool {
	return len(b.Replicates) == 0
}

// Arrays returns the extracted data in load order.
func (b Batch) Arrays() [][]float64 {
	out := make([][]float64, 0, len(b.Replicates))
	for _, r := range b.Replicates {
		out = append(out, r.Array.Data)
	}
	return out
}

// ListFiles returns the names of regular files in dir ending in ext, sorted.
func ListFiles(dir, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ext) {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}

// LoadDir extracts field from every archive in dir. Only a failure to list the
// directory is returned as an error.
func LoadDir(dir, ext, field string) (Batch, error) {
	names, err := ListFiles(dir, ext)
	if err != nil {
		return Batch{}, err
	}
	batch := Batch{Dir: dir, Files: names}
	for _, name := range names {
		path := filepath.Join(dir, name)
		arr, err := Load(path, field)
		if err != nil {
			f := Failure{Name: name, Path: path, Err: err}
			if errors.Is(err, ErrMissingField) {
				log.Warn().Str("file", name).Msgf("no %s found in %s", field, path)
			} else {
				log.Error().Err(err).Str("file", path).Msg("error processing file")
			}
			batch.Failures = append(batch.Failures, f)
			continue
		}
		log.Info().Str("file", name).Int("values", len(arr.Data)).Msg("processed")
		batch.Replicates = append(batch.Replicates, Replicate{Name: name, Path: path, Array: arr})
	}
	return batch, nil
}
