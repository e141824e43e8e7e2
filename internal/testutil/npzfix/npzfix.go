package npzfix

import (
	"path/filepath"
	"sort"
	"testing"

	"github.com/sbinet/npyio/npz"
)

// Write creates dir/name as an npz archive holding arrays, keyed by member name.
func Write(t *testing.T, dir, name string, arrays map[string]any) string {
	t.Helper()
	path := filepath.Join(dir, name)
	w, err := npz.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	keys := make([]string, 0, len(arrays))
	for k := range arrays {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := w.Write(k, arrays[k]); err != nil {
			t.Fatalf("write %s/%s: %v", name, k, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close %s: %v", path, err)
	}
	return path
}
