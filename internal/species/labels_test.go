package species

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/danmuck/captainctl/internal/testutil/testlog"
	"github.com/google/go-cmp/cmp"
)

func TestFromRasterDirSortsAndStripsExtension(t *testing.T) {
	testlog.Start(t)
	dir := t.TempDir()
	for _, name := range []string{"Zosterops_japonicus.tif", "Alces_alces.tif", "readme.md", "Bufo_bufo.tif.aux.xml"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "nested.tif"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	got, err := FromRasterDir(dir, ".tif")
	if err != nil {
		t.Fatalf("from raster dir: %v", err)
	}
	if diff := cmp.Diff([]string{"Alces_alces", "Zosterops_japonicus"}, got); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveKeepsMatchingNames(t *testing.T) {
	testlog.Start(t)
	names := []string{"a", "b"}
	got, fallback := Resolve(names, 2)
	if fallback {
		t.Fatalf("unexpected fallback")
	}
	if diff := cmp.Diff(names, got); diff != "" {
		t.Fatalf("labels mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveFallsBackToGenericLabels(t *testing.T) {
	testlog.Start(t)
	got, fallback := Resolve([]string{"a", "b"}, 3)
	if !fallback {
		t.Fatalf("expected fallback")
	}
	if diff := cmp.Diff([]string{"Species_1", "Species_2", "Species_3"}, got); diff != "" {
		t.Fatalf("labels mismatch (-want +got):\n%s", diff)
	}
}

func TestFromRasterDirSkipsHiddenCompanions(t *testing.T) {
	testlog.Start(t)
	dir := t.TempDir()
	for _, name := range []string{"Alces_alces.tif", "Bufo_bufo.tif", "._Alces_alces.tif", "._Bufo_bufo.tif", ".tif"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	names, err := FromRasterDir(dir, ".tif")
	if err != nil {
		t.Fatalf("from raster dir: %v", err)
	}
	want := []string{"Alces_alces", "Bufo_bufo"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
	labels, fallback := Resolve(names, 2)
	if fallback {
		t.Fatalf("unexpected fallback to generic labels")
	}
	if diff := cmp.Diff(want, labels); diff != "" {
		t.Fatalf("labels mismatch (-want +got):\n%s", diff)
	}
}
