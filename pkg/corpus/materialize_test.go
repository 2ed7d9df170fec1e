package corpus

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestMaterializeOrderIsTranslationsThenBooksThenChapters(t *testing.T) {
	ds := twoBookDataset(t)
	g := GenerateAPI(ds, Options{})
	outputs := Materialize(g)

	if outputs[0].Path != "/api/available_translations.json" {
		t.Fatalf("outputs[0] = %q, want the translations index first", outputs[0].Path)
	}
	if outputs[1].Path != "/api/kjv/books.json" {
		t.Fatalf("outputs[1] = %q, want the books index second", outputs[1].Path)
	}
	want := []string{
		"/api/kjv/GEN/1.json",
		"/api/kjv/GEN/2.json",
		"/api/kjv/1CH/1.json",
	}
	for i, w := range want {
		if outputs[2+i].Path != w {
			t.Errorf("outputs[%d] = %q, want %q", 2+i, outputs[2+i].Path, w)
		}
	}
}

func TestWriteTreeWritesFilesAtStrippedPaths(t *testing.T) {
	ds := twoBookDataset(t)
	g := GenerateAPI(ds, Options{})
	outputs := Materialize(g)

	dir := t.TempDir()
	if err := WriteTree(dir, outputs); err != nil {
		t.Fatalf("WriteTree: %v", err)
	}

	for _, o := range outputs {
		rel := strings.TrimPrefix(o.Path, "/")
		dest := filepath.Join(dir, filepath.FromSlash(rel))
		data, err := os.ReadFile(dest)
		if err != nil {
			t.Fatalf("reading %s: %v", dest, err)
		}
		var decoded any
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("%s did not decode as JSON: %v", dest, err)
		}
	}
}

func TestGenerateManifestHashesEveryFileExceptItself(t *testing.T) {
	ds := twoBookDataset(t)
	g := GenerateAPI(ds, Options{})
	outputs := Materialize(g)

	dir := t.TempDir()
	if err := WriteTree(dir, outputs); err != nil {
		t.Fatalf("WriteTree: %v", err)
	}
	if err := GenerateManifest(dir); err != nil {
		t.Fatalf("GenerateManifest: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "SHA256MANIFEST"))
	if err != nil {
		t.Fatalf("reading manifest: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != len(outputs) {
		t.Fatalf("manifest has %d lines, want %d (one per output file)", len(lines), len(outputs))
	}
	for _, line := range lines {
		if strings.Contains(line, "SHA256MANIFEST") {
			t.Fatalf("manifest should not list itself: %q", line)
		}
	}
}

func TestGenerateManifestIsSortedByPath(t *testing.T) {
	ds := twoBookDataset(t)
	g := GenerateAPI(ds, Options{})
	dir := t.TempDir()
	if err := WriteTree(dir, Materialize(g)); err != nil {
		t.Fatalf("WriteTree: %v", err)
	}
	if err := GenerateManifest(dir); err != nil {
		t.Fatalf("GenerateManifest: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "SHA256MANIFEST"))
	if err != nil {
		t.Fatalf("reading manifest: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	var paths []string
	for _, line := range lines {
		fields := strings.SplitN(line, "  ", 2)
		if len(fields) != 2 {
			t.Fatalf("malformed manifest line: %q", line)
		}
		paths = append(paths, fields[1])
	}
	for i := 1; i < len(paths); i++ {
		if paths[i-1] >= paths[i] {
			t.Fatalf("manifest not sorted: %q before %q", paths[i-1], paths[i])
		}
	}
}
