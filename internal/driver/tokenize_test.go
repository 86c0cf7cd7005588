package driver_test

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"dusk/internal/driver"
	"dusk/internal/source"
	"dusk/internal/token"
)

type memFS struct {
	files map[string]string
}

func (m memFS) OpenForRead(path string) (io.ReadCloser, error) {
	content, ok := m.files[path]
	if !ok {
		return nil, errors.New("no such file")
	}
	return io.NopCloser(strings.NewReader(content)), nil
}

func (m memFS) Stat(path string) (source.FileInfo, error) {
	content, ok := m.files[path]
	if !ok {
		return source.FileInfo{}, errors.New("no such file")
	}
	return source.FileInfo{Size: int64(len(content)), IsRegularFile: true}, nil
}

func TestTokenizeCleanFile(t *testing.T) {
	fs := memFS{files: map[string]string{"main.dk": "fn main() {}\n"}}
	var diags strings.Builder

	result := driver.Tokenize("main.dk", driver.Options{FS: fs, DiagnosticsTo: &diags})
	if result.SeenError {
		t.Fatalf("SeenError = true; diagnostics:\n%s", diags.String())
	}
	if result.Buffer == nil {
		t.Fatal("Buffer = nil")
	}
	if diags.Len() != 0 {
		t.Errorf("unexpected diagnostics:\n%s", diags.String())
	}
	if result.Buffer.Kind(0) != token.FileStart {
		t.Errorf("first token = %v", result.Buffer.Kind(0))
	}
}

func TestTokenizeMissingFile(t *testing.T) {
	var diags strings.Builder
	result := driver.Tokenize("absent.dk", driver.Options{
		FS:            memFS{files: map[string]string{}},
		DiagnosticsTo: &diags,
	})
	if !result.SeenError {
		t.Fatal("SeenError = false for missing file")
	}
	if result.Buffer != nil {
		t.Error("Buffer should be nil on I/O failure")
	}
	if !strings.Contains(diags.String(), "error: Error opening file for read") {
		t.Errorf("diagnostics:\n%s", diags.String())
	}
}

func TestTokenizeRendersSortedDiagnostics(t *testing.T) {
	// Both errors render after Flush, ordered by position.
	fs := memFS{files: map[string]string{"bad.dk": "x ` y\nz 0b12;\n"}}
	var diags strings.Builder

	result := driver.Tokenize("bad.dk", driver.Options{FS: fs, DiagnosticsTo: &diags})
	if !result.SeenError {
		t.Fatal("SeenError = false")
	}
	out := diags.String()
	first := strings.Index(out, "bad.dk:1:")
	second := strings.Index(out, "bad.dk:2:")
	if first < 0 || second < 0 || first > second {
		t.Errorf("diagnostics unsorted or missing:\n%s", out)
	}
}

func TestTokenizeStdin(t *testing.T) {
	result := driver.TokenizeStdin(strings.NewReader("let x = 1;"), driver.Options{})
	if result.SeenError {
		t.Fatal("SeenError = true")
	}
	if result.Path != "<stdin>" {
		t.Errorf("Path = %q", result.Path)
	}
}

func TestTokenizeDir(t *testing.T) {
	dir := t.TempDir()
	for name, content := range map[string]string{
		"a.dk":      "fn a() {}\n",
		"b.dk":      "fn b() {}\n",
		"ignore.go": "package x\n",
	} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	results, err := driver.TokenizeDir(dir, driver.Options{}, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2 (.dk only)", len(results))
	}
	if filepath.Base(results[0].Path) != "a.dk" || filepath.Base(results[1].Path) != "b.dk" {
		t.Errorf("results out of order: %s, %s", results[0].Path, results[1].Path)
	}
	for _, r := range results {
		if r.SeenError {
			t.Errorf("%s: SeenError = true:\n%s", r.Path, r.Diagnostics)
		}
	}
}

func TestSnapshotCacheRoundTrip(t *testing.T) {
	fs := memFS{files: map[string]string{"main.dk": "fn main() {}\n"}}
	result := driver.Tokenize("main.dk", driver.Options{FS: fs})

	snap := driver.SnapshotOf(result.Buffer)
	if snap.Path != "main.dk" || snap.HasError {
		t.Fatalf("snapshot = %+v", snap)
	}
	if len(snap.Tokens) != result.Buffer.Len() {
		t.Fatalf("snapshot tokens = %d, want %d", len(snap.Tokens), result.Buffer.Len())
	}

	cache := driver.NewSnapshotCache(t.TempDir())
	if err := cache.Put(snap); err != nil {
		t.Fatal(err)
	}

	var loaded driver.Snapshot
	ok, err := cache.Get(snap.Hash, &loaded)
	if err != nil || !ok {
		t.Fatalf("Get = %v, %v", ok, err)
	}
	if loaded.Path != snap.Path || len(loaded.Tokens) != len(snap.Tokens) {
		t.Errorf("loaded = %+v", loaded)
	}
	if loaded.Tokens[1].Spelling != "fn" {
		t.Errorf("loaded token spelling = %q", loaded.Tokens[1].Spelling)
	}

	var missing driver.Snapshot
	ok, err = cache.Get([32]byte{1, 2, 3}, &missing)
	if err != nil || ok {
		t.Errorf("Get(missing) = %v, %v", ok, err)
	}
}
