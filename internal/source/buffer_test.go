package source_test

import (
	"errors"
	"io"
	"strings"
	"testing"

	"dusk/internal/diag"
	"dusk/internal/source"
)

// fakeFS serves in-memory files and scripted failures.
type fakeFS struct {
	files    map[string]string
	openErr  error
	statErr  error
	statSize int64
	readErr  error
}

type errReader struct{ err error }

func (r errReader) Read([]byte) (int, error) { return 0, r.err }
func (r errReader) Close() error             { return nil }

func (f *fakeFS) OpenForRead(path string) (io.ReadCloser, error) {
	if f.openErr != nil {
		return nil, f.openErr
	}
	if f.readErr != nil {
		return errReader{err: f.readErr}, nil
	}
	content, ok := f.files[path]
	if !ok {
		return nil, errors.New("no such file")
	}
	return io.NopCloser(strings.NewReader(content)), nil
}

func (f *fakeFS) Stat(path string) (source.FileInfo, error) {
	if f.statErr != nil {
		return source.FileInfo{}, f.statErr
	}
	size := f.statSize
	if size == 0 {
		size = int64(len(f.files[path]))
	}
	return source.FileInfo{Size: size, IsRegularFile: true}, nil
}

type kindCollector struct {
	kinds []diag.Kind
}

func (c *kindCollector) Consume(d *diag.Diagnostic) {
	for _, coll := range d.Collections {
		c.kinds = append(c.kinds, coll.Kind)
	}
}
func (c *kindCollector) Flush() {}

func TestNewFromFile(t *testing.T) {
	fs := &fakeFS{files: map[string]string{"main.dk": "fn main() {}\n"}}
	sink := &kindCollector{}

	buf := source.NewFromFile(fs, "main.dk", sink)
	if buf == nil {
		t.Fatal("load failed")
	}
	if buf.Filename() != "main.dk" {
		t.Errorf("Filename() = %q", buf.Filename())
	}
	if got := string(buf.Content()); got != "fn main() {}\n" {
		t.Errorf("Content() = %q", got)
	}
	if !buf.IsRegularFile() {
		t.Error("IsRegularFile() = false")
	}
	if len(sink.kinds) != 0 {
		t.Errorf("unexpected diagnostics: %v", sink.kinds)
	}
}

func TestNewFromFileFailures(t *testing.T) {
	cases := []struct {
		name string
		fs   *fakeFS
		want diag.Kind
	}{
		{"open", &fakeFS{openErr: errors.New("denied")}, diag.ErrorOpeningFile},
		{"stat", &fakeFS{files: map[string]string{"f": ""}, statErr: errors.New("gone")}, diag.ErrorStattingFile},
		{"too large", &fakeFS{files: map[string]string{"f": "x"}, statSize: source.MaxFileSize}, diag.FileTooLarge},
		{"read", &fakeFS{readErr: errors.New("io broke")}, diag.ErrorReadingFile},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sink := &kindCollector{}
			buf := source.NewFromFile(tc.fs, "f", sink)
			if buf != nil {
				t.Fatal("expected nil buffer")
			}
			if len(sink.kinds) != 1 || sink.kinds[0] != tc.want {
				t.Errorf("kinds = %v, want [%v]", sink.kinds, tc.want)
			}
		})
	}
}

func TestNewFromStdin(t *testing.T) {
	sink := &kindCollector{}
	buf := source.NewFromStdin(strings.NewReader("let x = 1;"), sink)
	if buf == nil {
		t.Fatal("stdin load failed")
	}
	if buf.Filename() != "<stdin>" {
		t.Errorf("Filename() = %q", buf.Filename())
	}
	if buf.IsRegularFile() {
		t.Error("stdin should not be a regular file")
	}
	if got := string(buf.Content()); got != "let x = 1;" {
		t.Errorf("Content() = %q", got)
	}
}
