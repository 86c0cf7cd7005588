// Package driver wires the front-end phases together for the CLI:
// source loading, lexing, diagnostic consumer chains, and the token
// snapshot cache.
package driver

import (
	"io"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"dusk/internal/diag"
	"dusk/internal/lexer"
	"dusk/internal/source"
	"dusk/internal/store"
)

// Options configures a tokenize run.
type Options struct {
	// DiagnosticsTo receives rendered diagnostics; defaults to
	// io.Discard when nil.
	DiagnosticsTo io.Writer
	// Color enables ANSI colors in rendered diagnostics.
	Color bool
	// FS overrides the filesystem; defaults to the host OS.
	FS source.FS
}

func (o *Options) fs() source.FS {
	if o.FS != nil {
		return o.FS
	}
	return source.OSFS{}
}

func (o *Options) newConsumerChain() (*diag.ErrorTrackingConsumer, *diag.SortingConsumer) {
	w := o.DiagnosticsTo
	if w == nil {
		w = io.Discard
	}
	var stream diag.Consumer
	if o.Color {
		stream = diag.NewColorStreamConsumer(w)
	} else {
		stream = diag.NewStreamConsumer(w)
	}
	sorter := diag.NewSortingConsumer(stream)
	return diag.NewErrorTrackingConsumer(sorter), sorter
}

// Result is the outcome of tokenizing one file.
type Result struct {
	Path      string
	Buffer    *lexer.TokenizedBuffer
	Values    *store.SharedValueStores
	SeenError bool
	// Diagnostics holds the rendered diagnostic text when the run
	// buffered it per file (directory mode).
	Diagnostics string
}

// Tokenize loads and lexes one source file. I/O failures surface as
// diagnostics and a nil Buffer; SeenError covers both I/O and lexing
// errors.
func Tokenize(path string, opts Options) *Result {
	tracker, sorter := opts.newConsumerChain()
	defer sorter.AssertFlushed()

	values := store.NewSharedValueStores()
	result := &Result{Path: path, Values: values}

	src := source.NewFromFile(opts.fs(), path, tracker)
	if src == nil {
		tracker.Flush()
		result.SeenError = true
		return result
	}

	result.Buffer = lexer.Lex(values, src, tracker)
	tracker.Flush()
	result.SeenError = tracker.SeenError()
	return result
}

// TokenizeStdin lexes standard input.
func TokenizeStdin(stdin io.Reader, opts Options) *Result {
	tracker, sorter := opts.newConsumerChain()
	defer sorter.AssertFlushed()

	values := store.NewSharedValueStores()
	result := &Result{Path: "<stdin>", Values: values}

	src := source.NewFromStdin(stdin, tracker)
	if src == nil {
		tracker.Flush()
		result.SeenError = true
		return result
	}

	result.Buffer = lexer.Lex(values, src, tracker)
	tracker.Flush()
	result.SeenError = tracker.SeenError()
	return result
}

// listSourceFiles возвращает отсортированный список всех *.dk файлов
// в директории.
func listSourceFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ".dk") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// TokenizeDir tokenizes every .dk file under dir in parallel. Each
// file gets its own value stores; stores are single-writer by
// contract. Results come back in path order.
func TokenizeDir(dir string, opts Options, jobs int) ([]*Result, error) {
	files, err := listSourceFiles(dir)
	if err != nil {
		return nil, err
	}

	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}

	results := make([]*Result, len(files))
	var g errgroup.Group
	g.SetLimit(jobs)

	for i, path := range files {
		g.Go(func() error {
			// Render into a per-file buffer so parallel output does
			// not interleave; the caller prints in path order.
			var rendered strings.Builder
			fileOpts := opts
			fileOpts.DiagnosticsTo = &rendered
			results[i] = Tokenize(path, fileOpts)
			results[i].Diagnostics = rendered.String()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
