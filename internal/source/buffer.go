// Package source owns the in-memory copy of one source file. A Buffer
// is immutable once loaded and outlives every token buffer that
// references it.
package source

import (
	"io"
	"math"

	"dusk/internal/diag"
)

// MaxFileSize is the exclusive upper bound for source files: offsets
// must fit a signed 32-bit handle.
const MaxFileSize = int64(math.MaxInt32)

// Buffer is one loaded source file.
type Buffer struct {
	filename      string
	content       []byte
	isRegularFile bool
}

func (b *Buffer) Filename() string    { return b.filename }
func (b *Buffer) Content() []byte     { return b.content }
func (b *Buffer) IsRegularFile() bool { return b.isRegularFile }

// Text returns the source as a string; each call copies the bytes.
func (b *Buffer) Text() string { return string(b.content) }

var (
	errOpeningFile = diag.Base{Kind: diag.ErrorOpeningFile, Level: diag.Error,
		Format: "Error opening file for read: %v"}
	errStattingFile = diag.Base{Kind: diag.ErrorStattingFile, Level: diag.Error,
		Format: "Error statting file: %v"}
	errReadingFile = diag.Base{Kind: diag.ErrorReadingFile, Level: diag.Error,
		Format: "Error reading file: %v"}
	errFileTooLarge = diag.Base{Kind: diag.FileTooLarge, Level: diag.Error,
		Format: "File is over the 2GiB input limit; size is %d bytes."}
)

// filenameConverter resolves a bare filename to a location with no
// line context; used before any lexing happened.
type filenameConverter struct{}

func (filenameConverter) ConvertLoc(filename string, _ diag.ContextFn) diag.Location {
	return diag.Location{Filename: filename}
}

// NewFromFile loads filename through fs. I/O failures are emitted as
// diagnostics and reported with a nil buffer; they are fatal for the
// compilation unit.
func NewFromFile(fs FS, filename string, consumer diag.Consumer) *Buffer {
	emitter := diag.NewEmitter[string](filenameConverter{}, consumer)

	f, err := fs.OpenForRead(filename)
	if err != nil {
		emitter.Emit(filename, errOpeningFile, err)
		return nil
	}
	defer f.Close()

	st, err := fs.Stat(filename)
	if err != nil {
		emitter.Emit(filename, errStattingFile, err)
		return nil
	}

	if st.Size >= MaxFileSize {
		emitter.Emit(filename, errFileTooLarge, st.Size)
		return nil
	}

	content, err := io.ReadAll(f)
	if err != nil {
		emitter.Emit(filename, errReadingFile, err)
		return nil
	}
	if int64(len(content)) >= MaxFileSize {
		emitter.Emit(filename, errFileTooLarge, int64(len(content)))
		return nil
	}

	return &Buffer{
		filename:      filename,
		content:       content,
		isRegularFile: st.IsRegularFile,
	}
}

// NewFromStdin reads the whole standard input.
func NewFromStdin(stdin io.Reader, consumer diag.Consumer) *Buffer {
	const stdinName = "<stdin>"
	emitter := diag.NewEmitter[string](filenameConverter{}, consumer)

	content, err := io.ReadAll(io.LimitReader(stdin, MaxFileSize))
	if err != nil {
		emitter.Emit(stdinName, errReadingFile, err)
		return nil
	}
	if int64(len(content)) >= MaxFileSize {
		emitter.Emit(stdinName, errFileTooLarge, int64(len(content)))
		return nil
	}

	return &Buffer{filename: stdinName, content: content}
}

// NewFromBytes builds a virtual buffer (tests, generated code).
func NewFromBytes(filename string, content []byte) *Buffer {
	return &Buffer{filename: filename, content: content, isRegularFile: false}
}
