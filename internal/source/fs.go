package source

import (
	"io"
	"os"
)

// FileInfo is the subset of stat data the loader needs.
type FileInfo struct {
	Size          int64
	IsRegularFile bool
}

// FS abstracts the filesystem the loader reads from, so tests and
// embedders can supply their own.
type FS interface {
	OpenForRead(path string) (io.ReadCloser, error)
	Stat(path string) (FileInfo, error)
}

// OSFS reads from the host filesystem.
type OSFS struct{}

func (OSFS) OpenForRead(path string) (io.ReadCloser, error) {
	// #nosec G304 -- path is provided by the caller
	return os.Open(path)
}

func (OSFS) Stat(path string) (FileInfo, error) {
	st, err := os.Stat(path)
	if err != nil {
		return FileInfo{}, err
	}
	return FileInfo{Size: st.Size(), IsRegularFile: st.Mode().IsRegular()}, nil
}
