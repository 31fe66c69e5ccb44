package source

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/afero"
)

// FileSource reads records from a file on an afero filesystem
type FileSource struct {
	fs   afero.Fs
	path string
}

// NewFileSource checks that path exists on fs and returns a source for it.
// A blank path selects DefaultPath.
func NewFileSource(fs afero.Fs, path string) (*FileSource, error) {
	if strings.TrimSpace(path) == "" {
		path = DefaultPath
	}
	info, err := fs.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrSourceUnavailable, path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrSourceUnavailable, path)
	}
	return &FileSource{fs: fs, path: path}, nil
}

// Name returns the file path
func (f *FileSource) Name() string {
	return f.path
}

// Open opens the file for reading
func (f *FileSource) Open(_ context.Context) (io.ReadCloser, error) {
	file, err := f.fs.Open(f.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", f.path, err)
	}
	return file, nil
}
