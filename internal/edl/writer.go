package edl

import (
	"io"
	"os"

	"github.com/spf13/afero"
)

// Writer appends markers to one list file. It holds no open handle between
// calls, so whatever is on disk is always a complete list.
// A Writer does not serialize its callers; the owner does.
type Writer struct {
	fs   afero.Fs
	path string
}

// Create creates (or truncates) path on fs and writes the list header.
func Create(fs afero.Fs, path, title string) (*Writer, error) {
	if fs == nil {
		fs = afero.NewOsFs()
	}

	f, err := fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return nil, &FileError{Op: "create", Path: path, Err: err}
	}
	if err := writeAndClose(f, FormatHeader(title)); err != nil {
		return nil, &FileError{Op: "create", Path: path, Err: err}
	}

	return &Writer{fs: fs, path: path}, nil
}

// AppendMarker appends the marker block for m in a single write.
func (w *Writer) AppendMarker(m Marker) error {
	f, err := w.fs.OpenFile(w.path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return &FileError{Op: "append", Path: w.path, Err: err}
	}
	if err := writeAndClose(f, FormatMarker(m)); err != nil {
		return &FileError{Op: "append", Path: w.path, Err: err}
	}
	return nil
}

// Path returns the list file path.
func (w *Writer) Path() string {
	return w.path
}

func writeAndClose(f afero.File, s string) error {
	_, err := io.WriteString(f, s)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}
