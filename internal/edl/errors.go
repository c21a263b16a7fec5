package edl

import "errors"

var (
	// ErrFileCreate is matched by failures creating the list or writing its header.
	ErrFileCreate = errors.New("edl: cannot create file")

	// ErrIO is matched by failures appending a marker.
	ErrIO = errors.New("edl: write failed")
)

// FileError records the operation and path of a failed write.
type FileError struct {
	Op   string
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return "edl " + e.Op + " " + e.Path + ": " + e.Err.Error()
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// Is reports ErrFileCreate for create failures and ErrIO for append failures.
func (e *FileError) Is(target error) bool {
	switch target {
	case ErrFileCreate:
		return e.Op == "create"
	case ErrIO:
		return e.Op == "append"
	}
	return false
}
