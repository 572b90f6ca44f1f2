package secu

import (
	"errors"
	"fmt"

	"github.com/meigma/secu/internal/container"
)

// Sentinel errors re-exported from internal/container.
var (
	// ErrInvalidFormat is returned when an archive's header or file table is
	// malformed, including a bad magic signature.
	ErrInvalidFormat = container.ErrInvalidFormat

	// ErrNameTooLong is returned when a relative path exceeds MaxNameLength.
	ErrNameTooLong = container.ErrNameTooLong
)

var (
	// ErrOpenFailed is returned when an archive, source, or destination path
	// cannot be opened or created.
	ErrOpenFailed = errors.New("secu: open failed")

	// ErrEmptySource is returned when the source tree holds nothing to archive.
	ErrEmptySource = errors.New("secu: empty source")

	// ErrIO is returned when a read or write fails or comes up short while
	// streaming content.
	ErrIO = errors.New("secu: i/o failure")

	// ErrTooManyEntries is returned when the entry count exceeds PackWithMaxEntries.
	ErrTooManyEntries = errors.New("secu: too many entries")

	// ErrSourceChanged is returned when the source tree changes between the
	// counting pass and the write pass.
	ErrSourceChanged = errors.New("secu: source changed during pack")

	// ErrIsDir is returned when file content is requested for a directory
	// entry.
	ErrIsDir = errors.New("secu: entry is a directory")
)

// Op names the step that failed in an OpError.
type Op string

const (
	// OpCreateArchive is creating or renaming the archive file.
	OpCreateArchive Op = "create archive"

	// OpOpenSource is opening a directory or file in the source tree.
	OpOpenSource Op = "open source"

	// OpReadSource is reading a source file's content.
	OpReadSource Op = "read source"

	// OpWriteArchive is writing or seeking within the archive.
	OpWriteArchive Op = "write archive"

	// OpOpenArchive is opening an existing archive.
	OpOpenArchive Op = "open archive"

	// OpReadArchive is reading the header, file table or content.
	OpReadArchive Op = "read archive"

	// OpCreateDir is creating a directory under the destination.
	OpCreateDir Op = "create directory"

	// OpWriteFile is creating or writing a destination file.
	OpWriteFile Op = "write file"
)

// OpError records a failed step and the path it failed on.
//
// Err wraps one of the package sentinels, so errors.Is(err, ErrOpenFailed)
// and friends work through an OpError.
type OpError struct {
	Op   Op
	Path string
	Err  error
}

func (e *OpError) Error() string {
	if e.Path == "" {
		return string(e.Op) + ": " + e.Err.Error()
	}
	return string(e.Op) + " " + e.Path + ": " + e.Err.Error()
}

func (e *OpError) Unwrap() error {
	return e.Err
}

// opError wraps cause with kind so both are visible to errors.Is.
func opError(op Op, path string, kind, cause error) *OpError {
	switch {
	case cause == nil:
		cause = kind
	case !errors.Is(cause, kind):
		cause = fmt.Errorf("%w: %w", kind, cause)
	}
	return &OpError{Op: op, Path: path, Err: cause}
}
