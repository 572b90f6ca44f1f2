package platform

import (
	"errors"
	"fmt"
	"os"
)

var (
	// ErrSymlink is returned when the final path element is a symbolic link.
	ErrSymlink = errors.New("symbolic link")

	// ErrNotRegular is returned when the opened path is a directory, FIFO,
	// device or socket.
	ErrNotRegular = errors.New("not a regular file")
)

// OpenSource opens name beneath root for streaming into an archive.
//
// The type check runs on the open handle, not on the directory listing, so a
// file replaced by a symlink, FIFO or directory after it was listed is
// refused without being read. Opening a FIFO never waits for a writer.
func OpenSource(root *os.Root, name string) (*os.File, error) {
	f, err := openSource(root, name)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if !info.Mode().IsRegular() {
		f.Close()
		return nil, fmt.Errorf("%w: %s is %v", ErrNotRegular, name, info.Mode().Type())
	}
	return f, nil
}
