//go:build unix

package platform

import (
	"errors"
	"os"
	"syscall"
)

// sourceFlags refuses a symlink in the final element and keeps a FIFO from
// blocking the open.
const sourceFlags = os.O_RDONLY | syscall.O_NOFOLLOW | syscall.O_NONBLOCK

func openSource(root *os.Root, name string) (*os.File, error) {
	f, err := root.OpenFile(name, sourceFlags, 0)
	if err != nil {
		if errors.Is(err, syscall.ELOOP) {
			return nil, ErrSymlink
		}
		return nil, err
	}
	return f, nil
}
