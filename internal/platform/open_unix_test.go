//go:build unix

package platform

import (
	"path/filepath"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestOpenSource_FIFODoesNotBlock(t *testing.T) {
	t.Parallel()

	root, dir := openRoot(t)
	require.NoError(t, syscall.Mkfifo(filepath.Join(dir, "pipe"), 0o600))

	done := make(chan error, 1)
	go func() {
		f, err := OpenSource(root, "pipe")
		if f != nil {
			f.Close()
		}
		done <- err
	}()

	select {
	case err := <-done:
		require.ErrorIs(t, err, ErrNotRegular)
	case <-time.After(5 * time.Second):
		t.Fatal("opening a FIFO with no writer blocked")
	}
}
