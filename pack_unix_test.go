//go:build unix

package secu

import (
	"os"
	"path/filepath"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/secu/internal/platform"
	"github.com/meigma/secu/internal/testutil"
)

func TestPack_FileReplacedByFIFO(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	testutil.WriteTree(t, src, map[string]string{"a/1.txt": "one", "a/2.txt": "two"})

	// Both files are already listed when a/1.txt is recorded.
	var swapErr error
	_, err := Pack(filepath.Join(t.TempDir(), "out.secu"), src, PackWithProgress(func(e ProgressEvent) {
		if e.Stage != StagePacking || e.Path != "a/1.txt" {
			return
		}
		p := filepath.Join(src, "a", "2.txt")
		if swapErr = os.Remove(p); swapErr == nil {
			swapErr = syscall.Mkfifo(p, 0o600)
		}
	}))
	require.NoError(t, swapErr)
	require.ErrorIs(t, err, ErrSourceChanged)
	require.ErrorIs(t, err, platform.ErrNotRegular)

	var opErr *OpError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, OpOpenSource, opErr.Op)
}
