package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/secu/internal/testutil"
)

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestPackUnpackRoundTrip(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	testutil.WriteTree(t, src, map[string]string{
		"a.txt":     "hi",
		"sub/b.txt": "",
		"empty/":    "",
	})
	archive := filepath.Join(t.TempDir(), "out.secu")

	code, stdout, stderr := runCLI(t, "pack", src, archive)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "packed 4 entries")

	dest := filepath.Join(t.TempDir(), "restore")
	code, stdout, stderr = runCLI(t, "unpack", archive, dest)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "extracted 2 directories and 2 files")

	assert.Equal(t, testutil.ReadTree(t, src), testutil.ReadTree(t, dest))
}

func TestList(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	testutil.WriteTree(t, src, map[string]string{"a.txt": "hi", "sub/": ""})
	archive := filepath.Join(t.TempDir(), "out.secu")
	code, _, stderr := runCLI(t, "pack", src, archive)
	require.Equal(t, 0, code, stderr)

	code, stdout, stderr := runCLI(t, "list", archive)
	require.Equal(t, 0, code, stderr)
	lines := bytes.Split(bytes.TrimSpace([]byte(stdout)), []byte("\n"))
	require.Len(t, lines, 3)
	assert.Contains(t, string(lines[0]), "KIND")
	assert.Regexp(t, `^file\s+2B\s+a\.txt$`, string(lines[1]))
	assert.Regexp(t, `^dir\s+-\s+sub/$`, string(lines[2]))
}

func TestInspect(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	testutil.WriteTree(t, src, map[string]string{"a.txt": "hi", "sub/b.txt": "bye"})
	archive := filepath.Join(t.TempDir(), "out.secu")
	code, _, stderr := runCLI(t, "pack", src, archive)
	require.Equal(t, 0, code, stderr)

	code, stdout, stderr := runCLI(t, "inspect", archive)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "SECU")
	assert.Contains(t, stdout, "3 (1 directories, 2 files)")
	assert.Contains(t, stdout, "digest:")
	assert.Contains(t, stdout, "sha256:")
}

func TestPackExitStatus(t *testing.T) {
	t.Parallel()

	populated := t.TempDir()
	testutil.WriteTree(t, populated, map[string]string{"a.txt": "a"})

	tests := []struct {
		name    string
		src     string
		archive string
		want    int
	}{
		{"empty source", t.TempDir(), filepath.Join(t.TempDir(), "out.secu"), statusEmptySource},
		{"missing source", filepath.Join(t.TempDir(), "missing"), filepath.Join(t.TempDir(), "out.secu"), statusSourceOpen},
		{"archive dir missing", populated, filepath.Join(t.TempDir(), "nope", "out.secu"), statusArchiveOpen},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			code, _, stderr := runCLI(t, "pack", tt.src, tt.archive)
			assert.Equal(t, tt.want, code)
			assert.Contains(t, stderr, "secu: ")
		})
	}
}

func TestUnpackExitStatus(t *testing.T) {
	t.Parallel()

	garbage := filepath.Join(t.TempDir(), "garbage.secu")
	require.NoError(t, os.WriteFile(garbage, []byte("definitely not an archive, just text"), 0o600))

	src := t.TempDir()
	testutil.WriteTree(t, src, map[string]string{"sub/b.txt": "b"})
	valid := filepath.Join(t.TempDir(), "out.secu")
	code, _, stderr := runCLI(t, "pack", src, valid)
	require.Equal(t, 0, code, stderr)

	blocked := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(blocked, "sub"), []byte("in the way"), 0o600))

	tests := []struct {
		name    string
		archive string
		dest    string
		want    int
	}{
		{"missing archive", filepath.Join(t.TempDir(), "missing.secu"), t.TempDir(), statusArchiveOpen},
		{"invalid format", garbage, t.TempDir(), statusBadFormat},
		{"destination blocked", valid, blocked, statusWriteFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			code, _, _ := runCLI(t, "unpack", tt.archive, tt.dest)
			assert.Equal(t, tt.want, code)
		})
	}
}

func TestUsageErrors(t *testing.T) {
	t.Parallel()

	code, _, stderr := runCLI(t, "pack", "only-one-arg")
	assert.Equal(t, statusFailure, code)
	assert.Contains(t, stderr, "accepts 2 arg(s)")

	code, _, _ = runCLI(t, "frobnicate")
	assert.Equal(t, statusFailure, code)
}

func TestVerboseLogsEntries(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	testutil.WriteTree(t, src, map[string]string{"a.txt": "hi"})
	archive := filepath.Join(t.TempDir(), "out.secu")

	code, _, stderr := runCLI(t, "--verbose", "pack", src, archive)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stderr, "a.txt")
}
