package secu

import (
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/meigma/secu/internal/fsutil"
	"github.com/meigma/secu/internal/pathutil"
)

// ExtractStats reports what an extraction wrote.
type ExtractStats struct {
	// Dirs is the number of directory entries materialized.
	Dirs int

	// Files is the number of files written.
	Files int

	// Bytes is the total content written.
	Bytes uint64
}

// Unpack extracts the archive at archivePath into destDir.
//
// It fails with ErrOpenFailed if the archive cannot be opened and with
// ErrInvalidFormat if it is malformed; in both cases nothing is written.
func Unpack(archivePath, destDir string, opts ...ExtractOption) (ExtractStats, error) {
	r, err := Open(archivePath)
	if err != nil {
		return ExtractStats{}, err
	}
	defer r.Close()

	return r.Extract(destDir, opts...)
}

// Extract reconstructs the archived tree beneath destDir, creating destDir
// if needed.
//
// Extraction runs in two passes over the file table: every directory entry
// is created first, then every file entry is written. Existing directories
// are reused and existing files are truncated and overwritten, so extracting
// the same archive twice gives the same result.
//
// The whole table is read and every name validated before anything is
// written. Names that would escape destDir fail with ErrInvalidFormat
// wrapping an *fs.PathError. Any failure while writing is fatal: a file that
// cannot be created wraps ErrOpenFailed, and a short read or failed write
// wraps ErrIO.
func (r *Reader) Extract(destDir string, opts ...ExtractOption) (ExtractStats, error) {
	x := &extractor{
		r:       r,
		cfg:     newExtractConfig(opts),
		destDir: destDir,
	}
	x.buf = make([]byte, x.cfg.bufferSize)
	return x.run()
}

// extractor holds state for one extraction.
type extractor struct {
	r       *Reader
	cfg     extractConfig
	destDir string
	buf     []byte
	stats   ExtractStats
	total   uint64
	done    uint64
}

func (x *extractor) run() (ExtractStats, error) {
	entries, err := x.r.Entries()
	if err != nil {
		return x.stats, err
	}
	for _, e := range entries {
		if !pathutil.Valid(e.Name) {
			return x.stats, opError(OpReadArchive, e.Name, ErrInvalidFormat,
				&fs.PathError{Op: "extract", Path: e.Name, Err: fs.ErrInvalid})
		}
	}
	x.total = uint64(len(entries))
	x.log().Info("extracting archive", "dest", x.destDir, "entries", x.total)

	if err := os.MkdirAll(x.destDir, 0o750); err != nil {
		return x.stats, opError(OpCreateDir, x.destDir, ErrOpenFailed, err)
	}
	root, err := os.OpenRoot(x.destDir)
	if err != nil {
		return x.stats, opError(OpCreateDir, x.destDir, ErrOpenFailed, err)
	}
	defer root.Close()

	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if err := fsutil.MkdirAll(root, e.Name, 0o750); err != nil {
			return x.stats, opError(OpCreateDir, x.destPath(e), ErrIO, err)
		}
		x.stats.Dirs++
		x.done++
		x.log().Debug("created directory", "name", e.Name)
		x.reportProgress(StageCreatingDirs, e.Name)
	}

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if err := x.extractFile(root, e); err != nil {
			return x.stats, err
		}
		x.stats.Files++
		x.stats.Bytes += e.Size
		x.done++
		x.log().Debug("extracted file", "name", e.Name, "size", e.Size)
		x.reportProgress(StageExtracting, e.Name)
	}

	x.log().Info("archive extracted", "dirs", x.stats.Dirs, "files", x.stats.Files, "bytes", x.stats.Bytes)
	return x.stats, nil
}

// extractFile copies exactly e.Size bytes of content into the destination.
func (x *extractor) extractFile(root *os.Root, e Entry) error {
	src, err := x.r.EntryReader(e)
	if err != nil {
		return err
	}

	//nolint:gosec // extracted files are ordinary user files
	dst, err := root.OpenFile(filepath.FromSlash(e.Name), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return opError(OpWriteFile, x.destPath(e), ErrOpenFailed, err)
	}

	remaining := e.Size
	for remaining > 0 {
		chunk := x.buf[:min(uint64(len(x.buf)), remaining)]
		if _, err := io.ReadFull(src, chunk); err != nil {
			dst.Close()
			return opError(OpReadArchive, e.Name, ErrIO, fmt.Errorf("short read with %d bytes left: %w", remaining, err))
		}
		if _, err := dst.Write(chunk); err != nil {
			dst.Close()
			return opError(OpWriteFile, x.destPath(e), ErrIO, err)
		}
		remaining -= uint64(len(chunk))
	}

	if err := dst.Close(); err != nil {
		return opError(OpWriteFile, x.destPath(e), ErrIO, err)
	}
	return nil
}

func (x *extractor) destPath(e Entry) string {
	return filepath.Join(x.destDir, filepath.FromSlash(e.Path()))
}

// reportProgress sends a progress event if a callback is configured.
func (x *extractor) reportProgress(stage ProgressStage, name string) {
	if x.cfg.progress == nil {
		return
	}
	x.cfg.progress(ProgressEvent{
		Stage:        stage,
		Path:         name,
		EntriesDone:  x.done,
		EntriesTotal: x.total,
		BytesDone:    x.stats.Bytes,
	})
}

// log returns the logger, falling back to a discard logger if nil.
func (x *extractor) log() *slog.Logger {
	if x.cfg.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return x.cfg.logger
}
