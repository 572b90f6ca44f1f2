package secu

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"

	"github.com/meigma/secu/internal/container"
	"github.com/meigma/secu/internal/pathutil"
	"github.com/meigma/secu/internal/platform"
	"github.com/meigma/secu/internal/sizing"
)

// Pack builds an archive of srcDir and stores it at archivePath.
//
// The archive is written to a temporary file in the same directory and
// renamed into place once complete, so a failed Pack never leaves a
// container behind. An existing file at archivePath is replaced.
//
// Pack returns the final header. It fails with ErrEmptySource if srcDir holds
// no files or directories. Failures opening srcDir or creating the archive
// wrap ErrOpenFailed; failures while streaming wrap ErrIO.
func Pack(archivePath, srcDir string, opts ...PackOption) (Header, error) {
	cfg := newPackConfig(opts)

	root, err := os.OpenRoot(srcDir)
	if err != nil {
		return Header{}, opError(OpOpenSource, srcDir, ErrOpenFailed, err)
	}
	defer root.Close()

	tmp, err := os.CreateTemp(filepath.Dir(archivePath), ".secu-*")
	if err != nil {
		return Header{}, opError(OpCreateArchive, archivePath, ErrOpenFailed, err)
	}
	tmpPath := tmp.Name()

	h, err := write(tmp, root, srcDir, cfg)
	if err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return Header{}, err
	}
	//nolint:gosec // archives are ordinary user files
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return Header{}, opError(OpCreateArchive, archivePath, ErrOpenFailed, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return Header{}, opError(OpWriteArchive, archivePath, ErrIO, err)
	}
	if err := os.Rename(tmpPath, archivePath); err != nil {
		os.Remove(tmpPath)
		return Header{}, opError(OpCreateArchive, archivePath, ErrOpenFailed, err)
	}
	return h, nil
}

// Write builds an archive of srcDir into w, starting at offset 0.
//
// If w is an *os.File inside srcDir, that file is left out of the archive.
// On failure the contents of w are undefined and should be discarded.
func Write(w io.WriteSeeker, srcDir string, opts ...PackOption) (Header, error) {
	root, err := os.OpenRoot(srcDir)
	if err != nil {
		return Header{}, opError(OpOpenSource, srcDir, ErrOpenFailed, err)
	}
	defer root.Close()

	return write(w, root, srcDir, newPackConfig(opts))
}

// packer holds state for one archive build.
//
// The archive has two write cursors. slot is the offset of the next unused
// file table record and lives here; the data cursor is the position of w
// itself. Every table write seeks away to slot and then back to the data
// cursor before returning.
type packer struct {
	w      io.WriteSeeker
	root   *os.Root
	srcDir string
	cfg    packConfig
	buf    []byte
	self   fs.FileInfo // the archive file itself, if it is an *os.File

	total   uint64 // entries counted in the sizing pass
	written uint64 // table records written so far
	bytes   uint64 // content bytes written so far
	slot    int64
}

func write(w io.WriteSeeker, root *os.Root, srcDir string, cfg packConfig) (Header, error) {
	p := &packer{
		w:      w,
		root:   root,
		srcDir: srcDir,
		cfg:    cfg,
		buf:    make([]byte, cfg.bufferSize),
	}
	if f, ok := w.(*os.File); ok {
		if info, err := f.Stat(); err == nil {
			p.self = info
		}
	}
	p.log().Info("packing archive", "dir", srcDir)

	p.reportProgress(StageCounting, "")
	count, err := p.count(".", "")
	if err != nil {
		return Header{}, err
	}
	if count == 0 {
		return Header{}, fmt.Errorf("%w: %s", ErrEmptySource, srcDir)
	}
	if p.cfg.maxEntries > 0 && count > p.cfg.maxEntries {
		return Header{}, fmt.Errorf("%w: %d entries, limit %d", ErrTooManyEntries, count, p.cfg.maxEntries)
	}
	if p.cfg.warnEntries > 0 && count > p.cfg.warnEntries {
		p.log().Warn("archive has a very large number of entries", "entries", count, "threshold", p.cfg.warnEntries)
	}

	h := container.InitHeader()
	if h.DataTableOffset, err = container.DataTableOffsetFor(count); err != nil {
		return Header{}, fmt.Errorf("%w: %d entries", ErrTooManyEntries, count)
	}
	dataStart, err := sizing.ToInt64(h.DataTableOffset, ErrTooManyEntries)
	if err != nil {
		return Header{}, err
	}
	p.total = count
	p.slot = int64(h.FileTableOffset)
	p.log().Debug("sized archive", "entries", count, "data_table_offset", h.DataTableOffset)

	// EntryCount stays zero until the walk completes, so an interrupted
	// build never carries a valid header.
	if err := p.writeHeader(h); err != nil {
		return Header{}, err
	}
	if _, err := w.Seek(dataStart, io.SeekStart); err != nil {
		return Header{}, opError(OpWriteArchive, "", ErrIO, err)
	}

	if err := p.walk(".", ""); err != nil {
		return Header{}, err
	}
	if p.written != count {
		return Header{}, fmt.Errorf("%w: counted %d entries, found %d", ErrSourceChanged, count, p.written)
	}

	end, err := w.Seek(0, io.SeekCurrent)
	if err != nil {
		return Header{}, opError(OpWriteArchive, "", ErrIO, err)
	}
	h.EntryCount = p.written
	if err := p.writeHeader(h); err != nil {
		return Header{}, err
	}
	if _, err := w.Seek(end, io.SeekStart); err != nil {
		return Header{}, opError(OpWriteArchive, "", ErrIO, err)
	}

	p.log().Info("archive packed", "entries", h.EntryCount, "data_bytes", p.bytes)
	return h, nil
}

// count returns the number of entries beneath dir, transitively, and
// rejects names that will not fit in a table record.
func (p *packer) count(dir, rel string) (uint64, error) {
	ents, err := fs.ReadDir(p.root.FS(), dir)
	if err != nil {
		return 0, opError(OpOpenSource, p.sourcePath(dir), ErrOpenFailed, err)
	}

	var n uint64
	for _, d := range ents {
		kind, ok, err := p.classify(dir, d)
		if err != nil {
			return 0, err
		}
		if !ok {
			continue
		}
		name := pathutil.EntryName(rel, d.Name(), kind == KindDirectory)
		if len(name) > container.MaxNameLength {
			return 0, fmt.Errorf("%w: %s is %d bytes, limit %d", ErrNameTooLong, name, len(name), container.MaxNameLength)
		}
		n++
		if kind == KindDirectory {
			sub, err := p.count(path.Join(dir, d.Name()), name)
			if err != nil {
				return 0, err
			}
			n += sub
		}
	}
	return n, nil
}

// walk writes every entry beneath dir. Directory records are written before
// their children; file records are written after their content.
func (p *packer) walk(dir, rel string) error {
	ents, err := fs.ReadDir(p.root.FS(), dir)
	if err != nil {
		return opError(OpOpenSource, p.sourcePath(dir), ErrOpenFailed, err)
	}

	for _, d := range ents {
		kind, ok, err := p.classify(dir, d)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		if p.written >= p.total {
			return fmt.Errorf("%w: more than %d entries", ErrSourceChanged, p.total)
		}

		child := path.Join(dir, d.Name())
		switch kind {
		case KindDirectory:
			name := pathutil.EntryName(rel, d.Name(), true)
			resume, err := p.tell()
			if err != nil {
				return err
			}
			if err := p.patch(Entry{Name: name, Kind: KindDirectory}, resume); err != nil {
				return err
			}
			if err := p.walk(child, name); err != nil {
				return err
			}
		case KindFile:
			name := pathutil.EntryName(rel, d.Name(), false)
			offset, err := p.tell()
			if err != nil {
				return err
			}
			size, err := p.copyFile(child)
			if err != nil {
				return err
			}
			end, ok := sizing.AddUint64(offset, size)
			if !ok {
				return opError(OpWriteArchive, name, ErrIO, errors.New("archive offset overflow"))
			}
			if err := p.patch(Entry{Name: name, Kind: KindFile, Offset: offset, Size: size}, end); err != nil {
				return err
			}
		}
	}
	return nil
}

// classify reports whether d belongs in the archive and as which kind.
// Symlinks, devices, sockets and the archive file itself are skipped.
func (p *packer) classify(dir string, d fs.DirEntry) (Kind, bool, error) {
	t := d.Type()
	switch {
	case t.IsDir():
		return KindDirectory, true, nil
	case t.IsRegular():
		if p.self != nil {
			info, err := d.Info()
			if err != nil {
				return 0, false, opError(OpOpenSource, p.sourcePath(path.Join(dir, d.Name())), ErrOpenFailed, err)
			}
			if os.SameFile(info, p.self) {
				p.log().Debug("skipped archive output", "path", path.Join(dir, d.Name()))
				return 0, false, nil
			}
		}
		return KindFile, true, nil
	default:
		p.log().Debug("skipped non-regular entry", "path", path.Join(dir, d.Name()), "type", t.String())
		return 0, false, nil
	}
}

// copyFile streams the named source file to the data cursor and returns
// the number of bytes written.
func (p *packer) copyFile(name string) (uint64, error) {
	f, err := platform.OpenSource(p.root, filepath.FromSlash(name))
	switch {
	case errors.Is(err, platform.ErrSymlink), errors.Is(err, platform.ErrNotRegular):
		// Listed as a regular file, something else by the time it was opened.
		return 0, opError(OpOpenSource, p.sourcePath(name), ErrSourceChanged, err)
	case err != nil:
		return 0, opError(OpOpenSource, p.sourcePath(name), ErrOpenFailed, err)
	}
	defer f.Close()

	var n uint64
	for {
		r, rerr := f.Read(p.buf)
		if r > 0 {
			if _, err := p.w.Write(p.buf[:r]); err != nil {
				return n, opError(OpWriteArchive, name, ErrIO, err)
			}
			n += uint64(r)
			p.bytes += uint64(r)
		}
		if rerr == io.EOF {
			return n, nil
		}
		if rerr != nil {
			return n, opError(OpReadSource, p.sourcePath(name), ErrIO, rerr)
		}
	}
}

// patch writes e into the next table slot and moves the data cursor to
// resume.
func (p *packer) patch(e Entry, resume uint64) error {
	rec, err := e.MarshalBinary()
	if err != nil {
		return err
	}
	pos, err := sizing.ToInt64(resume, ErrIO)
	if err != nil {
		return opError(OpWriteArchive, e.Name, ErrIO, err)
	}

	if _, err := p.w.Seek(p.slot, io.SeekStart); err != nil {
		return opError(OpWriteArchive, e.Name, ErrIO, err)
	}
	if _, err := p.w.Write(rec); err != nil {
		return opError(OpWriteArchive, e.Name, ErrIO, err)
	}
	p.slot += container.EntrySize
	p.written++
	if _, err := p.w.Seek(pos, io.SeekStart); err != nil {
		return opError(OpWriteArchive, e.Name, ErrIO, err)
	}

	p.log().Debug("wrote entry", "name", e.Name, "kind", e.Kind.String(), "offset", e.Offset, "size", e.Size)
	p.reportProgress(StagePacking, e.Name)
	return nil
}

// tell returns the data cursor.
func (p *packer) tell() (uint64, error) {
	pos, err := p.w.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, opError(OpWriteArchive, "", ErrIO, err)
	}
	return sizing.ToUint64(pos, ErrIO)
}

func (p *packer) writeHeader(h Header) error {
	buf, err := h.MarshalBinary()
	if err != nil {
		return err
	}
	if _, err := p.w.Seek(0, io.SeekStart); err != nil {
		return opError(OpWriteArchive, "", ErrIO, err)
	}
	if _, err := p.w.Write(buf); err != nil {
		return opError(OpWriteArchive, "", ErrIO, err)
	}
	return nil
}

func (p *packer) sourcePath(name string) string {
	return filepath.Join(p.srcDir, filepath.FromSlash(name))
}

// reportProgress sends a progress event if a callback is configured.
func (p *packer) reportProgress(stage ProgressStage, name string) {
	if p.cfg.progress == nil {
		return
	}
	p.cfg.progress(ProgressEvent{
		Stage:        stage,
		Path:         name,
		EntriesDone:  p.written,
		EntriesTotal: p.total,
		BytesDone:    p.bytes,
	})
}

// log returns the logger, falling back to a discard logger if nil.
func (p *packer) log() *slog.Logger {
	if p.cfg.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return p.cfg.logger
}
