package secu

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/opencontainers/go-digest"

	"github.com/meigma/secu/internal/container"
	"github.com/meigma/secu/internal/sizing"
)

// Reader provides random access to an archive's header and file table.
//
// Reader reads through io.ReaderAt and never moves a shared file position,
// so listing entries and reading their content can be interleaved freely.
type Reader struct {
	src    io.ReaderAt
	size   int64
	header Header
	closer io.Closer
}

// Open opens the archive at path and validates its header.
//
// It fails with ErrOpenFailed if the path cannot be opened and with
// ErrInvalidFormat if the header is malformed. The returned Reader must be
// closed to release the file handle.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path) //nolint:gosec // User-provided path is intentional
	if err != nil {
		return nil, opError(OpOpenArchive, path, ErrOpenFailed, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, opError(OpOpenArchive, path, ErrOpenFailed, err)
	}
	if !info.Mode().IsRegular() {
		f.Close()
		return nil, opError(OpOpenArchive, path, ErrOpenFailed, errors.New("not a regular file"))
	}

	r, err := NewReader(f, info.Size())
	if err != nil {
		f.Close()
		var opErr *OpError
		if errors.As(err, &opErr) {
			opErr.Path = path
			return nil, opErr
		}
		return nil, opError(OpReadArchive, path, ErrInvalidFormat, err)
	}
	r.closer = f
	return r, nil
}

// NewReader returns a Reader for an archive of the given size held in src.
func NewReader(src io.ReaderAt, size int64) (*Reader, error) {
	h, err := ReadHeader(io.NewSectionReader(src, 0, size))
	if err != nil {
		return nil, err
	}
	dataStart, err := sizing.ToInt64(h.DataTableOffset, ErrInvalidFormat)
	if err != nil {
		return nil, opError(OpReadArchive, "", ErrInvalidFormat, err)
	}
	if dataStart > size {
		return nil, opError(OpReadArchive, "", ErrInvalidFormat,
			fmt.Errorf("file table ends at %d past archive end %d", dataStart, size))
	}
	return &Reader{src: src, size: size, header: h}, nil
}

// ReadHeader reads and validates a header from the start of r.
//
// A short read or a header that fails validation, including a bad magic
// signature, wraps ErrInvalidFormat.
func ReadHeader(r io.Reader) (Header, error) {
	buf := make([]byte, container.HeaderSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return Header{}, opError(OpReadArchive, "", ErrInvalidFormat, fmt.Errorf("truncated header: %w", err))
		}
		return Header{}, opError(OpReadArchive, "", ErrIO, err)
	}
	var h Header
	if err := h.UnmarshalBinary(buf); err != nil {
		return Header{}, opError(OpReadArchive, "", ErrInvalidFormat, err)
	}
	if err := h.Validate(); err != nil {
		return Header{}, opError(OpReadArchive, "", ErrInvalidFormat, err)
	}
	return h, nil
}

// Header returns the archive header.
func (r *Reader) Header() Header {
	return r.header
}

// Size returns the archive length in bytes.
func (r *Reader) Size() int64 {
	return r.size
}

// Len returns the number of entries in the file table.
func (r *Reader) Len() uint64 {
	return r.header.EntryCount
}

// Entries reads the whole file table in table order.
//
// Each entry's ID is its table index. File entries whose content does not
// lie inside the data table fail with ErrInvalidFormat.
func (r *Reader) Entries() ([]Entry, error) {
	h := r.header
	tableStart, err := sizing.ToInt64(h.FileTableOffset, ErrInvalidFormat)
	if err != nil {
		return nil, opError(OpReadArchive, "", ErrInvalidFormat, err)
	}
	tableLen, err := sizing.ToInt64(h.DataTableOffset-h.FileTableOffset, ErrInvalidFormat)
	if err != nil {
		return nil, opError(OpReadArchive, "", ErrInvalidFormat, err)
	}

	table := bufio.NewReaderSize(io.NewSectionReader(r.src, tableStart, tableLen), 64*1024)
	entries := make([]Entry, h.EntryCount)
	rec := make([]byte, container.EntrySize)
	for i := range entries {
		if _, err := io.ReadFull(table, rec); err != nil {
			return nil, opError(OpReadArchive, "", ErrIO, fmt.Errorf("entry %d: %w", i, err))
		}
		e := &entries[i]
		if err := e.UnmarshalBinary(rec); err != nil {
			return nil, opError(OpReadArchive, "", ErrInvalidFormat, fmt.Errorf("entry %d: %w", i, err))
		}
		e.ID = uint64(i)
		if err := r.checkBounds(e); err != nil {
			return nil, err
		}
	}
	return entries, nil
}

// checkBounds verifies a file entry's content lies in the data table.
func (r *Reader) checkBounds(e *Entry) error {
	if e.IsDir() {
		return nil
	}
	end, ok := e.End()
	if !ok || e.Offset < r.header.DataTableOffset || end > uint64(r.size) { //nolint:gosec // size is non-negative
		return opError(OpReadArchive, e.Name, ErrInvalidFormat,
			fmt.Errorf("content [%d, +%d) outside data table [%d, %d)", e.Offset, e.Size, r.header.DataTableOffset, r.size))
	}
	return nil
}

// EntryReader returns a reader over a file entry's content.
func (r *Reader) EntryReader(e Entry) (*io.SectionReader, error) {
	if e.IsDir() {
		return nil, opError(OpReadArchive, e.Name, ErrIsDir, nil)
	}
	if err := r.checkBounds(&e); err != nil {
		return nil, err
	}
	// checkBounds keeps both values below r.size.
	return io.NewSectionReader(r.src, int64(e.Offset), int64(e.Size)), nil //nolint:gosec // bounded above
}

// Digest returns the sha256 digest of the whole archive.
func (r *Reader) Digest() (digest.Digest, error) {
	d, err := digest.Canonical.FromReader(io.NewSectionReader(r.src, 0, r.size))
	if err != nil {
		return "", opError(OpReadArchive, "", ErrIO, err)
	}
	return d, nil
}

// Close releases the underlying file if the Reader was created by Open.
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}
