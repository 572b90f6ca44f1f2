package container

import (
	"encoding/binary"
	"fmt"
	"math/bits"
)

const (
	// Magic identifies a secu archive.
	Magic = "SECU"

	// Version is the newest format revision this package reads and writes.
	Version uint32 = 1

	// HeaderSize is the encoded size of Header.
	HeaderSize = 32
)

// Header is the fixed record at the start of every archive.
type Header struct {
	Magic           [4]byte
	Version         uint32
	EntryCount      uint64
	FileTableOffset uint64
	DataTableOffset uint64
}

// InitHeader returns a header for a new archive. DataTableOffset stays zero
// until the entry count is known.
func InitHeader() Header {
	var h Header
	copy(h.Magic[:], Magic)
	h.Version = Version
	h.FileTableOffset = HeaderSize
	return h
}

// DataTableOffsetFor returns the offset where file contents begin in an
// archive holding count entries.
func DataTableOffsetFor(count uint64) (uint64, error) {
	hi, table := bits.Mul64(count, EntrySize)
	if hi != 0 {
		return 0, fmt.Errorf("%w: entry count %d overflows file table", ErrInvalidFormat, count)
	}
	off, carry := bits.Add64(table, HeaderSize, 0)
	if carry != 0 {
		return 0, fmt.Errorf("%w: entry count %d overflows file table", ErrInvalidFormat, count)
	}
	return off, nil
}

// MarshalBinary encodes h into HeaderSize bytes.
func (h Header) MarshalBinary() ([]byte, error) {
	buf := make([]byte, HeaderSize)
	copy(buf[0:4], h.Magic[:])
	binary.LittleEndian.PutUint32(buf[4:8], h.Version)
	binary.LittleEndian.PutUint64(buf[8:16], h.EntryCount)
	binary.LittleEndian.PutUint64(buf[16:24], h.FileTableOffset)
	binary.LittleEndian.PutUint64(buf[24:32], h.DataTableOffset)
	return buf, nil
}

// UnmarshalBinary decodes a header. It checks only the length; call
// Validate to check the contents.
func (h *Header) UnmarshalBinary(data []byte) error {
	if len(data) != HeaderSize {
		return fmt.Errorf("%w: header is %d bytes, want %d", ErrInvalidFormat, len(data), HeaderSize)
	}
	copy(h.Magic[:], data[0:4])
	h.Version = binary.LittleEndian.Uint32(data[4:8])
	h.EntryCount = binary.LittleEndian.Uint64(data[8:16])
	h.FileTableOffset = binary.LittleEndian.Uint64(data[16:24])
	h.DataTableOffset = binary.LittleEndian.Uint64(data[24:32])
	return nil
}

// Validate reports whether h describes a readable archive.
func (h Header) Validate() error {
	if string(h.Magic[:]) != Magic {
		return fmt.Errorf("%w: bad magic %q", ErrInvalidFormat, h.Magic[:])
	}
	if h.Version == 0 || h.Version > Version {
		return fmt.Errorf("%w: unsupported version %d", ErrInvalidFormat, h.Version)
	}
	if h.FileTableOffset != HeaderSize {
		return fmt.Errorf("%w: file table offset %d, want %d", ErrInvalidFormat, h.FileTableOffset, HeaderSize)
	}
	want, err := DataTableOffsetFor(h.EntryCount)
	if err != nil {
		return err
	}
	if h.DataTableOffset != want {
		return fmt.Errorf("%w: data table offset %d, want %d for %d entries",
			ErrInvalidFormat, h.DataTableOffset, want, h.EntryCount)
	}
	return nil
}
