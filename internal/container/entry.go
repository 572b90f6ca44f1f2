package container

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"
)

const (
	// NameSize is the width of the NUL-padded name field.
	NameSize = 512

	// MaxNameLength is the longest name that still leaves room for the
	// terminating NUL.
	MaxNameLength = NameSize - 1

	// EntrySize is the encoded size of Entry.
	EntrySize = NameSize + 8 + 8 + 1
)

// Kind tags an entry as a file or a directory.
type Kind uint8

const (
	// KindFile marks an entry whose content lives in the data table.
	KindFile Kind = 0

	// KindDirectory marks an entry with no content. Its name ends in "/".
	KindDirectory Kind = 1
)

// String returns the human-readable name of the kind.
func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindDirectory:
		return "dir"
	default:
		return "unknown"
	}
}

// Entry is one record of the file table.
type Entry struct {
	// ID is the entry's position in the file table. It is not stored on
	// disk; readers fill it in.
	ID uint64

	// Name is the slash-separated path relative to the archive root.
	// Directory names end in "/".
	Name string

	// Kind tells files and directories apart.
	Kind Kind

	// Offset is the absolute archive offset of the file's content.
	// Always zero for directories.
	Offset uint64

	// Size is the content length in bytes. Always zero for directories.
	Size uint64
}

// IsDir reports whether e describes a directory.
func (e Entry) IsDir() bool {
	return e.Kind == KindDirectory
}

// Path returns Name without the directory separator suffix.
func (e Entry) Path() string {
	return strings.TrimSuffix(e.Name, "/")
}

// End returns the offset just past the entry's content.
func (e Entry) End() (uint64, bool) {
	end := e.Offset + e.Size
	return end, end >= e.Offset
}

// MarshalBinary encodes e into EntrySize bytes.
func (e Entry) MarshalBinary() ([]byte, error) {
	if err := e.check(); err != nil {
		return nil, err
	}
	buf := make([]byte, EntrySize)
	copy(buf[:NameSize], e.Name)
	binary.LittleEndian.PutUint64(buf[NameSize:NameSize+8], e.Offset)
	binary.LittleEndian.PutUint64(buf[NameSize+8:NameSize+16], e.Size)
	buf[NameSize+16] = byte(e.Kind)
	return buf, nil
}

// UnmarshalBinary decodes and validates a record. ID is left untouched.
func (e *Entry) UnmarshalBinary(data []byte) error {
	if len(data) != EntrySize {
		return fmt.Errorf("%w: entry is %d bytes, want %d", ErrInvalidFormat, len(data), EntrySize)
	}
	n := bytes.IndexByte(data[:NameSize], 0)
	if n < 0 {
		return fmt.Errorf("%w: entry name is not terminated", ErrInvalidFormat)
	}
	e.Name = string(data[:n])
	e.Offset = binary.LittleEndian.Uint64(data[NameSize : NameSize+8])
	e.Size = binary.LittleEndian.Uint64(data[NameSize+8 : NameSize+16])
	e.Kind = Kind(data[NameSize+16])
	return e.check()
}

func (e Entry) check() error {
	if len(e.Name) > MaxNameLength {
		return fmt.Errorf("%w: %q is %d bytes, limit %d", ErrNameTooLong, e.Name, len(e.Name), MaxNameLength)
	}
	if e.Name == "" || e.Name == "/" {
		return fmt.Errorf("%w: empty entry name", ErrInvalidFormat)
	}
	if strings.IndexByte(e.Name, 0) >= 0 {
		return fmt.Errorf("%w: entry name %q contains NUL", ErrInvalidFormat, e.Name)
	}
	switch e.Kind {
	case KindFile:
		if strings.HasSuffix(e.Name, "/") {
			return fmt.Errorf("%w: file entry %q has a directory name", ErrInvalidFormat, e.Name)
		}
	case KindDirectory:
		if !strings.HasSuffix(e.Name, "/") {
			return fmt.Errorf("%w: directory entry %q lacks trailing separator", ErrInvalidFormat, e.Name)
		}
		if e.Offset != 0 || e.Size != 0 {
			return fmt.Errorf("%w: directory entry %q has content", ErrInvalidFormat, e.Name)
		}
	default:
		return fmt.Errorf("%w: entry %q has unknown kind %d", ErrInvalidFormat, e.Name, e.Kind)
	}
	return nil
}
