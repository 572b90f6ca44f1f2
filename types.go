package secu

import "github.com/meigma/secu/internal/container"

// Re-export format types from internal/container.
type (
	// Header is the fixed record at the start of every archive.
	Header = container.Header

	// Entry is one record of the file table.
	Entry = container.Entry

	// Kind tags an entry as a file or a directory.
	Kind = container.Kind
)

// Re-export format constants.
const (
	// KindFile marks an entry whose content lives in the data table.
	KindFile = container.KindFile

	// KindDirectory marks an entry with no content.
	KindDirectory = container.KindDirectory

	// Magic identifies a secu archive.
	Magic = container.Magic

	// Version is the newest format revision this package reads and writes.
	Version = container.Version

	// HeaderSize is the encoded size of Header in bytes.
	HeaderSize = container.HeaderSize

	// EntrySize is the encoded size of one file table record in bytes.
	EntrySize = container.EntrySize

	// MaxNameLength is the longest entry name an archive can hold.
	MaxNameLength = container.MaxNameLength
)

// InitHeader returns a header for a new archive with no entries.
func InitHeader() Header {
	return container.InitHeader()
}
