package container

import "errors"

var (
	// ErrInvalidFormat is returned when bytes do not describe a valid archive.
	ErrInvalidFormat = errors.New("secu: invalid archive format")

	// ErrNameTooLong is returned when an entry name does not fit in a record.
	ErrNameTooLong = errors.New("secu: entry name too long")
)
