package main

import (
	"errors"

	"github.com/meigma/secu"
)

// Exit statuses. The meaning of 2 through 5 depends on the subcommand.
const (
	statusOK           = 0
	statusFailure      = 1
	statusArchiveOpen  = 2 // pack: archive could not be created; others: could not be opened
	statusSourceOpen   = 3 // pack only
	statusBadFormat    = 3 // unpack, list, inspect
	statusWriteFailure = 4
	statusEmptySource  = 5
)

// statusError carries the exit status a command failed with.
type statusError struct {
	status int
	err    error
}

func (e *statusError) Error() string { return e.err.Error() }
func (e *statusError) Unwrap() error { return e.err }

// exitStatus maps an error returned by the root command to an exit status.
// Errors without an attached status, such as usage errors, map to 1.
func exitStatus(err error) int {
	if err == nil {
		return statusOK
	}
	var se *statusError
	if errors.As(err, &se) {
		return se.status
	}
	return statusFailure
}

func withStatus(status int, err error) error {
	if err == nil {
		return nil
	}
	return &statusError{status: status, err: err}
}

func opOf(err error) secu.Op {
	var opErr *secu.OpError
	if errors.As(err, &opErr) {
		return opErr.Op
	}
	return ""
}

func packStatus(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, secu.ErrEmptySource):
		return withStatus(statusEmptySource, err)
	case opOf(err) == secu.OpCreateArchive:
		return withStatus(statusArchiveOpen, err)
	case opOf(err) == secu.OpOpenSource:
		return withStatus(statusSourceOpen, err)
	case errors.Is(err, secu.ErrIO):
		return withStatus(statusWriteFailure, err)
	default:
		return withStatus(statusFailure, err)
	}
}

func unpackStatus(err error) error {
	switch {
	case err == nil:
		return nil
	case opOf(err) == secu.OpOpenArchive:
		return withStatus(statusArchiveOpen, err)
	case errors.Is(err, secu.ErrInvalidFormat):
		return withStatus(statusBadFormat, err)
	case opOf(err) == secu.OpCreateDir, opOf(err) == secu.OpWriteFile, errors.Is(err, secu.ErrIO):
		return withStatus(statusWriteFailure, err)
	default:
		return withStatus(statusFailure, err)
	}
}

// readStatus covers commands that only read an archive.
func readStatus(err error) error {
	switch {
	case err == nil:
		return nil
	case opOf(err) == secu.OpOpenArchive:
		return withStatus(statusArchiveOpen, err)
	case errors.Is(err, secu.ErrInvalidFormat):
		return withStatus(statusBadFormat, err)
	default:
		return withStatus(statusFailure, err)
	}
}
