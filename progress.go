package secu

// ProgressEvent represents a progress update during packing or extraction.
type ProgressEvent struct {
	// Stage identifies the current phase of the operation.
	Stage ProgressStage

	// Path is the entry currently being processed, if applicable.
	Path string

	// EntriesDone is the number of entries completed in the current stage.
	EntriesDone uint64

	// EntriesTotal is the total number of entries.
	// Zero indicates the total is unknown (e.g., while counting).
	EntriesTotal uint64

	// BytesDone is the number of content bytes written so far.
	BytesDone uint64
}

// ProgressStage identifies the current phase of an operation.
type ProgressStage uint8

const (
	// StageCounting indicates the source tree is being sized.
	StageCounting ProgressStage = iota

	// StagePacking indicates entries and contents are being written.
	StagePacking

	// StageCreatingDirs indicates directory entries are being materialized.
	StageCreatingDirs

	// StageExtracting indicates file contents are being written out.
	StageExtracting
)

// String returns the string representation of the stage.
func (s ProgressStage) String() string {
	switch s {
	case StageCounting:
		return "counting"
	case StagePacking:
		return "packing"
	case StageCreatingDirs:
		return "creating directories"
	case StageExtracting:
		return "extracting"
	default:
		return "unknown"
	}
}

// ProgressFunc receives progress updates during operations.
// Calls are made synchronously from the operation's goroutine.
type ProgressFunc func(ProgressEvent)
