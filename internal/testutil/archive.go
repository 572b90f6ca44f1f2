package testutil

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/meigma/secu/internal/container"
)

// TestEntry describes one entry of a hand-built archive.
type TestEntry struct {
	Name    string
	Kind    container.Kind
	Content string

	// Offset and Size override the computed layout when non-zero,
	// for building corrupt archives.
	Offset uint64
	Size   uint64
}

// BuildArchive lays out entries in table order with contents packed
// contiguously after the file table, the same way the writer does.
func BuildArchive(tb testing.TB, entries []TestEntry) []byte {
	tb.Helper()

	h := container.InitHeader()
	h.EntryCount = uint64(len(entries))
	dataStart, err := container.DataTableOffsetFor(h.EntryCount)
	require.NoError(tb, err)
	h.DataTableOffset = dataStart

	hdr, err := h.MarshalBinary()
	require.NoError(tb, err)

	var table, data bytes.Buffer
	next := dataStart
	for _, te := range entries {
		e := container.Entry{Name: te.Name, Kind: te.Kind}
		if te.Kind == container.KindFile {
			e.Offset = next
			e.Size = uint64(len(te.Content))
			data.WriteString(te.Content)
			next += e.Size
		}
		if te.Offset != 0 {
			e.Offset = te.Offset
		}
		if te.Size != 0 {
			e.Size = te.Size
		}
		rec, err := e.MarshalBinary()
		require.NoError(tb, err)
		table.Write(rec)
	}

	out := make([]byte, 0, len(hdr)+table.Len()+data.Len())
	out = append(out, hdr...)
	out = append(out, table.Bytes()...)
	out = append(out, data.Bytes()...)
	return out
}
