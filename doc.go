// Package secu packs a directory tree into a single flat archive file and
// unpacks it again.
//
// An archive has three regions laid out back to back:
//   - Header: magic "SECU", format version, entry count and region offsets
//   - File table: one fixed-size record per file or directory
//   - Data table: file contents, concatenated in table order
//
// # Packing
//
//	hdr, err := secu.Pack("site.secu", "./public")
//
// Pack counts the tree first so the data table's start is known before any
// content is written, then walks it once, streaming file contents into the
// data table and patching each entry into its table slot as it goes.
//
// # Unpacking
//
//	stats, err := secu.Unpack("site.secu", "./restore")
//
// Extraction creates every directory first and then materializes every file,
// so the table does not need to list parents before children.
//
// # Inspection
//
// [Open] returns a [Reader] exposing the header and the full entry table
// for listing and verification tools.
package secu
