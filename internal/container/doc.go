// Package container defines the on-disk layout of a secu archive: a fixed
// header, a flat table of fixed-size entry records, and a data region holding
// concatenated file contents.
//
//	offset 0                 header (HeaderSize bytes)
//	offset FileTableOffset   EntryCount records of EntrySize bytes
//	offset DataTableOffset   file contents, contiguous, in table order
//
// All integers are little-endian and every record is packed with no padding.
package container
