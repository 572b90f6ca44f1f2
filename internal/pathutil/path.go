// Package pathutil provides path manipulation for slash-separated archive names.
package pathutil

import (
	"io/fs"
	"strings"
)

// EntryName returns the archive name of base inside the directory whose
// archive name is prefix. prefix is "" at the root or ends in "/".
// Directory names carry a trailing slash.
func EntryName(prefix, base string, dir bool) string {
	if dir {
		return prefix + base + "/"
	}
	return prefix + base
}

// Trim returns name without the trailing slash of a directory entry.
func Trim(name string) string {
	return strings.TrimSuffix(name, "/")
}

// Valid reports whether name can be materialized beneath a destination
// directory. Absolute names, "." and ".." elements and empty elements are
// rejected. Where backslash is a path separator it is rejected too;
// elsewhere it is an ordinary name byte.
func Valid(name string) bool {
	p := Trim(name)
	if p == "." || (backslashIsSeparator && strings.Contains(p, `\`)) {
		return false
	}
	return fs.ValidPath(p)
}
