// Package fsutil creates directory trees beneath an os.Root.
package fsutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotDir is returned when a path segment exists but is not a directory.
var ErrNotDir = errors.New("not a directory")

// MkdirAll creates every segment of the slash-separated name beneath root,
// parents first. Segments that already exist as directories are left alone,
// so calling it twice for the same name is not an error. A trailing "/" on
// name is ignored.
func MkdirAll(root *os.Root, name string, perm fs.FileMode) error {
	name = strings.TrimSuffix(name, "/")
	if name == "" || name == "." {
		return nil
	}
	if !fs.ValidPath(name) {
		return &fs.PathError{Op: "mkdir", Path: name, Err: fs.ErrInvalid}
	}

	var cur string
	for seg := range strings.SplitSeq(name, "/") {
		if cur == "" {
			cur = seg
		} else {
			cur = cur + "/" + seg
		}
		if err := mkdir(root, cur, perm); err != nil {
			return err
		}
	}
	return nil
}

func mkdir(root *os.Root, name string, perm fs.FileMode) error {
	fsPath := filepath.FromSlash(name)
	err := root.Mkdir(fsPath, perm)
	if err == nil || !errors.Is(err, fs.ErrExist) {
		return err
	}
	info, statErr := root.Lstat(fsPath)
	if statErr != nil {
		return fmt.Errorf("mkdir %s: %w", name, statErr)
	}
	if !info.IsDir() {
		return &fs.PathError{Op: "mkdir", Path: name, Err: ErrNotDir}
	}
	return nil
}
