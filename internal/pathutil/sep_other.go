//go:build !windows

package pathutil

const backslashIsSeparator = false
