package pathutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEntryName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a.txt", EntryName("", "a.txt", false))
	assert.Equal(t, "sub/", EntryName("", "sub", true))
	assert.Equal(t, "sub/b.txt", EntryName("sub/", "b.txt", false))
	assert.Equal(t, "sub/deep/", EntryName("sub/", "deep", true))
}

func TestValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		want bool
	}{
		{"a.txt", true},
		{"sub/", true},
		{"sub/b.txt", true},
		{"with space/x", true},
		{"", false},
		{".", false},
		{"./x", false},
		{"..", false},
		{"../x", false},
		{"a/../../x", false},
		{"/etc/passwd", false},
		{"a//b", false},
		{`a\..\b`, !backslashIsSeparator},
		{`a\b.txt`, !backslashIsSeparator},
		{`..\x`, !backslashIsSeparator},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Valid(tt.name), "Valid(%q)", tt.name)
	}
}
