// Package platform opens files from a source tree for packing, hiding the
// OS differences in how a path that is not a plain file is refused.
package platform
