package fileutils

import (
	"strings"

	"github.com/shukubooks/shuku/pkg/errcodes"
)

// Library paths are stored with forward slashes regardless of platform so the
// database stays portable between hosts.

// JoinLibraryPath joins path components with "/" after validating each one.
// The first component is the root and may be absolute or carry a trailing
// slash (which is dropped); every other component must be a bare relative
// segment.
func JoinLibraryPath(components ...string) (string, error) {
	for i, c := range components {
		if strings.ContainsRune(c, '\x00') {
			return "", errcodes.PathError("path component contains a null byte")
		}
		if i == 0 {
			components[i] = strings.TrimSuffix(c, "/")
			continue
		}
		if strings.HasPrefix(c, "/") {
			return "", errcodes.PathError("path component has a leading slash")
		}
		if strings.HasSuffix(c, "/") {
			return "", errcodes.PathError("path component has a trailing slash")
		}
	}
	return strings.Join(components, "/"), nil
}

// BookFilePath returns the location of one content file of a book, relative
// to the library root when root is empty. The format extension is always
// lowercase on disk even though formats are stored uppercase.
func BookFilePath(root, bookPath, fileName, format string) (string, error) {
	components := []string{bookPath, fileName + "." + strings.ToLower(format)}
	if root != "" {
		components = append([]string{root}, components...)
	}
	return JoinLibraryPath(components...)
}

// BookMetadataPath returns the location of a named sidecar file (cover,
// metadata.opf) inside a book's directory.
func BookMetadataPath(root, bookPath, fileName string) (string, error) {
	components := []string{bookPath, fileName}
	if root != "" {
		components = append([]string{root}, components...)
	}
	return JoinLibraryPath(components...)
}
