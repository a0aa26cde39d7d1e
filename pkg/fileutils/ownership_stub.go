//go:build !unix

package fileutils

import (
	"os"

	"github.com/pkg/errors"
)

// Ownership is not meaningful on non-unix platforms; only directory creation
// is performed.

func Chown(path string, uid, gid *int) error {
	return nil
}

func CreateDirAllAndChown(path string, perm os.FileMode, uid, gid *int) error {
	return errors.WithStack(os.MkdirAll(path, perm))
}
