//go:build unix

package fileutils

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// Chown changes ownership of path. A nil uid or gid falls back to the
// effective uid/gid of the process; when both are nil the call is a no-op so
// unprivileged runs never fail on ownership.
func Chown(path string, uid, gid *int) error {
	if uid == nil && gid == nil {
		return nil
	}

	u := os.Geteuid()
	if uid != nil {
		u = *uid
	}
	g := os.Getegid()
	if gid != nil {
		g = *gid
	}

	return errors.WithStack(os.Chown(path, u, g))
}

// CreateDirAllAndChown is MkdirAll plus Chown on every directory component
// that did not exist beforehand. Pre-existing directories keep their owner.
func CreateDirAllAndChown(path string, perm os.FileMode, uid, gid *int) error {
	var created []string
	dir := filepath.Clean(path)
	for dir != "." && dir != string(filepath.Separator) && !strings.HasSuffix(dir, ":\\") {
		if _, err := os.Stat(dir); err == nil {
			break
		} else if !os.IsNotExist(err) {
			return errors.WithStack(err)
		}
		created = append(created, dir)
		dir = filepath.Dir(dir)
	}

	if err := os.MkdirAll(path, perm); err != nil {
		return errors.WithStack(err)
	}

	// Outermost first.
	for i := len(created) - 1; i >= 0; i-- {
		if err := Chown(created[i], uid, gid); err != nil {
			return err
		}
	}
	return nil
}
