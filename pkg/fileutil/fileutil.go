// Package fileutil provides file writing helpers.
package fileutil

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/lithammer/shortuuid/v3"
)

// WriteFile writes data to a temporary file next to name and renames
// it to name once everything is written. The destination is never
// left truncated and the temporary file is removed on failure.
//
// When name is a symbolic link, its target is replaced. An existing
// file keeps its permissions; perm only applies to new files.
func WriteFile(name string, data []byte, perm os.FileMode) (err error) {
	if target, err := filepath.EvalSymlinks(name); err == nil {
		name = target
	}
	keepMode := false
	if fi, err := os.Stat(name); err == nil && fi.Mode().IsRegular() {
		perm = fi.Mode().Perm()
		keepMode = true
	}

	dir, base := filepath.Split(name)
	if dir == "" {
		dir = "."
	}
	tmp := filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", base, shortuuid.New()))

	fd, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			os.Remove(tmp)
		}
	}()

	if keepMode {
		// The mode given to OpenFile is subject to umask.
		if err = fd.Chmod(perm); err != nil {
			fd.Close()
			return err
		}
	}
	if _, err = fd.Write(data); err != nil {
		fd.Close()
		return err
	}
	if err = fd.Sync(); err != nil {
		fd.Close()
		return err
	}
	if err = fd.Close(); err != nil {
		return err
	}

	return os.Rename(tmp, name)
}
