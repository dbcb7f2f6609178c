package utils

import (
	"io"
	"os"
	"path/filepath"
)

// CopyFile copies src over dst, keeping the source permissions
func CopyFile(src, dst string) (err error) {
	var (
		source *os.File
		info   os.FileInfo
	)
	if source, err = os.Open(src); err != nil {
		return
	}
	defer source.Close()
	if info, err = source.Stat(); err != nil {
		return
	}
	var destination *os.File
	if destination, err = os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm()); err != nil {
		return
	}
	if _, err = io.Copy(destination, source); err != nil {
		destination.Close()
		return
	}
	return destination.Close()
}

// WriteFileAtomic writes data to a temporary file next to path and renames it
// over path, so readers never observe a partially written file.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) (err error) {
	var temporary *os.File
	if temporary, err = os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*"); err != nil {
		return
	}
	defer func() {
		if err != nil {
			os.Remove(temporary.Name())
		}
	}()
	if _, err = temporary.Write(data); err != nil {
		temporary.Close()
		return
	}
	if err = temporary.Chmod(perm); err != nil {
		temporary.Close()
		return
	}
	if err = temporary.Close(); err != nil {
		return
	}
	return os.Rename(temporary.Name(), path)
}
