//go:build linux
// +build linux

package page_file

import (
	"os"
	"syscall"

	"golang.org/x/sys/unix"
)

func openFileDirectIO(path string, flags int, permissions os.FileMode) (*os.File, error) {

	fd, err := unix.Open(path, flags|syscall.O_DIRECT, uint32(permissions))

	if err != nil {
		return nil, err
	}

	return os.NewFile(uintptr(fd), path), nil
}
