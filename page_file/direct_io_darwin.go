//go:build darwin
// +build darwin

package page_file

import (
	"fmt"
	"os"
	"syscall"

	"golang.org/x/sys/unix"
)

// darwin has no O_DIRECT, caching is disabled on the open descriptor instead.
func openFileDirectIO(path string, flags int, permissions os.FileMode) (*os.File, error) {

	fd, err := unix.Open(path, flags, uint32(permissions))

	if err != nil {
		return nil, err
	}

	file := os.NewFile(uintptr(fd), path)

	if _, _, errNum := syscall.Syscall(syscall.SYS_FCNTL, uintptr(fd), syscall.F_NOCACHE, uintptr(1)); errNum != 0 {
		file.Close()
		return nil, fmt.Errorf("error while opening file in DIRECT I/O mode")
	}

	return file, nil
}
