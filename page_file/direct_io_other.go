//go:build !linux && !darwin
// +build !linux,!darwin

package page_file

import (
	"os"

	"github.com/ncw/directio"
)

func openFileDirectIO(path string, flags int, permissions os.FileMode) (*os.File, error) {
	return directio.OpenFile(path, flags, permissions)
}
