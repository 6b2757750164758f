//go:build !linux

package window

import (
	"runtime"

	"github.com/pkg/errors"
)

// MapFile is only implemented on linux.
func MapFile(path string, physBase, size uint64) (*Region, error) {
	return nil, errors.Errorf("mapping %s: not supported on %s", path, runtime.GOOS)
}
