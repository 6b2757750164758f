//go:build linux

package window

import (
	"os"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// MapFile maps size bytes of the file at path as a shared, writable window
// starting at physBase. Regular files shorter than size are extended with
// zeros, which is what a cold boot looks like to the recorder.
func MapFile(path string, physBase, size uint64) (*Region, error) {
	if size == 0 {
		return nil, errors.New("window size must be non-zero")
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o600)
	if err != nil {
		return nil, errors.Wrap(err, "open window")
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, errors.Wrap(err, "stat window")
	}
	if fi.Mode().IsRegular() && uint64(fi.Size()) < size {
		if err := f.Truncate(int64(size)); err != nil {
			return nil, errors.Wrap(err, "extend window")
		}
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, errors.Wrapf(err, "mmap %s", path)
	}

	r := NewRegion(physBase, data)
	r.syncer = func() error {
		return errors.Wrap(unix.Msync(data, unix.MS_SYNC), "msync window")
	}
	r.closer = func() error {
		var firstErr error
		if err := unix.Msync(data, unix.MS_SYNC); err != nil {
			firstErr = errors.Wrap(err, "msync window")
		}
		if err := unix.Munmap(data); err != nil && firstErr == nil {
			firstErr = errors.Wrap(err, "munmap window")
		}
		return firstErr
	}
	return r, nil
}
