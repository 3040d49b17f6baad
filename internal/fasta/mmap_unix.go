//go:build unix

package fasta

import (
	"os"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// mmapFile maps f read-only for its first size bytes. The returned
// closer must be called to release the mapping once the caller is
// done with the bytes.
func mmapFile(f *os.File, size int64) ([]byte, func() error, error) {
	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, nil, errors.Wrap(err, "fasta: mmap")
	}
	return data, func() error { return unix.Munmap(data) }, nil
}
