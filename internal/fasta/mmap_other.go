//go:build !unix

package fasta

import (
	"os"

	"github.com/pkg/errors"
)

// mmapFile has no portable implementation outside unix GOOS; Read
// falls back to os.ReadFile whenever this returns an error.
func mmapFile(f *os.File, size int64) ([]byte, func() error, error) {
	return nil, nil, errors.New("fasta: mmap unsupported on this platform")
}
