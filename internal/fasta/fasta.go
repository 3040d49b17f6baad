// Package fasta reads FASTA files into the (name, bytes) records the
// driver scans, transparently handling gzip compression and mapping
// large reference files instead of reading them fully into the heap.
package fasta

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
)

// mmapThreshold is the file size above which Read memory-maps the
// file instead of staging it into a []byte via os.ReadFile.
const mmapThreshold = 64 << 20 // 64 MiB

var gzipMagic = []byte{0x1f, 0x8b}

// Record is a single named sequence as read off disk, before
// normalization (see internal/seq).
type Record struct {
	Name string
	Data []byte
}

// Read loads every record in path. Gzip-compressed files (sniffed by
// magic header, not by extension) are transparently decompressed.
// Files at or above mmapThreshold are memory-mapped rather than fully
// read into the heap; closer() must be called once the caller
// is done with any Record.Data drawn from a mapped file.
func Read(path string) (records []Record, closer func() error, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "fasta: open %s", path)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, nil, errors.Wrapf(err, "fasta: stat %s", path)
	}

	var raw []byte
	var unmap func() error
	if info.Mode().IsRegular() && info.Size() >= mmapThreshold {
		raw, unmap, err = mmapFile(f, info.Size())
		if err != nil {
			// Fall back to a plain read rather than failing the run
			// over a file that simply can't be mapped (pipe, some
			// non-Unix GOOS, or a filesystem that refuses mmap).
			raw, err = os.ReadFile(path)
			if err != nil {
				return nil, nil, errors.Wrapf(err, "fasta: read %s", path)
			}
			unmap = nil
		}
	} else {
		raw, err = os.ReadFile(path)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "fasta: read %s", path)
		}
	}

	body := raw
	if looksGzipped(raw) {
		gz, gzErr := gzip.NewReader(bytes.NewReader(raw))
		if gzErr != nil {
			release(unmap)
			return nil, nil, errors.Wrapf(gzErr, "fasta: gunzip %s", path)
		}
		decompressed, readErr := io.ReadAll(gz)
		gz.Close()
		if readErr != nil {
			release(unmap)
			return nil, nil, errors.Wrapf(readErr, "fasta: gunzip %s", path)
		}
		body = decompressed
		// The decompressed buffer owns its own memory; the mapping
		// backing the compressed bytes can be released immediately.
		release(unmap)
		unmap = nil
	}

	records, err = parse(body)
	if err != nil {
		release(unmap)
		return nil, nil, errors.Wrapf(err, "fasta: parse %s", path)
	}

	if unmap == nil {
		return records, func() error { return nil }, nil
	}
	return records, unmap, nil
}

// ReadJoined is Read with join mode: every record in the file is
// concatenated (no separator; reported positions are against the
// concatenation) into a single record named after the file's base
// name with its extension(s) stripped.
func ReadJoined(path string) (Record, func() error, error) {
	records, closer, err := Read(path)
	if err != nil {
		return Record{}, nil, err
	}
	if len(records) == 0 {
		closer()
		return Record{}, nil, errors.Errorf("fasta: %s has no records to join", path)
	}

	var buf bytes.Buffer
	for _, r := range records {
		buf.Write(r.Data)
	}
	joined := Record{Name: stemOf(path), Data: buf.Bytes()}
	return joined, closer, nil
}

// stemOf derives a join-mode sequence name from a path: the base name
// with every extension removed, e.g. "path/chr1.fna" -> "chr1" and
// "path/chr1.fa.gz" -> "chr1".
func stemOf(path string) string {
	name := filepath.Base(path)
	for {
		ext := filepath.Ext(name)
		if ext == "" {
			return name
		}
		name = strings.TrimSuffix(name, ext)
	}
}

func looksGzipped(b []byte) bool {
	return len(b) >= 2 && b[0] == gzipMagic[0] && b[1] == gzipMagic[1]
}

func release(unmap func() error) {
	if unmap != nil {
		unmap()
	}
}

// parse follows the minimal whole-file FASTA reader shape: blank
// lines are skipped, leading/trailing whitespace trimmed, both LF and
// CRLF line endings accepted, and a record starts at each header line.
func parse(data []byte) ([]Record, error) {
	var records []Record
	var current *Record
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<30)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		if line[0] == '>' {
			records = append(records, Record{Name: headerName(line)})
			current = &records[len(records)-1]
			continue
		}
		if current == nil {
			return nil, errors.New("fasta: sequence data before any header")
		}
		current.Data = append(current.Data, line...)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "fasta: scan")
	}
	return records, nil
}

// headerName extracts the identifier token from a ">id description"
// header line.
func headerName(header []byte) string {
	id := header[1:]
	if sp := bytes.IndexByte(id, ' '); sp >= 0 {
		id = id[:sp]
	}
	return string(bytes.TrimSpace(id))
}
