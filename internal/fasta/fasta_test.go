package fasta_test

import (
	"bytes"
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kloetzl/tummer/internal/fasta"
)

func writeFile(t *testing.T, dir, name string, contents []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, contents, 0o644))
	return path
}

func TestReadPlainMultiRecord(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "queries.fa", []byte(">seq1 description\nACGT\nACGT\n\n>seq2\nTTTT\n"))

	records, closer, err := fasta.Read(path)
	require.NoError(t, err)
	defer closer()

	require.Len(t, records, 2)
	assert.Equal(t, "seq1", records[0].Name)
	assert.Equal(t, "ACGTACGT", string(records[0].Data))
	assert.Equal(t, "seq2", records[1].Name)
	assert.Equal(t, "TTTT", string(records[1].Data))
}

func TestReadGzipTransparent(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, err := gz.Write([]byte(">chr1\nACGTACGT\n"))
	require.NoError(t, err)
	require.NoError(t, gz.Close())

	path := writeFile(t, dir, "ref.fa.gz", buf.Bytes())

	records, closer, err := fasta.Read(path)
	require.NoError(t, err)
	defer closer()

	require.Len(t, records, 1)
	assert.Equal(t, "chr1", records[0].Name)
	assert.Equal(t, "ACGTACGT", string(records[0].Data))
}

func TestReadRejectsDataBeforeHeader(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bad.fa", []byte("ACGT\n>seq1\nACGT\n"))

	_, _, err := fasta.Read(path)
	assert.Error(t, err)
}

// Scenario 6 (spec.md §8): join mode names the concatenation after
// the file stem, independent of its (possibly multi-part) extension.
func TestReadJoinedNamesAfterFileStem(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "chr1.fna", []byte(">part1\nACGT\n>part2\nTTTT\n"))

	joined, closer, err := fasta.ReadJoined(path)
	require.NoError(t, err)
	defer closer()

	assert.Equal(t, "chr1", joined.Name)
	assert.Equal(t, "ACGTTTTT", string(joined.Data))
}

func TestReadJoinedStripsCompoundExtension(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, err := gz.Write([]byte(">a\nAAAA\n"))
	require.NoError(t, err)
	require.NoError(t, gz.Close())

	path := writeFile(t, dir, "chr2.fasta.gz", buf.Bytes())

	joined, closer, err := fasta.ReadJoined(path)
	require.NoError(t, err)
	defer closer()

	assert.Equal(t, "chr2", joined.Name)
}
