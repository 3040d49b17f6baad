package main

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFasta(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	require.NoError(t, err)
	orig := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	fn()

	require.NoError(t, w.Close())
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(data)
}

func TestRunEndToEndUniqueSubstring(t *testing.T) {
	dir := t.TempDir()
	ref := writeFasta(t, dir, "ref.fa", ">ref\nAAAACGTAAAA\n")
	qry := writeFasta(t, dir, "qry.fa", ">qry\nCGTGG\n")

	out := captureStdout(t, func() {
		err := run([]string{"-min_length", "3", ref, qry})
		require.NoError(t, err)
	})

	assert.Contains(t, out, "> qry")
}

func TestRunRejectsTooFewFiles(t *testing.T) {
	dir := t.TempDir()
	ref := writeFasta(t, dir, "ref.fa", ">ref\nACGT\n")

	err := run([]string{ref})
	assert.Error(t, err)
}

func TestRunJoinModeNamesAfterFileStem(t *testing.T) {
	dir := t.TempDir()
	ref := writeFasta(t, dir, "ref.fa", ">ref\nAAAACGTAAAA\n")
	qry := writeFasta(t, dir, "chr1.fna", ">part1\nCG\n>part2\nTGG\n")

	out := captureStdout(t, func() {
		err := run([]string{"-join", "-min_length", "1", ref, qry})
		require.NoError(t, err)
	})

	assert.Contains(t, out, "> chr1")
}
