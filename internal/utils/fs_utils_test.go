package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gotest.tools/v3/assert"
)

func TestReadSecretFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "private_key")

	err := os.WriteFile(path, []byte("file content\n"), 0600)
	assert.NilError(t, err)

	// Normal case
	content, err := ReadSecretFile(path)
	assert.NilError(t, err)
	assert.Equal(t, "file content\n", content)

	// Non-existing file
	content, err = ReadSecretFile(filepath.Join(dir, "missing"))
	assert.ErrorContains(t, err, "no such file or directory")
	assert.Equal(t, "", content)

	// Directories are rejected
	_, err = ReadSecretFile(dir)
	assert.ErrorContains(t, err, "not a regular file")

	// Oversized files are rejected
	large := filepath.Join(dir, "large")
	assert.NilError(t, os.WriteFile(large, []byte(strings.Repeat("a", MaxSecretFileSize+1)), 0600))

	_, err = ReadSecretFile(large)
	assert.ErrorContains(t, err, "larger than")
}
