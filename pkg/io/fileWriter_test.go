package io

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMakeDirForFile(t *testing.T) {
	tempDir := t.TempDir()
	filePath := filepath.Join(tempDir, "logs", "neo2vm.log")
	require.NoError(t, MakeDirForFile(filePath, "test"))

	f, err := os.Create(filePath)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	// A file can't be a directory.
	require.Error(t, MakeDirForFile(filepath.Join(filePath, "error"), "test"))
}
