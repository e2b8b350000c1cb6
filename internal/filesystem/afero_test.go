package filesystem_test

import (
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/repotree/internal/filesystem"
)

func TestMemoryFileSystemRoundTrip(testInstance *testing.T) {
	memoryFileSystem := filesystem.NewMemoryFileSystem()
	targetPath := filepath.Join("records", "nested", "paths.json")

	_, missingError := memoryFileSystem.Stat(targetPath)
	require.ErrorIs(testInstance, missingError, fs.ErrNotExist)

	require.NoError(testInstance, memoryFileSystem.MkdirAll(filepath.Dir(targetPath), 0o755))
	require.NoError(testInstance, memoryFileSystem.WriteFile(targetPath, []byte("[]\n"), 0o644))

	contents, readError := memoryFileSystem.ReadFile(targetPath)
	require.NoError(testInstance, readError)
	require.Equal(testInstance, "[]\n", string(contents))

	directoryInfo, statError := memoryFileSystem.Stat(filepath.Dir(targetPath))
	require.NoError(testInstance, statError)
	require.True(testInstance, directoryInfo.IsDir())
}

func TestOSFileSystemReadsTemporaryDirectory(testInstance *testing.T) {
	temporaryDirectory := testInstance.TempDir()
	osFileSystem := filesystem.NewOSFileSystem()
	targetPath := filepath.Join(temporaryDirectory, "skaffold.yaml")

	require.NoError(testInstance, osFileSystem.WriteFile(targetPath, []byte("kind: Config\n"), 0o644))

	contents, readError := osFileSystem.ReadFile(targetPath)
	require.NoError(testInstance, readError)
	require.Equal(testInstance, "kind: Config\n", string(contents))
}
