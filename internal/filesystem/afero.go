package filesystem

import (
	"io/fs"

	"github.com/spf13/afero"
)

// AferoFileSystem implements shared.FileSystem on top of an afero backend.
type AferoFileSystem struct {
	backend afero.Fs
}

// NewAferoFileSystem wraps backend, defaulting to the operating system filesystem when nil.
func NewAferoFileSystem(backend afero.Fs) AferoFileSystem {
	if backend == nil {
		backend = afero.NewOsFs()
	}
	return AferoFileSystem{backend: backend}
}

// NewOSFileSystem returns a filesystem backed by the operating system.
func NewOSFileSystem() AferoFileSystem {
	return NewAferoFileSystem(afero.NewOsFs())
}

// NewMemoryFileSystem returns an empty in-memory filesystem.
func NewMemoryFileSystem() AferoFileSystem {
	return NewAferoFileSystem(afero.NewMemMapFs())
}

// Stat retrieves file metadata.
func (fileSystem AferoFileSystem) Stat(path string) (fs.FileInfo, error) {
	return fileSystem.backend.Stat(path)
}

// ReadFile reads file contents.
func (fileSystem AferoFileSystem) ReadFile(path string) ([]byte, error) {
	return afero.ReadFile(fileSystem.backend, path)
}

// WriteFile replaces the file contents with data.
func (fileSystem AferoFileSystem) WriteFile(path string, data []byte, permissions fs.FileMode) error {
	return afero.WriteFile(fileSystem.backend, path, data, permissions)
}

// MkdirAll ensures a directory hierarchy exists with the provided permissions.
func (fileSystem AferoFileSystem) MkdirAll(path string, permissions fs.FileMode) error {
	return fileSystem.backend.MkdirAll(path, permissions)
}
