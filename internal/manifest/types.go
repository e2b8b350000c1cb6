package manifest

import (
	"path/filepath"

	"github.com/temirov/repotree/internal/gitrepo"
)

// Node is either a Group of labelled children or a list of Entries.
type Node interface {
	walk(directoryPath string, visitor EntryVisitor)
}

// EntryVisitor receives each entry with the directory that holds its checkout.
type EntryVisitor func(parentPath string, entry Entry)

// Member is one labelled child of a Group.
type Member struct {
	Label string
	Node  Node
}

// Group is an ordered mapping of labels to nodes.
type Group struct {
	Members []Member
}

// Entries is an ordered list of repository entries sharing a parent directory.
type Entries []Entry

// Entry describes one repository and its optional build metadata.
type Entry struct {
	Repository string
	// Name holds the textual name when the manifest supplies a truthy value, and is empty otherwise.
	Name      string
	Artifact  *ArtifactSource
	Manifests []string
}

// ArtifactSource is the build descriptor attached to an entry.
type ArtifactSource struct {
	Image      string   `mapstructure:"image"`
	Sync       []string `mapstructure:"sync"`
	Dockerfile string   `mapstructure:"dockerfile"`
}

// ResolvedName is the directory name of the entry: Name when set, otherwise the last URL segment.
func (entry Entry) ResolvedName() string {
	if len(entry.Name) > 0 {
		return entry.Name
	}
	return gitrepo.RepositoryBaseName(entry.Repository)
}

// Directory joins the parent path with the resolved name.
func (entry Entry) Directory(parentPath string) string {
	return filepath.Join(parentPath, entry.ResolvedName())
}

// Walk visits every entry below the group in document order.
// Each label extends basePath by one directory level.
func (group Group) Walk(basePath string, visitor EntryVisitor) {
	if visitor == nil {
		return
	}
	group.walk(basePath, visitor)
}

func (group Group) walk(directoryPath string, visitor EntryVisitor) {
	for _, member := range group.Members {
		member.Node.walk(filepath.Join(directoryPath, member.Label), visitor)
	}
}

func (entries Entries) walk(directoryPath string, visitor EntryVisitor) {
	for _, entry := range entries {
		visitor(directoryPath, entry)
	}
}

// EntryCount returns the number of entries below the group.
func (group Group) EntryCount() int {
	count := 0
	group.Walk("", func(string, Entry) {
		count++
	})
	return count
}
