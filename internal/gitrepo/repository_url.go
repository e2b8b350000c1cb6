package gitrepo

import "strings"

const repositoryURLPathSeparatorConstant = "/"

// RepositoryBaseName returns the final path segment of a repository URL.
// The segment is taken verbatim, so "https://host/org/Foo.git" yields "Foo.git"
// and a URL ending in a separator yields an empty string.
func RepositoryBaseName(repositoryURL string) string {
	trimmedURL := strings.TrimSpace(repositoryURL)
	separatorIndex := strings.LastIndex(trimmedURL, repositoryURLPathSeparatorConstant)
	if separatorIndex < 0 {
		return trimmedURL
	}
	return trimmedURL[separatorIndex+1:]
}
