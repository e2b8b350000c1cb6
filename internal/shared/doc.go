// Package shared declares the collaborator interfaces consumed by the repository, path record, and build configuration services.
package shared
