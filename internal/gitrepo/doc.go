// Package gitrepo drives the git client for repository synchronization.
//
// Client builds the clone, fetch, merge, and show-ref argument vectors, and
// implements the tracking branch fallback used when updating a checkout. The
// package also derives default directory names from repository URLs.
package gitrepo
