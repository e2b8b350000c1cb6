// Package repositories clones or updates every repository listed in a manifest.
//
// Clone creates missing checkouts and leaves existing ones alone. Update fetches
// and merges the tracking branch of every checkout that exists, after first
// updating the working directory itself. Per-repository failures are logged and
// reported in the Result without stopping the traversal.
package repositories
