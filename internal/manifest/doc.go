// Package manifest reads the repository manifest: a YAML tree of labelled
// groups whose leaves are ordered lists of repository entries.
//
// Load and Parse produce a Group that preserves mapping order from the source
// document. Group.Walk visits every entry with the directory path formed by
// the labels leading to it, which is where the entry is cloned and where its
// build artifacts are resolved from.
package manifest
