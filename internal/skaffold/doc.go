// Package skaffold derives a Skaffold build configuration from a repository manifest.
//
// Artifacts come from entries carrying a skaffold-artifact descriptor and raw
// manifests from entries listing skaffold-manifests. Rendering is deterministic:
// field order follows struct declaration order, so an unchanged manifest always
// produces byte-identical output.
package skaffold
