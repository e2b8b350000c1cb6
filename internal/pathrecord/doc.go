// Package pathrecord persists the set of repository directories produced by clone runs as a sorted JSON array.
package pathrecord
