// Package pathutils expands user home shortcuts in configured file paths.
package pathutils
