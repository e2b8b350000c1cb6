// Package filesystem adapts afero backends to the FileSystem contract used by the synchronizer and file writers.
package filesystem
