// Package dependencies resolves the collaborators shared by repotree commands, falling back to OS-backed defaults.
package dependencies
