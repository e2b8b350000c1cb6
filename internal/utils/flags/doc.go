// Package flags formats usage text for flags and arguments that accept a fixed set of choices.
package flags
