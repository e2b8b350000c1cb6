// Package ui formats human-readable console output for git invocations.
//
// ConsoleCommandEventLogger turns executor lifecycle events into short
// sentences such as "Cloning <url> into <dir>" while the structured logger
// keeps the full argument vectors.
package ui
