// Package execshell provides structured helpers for invoking external tools.
//
// It wraps os/exec with structured logging via ShellExecutor, exposes
// OSCommandRunner for default process execution, and lets callers observe
// command lifecycle events so git invocations stay testable.
package execshell
