// Package execshell provides structured helpers for invoking the git
// command-line tool.
//
// It wraps os/exec behind ShellExecutor, which logs every invocation through
// zap, notifies optional lifecycle observers, and converts non-zero exit codes
// and runner failures into typed errors so callers can distinguish the two.
package execshell
