// Package status implements the repository status scan: it discovers git
// repositories beneath a root, probes each one for branch, upstream
// divergence, and worktree state, and renders a colorized aligned report.
//
// It exposes CommandBuilder for wiring the Cobra command, Service for driving
// the scan programmatically, and supporting abstractions for Git, filesystem,
// and clock collaborators.
package status
