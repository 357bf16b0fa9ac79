package status

import (
	"strings"

	"github.com/temirov/repostat/internal/repos/shared"
)

const (
	untrackedFlagCharacterConstant    = "?"
	stagedFlagCharacterConstant       = "+"
	modifiedFlagCharacterConstant     = "M"
	unpulledFlagCharacterConstant     = "v"
	unpushedFlagCharacterConstant     = "^"
	flagSlotPlaceholderConstant       = " "
	noUpstreamMarkerConstant          = "--"
	flagFieldWidthConstant            = 2
	detachedBranchPlaceholderConstant = "DETACHED"
	errorBranchPlaceholderConstant    = "ERROR"
)

// Severity ranks a repository's status for display color selection and
// quiet-mode suppression.
type Severity int

// Severity values ordered from least to most attention-worthy. Local changes
// always dominate remote divergence.
const (
	SeverityClean Severity = iota
	SeverityRemoteOnly
	SeverityLocalDirty
)

// RepositoryCandidate pairs a discovered repository path with its display name.
type RepositoryCandidate struct {
	Path        string
	DisplayName string
}

// RemoteState captures upstream tracking knowledge for a repository's current branch.
type RemoteState struct {
	HasUpstream bool
	Divergence  shared.BranchDivergence
}

// ReportRow is the unit handed to the renderer: one repository's scan outcome.
type ReportRow struct {
	RepositoryName string
	BranchName     string
	LocalFlags     string
	RemoteFlags    string
	Severity       Severity
}

// CommandOptions captures the per-invocation settings of the status scan.
type CommandOptions struct {
	Root                string
	Deep                bool
	LocalOnly           bool
	Quiet               bool
	Sequential          bool
	NoColor             bool
	ProbeTimeoutSeconds int
}

// formatLocalFlags concatenates the set worktree flags in a fixed order and
// pads the result to the fixed field width. Uncategorized changes such as
// deletions count as modifications.
func formatLocalFlags(worktreeStatus shared.WorktreeStatus) string {
	flagBuilder := strings.Builder{}
	if worktreeStatus.HasUntrackedFiles {
		flagBuilder.WriteString(untrackedFlagCharacterConstant)
	}
	if worktreeStatus.HasStagedChanges {
		flagBuilder.WriteString(stagedFlagCharacterConstant)
	}
	if worktreeStatus.HasModifiedFiles || worktreeStatus.HasOtherChanges {
		flagBuilder.WriteString(modifiedFlagCharacterConstant)
	}
	return padFlagField(flagBuilder.String())
}

// formatRemoteFlags renders the upstream divergence field: a dash marker when
// no upstream is configured, otherwise one slot per divergence direction.
func formatRemoteFlags(remoteState RemoteState) string {
	if !remoteState.HasUpstream {
		return noUpstreamMarkerConstant
	}

	flagBuilder := strings.Builder{}
	if remoteState.Divergence.UnpulledCommitCount > 0 {
		flagBuilder.WriteString(unpulledFlagCharacterConstant)
	} else {
		flagBuilder.WriteString(flagSlotPlaceholderConstant)
	}
	if remoteState.Divergence.UnpushedCommitCount > 0 {
		flagBuilder.WriteString(unpushedFlagCharacterConstant)
	} else {
		flagBuilder.WriteString(flagSlotPlaceholderConstant)
	}
	return flagBuilder.String()
}

func padFlagField(flagField string) string {
	if len(flagField) >= flagFieldWidthConstant {
		return flagField[:flagFieldWidthConstant]
	}
	return flagField + strings.Repeat(flagSlotPlaceholderConstant, flagFieldWidthConstant-len(flagField))
}

// computeSeverity derives the display severity from local and remote state.
// Any local change wins over remote-only divergence.
func computeSeverity(worktreeStatus shared.WorktreeStatus, remoteState RemoteState) Severity {
	if !worktreeStatus.IsClean() {
		return SeverityLocalDirty
	}
	if remoteState.HasUpstream && (remoteState.Divergence.UnpulledCommitCount > 0 || remoteState.Divergence.UnpushedCommitCount > 0) {
		return SeverityRemoteOnly
	}
	return SeverityClean
}
