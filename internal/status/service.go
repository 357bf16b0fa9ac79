package status

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/muesli/termenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/temirov/repostat/internal/repos/shared"
	"github.com/temirov/repostat/internal/utils"
	pathutils "github.com/temirov/repostat/internal/utils/path"
)

const (
	sequentialTaskPauseConstant           = 100 * time.Millisecond
	quietSummaryTemplateConstant          = "Checked %d repositories.\n"
	rootNotDirectoryErrorTemplateConstant = "scan root %s is not a directory"
	rootResolutionErrorTemplateConstant   = "failed to resolve scan root %s: %w"
	discoveryFailureErrorTemplateConstant = "failed to discover repositories under %s: %w"
	rowWriteFailureMessageConstant        = "failed to write report row"
	fetchFailureMessageConstant           = "remote fetch failed"
	upstreamLookupFailureMessageConstant  = "upstream lookup failed"
	divergenceFailureMessageConstant      = "divergence count failed"
	worktreeStatusFailureMessageConstant  = "worktree status read failed"
	branchLookupFailureMessageConstant    = "branch lookup failed"
	noRepositoriesFoundMessageConstant    = "no repositories found"
	scanCompletedMessageConstant          = "scan completed"
	logFieldRepositoryPathConstant        = "repository_path"
	logFieldScanRootConstant              = "scan_root"
	logFieldRepositoryCountConstant       = "repository_count"
	logFieldScanDurationConstant          = "scan_duration"
)

// Service orchestrates repository discovery, probing, and report rendering.
type Service struct {
	logger            *zap.Logger
	discoverer        RepositoryDiscoverer
	repositoryManager GitRepositoryManager
	fileSystem        FileSystem
	clock             Clock
	homeExpander      *pathutils.HomeExpander
	rawOutputWriter   io.Writer
	outputWriter      io.Writer
}

// NewService wires the scan orchestrator from its collaborators. The output
// writer is wrapped so concurrent probes emit whole rows.
func NewService(
	logger *zap.Logger,
	discoverer RepositoryDiscoverer,
	repositoryManager GitRepositoryManager,
	fileSystem FileSystem,
	clock Clock,
	outputWriter io.Writer,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		logger:            logger,
		discoverer:        discoverer,
		repositoryManager: repositoryManager,
		fileSystem:        fileSystem,
		clock:             clock,
		homeExpander:      pathutils.NewHomeExpander(),
		rawOutputWriter:   outputWriter,
		outputWriter:      utils.NewSynchronizedWriter(outputWriter),
	}
}

// Run executes one scan: discover repositories beneath the root, probe each
// one, and stream aligned report rows. Probe failures degrade individual rows
// and never abort the scan.
func (service *Service) Run(executionContext context.Context, options CommandOptions) error {
	scanStartTime := service.clock.Now()

	resolvedRoot, rootError := service.resolveRoot(options.Root)
	if rootError != nil {
		return rootError
	}

	repositoryPaths, discoveryError := service.discoverer.DiscoverRepositories([]string{resolvedRoot})
	if discoveryError != nil {
		return fmt.Errorf(discoveryFailureErrorTemplateConstant, resolvedRoot, discoveryError)
	}
	if len(repositoryPaths) == 0 {
		service.logger.Debug(noRepositoriesFoundMessageConstant, zap.String(logFieldScanRootConstant, resolvedRoot))
		return nil
	}

	candidates := make([]RepositoryCandidate, 0, len(repositoryPaths))
	for _, repositoryPath := range repositoryPaths {
		candidates = append(candidates, RepositoryCandidate{
			Path:        repositoryPath,
			DisplayName: filepath.Base(repositoryPath),
		})
	}

	branchNames := service.resolveBranchNames(executionContext, candidates)
	rowTemplate := service.buildRowTemplate(candidates, branchNames)

	colorizeOutput := shouldColorizeOutput(service.rawOutputWriter, options.NoColor)
	renderer := NewReportRenderer(service.rawOutputWriter, colorizeOutput)
	if colorizeOutput {
		defer termenv.NewOutput(service.rawOutputWriter).Reset()
	}

	if _, headerError := io.WriteString(service.outputWriter, renderer.RenderHeader(rowTemplate)); headerError != nil {
		return headerError
	}

	checkedRepositoryCount := atomic.Int64{}
	if options.Sequential {
		service.scanSequentially(executionContext, renderer, rowTemplate, candidates, branchNames, options, &checkedRepositoryCount)
	} else {
		service.scanConcurrently(executionContext, renderer, rowTemplate, candidates, branchNames, options, &checkedRepositoryCount)
	}

	if options.Quiet {
		if _, summaryError := fmt.Fprintf(service.outputWriter, quietSummaryTemplateConstant, checkedRepositoryCount.Load()); summaryError != nil {
			return summaryError
		}
	}

	service.logger.Debug(
		scanCompletedMessageConstant,
		zap.String(logFieldScanRootConstant, resolvedRoot),
		zap.Int64(logFieldRepositoryCountConstant, checkedRepositoryCount.Load()),
		zap.Duration(logFieldScanDurationConstant, service.clock.Now().Sub(scanStartTime)),
	)
	return nil
}

func (service *Service) resolveRoot(configuredRoot string) (string, error) {
	expandedRoot := service.homeExpander.Expand(configuredRoot)
	absoluteRoot, absoluteError := service.fileSystem.Abs(expandedRoot)
	if absoluteError != nil {
		return "", fmt.Errorf(rootResolutionErrorTemplateConstant, configuredRoot, absoluteError)
	}

	rootInfo, statError := service.fileSystem.Stat(absoluteRoot)
	if statError != nil {
		return "", fmt.Errorf(rootResolutionErrorTemplateConstant, configuredRoot, statError)
	}
	if !rootInfo.IsDir() {
		return "", fmt.Errorf(rootNotDirectoryErrorTemplateConstant, absoluteRoot)
	}
	return absoluteRoot, nil
}

// resolveBranchNames performs the single up-front branch lookup per repository
// used for both column sizing and probing.
func (service *Service) resolveBranchNames(executionContext context.Context, candidates []RepositoryCandidate) []string {
	branchNames := make([]string, len(candidates))
	for candidateIndex, candidate := range candidates {
		branchName, branchError := service.repositoryManager.GetCurrentBranch(executionContext, candidate.Path)
		switch {
		case branchError == nil:
			branchNames[candidateIndex] = strings.TrimSpace(branchName)
		case errors.Is(branchError, shared.ErrNoSymbolicBranch):
			branchNames[candidateIndex] = detachedBranchPlaceholderConstant
		default:
			service.logger.Debug(branchLookupFailureMessageConstant, zap.String(logFieldRepositoryPathConstant, candidate.Path), zap.Error(branchError))
			branchNames[candidateIndex] = errorBranchPlaceholderConstant
		}
	}
	return branchNames
}

func (service *Service) buildRowTemplate(candidates []RepositoryCandidate, branchNames []string) RowTemplate {
	repositoryNames := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		repositoryNames = append(repositoryNames, candidate.DisplayName)
	}
	return NewRowTemplate(repositoryNames, branchNames)
}

func (service *Service) scanConcurrently(
	executionContext context.Context,
	renderer *ReportRenderer,
	rowTemplate RowTemplate,
	candidates []RepositoryCandidate,
	branchNames []string,
	options CommandOptions,
	checkedRepositoryCount *atomic.Int64,
) {
	taskGroup, taskContext := errgroup.WithContext(executionContext)
	for candidateIndex, candidate := range candidates {
		taskGroup.Go(func() error {
			service.scanRepository(taskContext, renderer, rowTemplate, candidate, branchNames[candidateIndex], options, checkedRepositoryCount)
			return nil
		})
	}
	// Tasks degrade their own rows instead of failing, so Wait only joins.
	_ = taskGroup.Wait()
}

func (service *Service) scanSequentially(
	executionContext context.Context,
	renderer *ReportRenderer,
	rowTemplate RowTemplate,
	candidates []RepositoryCandidate,
	branchNames []string,
	options CommandOptions,
	checkedRepositoryCount *atomic.Int64,
) {
	for candidateIndex, candidate := range candidates {
		if candidateIndex > 0 {
			select {
			case <-executionContext.Done():
				return
			case <-time.After(sequentialTaskPauseConstant):
			}
		}
		service.scanRepository(executionContext, renderer, rowTemplate, candidate, branchNames[candidateIndex], options, checkedRepositoryCount)
	}
}

func (service *Service) scanRepository(
	executionContext context.Context,
	renderer *ReportRenderer,
	rowTemplate RowTemplate,
	candidate RepositoryCandidate,
	branchName string,
	options CommandOptions,
	checkedRepositoryCount *atomic.Int64,
) {
	probeContext := executionContext
	if options.ProbeTimeoutSeconds > 0 {
		timeoutContext, cancelProbe := context.WithTimeout(executionContext, time.Duration(options.ProbeTimeoutSeconds)*time.Second)
		defer cancelProbe()
		probeContext = timeoutContext
	}

	reportRow := service.probeRepository(probeContext, candidate, branchName, options.LocalOnly)
	checkedRepositoryCount.Add(1)

	if options.Quiet && reportRow.Severity == SeverityClean {
		return
	}

	if _, writeError := io.WriteString(service.outputWriter, renderer.RenderRow(reportRow, rowTemplate)); writeError != nil {
		service.logger.Warn(rowWriteFailureMessageConstant, zap.String(logFieldRepositoryPathConstant, candidate.Path), zap.Error(writeError))
	}
}

func (service *Service) probeRepository(
	executionContext context.Context,
	candidate RepositoryCandidate,
	branchName string,
	localOnly bool,
) ReportRow {
	remoteState := RemoteState{}
	branchResolved := branchName != detachedBranchPlaceholderConstant && branchName != errorBranchPlaceholderConstant

	if branchResolved {
		upstreamBranch, upstreamError := service.repositoryManager.GetUpstreamBranch(executionContext, candidate.Path)
		switch {
		case upstreamError == nil:
			remoteState.HasUpstream = true
			if !localOnly {
				if fetchError := service.repositoryManager.FetchRemote(executionContext, candidate.Path, shared.OriginRemoteNameConstant); fetchError != nil {
					service.logger.Debug(fetchFailureMessageConstant, zap.String(logFieldRepositoryPathConstant, candidate.Path), zap.Error(fetchError))
				}
			}
			branchDivergence, divergenceError := service.repositoryManager.CountBranchDivergence(executionContext, candidate.Path, branchName, upstreamBranch)
			if divergenceError != nil {
				service.logger.Debug(divergenceFailureMessageConstant, zap.String(logFieldRepositoryPathConstant, candidate.Path), zap.Error(divergenceError))
			} else {
				remoteState.Divergence = branchDivergence
			}
		case errors.Is(upstreamError, shared.ErrNoUpstreamConfigured):
		default:
			service.logger.Debug(upstreamLookupFailureMessageConstant, zap.String(logFieldRepositoryPathConstant, candidate.Path), zap.Error(upstreamError))
		}
	}

	worktreeStatus, worktreeError := service.repositoryManager.GetWorktreeStatus(executionContext, candidate.Path)
	if worktreeError != nil {
		service.logger.Debug(worktreeStatusFailureMessageConstant, zap.String(logFieldRepositoryPathConstant, candidate.Path), zap.Error(worktreeError))
		worktreeStatus = shared.WorktreeStatus{}
	}

	return ReportRow{
		RepositoryName: candidate.DisplayName,
		BranchName:     branchName,
		LocalFlags:     formatLocalFlags(worktreeStatus),
		RemoteFlags:    formatRemoteFlags(remoteState),
		Severity:       computeSeverity(worktreeStatus, remoteState),
	}
}
