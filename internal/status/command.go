package status

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/repostat/internal/execshell"
	"github.com/temirov/repostat/internal/repos/dependencies"
	"github.com/temirov/repostat/internal/repos/discovery"
	"github.com/temirov/repostat/internal/repos/shared"
	"github.com/temirov/repostat/internal/ui"
)

const (
	commandUseConstant   = "repostat [path]"
	commandShortConstant = "Report branch, worktree, and upstream status for every git repository under a root"
	commandLongConstant  = `repostat scans a directory for git repositories and prints one aligned,
colorized status line per repository: branch name, local worktree flags, and
upstream divergence flags. Probes run concurrently by default and a remote
fetch refreshes tracking state unless local-only mode is requested.`

	flagLocalOnlyName         = "local-only"
	flagLocalOnlyShorthand    = "l"
	flagLocalOnlyDescription  = "skip the network fetch before computing upstream divergence"
	flagDeepName              = "deep"
	flagDeepShorthand         = "d"
	flagDeepDescription       = "search the full subtree for repositories instead of two levels"
	flagQuietName             = "quiet"
	flagQuietShorthand        = "q"
	flagQuietDescription      = "suppress clean rows and print a final tally"
	flagSequentialName        = "sequential"
	flagSequentialShorthand   = "s"
	flagSequentialDescription = "probe repositories one at a time instead of concurrently"
	flagNoColorName           = "no-color"
	flagNoColorDescription    = "disable colorized output"

	shallowTraversalDepthConstant = 2
)

// LoggerProvider supplies a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider supplies the resolved command configuration.
type ConfigurationProvider func() CommandConfiguration

// CommandBuilder assembles the status cobra command with configurable dependencies.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	ConfigurationProvider        ConfigurationProvider
	HumanReadableLoggingProvider func() bool
	Discoverer                   RepositoryDiscoverer
	GitExecutor                  shared.GitExecutor
	GitManager                   GitRepositoryManager
	FileSystem                   FileSystem
	Clock                        Clock
	CommandEventsObserver        execshell.CommandEventObserver
}

// Build constructs the cobra command for the repository status scan.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortConstant,
		Long:  commandLongConstant,
		Args:  cobra.MaximumNArgs(1),
		RunE:  builder.run,
	}

	command.Flags().BoolP(flagLocalOnlyName, flagLocalOnlyShorthand, false, flagLocalOnlyDescription)
	command.Flags().BoolP(flagDeepName, flagDeepShorthand, false, flagDeepDescription)
	command.Flags().BoolP(flagQuietName, flagQuietShorthand, false, flagQuietDescription)
	command.Flags().BoolP(flagSequentialName, flagSequentialShorthand, false, flagSequentialDescription)
	command.Flags().Bool(flagNoColorName, false, flagNoColorDescription)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	options := builder.parseOptions(command, arguments)

	logger := builder.resolveLogger()
	gitExecutor, executorError := dependencies.ResolveGitExecutor(builder.GitExecutor, logger, builder.resolveCommandEventsObserver(logger))
	if executorError != nil {
		return executorError
	}

	gitManager := builder.GitManager
	if gitManager == nil {
		resolvedManager, managerError := dependencies.ResolveGitRepositoryManager(nil, gitExecutor)
		if managerError != nil {
			return managerError
		}
		gitManager = resolvedManager
	}

	maximumTraversalDepth := shallowTraversalDepthConstant
	if options.Deep {
		maximumTraversalDepth = discovery.UnboundedTraversalDepth
	}
	var discoverer RepositoryDiscoverer = builder.Discoverer
	if discoverer == nil {
		discoverer = dependencies.ResolveRepositoryDiscoverer(nil, maximumTraversalDepth)
	}

	var fileSystem FileSystem = builder.FileSystem
	if fileSystem == nil {
		fileSystem = dependencies.ResolveFileSystem(nil)
	}

	var clock Clock = builder.Clock
	if clock == nil {
		clock = dependencies.ResolveClock(nil)
	}

	service := NewService(logger, discoverer, gitManager, fileSystem, clock, command.OutOrStdout())
	return service.Run(command.Context(), options)
}

// parseOptions merges configured defaults with explicitly set flags and the
// optional positional root argument.
func (builder *CommandBuilder) parseOptions(command *cobra.Command, arguments []string) CommandOptions {
	configuration := builder.resolveConfiguration().sanitize()

	options := CommandOptions{
		Root:                configuration.Root,
		Deep:                configuration.Deep,
		LocalOnly:           configuration.LocalOnly,
		Quiet:               configuration.Quiet,
		Sequential:          configuration.Sequential,
		NoColor:             configuration.NoColor,
		ProbeTimeoutSeconds: configuration.ProbeTimeoutSeconds,
	}

	if len(arguments) > 0 {
		options.Root = arguments[0]
	}
	if command.Flags().Changed(flagLocalOnlyName) {
		options.LocalOnly, _ = command.Flags().GetBool(flagLocalOnlyName)
	}
	if command.Flags().Changed(flagDeepName) {
		options.Deep, _ = command.Flags().GetBool(flagDeepName)
	}
	if command.Flags().Changed(flagQuietName) {
		options.Quiet, _ = command.Flags().GetBool(flagQuietName)
	}
	if command.Flags().Changed(flagSequentialName) {
		options.Sequential, _ = command.Flags().GetBool(flagSequentialName)
	}
	if command.Flags().Changed(flagNoColorName) {
		options.NoColor, _ = command.Flags().GetBool(flagNoColorName)
	}

	return options
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider()
}

// resolveCommandEventsObserver surfaces command lifecycle events on the
// console when human-readable logging is configured.
func (builder *CommandBuilder) resolveCommandEventsObserver(logger *zap.Logger) execshell.CommandEventObserver {
	if builder.CommandEventsObserver != nil {
		return builder.CommandEventsObserver
	}
	if builder.HumanReadableLoggingProvider != nil && builder.HumanReadableLoggingProvider() {
		return ui.NewConsoleCommandEventLogger(logger)
	}
	return nil
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
