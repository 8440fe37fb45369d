package deps

import (
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/depscout/internal/manifest"
	"github.com/temirov/depscout/internal/report"
	"github.com/temirov/depscout/internal/upstream"
)

const (
	commandUseConstant   = "deps [path]"
	commandShortConstant = "Index git-hosted dependencies declared in cargo manifests"
	commandLongConstant  = "deps walks the target directory for cargo manifests and groups their " +
		"git-sourced dependencies by repository and branch. With --lock it also parses the " +
		"lockfile and cross-checks every pinned branch commit against the hosting API."
	flagLockNameConstant         = "lock"
	flagLockShorthandConstant    = "l"
	flagLockDescriptionConstant  = "also scan the lockfile and verify pinned branch commits upstream"
	flagVerboseNameConstant      = "verbose"
	flagVerboseShorthandConstant = "v"
	flagVerboseDescription       = "print full indexes as JSON instead of grouping keys"
	maximumArgumentCountConstant = 1
	defaultRootDirectoryConstant = "."
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider returns the current dependency scan configuration.
type ConfigurationProvider func() CommandConfiguration

// CommandBuilder assembles the deps cobra command with configurable dependencies.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider ConfigurationProvider
	CommitResolver        upstream.CommitResolver
}

// Build constructs the cobra command for the dependency scan.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortConstant,
		Long:  commandLongConstant,
		Args:  cobra.MaximumNArgs(maximumArgumentCountConstant),
		RunE:  builder.run,
	}

	command.Flags().BoolP(flagLockNameConstant, flagLockShorthandConstant, false, flagLockDescriptionConstant)
	command.Flags().BoolP(flagVerboseNameConstant, flagVerboseShorthandConstant, false, flagVerboseDescription)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	logger := builder.resolveLogger()
	configuration := builder.resolveConfiguration()

	includeLockfile, _ := command.Flags().GetBool(flagLockNameConstant)
	verboseOutput, _ := command.Flags().GetBool(flagVerboseNameConstant)

	rootDirectory := defaultRootDirectoryConstant
	if len(arguments) > 0 {
		rootDirectory = arguments[0]
	}

	manifestScanner := manifest.NewScannerWithManifestFileName(configuration.ManifestFilename)
	printer := report.NewPrinter(command.OutOrStdout())

	service, serviceError := NewService(
		manifestScanner,
		builder.resolveCommitResolver(configuration),
		printer,
		logger,
		configuration,
	)
	if serviceError != nil {
		return serviceError
	}

	return service.Run(command.Context(), ServiceOptions{
		RootDirectory:   rootDirectory,
		IncludeLockfile: includeLockfile,
		Verbose:         verboseOutput,
	})
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

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	configuration := DefaultCommandConfiguration()
	if builder.ConfigurationProvider != nil {
		configuration = builder.ConfigurationProvider()
	}
	return configuration.sanitize()
}

func (builder *CommandBuilder) resolveCommitResolver(configuration CommandConfiguration) upstream.CommitResolver {
	if builder.CommitResolver != nil {
		return builder.CommitResolver
	}
	requestTimeout := time.Duration(configuration.RequestTimeoutSeconds) * time.Second
	return upstream.NewGitHubClient(configuration.APIBaseURL, requestTimeout)
}
