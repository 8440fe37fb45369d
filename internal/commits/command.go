package commits

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/depscout/internal/execshell"
	"github.com/temirov/depscout/internal/report"
)

const (
	commandUseConstant   = "commits <path> <tracked-branch> <upstream-branch>"
	commandShortConstant = "Report remote-tracking commits missing from the current branch"
	commandLongConstant  = "commits lists the commits present on the tracked remote branch but absent " +
		"from the current local branch, bounded by the upstream reference branch tip."
	commandArgumentCountConstant = 3
	repositoryPathArgumentIndex  = 0
	trackedBranchArgumentIndex   = 1
	upstreamBranchArgumentIndex  = 2
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider returns the current commit audit configuration.
type ConfigurationProvider func() CommandConfiguration

// CommandBuilder assembles the commits cobra command with configurable dependencies.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider ConfigurationProvider
	GitExecutor           GitExecutor
}

// Build constructs the cobra command for the commit audit.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortConstant,
		Long:  commandLongConstant,
		Args:  cobra.ExactArgs(commandArgumentCountConstant),
		RunE:  builder.run,
	}
	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	logger := builder.resolveLogger()
	configuration := builder.resolveConfiguration()

	gitExecutor, executorError := builder.resolveGitExecutor(logger)
	if executorError != nil {
		return executorError
	}

	service, serviceError := NewService(gitExecutor, logger, configuration.OriginRemote, configuration.UpstreamRemote)
	if serviceError != nil {
		return serviceError
	}

	auditReport, auditError := service.Audit(
		command.Context(),
		arguments[repositoryPathArgumentIndex],
		arguments[trackedBranchArgumentIndex],
		arguments[upstreamBranchArgumentIndex],
	)
	if auditError != nil {
		return auditError
	}

	auditEntries := make([]report.CommitAuditEntry, 0, len(auditReport.MissingCommits))
	for _, missingCommit := range auditReport.MissingCommits {
		auditEntries = append(auditEntries, report.CommitAuditEntry{
			SHA:     missingCommit.SHA,
			Subject: missingCommit.Subject,
		})
	}

	printer := report.NewPrinter(command.OutOrStdout())
	return printer.PrintCommitAudit(auditReport.TrackedBranch, auditReport.WebURLBase, auditEntries)
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

func (builder *CommandBuilder) resolveGitExecutor(logger *zap.Logger) (GitExecutor, error) {
	if builder.GitExecutor != nil {
		return builder.GitExecutor, nil
	}
	return execshell.NewShellExecutor(logger, execshell.NewOSCommandRunner())
}
