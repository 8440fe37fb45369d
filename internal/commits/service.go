package commits

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/depscout/internal/execshell"
)

const (
	gitRevParseSubcommandConstant        = "rev-parse"
	gitAbbrevRefFlagConstant             = "--abbrev-ref"
	gitShortFlagConstant                 = "--short"
	gitHeadReferenceConstant             = "HEAD"
	gitLogSubcommandConstant             = "log"
	gitLogFormatFlagConstant             = "--pretty=format:%h %s"
	gitMergeBaseSubcommandConstant       = "merge-base"
	gitIsAncestorFlagConstant            = "--is-ancestor"
	remoteReferenceTemplateConstant      = "remotes/%s/%s"
	gitTerminalPromptVariableConstant    = "GIT_TERMINAL_PROMPT"
	gitTerminalPromptDisabledConstant    = "0"
	commitLineFieldCountConstant         = 2
	serviceExecutorMissingMessage        = "commit audit service requires a git executor"
	boundaryNotFoundTemplateConstant     = "boundary commit %s from %s never appears in the log of %s"
	auditStartedMessageConstant          = "auditing tracked branch"
	auditBoundaryResolvedMessageConstant = "resolved upstream boundary"
	logFieldRepositoryPathConstant       = "repository_path"
	logFieldTrackedBranchConstant        = "tracked_branch"
	logFieldUpstreamBranchConstant       = "upstream_branch"
	logFieldBoundaryCommitConstant       = "boundary_commit"
	logFieldLocalBranchConstant          = "local_branch"
)

// ErrExecutorNotConfigured indicates the service was constructed without a git executor.
var ErrExecutorNotConfigured = errors.New(serviceExecutorMissingMessage)

// GitExecutor exposes the subset of shell execution used by the commit audit.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// CommitRecord is a single logged commit, newest first in listings.
type CommitRecord struct {
	SHA     string `json:"sha"`
	Subject string `json:"subject"`
}

// MissingCommitReport lists the tracked-branch commits absent from the current
// local branch, along with the link base for clickable references.
type MissingCommitReport struct {
	TrackedBranch  string         `json:"tracked_branch"`
	WebURLBase     string         `json:"web_url_base"`
	MissingCommits []CommitRecord `json:"missing_commits"`
}

// BoundaryNotFoundError reports an upstream boundary commit that never appears
// in the tracked branch log, which would otherwise leave the audit unbounded.
type BoundaryNotFoundError struct {
	BoundaryCommit string
	UpstreamRef    string
	TrackedRef     string
}

// Error describes the missing boundary.
func (boundaryError BoundaryNotFoundError) Error() string {
	return fmt.Sprintf(boundaryNotFoundTemplateConstant, boundaryError.BoundaryCommit, boundaryError.UpstreamRef, boundaryError.TrackedRef)
}

// Service audits remote-tracking branches for commits missing locally.
type Service struct {
	gitExecutor        GitExecutor
	logger             *zap.Logger
	originRemoteName   string
	upstreamRemoteName string
}

// NewService constructs a commit audit service.
func NewService(gitExecutor GitExecutor, logger *zap.Logger, originRemoteName string, upstreamRemoteName string) (*Service, error) {
	if gitExecutor == nil {
		return nil, ErrExecutorNotConfigured
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		gitExecutor:        gitExecutor,
		logger:             logger,
		originRemoteName:   originRemoteName,
		upstreamRemoteName: upstreamRemoteName,
	}, nil
}

// Audit lists the commits present on the tracked remote branch but absent from
// the current local branch, bounded by the upstream reference branch tip.
func (service *Service) Audit(executionContext context.Context, repositoryPath string, trackedBranch string, upstreamBranch string) (MissingCommitReport, error) {
	originRemote, configError := ReadOriginRemote(repositoryPath)
	if configError != nil {
		return MissingCommitReport{}, configError
	}

	service.logger.Debug(
		auditStartedMessageConstant,
		zap.String(logFieldRepositoryPathConstant, repositoryPath),
		zap.String(logFieldTrackedBranchConstant, trackedBranch),
		zap.String(logFieldUpstreamBranchConstant, upstreamBranch),
	)

	localBranch, localBranchError := service.resolveCurrentBranch(executionContext, repositoryPath)
	if localBranchError != nil {
		return MissingCommitReport{}, localBranchError
	}

	upstreamReference := fmt.Sprintf(remoteReferenceTemplateConstant, service.upstreamRemoteName, upstreamBranch)
	boundaryCommit, boundaryError := service.resolveShortRevision(executionContext, repositoryPath, upstreamReference)
	if boundaryError != nil {
		return MissingCommitReport{}, boundaryError
	}

	service.logger.Debug(
		auditBoundaryResolvedMessageConstant,
		zap.String(logFieldBoundaryCommitConstant, boundaryCommit),
		zap.String(logFieldLocalBranchConstant, localBranch),
	)

	trackedReference := fmt.Sprintf(remoteReferenceTemplateConstant, service.originRemoteName, trackedBranch)
	trackedCommits, logError := service.listCommits(executionContext, repositoryPath, trackedReference)
	if logError != nil {
		return MissingCommitReport{}, logError
	}

	extraCommits, truncateError := truncateAtBoundary(trackedCommits, boundaryCommit, upstreamReference, trackedReference)
	if truncateError != nil {
		return MissingCommitReport{}, truncateError
	}

	var missingCommits []CommitRecord
	for _, extraCommit := range extraCommits {
		contained, containmentError := service.branchContainsCommit(executionContext, repositoryPath, extraCommit.SHA, localBranch)
		if containmentError != nil {
			return MissingCommitReport{}, containmentError
		}
		if !contained {
			missingCommits = append(missingCommits, extraCommit)
		}
	}

	return MissingCommitReport{
		TrackedBranch:  trackedBranch,
		WebURLBase:     originRemote.WebURLBase(),
		MissingCommits: missingCommits,
	}, nil
}

func (service *Service) resolveCurrentBranch(executionContext context.Context, repositoryPath string) (string, error) {
	executionResult, executionError := service.gitExecutor.ExecuteGit(executionContext, gitCommandDetails(
		repositoryPath,
		gitRevParseSubcommandConstant,
		gitAbbrevRefFlagConstant,
		gitHeadReferenceConstant,
	))
	if executionError != nil {
		return "", executionError
	}
	return strings.TrimSpace(executionResult.StandardOutput), nil
}

func (service *Service) resolveShortRevision(executionContext context.Context, repositoryPath string, reference string) (string, error) {
	executionResult, executionError := service.gitExecutor.ExecuteGit(executionContext, gitCommandDetails(
		repositoryPath,
		gitRevParseSubcommandConstant,
		gitShortFlagConstant,
		reference,
	))
	if executionError != nil {
		return "", executionError
	}
	return strings.TrimSpace(executionResult.StandardOutput), nil
}

func (service *Service) listCommits(executionContext context.Context, repositoryPath string, reference string) ([]CommitRecord, error) {
	executionResult, executionError := service.gitExecutor.ExecuteGit(executionContext, gitCommandDetails(
		repositoryPath,
		gitLogSubcommandConstant,
		gitLogFormatFlagConstant,
		reference,
	))
	if executionError != nil {
		return nil, executionError
	}

	var commitRecords []CommitRecord
	for _, logLine := range strings.Split(executionResult.StandardOutput, "\n") {
		trimmedLine := strings.TrimSpace(logLine)
		if len(trimmedLine) == 0 {
			continue
		}
		lineFields := strings.SplitN(trimmedLine, " ", commitLineFieldCountConstant)
		commitRecord := CommitRecord{SHA: lineFields[0]}
		if len(lineFields) == commitLineFieldCountConstant {
			commitRecord.Subject = lineFields[1]
		}
		commitRecords = append(commitRecords, commitRecord)
	}
	return commitRecords, nil
}

func (service *Service) branchContainsCommit(executionContext context.Context, repositoryPath string, commitSHA string, branchName string) (bool, error) {
	_, executionError := service.gitExecutor.ExecuteGit(executionContext, gitCommandDetails(
		repositoryPath,
		gitMergeBaseSubcommandConstant,
		gitIsAncestorFlagConstant,
		commitSHA,
		branchName,
	))
	if executionError == nil {
		return true, nil
	}
	if execshell.NegativeContainmentExitCode(executionError) {
		return false, nil
	}
	return false, executionError
}

// truncateAtBoundary discards the boundary commit and everything after it in
// the newest-first log. A boundary that never appears is an error rather than
// an unbounded audit.
func truncateAtBoundary(commitRecords []CommitRecord, boundaryCommit string, upstreamReference string, trackedReference string) ([]CommitRecord, error) {
	for recordIndex, commitRecord := range commitRecords {
		if commitRecord.SHA == boundaryCommit {
			return commitRecords[:recordIndex], nil
		}
	}
	return nil, BoundaryNotFoundError{
		BoundaryCommit: boundaryCommit,
		UpstreamRef:    upstreamReference,
		TrackedRef:     trackedReference,
	}
}

func gitCommandDetails(repositoryPath string, arguments ...string) execshell.CommandDetails {
	return execshell.CommandDetails{
		Arguments:        arguments,
		WorkingDirectory: repositoryPath,
		EnvironmentVariables: map[string]string{
			gitTerminalPromptVariableConstant: gitTerminalPromptDisabledConstant,
		},
	}
}
