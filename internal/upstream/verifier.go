package upstream

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/temirov/depscout/internal/lockfile"
)

const (
	upstreamQueryErrorTemplateConstant   = "upstream query failed for %s: %s"
	resolverNotConfiguredMessageConstant = "verifier requires a commit resolver"
	verificationFailedMessageConstant    = "upstream verification failed"
	logFieldSourceConstant               = "source"
)

// ErrResolverNotConfigured indicates the verifier was constructed without a resolver.
var ErrResolverNotConfigured = errors.New(resolverNotConfiguredMessageConstant)

// MismatchReport records a locked commit that is no longer the branch tip.
type MismatchReport struct {
	Owner       string `json:"owner"`
	Repo        string `json:"repo"`
	Branch      string `json:"branch"`
	ExpectedSHA string `json:"expected_sha"`
	ActualSHA   string `json:"actual_sha"`
}

// UpstreamQueryError reports a hosting API query that failed for a source.
type UpstreamQueryError struct {
	Source string
	Cause  error
}

// Error describes the failed query including the originating source string.
func (queryError UpstreamQueryError) Error() string {
	return fmt.Sprintf(upstreamQueryErrorTemplateConstant, queryError.Source, queryError.Cause)
}

// Unwrap exposes the underlying query error.
func (queryError UpstreamQueryError) Unwrap() error {
	return queryError.Cause
}

// Verifier cross-checks locked branch-tracked sources against their hosting API tips.
type Verifier struct {
	resolver        CommitResolver
	logger          *zap.Logger
	continueOnError bool
}

// VerifierOptions configures verification behavior.
type VerifierOptions struct {
	// ContinueOnError keeps verifying remaining sources after a query failure;
	// collected failures are returned joined once verification completes.
	ContinueOnError bool
}

// NewVerifier constructs a Verifier around a commit resolver.
func NewVerifier(resolver CommitResolver, logger *zap.Logger, options VerifierOptions) (*Verifier, error) {
	if resolver == nil {
		return nil, ErrResolverNotConfigured
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Verifier{resolver: resolver, logger: logger, continueOnError: options.ContinueOnError}, nil
}

// Verify evaluates every locked source matching the git source pattern and
// reports those whose pinned commit is no longer the branch tip. Sources that
// do not match the pattern (registry sources, other hosts) are skipped.
// Queries run sequentially; the first failure aborts unless continue-on-error
// was requested.
func (verifier *Verifier) Verify(executionContext context.Context, packageIndex lockfile.LockedPackageIndex) ([]MismatchReport, error) {
	sourceKeys := make([]string, 0, len(packageIndex))
	for sourceKey := range packageIndex {
		sourceKeys = append(sourceKeys, sourceKey)
	}
	sort.Strings(sourceKeys)

	var mismatchReports []MismatchReport
	var queryErrors []error

	for _, sourceKey := range sourceKeys {
		sourceSpec, matchesPattern := ParseGitSourceSpec(sourceKey)
		if !matchesPattern {
			continue
		}

		actualSHA, resolveError := verifier.resolver.ResolveBranchTipSHA(executionContext, sourceSpec.Owner, sourceSpec.Repo, sourceSpec.Branch)
		if resolveError != nil {
			queryError := UpstreamQueryError{Source: sourceKey, Cause: resolveError}
			if !verifier.continueOnError {
				return nil, queryError
			}
			verifier.logger.Warn(verificationFailedMessageConstant, zap.String(logFieldSourceConstant, sourceKey), zap.Error(queryError))
			queryErrors = append(queryErrors, queryError)
			continue
		}

		if actualSHA == sourceSpec.PinnedSHA {
			continue
		}

		mismatchReports = append(mismatchReports, MismatchReport{
			Owner:       sourceSpec.Owner,
			Repo:        sourceSpec.Repo,
			Branch:      sourceSpec.Branch,
			ExpectedSHA: sourceSpec.PinnedSHA,
			ActualSHA:   actualSHA,
		})
	}

	return mismatchReports, errors.Join(queryErrors...)
}
