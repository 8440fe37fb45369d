package upstream_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/temirov/depscout/internal/lockfile"
	"github.com/temirov/depscout/internal/upstream"
)

const (
	testTrackedSourceConstant    = "git+https://github.com/acme/widgets?branch=dev#abc123"
	testSecondarySourceConstant  = "git+https://github.com/acme/gadgets?branch=main#def456"
	testRegistrySourceConstant   = "registry+https://github.com/rust-lang/crates.io-index"
	testMatchingBranchTipSHA     = "abc123"
	testDivergedBranchTipSHA     = "def456"
)

type stubCommitResolver struct {
	branchTips    map[string]string
	resolveErrors map[string]error
	queries       []string
}

func (resolver *stubCommitResolver) ResolveBranchTipSHA(executionContext context.Context, owner string, repository string, branch string) (string, error) {
	queryKey := owner + "/" + repository + "@" + branch
	resolver.queries = append(resolver.queries, queryKey)
	if resolveError, hasError := resolver.resolveErrors[queryKey]; hasError {
		return "", resolveError
	}
	return resolver.branchTips[queryKey], nil
}

func TestVerifierRequiresResolver(testInstance *testing.T) {
	verifier, creationError := upstream.NewVerifier(nil, zap.NewNop(), upstream.VerifierOptions{})
	require.Nil(testInstance, verifier)
	require.ErrorIs(testInstance, creationError, upstream.ErrResolverNotConfigured)
}

func TestVerifyReportsNoMismatchForMatchingTip(testInstance *testing.T) {
	resolver := &stubCommitResolver{branchTips: map[string]string{"acme/widgets@dev": testMatchingBranchTipSHA}}
	verifier, creationError := upstream.NewVerifier(resolver, zap.NewNop(), upstream.VerifierOptions{})
	require.NoError(testInstance, creationError)

	packageIndex := lockfile.LockedPackageIndex{testTrackedSourceConstant: {"widgets"}}

	mismatchReports, verifyError := verifier.Verify(context.Background(), packageIndex)
	require.NoError(testInstance, verifyError)
	require.Empty(testInstance, mismatchReports)
}

func TestVerifyReportsSingleMismatchForDivergedTip(testInstance *testing.T) {
	resolver := &stubCommitResolver{branchTips: map[string]string{"acme/widgets@dev": testDivergedBranchTipSHA}}
	verifier, creationError := upstream.NewVerifier(resolver, zap.NewNop(), upstream.VerifierOptions{})
	require.NoError(testInstance, creationError)

	packageIndex := lockfile.LockedPackageIndex{testTrackedSourceConstant: {"widgets"}}

	mismatchReports, verifyError := verifier.Verify(context.Background(), packageIndex)
	require.NoError(testInstance, verifyError)
	require.Equal(testInstance, []upstream.MismatchReport{
		{
			Owner:       "acme",
			Repo:        "widgets",
			Branch:      "dev",
			ExpectedSHA: "abc123",
			ActualSHA:   testDivergedBranchTipSHA,
		},
	}, mismatchReports)
}

func TestVerifySkipsSourcesOutsideTheGitPattern(testInstance *testing.T) {
	resolver := &stubCommitResolver{branchTips: map[string]string{}}
	verifier, creationError := upstream.NewVerifier(resolver, zap.NewNop(), upstream.VerifierOptions{})
	require.NoError(testInstance, creationError)

	packageIndex := lockfile.LockedPackageIndex{
		testRegistrySourceConstant: {"alpha", "beta"},
		"null":                     {"workspace-member"},
	}

	mismatchReports, verifyError := verifier.Verify(context.Background(), packageIndex)
	require.NoError(testInstance, verifyError)
	require.Empty(testInstance, mismatchReports)
	require.Empty(testInstance, resolver.queries)
}

func TestVerifyAbortsOnFirstQueryFailure(testInstance *testing.T) {
	resolver := &stubCommitResolver{
		resolveErrors: map[string]error{"acme/gadgets@main": errors.New("boom")},
		branchTips:    map[string]string{"acme/widgets@dev": testMatchingBranchTipSHA},
	}
	verifier, creationError := upstream.NewVerifier(resolver, zap.NewNop(), upstream.VerifierOptions{})
	require.NoError(testInstance, creationError)

	packageIndex := lockfile.LockedPackageIndex{
		testTrackedSourceConstant:   {"widgets"},
		testSecondarySourceConstant: {"gadgets"},
	}

	mismatchReports, verifyError := verifier.Verify(context.Background(), packageIndex)
	require.Error(testInstance, verifyError)
	require.Nil(testInstance, mismatchReports)

	var queryError upstream.UpstreamQueryError
	require.ErrorAs(testInstance, verifyError, &queryError)
	require.Equal(testInstance, testSecondarySourceConstant, queryError.Source)

	// Sources are evaluated in sorted order, so the gadgets failure is first
	// and the widgets source is never queried.
	require.Equal(testInstance, []string{"acme/gadgets@main"}, resolver.queries)
}

func TestVerifyContinueOnErrorCollectsFailuresAndKeepsVerifying(testInstance *testing.T) {
	resolver := &stubCommitResolver{
		resolveErrors: map[string]error{"acme/gadgets@main": errors.New("boom")},
		branchTips:    map[string]string{"acme/widgets@dev": testDivergedBranchTipSHA},
	}
	verifier, creationError := upstream.NewVerifier(resolver, zap.NewNop(), upstream.VerifierOptions{ContinueOnError: true})
	require.NoError(testInstance, creationError)

	packageIndex := lockfile.LockedPackageIndex{
		testTrackedSourceConstant:   {"widgets"},
		testSecondarySourceConstant: {"gadgets"},
	}

	mismatchReports, verifyError := verifier.Verify(context.Background(), packageIndex)
	require.Error(testInstance, verifyError)
	require.Len(testInstance, mismatchReports, 1)
	require.Equal(testInstance, "widgets", mismatchReports[0].Repo)
	require.Equal(testInstance, []string{"acme/gadgets@main", "acme/widgets@dev"}, resolver.queries)
}
