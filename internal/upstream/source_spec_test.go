package upstream_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/depscout/internal/upstream"
)

func TestParseGitSourceSpec(testInstance *testing.T) {
	testCases := []struct {
		name        string
		source      string
		expected    upstream.GitSourceSpec
		expectMatch bool
	}{
		{
			name:        "plain_repository",
			source:      "git+https://github.com/acme/widgets?branch=dev#0123abc",
			expected:    upstream.GitSourceSpec{Owner: "acme", Repo: "widgets", Branch: "dev", PinnedSHA: "0123abc"},
			expectMatch: true,
		},
		{
			name:        "git_suffix_repository",
			source:      "git+https://github.com/acme/widgets.git?branch=main#deadbeef",
			expected:    upstream.GitSourceSpec{Owner: "acme", Repo: "widgets", Branch: "main", PinnedSHA: "deadbeef"},
			expectMatch: true,
		},
		{
			name:        "registry_source",
			source:      "registry+https://github.com/rust-lang/crates.io-index",
			expectMatch: false,
		},
		{
			name:        "non_github_git_host",
			source:      "git+https://gitlab.com/acme/widgets?branch=dev#0123abc",
			expectMatch: false,
		},
		{
			name:        "missing_branch_parameter",
			source:      "git+https://github.com/acme/widgets#0123abc",
			expectMatch: false,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			sourceSpec, matched := upstream.ParseGitSourceSpec(testCase.source)
			require.Equal(testInstance, testCase.expectMatch, matched)
			if testCase.expectMatch {
				require.Equal(testInstance, testCase.expected, sourceSpec)
			}
		})
	}
}
