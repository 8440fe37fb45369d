package gitrepo_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/depscout/internal/gitrepo"
)

func TestParseGitHubRemoteURL(testInstance *testing.T) {
	testCases := []struct {
		name        string
		remote      string
		expected    gitrepo.RemoteURL
		expectError bool
	}{
		{
			name:     "https_with_git_suffix",
			remote:   "https://github.com/octocat/hello-world.git",
			expected: gitrepo.RemoteURL{Host: "github.com", Owner: "octocat", Repository: "hello-world"},
		},
		{
			name:     "https_without_git_suffix",
			remote:   "https://github.com/octocat/hello-world",
			expected: gitrepo.RemoteURL{Host: "github.com", Owner: "octocat", Repository: "hello-world"},
		},
		{
			name:     "ssh_scp_style",
			remote:   "git@github.com:octocat/hello-world.git",
			expected: gitrepo.RemoteURL{Host: "github.com", Owner: "octocat", Repository: "hello-world"},
		},
		{
			name:     "ssh_protocol_prefix",
			remote:   "ssh://git@github.com/octocat/hello-world.git",
			expected: gitrepo.RemoteURL{Host: "github.com", Owner: "octocat", Repository: "hello-world"},
		},
		{
			name:     "git_protocol",
			remote:   "git://github.com/octocat/hello-world.git",
			expected: gitrepo.RemoteURL{Host: "github.com", Owner: "octocat", Repository: "hello-world"},
		},
		{
			name:        "non_github_host",
			remote:      "https://gitlab.com/octocat/hello-world.git",
			expectError: true,
		},
		{
			name:        "empty_remote",
			remote:      "   ",
			expectError: true,
		},
		{
			name:        "missing_repository_segment",
			remote:      "https://github.com/octocat",
			expectError: true,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			parsedRemote, parseError := gitrepo.ParseGitHubRemoteURL(testCase.remote)
			if testCase.expectError {
				require.Error(testInstance, parseError)
				return
			}
			require.NoError(testInstance, parseError)
			require.Equal(testInstance, testCase.expected, parsedRemote)
		})
	}
}

func TestWebURLBase(testInstance *testing.T) {
	remote := gitrepo.RemoteURL{Host: "github.com", Owner: "octocat", Repository: "hello-world"}
	require.Equal(testInstance, "https://github.com/octocat/hello-world", remote.WebURLBase())
}
