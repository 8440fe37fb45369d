package commits_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/depscout/internal/commits"
)

func TestCommandRejectsWrongArgumentCount(testInstance *testing.T) {
	testCases := []struct {
		name      string
		arguments []string
	}{
		{name: "no_arguments", arguments: []string{}},
		{name: "missing_upstream_branch", arguments: []string{".", trackedBranchNameConstant}},
		{name: "extra_argument", arguments: []string{".", trackedBranchNameConstant, upstreamBranchNameConstant, "surplus"}},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			builder := &commits.CommandBuilder{GitExecutor: &stubGitExecutor{}}
			command, buildError := builder.Build()
			require.NoError(testInstance, buildError)

			command.SetOut(new(bytes.Buffer))
			command.SetErr(new(bytes.Buffer))
			command.SetArgs(testCase.arguments)

			require.Error(testInstance, command.Execute())
		})
	}
}

func TestCommandPrintsMissingCommitsWithLinks(testInstance *testing.T) {
	repositoryPath := writeRepositoryConfig(testInstance, gitConfigWithOriginConstant)

	gitExecutor := &stubGitExecutor{
		outputs: map[string]string{
			currentBranchCommandKey: localBranchNameConstant + "\n",
			boundaryCommandKey:      "c1\n",
			trackedLogCommandKey:    "c3 Add feature\nc2 Fix bug\nc1 Initial commit",
		},
		failures: map[string]error{
			containsNewestCommandKey: containmentFailure("merge-base", "--is-ancestor", "c3", localBranchNameConstant),
		},
	}

	builder := &commits.CommandBuilder{GitExecutor: gitExecutor}
	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	var outputBuffer bytes.Buffer
	command.SetOut(&outputBuffer)
	command.SetErr(new(bytes.Buffer))
	command.SetArgs([]string{repositoryPath, trackedBranchNameConstant, upstreamBranchNameConstant})

	require.NoError(testInstance, command.Execute())

	expectedOutput := "1 commit(s) on release missing from the current branch:\n" +
		"  c3  https://github.com/acme/widgets/commit/c3  Add feature\n"
	require.Equal(testInstance, expectedOutput, outputBuffer.String())
}

func TestCommandAppliesConfiguredRemoteNames(testInstance *testing.T) {
	repositoryPath := writeRepositoryConfig(testInstance, gitConfigWithOriginConstant)

	gitExecutor := &stubGitExecutor{
		outputs: map[string]string{
			currentBranchCommandKey:               localBranchNameConstant + "\n",
			"rev-parse --short remotes/fork/main": "c1\n",
			"log --pretty=format:%h %s remotes/mirror/release": "c1 Initial commit",
		},
	}

	builder := &commits.CommandBuilder{
		GitExecutor: gitExecutor,
		ConfigurationProvider: func() commits.CommandConfiguration {
			return commits.CommandConfiguration{OriginRemote: "mirror", UpstreamRemote: "fork"}
		},
	}
	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	var outputBuffer bytes.Buffer
	command.SetOut(&outputBuffer)
	command.SetErr(new(bytes.Buffer))
	command.SetArgs([]string{repositoryPath, trackedBranchNameConstant, upstreamBranchNameConstant})

	require.NoError(testInstance, command.Execute())
	require.Equal(testInstance, "no missing commits\n", outputBuffer.String())
}

func TestDefaultConfigurationValuesUsePrefix(testInstance *testing.T) {
	defaults := commits.DefaultConfigurationValues("tools.commits")
	require.Equal(testInstance, "origin", defaults["tools.commits.origin_remote"])
	require.Equal(testInstance, "upstream", defaults["tools.commits.upstream_remote"])
}
