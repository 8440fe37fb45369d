package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	manifestFixtureConstant = "[dependencies]\n" +
		"foo = { git = \"https://github.com/acme/widgets\", branch = \"dev\" }\n"
	expectedIndexKeyLineConstant = "https://github.com/acme/widgets#dev\n"
)

func executeApplication(testInstance *testing.T, arguments ...string) (string, error) {
	testInstance.Helper()

	application := NewApplication()

	var outputBuffer bytes.Buffer
	application.rootCommand.SetOut(&outputBuffer)
	application.rootCommand.SetErr(new(bytes.Buffer))
	application.rootCommand.SetArgs(arguments)

	executionError := application.Execute()
	return outputBuffer.String(), executionError
}

func TestApplicationExecutesDepsSubcommand(testInstance *testing.T) {
	projectRoot := testInstance.TempDir()
	require.NoError(testInstance, os.WriteFile(filepath.Join(projectRoot, "Cargo.toml"), []byte(manifestFixtureConstant), 0o644))

	commandOutput, executionError := executeApplication(testInstance, "deps", projectRoot)

	require.NoError(testInstance, executionError)
	require.Equal(testInstance, expectedIndexKeyLineConstant, commandOutput)
}

func TestApplicationShowsHelpWithoutSubcommand(testInstance *testing.T) {
	commandOutput, executionError := executeApplication(testInstance)

	require.NoError(testInstance, executionError)
	require.Contains(testInstance, commandOutput, "deps")
	require.Contains(testInstance, commandOutput, "commits")
}

func TestApplicationRejectsUnknownSubcommand(testInstance *testing.T) {
	_, executionError := executeApplication(testInstance, "unknown-subcommand")
	require.Error(testInstance, executionError)
}

func TestApplicationRejectsCommitsWithWrongArity(testInstance *testing.T) {
	_, executionError := executeApplication(testInstance, "commits", ".")
	require.Error(testInstance, executionError)
}

func TestApplicationRejectsInvalidLogLevel(testInstance *testing.T) {
	_, executionError := executeApplication(testInstance, "--log-level", "noisy", "deps", testInstance.TempDir())
	require.Error(testInstance, executionError)
}
