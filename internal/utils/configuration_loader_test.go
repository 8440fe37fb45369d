package utils_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/depscout/internal/utils"
)

const (
	testConfigurationNameConstant     = "config"
	testConfigurationTypeConstant     = "yaml"
	testEnvironmentPrefixConstant     = "DEPSCOUTTEST"
	testConfigurationFileNameConstant = "config.yaml"
	testConfigurationContentConstant  = "common:\n  log_level: debug\ntools:\n  deps:\n    lockfile_filename: Custom.lock\n"
)

type loaderTestConfiguration struct {
	Common struct {
		LogLevel string `mapstructure:"log_level"`
	} `mapstructure:"common"`
	Tools struct {
		Deps struct {
			LockfileFilename string `mapstructure:"lockfile_filename"`
		} `mapstructure:"deps"`
	} `mapstructure:"tools"`
}

func TestLoadConfigurationAppliesDefaultsAndFileValues(testInstance *testing.T) {
	temporaryDirectory := testInstance.TempDir()
	configurationFilePath := filepath.Join(temporaryDirectory, testConfigurationFileNameConstant)
	require.NoError(testInstance, os.WriteFile(configurationFilePath, []byte(testConfigurationContentConstant), 0o600))

	loader := utils.NewConfigurationLoader(
		testConfigurationNameConstant,
		testConfigurationTypeConstant,
		testEnvironmentPrefixConstant,
		[]string{temporaryDirectory},
	)

	defaultValues := map[string]any{
		"common.log_level":             "info",
		"tools.deps.lockfile_filename": "Cargo.lock",
	}

	var configuration loaderTestConfiguration
	loadedConfiguration, loadError := loader.LoadConfiguration(configurationFilePath, defaultValues, &configuration)
	require.NoError(testInstance, loadError)
	require.Equal(testInstance, configurationFilePath, loadedConfiguration.ConfigFileUsed)
	require.Equal(testInstance, "debug", configuration.Common.LogLevel)
	require.Equal(testInstance, "Custom.lock", configuration.Tools.Deps.LockfileFilename)
}

func TestLoadConfigurationWithoutFileUsesDefaults(testInstance *testing.T) {
	temporaryDirectory := testInstance.TempDir()

	loader := utils.NewConfigurationLoader(
		testConfigurationNameConstant,
		testConfigurationTypeConstant,
		testEnvironmentPrefixConstant,
		[]string{temporaryDirectory},
	)

	defaultValues := map[string]any{
		"common.log_level": "warn",
	}

	var configuration loaderTestConfiguration
	loadedConfiguration, loadError := loader.LoadConfiguration("", defaultValues, &configuration)
	require.NoError(testInstance, loadError)
	require.Empty(testInstance, loadedConfiguration.ConfigFileUsed)
	require.Equal(testInstance, "warn", configuration.Common.LogLevel)
}
