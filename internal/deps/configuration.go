package deps

import "strings"

const (
	configurationManifestFilenameKeyConstant = "manifest_filename"
	configurationLockfileFilenameKeyConstant = "lockfile_filename"
	configurationAPIBaseURLKeyConstant       = "api_base_url"
	configurationRequestTimeoutKeyConstant   = "request_timeout_seconds"
	configurationContinueOnErrorKeyConstant  = "continue_on_error"
	defaultManifestFilenameConstant          = "Cargo.toml"
	defaultLockfileFilenameConstant          = "Cargo.lock"
	defaultAPIBaseURLConstant                = "https://api.github.com"
	defaultRequestTimeoutSecondsConstant     = 30
	configurationKeySeparatorConstant        = "."
)

// CommandConfiguration captures the configurable dependency scan parameters.
type CommandConfiguration struct {
	ManifestFilename      string `mapstructure:"manifest_filename"`
	LockfileFilename      string `mapstructure:"lockfile_filename"`
	APIBaseURL            string `mapstructure:"api_base_url"`
	RequestTimeoutSeconds int    `mapstructure:"request_timeout_seconds"`
	ContinueOnError       bool   `mapstructure:"continue_on_error"`
}

// DefaultCommandConfiguration returns baseline values for the dependency scan.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		ManifestFilename:      defaultManifestFilenameConstant,
		LockfileFilename:      defaultLockfileFilenameConstant,
		APIBaseURL:            defaultAPIBaseURLConstant,
		RequestTimeoutSeconds: defaultRequestTimeoutSecondsConstant,
		ContinueOnError:       false,
	}
}

// DefaultConfigurationValues produces Viper defaults for the dependency scan command.
func DefaultConfigurationValues(rootKey string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		rootKey + configurationKeySeparatorConstant + configurationManifestFilenameKeyConstant: defaults.ManifestFilename,
		rootKey + configurationKeySeparatorConstant + configurationLockfileFilenameKeyConstant: defaults.LockfileFilename,
		rootKey + configurationKeySeparatorConstant + configurationAPIBaseURLKeyConstant:       defaults.APIBaseURL,
		rootKey + configurationKeySeparatorConstant + configurationRequestTimeoutKeyConstant:   defaults.RequestTimeoutSeconds,
		rootKey + configurationKeySeparatorConstant + configurationContinueOnErrorKeyConstant:  defaults.ContinueOnError,
	}
}

// sanitize normalizes configuration values, falling back to defaults for blank
// or non-positive entries.
func (configuration CommandConfiguration) sanitize() CommandConfiguration {
	sanitized := configuration
	sanitized.ManifestFilename = strings.TrimSpace(configuration.ManifestFilename)
	if len(sanitized.ManifestFilename) == 0 {
		sanitized.ManifestFilename = defaultManifestFilenameConstant
	}
	sanitized.LockfileFilename = strings.TrimSpace(configuration.LockfileFilename)
	if len(sanitized.LockfileFilename) == 0 {
		sanitized.LockfileFilename = defaultLockfileFilenameConstant
	}
	sanitized.APIBaseURL = strings.TrimSpace(configuration.APIBaseURL)
	if sanitized.RequestTimeoutSeconds <= 0 {
		sanitized.RequestTimeoutSeconds = defaultRequestTimeoutSecondsConstant
	}
	return sanitized
}
