package commits

import "strings"

const (
	configurationOriginRemoteKeyConstant   = "origin_remote"
	configurationUpstreamRemoteKeyConstant = "upstream_remote"
	defaultOriginRemoteNameConstant        = "origin"
	defaultUpstreamRemoteNameConstant      = "upstream"
	configurationKeySeparatorConstant      = "."
)

// CommandConfiguration captures the configurable remote names for the commit audit.
type CommandConfiguration struct {
	OriginRemote   string `mapstructure:"origin_remote"`
	UpstreamRemote string `mapstructure:"upstream_remote"`
}

// DefaultCommandConfiguration returns baseline remote names for the commit audit.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		OriginRemote:   defaultOriginRemoteNameConstant,
		UpstreamRemote: defaultUpstreamRemoteNameConstant,
	}
}

// DefaultConfigurationValues produces Viper defaults for the commit audit command.
func DefaultConfigurationValues(rootKey string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		rootKey + configurationKeySeparatorConstant + configurationOriginRemoteKeyConstant:   defaults.OriginRemote,
		rootKey + configurationKeySeparatorConstant + configurationUpstreamRemoteKeyConstant: defaults.UpstreamRemote,
	}
}

// sanitize normalizes the configured remote names, falling back to defaults.
func (configuration CommandConfiguration) sanitize() CommandConfiguration {
	sanitized := configuration
	sanitized.OriginRemote = strings.TrimSpace(configuration.OriginRemote)
	if len(sanitized.OriginRemote) == 0 {
		sanitized.OriginRemote = defaultOriginRemoteNameConstant
	}
	sanitized.UpstreamRemote = strings.TrimSpace(configuration.UpstreamRemote)
	if len(sanitized.UpstreamRemote) == 0 {
		sanitized.UpstreamRemote = defaultUpstreamRemoteNameConstant
	}
	return sanitized
}
