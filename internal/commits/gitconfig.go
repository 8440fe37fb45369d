package commits

import (
	"errors"
	"fmt"
	"path/filepath"

	"gopkg.in/ini.v1"

	"github.com/temirov/depscout/internal/gitrepo"
)

const (
	gitMetadataDirectoryNameConstant   = ".git"
	gitConfigFileNameConstant          = "config"
	originRemoteSectionNameConstant    = `remote "origin"`
	remoteURLKeyNameConstant           = "url"
	configParseErrorTemplateConstant   = "unable to read git configuration at %s: %s"
	missingOriginRemoteMessageConstant = `missing remote "origin" url`
)

// ErrMissingOriginRemote indicates the configuration lacks an origin remote url.
var ErrMissingOriginRemote = errors.New(missingOriginRemoteMessageConstant)

// ConfigParseError reports a repository configuration that is absent or does
// not describe a usable GitHub origin remote.
type ConfigParseError struct {
	Path  string
	Cause error
}

// Error describes the configuration failure including the config path.
func (parseError ConfigParseError) Error() string {
	return fmt.Sprintf(configParseErrorTemplateConstant, parseError.Path, parseError.Cause)
}

// Unwrap exposes the underlying cause.
func (parseError ConfigParseError) Unwrap() error {
	return parseError.Cause
}

// ReadOriginRemote parses <repositoryPath>/.git/config and returns the origin
// remote parsed into its GitHub owner and repository.
func ReadOriginRemote(repositoryPath string) (gitrepo.RemoteURL, error) {
	configFilePath := filepath.Join(repositoryPath, gitMetadataDirectoryNameConstant, gitConfigFileNameConstant)

	configFile, loadError := ini.Load(configFilePath)
	if loadError != nil {
		return gitrepo.RemoteURL{}, ConfigParseError{Path: configFilePath, Cause: loadError}
	}

	originSection, sectionError := configFile.GetSection(originRemoteSectionNameConstant)
	if sectionError != nil {
		return gitrepo.RemoteURL{}, ConfigParseError{Path: configFilePath, Cause: ErrMissingOriginRemote}
	}

	remoteURLValue := originSection.Key(remoteURLKeyNameConstant).String()
	if len(remoteURLValue) == 0 {
		return gitrepo.RemoteURL{}, ConfigParseError{Path: configFilePath, Cause: ErrMissingOriginRemote}
	}

	parsedRemote, parseError := gitrepo.ParseGitHubRemoteURL(remoteURLValue)
	if parseError != nil {
		return gitrepo.RemoteURL{}, ConfigParseError{Path: configFilePath, Cause: parseError}
	}

	return parsedRemote, nil
}
