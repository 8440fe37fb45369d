package manifest

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/pelletier/go-toml/v2"

	"github.com/temirov/depscout/internal/fswalk"
)

const (
	manifestFileNameConstant           = "Cargo.toml"
	cacheDirectoryNameConstant         = ".cargo"
	defaultBranchNameConstant          = "master"
	dependencyKeyTemplateConstant      = "%s#%s"
	gitFieldNameConstant               = "git"
	branchFieldNameConstant            = "branch"
	manifestParseErrorTemplateConstant = "unable to parse manifest %s: %s"
)

var rootIgnoreDirectoryNames = []string{".git", ".github", ".idea", "target"}

// DependencyDeclaration captures a git-sourced dependency extracted from a manifest.
type DependencyDeclaration struct {
	Name   string
	GitURL string
	Branch string
}

// Key returns the index key grouping declarations that share a source.
func (declaration DependencyDeclaration) Key() string {
	return fmt.Sprintf(dependencyKeyTemplateConstant, declaration.GitURL, declaration.Branch)
}

// DependencyIndex groups dependency names by "<gitURL>#<branch>" key.
type DependencyIndex map[string][]string

// ManifestParseError reports a manifest file that could not be parsed.
type ManifestParseError struct {
	Path  string
	Cause error
}

// Error describes the parse failure including the offending path.
func (parseError ManifestParseError) Error() string {
	return fmt.Sprintf(manifestParseErrorTemplateConstant, parseError.Path, parseError.Cause)
}

// Unwrap exposes the underlying TOML error.
func (parseError ManifestParseError) Unwrap() error {
	return parseError.Cause
}

// Scanner locates dependency manifests beneath a root and extracts their git
// dependency declarations.
type Scanner struct {
	manifestFileName      string
	rootIgnoreDirectories []string
	cacheDirectoryName    string
}

// NewScanner constructs a Scanner with the default cargo manifest layout.
func NewScanner() *Scanner {
	return NewScannerWithManifestFileName(manifestFileNameConstant)
}

// NewScannerWithManifestFileName constructs a Scanner matching an alternate
// manifest file name while keeping the default ignore rules.
func NewScannerWithManifestFileName(manifestFileName string) *Scanner {
	return &Scanner{
		manifestFileName:      manifestFileName,
		rootIgnoreDirectories: rootIgnoreDirectoryNames,
		cacheDirectoryName:    cacheDirectoryNameConstant,
	}
}

type manifestDocument struct {
	Dependencies map[string]any `toml:"dependencies"`
	Workspace    struct {
		Dependencies map[string]any `toml:"dependencies"`
	} `toml:"workspace"`
}

// ScanManifests walks rootDirectory and accumulates every git dependency
// declaration into a DependencyIndex. Build, VCS, and CI artifact directories
// are skipped at the root level; the cargo cache directory is skipped at any
// depth. Any manifest parse failure aborts the scan.
func (scanner *Scanner) ScanManifests(rootDirectory string) (DependencyIndex, error) {
	absoluteRoot, absoluteError := filepath.Abs(rootDirectory)
	if absoluteError != nil {
		return nil, fswalk.FilesystemError{Path: rootDirectory, Cause: absoluteError}
	}

	manifestPaths, walkError := fswalk.Walk(
		absoluteRoot,
		scanner.shouldIgnoreEntry(absoluteRoot),
		scanner.matchesManifestFile,
	)
	if walkError != nil {
		return nil, walkError
	}

	dependencyIndex := DependencyIndex{}
	for _, manifestPath := range manifestPaths {
		declarations, parseError := scanner.parseManifest(manifestPath)
		if parseError != nil {
			return nil, parseError
		}
		for _, declaration := range declarations {
			indexKey := declaration.Key()
			dependencyIndex[indexKey] = append(dependencyIndex[indexKey], declaration.Name)
		}
	}

	return dependencyIndex, nil
}

func (scanner *Scanner) shouldIgnoreEntry(absoluteRoot string) fswalk.IgnorePredicate {
	return func(parentDirectory string, entry fs.DirEntry) bool {
		if !entry.IsDir() {
			return false
		}
		if entry.Name() == scanner.cacheDirectoryName {
			return true
		}
		if parentDirectory != absoluteRoot {
			return false
		}
		for _, ignoredDirectoryName := range scanner.rootIgnoreDirectories {
			if entry.Name() == ignoredDirectoryName {
				return true
			}
		}
		return false
	}
}

func (scanner *Scanner) matchesManifestFile(parentDirectory string, entry fs.DirEntry) bool {
	return entry.Name() == scanner.manifestFileName
}

func (scanner *Scanner) parseManifest(manifestPath string) ([]DependencyDeclaration, error) {
	manifestContent, readError := os.ReadFile(manifestPath)
	if readError != nil {
		return nil, fswalk.FilesystemError{Path: manifestPath, Cause: readError}
	}

	var document manifestDocument
	if unmarshalError := toml.Unmarshal(manifestContent, &document); unmarshalError != nil {
		return nil, ManifestParseError{Path: manifestPath, Cause: unmarshalError}
	}

	dependencyTable := document.Dependencies
	if dependencyTable == nil {
		dependencyTable = document.Workspace.Dependencies
	}

	return extractGitDeclarations(dependencyTable), nil
}

// extractGitDeclarations keeps only table entries carrying a git field.
// Version-only and path dependencies are silently skipped. Entry names are
// sorted so the per-manifest contribution is deterministic.
func extractGitDeclarations(dependencyTable map[string]any) []DependencyDeclaration {
	dependencyNames := make([]string, 0, len(dependencyTable))
	for dependencyName := range dependencyTable {
		dependencyNames = append(dependencyNames, dependencyName)
	}
	sort.Strings(dependencyNames)

	var declarations []DependencyDeclaration
	for _, dependencyName := range dependencyNames {
		dependencyEntry, isTable := dependencyTable[dependencyName].(map[string]any)
		if !isTable {
			continue
		}

		gitURL, hasGitField := dependencyEntry[gitFieldNameConstant].(string)
		if !hasGitField {
			continue
		}

		branchName := defaultBranchNameConstant
		if declaredBranch, hasBranchField := dependencyEntry[branchFieldNameConstant].(string); hasBranchField {
			branchName = declaredBranch
		}

		declarations = append(declarations, DependencyDeclaration{
			Name:   dependencyName,
			GitURL: gitURL,
			Branch: branchName,
		})
	}

	return declarations
}
