package fswalk

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"
)

const filesystemErrorTemplateConstant = "unable to read %s: %s"

// IgnorePredicate decides whether a directory entry (and, for directories, its
// entire subtree) is skipped.
type IgnorePredicate func(parentDirectory string, entry fs.DirEntry) bool

// MatchPredicate decides whether a non-ignored file is included in the result.
type MatchPredicate func(parentDirectory string, entry fs.DirEntry) bool

// FilesystemError reports a directory that could not be read during traversal.
type FilesystemError struct {
	Path  string
	Cause error
}

// Error describes the unreadable path.
func (filesystemError FilesystemError) Error() string {
	return fmt.Sprintf(filesystemErrorTemplateConstant, filesystemError.Path, filesystemError.Cause)
}

// Unwrap exposes the underlying filesystem error.
func (filesystemError FilesystemError) Unwrap() error {
	return filesystemError.Cause
}

// Walk traverses rootDirectory depth-first and returns the absolute paths of
// matching files. Ignored entries are never revisited; sibling subtrees are
// walked concurrently and their results flattened in listing order before any
// caller observes them, so both predicates must be safe for concurrent use.
// Any unreadable directory aborts the whole walk.
func Walk(rootDirectory string, shouldIgnore IgnorePredicate, isMatch MatchPredicate) ([]string, error) {
	absoluteRoot, absoluteError := filepath.Abs(rootDirectory)
	if absoluteError != nil {
		return nil, FilesystemError{Path: rootDirectory, Cause: absoluteError}
	}
	return walkDirectory(absoluteRoot, shouldIgnore, isMatch)
}

func walkDirectory(directoryPath string, shouldIgnore IgnorePredicate, isMatch MatchPredicate) ([]string, error) {
	directoryEntries, readError := os.ReadDir(directoryPath)
	if readError != nil {
		return nil, FilesystemError{Path: directoryPath, Cause: readError}
	}

	entryResults := make([][]string, len(directoryEntries))
	var traversalGroup errgroup.Group

	for entryIndex, directoryEntry := range directoryEntries {
		if shouldIgnore(directoryPath, directoryEntry) {
			continue
		}

		if directoryEntry.IsDir() {
			subdirectoryPath := filepath.Join(directoryPath, directoryEntry.Name())
			resultSlot := entryIndex
			traversalGroup.Go(func() error {
				subdirectoryMatches, walkError := walkDirectory(subdirectoryPath, shouldIgnore, isMatch)
				if walkError != nil {
					return walkError
				}
				entryResults[resultSlot] = subdirectoryMatches
				return nil
			})
			continue
		}

		if isMatch(directoryPath, directoryEntry) {
			entryResults[entryIndex] = []string{filepath.Join(directoryPath, directoryEntry.Name())}
		}
	}

	if waitError := traversalGroup.Wait(); waitError != nil {
		return nil, waitError
	}

	var matchedPaths []string
	for _, matches := range entryResults {
		matchedPaths = append(matchedPaths, matches...)
	}
	return matchedPaths, nil
}
