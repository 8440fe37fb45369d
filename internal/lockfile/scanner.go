package lockfile

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strings"
)

const (
	packageBlockMarkerConstant        = "[[package]]"
	nullSourceBucketKeyConstant       = "null"
	lockfileReadErrorTemplateConstant = "unable to read lockfile %s: %s"
	namePatternConstant               = `^name\s*=\s*"(.*)"$`
	sourcePatternConstant             = `^source\s*=\s*"(.*)"$`
	patternCaptureGroupCountConstant  = 2
)

var (
	nameLinePattern   = regexp.MustCompile(namePatternConstant)
	sourceLinePattern = regexp.MustCompile(sourcePatternConstant)
)

// LockedPackage is a single resolved package parsed from the lockfile.
type LockedPackage struct {
	Name   string
	Source string
}

// LockedPackageIndex groups locked package names by their declared source.
// Packages without a source land in the "null" bucket.
type LockedPackageIndex map[string][]string

// LockfileReadError reports a lockfile that could not be read from disk.
type LockfileReadError struct {
	Path  string
	Cause error
}

// Error describes the read failure.
func (readError LockfileReadError) Error() string {
	return fmt.Sprintf(lockfileReadErrorTemplateConstant, readError.Path, readError.Cause)
}

// Unwrap exposes the underlying filesystem error.
func (readError LockfileReadError) Unwrap() error {
	return readError.Cause
}

// ScanLockfile parses the lockfile's flat line-oriented structure into a
// source-keyed package index. A package block is committed when the next
// [[package]] marker is seen; the final block is flushed explicitly after the
// scan so the last package is never dropped.
func ScanLockfile(lockfilePath string) (LockedPackageIndex, error) {
	lockfileHandle, openError := os.Open(lockfilePath)
	if openError != nil {
		return nil, LockfileReadError{Path: lockfilePath, Cause: openError}
	}
	defer lockfileHandle.Close()

	packageIndex := LockedPackageIndex{}
	currentRecord := LockedPackage{}

	lineScanner := bufio.NewScanner(lockfileHandle)
	for lineScanner.Scan() {
		line := strings.TrimSpace(lineScanner.Text())

		if line == packageBlockMarkerConstant {
			commitLockedPackage(packageIndex, currentRecord)
			currentRecord = LockedPackage{}
			continue
		}

		if nameMatch := nameLinePattern.FindStringSubmatch(line); len(nameMatch) == patternCaptureGroupCountConstant {
			currentRecord.Name = nameMatch[1]
			continue
		}

		if sourceMatch := sourceLinePattern.FindStringSubmatch(line); len(sourceMatch) == patternCaptureGroupCountConstant {
			currentRecord.Source = sourceMatch[1]
		}
	}

	if scanError := lineScanner.Err(); scanError != nil {
		return nil, LockfileReadError{Path: lockfilePath, Cause: scanError}
	}

	commitLockedPackage(packageIndex, currentRecord)

	return packageIndex, nil
}

// commitLockedPackage indexes the buffered record unless it is the empty
// buffer preceding the first block marker.
func commitLockedPackage(packageIndex LockedPackageIndex, record LockedPackage) {
	if len(record.Name) == 0 {
		return
	}

	sourceBucket := record.Source
	if len(sourceBucket) == 0 {
		sourceBucket = nullSourceBucketKeyConstant
	}

	packageIndex[sourceBucket] = append(packageIndex[sourceBucket], record.Name)
}
