package lockfile_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/depscout/internal/lockfile"
)

const testLockfileNameConstant = "Cargo.lock"

func writeLockfile(testInstance *testing.T, content string) string {
	testInstance.Helper()
	lockfilePath := filepath.Join(testInstance.TempDir(), testLockfileNameConstant)
	require.NoError(testInstance, os.WriteFile(lockfilePath, []byte(content), 0o600))
	return lockfilePath
}

func TestScanLockfileIndexesEveryPackageIncludingTheFinalBlock(testInstance *testing.T) {
	lockfileContent := "# This file is automatically generated by Cargo.\n" +
		"version = 3\n" +
		"\n" +
		"[[package]]\n" +
		"name = \"alpha\"\n" +
		"version = \"0.1.0\"\n" +
		"source = \"registry+https://github.com/rust-lang/crates.io-index\"\n" +
		"\n" +
		"[[package]]\n" +
		"name = \"beta\"\n" +
		"version = \"0.2.0\"\n" +
		"source = \"git+https://github.com/acme/beta?branch=dev#0123abc\"\n" +
		"\n" +
		"[[package]]\n" +
		"name = \"gamma\"\n" +
		"version = \"0.3.0\"\n" +
		"source = \"git+https://github.com/acme/beta?branch=dev#0123abc\"\n"

	packageIndex, scanError := lockfile.ScanLockfile(writeLockfile(testInstance, lockfileContent))
	require.NoError(testInstance, scanError)

	totalPackages := 0
	for _, packageNames := range packageIndex {
		totalPackages += len(packageNames)
	}
	require.Equal(testInstance, 3, totalPackages)

	require.Equal(testInstance, []string{"alpha"}, packageIndex["registry+https://github.com/rust-lang/crates.io-index"])
	require.Equal(testInstance, []string{"beta", "gamma"}, packageIndex["git+https://github.com/acme/beta?branch=dev#0123abc"])
}

func TestScanLockfileBucketsSourcelessPackagesUnderNull(testInstance *testing.T) {
	lockfileContent := "[[package]]\n" +
		"name = \"workspace-member\"\n" +
		"version = \"0.1.0\"\n" +
		"\n" +
		"[[package]]\n" +
		"name = \"remote\"\n" +
		"source = \"registry+https://github.com/rust-lang/crates.io-index\"\n"

	packageIndex, scanError := lockfile.ScanLockfile(writeLockfile(testInstance, lockfileContent))
	require.NoError(testInstance, scanError)
	require.Equal(testInstance, []string{"workspace-member"}, packageIndex["null"])
	require.Equal(testInstance, []string{"remote"}, packageIndex["registry+https://github.com/rust-lang/crates.io-index"])
}

func TestScanLockfileWithSinglePackageBlock(testInstance *testing.T) {
	lockfileContent := "[[package]]\n" +
		"name = \"only\"\n" +
		"source = \"registry+https://github.com/rust-lang/crates.io-index\"\n"

	packageIndex, scanError := lockfile.ScanLockfile(writeLockfile(testInstance, lockfileContent))
	require.NoError(testInstance, scanError)
	require.Len(testInstance, packageIndex, 1)
	require.Equal(testInstance, []string{"only"}, packageIndex["registry+https://github.com/rust-lang/crates.io-index"])
}

func TestScanLockfileWithEmptyFileProducesEmptyIndex(testInstance *testing.T) {
	packageIndex, scanError := lockfile.ScanLockfile(writeLockfile(testInstance, ""))
	require.NoError(testInstance, scanError)
	require.Empty(testInstance, packageIndex)
}

func TestScanLockfileReportsMissingFile(testInstance *testing.T) {
	missingPath := filepath.Join(testInstance.TempDir(), testLockfileNameConstant)

	packageIndex, scanError := lockfile.ScanLockfile(missingPath)
	require.Error(testInstance, scanError)
	require.Nil(testInstance, packageIndex)

	var readError lockfile.LockfileReadError
	require.ErrorAs(testInstance, scanError, &readError)
	require.Equal(testInstance, missingPath, readError.Path)
}
