package deps

import (
	"context"
	"errors"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/temirov/depscout/internal/lockfile"
	"github.com/temirov/depscout/internal/manifest"
	"github.com/temirov/depscout/internal/report"
	"github.com/temirov/depscout/internal/upstream"
)

const (
	servicePrinterMissingMessage        = "dependency scan service requires a printer"
	serviceResolverMissingMessage       = "dependency scan service requires a commit resolver"
	scanStartedMessageConstant          = "scanning dependency manifests"
	lockfileScanMessageConstant         = "scanning lockfile"
	verificationStartedMessageConstant  = "verifying locked sources upstream"
	logFieldRootDirectoryConstant       = "root_directory"
	logFieldLockfilePathConstant        = "lockfile_path"
	logFieldManifestSourceCountConstant = "manifest_source_count"
	logFieldLockedSourceCountConstant   = "locked_source_count"
	logFieldMismatchCountConstant       = "mismatch_count"
)

var (
	// ErrPrinterNotConfigured indicates the service was constructed without a printer.
	ErrPrinterNotConfigured = errors.New(servicePrinterMissingMessage)
	// ErrCommitResolverNotConfigured indicates a lockfile verification was requested
	// without a commit resolver.
	ErrCommitResolverNotConfigured = errors.New(serviceResolverMissingMessage)
)

// ServiceOptions captures the per-invocation switches of the dependency scan.
type ServiceOptions struct {
	RootDirectory   string
	IncludeLockfile bool
	Verbose         bool
}

// Service runs the dependency scan flow: manifest discovery, optional lockfile
// indexing, and optional upstream verification of pinned branch commits.
type Service struct {
	manifestScanner *manifest.Scanner
	commitResolver  upstream.CommitResolver
	printer         *report.Printer
	logger          *zap.Logger
	configuration   CommandConfiguration
}

// NewService constructs a dependency scan service. The commit resolver may be
// nil when lockfile verification is never requested.
func NewService(manifestScanner *manifest.Scanner, commitResolver upstream.CommitResolver, printer *report.Printer, logger *zap.Logger, configuration CommandConfiguration) (*Service, error) {
	if printer == nil {
		return nil, ErrPrinterNotConfigured
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if manifestScanner == nil {
		manifestScanner = manifest.NewScannerWithManifestFileName(configuration.ManifestFilename)
	}
	return &Service{
		manifestScanner: manifestScanner,
		commitResolver:  commitResolver,
		printer:         printer,
		logger:          logger,
		configuration:   configuration,
	}, nil
}

// Run executes the dependency scan for the requested root directory.
func (service *Service) Run(executionContext context.Context, options ServiceOptions) error {
	service.logger.Debug(scanStartedMessageConstant, zap.String(logFieldRootDirectoryConstant, options.RootDirectory))

	dependencyIndex, scanError := service.manifestScanner.ScanManifests(options.RootDirectory)
	if scanError != nil {
		return scanError
	}
	service.logger.Debug(scanStartedMessageConstant, zap.Int(logFieldManifestSourceCountConstant, len(dependencyIndex)))

	if printError := service.printIndex(map[string][]string(dependencyIndex), options.Verbose); printError != nil {
		return printError
	}

	if !options.IncludeLockfile {
		return nil
	}

	lockfilePath := filepath.Join(options.RootDirectory, service.configuration.LockfileFilename)
	service.logger.Debug(lockfileScanMessageConstant, zap.String(logFieldLockfilePathConstant, lockfilePath))

	lockedPackageIndex, lockfileError := lockfile.ScanLockfile(lockfilePath)
	if lockfileError != nil {
		return lockfileError
	}
	service.logger.Debug(lockfileScanMessageConstant, zap.Int(logFieldLockedSourceCountConstant, len(lockedPackageIndex)))

	if printError := service.printIndex(map[string][]string(lockedPackageIndex), options.Verbose); printError != nil {
		return printError
	}

	if service.commitResolver == nil {
		return ErrCommitResolverNotConfigured
	}

	verifier, verifierError := upstream.NewVerifier(service.commitResolver, service.logger, upstream.VerifierOptions{
		ContinueOnError: service.configuration.ContinueOnError,
	})
	if verifierError != nil {
		return verifierError
	}

	service.logger.Debug(verificationStartedMessageConstant)
	mismatchReports, verificationError := verifier.Verify(executionContext, lockedPackageIndex)
	if verificationError != nil && !service.configuration.ContinueOnError {
		return verificationError
	}
	service.logger.Debug(verificationStartedMessageConstant, zap.Int(logFieldMismatchCountConstant, len(mismatchReports)))

	if printError := service.printer.PrintMismatchReports(mismatchReports); printError != nil {
		return printError
	}
	return verificationError
}

func (service *Service) printIndex(index map[string][]string, verbose bool) error {
	if verbose {
		return service.printer.PrintJSON(index)
	}
	return service.printer.PrintIndexKeys(index)
}
