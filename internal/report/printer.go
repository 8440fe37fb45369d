package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/temirov/depscout/internal/upstream"
)

const (
	jsonIndentConstant           = "  "
	keyLineTemplateConstant      = "%s\n"
	mismatchLineTemplateConstant = "%s/%s@%s: locked %s, latest %s\n"
	auditHeaderTemplateConstant  = "%d commit(s) on %s missing from the current branch:\n"
	auditEntryTemplateConstant   = "  %s  %s/commit/%s  %s\n"
	auditEmptyMessageConstant    = "no missing commits\n"
	mismatchEmptyMessageConstant = "all locked branch sources match their upstream tips\n"
	trailingNewlineConstant      = "\n"
)

// CommitAuditEntry is one missing commit rendered by the commit audit report.
type CommitAuditEntry struct {
	SHA     string
	Subject string
}

// Printer renders scan and audit results as human-readable text or JSON.
type Printer struct {
	outputWriter io.Writer
}

// NewPrinter constructs a Printer writing to the supplied writer.
func NewPrinter(outputWriter io.Writer) *Printer {
	return &Printer{outputWriter: outputWriter}
}

// PrintIndexKeys writes the index's grouping keys, one per line in sorted order.
func (printer *Printer) PrintIndexKeys(index map[string][]string) error {
	indexKeys := make([]string, 0, len(index))
	for indexKey := range index {
		indexKeys = append(indexKeys, indexKey)
	}
	sort.Strings(indexKeys)

	for _, indexKey := range indexKeys {
		if _, writeError := fmt.Fprintf(printer.outputWriter, keyLineTemplateConstant, indexKey); writeError != nil {
			return writeError
		}
	}
	return nil
}

// PrintJSON writes the value as indented JSON followed by a newline.
func (printer *Printer) PrintJSON(value any) error {
	serializedValue, marshalError := json.MarshalIndent(value, "", jsonIndentConstant)
	if marshalError != nil {
		return marshalError
	}
	if _, writeError := printer.outputWriter.Write(serializedValue); writeError != nil {
		return writeError
	}
	_, writeError := io.WriteString(printer.outputWriter, trailingNewlineConstant)
	return writeError
}

// PrintMismatchReports writes one line per stale locked source.
func (printer *Printer) PrintMismatchReports(mismatchReports []upstream.MismatchReport) error {
	if len(mismatchReports) == 0 {
		_, writeError := io.WriteString(printer.outputWriter, mismatchEmptyMessageConstant)
		return writeError
	}

	for _, mismatchReport := range mismatchReports {
		_, writeError := fmt.Fprintf(
			printer.outputWriter,
			mismatchLineTemplateConstant,
			mismatchReport.Owner,
			mismatchReport.Repo,
			mismatchReport.Branch,
			mismatchReport.ExpectedSHA,
			mismatchReport.ActualSHA,
		)
		if writeError != nil {
			return writeError
		}
	}
	return nil
}

// PrintCommitAudit writes the missing-commit list with clickable references.
// The commit audit always renders this text layout; it has no JSON mode.
func (printer *Printer) PrintCommitAudit(trackedBranch string, webURLBase string, auditEntries []CommitAuditEntry) error {
	if len(auditEntries) == 0 {
		_, writeError := io.WriteString(printer.outputWriter, auditEmptyMessageConstant)
		return writeError
	}

	if _, writeError := fmt.Fprintf(printer.outputWriter, auditHeaderTemplateConstant, len(auditEntries), trackedBranch); writeError != nil {
		return writeError
	}

	for _, auditEntry := range auditEntries {
		_, writeError := fmt.Fprintf(
			printer.outputWriter,
			auditEntryTemplateConstant,
			auditEntry.SHA,
			webURLBase,
			auditEntry.SHA,
			auditEntry.Subject,
		)
		if writeError != nil {
			return writeError
		}
	}
	return nil
}
