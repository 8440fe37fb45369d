// Package commits audits remote-tracking branches for commits missing from the
// current local branch, bounded by an upstream reference branch tip.
package commits
