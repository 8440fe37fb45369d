// Package upstream verifies locked branch-tracked git sources against the
// hosting provider's latest branch commits.
package upstream
