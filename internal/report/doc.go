// Package report renders dependency and commit audit results to standard output.
package report
