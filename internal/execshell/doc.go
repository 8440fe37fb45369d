// Package execshell wraps git subprocess execution behind a typed command
// model with structured lifecycle logging and explicit failure errors.
package execshell
