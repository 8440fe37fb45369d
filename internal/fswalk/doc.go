// Package fswalk implements predicate-driven recursive directory traversal.
package fswalk
