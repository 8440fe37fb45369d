// Package manifest locates Cargo.toml files and extracts git-sourced
// dependency declarations into a source-keyed index.
package manifest
