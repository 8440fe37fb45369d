// Package lockfile parses Cargo.lock's line-oriented package blocks.
package lockfile
