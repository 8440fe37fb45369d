// Package cli assembles the depscout command hierarchy, wiring configuration
// loading and structured logging into the subcommand builders.
package cli
