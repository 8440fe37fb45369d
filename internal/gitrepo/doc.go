// Package gitrepo parses GitHub remote URLs found in repository configuration.
package gitrepo
