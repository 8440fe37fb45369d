// Package deps indexes git-hosted dependencies declared in cargo manifests and
// optionally verifies the lockfile's pinned branch commits against upstream tips.
package deps
