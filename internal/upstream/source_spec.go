package upstream

import (
	"regexp"
	"strings"
)

const (
	gitSourcePatternConstant        = `^git\+https://github\.com/([^/]+)/([^/?#]+)\?branch=([^#]+)#([0-9a-fA-F]+)$`
	gitRepositorySuffixConstant     = ".git"
	sourcePatternGroupCountConstant = 5
)

var gitSourcePattern = regexp.MustCompile(gitSourcePatternConstant)

// GitSourceSpec is the decomposed form of a lockfile source string pinning a
// GitHub-hosted dependency to a branch and commit.
type GitSourceSpec struct {
	Owner     string
	Repo      string
	Branch    string
	PinnedSHA string
}

// ParseGitSourceSpec decomposes a lockfile source string of the form
// git+https://github.com/<owner>/<repo>(.git)??branch=<branch>#<sha>.
// Registry sources and git sources on other hosts report no match.
func ParseGitSourceSpec(source string) (GitSourceSpec, bool) {
	matchGroups := gitSourcePattern.FindStringSubmatch(source)
	if len(matchGroups) != sourcePatternGroupCountConstant {
		return GitSourceSpec{}, false
	}

	return GitSourceSpec{
		Owner:     matchGroups[1],
		Repo:      strings.TrimSuffix(matchGroups[2], gitRepositorySuffixConstant),
		Branch:    matchGroups[3],
		PinnedSHA: matchGroups[4],
	}, true
}
