package github

import "regexp"

// Pattern: https://api.github.com/repos/{owner}/{repo}/releases?...
var repoURLRe = regexp.MustCompile(`/repos/([^/]+)/([^/]+)/releases`)

// ParseRepoURL extracts the owner and repository from a release-listing
// API URL. ok is false when the string does not carry the
// /repos/{owner}/{repo}/releases path.
func ParseRepoURL(url string) (owner, repo string, ok bool) {
	m := repoURLRe.FindStringSubmatch(url)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}
