package manifest

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"

	"github.com/nxpack/releasegen/internal/domain"
	"github.com/nxpack/releasegen/internal/github"
)

var (
	sectionRe    = regexp.MustCompile(`(?m)^[ \t]*\[([^\]\n]+)\][ \t]*\r?$`)
	releaseURLRe = regexp.MustCompile(`https://api\.github\.com/repos/\S+`)
)

// ParseFile reads a category's source manifest and extracts one entry per
// section that references a GitHub release listing. Returns
// domain.ErrManifestNotFound when the file does not exist.
func ParseFile(path string) ([]domain.Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", path, domain.ErrManifestNotFound)
		}
		return nil, err
	}
	return Parse(string(data)), nil
}

// Parse extracts entries from source manifest content. A section body is
// everything between its header and the next header (or EOF); the first
// release-listing URL found in the body identifies the repository.
// Sections without such a URL yield no entry. Section order is preserved.
func Parse(content string) []domain.Entry {
	headers := sectionRe.FindAllStringSubmatchIndex(content, -1)

	var entries []domain.Entry
	for i, loc := range headers {
		name := content[loc[2]:loc[3]]
		bodyStart := loc[1]
		bodyEnd := len(content)
		if i+1 < len(headers) {
			bodyEnd = headers[i+1][0]
		}

		url := releaseURLRe.FindString(content[bodyStart:bodyEnd])
		if url == "" {
			continue
		}
		owner, repo, ok := github.ParseRepoURL(url)
		if !ok {
			continue
		}

		entries = append(entries, domain.Entry{
			Name:      name,
			Owner:     owner,
			Repo:      repo,
			SourceURL: url,
		})
	}
	return entries
}
