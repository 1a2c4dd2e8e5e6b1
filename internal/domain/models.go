package domain

import "fmt"

// Category is one of the fixed component groups processed per run.
type Category string

const (
	CategorySysmodules Category = "sysmodules"
	CategoryOverlays   Category = "overlays"
	CategoryApps       Category = "apps"
	CategoryEmulators  Category = "emulators"
)

// Categories returns all known categories in processing order.
func Categories() []Category {
	return []Category{
		CategorySysmodules,
		CategoryOverlays,
		CategoryApps,
		CategoryEmulators,
	}
}

// Known reports whether c is one of the four fixed categories.
func (c Category) Known() bool {
	switch c {
	case CategorySysmodules, CategoryOverlays, CategoryApps, CategoryEmulators:
		return true
	}
	return false
}

// InputFile returns the file name of the category's source manifest.
func (c Category) InputFile() string {
	return string(c) + ".ini"
}

// ManifestFile returns the file name of the category's release manifest.
func (c Category) ManifestFile() string {
	switch c {
	case CategorySysmodules:
		return "RELEASE_SM.ini"
	case CategoryOverlays:
		return "RELEASE_OV.ini"
	case CategoryApps:
		return "RELEASE_APPS.ini"
	case CategoryEmulators:
		return "RELEASE_EM.ini"
	}
	return "RELEASE_" + string(c) + ".ini"
}

// SectionName returns the section header used in the release manifest.
func (c Category) SectionName() string {
	if c.Known() {
		return "Versions"
	}
	return "Release Info"
}

// Entry is one component extracted from a category's source manifest,
// tied to one upstream repository. Immutable for the duration of a run.
type Entry struct {
	Name      string
	Owner     string
	Repo      string
	SourceURL string
}

// Slug returns the "name (owner/repo)" form used in failure reports.
func (e Entry) Slug() string {
	return fmt.Sprintf("%s (%s/%s)", e.Name, e.Owner, e.Repo)
}

// FetchResult is the outcome of fetching the latest release tag for one
// entry. Exactly one of Tag and Err is meaningful.
type FetchResult struct {
	Entry Entry
	Tag   string
	Err   error
}

// CategoryResult aggregates fetch outcomes across one category.
type CategoryResult struct {
	Category      Category
	Total         int
	Success       int
	Failed        int
	FailedEntries []string
}
