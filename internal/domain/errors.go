package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors
var (
	// ErrManifestNotFound indicates a category's source manifest is absent.
	// Callers treat this as "category not installed", not as a failure.
	ErrManifestNotFound = errors.New("source manifest not found")

	// ErrNoReleases indicates the repository has no published releases.
	ErrNoReleases = errors.New("no published releases")

	// ErrRateLimited indicates the API rate limit was exceeded (HTTP 403).
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrRepoNotFound indicates the repository does not exist (HTTP 404).
	ErrRepoNotFound = errors.New("repository not found")
)

// FetchError represents a failed release fetch for one repository.
type FetchError struct {
	Owner      string
	Repo       string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("fetch %s/%s: HTTP %d: %v", e.Owner, e.Repo, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch %s/%s: %v", e.Owner, e.Repo, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// NewFetchError creates a FetchError, mapping well-known status codes to
// their sentinel causes so callers can classify with errors.Is.
func NewFetchError(owner, repo string, statusCode int, err error) *FetchError {
	switch statusCode {
	case http.StatusForbidden:
		err = ErrRateLimited
	case http.StatusNotFound:
		err = ErrRepoNotFound
	}
	return &FetchError{
		Owner:      owner,
		Repo:       repo,
		StatusCode: statusCode,
		Err:        err,
	}
}

// StatusCode returns the HTTP status behind err, or 0 when the failure
// happened before a status line was read.
func StatusCode(err error) int {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.StatusCode
	}
	return 0
}
