package github

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/nxpack/releasegen/internal/domain"
)

// Client queries the GitHub release API. It performs exactly one request
// per call: rate limiting is handled by the caller's pacing, never by
// retries.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	userAgent  string
}

// ClientOptions contains options for creating a Client
type ClientOptions struct {
	BaseURL   string
	Token     string
	UserAgent string
	Timeout   time.Duration
}

// DefaultClientOptions returns default client options
func DefaultClientOptions() ClientOptions {
	return ClientOptions{
		BaseURL:   "https://api.github.com",
		UserAgent: "releasegen/1.0",
		Timeout:   10 * time.Second,
	}
}

// NewClient creates a new release API client
func NewClient(opts ClientOptions) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = "https://api.github.com"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}

	return &Client{
		httpClient: &http.Client{Timeout: opts.Timeout},
		baseURL:    strings.TrimSuffix(opts.BaseURL, "/"),
		token:      opts.Token,
		userAgent:  opts.UserAgent,
	}
}

// LatestTag returns the tag of the most recently listed release of
// owner/repo. The release's tag_name is preferred, its display name is
// the fallback. All failures come back as a *domain.FetchError whose
// cause classifies the outcome (rate limit, missing repository, other
// HTTP status, transport or parse failure, no releases).
func (c *Client) LatestTag(ctx context.Context, owner, repo string) (string, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/releases?per_page=1", c.baseURL, owner, repo)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", domain.NewFetchError(owner, repo, 0, err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "token "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", domain.NewFetchError(owner, repo, 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", domain.NewFetchError(owner, repo, resp.StatusCode,
			fmt.Errorf("%s", http.StatusText(resp.StatusCode)))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", domain.NewFetchError(owner, repo, 0, err)
	}

	releases := gjson.ParseBytes(body)
	if !releases.IsArray() {
		return "", domain.NewFetchError(owner, repo, 0,
			fmt.Errorf("expected a JSON array of releases"))
	}
	if len(releases.Array()) == 0 {
		return "", domain.NewFetchError(owner, repo, 0, domain.ErrNoReleases)
	}

	tag := releases.Get("0.tag_name").String()
	if tag == "" {
		tag = releases.Get("0.name").String()
	}
	if tag == "" {
		return "", domain.NewFetchError(owner, repo, 0,
			fmt.Errorf("release has neither tag_name nor name"))
	}
	return tag, nil
}
