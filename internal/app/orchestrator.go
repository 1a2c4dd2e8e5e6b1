package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nxpack/releasegen/internal/config"
	"github.com/nxpack/releasegen/internal/domain"
	"github.com/nxpack/releasegen/internal/github"
	"github.com/nxpack/releasegen/internal/manifest"
	"github.com/nxpack/releasegen/internal/tags"
	"github.com/nxpack/releasegen/internal/utils"
)

// ReleaseClient fetches the latest release tag for one repository.
type ReleaseClient interface {
	LatestTag(ctx context.Context, owner, repo string) (string, error)
}

// Orchestrator drives the whole pipeline: parse each category's source
// manifest, fetch and normalize the latest tag per entry, write the
// category's release manifest, and report aggregate results. Fetches run
// strictly sequentially, one in flight, paced by a fixed delay.
type Orchestrator struct {
	cfg      *config.Config
	client   ReleaseClient
	logger   *utils.Logger
	out      io.Writer
	sleep    func(time.Duration)
	dryRun   bool
	progress bool
	only     map[domain.Category]bool
}

// OrchestratorOptions contains options for creating an orchestrator
type OrchestratorOptions struct {
	Config *config.Config
	Logger *utils.Logger

	// Client overrides the API client built from Config. Used by tests.
	Client ReleaseClient

	// Out receives the human-readable report. Defaults to os.Stdout.
	Out io.Writer

	// Sleep overrides the inter-request pause. Used by tests.
	Sleep func(time.Duration)

	// DryRun fetches and reports but writes no release manifests.
	DryRun bool

	// Progress enables a per-category progress bar on stderr.
	Progress bool

	// Only restricts the run to the named categories. Empty means all.
	Only []string
}

// NewOrchestrator creates a new orchestrator with the given configuration
func NewOrchestrator(opts OrchestratorOptions) (*Orchestrator, error) {
	cfg := opts.Config
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = utils.NewLogger(utils.LoggerOptions{
			Level:  cfg.Logging.Level,
			Format: cfg.Logging.Format,
		})
	}

	client := opts.Client
	if client == nil {
		client = github.NewClient(github.ClientOptions{
			BaseURL:   cfg.GitHub.APIBaseURL,
			Token:     cfg.GitHub.Token,
			UserAgent: cfg.GitHub.UserAgent,
			Timeout:   cfg.GitHub.Timeout,
		})
	}

	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	sleep := opts.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}

	var only map[domain.Category]bool
	if len(opts.Only) > 0 {
		only = make(map[domain.Category]bool, len(opts.Only))
		for _, name := range opts.Only {
			cat := domain.Category(strings.ToLower(strings.TrimSpace(name)))
			if !cat.Known() {
				return nil, fmt.Errorf("unknown category %q", name)
			}
			only[cat] = true
		}
	}

	return &Orchestrator{
		cfg:      cfg,
		client:   client,
		logger:   logger,
		out:      out,
		sleep:    sleep,
		dryRun:   opts.DryRun,
		progress: opts.Progress,
		only:     only,
	}, nil
}

// Summary aggregates the results of one run across all categories.
type Summary struct {
	Results []domain.CategoryResult
	Total   int
	Success int
	Failed  int
}

// Run executes the pipeline over all (or the selected) categories in
// fixed order. Categories whose source manifest is missing are skipped
// silently; a release manifest is only written for categories that
// produced at least one entry. Run returns an error only when the
// category layout itself cannot be read, never for per-entry failures.
func (o *Orchestrator) Run(ctx context.Context) (*Summary, error) {
	o.printBanner()

	summary := &Summary{}
	for _, cat := range domain.Categories() {
		if o.only != nil && !o.only[cat] {
			continue
		}

		inputPath := filepath.Join(o.cfg.Paths.IncludeDir, string(cat), cat.InputFile())
		entries, err := manifest.ParseFile(inputPath)
		if err != nil {
			if errors.Is(err, domain.ErrManifestNotFound) {
				o.logger.Debug().Str("path", inputPath).Msg("source manifest missing, category skipped")
				continue
			}
			return summary, err
		}
		if len(entries) == 0 {
			o.logger.Debug().Str("path", inputPath).Msg("no repository entries, category skipped")
			continue
		}

		result := o.processCategory(ctx, cat, entries)
		summary.Results = append(summary.Results, result)
		summary.Total += result.Total
		summary.Success += result.Success
		summary.Failed += result.Failed
	}

	o.printSummary(summary)
	return summary, nil
}

// processCategory fetches and normalizes the latest tag for every entry
// of one category, then writes the category's release manifest.
func (o *Orchestrator) processCategory(ctx context.Context, cat domain.Category, entries []domain.Entry) domain.CategoryResult {
	outputPath := filepath.Join(o.cfg.Paths.IncludeDir, string(cat), cat.ManifestFile())
	log := o.logger.WithCategory(string(cat))

	fmt.Fprintf(o.out, "\nGenerating %s...\n", cat.ManifestFile())
	fmt.Fprintf(o.out, "Found %d entries\n", len(entries))

	bar := utils.NewProgressBar(len(entries), utils.DescFetching)

	result := domain.CategoryResult{Category: cat, Total: len(entries)}
	versions := manifest.NewVersions()

	for i, entry := range entries {
		// Pace requests against the unauthenticated rate limit. The very
		// first fetch of each category goes out immediately.
		if i > 0 && o.cfg.Fetch.Delay > 0 {
			o.sleep(o.cfg.Fetch.Delay)
		}

		tag, err := o.client.LatestTag(ctx, entry.Owner, entry.Repo)
		if err != nil {
			result.Failed++
			result.FailedEntries = append(result.FailedEntries, entry.Slug())
			fmt.Fprintf(o.out, "  ✗ %s: %s\n", entry.Slug(), failureMessage(err))
			log.Debug().Err(err).Str("repo", entry.Owner+"/"+entry.Repo).Msg("fetch failed")
		} else {
			clean := tags.Normalize(tag)
			versions.Set(entry.Name, clean)
			result.Success++
			fmt.Fprintf(o.out, "  ✓ %s: %s\n", entry.Slug(), clean)
		}

		if o.progress {
			_ = bar.Add(1)
		}
	}
	if o.progress {
		_ = bar.Finish()
	}

	if o.dryRun {
		fmt.Fprintf(o.out, "Dry run, skipped writing %s\n", outputPath)
	} else if err := manifest.WriteVersions(outputPath, cat.SectionName(), versions); err != nil {
		// A manifest that cannot be written fails every entry of the
		// category: nothing reached the output file.
		log.Error().Err(err).Str("path", outputPath).Msg("failed to write release manifest")
		result.FailedEntries = failAll(entries)
		result.Failed = result.Total
		result.Success = 0
	} else {
		fmt.Fprintf(o.out, "✓ Created %s\n", outputPath)
	}

	fmt.Fprintf(o.out, "  Success: %d/%d\n", result.Success, result.Total)
	if result.Failed > 0 {
		fmt.Fprintf(o.out, "  Failed: %d/%d\n", result.Failed, result.Total)
		for _, failed := range result.FailedEntries {
			fmt.Fprintf(o.out, "    - %s\n", failed)
		}
	}

	return result
}

func (o *Orchestrator) printBanner() {
	fmt.Fprintln(o.out, "GitHub Release Tag Fetcher")
	if o.cfg.HasToken() {
		fmt.Fprintln(o.out, "✓ Using GitHub token (higher rate limit)")
	} else {
		fmt.Fprintln(o.out, "⚠ No GitHub token found. Set GITHUB_TOKEN env var for higher rate limits.")
	}
	fmt.Fprintln(o.out, strings.Repeat("=", 50))
}

func (o *Orchestrator) printSummary(summary *Summary) {
	fmt.Fprintln(o.out)
	fmt.Fprintln(o.out, strings.Repeat("=", 50))
	fmt.Fprintln(o.out, "FINAL SUMMARY")
	fmt.Fprintln(o.out, strings.Repeat("=", 50))

	fmt.Fprintf(o.out, "Total entries processed: %d\n", summary.Total)
	if summary.Total > 0 {
		fmt.Fprintf(o.out, "Successfully fetched: %d (%.1f%%)\n",
			summary.Success, percent(summary.Success, summary.Total))
		fmt.Fprintf(o.out, "Failed: %d (%.1f%%)\n",
			summary.Failed, percent(summary.Failed, summary.Total))
	} else {
		fmt.Fprintln(o.out, "Successfully fetched: 0")
		fmt.Fprintln(o.out, "Failed: 0")
	}

	if summary.Failed > 0 {
		fmt.Fprintln(o.out, "\nFailed entries by category:")
		for _, result := range summary.Results {
			if result.Failed == 0 {
				continue
			}
			fmt.Fprintf(o.out, "  %s:\n", result.Category)
			for _, failed := range result.FailedEntries {
				fmt.Fprintf(o.out, "    - %s\n", failed)
			}
		}
	}

	fmt.Fprintln(o.out)
	fmt.Fprintln(o.out, strings.Repeat("=", 50))
	fmt.Fprintln(o.out, "Done!")
}

// failureMessage renders one fetch failure for the report. The
// classification is purely observational: every failure is already a
// skipped entry by the time it gets here.
func failureMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrRateLimited):
		return "rate limit exceeded, set GITHUB_TOKEN env var for higher limits"
	case errors.Is(err, domain.ErrRepoNotFound):
		return "repository not found"
	case errors.Is(err, domain.ErrNoReleases):
		return "no published releases"
	}
	if code := domain.StatusCode(err); code > 0 {
		return fmt.Sprintf("HTTP %d: %v", code, errors.Unwrap(err))
	}
	if cause := errors.Unwrap(err); cause != nil {
		return fmt.Sprintf("error: %v", cause)
	}
	return fmt.Sprintf("error: %v", err)
}

func failAll(entries []domain.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Slug()
	}
	return out
}

func percent(part, total int) float64 {
	return float64(part) / float64(total) * 100
}
