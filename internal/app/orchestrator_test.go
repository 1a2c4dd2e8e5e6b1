package app_test

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nxpack/releasegen/internal/app"
	"github.com/nxpack/releasegen/internal/config"
	"github.com/nxpack/releasegen/internal/domain"
	"github.com/nxpack/releasegen/internal/manifest"
)

// fakeClient serves canned tags or errors per owner/repo and records the
// order of calls.
type fakeClient struct {
	tags  map[string]string
	errs  map[string]error
	calls []string
}

func (f *fakeClient) LatestTag(_ context.Context, owner, repo string) (string, error) {
	key := owner + "/" + repo
	f.calls = append(f.calls, key)
	if err, ok := f.errs[key]; ok {
		return "", err
	}
	if tag, ok := f.tags[key]; ok {
		return tag, nil
	}
	return "", domain.NewFetchError(owner, repo, http.StatusNotFound, nil)
}

func writeSource(t *testing.T, includeDir string, cat domain.Category, content string) {
	t.Helper()
	dir := filepath.Join(includeDir, string(cat))
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, cat.InputFile()), []byte(content), 0644))
}

func testConfig(includeDir string) *config.Config {
	cfg := config.Default()
	cfg.Paths.IncludeDir = includeDir
	cfg.Fetch.Delay = 0
	return cfg
}

func TestNewOrchestrator(t *testing.T) {
	t.Run("requires config", func(t *testing.T) {
		_, err := app.NewOrchestrator(app.OrchestratorOptions{})
		require.Error(t, err)
	})

	t.Run("rejects unknown category filter", func(t *testing.T) {
		_, err := app.NewOrchestrator(app.OrchestratorOptions{
			Config: config.Default(),
			Only:   []string{"plugins"},
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "plugins")
	})

	t.Run("accepts known category filter", func(t *testing.T) {
		_, err := app.NewOrchestrator(app.OrchestratorOptions{
			Config: config.Default(),
			Only:   []string{"apps", "Overlays"},
		})
		require.NoError(t, err)
	})
}

func TestRun_EndToEnd(t *testing.T) {
	// A section with a valid release URL and one without: the latter must
	// produce no entry and no manifest key.
	source := `[MyModule]
url=https://api.github.com/repos/foo/bar/releases?per_page=1

[NoUpstream]
path=/static
`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/foo/bar/releases", r.URL.Path)
		w.Write([]byte(`[{"tag_name": "v2.0.0"}]`))
	}))
	t.Cleanup(srv.Close)

	includeDir := t.TempDir()
	writeSource(t, includeDir, domain.CategorySysmodules, source)

	cfg := testConfig(includeDir)
	cfg.GitHub.APIBaseURL = srv.URL

	var out bytes.Buffer
	orch, err := app.NewOrchestrator(app.OrchestratorOptions{
		Config: cfg,
		Out:    &out,
	})
	require.NoError(t, err)

	summary, err := orch.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Total)
	assert.Equal(t, 1, summary.Success)
	assert.Equal(t, 0, summary.Failed)

	// The output key is the section name, the value the normalized tag.
	manifestPath := filepath.Join(includeDir, "sysmodules", "RELEASE_SM.ini")
	got, err := manifest.ReadVersions(manifestPath, "Versions")
	require.NoError(t, err)
	v, ok := got.Get("MyModule")
	require.True(t, ok)
	assert.Equal(t, "2.0.0", v)
	_, ok = got.Get("NoUpstream")
	assert.False(t, ok)

	assert.Contains(t, out.String(), "Total entries processed: 1")
}

func TestRun_FailedEntryOmittedFromManifest(t *testing.T) {
	includeDir := t.TempDir()
	writeSource(t, includeDir, domain.CategoryOverlays, `[Good]
https://api.github.com/repos/o/good/releases
[Gone]
https://api.github.com/repos/o/gone/releases
`)

	client := &fakeClient{
		tags: map[string]string{"o/good": "v1.4.0"},
		errs: map[string]error{"o/gone": domain.NewFetchError("o", "gone", http.StatusNotFound, nil)},
	}

	var out bytes.Buffer
	orch, err := app.NewOrchestrator(app.OrchestratorOptions{
		Config: testConfig(includeDir),
		Client: client,
		Out:    &out,
	})
	require.NoError(t, err)

	summary, err := orch.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, summary.Results, 1)
	result := summary.Results[0]
	assert.Equal(t, domain.CategoryOverlays, result.Category)
	assert.Equal(t, 2, result.Total)
	assert.Equal(t, 1, result.Success)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, []string{"Gone (o/gone)"}, result.FailedEntries)

	got, err := manifest.ReadVersions(
		filepath.Join(includeDir, "overlays", "RELEASE_OV.ini"), "Versions")
	require.NoError(t, err)
	_, ok := got.Get("Gone")
	assert.False(t, ok)
	v, ok := got.Get("Good")
	require.True(t, ok)
	assert.Equal(t, "1.4.0", v)

	assert.Contains(t, out.String(), "Failed entries by category:")
	assert.Contains(t, out.String(), "Gone (o/gone)")
}

func TestRun_MissingCategorySkipped(t *testing.T) {
	includeDir := t.TempDir()
	// Only apps exists; the other three source manifests are absent.
	writeSource(t, includeDir, domain.CategoryApps, `[App]
https://api.github.com/repos/o/app/releases
`)

	client := &fakeClient{tags: map[string]string{"o/app": "1.0"}}
	orch, err := app.NewOrchestrator(app.OrchestratorOptions{
		Config: testConfig(includeDir),
		Client: client,
		Out:    &bytes.Buffer{},
	})
	require.NoError(t, err)

	summary, err := orch.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, summary.Results, 1)
	assert.Equal(t, domain.CategoryApps, summary.Results[0].Category)
}

func TestRun_SourceWithoutEntriesWritesNoManifest(t *testing.T) {
	includeDir := t.TempDir()
	writeSource(t, includeDir, domain.CategoryApps, "[OnlyLocal]\npath=/x\n")

	orch, err := app.NewOrchestrator(app.OrchestratorOptions{
		Config: testConfig(includeDir),
		Client: &fakeClient{},
		Out:    &bytes.Buffer{},
	})
	require.NoError(t, err)

	summary, err := orch.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, summary.Results)

	_, statErr := os.Stat(filepath.Join(includeDir, "apps", "RELEASE_APPS.ini"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestRun_DryRunWritesNothing(t *testing.T) {
	includeDir := t.TempDir()
	writeSource(t, includeDir, domain.CategoryEmulators, `[Emu]
https://api.github.com/repos/o/emu/releases
`)

	client := &fakeClient{tags: map[string]string{"o/emu": "v3.1"}}
	orch, err := app.NewOrchestrator(app.OrchestratorOptions{
		Config: testConfig(includeDir),
		Client: client,
		Out:    &bytes.Buffer{},
		DryRun: true,
	})
	require.NoError(t, err)

	summary, err := orch.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Success)

	_, statErr := os.Stat(filepath.Join(includeDir, "emulators", "RELEASE_EM.ini"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestRun_OnlyFilter(t *testing.T) {
	includeDir := t.TempDir()
	for _, cat := range []domain.Category{domain.CategorySysmodules, domain.CategoryApps} {
		writeSource(t, includeDir, cat, fmt.Sprintf(`[X-%s]
https://api.github.com/repos/o/%s/releases
`, cat, cat))
	}

	client := &fakeClient{tags: map[string]string{
		"o/sysmodules": "1.0",
		"o/apps":       "2.0",
	}}
	orch, err := app.NewOrchestrator(app.OrchestratorOptions{
		Config: testConfig(includeDir),
		Client: client,
		Out:    &bytes.Buffer{},
		Only:   []string{"apps"},
	})
	require.NoError(t, err)

	summary, err := orch.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, summary.Results, 1)
	assert.Equal(t, domain.CategoryApps, summary.Results[0].Category)
	assert.Equal(t, []string{"o/apps"}, client.calls)
}

func TestRun_DelayBetweenFetches(t *testing.T) {
	includeDir := t.TempDir()
	writeSource(t, includeDir, domain.CategorySysmodules, `[A]
https://api.github.com/repos/o/a/releases
[B]
https://api.github.com/repos/o/b/releases
[C]
https://api.github.com/repos/o/c/releases
`)
	writeSource(t, includeDir, domain.CategoryOverlays, `[D]
https://api.github.com/repos/o/d/releases
`)

	cfg := testConfig(includeDir)
	cfg.Fetch.Delay = 500 * time.Millisecond

	var slept []time.Duration
	client := &fakeClient{tags: map[string]string{
		"o/a": "1", "o/b": "2", "o/c": "3", "o/d": "4",
	}}
	orch, err := app.NewOrchestrator(app.OrchestratorOptions{
		Config: cfg,
		Client: client,
		Out:    &bytes.Buffer{},
		Sleep:  func(d time.Duration) { slept = append(slept, d) },
	})
	require.NoError(t, err)

	_, err = orch.Run(context.Background())
	require.NoError(t, err)

	// Two pauses inside sysmodules, none before the first fetch of each
	// category: the single overlays fetch goes out unpaced.
	assert.Equal(t, []time.Duration{500 * time.Millisecond, 500 * time.Millisecond}, slept)
	assert.Equal(t, []string{"o/a", "o/b", "o/c", "o/d"}, client.calls)
}

func TestRun_TokenBanner(t *testing.T) {
	t.Run("token reported as active", func(t *testing.T) {
		cfg := testConfig(t.TempDir())
		cfg.GitHub.Token = "tok"

		var out bytes.Buffer
		orch, err := app.NewOrchestrator(app.OrchestratorOptions{
			Config: cfg,
			Client: &fakeClient{},
			Out:    &out,
		})
		require.NoError(t, err)
		_, err = orch.Run(context.Background())
		require.NoError(t, err)
		assert.Contains(t, out.String(), "Using GitHub token")
	})

	t.Run("missing token warned about", func(t *testing.T) {
		var out bytes.Buffer
		orch, err := app.NewOrchestrator(app.OrchestratorOptions{
			Config: testConfig(t.TempDir()),
			Client: &fakeClient{},
			Out:    &out,
		})
		require.NoError(t, err)
		_, err = orch.Run(context.Background())
		require.NoError(t, err)
		assert.Contains(t, out.String(), "No GitHub token found")
	})
}
