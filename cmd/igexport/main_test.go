package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"igexport/pkg/auth"
)

// newMockInstagram serves one public and one private account. The cookie
// header of the last feed request is recorded.
func newMockInstagram(t *testing.T) (*httptest.Server, *int32, *atomic.Value) {
	t.Helper()
	var feedCalls int32
	var lastCookie atomic.Value
	lastCookie.Store("")

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "csrftoken", Value: "tok", Path: "/"})
	})
	mux.HandleFunc("/web/search/topsearch/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"users":[
			{"position":0,"user":{"pk":"1","username":"open"}},
			{"position":1,"user":{"pk":"2","username":"closed"}}]}`))
	})
	mux.HandleFunc("/api/v1/users/1/info/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"user":{"pk":1,"username":"open","media_count":2,"is_private":false}}`))
	})
	mux.HandleFunc("/api/v1/users/2/info/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"user":{"pk":2,"username":"closed","media_count":9,"is_private":true}}`))
	})
	mux.HandleFunc("/api/v1/feed/user/1/", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&feedCalls, 1)
		lastCookie.Store(r.Header.Get("Cookie"))
		w.Write([]byte(`{"items":[
			{"pk":10,"code":"a","media_type":1,"taken_at":1700000000},
			{"pk":11,"code":"b","media_type":2,"taken_at":1700000001,"play_count":5}],
			"more_available":false}`))
	})
	mux.HandleFunc("/api/v1/feed/user/2/", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&feedCalls, 1)
		w.WriteHeader(http.StatusForbidden)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, &feedCalls, &lastCookie
}

// isolate points HOME at a temp dir, runs from it and writes a config with
// no pacing delays against baseURL
func isolate(t *testing.T, baseURL string) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, ".config"))
	for _, key := range []string{"IGSCRAPER_SESSION_ID", "IGSCRAPER_ACCOUNT", "IGSCRAPER_OUTPUT", "IGSCRAPER_BASE_URL", "IGSCRAPER_LOG_LEVEL"} {
		t.Setenv(key, "")
	}

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg := `instagram:
  base_url: "` + baseURL + `"
rate_limit:
  min_delay: 0s
  max_delay: 0s
  backoff_base: 0s
  max_jitter: 0s
  max_retries: 1
logging:
  level: disabled
`
	path := filepath.Join(dir, "test.yaml")
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0600))
	return path
}

type harness struct {
	opts   *rootOptions
	stdout *bytes.Buffer
	stderr *bytes.Buffer
	store  *auth.MockStore
}

func newHarness(stdin string) *harness {
	manager, store := auth.NewMockManager()
	h := &harness{
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
		store:  store,
	}
	h.opts = &rootOptions{
		stdin:       strings.NewReader(stdin),
		stdout:      h.stdout,
		stderr:      h.stderr,
		credentials: func() (*auth.Manager, error) { return manager, nil },
	}
	return h
}

func (h *harness) run(args ...string) int {
	return run(context.Background(), h.opts, args)
}

func TestBareUsernameWritesJSONToStdout(t *testing.T) {
	server, feedCalls, _ := newMockInstagram(t)
	cfgPath := isolate(t, server.URL)

	h := newHarness("")
	code := h.run("-c", cfgPath, "-q", "@open")
	require.Equal(t, 0, code, h.stderr.String())

	var result map[string]interface{}
	require.NoError(t, json.Unmarshal(h.stdout.Bytes(), &result))
	posts := result["posts"].([]interface{})
	assert.Len(t, posts, 2)
	assert.Equal(t, int32(1), atomic.LoadInt32(feedCalls))

	meta := result["scrape_metadata"].(map[string]interface{})
	assert.Equal(t, "open", meta["target_username"])
	assert.Equal(t, float64(2), meta["total_posts_fetched"])
}

func TestScrapeToFileWithMaxPosts(t *testing.T) {
	server, _, _ := newMockInstagram(t)
	cfgPath := isolate(t, server.URL)
	out := filepath.Join(t.TempDir(), "open.json")

	h := newHarness("")
	code := h.run("scrape", "open", "-c", cfgPath, "-o", out, "-m", "1")
	require.Equal(t, 0, code, h.stderr.String())
	assert.Empty(t, h.stdout.String())
	assert.Contains(t, h.stderr.String(), "Exported 1 posts from @open")

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	var result map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &result))
	assert.Len(t, result["posts"], 1)
}

func TestScrapePrivateProfile(t *testing.T) {
	server, feedCalls, _ := newMockInstagram(t)
	cfgPath := isolate(t, server.URL)

	h := newHarness("")
	code := h.run("scrape", "closed", "-c", cfgPath, "-q")
	require.Equal(t, 0, code, h.stderr.String())

	assert.Contains(t, h.stdout.String(), `"posts": []`)
	assert.Equal(t, int32(0), atomic.LoadInt32(feedCalls))
}

func TestScrapeUnknownUserExitsWithMessage(t *testing.T) {
	server, _, _ := newMockInstagram(t)
	cfgPath := isolate(t, server.URL)

	h := newHarness("")
	code := h.run("scrape", "nobody", "-c", cfgPath, "-q")
	assert.Equal(t, 1, code)
	assert.Contains(t, h.stderr.String(), "Error: User not found. Check the username and try again.")
	assert.Empty(t, h.stdout.String())
}

func TestScrapeUsesStoredAccount(t *testing.T) {
	server, _, lastCookie := newMockInstagram(t)
	cfgPath := isolate(t, server.URL)

	h := newHarness("")
	require.NoError(t, h.store.Store(&auth.Account{Name: "main", SessionID: "stored-cookie"}))

	code := h.run("scrape", "open", "-c", cfgPath, "-q", "--account", "main")
	require.Equal(t, 0, code, h.stderr.String())
	assert.Contains(t, lastCookie.Load().(string), "sessionid=stored-cookie")
}

func TestScrapeSessionFlagWins(t *testing.T) {
	server, _, lastCookie := newMockInstagram(t)
	cfgPath := isolate(t, server.URL)

	h := newHarness("")
	require.NoError(t, h.store.Store(&auth.Account{Name: "main", SessionID: "stored-cookie"}))

	code := h.run("scrape", "open", "-c", cfgPath, "-q", "--session-id", "flag-cookie")
	require.Equal(t, 0, code, h.stderr.String())
	assert.Contains(t, lastCookie.Load().(string), "sessionid=flag-cookie")
}

func TestScrapeMissingAccount(t *testing.T) {
	server, _, _ := newMockInstagram(t)
	cfgPath := isolate(t, server.URL)

	h := newHarness("")
	code := h.run("scrape", "open", "-c", cfgPath, "-q", "--account", "ghost")
	assert.Equal(t, 1, code)
	assert.Contains(t, h.stderr.String(), `account "ghost"`)
}

func TestScrapeRejectsNegativeMaxPosts(t *testing.T) {
	h := newHarness("")
	code := h.run("scrape", "open", "-m", "-1")
	assert.Equal(t, 1, code)
	assert.Contains(t, h.stderr.String(), "--max-posts")
}

func TestAuthSetListRemove(t *testing.T) {
	h := newHarness("1234%3Aabcdefghijkl%3A9\n")
	require.Equal(t, 0, h.run("auth", "set", "main"), h.stderr.String())
	assert.True(t, h.store.Exists("main"))

	h.stdout.Reset()
	require.Equal(t, 0, h.run("auth", "list"))
	assert.Contains(t, h.stdout.String(), "main")
	assert.Contains(t, h.stdout.String(), "1234...%3A9")
	assert.NotContains(t, h.stdout.String(), "abcdefghijkl")

	require.Equal(t, 0, h.run("auth", "remove", "main"))
	assert.False(t, h.store.Exists("main"))

	assert.Equal(t, 1, h.run("auth", "remove", "main"))
}

func TestAuthSetRejectsCookieHeader(t *testing.T) {
	h := newHarness("sessionid=abc; csrftoken=def\n")
	assert.Equal(t, 1, h.run("auth", "set"))
	assert.Equal(t, 0, h.store.Count())
}

func TestConfigInitShowValidate(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("IGSCRAPER_SESSION_ID", "")
	path := filepath.Join(dir, "cfg", "igexport.yaml")

	h := newHarness("")
	require.Equal(t, 0, h.run("config", "init", "-c", path), h.stderr.String())
	_, err := os.Stat(path)
	require.NoError(t, err)

	assert.Equal(t, 1, h.run("config", "init", "-c", path), "refuses to overwrite")
	assert.Equal(t, 0, h.run("config", "init", "-c", path, "--force"))

	h.stdout.Reset()
	require.Equal(t, 0, h.run("config", "show", "-c", path))
	assert.Contains(t, h.stdout.String(), "base_url: https://www.instagram.com")

	require.Equal(t, 0, h.run("config", "validate", "-c", path))
	assert.Contains(t, h.stderr.String(), "Configuration is valid")
}

func TestConfigValidateReportsErrors(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("rate_limit:\n  min_delay: 5s\n  max_delay: 1s\n"), 0600))

	h := newHarness("")
	assert.Equal(t, 1, h.run("config", "validate", "-c", path))
	assert.Contains(t, h.stderr.String(), "max delay must not be less than min delay")
}

func TestNoArgsShowsHelp(t *testing.T) {
	h := newHarness("")
	assert.Equal(t, 0, h.run())
	assert.Contains(t, h.stdout.String(), "igexport")
}
