package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("BLUESKY_USERNAME", "")
	t.Setenv("BLUESKY_PASSWORD", "")
	t.Setenv("YOUTUBE_API_KEY", "")
	t.Setenv("APIFY_API_TOKEN", "")

	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "listener:\n  bluesky:\n    enabled: true\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !cfg.Listener.Bluesky.Enabled {
		t.Fatalf("expected bluesky enabled")
	}
	if cfg.Listener.Bluesky.PostsPerQuery != 25 {
		t.Fatalf("posts_per_query default = %d, want 25", cfg.Listener.Bluesky.PostsPerQuery)
	}
	if cfg.Listener.Bluesky.Language != "en" {
		t.Fatalf("language default = %q, want en", cfg.Listener.Bluesky.Language)
	}
	if cfg.Listener.YouTube.VideosPerQuery != 10 {
		t.Fatalf("videos_per_query default = %d, want 10", cfg.Listener.YouTube.VideosPerQuery)
	}
	if cfg.Listener.YouTube.MaxAgeDays != 90 {
		t.Fatalf("max_age_days default = %d, want 90", cfg.Listener.YouTube.MaxAgeDays)
	}
	if cfg.Scorer.Thresholds.High != 70 || cfg.Scorer.Thresholds.Medium != 50 {
		t.Fatalf("threshold defaults = %d/%d, want 70/50", cfg.Scorer.Thresholds.High, cfg.Scorer.Thresholds.Medium)
	}
	if cfg.Paths.Briefings != "briefings" {
		t.Fatalf("briefings default = %q", cfg.Paths.Briefings)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}

func TestLoadEnvOverridesCredentials(t *testing.T) {
	t.Setenv("BLUESKY_USERNAME", "scout.example.com")
	t.Setenv("BLUESKY_PASSWORD", "env-secret")
	t.Setenv("YOUTUBE_API_KEY", "env-key")
	t.Setenv("APIFY_API_TOKEN", "")

	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "bluesky:\n  username: file-user\n  password: file-pass\napify:\n  api_token: file-token\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Bluesky.Username != "scout.example.com" {
		t.Fatalf("username = %q, want env override", cfg.Bluesky.Username)
	}
	if cfg.Bluesky.Password != "env-secret" {
		t.Fatalf("password = %q, want env override", cfg.Bluesky.Password)
	}
	if cfg.YouTube.APIKey != "env-key" {
		t.Fatalf("api key = %q, want env override", cfg.YouTube.APIKey)
	}
	if cfg.Apify.APIToken != "file-token" {
		t.Fatalf("api token = %q, want file value kept", cfg.Apify.APIToken)
	}
}

func TestRedactedMasksSecrets(t *testing.T) {
	cfg := Config{}
	cfg.Bluesky.Password = "hunter2"
	cfg.YouTube.APIKey = "AIza-something"

	red := cfg.Redacted()
	bluesky := red["bluesky"].(map[string]any)
	if got := bluesky["password"].(string); strings.Contains(got, "hunter2") || !strings.Contains(got, "REDACTED") {
		t.Fatalf("password not redacted: %q", got)
	}
	youtube := red["youtube"].(map[string]any)
	if got := youtube["api_key"].(string); strings.Contains(got, "AIza") {
		t.Fatalf("api key not redacted: %q", got)
	}
}

func TestLoadQueries(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "bluesky.yaml"), "active:\n  - decentralized storage\n  - \"  \"\n  - big tech alternatives\n")

	queries, err := LoadQueries(dir, "bluesky")
	if err != nil {
		t.Fatalf("LoadQueries() error = %v", err)
	}
	want := []string{"decentralized storage", "big tech alternatives"}
	if len(queries) != len(want) {
		t.Fatalf("queries = %v, want %v", queries, want)
	}
	for i := range want {
		if queries[i] != want[i] {
			t.Fatalf("queries[%d] = %q, want %q", i, queries[i], want[i])
		}
	}
}

func TestLoadQueriesMissingFile(t *testing.T) {
	queries, err := LoadQueries(t.TempDir(), "youtube")
	if err != nil {
		t.Fatalf("LoadQueries() error = %v", err)
	}
	if len(queries) != 0 {
		t.Fatalf("expected empty query list, got %v", queries)
	}
}

func TestLoadContextFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "ICP Profile.md"), "# ICP\npioneer advocates\n")

	if got := LoadContextFile(dir, "ICP Profile.md"); !strings.Contains(got, "pioneer advocates") {
		t.Fatalf("context = %q", got)
	}
	if got := LoadContextFile(dir, "Positioning.md"); got != "" {
		t.Fatalf("missing context file should be empty, got %q", got)
	}
}
