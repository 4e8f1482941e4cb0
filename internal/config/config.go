package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Listener ListenerConfig `yaml:"listener"`
	Bluesky  BlueskyConfig  `yaml:"bluesky"`
	YouTube  YouTubeConfig  `yaml:"youtube"`
	Apify    ApifyConfig    `yaml:"apify"`
	Twitter  TwitterConfig  `yaml:"twitter"`
	Scorer   ScorerConfig   `yaml:"scorer"`
	Paths    PathsConfig    `yaml:"paths"`
}

type ListenerConfig struct {
	Bluesky BlueskyListener `yaml:"bluesky"`
	YouTube YouTubeListener `yaml:"youtube"`
	Twitter TwitterListener `yaml:"twitter"`
}

type BlueskyListener struct {
	Enabled       bool   `yaml:"enabled"`
	PostsPerQuery int    `yaml:"posts_per_query"`
	Language      string `yaml:"language"`
	QueryDelayMS  int    `yaml:"query_delay_ms"`
}

type YouTubeListener struct {
	Enabled        bool `yaml:"enabled"`
	VideosPerQuery int  `yaml:"videos_per_query"`
	MaxAgeDays     int  `yaml:"max_age_days"`
	QueryDelayMS   int  `yaml:"query_delay_ms"`
}

type TwitterListener struct {
	Enabled        bool   `yaml:"enabled"`
	TweetsPerQuery int    `yaml:"tweets_per_query"`
	MinLikes       int    `yaml:"min_likes"`
	MinReplies     int    `yaml:"min_replies"`
	Language       string `yaml:"language"`
	QueryDelayMS   int    `yaml:"query_delay_ms"`
}

type BlueskyConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

type YouTubeConfig struct {
	APIKey string `yaml:"api_key"`
}

type ApifyConfig struct {
	APIToken string `yaml:"api_token"`
}

type TwitterConfig struct {
	SearchQueries []string `yaml:"search_queries"`
}

type ScorerConfig struct {
	Thresholds ThresholdConfig `yaml:"thresholds"`
}

type ThresholdConfig struct {
	High   int `yaml:"high"`
	Medium int `yaml:"medium"`
}

type PathsConfig struct {
	Queries      string `yaml:"queries"`
	Context      string `yaml:"context"`
	Briefings    string `yaml:"briefings"`
	SignalsInbox string `yaml:"signals_inbox"`
}

const (
	defaultPostsPerQuery  = 25
	defaultVideosPerQuery = 10
	defaultTweetsPerQuery = 20
	defaultMaxAgeDays     = 90
	defaultLanguage       = "en"
	defaultHighThreshold  = 70
	defaultMediumThresh   = 50
)

// Load reads the YAML config file, applies defaults, then overlays
// credentials from the environment (BLUESKY_USERNAME, BLUESKY_PASSWORD,
// YOUTUBE_API_KEY, APIFY_API_TOKEN).
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "parse config")
	}

	cfg.applyDefaults()
	cfg.applyEnv()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Listener.Bluesky.PostsPerQuery <= 0 {
		c.Listener.Bluesky.PostsPerQuery = defaultPostsPerQuery
	}
	if c.Listener.Bluesky.Language == "" {
		c.Listener.Bluesky.Language = defaultLanguage
	}
	if c.Listener.Bluesky.QueryDelayMS <= 0 {
		c.Listener.Bluesky.QueryDelayMS = 300
	}
	if c.Listener.YouTube.VideosPerQuery <= 0 {
		c.Listener.YouTube.VideosPerQuery = defaultVideosPerQuery
	}
	if c.Listener.YouTube.MaxAgeDays <= 0 {
		c.Listener.YouTube.MaxAgeDays = defaultMaxAgeDays
	}
	if c.Listener.YouTube.QueryDelayMS <= 0 {
		c.Listener.YouTube.QueryDelayMS = 500
	}
	if c.Listener.Twitter.TweetsPerQuery <= 0 {
		c.Listener.Twitter.TweetsPerQuery = defaultTweetsPerQuery
	}
	if c.Listener.Twitter.Language == "" {
		c.Listener.Twitter.Language = defaultLanguage
	}
	if c.Listener.Twitter.QueryDelayMS <= 0 {
		c.Listener.Twitter.QueryDelayMS = 500
	}
	if c.Scorer.Thresholds.High <= 0 {
		c.Scorer.Thresholds.High = defaultHighThreshold
	}
	if c.Scorer.Thresholds.Medium <= 0 {
		c.Scorer.Thresholds.Medium = defaultMediumThresh
	}
	if c.Paths.Queries == "" {
		c.Paths.Queries = "queries"
	}
	if c.Paths.Context == "" {
		c.Paths.Context = "context"
	}
	if c.Paths.Briefings == "" {
		c.Paths.Briefings = "briefings"
	}
	if c.Paths.SignalsInbox == "" {
		c.Paths.SignalsInbox = "inbox"
	}
}

func (c *Config) applyEnv() {
	if v := strings.TrimSpace(os.Getenv("BLUESKY_USERNAME")); v != "" {
		c.Bluesky.Username = v
	}
	if v := strings.TrimSpace(os.Getenv("BLUESKY_PASSWORD")); v != "" {
		c.Bluesky.Password = v
	}
	if v := strings.TrimSpace(os.Getenv("YOUTUBE_API_KEY")); v != "" {
		c.YouTube.APIKey = v
	}
	if v := strings.TrimSpace(os.Getenv("APIFY_API_TOKEN")); v != "" {
		c.Apify.APIToken = v
	}
}

// QueryDelay converts a per-platform delay setting to a duration.
func QueryDelay(ms int) time.Duration {
	if ms <= 0 {
		return 0
	}
	return time.Duration(ms) * time.Millisecond
}

// Redacted returns a loggable view of the config with secrets masked.
func (c Config) Redacted() map[string]any {
	return map[string]any{
		"listener": map[string]any{
			"bluesky": map[string]any{
				"enabled":         c.Listener.Bluesky.Enabled,
				"posts_per_query": c.Listener.Bluesky.PostsPerQuery,
				"language":        c.Listener.Bluesky.Language,
				"query_delay_ms":  c.Listener.Bluesky.QueryDelayMS,
			},
			"youtube": map[string]any{
				"enabled":          c.Listener.YouTube.Enabled,
				"videos_per_query": c.Listener.YouTube.VideosPerQuery,
				"max_age_days":     c.Listener.YouTube.MaxAgeDays,
				"query_delay_ms":   c.Listener.YouTube.QueryDelayMS,
			},
			"twitter": map[string]any{
				"enabled":          c.Listener.Twitter.Enabled,
				"tweets_per_query": c.Listener.Twitter.TweetsPerQuery,
				"min_likes":        c.Listener.Twitter.MinLikes,
				"min_replies":      c.Listener.Twitter.MinReplies,
				"language":         c.Listener.Twitter.Language,
				"query_delay_ms":   c.Listener.Twitter.QueryDelayMS,
			},
		},
		"bluesky": map[string]any{
			"username": c.Bluesky.Username,
			"password": redactString(c.Bluesky.Password),
		},
		"youtube": map[string]any{
			"api_key": redactString(c.YouTube.APIKey),
		},
		"apify": map[string]any{
			"api_token": redactString(c.Apify.APIToken),
		},
		"twitter": map[string]any{
			"search_queries": len(c.Twitter.SearchQueries),
		},
		"scorer": map[string]any{
			"thresholds": map[string]any{
				"high":   c.Scorer.Thresholds.High,
				"medium": c.Scorer.Thresholds.Medium,
			},
		},
		"paths": map[string]any{
			"queries":       c.Paths.Queries,
			"context":       c.Paths.Context,
			"briefings":     c.Paths.Briefings,
			"signals_inbox": c.Paths.SignalsInbox,
		},
	}
}

func redactString(value string) string {
	if strings.TrimSpace(value) == "" {
		return ""
	}
	return "***REDACTED*** (len=" + strconv.Itoa(len(value)) + ")"
}
