package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/you/signal-scout/internal/apify"
	"github.com/you/signal-scout/internal/bluesky"
	"github.com/you/signal-scout/internal/config"
	"github.com/you/signal-scout/internal/inbox"
	"github.com/you/signal-scout/internal/pipeline"
	"github.com/you/signal-scout/internal/score"
	"github.com/you/signal-scout/internal/twitter"
	"github.com/you/signal-scout/internal/version"
	"github.com/you/signal-scout/internal/youtube"
)

func main() {
	var (
		versionFlag bool
		configPath  string
		platform    string
		dryRun      bool
		maxResults  int
		outDir      string
	)

	flag.BoolVar(&versionFlag, "version", false, "Print build version and exit")
	flag.StringVar(&configPath, "config", "config.yaml", "Path to the YAML configuration file")
	flag.StringVar(&platform, "platform", "all", "Platform to query: bluesky, youtube, twitter, or all")
	flag.BoolVar(&dryRun, "dry-run", false, "Load configuration and queries, print the plan, make no API calls")
	flag.IntVar(&maxResults, "max-results", 10, "Number of posts rendered in detail in the briefing")
	flag.StringVar(&outDir, "out", "", "Override the briefings output directory")
	flag.Parse()

	if versionFlag {
		fmt.Printf(
			"briefing version: %s (commit %s, built %s)\n",
			version.Version,
			version.Commit,
			version.BuildTime,
		)
		os.Exit(0)
	}

	switch platform {
	case "bluesky", "youtube", "twitter", "all":
	default:
		log.Fatalf("invalid -platform %q: must be bluesky, youtube, twitter, or all", platform)
	}

	logger := slog.Default()

	// Optional .env overlay for credentials; absence is fine.
	if err := godotenv.Load(); err == nil {
		logger.Info("loaded .env")
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger.Info("configuration loaded", "config", cfg.Redacted())

	if outDir != "" {
		cfg.Paths.Briefings = outDir
	}

	sources := buildSources(cfg, platform, logger)

	icpContext := config.LoadContextFile(cfg.Paths.Context, "ICP Profile.md")
	positioningContext := config.LoadContextFile(cfg.Paths.Context, "Positioning.md")
	logger.Info("context loaded",
		"icp_profile_bytes", len(icpContext),
		"positioning_bytes", len(positioningContext),
	)

	if dryRun {
		logger.Info("dry run: skipping fetch, scoring, and briefing")
		for _, src := range sources {
			logger.Info("would fetch", "platform", src.Name, "queries", len(src.Queries), "per_query", src.Limit)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p := &pipeline.Pipeline{
		Log:          logger,
		Scorer:       score.New(score.DefaultVocabulary()),
		Thresholds:   score.Thresholds{High: cfg.Scorer.Thresholds.High, Medium: cfg.Scorer.Thresholds.Medium},
		Inbox:        inbox.New(cfg.Paths.SignalsInbox),
		MinLikes:     cfg.Listener.Twitter.MinLikes,
		MinReplies:   cfg.Listener.Twitter.MinReplies,
		MaxResults:   maxResults,
		BriefingsDir: cfg.Paths.Briefings,
		RunID:        uuid.New().String(),
	}

	result, err := p.Run(ctx, sources)
	if err != nil {
		log.Fatalf("run failed: %v", err)
	}

	if result.BriefingPath == "" {
		logger.Info("run complete, no briefing written", "posts", result.TotalFetched)
		return
	}
	logger.Info("run complete",
		"briefing", result.BriefingPath,
		"posts", result.TotalFetched,
		"high", result.High,
		"medium", result.Medium,
		"low", result.Low,
		"signals_saved", result.SignalsSaved,
	)
}

// buildSources assembles the fetch plan for every platform that is enabled
// in config and selected on the command line. A platform whose query file
// cannot be read is skipped; the others still run.
func buildSources(cfg *config.Config, platform string, logger *slog.Logger) []pipeline.Source {
	var sources []pipeline.Source
	selected := func(name string) bool { return platform == "all" || platform == name }

	if selected("bluesky") {
		if !cfg.Listener.Bluesky.Enabled {
			logger.Info("bluesky disabled in config")
		} else if queries, err := config.LoadQueries(cfg.Paths.Queries, "bluesky"); err != nil {
			logger.Warn("skipping bluesky: queries unreadable", "err", err)
		} else {
			client := bluesky.New(bluesky.Config{
				Username: cfg.Bluesky.Username,
				Password: cfg.Bluesky.Password,
			}, nil)
			sources = append(sources, pipeline.Source{
				Name:     "Bluesky",
				Queries:  queries,
				Limit:    cfg.Listener.Bluesky.PostsPerQuery,
				Language: cfg.Listener.Bluesky.Language,
				Delay:    config.QueryDelay(cfg.Listener.Bluesky.QueryDelayMS),
				Searcher: client,
				Setup:    client.Login,
			})
		}
	}

	if selected("youtube") {
		if !cfg.Listener.YouTube.Enabled {
			logger.Info("youtube disabled in config")
		} else if queries, err := config.LoadQueries(cfg.Paths.Queries, "youtube"); err != nil {
			logger.Warn("skipping youtube: queries unreadable", "err", err)
		} else {
			client := youtube.New(youtube.Config{
				APIKey:     cfg.YouTube.APIKey,
				MaxAgeDays: cfg.Listener.YouTube.MaxAgeDays,
			}, nil)
			sources = append(sources, pipeline.Source{
				Name:     "YouTube",
				Queries:  queries,
				Limit:    cfg.Listener.YouTube.VideosPerQuery,
				Language: "en",
				Delay:    config.QueryDelay(cfg.Listener.YouTube.QueryDelayMS),
				Searcher: client,
			})
		}
	}

	if selected("twitter") {
		if !cfg.Listener.Twitter.Enabled {
			logger.Info("twitter disabled in config")
		} else {
			client := twitter.New(apify.New(cfg.Apify.APIToken, &http.Client{Timeout: 120 * time.Second}))
			sources = append(sources, pipeline.Source{
				Name:     "Twitter",
				Queries:  cfg.Twitter.SearchQueries,
				Limit:    cfg.Listener.Twitter.TweetsPerQuery,
				Language: cfg.Listener.Twitter.Language,
				Delay:    config.QueryDelay(cfg.Listener.Twitter.QueryDelayMS),
				Searcher: client,
			})
		}
	}

	return sources
}
