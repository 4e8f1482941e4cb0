package pipeline

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/you/signal-scout/internal/core"
	"github.com/you/signal-scout/internal/fetch"
	"github.com/you/signal-scout/internal/inbox"
	"github.com/you/signal-scout/internal/report"
	"github.com/you/signal-scout/internal/score"
)

// Source is one platform's fetch plan for a run.
type Source struct {
	Name     string // display name for the briefing, e.g. "Bluesky"
	Queries  []string
	Limit    int
	Language string
	Delay    time.Duration // inter-query throttle, provider rate-limit driven

	Searcher fetch.Searcher
	// Setup runs once before the query loop (e.g. session login). A failure
	// skips this platform only.
	Setup func(ctx context.Context) error
}

// Pipeline runs the full batch: fetch, score, persist signals, write the
// briefing. One synchronous pass, platform after platform.
type Pipeline struct {
	Log        *slog.Logger
	Scorer     *score.Scorer
	Thresholds score.Thresholds

	// Twitter signal persistence; nil disables it.
	Inbox      *inbox.Store
	MinLikes   int
	MinReplies int

	MaxResults   int
	BriefingsDir string
	RunID        string
	Now          func() time.Time
}

// Result summarizes a completed run.
type Result struct {
	PlatformsRun []string
	QueriesRun   int
	TotalFetched int
	High         int
	Medium       int
	Low          int
	SignalsSaved int
	BriefingPath string
}

// Run executes the batch. Platform failures degrade to partial data; only
// report writing can fail the run.
func (p *Pipeline) Run(ctx context.Context, sources []Source) (Result, error) {
	log := p.Log
	if log == nil {
		log = slog.Default()
	}
	now := time.Now
	if p.Now != nil {
		now = p.Now
	}

	var result Result
	var posts []core.Post

	for _, src := range sources {
		if len(src.Queries) == 0 {
			log.Info("no active queries, skipping platform", "platform", src.Name)
			continue
		}
		if src.Setup != nil {
			if err := src.Setup(ctx); err != nil {
				log.Warn("platform setup failed, skipping", "platform", src.Name, "err", err)
				continue
			}
		}

		log.Info("fetching", "platform", src.Name, "queries", len(src.Queries), "per_query", src.Limit)
		runner := fetch.NewRunner(rate.NewLimiter(rate.Every(src.Delay), 1), log)
		fetched := runner.Collect(ctx, src.Searcher, src.Queries, src.Limit, src.Language)

		posts = append(posts, fetched...)
		if len(fetched) > 0 {
			result.PlatformsRun = append(result.PlatformsRun, src.Name)
			result.QueriesRun += len(src.Queries)
		}
	}

	result.TotalFetched = len(posts)
	if len(posts) == 0 {
		log.Info("no posts found across all platforms")
		return result, nil
	}

	log.Info("scoring posts", "count", len(posts))
	scored := make([]core.ScoredPost, 0, len(posts))
	for _, post := range posts {
		breakdown := p.Scorer.Score(post)
		priority := score.PriorityFor(breakdown.Total, p.Thresholds)
		scored = append(scored, core.ScoredPost{Post: post, Score: breakdown, Priority: priority})

		switch priority {
		case core.PriorityHigh:
			result.High++
		case core.PriorityMedium:
			result.Medium++
		default:
			result.Low++
		}
	}
	log.Info("scored", "high", result.High, "medium", result.Medium, "low", result.Low)

	if p.Inbox != nil {
		result.SignalsSaved = p.saveSignals(log, posts, now())
	}

	builder := report.Builder{MaxResults: p.MaxResults, Thresholds: p.Thresholds, RunID: p.RunID}
	stats := report.Stats{
		Platforms:    result.PlatformsRun,
		QueriesRun:   result.QueriesRun,
		TotalFetched: result.TotalFetched,
	}
	content := builder.Build(scored, stats, now())

	path, err := report.Write(p.BriefingsDir, content, p.RunID, now())
	if err != nil {
		return result, err
	}
	result.BriefingPath = path
	return result, nil
}

// saveSignals persists qualifying twitter posts to the inbox, skipping URLs
// already stored by previous runs.
func (p *Pipeline) saveSignals(log *slog.Logger, posts []core.Post, now time.Time) int {
	existing, err := p.Inbox.ExistingURLs()
	if err != nil {
		log.Warn("could not scan signal inbox", "err", err)
		return 0
	}

	saved := 0
	for _, post := range posts {
		if post.Platform != core.PlatformTwitter || post.URL == "" {
			continue
		}
		if post.Likes < p.MinLikes || post.Replies < p.MinReplies {
			continue
		}
		if _, ok := existing[post.URL]; ok {
			continue
		}
		name, err := p.Inbox.Save(post, now)
		if err != nil {
			log.Warn("could not save signal", "url", post.URL, "err", err)
			continue
		}
		existing[post.URL] = struct{}{}
		saved++
		log.Info("saved signal", "file", name)
	}
	return saved
}
