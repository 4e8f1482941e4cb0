package fetch

import (
	"context"
	"log/slog"

	"golang.org/x/time/rate"

	"github.com/you/signal-scout/internal/core"
)

// Searcher executes a single query against one platform and returns
// normalized posts. Implementations own the provider field mapping.
type Searcher interface {
	Platform() core.Platform
	Search(ctx context.Context, query string, limit int, language string) ([]core.Post, error)
}

// Runner drives a platform through its query list sequentially. The limiter
// is the deliberate inter-query throttle demanded by provider rate limits;
// tests inject rate.NewLimiter(rate.Inf, 1) to run without delay.
type Runner struct {
	Limiter *rate.Limiter
	Log     *slog.Logger
}

// NewRunner builds a runner with the given inter-query limiter. A nil
// limiter means no throttling.
func NewRunner(limiter *rate.Limiter, log *slog.Logger) *Runner {
	if log == nil {
		log = slog.Default()
	}
	return &Runner{Limiter: limiter, Log: log}
}

// Collect runs every query through the searcher, deduplicates by post ID,
// and stamps each post with the query that surfaced it. A failing query is
// logged and skipped; it never aborts the remaining queries.
func (r *Runner) Collect(ctx context.Context, s Searcher, queries []string, limit int, language string) []core.Post {
	platform := s.Platform()
	if len(queries) == 0 {
		r.Log.Info("no active queries", "platform", platform)
		return nil
	}

	var all []core.Post
	seen := make(map[string]struct{})

	for _, query := range queries {
		// The limiter starts with one stored token, so the first wait is
		// free and every later pair of queries is spaced a full interval
		// apart.
		if r.Limiter != nil {
			if err := r.Limiter.Wait(ctx); err != nil {
				r.Log.Warn("query loop interrupted", "platform", platform, "err", err)
				break
			}
		}

		posts, err := s.Search(ctx, query, limit, language)
		if err != nil {
			r.Log.Warn("query failed", "platform", platform, "query", query, "err", err)
			continue
		}
		r.Log.Info("query done", "platform", platform, "query", query, "posts", len(posts))

		for _, post := range posts {
			if post.PostID == "" {
				continue
			}
			if _, ok := seen[post.PostID]; ok {
				continue
			}
			seen[post.PostID] = struct{}{}
			post.MatchedQuery = query
			all = append(all, post)
		}
	}

	return all
}
