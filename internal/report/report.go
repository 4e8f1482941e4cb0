package report

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/you/signal-scout/internal/core"
	"github.com/you/signal-scout/internal/score"
)

// Stats summarizes the fetch stage for the briefing header and footer.
type Stats struct {
	Platforms    []string
	QueriesRun   int
	TotalFetched int
}

// Builder renders the daily briefing markdown.
type Builder struct {
	MaxResults int
	Thresholds score.Thresholds
	RunID      string
}

// Rank returns the scored posts ordered by total descending. The sort is
// stable: posts with equal totals keep their fetch/score order.
func Rank(scored []core.ScoredPost) []core.ScoredPost {
	out := append([]core.ScoredPost(nil), scored...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score.Total > out[j].Score.Total
	})
	return out
}

// Build renders the full briefing document. Priority counts cover the whole
// scored set even though only the top MaxResults posts are shown in detail.
func (b Builder) Build(scored []core.ScoredPost, stats Stats, now time.Time) string {
	maxResults := b.MaxResults
	if maxResults <= 0 {
		maxResults = 10
	}

	ranked := Rank(scored)
	top := ranked
	if len(top) > maxResults {
		top = top[:maxResults]
	}

	var high, medium, low int
	for _, p := range scored {
		switch p.Priority {
		case core.PriorityHigh:
			high++
		case core.PriorityMedium:
			medium++
		default:
			low++
		}
	}

	var doc strings.Builder

	// Frontmatter
	doc.WriteString("---\n")
	fmt.Fprintf(&doc, "date: %s\n", now.Format("2006-Jan-02"))
	fmt.Fprintf(&doc, "generated: %s\n", now.Format(time.RFC3339))
	if b.RunID != "" {
		fmt.Fprintf(&doc, "run_id: %s\n", b.RunID)
	}
	fmt.Fprintf(&doc, "posts_scanned: %d\n", stats.TotalFetched)
	fmt.Fprintf(&doc, "showing: %d\n", len(top))
	fmt.Fprintf(&doc, "high_priority_total: %d\n", high)
	fmt.Fprintf(&doc, "medium_priority_total: %d\n", medium)
	doc.WriteString("status: unreviewed\n")
	doc.WriteString("---\n\n")

	// Summary
	doc.WriteString("## Summary\n\n")
	platforms := strings.Join(stats.Platforms, ", ")
	if platforms == "" {
		platforms = "None"
	}
	fmt.Fprintf(&doc, "Scanned **%d** posts across %s.\n", stats.TotalFetched, platforms)
	fmt.Fprintf(&doc, "Showing top **%d** ranked by score.\n\n", len(top))
	if high > 0 {
		fmt.Fprintf(&doc, "**%d** high-signal posts found in this batch.\n", high)
	}
	doc.WriteString("\n")

	// Ranked entries
	doc.WriteString("## Top Opportunities\n\n")
	for i, p := range top {
		writeEntry(&doc, i+1, p)
	}

	// Stats table
	doc.WriteString("## Run Statistics\n\n")
	doc.WriteString("| Metric | Value |\n")
	doc.WriteString("|--------|-------|\n")
	fmt.Fprintf(&doc, "| Platforms | %s |\n", platforms)
	fmt.Fprintf(&doc, "| Queries run | %d |\n", stats.QueriesRun)
	fmt.Fprintf(&doc, "| Posts scanned | %d |\n", stats.TotalFetched)
	fmt.Fprintf(&doc, "| High signal (%d+) | %d |\n", b.Thresholds.High, high)
	fmt.Fprintf(&doc, "| Medium signal (%d-%d) | %d |\n", b.Thresholds.Medium, b.Thresholds.High-1, medium)
	fmt.Fprintf(&doc, "| Low signal (<%d) | %d |\n", b.Thresholds.Medium, low)
	doc.WriteString("\n")

	return doc.String()
}

func writeEntry(doc *strings.Builder, rank int, p core.ScoredPost) {
	badge := "Low"
	switch p.Priority {
	case core.PriorityHigh:
		badge = "HIGH SIGNAL"
	case core.PriorityMedium:
		badge = "Medium"
	}

	fmt.Fprintf(doc, "### %d. @%s — Score: %d (%s)\n\n", rank, p.Post.AuthorHandle, p.Score.Total, badge)
	fmt.Fprintf(doc, "**%s** · %d likes · %d replies · %d reposts\n\n",
		p.Post.AuthorName, p.Post.Likes, p.Post.Replies, p.Post.Reposts)
	// Full post text, untruncated.
	fmt.Fprintf(doc, "> %s\n\n", p.Post.Text)
	fmt.Fprintf(doc, "**Matched query:** `%s`\n", p.Post.MatchedQuery)
	fmt.Fprintf(doc, "**Link:** %s\n\n", p.Post.URL)
	doc.WriteString("<details><summary>Score breakdown</summary>\n\n")
	doc.WriteString("| Dimension | Score |\n")
	doc.WriteString("|-----------|-------|\n")
	fmt.Fprintf(doc, "| ICP Match | %d |\n", p.Score.ICPMatch)
	fmt.Fprintf(doc, "| Topic Relevance | %d |\n", p.Score.TopicRelevance)
	fmt.Fprintf(doc, "| Reach Potential | %d |\n", p.Score.ReachPotential)
	fmt.Fprintf(doc, "| Timing | %d |\n", p.Score.Timing)
	fmt.Fprintf(doc, "| Conversation Stage | %d |\n", p.Score.ConversationStage)
	doc.WriteString("\n</details>\n\n---\n\n")
}

// Write stores the briefing under dir. The name carries the run timestamp
// plus a short run ID suffix so two runs in the same minute never overwrite
// each other. Returns the full path.
func Write(dir, content, runID string, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrap(err, "report: create dir")
	}

	stamp := now.Format("1504")
	if short := shortRunID(runID); short != "" {
		stamp += "-" + short
	}
	name := fmt.Sprintf("%s - Daily Briefing (%s).md", now.Format("2006-Jan-02"), stamp)
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", errors.Wrap(err, "report: write briefing")
	}
	return path, nil
}

func shortRunID(runID string) string {
	if len(runID) > 8 {
		return runID[:8]
	}
	return runID
}
