package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/you/signal-scout/internal/core"
	"github.com/you/signal-scout/internal/score"
)

var testNow = time.Date(2026, 8, 31, 14, 5, 0, 0, time.UTC)

func scoredPost(id string, total int, priority core.Priority) core.ScoredPost {
	return core.ScoredPost{
		Post: core.Post{
			Platform:     core.PlatformBluesky,
			PostID:       id,
			URL:          "https://bsky.app/profile/u/post/" + id,
			AuthorHandle: "user-" + id,
			AuthorName:   "User " + id,
			Text:         "post " + id,
			MatchedQuery: "storage",
		},
		Score:    core.ScoreBreakdown{Total: total, ICPMatch: total, Timing: 80},
		Priority: priority,
	}
}

func defaultBuilder() Builder {
	return Builder{MaxResults: 10, Thresholds: score.DefaultThresholds(), RunID: "run-1"}
}

func TestRankStableOnTies(t *testing.T) {
	scored := []core.ScoredPost{
		scoredPost("a", 50, core.PriorityMedium),
		scoredPost("b", 70, core.PriorityHigh),
		scoredPost("c", 50, core.PriorityMedium),
		scoredPost("d", 50, core.PriorityMedium),
	}

	ranked := Rank(scored)
	gotOrder := make([]string, len(ranked))
	for i, p := range ranked {
		gotOrder[i] = p.Post.PostID
	}
	want := []string{"b", "a", "c", "d"}
	for i := range want {
		if gotOrder[i] != want[i] {
			t.Fatalf("order = %v, want %v (ties must keep input order)", gotOrder, want)
		}
	}

	// Rank must not reorder the caller's slice.
	if scored[0].Post.PostID != "a" {
		t.Fatalf("input slice mutated: %v", scored[0].Post.PostID)
	}
}

func TestBuildTopNAndFullSetCounts(t *testing.T) {
	var scored []core.ScoredPost
	for i := 0; i < 15; i++ {
		p := core.PriorityLow
		if i < 4 {
			p = core.PriorityHigh
		} else if i < 9 {
			p = core.PriorityMedium
		}
		scored = append(scored, scoredPost(fmt.Sprintf("p%02d", i), 90-i, p))
	}

	b := defaultBuilder()
	b.MaxResults = 5
	doc := b.Build(scored, Stats{Platforms: []string{"Bluesky"}, QueriesRun: 3, TotalFetched: 15}, testNow)

	if got := strings.Count(doc, "### "); got != 5 {
		t.Fatalf("rendered %d entries, want max_results=5", got)
	}
	// Aggregate counts cover all 15 posts, not just the 5 shown.
	for _, want := range []string{
		"high_priority_total: 4",
		"medium_priority_total: 5",
		"showing: 5",
		"posts_scanned: 15",
		"| High signal (70+) | 4 |",
		"| Medium signal (50-69) | 5 |",
		"| Low signal (<50) | 6 |",
	} {
		if !strings.Contains(doc, want) {
			t.Fatalf("briefing missing %q:\n%s", want, doc)
		}
	}
}

func TestBuildEntryContent(t *testing.T) {
	post := scoredPost("a", 72, core.PriorityHigh)
	post.Post.Text = "a long post body that must never be truncated in the briefing output"
	post.Post.Likes = 9
	post.Post.Replies = 4
	post.Post.Reposts = 2
	post.Score = core.ScoreBreakdown{ICPMatch: 90, TopicRelevance: 55, ReachPotential: 40, Timing: 80, ConversationStage: 85, Total: 72}

	doc := defaultBuilder().Build([]core.ScoredPost{post}, Stats{Platforms: []string{"Bluesky"}, QueriesRun: 1, TotalFetched: 1}, testNow)

	for _, want := range []string{
		"### 1. @user-a — Score: 72 (HIGH SIGNAL)",
		"**User a** · 9 likes · 4 replies · 2 reposts",
		"> a long post body that must never be truncated in the briefing output",
		"**Matched query:** `storage`",
		"**Link:** https://bsky.app/profile/u/post/a",
		"| ICP Match | 90 |",
		"| Conversation Stage | 85 |",
		"run_id: run-1",
		"date: 2026-Aug-31",
		"status: unreviewed",
	} {
		if !strings.Contains(doc, want) {
			t.Fatalf("briefing missing %q:\n%s", want, doc)
		}
	}
}

func TestBuildEmptySet(t *testing.T) {
	doc := defaultBuilder().Build(nil, Stats{}, testNow)
	for _, want := range []string{
		"posts_scanned: 0",
		"showing: 0",
		"Scanned **0** posts across None.",
		"| Platforms | None |",
	} {
		if !strings.Contains(doc, want) {
			t.Fatalf("empty briefing missing %q:\n%s", want, doc)
		}
	}
}

func TestWriteTimestampedFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "briefings")

	path, err := Write(dir, "content\n", "aabbccdd-0000", testNow)
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if filepath.Base(path) != "2026-Aug-31 - Daily Briefing (1405-aabbccdd).md" {
		t.Fatalf("filename = %q", filepath.Base(path))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read briefing: %v", err)
	}
	if string(data) != "content\n" {
		t.Fatalf("content = %q", data)
	}

	// A later run gets a different name, never an overwrite.
	other, err := Write(dir, "later\n", "aabbccdd-0000", testNow.Add(time.Minute))
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if other == path {
		t.Fatalf("second run reused filename %q", other)
	}
}

func TestWriteSameMinuteRunsDoNotCollide(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "briefings")

	first, err := Write(dir, "first\n", "11111111-aaaa", testNow)
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	second, err := Write(dir, "second\n", "22222222-bbbb", testNow)
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if first == second {
		t.Fatalf("runs in the same minute reused filename %q", first)
	}

	data, err := os.ReadFile(first)
	if err != nil {
		t.Fatalf("read first briefing: %v", err)
	}
	if string(data) != "first\n" {
		t.Fatalf("first briefing overwritten: %q", data)
	}
}

func TestWriteWithoutRunID(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "briefings")

	path, err := Write(dir, "content\n", "", testNow)
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if filepath.Base(path) != "2026-Aug-31 - Daily Briefing (1405).md" {
		t.Fatalf("filename = %q", filepath.Base(path))
	}
}
