package core

// Platform identifies the source network of a post.
type Platform string

const (
	PlatformBluesky Platform = "bluesky"
	PlatformYouTube Platform = "youtube"
	PlatformTwitter Platform = "twitter"
)

// Post is the unified structure every fetcher normalizes into. Counters
// default to zero when the provider omits them; Text may be empty but is
// never "missing".
type Post struct {
	Platform     Platform
	PostID       string // platform-native ID, unique per platform within a run
	URL          string // canonical web-viewable link
	AuthorHandle string
	AuthorName   string
	AuthorBio    string // optional, twitter only
	Followers    int    // optional, twitter only
	Text         string
	CreatedAt    string // provider timestamp string, stored as-is
	Likes        int
	Replies      int
	Reposts      int
	Views        int
	IsReply      bool
	MatchedQuery string // search term that surfaced this post
}

// EngagementTotal is the reach proxy used by the scorer. YouTube never
// reports reposts, so its value is effectively likes+comments.
func (p Post) EngagementTotal() int {
	return p.Likes + p.Replies + p.Reposts
}

// ScoreBreakdown holds the five sub-scores plus the weighted total, all in
// [0,100].
type ScoreBreakdown struct {
	ICPMatch          int
	TopicRelevance    int
	ReachPotential    int
	Timing            int
	ConversationStage int
	Total             int
}

// Priority is the triage tier derived from a total score.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Rank orders priorities low < medium < high.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 2
	case PriorityMedium:
		return 1
	default:
		return 0
	}
}

// ScoredPost pairs a post with its score breakdown and derived tier.
type ScoredPost struct {
	Post     Post
	Score    ScoreBreakdown
	Priority Priority
}
