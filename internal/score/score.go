package score

import (
	"strings"

	"github.com/you/signal-scout/internal/core"
)

// Dimension weights, in hundredths so the total stays in exact integer
// arithmetic. They sum to 100.
const (
	weightICP    = 30
	weightTopic  = 25
	weightReach  = 15
	weightTiming = 15
	weightStage  = 15
)

// Sub-score constants.
const (
	icpBaseline   = 30 // post matched a search query, so nonzero relevance
	topicBaseline = 25

	stageQuestion    = 85
	stageFrustration = 75
	stageDecided     = 30
	stageDefault     = 50

	// Real recency math is a known simplification; searches already sort by
	// latest, so timing defaults to "good".
	timingDefault = 80
)

// Scorer maps a post to a ScoreBreakdown. It is pure: no I/O, deterministic
// for a given vocabulary.
type Scorer struct {
	vocab Vocabulary

	// TimingFn, when set, replaces the constant timing sub-score. The
	// returned value is clamped to [0,100].
	TimingFn func(createdAt string) int
}

// New returns a Scorer over the given vocabulary.
func New(vocab Vocabulary) *Scorer {
	return &Scorer{vocab: vocab}
}

// Score computes the five sub-scores and the weighted total for a post.
func (s *Scorer) Score(post core.Post) core.ScoreBreakdown {
	text := strings.ToLower(post.Text)

	icp := s.icpMatch(text)
	topic := s.topicRelevance(text)
	reach := reachPotential(post.EngagementTotal())
	timing := s.timing(post.CreatedAt)
	stage := s.conversationStage(text)

	weighted := weightICP*icp + weightTopic*topic + weightReach*reach +
		weightTiming*timing + weightStage*stage
	// Halves round up.
	total := (weighted + 50) / 100

	return core.ScoreBreakdown{
		ICPMatch:          icp,
		TopicRelevance:    topic,
		ReachPotential:    reach,
		Timing:            timing,
		ConversationStage: stage,
		Total:             total,
	}
}

func (s *Scorer) icpMatch(text string) int {
	high := countHits(text, s.vocab.HighValue)
	question := countHits(text, s.vocab.Question)
	low := countHits(text, s.vocab.LowValue)

	score := high*20 + question*25
	if score > 100 {
		score = 100
	}
	score -= low * 30
	if score < 0 {
		score = 0
	}
	if score == 0 {
		score = icpBaseline
	}
	return score
}

func (s *Scorer) topicRelevance(text string) int {
	direct := countHits(text, s.vocab.DirectRelevance)
	adjacent := countHits(text, s.vocab.AdjacentTopics)

	score := direct*30 + adjacent*15
	if score > 100 {
		score = 100
	}
	if score == 0 {
		score = topicBaseline
	}
	return score
}

func reachPotential(engagement int) int {
	switch {
	case engagement >= 100:
		return 100
	case engagement >= 50:
		return 80
	case engagement >= 20:
		return 60
	case engagement >= 10:
		return 40
	case engagement >= 5:
		return 25
	default:
		return 10
	}
}

func (s *Scorer) timing(createdAt string) int {
	if s.TimingFn == nil {
		return timingDefault
	}
	v := s.TimingFn(createdAt)
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func (s *Scorer) conversationStage(text string) int {
	// Order matters: question markers outrank frustration, which outranks
	// already-decided language.
	if anyHit(text, s.vocab.StageQuestion) {
		return stageQuestion
	}
	if anyHit(text, s.vocab.StageFrustration) {
		return stageFrustration
	}
	if anyHit(text, s.vocab.StageDecided) {
		return stageDecided
	}
	return stageDefault
}

func countHits(text string, terms []string) int {
	n := 0
	for _, term := range terms {
		if strings.Contains(text, term) {
			n++
		}
	}
	return n
}

func anyHit(text string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}
