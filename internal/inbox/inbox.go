package inbox

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/you/signal-scout/internal/core"
)

// Store persists one markdown file per qualifying signal. It is the only
// state that survives across runs; duplicate detection scans the stored
// url field of existing files.
type Store struct {
	dir string
}

func New(dir string) *Store {
	return &Store{dir: dir}
}

// SignalID derives the stable short identifier for a signal from its
// canonical URL.
func SignalID(postURL string) string {
	sum := md5.Sum([]byte(postURL))
	return hex.EncodeToString(sum[:])[:12]
}

// ExistingURLs scans the inbox for the url field of every stored signal.
// A missing inbox directory means no existing signals.
func (s *Store) ExistingURLs() (map[string]struct{}, error) {
	urls := make(map[string]struct{})

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return urls, nil
		}
		return nil, errors.Wrap(err, "inbox: read dir")
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			continue
		}
		for _, line := range strings.Split(string(data), "\n") {
			if strings.HasPrefix(line, "url:") {
				url := strings.TrimSpace(strings.TrimPrefix(line, "url:"))
				if url != "" {
					urls[url] = struct{}{}
				}
				break
			}
		}
	}
	return urls, nil
}

// Save writes the signal file for a post and returns its filename.
func (s *Store) Save(post core.Post, now time.Time) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", errors.Wrap(err, "inbox: create dir")
	}

	name := fmt.Sprintf("%s-%s-%s.md", now.Format("2006-01-02-1504"), post.Platform, SignalID(post.URL))
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, []byte(Render(post, now)), 0o644); err != nil {
		return "", errors.Wrap(err, "inbox: write signal")
	}
	return name, nil
}

// Render produces the signal markdown: YAML frontmatter for downstream
// tooling, then a human-readable body.
func Render(post core.Post, now time.Time) string {
	bio := post.AuthorBio
	if bio == "" {
		bio = "No bio"
	}

	threadContext := "This is an original tweet (not a reply)."
	if post.IsReply {
		threadContext = "This is a reply to another tweet."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "---\n")
	fmt.Fprintf(&b, "id: %s\n", SignalID(post.URL))
	fmt.Fprintf(&b, "source: %s\n", post.Platform)
	fmt.Fprintf(&b, "url: %s\n", post.URL)
	fmt.Fprintf(&b, "author: \"@%s\"\n", post.AuthorHandle)
	fmt.Fprintf(&b, "author_name: %q\n", post.AuthorName)
	fmt.Fprintf(&b, "author_followers: %d\n", post.Followers)
	fmt.Fprintf(&b, "detected_at: %s\n", now.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "tweet_created_at: %s\n", post.CreatedAt)
	fmt.Fprintf(&b, "keywords_matched:\n")
	fmt.Fprintf(&b, "  - %q\n", post.MatchedQuery)
	fmt.Fprintf(&b, "engagement:\n")
	fmt.Fprintf(&b, "  likes: %d\n", post.Likes)
	fmt.Fprintf(&b, "  retweets: %d\n", post.Reposts)
	fmt.Fprintf(&b, "  replies: %d\n", post.Replies)
	fmt.Fprintf(&b, "is_reply: %t\n", post.IsReply)
	fmt.Fprintf(&b, "status: unscored\n")
	fmt.Fprintf(&b, "---\n\n")

	fmt.Fprintf(&b, "## Original Tweet\n\n%s\n\n", post.Text)
	fmt.Fprintf(&b, "## Author Context\n\n")
	fmt.Fprintf(&b, "**@%s** (%s)\n", post.AuthorHandle, post.AuthorName)
	fmt.Fprintf(&b, "- Followers: %d\n", post.Followers)
	fmt.Fprintf(&b, "- Bio: %s\n\n", bio)
	fmt.Fprintf(&b, "## Engagement\n\n")
	fmt.Fprintf(&b, "- Likes: %d\n", post.Likes)
	fmt.Fprintf(&b, "- Retweets: %d\n", post.Reposts)
	fmt.Fprintf(&b, "- Replies: %d\n\n", post.Replies)
	fmt.Fprintf(&b, "## Matched Query\n\n`%s`\n\n", post.MatchedQuery)
	fmt.Fprintf(&b, "## Thread Context\n\n%s\n", threadContext)

	return b.String()
}
