package twitter

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/you/signal-scout/internal/apify"
	"github.com/you/signal-scout/internal/core"
)

const actorID = "apidojo~twitter-scraper-v2"

// Client searches Twitter through the Apify scraper actor. The actor hands
// back untyped dataset items, so normalization walks generic maps with
// defaults for every missing field.
type Client struct {
	apify *apify.Client
}

func New(apifyClient *apify.Client) *Client {
	return &Client{apify: apifyClient}
}

func (c *Client) Platform() core.Platform { return core.PlatformTwitter }

// Search runs one query through the scraper actor.
func (c *Client) Search(ctx context.Context, query string, limit int, language string) ([]core.Post, error) {
	input := map[string]any{
		"searchTerms":   []string{query},
		"maxTweets":     limit,
		"sort":          "Latest",
		"tweetLanguage": language,
	}

	items, err := c.apify.RunActorSync(ctx, actorID, input)
	if err != nil {
		return nil, errors.Wrapf(err, "twitter: search %q", query)
	}

	posts := make([]core.Post, 0, len(items))
	for _, item := range items {
		posts = append(posts, normalizeTweet(item))
	}
	return posts, nil
}

// normalizeTweet maps one generic scraper item to the unified model.
func normalizeTweet(item map[string]any) core.Post {
	author := digMap(item, "author")
	handle := stringField(author, "userName")
	name := stringField(author, "name")
	if name == "" {
		name = handle
	}

	tweetID := stringField(item, "id")
	tweetURL := stringField(item, "url")
	if tweetURL == "" && handle != "" && tweetID != "" {
		tweetURL = fmt.Sprintf("https://twitter.com/%s/status/%s", handle, tweetID)
	}

	return core.Post{
		Platform:     core.PlatformTwitter,
		PostID:       tweetID,
		URL:          tweetURL,
		AuthorHandle: handle,
		AuthorName:   name,
		AuthorBio:    stringField(author, "description"),
		Followers:    intField(author, "followers"),
		Text:         stringField(item, "text"),
		CreatedAt:    stringField(item, "createdAt"),
		Likes:        intField(item, "likeCount"),
		Replies:      intField(item, "replyCount"),
		Reposts:      intField(item, "retweetCount"),
		Views:        intField(item, "viewCount"),
		IsReply:      boolField(item, "isReply"),
	}
}

func digMap(m map[string]any, keys ...string) map[string]any {
	current := m
	for _, key := range keys {
		next, ok := current[key].(map[string]any)
		if !ok {
			return nil
		}
		current = next
	}
	return current
}

func stringField(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	if s, ok := m[key].(string); ok {
		return s
	}
	return ""
}

func intField(m map[string]any, key string) int {
	if m == nil {
		return 0
	}
	switch v := m[key].(type) {
	case float64:
		if v < 0 {
			return 0
		}
		return int(v)
	case int:
		if v < 0 {
			return 0
		}
		return v
	}
	return 0
}

func boolField(m map[string]any, key string) bool {
	if m == nil {
		return false
	}
	b, ok := m[key].(bool)
	return ok && b
}
