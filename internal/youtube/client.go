package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/you/signal-scout/internal/core"
)

const apiBase = "https://www.googleapis.com/youtube/v3"

// Search costs 100 quota units against the free 10k/day tier, so roughly
// 100 searches per day.

type Config struct {
	APIKey     string
	MaxAgeDays int // publishedAfter window for search results
}

// Client talks to the YouTube Data API v3.
type Client struct {
	cfg  Config
	http *http.Client
	now  func() time.Time
}

func New(cfg Config, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	if cfg.MaxAgeDays <= 0 {
		cfg.MaxAgeDays = 90
	}
	return &Client{cfg: cfg, http: httpClient, now: time.Now}
}

func (c *Client) Platform() core.Platform { return core.PlatformYouTube }

type searchResponse struct {
	Items []searchItem `json:"items"`
}

type searchItem struct {
	ID struct {
		VideoID string `json:"videoId"`
	} `json:"id"`
	Snippet struct {
		Title        string `json:"title"`
		Description  string `json:"description"`
		ChannelTitle string `json:"channelTitle"`
		ChannelID    string `json:"channelId"`
		PublishedAt  string `json:"publishedAt"`
	} `json:"snippet"`
}

type statsResponse struct {
	Items []struct {
		ID         string `json:"id"`
		Statistics struct {
			ViewCount    string `json:"viewCount"`
			LikeCount    string `json:"likeCount"`
			CommentCount string `json:"commentCount"`
		} `json:"statistics"`
	} `json:"items"`
}

type videoStats struct {
	Views    int
	Likes    int
	Comments int
}

// Search runs a video search ordered by date and merges per-video statistics
// from a second request. A failed statistics lookup degrades to zero counts
// rather than failing the search.
func (c *Client) Search(ctx context.Context, query string, limit int, language string) ([]core.Post, error) {
	if strings.TrimSpace(c.cfg.APIKey) == "" {
		return nil, errors.New("youtube: api key is required")
	}
	if limit > 50 {
		limit = 50
	}
	if language == "" {
		language = "en"
	}

	params := url.Values{}
	params.Set("key", c.cfg.APIKey)
	params.Set("q", query)
	params.Set("part", "snippet")
	params.Set("type", "video")
	params.Set("maxResults", strconv.Itoa(limit))
	params.Set("order", "date")
	params.Set("relevanceLanguage", language)
	params.Set("publishedAfter", c.publishedAfter())

	var search searchResponse
	if err := c.getJSON(ctx, apiBase+"/search?"+params.Encode(), &search); err != nil {
		return nil, errors.Wrapf(err, "youtube: search %q", query)
	}

	videoIDs := make([]string, 0, len(search.Items))
	for _, item := range search.Items {
		if item.ID.VideoID != "" {
			videoIDs = append(videoIDs, item.ID.VideoID)
		}
	}

	stats := map[string]videoStats{}
	if len(videoIDs) > 0 {
		var err error
		stats, err = c.fetchStats(ctx, videoIDs)
		if err != nil {
			stats = map[string]videoStats{}
		}
	}

	posts := make([]core.Post, 0, len(search.Items))
	for _, item := range search.Items {
		if item.ID.VideoID == "" {
			continue
		}
		posts = append(posts, normalizeVideo(item, stats[item.ID.VideoID]))
	}
	return posts, nil
}

func (c *Client) publishedAfter() string {
	cutoff := c.now().UTC().AddDate(0, 0, -c.cfg.MaxAgeDays)
	return cutoff.Format("2006-01-02T15:04:05Z")
}

func (c *Client) fetchStats(ctx context.Context, videoIDs []string) (map[string]videoStats, error) {
	params := url.Values{}
	params.Set("key", c.cfg.APIKey)
	params.Set("id", strings.Join(videoIDs, ","))
	params.Set("part", "statistics")

	var resp statsResponse
	if err := c.getJSON(ctx, apiBase+"/videos?"+params.Encode(), &resp); err != nil {
		return nil, errors.Wrap(err, "youtube: video statistics")
	}

	out := make(map[string]videoStats, len(resp.Items))
	for _, item := range resp.Items {
		out[item.ID] = videoStats{
			Views:    atoi(item.Statistics.ViewCount),
			Likes:    atoi(item.Statistics.LikeCount),
			Comments: atoi(item.Statistics.CommentCount),
		}
	}
	return out, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
		return fmt.Errorf("status %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

// normalizeVideo maps a search result plus its statistics to the unified
// model. The scored text is the title in bold followed by the description.
// YouTube has no repost counter, so engagement is likes plus comments.
func normalizeVideo(item searchItem, stats videoStats) core.Post {
	text := "**" + item.Snippet.Title + "**"
	if item.Snippet.Description != "" {
		text += "\n\n" + item.Snippet.Description
	}

	return core.Post{
		Platform:     core.PlatformYouTube,
		PostID:       item.ID.VideoID,
		URL:          "https://www.youtube.com/watch?v=" + item.ID.VideoID,
		AuthorHandle: item.Snippet.ChannelTitle,
		AuthorName:   item.Snippet.ChannelTitle,
		Text:         text,
		CreatedAt:    item.Snippet.PublishedAt,
		Likes:        stats.Likes,
		Replies:      stats.Comments,
		Views:        stats.Views,
	}
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
