package bluesky

import (
	"bytes"
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

const baseURL = "https://bsky.social"

// ErrNotAuthenticated is returned by Search before a successful Login.
var ErrNotAuthenticated = errors.New("bluesky: not authenticated")

type Config struct {
	Username string
	Password string
}

// Client talks to the Bluesky XRPC API. Search requires Login first.
type Client struct {
	cfg       Config
	http      *http.Client
	accessJWT string
}

func New(cfg Config, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{cfg: cfg, http: httpClient}
}

func (c *Client) Platform() core.Platform { return core.PlatformBluesky }

type sessionResponse struct {
	AccessJWT string `json:"accessJwt"`
	Handle    string `json:"handle"`
}

// Login creates an app-password session and keeps the access token for
// subsequent searches.
func (c *Client) Login(ctx context.Context) error {
	if strings.TrimSpace(c.cfg.Username) == "" || strings.TrimSpace(c.cfg.Password) == "" {
		return errors.New("bluesky: username and password are required")
	}

	payload, err := json.Marshal(map[string]string{
		"identifier": c.cfg.Username,
		"password":   c.cfg.Password,
	})
	if err != nil {
		return errors.Wrap(err, "bluesky: encode session request")
	}

	endpoint := baseURL + "/xrpc/com.atproto.server.createSession"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return errors.Wrap(err, "bluesky: build session request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrap(err, "bluesky: create session")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
		return fmt.Errorf("bluesky: login status %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var session sessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return errors.Wrap(err, "bluesky: decode session")
	}
	if session.AccessJWT == "" {
		return errors.New("bluesky: session response missing access token")
	}
	c.accessJWT = session.AccessJWT
	return nil
}

type searchResponse struct {
	Posts []apiPost `json:"posts"`
}

type apiPost struct {
	URI    string `json:"uri"`
	Author struct {
		Handle      string `json:"handle"`
		DisplayName string `json:"displayName"`
	} `json:"author"`
	Record struct {
		Text      string `json:"text"`
		CreatedAt string `json:"createdAt"`
	} `json:"record"`
	LikeCount   int `json:"likeCount"`
	ReplyCount  int `json:"replyCount"`
	RepostCount int `json:"repostCount"`
}

// Search queries app.bsky.feed.searchPosts, newest first.
func (c *Client) Search(ctx context.Context, query string, limit int, language string) ([]core.Post, error) {
	if c.accessJWT == "" {
		return nil, ErrNotAuthenticated
	}
	if limit > 100 {
		limit = 100
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(limit))
	params.Set("sort", "latest")
	if language != "" {
		params.Set("lang", language)
	}

	endpoint := baseURL + "/xrpc/app.bsky.feed.searchPosts?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.Wrap(err, "bluesky: build search request")
	}
	req.Header.Set("Authorization", "Bearer "+c.accessJWT)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "bluesky: search %q", query)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
		return nil, fmt.Errorf("bluesky: search status %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var search searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&search); err != nil {
		return nil, errors.Wrap(err, "bluesky: decode search response")
	}

	posts := make([]core.Post, 0, len(search.Posts))
	for _, p := range search.Posts {
		posts = append(posts, normalizePost(p))
	}
	return posts, nil
}

// normalizePost maps the rich API shape to the unified model, substituting
// defaults for anything the AppView omitted.
func normalizePost(p apiPost) core.Post {
	postID := ""
	if p.URI != "" {
		parts := strings.Split(p.URI, "/")
		postID = parts[len(parts)-1]
	}

	webURL := ""
	if p.Author.Handle != "" && postID != "" {
		webURL = fmt.Sprintf("https://bsky.app/profile/%s/post/%s", p.Author.Handle, postID)
	}

	name := p.Author.DisplayName
	if name == "" {
		name = p.Author.Handle
	}

	return core.Post{
		Platform:     core.PlatformBluesky,
		PostID:       postID,
		URL:          webURL,
		AuthorHandle: p.Author.Handle,
		AuthorName:   name,
		Text:         p.Record.Text,
		CreatedAt:    p.Record.CreatedAt,
		Likes:        p.LikeCount,
		Replies:      p.ReplyCount,
		Reposts:      p.RepostCount,
	}
}
