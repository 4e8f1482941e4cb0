package apify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const apiBase = "https://api.apify.com/v2"

// Client runs Apify actors synchronously and returns their dataset items.
// Items come back as generic maps; the caller owns field mapping.
type Client struct {
	token string
	http  *http.Client
}

func New(token string, httpClient *http.Client) *Client {
	if httpClient == nil {
		// Actor runs block until the scrape finishes, so this timeout is
		// deliberately longer than the per-request default elsewhere.
		httpClient = &http.Client{Timeout: 120 * time.Second}
	}
	return &Client{token: token, http: httpClient}
}

// RunActorSync calls run-sync-get-dataset-items for the given actor and
// decodes the resulting dataset.
func (c *Client) RunActorSync(ctx context.Context, actorID string, input map[string]any) ([]map[string]any, error) {
	if strings.TrimSpace(c.token) == "" {
		return nil, errors.New("apify: api token is required")
	}

	payload, err := json.Marshal(input)
	if err != nil {
		return nil, errors.Wrap(err, "apify: encode actor input")
	}

	endpoint := fmt.Sprintf("%s/acts/%s/run-sync-get-dataset-items?token=%s",
		apiBase, url.PathEscape(actorID), url.QueryEscape(c.token))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, errors.Wrap(err, "apify: build actor request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "apify: run actor %s", actorID)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
		return nil, fmt.Errorf("apify: actor %s status %s: %s", actorID, resp.Status, strings.TrimSpace(string(body)))
	}

	var items []map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, errors.Wrap(err, "apify: decode dataset items")
	}
	return items, nil
}
