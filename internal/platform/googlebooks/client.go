// Package googlebooks is a thin client for the Google Books volumes search.
package googlebooks

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

	"booknav/internal/apperr"
)

const DefaultBaseURL = "https://www.googleapis.com"

type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SearchResponse matches books/v1/volumes
type SearchResponse struct {
	TotalItems int      `json:"totalItems"`
	Items      []Volume `json:"items"`
}

type Volume struct {
	ID         string     `json:"id"`
	VolumeInfo VolumeInfo `json:"volumeInfo"`
}

type VolumeInfo struct {
	Title               string      `json:"title"`
	Authors             []string    `json:"authors"`
	Description         string      `json:"description"`
	ImageLinks          *ImageLinks `json:"imageLinks,omitempty"`
	PreviewLink         string      `json:"previewLink"`
	CanonicalVolumeLink string      `json:"canonicalVolumeLink"`
}

type ImageLinks struct {
	Thumbnail      string `json:"thumbnail"`
	SmallThumbnail string `json:"smallThumbnail"`
}

// Thumbnail returns the large thumbnail or "".
func (v Volume) Thumbnail() string {
	if v.VolumeInfo.ImageLinks == nil {
		return ""
	}
	return v.VolumeInfo.ImageLinks.Thumbnail
}

// Search runs one volumes query. There is no retry: a failed upstream call is
// reported as a network error and left to the caller.
func (c *Client) Search(ctx context.Context, query string, maxResults, startIndex int) (*SearchResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperr.Validation("search query is required")
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("maxResults", strconv.Itoa(maxResults))
	params.Set("startIndex", strconv.Itoa(startIndex))
	if c.apiKey != "" {
		params.Set("key", c.apiKey)
	}
	u := fmt.Sprintf("%s/books/v1/volumes?%s", c.baseURL, params.Encode())

	var res SearchResponse
	if err := c.get(ctx, u, &res); err != nil {
		return nil, err
	}
	if res.Items == nil {
		res.Items = []Volume{}
	}
	return &res, nil
}

func (c *Client) get(ctx context.Context, u string, target interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return apperr.Internal("build catalog request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperr.Network("catalog request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return apperr.Network("catalog request failed",
			fmt.Errorf("unexpected status code: %d: %s", resp.StatusCode, strings.TrimSpace(string(body))))
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return apperr.Network("catalog response malformed", err)
	}
	return nil
}
