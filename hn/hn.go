package hn

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// Endpoint is the Algolia-backed Hacker News search endpoint.
const Endpoint = "https://hn.algolia.com/api/v1/search"

// Hit represents a single search hit as returned by the endpoint.
type Hit struct {
	ObjectID    ID     `json:"objectID"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	Author      string `json:"author"`
	NumComments int    `json:"num_comments"`
	Points      int    `json:"points"`
}

// ID is an item identifier. The endpoint sends strings; numeric ids are
// accepted too and kept in their decimal form.
type ID string

// UnmarshalJSON implements json.Unmarshaler.
func (id *ID) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("objectID must be a string or number, got %s", b)
	}
	*id = ID(n.String())
	return nil
}

type searchResponse struct {
	Hits []Hit `json:"hits"`
}

// Client interface for HN search operations.
type Client interface {
	Search(ctx context.Context, query string) ([]Hit, error)
}

type httpClient struct {
	client   *http.Client
	endpoint string
}

// NewClient creates a new HN search client with the given HTTP client.
func NewClient(client *http.Client) Client {
	return NewClientWithEndpoint(client, Endpoint)
}

// NewClientWithEndpoint creates a new HN search client against a custom endpoint.
func NewClientWithEndpoint(client *http.Client, endpoint string) Client {
	if client == nil {
		client = http.DefaultClient
	}
	return &httpClient{
		client:   client,
		endpoint: endpoint,
	}
}

// Search runs a full-text query and returns the hits in server order.
// Any non-2xx status or undecodable body is an error.
func (c *httpClient) Search(ctx context.Context, query string) ([]Hit, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("parsing search endpoint %q: %w", c.endpoint, err)
	}
	params := u.Query()
	params.Set("query", query)
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating search request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("searching %q: %w", query, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("search %q returned status %d", query, resp.StatusCode)
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding search response: %w", err)
	}
	if body.Hits == nil {
		return nil, fmt.Errorf("decoding search response: missing hits")
	}

	return body.Hits, nil
}
