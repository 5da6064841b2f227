package search

import (
	"context"

	"hn-search/hn"
	"hn-search/stories"
)

// hnFetcher bridges hn.Client to Fetcher.
type hnFetcher struct {
	client hn.Client
}

// NewHNFetcher returns a Fetcher backed by the HN search client.
func NewHNFetcher(client hn.Client) Fetcher {
	return &hnFetcher{client: client}
}

func (f *hnFetcher) Fetch(ctx context.Context, query string) ([]stories.Story, error) {
	hits, err := f.client.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	out := make([]stories.Story, len(hits))
	for i, h := range hits {
		out[i] = storyFromHit(h)
	}
	return out, nil
}

func storyFromHit(h hn.Hit) stories.Story {
	return stories.Story{
		ID:           string(h.ObjectID),
		Title:        h.Title,
		URL:          h.URL,
		Author:       h.Author,
		CommentCount: max(h.NumComments, 0),
		Score:        max(h.Points, 0),
	}
}
