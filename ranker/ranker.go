// Package ranker orders stories for display. It never changes the stored
// results, only the order a view prints them in.
package ranker

import (
	"fmt"
	"math"
	"sort"

	"hn-search/stories"
)

// Order selects how Rank sorts stories.
type Order string

const (
	None     Order = ""
	Points   Order = "points"
	Comments Order = "comments"
	Hot      Order = "hot"
)

// ParseOrder maps a user supplied name to an Order.
func ParseOrder(s string) (Order, error) {
	switch o := Order(s); o {
	case None, Points, Comments, Hot:
		return o, nil
	case "none":
		return None, nil
	}
	return None, fmt.Errorf("unknown order %q: must be points, comments, hot or none", s)
}

// Score is the blended ranking used by Hot.
// Formula: score = log10(points + 1) * 0.7 + log10(comments + 1) * 0.3
func Score(s stories.Story) float64 {
	points := math.Log10(float64(max(s.Score, 0)) + 1)
	comments := math.Log10(float64(max(s.CommentCount, 0)) + 1)
	return points*0.7 + comments*0.3
}

// Rank returns a sorted copy of items, highest first. Ties keep their
// original order. None returns an unsorted copy.
func Rank(items []stories.Story, order Order) []stories.Story {
	out := make([]stories.Story, len(items))
	copy(out, items)

	var less func(a, b stories.Story) bool
	switch order {
	case Points:
		less = func(a, b stories.Story) bool { return a.Score > b.Score }
	case Comments:
		less = func(a, b stories.Story) bool { return a.CommentCount > b.CommentCount }
	case Hot:
		less = func(a, b stories.Story) bool { return Score(a) > Score(b) }
	default:
		return out
	}

	sort.SliceStable(out, func(i, j int) bool {
		return less(out[i], out[j])
	})
	return out
}
