package client

import (
	"context"
	"net/url"
	"strconv"

	"github.com/stardustdb/stardust-mcp/internal/models"
)

// SearchService handles vector similarity queries.
type SearchService struct {
	c *Client
}

// KNN returns the k nearest indexed vectors under a tag, each hit carrying
// a similarity score. The query vector travels as comma-separated floats.
func (s *SearchService) KNN(ctx context.Context, tag string, query []float32, k int) ([]models.ScoredID, error) {
	params := url.Values{
		"tag": {tag},
		"q":   {encodeFloatsCSV(query)},
		"k":   {strconv.Itoa(k)},
	}
	var resp knnResponse
	if err := s.c.get(ctx, "/api/knn", params, &resp); err != nil {
		return nil, err
	}
	return resp.Hits, nil
}
