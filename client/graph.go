package client

import (
	"context"
	"net/url"
	"strconv"

	"github.com/stardustdb/stardust-mcp/internal/models"
)

// GraphService handles adjacency and degree queries.
type GraphService struct {
	c *Client
}

// Adjacency lists a node's adjacency rows, normalized to the closed row
// variant regardless of which response dialect the store produced.
func (s *GraphService) Adjacency(ctx context.Context, node int64, direction models.Direction, limit int) ([]models.AdjacencyRow, error) {
	params := url.Values{
		"node":      {strconv.FormatInt(node, 10)},
		"direction": {string(direction)},
	}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	var resp adjacencyResponse
	if err := s.c.get(ctx, "/api/adjacency", params, &resp); err != nil {
		return nil, err
	}
	return resp.rows(), nil
}

// Neighbors returns only the ids of nodes adjacent to a node.
func (s *GraphService) Neighbors(ctx context.Context, node int64, direction models.Direction, limit int) ([]int64, error) {
	params := url.Values{
		"node":      {strconv.FormatInt(node, 10)},
		"direction": {string(direction)},
	}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	var resp neighborsResponse
	if err := s.c.get(ctx, "/api/neighbors", params, &resp); err != nil {
		return nil, err
	}
	return resp.Neighbors, nil
}

// Degree returns the number of edges incident to a node in the given
// direction.
func (s *GraphService) Degree(ctx context.Context, node int64, direction models.Direction) (int64, error) {
	params := url.Values{
		"node":      {strconv.FormatInt(node, 10)},
		"direction": {string(direction)},
	}
	var resp degreeResponse
	if err := s.c.get(ctx, "/api/degree", params, &resp); err != nil {
		return 0, err
	}
	return resp.Degree, nil
}
