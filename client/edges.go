package client

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/stardustdb/stardust-mcp/internal/models"
)

// EdgeService handles edge operations.
type EdgeService struct {
	c *Client
}

// Get returns an edge's endpoints and metadata by edge id.
func (s *EdgeService) Get(ctx context.Context, edgeID int64) (*models.Edge, error) {
	params := url.Values{"edgeId": {strconv.FormatInt(edgeID, 10)}}
	var env edgeEnvelope
	if err := s.c.get(ctx, "/api/edge", params, &env); err != nil {
		return nil, err
	}
	edge := env.toEdge()
	if edge.ID == 0 {
		edge.ID = edgeID
	}
	return &edge, nil
}

// Create creates an edge between src and dst and returns its id.
func (s *EdgeService) Create(ctx context.Context, src, dst int64, edgeType string) (int64, error) {
	params := url.Values{
		"src":  {strconv.FormatInt(src, 10)},
		"dst":  {strconv.FormatInt(dst, 10)},
		"type": {edgeType},
	}
	var resp idResponse
	if err := s.c.post(ctx, "/api/edge", params, &resp); err != nil {
		return 0, err
	}
	return resp.ID, nil
}

// UpdateProps sets and unsets properties on an edge.
func (s *EdgeService) UpdateProps(ctx context.Context, edgeID int64, set map[string]models.Value, unset []string) error {
	params := url.Values{"edgeId": {strconv.FormatInt(edgeID, 10)}}
	if len(set) > 0 {
		params.Set("set", encodeKVList(set))
	}
	if len(unset) > 0 {
		params.Set("unset", strings.Join(unset, ","))
	}
	return s.c.post(ctx, "/api/updateEdgeProps", params, nil)
}

// Delete removes an edge by id.
func (s *EdgeService) Delete(ctx context.Context, edgeID int64) error {
	params := url.Values{"edgeId": {strconv.FormatInt(edgeID, 10)}}
	return s.c.del(ctx, "/api/edge", params, nil)
}
