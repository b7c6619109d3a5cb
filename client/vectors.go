package client

import (
	"context"
	"encoding/base64"
	"encoding/binary"
	"math"
	"net/url"
	"strconv"
	"strings"
)

// VectorService handles per-node vector storage.
type VectorService struct {
	c *Client
}

// Upsert stores a vector for a node under a tag, replacing any existing
// vector with that tag. Data travels base64 encoded to keep the URL short
// for high-dimensional embeddings.
func (s *VectorService) Upsert(ctx context.Context, id int64, tag string, vec []float32) error {
	raw := make([]byte, len(vec)*4)
	for i, f := range vec {
		binary.LittleEndian.PutUint32(raw[i*4:], math.Float32bits(f))
	}
	params := url.Values{
		"id":       {strconv.FormatInt(id, 10)},
		"tag":      {tag},
		"dim":      {strconv.Itoa(len(vec))},
		"data_b64": {base64.StdEncoding.EncodeToString(raw)},
	}
	return s.c.post(ctx, "/api/upsertVector", params, nil)
}

// Get returns a node's stored vectors. With tags given, only those tags
// are fetched.
func (s *VectorService) Get(ctx context.Context, id int64, tags ...string) ([]TaggedVector, error) {
	params := url.Values{"id": {strconv.FormatInt(id, 10)}}
	if len(tags) > 0 {
		params.Set("tags", strings.Join(tags, ","))
	}
	var resp vectorsResponse
	if err := s.c.get(ctx, "/api/vectors", params, &resp); err != nil {
		return nil, err
	}
	return resp.Vectors, nil
}

// Delete removes a node's vector under a tag.
func (s *VectorService) Delete(ctx context.Context, id int64, tag string) error {
	params := url.Values{
		"id":  {strconv.FormatInt(id, 10)},
		"tag": {tag},
	}
	return s.c.post(ctx, "/api/deleteVector", params, nil)
}
