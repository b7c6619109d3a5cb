package client

import (
	"context"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/stardustdb/stardust-mcp/internal/models"
)

// NodeService handles node operations.
type NodeService struct {
	c *Client
}

// Get returns a node's header: id, labels and hot properties.
func (s *NodeService) Get(ctx context.Context, id int64) (*models.NodeHeader, error) {
	params := url.Values{"id": {strconv.FormatInt(id, 10)}}
	var env nodeEnvelope
	if err := s.c.get(ctx, "/api/node", params, &env); err != nil {
		return nil, err
	}
	h, err := env.header()
	if err != nil {
		return nil, err
	}
	out := &models.NodeHeader{ID: h.ID, Labels: h.Labels, HotProps: h.HotProps}
	if out.ID == 0 {
		out.ID = id
	}
	return out, nil
}

// Props returns a node's property map. With keys given, only those
// properties are fetched.
func (s *NodeService) Props(ctx context.Context, id int64, keys ...string) (map[string]models.Value, error) {
	params := url.Values{"id": {strconv.FormatInt(id, 10)}}
	if len(keys) > 0 {
		params.Set("keys", strings.Join(keys, ","))
	}
	var resp struct {
		Props propMap `json:"props"`
	}
	if err := s.c.get(ctx, "/api/nodeProps", params, &resp); err != nil {
		return nil, err
	}
	if resp.Props == nil {
		return map[string]models.Value{}, nil
	}
	return resp.Props, nil
}

// Create creates a node with the given labels and returns its id.
// Properties are set separately via UpsertProps.
func (s *NodeService) Create(ctx context.Context, labels []string) (int64, error) {
	params := url.Values{}
	if len(labels) > 0 {
		params.Set("labels", strings.Join(labels, ","))
	}
	var resp idResponse
	if err := s.c.post(ctx, "/api/node", params, &resp); err != nil {
		return 0, err
	}
	return resp.ID, nil
}

// UpsertPropsRequest sets and unsets node properties. Hot properties live
// in the node header, cold ones in the property log.
type UpsertPropsRequest struct {
	SetHot  map[string]models.Value
	SetCold map[string]models.Value
	Unset   []string
}

// UpsertProps applies property changes to a node.
func (s *NodeService) UpsertProps(ctx context.Context, id int64, req UpsertPropsRequest) error {
	params := url.Values{"id": {strconv.FormatInt(id, 10)}}
	if len(req.SetHot) > 0 {
		params.Set("setHot", encodeKVList(req.SetHot))
	}
	if len(req.SetCold) > 0 {
		params.Set("setCold", encodeKVList(req.SetCold))
	}
	if len(req.Unset) > 0 {
		params.Set("unset", strings.Join(req.Unset, ","))
	}
	return s.c.post(ctx, "/api/upsertNodeProps", params, nil)
}

// SetLabels adds and removes labels on a node.
func (s *NodeService) SetLabels(ctx context.Context, id int64, add, remove []string) error {
	params := url.Values{"id": {strconv.FormatInt(id, 10)}}
	if len(add) > 0 {
		params.Set("add", strings.Join(add, ","))
	}
	if len(remove) > 0 {
		params.Set("remove", strings.Join(remove, ","))
	}
	return s.c.post(ctx, "/api/setNodeLabels", params, nil)
}

// Delete removes a node by id.
func (s *NodeService) Delete(ctx context.Context, id int64) error {
	params := url.Values{"id": {strconv.FormatInt(id, 10)}}
	return s.c.del(ctx, "/api/node", params, nil)
}

// encodeKVList renders properties as the facade's k=v,k2=v2 form, keys
// sorted. The format reserves ',' and '=', so text values containing them
// must be sanitized by the caller; the store re-derives each value's type
// from its rendering.
func encodeKVList(props map[string]models.Value) string {
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(props[k].String())
	}
	return b.String()
}
