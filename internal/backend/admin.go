package backend

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/devinci/portal/internal/domain"
)

// AdminEntities calls GET /admin/entities.
func (c *Client) AdminEntities(ctx context.Context) ([]string, error) {
	var out struct {
		Entities []string `json:"entities"`
	}
	if err := c.get(ctx, "/admin/entities", nil, &out); err != nil {
		return nil, err
	}
	return out.Entities, nil
}

// AdminRows calls GET /admin/{entity}/rows?limit=&offset=.
func (c *Client) AdminRows(ctx context.Context, entity string, limit, offset int) (*domain.RowsPage, error) {
	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))
	query.Set("offset", strconv.Itoa(offset))

	var out domain.RowsPage
	if err := c.get(ctx, adminRowsPath(entity), query, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateAdminRow calls POST /admin/{entity}/rows.
func (c *Client) CreateAdminRow(ctx context.Context, entity string, payload map[string]any) (domain.Row, error) {
	var out struct {
		Item domain.Row `json:"item"`
	}
	if err := c.post(ctx, adminRowsPath(entity), payload, &out); err != nil {
		return domain.Row{}, err
	}
	return out.Item, nil
}

// UpdateAdminRow calls PATCH /admin/{entity}/rows/{row_id}. rowID is the
// ":"-joined primary key and travels as one escaped path segment.
func (c *Client) UpdateAdminRow(ctx context.Context, entity, rowID string, payload map[string]any) (domain.Row, error) {
	var out struct {
		Item domain.Row `json:"item"`
	}
	if err := c.patch(ctx, adminRowsPath(entity)+"/"+segment(rowID), payload, &out); err != nil {
		return domain.Row{}, err
	}
	return out.Item, nil
}

// DeleteAdminRow calls DELETE /admin/{entity}/rows/{row_id}.
func (c *Client) DeleteAdminRow(ctx context.Context, entity, rowID string) error {
	return c.delete(ctx, adminRowsPath(entity)+"/"+segment(rowID), nil)
}

// ResourceRows calls GET on a direct resource path such as /user_roles.
func (c *Client) ResourceRows(ctx context.Context, path string) (*domain.ListResult[domain.Row], error) {
	var out domain.ListResult[domain.Row]
	if err := c.get(ctx, resourcePath(path), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateResourceRow calls POST on a direct resource path.
func (c *Client) CreateResourceRow(ctx context.Context, path string, payload map[string]any) error {
	return c.post(ctx, resourcePath(path), payload, nil)
}

// UpdateResourceRow calls PATCH {path}/{k1}/{k2}/... with one segment per key part.
func (c *Client) UpdateResourceRow(ctx context.Context, path string, keys []string, payload map[string]any) error {
	return c.patch(ctx, resourceKeyPath(path, keys), payload, nil)
}

// DeleteResourceRow calls DELETE {path}/{k1}/{k2}/....
func (c *Client) DeleteResourceRow(ctx context.Context, path string, keys []string) error {
	return c.delete(ctx, resourceKeyPath(path, keys), nil)
}

func adminRowsPath(entity string) string {
	return "/admin/" + segment(entity) + "/rows"
}

func resourcePath(path string) string {
	return "/" + strings.Trim(path, "/")
}

func resourceKeyPath(path string, keys []string) string {
	var b strings.Builder
	b.WriteString(resourcePath(path))
	for _, k := range keys {
		b.WriteByte('/')
		b.WriteString(segment(k))
	}
	return b.String()
}
