package backend

import (
	"context"
	"strconv"

	"github.com/devinci/portal/internal/domain"
)

// ListCleaningDuties calls GET /cleaning_duties.
func (c *Client) ListCleaningDuties(ctx context.Context) ([]domain.CleaningDuty, error) {
	var out domain.ListResult[domain.CleaningDuty]
	if err := c.get(ctx, "/cleaning_duties", nil, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

// CreateCleaningDuty calls POST /cleaning_duties.
func (c *Client) CreateCleaningDuty(ctx context.Context, in domain.CleaningDutyInput) (*domain.CleaningDuty, error) {
	var out domain.CleaningDuty
	if err := c.post(ctx, "/cleaning_duties", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateCleaningDuty calls PATCH /cleaning_duties/{id}.
func (c *Client) UpdateCleaningDuty(ctx context.Context, id int64, in domain.CleaningDutyInput) (*domain.CleaningDuty, error) {
	var out domain.CleaningDuty
	if err := c.patch(ctx, "/cleaning_duties/"+strconv.FormatInt(id, 10), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteCleaningDuty calls DELETE /cleaning_duties/{id}.
func (c *Client) DeleteCleaningDuty(ctx context.Context, id int64) error {
	return c.delete(ctx, "/cleaning_duties/"+strconv.FormatInt(id, 10), nil)
}
