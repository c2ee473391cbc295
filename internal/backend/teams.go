package backend

import (
	"context"
	"strconv"

	"github.com/devinci/portal/internal/domain"
)

// ListTeams calls GET /teams.
func (c *Client) ListTeams(ctx context.Context) ([]domain.Team, error) {
	var out domain.ListResult[domain.Team]
	if err := c.get(ctx, "/teams", nil, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

// CreateTeam calls POST /teams.
func (c *Client) CreateTeam(ctx context.Context, team domain.Team) (*domain.Team, error) {
	var out domain.Team
	if err := c.post(ctx, "/teams", team, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// TeamLinks calls GET /team_links/{team}.
func (c *Client) TeamLinks(ctx context.Context, team string) ([]domain.TeamLink, error) {
	var out []domain.TeamLink
	if err := c.get(ctx, "/team_links/"+segment(team), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateTeamLink calls POST /team_links.
func (c *Client) CreateTeamLink(ctx context.Context, in domain.TeamLinkInput) (*domain.TeamLink, error) {
	var out domain.TeamLink
	if err := c.post(ctx, "/team_links", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateTeamLink calls PATCH /team_links/{id}.
func (c *Client) UpdateTeamLink(ctx context.Context, id int64, in domain.TeamLinkInput) (*domain.TeamLink, error) {
	var out domain.TeamLink
	if err := c.patch(ctx, "/team_links/"+strconv.FormatInt(id, 10), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteTeamLink calls DELETE /team_links/{id}.
func (c *Client) DeleteTeamLink(ctx context.Context, id int64) error {
	return c.delete(ctx, "/team_links/"+strconv.FormatInt(id, 10), nil)
}
