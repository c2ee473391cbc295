package service

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/devinci/portal/internal/crud"
	"github.com/devinci/portal/internal/domain"
)

// DirectoryClient is the part of the backend client used for people and teams
type DirectoryClient interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
	ListTeams(ctx context.Context) ([]domain.Team, error)
	ListUserUpdates(ctx context.Context) ([]domain.UserUpdate, error)
	PostUserUpdate(ctx context.Context, in domain.UserUpdateCreate) (*domain.UserUpdate, error)
	TeamLinks(ctx context.Context, team string) ([]domain.TeamLink, error)
	CreateTeamLink(ctx context.Context, in domain.TeamLinkInput) (*domain.TeamLink, error)
	UpdateTeamLink(ctx context.Context, id int64, in domain.TeamLinkInput) (*domain.TeamLink, error)
	DeleteTeamLink(ctx context.Context, id int64) error
}

// Updates splits user updates into upcoming and recently ended
type Updates struct {
	Upcoming []domain.UserUpdate `json:"upcoming"`
	Recent   []domain.UserUpdate `json:"recent"`
}

// Directory serves users, teams, team links and user updates
type Directory struct {
	client DirectoryClient
	now    func() time.Time
}

// NewDirectory creates a new Directory
func NewDirectory(client DirectoryClient) *Directory {
	return &Directory{client: client, now: time.Now}
}

// Users returns all users, optionally filtered by team
func (d *Directory) Users(ctx context.Context, team string) ([]domain.User, error) {
	users, err := d.client.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	if team == "" {
		return users, nil
	}
	return slices.DeleteFunc(users, func(u domain.User) bool {
		return u.TeamName == nil || *u.TeamName != team
	}), nil
}

// Teams returns all teams
func (d *Directory) Teams(ctx context.Context) ([]domain.Team, error) {
	return d.client.ListTeams(ctx)
}

// Updates returns updates that have not ended yet (soonest first) and
// updates that already ended (latest first)
func (d *Directory) Updates(ctx context.Context) (*Updates, error) {
	all, err := d.client.ListUserUpdates(ctx)
	if err != nil {
		return nil, err
	}

	now := d.now()
	out := &Updates{Upcoming: []domain.UserUpdate{}, Recent: []domain.UserUpdate{}}
	for _, u := range all {
		if u.StartDateTime.IsZero() || u.EndDateTime.IsZero() {
			continue
		}
		if u.EndDateTime.Before(now) {
			out.Recent = append(out.Recent, u)
		} else {
			out.Upcoming = append(out.Upcoming, u)
		}
	}

	slices.SortStableFunc(out.Upcoming, func(a, b domain.UserUpdate) int {
		return a.StartDateTime.Compare(b.StartDateTime)
	})
	slices.SortStableFunc(out.Recent, func(a, b domain.UserUpdate) int {
		return b.StartDateTime.Compare(a.StartDateTime)
	})
	return out, nil
}

// PostUpdate publishes a status update of author
func (d *Directory) PostUpdate(ctx context.Context, author string, in domain.UserUpdateCreate) (*domain.UserUpdate, error) {
	in.Update = plainText(in.Update)
	if in.Update == "" {
		return nil, domain.NewValidationError("update text is required")
	}
	if in.StartDateTime.IsZero() || in.EndDateTime.IsZero() {
		return nil, domain.NewValidationError("start_date_time and end_date_time are required")
	}
	if in.EndDateTime.Before(in.StartDateTime) {
		return nil, domain.NewValidationError("end_date_time must not be before start_date_time")
	}
	in.UserTName = author
	return d.client.PostUserUpdate(ctx, in)
}

// NewTeamLinksTable creates the CRUD table of one team's links
func (d *Directory) NewTeamLinksTable(ctx context.Context, team string) *crud.Table[domain.TeamLink, int64] {
	toInput := func(payload crud.Draft) (domain.TeamLinkInput, error) {
		var in domain.TeamLinkInput
		if err := payload.Decode(&in); err != nil {
			return in, domain.NewValidationError("invalid link: %v", err)
		}
		if in.Link == nil || in.Name == nil {
			return in, domain.NewValidationError("link and name are required")
		}
		if !strings.HasPrefix(*in.Link, "http://") && !strings.HasPrefix(*in.Link, "https://") {
			return in, domain.NewValidationError("link must start with http:// or https://")
		}
		in.TeamName = &team
		return in, nil
	}

	api := crud.API[domain.TeamLink, int64]{
		List: func(ctx context.Context) ([]domain.TeamLink, error) {
			return d.client.TeamLinks(ctx, team)
		},
		Create: func(ctx context.Context, payload crud.Draft) error {
			in, err := toInput(payload)
			if err != nil {
				return err
			}
			_, err = d.client.CreateTeamLink(ctx, in)
			return err
		},
		Update: func(ctx context.Context, id int64, payload crud.Draft) error {
			in, err := toInput(payload)
			if err != nil {
				return err
			}
			_, err = d.client.UpdateTeamLink(ctx, id, in)
			return err
		},
		Remove: d.client.DeleteTeamLink,
		GetID: func(l domain.TeamLink) (int64, bool) {
			if l.ID == nil {
				return 0, false
			}
			return *l.ID, true
		},
		ToDraft: func(l domain.TeamLink) (crud.Draft, error) {
			return crud.Draft{"link": l.Link, "name": l.Name}, nil
		},
	}
	return crud.New(ctx, api, crud.Draft{"link": "", "name": ""})
}
