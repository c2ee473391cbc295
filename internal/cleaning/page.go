// Package cleaning implements the cleaning-duty schedule page.
//
// Before a duty is created or updated both participants are checked for
// calendar events in the chosen range. The check is advisory: the backend
// remains responsible for rejecting overlapping duties, since the check and
// the write are separate requests.
package cleaning

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/devinci/portal/internal/crud"
	"github.com/devinci/portal/internal/domain"
)

// ManagerRoles may create, edit and delete duties. Everybody may view them.
var ManagerRoles = []string{domain.RoleCleaningManager, domain.RoleAdmin}

// CanManage reports whether user may change the schedule.
func CanManage(user *domain.LoginResult) bool {
	return user != nil && user.HasRole(ManagerRoles...)
}

// Client is the part of the backend client the page uses.
type Client interface {
	ListCleaningDuties(ctx context.Context) ([]domain.CleaningDuty, error)
	CreateCleaningDuty(ctx context.Context, in domain.CleaningDutyInput) (*domain.CleaningDuty, error)
	UpdateCleaningDuty(ctx context.Context, id int64, in domain.CleaningDutyInput) (*domain.CleaningDuty, error)
	DeleteCleaningDuty(ctx context.Context, id int64) error
	UserEventsInRange(ctx context.Context, username string, start, end time.Time) ([]domain.UserEvent, error)
}

// Page is the CRUD table of cleaning duties, sorted by start date.
type Page struct {
	client Client
	table  *crud.Table[domain.CleaningDuty, int64]
}

// EmptyDraft is the draft of a new duty.
func EmptyDraft() crud.Draft {
	return crud.Draft{"name1": "", "name2": "", "start_date": "", "end_date": ""}
}

// NewPage creates the page and loads the schedule.
func NewPage(ctx context.Context, client Client) *Page {
	p := &Page{client: client}

	api := crud.API[domain.CleaningDuty, int64]{
		List: p.list,
		Create: func(ctx context.Context, payload crud.Draft) error {
			in, err := p.Prepare(ctx, payload)
			if err != nil {
				return err
			}
			_, err = client.CreateCleaningDuty(ctx, in)
			return err
		},
		Update: func(ctx context.Context, id int64, payload crud.Draft) error {
			in, err := p.Prepare(ctx, payload)
			if err != nil {
				return err
			}
			_, err = client.UpdateCleaningDuty(ctx, id, in)
			return err
		},
		Remove: client.DeleteCleaningDuty,
		GetID: func(d domain.CleaningDuty) (int64, bool) {
			if d.ID == nil {
				return 0, false
			}
			return *d.ID, true
		},
		ToDraft: func(d domain.CleaningDuty) (crud.Draft, error) {
			return crud.Draft{
				"name1":      d.Name1,
				"name2":      d.Name2,
				"start_date": d.StartDate.String(),
				"end_date":   d.EndDate.String(),
			}, nil
		},
	}

	p.table = crud.New(ctx, api, EmptyDraft())
	return p
}

// Table returns the underlying CRUD table.
func (p *Page) Table() *crud.Table[domain.CleaningDuty, int64] {
	return p.table
}

// Prepare validates a normalized draft and runs the conflict pre-check for
// both participants in order. It returns the payload to submit.
func (p *Page) Prepare(ctx context.Context, d crud.Draft) (domain.CleaningDutyInput, error) {
	name1, name2 := d.String("name1"), d.String("name2")
	if name1 == "" || name2 == "" {
		return domain.CleaningDutyInput{}, domain.NewValidationError("both participants (name1 and name2) are required")
	}

	start, end, err := dateRange(d)
	if err != nil {
		return domain.CleaningDutyInput{}, err
	}

	for _, name := range []string{name1, name2} {
		if err := p.checkParticipant(ctx, name, start, end); err != nil {
			return domain.CleaningDutyInput{}, err
		}
	}

	startStr, endStr := start.String(), end.String()
	return domain.CleaningDutyInput{
		Name1:     &name1,
		Name2:     &name2,
		StartDate: &startStr,
		EndDate:   &endStr,
	}, nil
}

func (p *Page) checkParticipant(ctx context.Context, name string, start, end domain.Date) error {
	// событие в последний день дежурства тоже конфликт
	until := end.AddDate(0, 0, 1).Add(-time.Second)

	events, err := p.client.UserEventsInRange(ctx, name, start.Time, until)
	if err != nil {
		return err
	}
	if len(events) > 0 {
		return &domain.ConflictError{Participant: name, Events: len(events)}
	}
	return nil
}

func (p *Page) list(ctx context.Context) ([]domain.CleaningDuty, error) {
	duties, err := p.client.ListCleaningDuties(ctx)
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(duties, func(a, b domain.CleaningDuty) int {
		return cmp.Compare(a.StartDate.Unix(), b.StartDate.Unix())
	})
	return duties, nil
}

func dateRange(d crud.Draft) (domain.Date, domain.Date, error) {
	startStr, endStr := d.String("start_date"), d.String("end_date")
	if startStr == "" || endStr == "" {
		return domain.Date{}, domain.Date{}, domain.NewValidationError("a full date range (start_date and end_date) is required")
	}

	start, err := domain.ParseDate(startStr)
	if err != nil {
		return domain.Date{}, domain.Date{}, domain.NewValidationError("start_date %q is not a date", startStr)
	}
	end, err := domain.ParseDate(endStr)
	if err != nil {
		return domain.Date{}, domain.Date{}, domain.NewValidationError("end_date %q is not a date", endStr)
	}
	if end.Before(start.Time) {
		return domain.Date{}, domain.Date{}, domain.NewValidationError("end_date must not be before start_date")
	}
	return start, end, nil
}
