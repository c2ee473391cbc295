package service

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/devinci/portal/internal/domain"
)

// dashboardMessages is how many latest messages the dashboard shows
const dashboardMessages = 5

// Panel is one dashboard block. Err is set when its data could not be loaded.
type Panel[T any] struct {
	Data T      `json:"data"`
	Err  string `json:"error,omitempty"`
}

// DashboardView is the home page of the portal
type DashboardView struct {
	User     domain.AuthUser            `json:"user"`
	Messages Panel[[]domain.Message]    `json:"messages"`
	Schedule Panel[*Schedule]           `json:"schedule"`
	Events   Panel[[]domain.ForumEvent] `json:"events"`
	Updates  Panel[[]domain.UserUpdate] `json:"updates"`
}

// Dashboard assembles the home page from independent panels
type Dashboard struct {
	messages  *MessageBoard
	forum     *Forum
	directory *Directory
	logger    *slog.Logger
}

// NewDashboard creates a new Dashboard
func NewDashboard(messages *MessageBoard, forum *Forum, directory *Directory, logger *slog.Logger) *Dashboard {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dashboard{messages: messages, forum: forum, directory: directory, logger: logger}
}

// Build loads all panels concurrently. A failing panel only sets its own
// error; the view is always returned.
func (d *Dashboard) Build(ctx context.Context, user *domain.LoginResult) *DashboardView {
	view := &DashboardView{User: user.Public()}

	// each goroutine writes only its own panel and never fails the group
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		msgs, err := d.messages.List(ctx)
		if len(msgs) > dashboardMessages {
			msgs = msgs[:dashboardMessages]
		}
		view.Messages = panel(msgs, err, d.logger, "messages")
		return nil
	})
	g.Go(func() error {
		schedule, err := d.forum.Schedule(ctx)
		view.Schedule = panel(schedule, err, d.logger, "schedule")
		return nil
	})
	g.Go(func() error {
		events, err := d.forum.Events(ctx)
		view.Events = panel(events, err, d.logger, "events")
		return nil
	})
	g.Go(func() error {
		updates, err := d.directory.Updates(ctx)
		var upcoming []domain.UserUpdate
		if updates != nil {
			upcoming = updates.Upcoming
		}
		view.Updates = panel(upcoming, err, d.logger, "updates")
		return nil
	})

	_ = g.Wait()
	return view
}

func panel[T any](data T, err error, logger *slog.Logger, name string) Panel[T] {
	if err != nil {
		logger.Warn("Dashboard panel failed", "panel", name, "error", err)
		return Panel[T]{Data: data, Err: domain.ErrorMessage(err)}
	}
	return Panel[T]{Data: data}
}
