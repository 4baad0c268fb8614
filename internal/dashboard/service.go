package dashboard

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/evolutionflow/admin-bff/internal/audit"
	"github.com/evolutionflow/admin-bff/internal/contacts"
	"github.com/evolutionflow/admin-bff/internal/instructors"
	"github.com/evolutionflow/admin-bff/internal/members"
	"github.com/evolutionflow/admin-bff/internal/schedules"
	"github.com/evolutionflow/admin-bff/internal/workshops"
	"github.com/evolutionflow/admin-bff/pkg/enums"
	pkgerrors "github.com/evolutionflow/admin-bff/pkg/errors"
	"github.com/evolutionflow/admin-bff/pkg/listview"
	"github.com/evolutionflow/admin-bff/pkg/logger"
	"github.com/evolutionflow/admin-bff/pkg/redis"
	"golang.org/x/sync/errgroup"
)

const (
	recentActivity = 10
	snapshotName   = "dashboard"
)

// Tile names reported in Dashboard.Unavailable.
const (
	TileMembers      = "members"
	TileInstructors  = "instructors"
	TileWorkshops    = "workshops"
	TileEvents       = "events"
	TileRequests     = "requests"
	TilePartnerships = "partnerships"
	TileStudios      = "studios"
	TileActivity     = "activity"
)

type (
	MemberStats interface {
		Stats(ctx context.Context, token string) (members.Stats, error)
	}
	InstructorLister interface {
		List(ctx context.Context, token string, q listview.Query) (listview.Result[instructors.Instructor], error)
	}
	WorkshopSummarizer interface {
		Summary(ctx context.Context, token string) (workshops.Summary, error)
	}
	ScheduleSummarizer interface {
		Summary(ctx context.Context, token string) (schedules.Summary, error)
	}
	PendingCounter interface {
		Pending(ctx context.Context, token string, kind enums.RequestKind) (int, error)
	}
	ContactLister interface {
		List(ctx context.Context, token string, view contacts.View, q listview.Query) (listview.Result[contacts.Contact], error)
	}
	StudioCounter interface {
		Count(ctx context.Context) (int64, error)
	}
	ActivityFeed interface {
		Recent(ctx context.Context, n int) ([]audit.Entry, error)
	}
)

// SnapshotStore keeps the last computed dashboard.
type SnapshotStore interface {
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	GetJSON(ctx context.Context, key string, out any) error
	SnapshotKey(name string) string
}

// Dashboard is the landing page of the admin console.
type Dashboard struct {
	Members           *members.Stats            `json:"members,omitempty"`
	ActiveInstructors *int                      `json:"activeInstructors,omitempty"`
	Workshops         *workshops.Summary        `json:"workshops,omitempty"`
	Events            *schedules.Summary        `json:"events,omitempty"`
	PendingRequests   map[enums.RequestKind]int `json:"pendingRequests,omitempty"`
	Partnerships      *PartnershipSummary       `json:"partnerships,omitempty"`
	Studios           *int64                    `json:"studios,omitempty"`
	RecentActivity    []audit.Entry             `json:"recentActivity"`
	Unavailable       []string                  `json:"unavailable"`
	GeneratedAt       time.Time                 `json:"generatedAt"`
}

// PartnershipSummary counts partnership inquiries.
type PartnershipSummary struct {
	Total    int `json:"total"`
	Received int `json:"received"`
}

// Service builds the dashboard.
type Service interface {
	Build(ctx context.Context, token string) (*Dashboard, error)
	// Cached serves a stored snapshot younger than maxAge, building a fresh one otherwise.
	Cached(ctx context.Context, token string, maxAge time.Duration) (*Dashboard, error)
	// Snapshot builds and stores the dashboard.
	Snapshot(ctx context.Context, token string, ttl time.Duration) (*Dashboard, error)
}

// ServiceParams wires the dashboard. Every source is optional; a missing or
// failing source marks its tile unavailable.
type ServiceParams struct {
	Members     MemberStats
	Instructors InstructorLister
	Workshops   WorkshopSummarizer
	Schedules   ScheduleSummarizer
	Requests    PendingCounter
	Contacts    ContactLister
	Studios     StudioCounter
	Activity    ActivityFeed
	Snapshots   SnapshotStore
	Logger      *logger.Logger
	Now         func() time.Time
}

type service struct {
	params ServiceParams
	logg   *logger.Logger
	now    func() time.Time
}

// NewService builds the dashboard service.
func NewService(params ServiceParams) (Service, error) {
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{params: params, logg: params.Logger, now: now}, nil
}

func (s *service) Build(ctx context.Context, token string) (*Dashboard, error) {
	out := &Dashboard{
		RecentActivity: []audit.Entry{},
		Unavailable:    []string{},
	}
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)

	tile := func(name string, available bool, fn func(context.Context) error) {
		if !available {
			mu.Lock()
			out.Unavailable = append(out.Unavailable, name)
			mu.Unlock()
			return
		}
		g.Go(func() error {
			if err := fn(gctx); err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return ctxErr
				}
				s.logg.Warn(s.logg.WithFields(gctx, map[string]any{"tile": name, "error": err.Error()}), "dashboard tile unavailable")
				mu.Lock()
				out.Unavailable = append(out.Unavailable, name)
				mu.Unlock()
			}
			return nil
		})
	}

	p := s.params
	tile(TileMembers, p.Members != nil, func(ctx context.Context) error {
		stats, err := p.Members.Stats(ctx, token)
		if err != nil {
			return err
		}
		mu.Lock()
		out.Members = &stats
		mu.Unlock()
		return nil
	})
	tile(TileInstructors, p.Instructors != nil, func(ctx context.Context) error {
		res, err := p.Instructors.List(ctx, token, listview.Query{Filters: map[string]string{"isActive": "true"}})
		if err != nil {
			return err
		}
		mu.Lock()
		out.ActiveInstructors = &res.Total
		mu.Unlock()
		return nil
	})
	tile(TileWorkshops, p.Workshops != nil, func(ctx context.Context) error {
		sum, err := p.Workshops.Summary(ctx, token)
		if err != nil {
			return err
		}
		mu.Lock()
		out.Workshops = &sum
		mu.Unlock()
		return nil
	})
	tile(TileEvents, p.Schedules != nil, func(ctx context.Context) error {
		sum, err := p.Schedules.Summary(ctx, token)
		if err != nil {
			return err
		}
		mu.Lock()
		out.Events = &sum
		mu.Unlock()
		return nil
	})
	tile(TileRequests, p.Requests != nil, func(ctx context.Context) error {
		counts := make(map[enums.RequestKind]int, len(enums.RequestKinds()))
		for _, kind := range enums.RequestKinds() {
			n, err := p.Requests.Pending(ctx, token, kind)
			if err != nil {
				return err
			}
			counts[kind] = n
		}
		mu.Lock()
		out.PendingRequests = counts
		mu.Unlock()
		return nil
	})
	tile(TilePartnerships, p.Contacts != nil, func(ctx context.Context) error {
		all, err := p.Contacts.List(ctx, token, contacts.ViewPartnerships, listview.Query{})
		if err != nil {
			return err
		}
		received, err := p.Contacts.List(ctx, token, contacts.ViewPartnerships, listview.Query{
			Filters: map[string]string{"status": string(enums.ContactStatusReceived)},
		})
		if err != nil {
			return err
		}
		mu.Lock()
		out.Partnerships = &PartnershipSummary{Total: all.Total, Received: received.Total}
		mu.Unlock()
		return nil
	})
	tile(TileStudios, p.Studios != nil, func(ctx context.Context) error {
		n, err := p.Studios.Count(ctx)
		if err != nil {
			return err
		}
		mu.Lock()
		out.Studios = &n
		mu.Unlock()
		return nil
	})
	tile(TileActivity, p.Activity != nil, func(ctx context.Context) error {
		entries, err := p.Activity.Recent(ctx, recentActivity)
		if err != nil {
			return err
		}
		mu.Lock()
		out.RecentActivity = entries
		mu.Unlock()
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	slices.Sort(out.Unavailable)
	out.GeneratedAt = s.now().UTC()
	return out, nil
}

func (s *service) Cached(ctx context.Context, token string, maxAge time.Duration) (*Dashboard, error) {
	if s.params.Snapshots != nil && maxAge > 0 {
		var snap Dashboard
		err := s.params.Snapshots.GetJSON(ctx, s.params.Snapshots.SnapshotKey(snapshotName), &snap)
		switch {
		case err == nil && s.now().Sub(snap.GeneratedAt) <= maxAge:
			return &snap, nil
		case err != nil && !redis.IsNil(err):
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "dashboard snapshot read failed")
		}
	}
	return s.Build(ctx, token)
}

func (s *service) Snapshot(ctx context.Context, token string, ttl time.Duration) (*Dashboard, error) {
	if s.params.Snapshots == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "snapshot store not configured")
	}
	out, err := s.Build(ctx, token)
	if err != nil {
		return nil, err
	}
	if err := s.params.Snapshots.SetJSON(ctx, s.params.Snapshots.SnapshotKey(snapshotName), out, ttl); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store dashboard snapshot")
	}
	return out, nil
}
