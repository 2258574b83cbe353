package state

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/youruser/frycards/internal/gateway"
)

// DashboardBackend is the slice of the gateway the dashboard reads.
type DashboardBackend interface {
	GetProfile(ctx context.Context, userID string) (gateway.Profile, error)
	GetMyCollectionStats(ctx context.Context) (gateway.CollectionStats, error)
	EnsureDailyMissions(ctx context.Context) ([]gateway.Mission, error)
	PendingTradeCount(ctx context.Context, userID string) (int, error)
}

type DashboardSnapshot struct {
	Profile       gateway.Profile         `json:"profile"`
	Stats         gateway.CollectionStats `json:"stats"`
	Missions      []gateway.Mission       `json:"missions"`
	CanClaimDaily bool                    `json:"can_claim_daily"`
	PendingTrades int                     `json:"pending_trade_count"`
}

// fallbackStats stands in when the stats procedure fails.
var fallbackStats = gateway.CollectionStats{
	TotalPossible:   100,
	RarityBreakdown: []gateway.RarityCount{},
	SetCompletion:   []gateway.SetCompletion{},
}

// Dashboard is the per-session dashboard snapshot.
type Dashboard struct {
	backend DashboardBackend
	userID  string
	log     *slog.Logger
	now     func() time.Time

	snap  *Value[*DashboardSnapshot]
	err   *Value[error]
	group singleflight.Group
}

func NewDashboard(backend DashboardBackend, userID string, logger *slog.Logger) *Dashboard {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dashboard{
		backend: backend,
		userID:  userID,
		log:     logger,
		now:     time.Now,
		snap:    NewValue[*DashboardSnapshot](nil),
		err:     NewValue[error](nil),
	}
}

// Refresh reloads the snapshot. Concurrent callers share one reload. Only
// the profile read is required; stats, missions and the pending trade
// count fall back when their reads fail.
func (d *Dashboard) Refresh(ctx context.Context) (*DashboardSnapshot, error) {
	v, err, _ := d.group.Do("refresh", func() (any, error) {
		d.err.Set(nil)
		snap, err := d.load(ctx)
		if err != nil {
			d.log.Error("dashboard refresh failed", slog.String("user_id", d.userID), slog.String("error", err.Error()))
			d.err.Set(err)
			return nil, err
		}
		d.snap.Set(snap)
		return snap, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*DashboardSnapshot), nil
}

func (d *Dashboard) load(ctx context.Context) (*DashboardSnapshot, error) {
	snap := &DashboardSnapshot{}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		p, err := d.backend.GetProfile(ctx, d.userID)
		if err != nil {
			return err
		}
		snap.Profile = p
		return nil
	})
	g.Go(func() error {
		s, err := d.backend.GetMyCollectionStats(ctx)
		if err != nil {
			d.log.Warn("stats fetch failed", slog.String("error", err.Error()))
			s = fallbackStats
		}
		snap.Stats = s
		return nil
	})
	g.Go(func() error {
		ms, err := d.backend.EnsureDailyMissions(ctx)
		if err != nil {
			d.log.Warn("missions fetch failed", slog.String("error", err.Error()))
		}
		if ms == nil {
			ms = []gateway.Mission{}
		}
		snap.Missions = ms
		return nil
	})
	g.Go(func() error {
		n, err := d.backend.PendingTradeCount(ctx, d.userID)
		if err != nil {
			d.log.Warn("pending trades fetch failed", slog.String("error", err.Error()))
			return nil
		}
		snap.PendingTrades = n
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	snap.CanClaimDaily = CanClaimDaily(snap.Profile.LastDailyClaim, d.now())
	return snap, nil
}

// CanClaimDaily is true unless the last claim happened on today's UTC date.
// last is a date (YYYY-MM-DD); longer timestamp values are cut to their
// date part.
func CanClaimDaily(last *string, now time.Time) bool {
	if last == nil {
		return true
	}
	day := *last
	if len(day) > 10 {
		day = day[:10]
	}
	return day != now.UTC().Format(time.DateOnly)
}

// Snapshot is nil until the first successful refresh.
func (d *Dashboard) Snapshot() *DashboardSnapshot { return d.snap.Get() }

// Err is the error of the latest refresh, if it failed.
func (d *Dashboard) Err() error { return d.err.Get() }

func (d *Dashboard) Subscribe(fn func(*DashboardSnapshot)) func() {
	return d.snap.Subscribe(fn)
}

// Clear drops the snapshot, e.g. at sign-out.
func (d *Dashboard) Clear() {
	d.snap.Set(nil)
	d.err.Set(nil)
}
