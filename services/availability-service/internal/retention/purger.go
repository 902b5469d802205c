package retention

import (
	"context"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/md-rashed-zaman/openhours/services/availability-service/internal/outbox"
)

// Store is the slice of the day repository the purger needs.
type Store interface {
	CountPurgeable(ctx context.Context, cutoff time.Time) (int64, error)
	DeletePurgeableChunk(ctx context.Context, cutoff time.Time, limit int) (int64, error)
}

// Config holds the purge policy. Defaults come from the composition root
// (env-backed there), never read ambiently inside the service.
type Config struct {
	OlderThanDays  int
	KeepRecentDays int
	ChunkSize      int
	DryRun         bool
	Interval       time.Duration
	SiteMode       string // deployment label on the metrics ("prod", "staging", ...)
}

// Metrics are the per-run retention observables: how many day rows went and
// how long the run took. Operators alert on zero-purge runs and slow runs.
type Metrics struct {
	PurgedDays  *prometheus.CounterVec
	RunDuration prometheus.Histogram
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		PurgedDays: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "availability_retention_purged_days_total",
			Help: "Availability day rows removed by retention runs.",
		}, []string{"site_mode"}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "availability_retention_run_duration_seconds",
			Help:    "Wall time of a retention run.",
			Buckets: prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(m.PurgedDays, m.RunDuration)
	return m
}

// Result is the structured summary handed back to schedulers and logs.
type Result struct {
	PurgedDays int64     `json:"purged_days"`
	DryRun     bool      `json:"dry_run"`
	Cutoff     time.Time `json:"cutoff"`
}

// EventSink records purge events for downstream consumers.
// *outbox.Repository satisfies it.
type EventSink interface {
	Insert(ctx context.Context, evt outbox.Event) error
}

// Purger bounds the growth of availability day rows.
type Purger struct {
	store   Store
	logger  *slog.Logger
	metrics *Metrics
	cfg     Config

	// Events, when set, gets one event per non-dry run that removed rows.
	Events EventSink
}

func NewPurger(store Store, logger *slog.Logger, metrics *Metrics, cfg Config) *Purger {
	if cfg.OlderThanDays <= 0 {
		cfg.OlderThanDays = 90
	}
	if cfg.KeepRecentDays <= 0 {
		cfg.KeepRecentDays = 30
	}
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = 1000
	}
	if cfg.Interval <= 0 {
		cfg.Interval = 24 * time.Hour
	}
	if cfg.SiteMode == "" {
		cfg.SiteMode = "default"
	}
	return &Purger{store: store, logger: logger, metrics: metrics, cfg: cfg}
}

// PurgeAvailabilityDays removes rows strictly older than both the age cutoff
// and the keep-recent floor. Rows within keep_recent_days of today, or in the
// future, are never touched no matter how the age knob is configured.
func (p *Purger) PurgeAvailabilityDays(ctx context.Context, today time.Time, dryRun bool) (Result, error) {
	start := time.Now()
	cutoff := p.cutoff(today)
	result := Result{DryRun: dryRun, Cutoff: cutoff}

	if dryRun {
		n, err := p.store.CountPurgeable(ctx, cutoff)
		if err != nil {
			return result, err
		}
		result.PurgedDays = n
		p.observe(result, time.Since(start))
		return result, nil
	}

	for {
		n, err := p.store.DeletePurgeableChunk(ctx, cutoff, p.cfg.ChunkSize)
		if err != nil {
			return result, err
		}
		result.PurgedDays += n
		if n < int64(p.cfg.ChunkSize) {
			break
		}
	}
	p.observe(result, time.Since(start))

	if p.Events != nil && !dryRun && result.PurgedDays > 0 {
		evt := outbox.DaysPurged(cutoff, result.PurgedDays, p.cfg.SiteMode)
		if err := p.Events.Insert(ctx, evt); err != nil {
			p.logger.Error("failed to record purge event", "err", err)
		}
	}
	return result, nil
}

// Run executes the purge on a fixed cadence until the context ends, for
// deployments without an external scheduler.
func (p *Purger) Run(ctx context.Context) {
	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			result, err := p.PurgeAvailabilityDays(ctx, time.Now().UTC().Truncate(24*time.Hour), p.cfg.DryRun)
			if err != nil {
				p.logger.Error("retention run failed", "err", err)
				continue
			}
			p.logger.Info("retention run finished",
				"purged_days", result.PurgedDays,
				"dry_run", result.DryRun,
				"cutoff", result.Cutoff.Format("2006-01-02"),
			)
		}
	}
}

// cutoff is the earlier of the age cutoff and the keep-recent floor; only
// rows strictly before it qualify. A future day_date can never satisfy it.
func (p *Purger) cutoff(today time.Time) time.Time {
	ageCutoff := today.AddDate(0, 0, -p.cfg.OlderThanDays)
	keepFloor := today.AddDate(0, 0, -p.cfg.KeepRecentDays)
	if keepFloor.Before(ageCutoff) {
		return keepFloor
	}
	return ageCutoff
}

func (p *Purger) observe(result Result, elapsed time.Duration) {
	if p.metrics == nil {
		return
	}
	p.metrics.RunDuration.Observe(elapsed.Seconds())
	if !result.DryRun {
		p.metrics.PurgedDays.WithLabelValues(p.cfg.SiteMode).Add(float64(result.PurgedDays))
	}
}
