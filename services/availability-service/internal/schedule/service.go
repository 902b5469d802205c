package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/md-rashed-zaman/openhours/services/availability-service/internal/bitset"
	"github.com/md-rashed-zaman/openhours/services/availability-service/internal/storage"
)

// Store is the persistence surface this service needs. *storage.DayRepository
// satisfies it in production; tests use a counting fake.
type Store interface {
	GetWeek(ctx context.Context, providerID string, weekStart time.Time) (map[string]bitset.Bitmap, error)
	GetDaysInRange(ctx context.Context, providerID string, start, end time.Time) ([]storage.DayBits, error)
	UpsertWeek(ctx context.Context, providerID string, items []storage.DayBits) (int64, error)
}

// WeekCache is an optional read-through cache for raw week bitmaps. Failures
// inside the cache must behave as misses; the store stays authoritative.
type WeekCache interface {
	GetWeek(ctx context.Context, providerID string, weekStart time.Time) (map[string]bitset.Bitmap, bool)
	SetWeek(ctx context.Context, providerID string, weekStart time.Time, week map[string]bitset.Bitmap)
	Invalidate(ctx context.Context, providerID string, weekStarts ...time.Time)
}

// Service translates between the provider-facing WeekMap and the store's
// per-date bitmaps. It owns the overnight-split and week-alignment rules.
type Service struct {
	store  Store
	cache  WeekCache
	logger *slog.Logger
}

func NewService(store Store, cache WeekCache, logger *slog.Logger) *Service {
	return &Service{store: store, cache: cache, logger: logger}
}

// GetWeekAvailability returns the windows declared open for the 7 dates
// starting at weekStart. Dates with no availability are omitted unless
// includeEmpty is set. Bitmaps belonging to adjacent weeks never leak into
// the result, even if the store returns extra rows.
func (s *Service) GetWeekAvailability(ctx context.Context, providerID string, weekStart time.Time, includeEmpty bool) (WeekMap, error) {
	if err := checkWeekStart(weekStart); err != nil {
		return nil, err
	}

	bits, err := s.weekBits(ctx, providerID, weekStart)
	if err != nil {
		return nil, err
	}

	week := make(WeekMap)
	for i := 0; i < 7; i++ {
		date := weekStart.AddDate(0, 0, i).Format(dateLayout)
		windows := bitset.Decode(bits[date])
		if len(windows) == 0 && !includeEmpty {
			continue
		}
		if windows == nil {
			windows = []bitset.Window{}
		}
		week[date] = windows
	}
	return week, nil
}

// SaveWeekAvailability validates and persists a week's schedule, splitting
// midnight-crossing entries across the two dates they touch, then re-reads the
// stored state so the caller observes exactly what was written.
func (s *Service) SaveWeekAvailability(ctx context.Context, providerID string, entries []Entry, clearExisting bool, weekStart time.Time) (WeekMap, error) {
	if err := checkWeekStart(weekStart); err != nil {
		return nil, err
	}
	weekEnd := weekStart.AddDate(0, 0, 6)

	byDate := make(map[string][]bitset.Window)
	for _, e := range entries {
		if e.Date.Before(weekStart) || e.Date.After(weekEnd) {
			return nil, fmt.Errorf("%w: date %s is outside week starting %s",
				ErrValidation, e.Date.Format(dateLayout), weekStart.Format(dateLayout))
		}
		head, tail, err := splitOvernight(e)
		if err != nil {
			return nil, err
		}
		key := e.Date.Format(dateLayout)
		byDate[key] = append(byDate[key], head)
		if tail != nil {
			// The tail of a Sunday overnight lands on the next week's Monday;
			// it is stored there but never reported for this week.
			nextKey := e.Date.AddDate(0, 0, 1).Format(dateLayout)
			byDate[nextKey] = append(byDate[nextKey], *tail)
		}
	}

	if clearExisting {
		for i := 0; i < 7; i++ {
			key := weekStart.AddDate(0, 0, i).Format(dateLayout)
			if _, ok := byDate[key]; !ok {
				// Zero-filled upsert, not a delete: retention and audit trails
				// stay consistent for dates the caller explicitly emptied.
				byDate[key] = nil
			}
		}
	}

	items := make([]storage.DayBits, 0, len(byDate))
	for key, windows := range byDate {
		bm, err := bitset.Encode(windows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrValidation, key, err)
		}
		day, err := ParseDate(key)
		if err != nil {
			return nil, err
		}
		items = append(items, storage.DayBits{Day: day, Bits: bm})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Day.Before(items[j].Day) })

	if _, err := s.store.UpsertWeek(ctx, providerID, items); err != nil {
		return nil, err
	}
	s.invalidate(ctx, providerID, weekStart, weekStart.AddDate(0, 0, 7))

	return s.GetWeekAvailability(ctx, providerID, weekStart, false)
}

// splitOvernight turns a midnight-crossing entry into a same-date head ending
// at 24:00:00 and an optional next-date tail. Entries already within one date
// pass through unchanged. An entry with equal start and end is empty, which is
// a caller error, not an overnight window.
func splitOvernight(e Entry) (head bitset.Window, tail *bitset.Window, err error) {
	if e.Start < 0 || e.Start >= bitset.MinutesPerDay || e.End < 0 || e.End > bitset.MinutesPerDay {
		return bitset.Window{}, nil, fmt.Errorf("%w: window %s-%s out of range",
			ErrValidation, bitset.ClockString(e.Start), bitset.ClockString(e.End))
	}
	if e.End == e.Start {
		return bitset.Window{}, nil, fmt.Errorf("%w: window %s-%s is empty",
			ErrValidation, bitset.ClockString(e.Start), bitset.ClockString(e.End))
	}
	if e.End > e.Start {
		return bitset.Window{Start: e.Start, End: e.End}, nil, nil
	}

	head = bitset.Window{Start: e.Start, End: bitset.MinutesPerDay}
	if e.End == 0 {
		// "through midnight exactly" needs no tail on the next date.
		return head, nil, nil
	}
	return head, &bitset.Window{Start: 0, End: e.End}, nil
}

func (s *Service) weekBits(ctx context.Context, providerID string, weekStart time.Time) (map[string]bitset.Bitmap, error) {
	if s.cache != nil {
		if week, ok := s.cache.GetWeek(ctx, providerID, weekStart); ok {
			return week, nil
		}
	}
	week, err := s.store.GetWeek(ctx, providerID, weekStart)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.SetWeek(ctx, providerID, weekStart, week)
	}
	return week, nil
}

func (s *Service) invalidate(ctx context.Context, providerID string, weekStarts ...time.Time) {
	if s.cache == nil {
		return
	}
	s.cache.Invalidate(ctx, providerID, weekStarts...)
}
