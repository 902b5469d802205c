package schedule

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/md-rashed-zaman/openhours/services/availability-service/internal/bitset"
	"github.com/md-rashed-zaman/openhours/services/availability-service/internal/storage"
)

// fakeStore keeps bitmaps in memory and counts store calls so tests can assert
// the week read path issues a single range query.
type fakeStore struct {
	days map[string]map[string]bitset.Bitmap // provider -> date -> bits

	getWeekCalls  int
	getRangeCalls int
	upsertCalls   int
}

func newFakeStore() *fakeStore {
	return &fakeStore{days: map[string]map[string]bitset.Bitmap{}}
}

func (f *fakeStore) GetWeek(_ context.Context, providerID string, weekStart time.Time) (map[string]bitset.Bitmap, error) {
	f.getWeekCalls++
	out := map[string]bitset.Bitmap{}
	for date, bits := range f.days[providerID] {
		d, _ := ParseDate(date)
		if d.Before(weekStart) || d.After(weekStart.AddDate(0, 0, 6)) {
			continue
		}
		out[date] = bits
	}
	return out, nil
}

func (f *fakeStore) GetDaysInRange(_ context.Context, providerID string, start, end time.Time) ([]storage.DayBits, error) {
	f.getRangeCalls++
	var out []storage.DayBits
	for date, bits := range f.days[providerID] {
		d, _ := ParseDate(date)
		if d.Before(start) || d.After(end) {
			continue
		}
		out = append(out, storage.DayBits{Day: d, Bits: bits})
	}
	return out, nil
}

func (f *fakeStore) UpsertWeek(_ context.Context, providerID string, items []storage.DayBits) (int64, error) {
	f.upsertCalls++
	if f.days[providerID] == nil {
		f.days[providerID] = map[string]bitset.Bitmap{}
	}
	for _, item := range items {
		f.days[providerID][item.Day.Format(dateLayout)] = item.Bits
	}
	return int64(len(items)), nil
}

func (f *fakeStore) seed(t *testing.T, providerID, date string, windows ...bitset.Window) {
	t.Helper()
	bm, err := bitset.Encode(windows)
	if err != nil {
		t.Fatalf("seed encode: %v", err)
	}
	if f.days[providerID] == nil {
		f.days[providerID] = map[string]bitset.Bitmap{}
	}
	f.days[providerID][date] = bm
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := ParseDate(s)
	if err != nil {
		t.Fatalf("parse date %s: %v", s, err)
	}
	return d
}

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestGetWeekAvailability_SingleRangeQuery(t *testing.T) {
	store := newFakeStore()
	store.seed(t, "p1", "2026-03-02", bitset.Window{Start: 9 * 60, End: 12 * 60})
	store.seed(t, "p1", "2026-03-04", bitset.Window{Start: 14 * 60, End: 16 * 60})
	svc := NewService(store, nil, testLogger)

	week, err := svc.GetWeekAvailability(context.Background(), "p1", mustDate(t, "2026-03-02"), false)
	if err != nil {
		t.Fatalf("get week: %v", err)
	}
	if store.getWeekCalls != 1 {
		t.Fatalf("expected exactly 1 range query, got %d", store.getWeekCalls)
	}
	if len(week) != 2 {
		t.Fatalf("expected 2 dates, got %v", week)
	}
}

func TestGetWeekAvailability_RejectsNonMonday(t *testing.T) {
	svc := NewService(newFakeStore(), nil, testLogger)
	_, err := svc.GetWeekAvailability(context.Background(), "p1", mustDate(t, "2026-03-03"), false)
	if err == nil {
		t.Fatal("expected validation error for non-Monday week start")
	}
}

func TestGetWeekAvailability_NeverLeaksAdjacentWeeks(t *testing.T) {
	store := newFakeStore()
	// Rows exist for the weeks before and after.
	store.seed(t, "p1", "2026-03-01", bitset.Window{Start: 9 * 60, End: 10 * 60})
	store.seed(t, "p1", "2026-03-09", bitset.Window{Start: 9 * 60, End: 10 * 60})
	store.seed(t, "p1", "2026-03-05", bitset.Window{Start: 9 * 60, End: 10 * 60})
	svc := NewService(store, nil, testLogger)

	week, err := svc.GetWeekAvailability(context.Background(), "p1", mustDate(t, "2026-03-02"), false)
	if err != nil {
		t.Fatalf("get week: %v", err)
	}
	if len(week) != 1 {
		t.Fatalf("expected only in-week dates, got %v", week)
	}
	if _, ok := week["2026-03-05"]; !ok {
		t.Fatalf("expected 2026-03-05 in result, got %v", week)
	}
}

func TestGetWeekAvailability_IncludeEmpty(t *testing.T) {
	store := newFakeStore()
	store.seed(t, "p1", "2026-03-02", bitset.Window{Start: 9 * 60, End: 12 * 60})
	svc := NewService(store, nil, testLogger)

	week, err := svc.GetWeekAvailability(context.Background(), "p1", mustDate(t, "2026-03-02"), true)
	if err != nil {
		t.Fatalf("get week: %v", err)
	}
	if len(week) != 7 {
		t.Fatalf("include_empty should return all 7 dates, got %d", len(week))
	}
	if len(week["2026-03-03"]) != 0 {
		t.Fatalf("empty date should have no windows, got %v", week["2026-03-03"])
	}
}

func TestSaveWeekAvailability_EndToEnd(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, nil, testLogger)
	monday := mustDate(t, "2026-03-02")

	week, err := svc.SaveWeekAvailability(context.Background(), "p1", []Entry{
		{Date: monday, Start: 9 * 60, End: 12 * 60},
		{Date: monday, Start: 13 * 60, End: 17 * 60},
	}, false, monday)
	if err != nil {
		t.Fatalf("save week: %v", err)
	}

	if len(week) != 1 {
		t.Fatalf("expected only Monday in result, got %v", week)
	}
	windows := week["2026-03-02"]
	if len(windows) != 2 {
		t.Fatalf("expected 2 windows, got %v", windows)
	}
	if windows[0] != (bitset.Window{Start: 9 * 60, End: 12 * 60}) ||
		windows[1] != (bitset.Window{Start: 13 * 60, End: 17 * 60}) {
		t.Fatalf("unexpected windows %v", windows)
	}
}

func TestSaveWeekAvailability_OvernightSplit(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, nil, testLogger)
	monday := mustDate(t, "2026-03-02")

	week, err := svc.SaveWeekAvailability(context.Background(), "p1", []Entry{
		{Date: monday, Start: 22 * 60, End: 1 * 60},
	}, false, monday)
	if err != nil {
		t.Fatalf("save week: %v", err)
	}

	mon := week["2026-03-02"]
	if len(mon) != 1 || mon[0].StartString() != "22:00:00" || mon[0].EndString() != "24:00:00" {
		t.Fatalf("expected Monday 22:00-24:00, got %v", mon)
	}
	tue := week["2026-03-03"]
	if len(tue) != 1 || tue[0].StartString() != "00:00:00" || tue[0].EndString() != "01:00:00" {
		t.Fatalf("expected Tuesday 00:00-01:00, got %v", tue)
	}
}

func TestSaveWeekAvailability_SundayOvernightSpillsToNextWeek(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, nil, testLogger)
	monday := mustDate(t, "2026-03-02")
	sunday := mustDate(t, "2026-03-08")

	week, err := svc.SaveWeekAvailability(context.Background(), "p1", []Entry{
		{Date: sunday, Start: 22 * 60, End: 1 * 60},
	}, false, monday)
	if err != nil {
		t.Fatalf("save week: %v", err)
	}

	if _, ok := week["2026-03-09"]; ok {
		t.Fatalf("next week's Monday must not appear in this week's result: %v", week)
	}
	// The tail is stored on the next Monday all the same.
	nextWeek, err := svc.GetWeekAvailability(context.Background(), "p1", mustDate(t, "2026-03-09"), false)
	if err != nil {
		t.Fatalf("get next week: %v", err)
	}
	tail := nextWeek["2026-03-09"]
	if len(tail) != 1 || tail[0].EndString() != "01:00:00" {
		t.Fatalf("expected spillover tail on next Monday, got %v", nextWeek)
	}
}

func TestSaveWeekAvailability_ClearExistingZeroFills(t *testing.T) {
	store := newFakeStore()
	store.seed(t, "p1", "2026-03-04", bitset.Window{Start: 9 * 60, End: 12 * 60})
	svc := NewService(store, nil, testLogger)
	monday := mustDate(t, "2026-03-02")

	week, err := svc.SaveWeekAvailability(context.Background(), "p1", []Entry{
		{Date: monday, Start: 10 * 60, End: 11 * 60},
	}, true, monday)
	if err != nil {
		t.Fatalf("save week: %v", err)
	}

	if _, ok := week["2026-03-04"]; ok {
		t.Fatalf("cleared date should be empty, got %v", week)
	}
	// Cleared dates are zero-filled rows, not deletions.
	if bits, ok := store.days["p1"]["2026-03-04"]; !ok || !bits.IsZero() {
		t.Fatalf("expected zero-filled row for cleared date, got %v (present %v)", bits, ok)
	}
}

func TestSaveWeekAvailability_Idempotent(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, nil, testLogger)
	monday := mustDate(t, "2026-03-02")
	entries := []Entry{{Date: monday, Start: 9 * 60, End: 12 * 60}}

	if _, err := svc.SaveWeekAvailability(context.Background(), "p1", entries, false, monday); err != nil {
		t.Fatalf("first save: %v", err)
	}
	before := store.days["p1"]["2026-03-02"]

	if _, err := svc.SaveWeekAvailability(context.Background(), "p1", entries, false, monday); err != nil {
		t.Fatalf("second save: %v", err)
	}
	if store.days["p1"]["2026-03-02"] != before {
		t.Fatal("re-saving an unchanged schedule must not change any bits")
	}
}

func TestSaveWeekAvailability_Rejections(t *testing.T) {
	svc := NewService(newFakeStore(), nil, testLogger)
	monday := mustDate(t, "2026-03-02")

	if _, err := svc.SaveWeekAvailability(context.Background(), "p1", nil, false, mustDate(t, "2026-03-03")); err == nil {
		t.Fatal("expected error for misaligned week start")
	}

	outside := mustDate(t, "2026-03-10")
	if _, err := svc.SaveWeekAvailability(context.Background(), "p1", []Entry{
		{Date: outside, Start: 9 * 60, End: 10 * 60},
	}, false, monday); err == nil {
		t.Fatal("expected error for date outside the week")
	}

	if _, err := svc.SaveWeekAvailability(context.Background(), "p1", []Entry{
		{Date: monday, Start: 10 * 60, End: 10 * 60},
	}, false, monday); err == nil {
		t.Fatal("expected error for empty window")
	}

	if _, err := svc.SaveWeekAvailability(context.Background(), "p1", []Entry{
		{Date: monday, Start: 9*60 + 10, End: 10 * 60},
	}, false, monday); err == nil {
		t.Fatal("expected error for misaligned window")
	}
}
