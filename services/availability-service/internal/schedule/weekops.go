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

// MaxApplyRangeDays bounds apply-to-range write volume. A leap year fits.
const MaxApplyRangeDays = 366

// WeekOpService layers multi-week operations on top of the availability
// service: copy-week, apply-to-date-range, and validate-changes.
type WeekOpService struct {
	svc    *Service
	store  Store
	logger *slog.Logger
}

func NewWeekOpService(svc *Service, store Store, logger *slog.Logger) *WeekOpService {
	return &WeekOpService{svc: svc, store: store, logger: logger}
}

// ApplySummary reports what an apply-to-range run wrote.
type ApplySummary struct {
	DaysWritten    int `json:"days_written"`
	WindowsCreated int `json:"windows_created"`
}

// CopyWeekAvailability copies the source week's windows onto the target week
// using the containment merge: a source window already covered by an existing
// target window is skipped; a source window covering existing fragments
// replaces them with the single larger window; anything else is added
// alongside. Returns the number of source windows actually created. Running it
// twice with no intervening changes writes nothing the second time.
func (o *WeekOpService) CopyWeekAvailability(ctx context.Context, providerID string, fromWeekStart, toWeekStart time.Time) (int, error) {
	if err := checkWeekStart(fromWeekStart); err != nil {
		return 0, err
	}
	if err := checkWeekStart(toWeekStart); err != nil {
		return 0, err
	}
	if fromWeekStart.Equal(toWeekStart) {
		return 0, fmt.Errorf("%w: source and target week are the same", ErrValidation)
	}

	source, err := o.store.GetWeek(ctx, providerID, fromWeekStart)
	if err != nil {
		return 0, err
	}
	target, err := o.store.GetWeek(ctx, providerID, toWeekStart)
	if err != nil {
		return 0, err
	}

	created := 0
	var items []storage.DayBits
	for i := 0; i < 7; i++ {
		srcKey := fromWeekStart.AddDate(0, 0, i).Format(dateLayout)
		srcWindows := bitset.Decode(source[srcKey])
		if len(srcWindows) == 0 {
			continue
		}
		tgtDate := toWeekStart.AddDate(0, 0, i)
		merged, added := mergeWindows(bitset.Decode(target[tgtDate.Format(dateLayout)]), srcWindows)
		if added == 0 {
			continue
		}
		bm, err := bitset.Encode(merged)
		if err != nil {
			return created, fmt.Errorf("%w: %s: %v", ErrValidation, tgtDate.Format(dateLayout), err)
		}
		items = append(items, storage.DayBits{Day: tgtDate, Bits: bm})
		created += added
	}

	if len(items) > 0 {
		if _, err := o.store.UpsertWeek(ctx, providerID, items); err != nil {
			return 0, err
		}
		o.svc.invalidate(ctx, providerID, toWeekStart)
	}
	return created, nil
}

// ApplyToDateRange repeats the copy-week merge semantics across an arbitrary
// inclusive date range, matching each target date to the source week's date of
// the same weekday.
func (o *WeekOpService) ApplyToDateRange(ctx context.Context, providerID string, fromWeekStart, startDate, endDate time.Time) (ApplySummary, error) {
	if err := checkWeekStart(fromWeekStart); err != nil {
		return ApplySummary{}, err
	}
	if endDate.Before(startDate) {
		return ApplySummary{}, fmt.Errorf("%w: end date %s is before start date %s",
			ErrValidation, endDate.Format(dateLayout), startDate.Format(dateLayout))
	}
	spanDays := int(endDate.Sub(startDate).Hours()/24) + 1
	if spanDays > MaxApplyRangeDays {
		return ApplySummary{}, fmt.Errorf("%w: range of %d days exceeds the %d-day maximum",
			ErrValidation, spanDays, MaxApplyRangeDays)
	}

	source, err := o.store.GetWeek(ctx, providerID, fromWeekStart)
	if err != nil {
		return ApplySummary{}, err
	}
	sourceByWeekday := make([][]bitset.Window, 7)
	for i := 0; i < 7; i++ {
		key := fromWeekStart.AddDate(0, 0, i).Format(dateLayout)
		sourceByWeekday[i] = bitset.Decode(source[key])
	}

	existingRows, err := o.store.GetDaysInRange(ctx, providerID, startDate, endDate)
	if err != nil {
		return ApplySummary{}, err
	}
	existing := make(map[string]bitset.Bitmap, len(existingRows))
	for _, row := range existingRows {
		existing[row.Day.Format(dateLayout)] = row.Bits
	}

	var summary ApplySummary
	var items []storage.DayBits
	touchedWeeks := make(map[time.Time]struct{})
	for date := startDate; !date.After(endDate); date = date.AddDate(0, 0, 1) {
		weekday := (int(date.Weekday()) + 6) % 7
		srcWindows := sourceByWeekday[weekday]
		if len(srcWindows) == 0 {
			continue
		}
		merged, added := mergeWindows(bitset.Decode(existing[date.Format(dateLayout)]), srcWindows)
		if added == 0 {
			continue
		}
		bm, err := bitset.Encode(merged)
		if err != nil {
			return summary, fmt.Errorf("%w: %s: %v", ErrValidation, date.Format(dateLayout), err)
		}
		items = append(items, storage.DayBits{Day: date, Bits: bm})
		summary.DaysWritten++
		summary.WindowsCreated += added
		touchedWeeks[WeekStartOf(date)] = struct{}{}
	}

	if len(items) > 0 {
		if _, err := o.store.UpsertWeek(ctx, providerID, items); err != nil {
			return ApplySummary{}, err
		}
		weeks := make([]time.Time, 0, len(touchedWeeks))
		for ws := range touchedWeeks {
			weeks = append(weeks, ws)
		}
		o.svc.invalidate(ctx, providerID, weeks...)
	}
	return summary, nil
}

// ChangeDetail describes how one date differs between two week views.
type ChangeDetail struct {
	Date   string   `json:"date"`
	Change string   `json:"change"` // added | removed | modified
	Before []string `json:"before,omitempty"`
	After  []string `json:"after,omitempty"`
}

// ValidationResult is the outcome of a validate-changes diff.
type ValidationResult struct {
	Valid   bool           `json:"valid"`
	Summary DiffSummary    `json:"summary"`
	Details []ChangeDetail `json:"details"`
}

type DiffSummary struct {
	Added     int `json:"added"`
	Removed   int `json:"removed"`
	Modified  int `json:"modified"`
	Unchanged int `json:"unchanged"`
}

// ValidateChanges diffs a proposed week against the persisted one without
// touching the store, classifying each date as added, removed, modified, or
// unchanged. Callers use it to preview a pending save.
func (o *WeekOpService) ValidateChanges(providerID string, weekStart time.Time, current, saved WeekMap) (ValidationResult, error) {
	if err := checkWeekStart(weekStart); err != nil {
		return ValidationResult{}, err
	}
	for _, m := range []WeekMap{current, saved} {
		for key := range m {
			date, err := ParseDate(key)
			if err != nil {
				return ValidationResult{}, err
			}
			if date.Before(weekStart) || date.After(weekStart.AddDate(0, 0, 6)) {
				return ValidationResult{}, fmt.Errorf("%w: date %s is outside week starting %s",
					ErrValidation, key, weekStart.Format(dateLayout))
			}
		}
	}

	result := ValidationResult{Valid: true}
	for i := 0; i < 7; i++ {
		key := weekStart.AddDate(0, 0, i).Format(dateLayout)
		before := current[key]
		after := saved[key]
		switch {
		case len(before) == 0 && len(after) == 0:
			result.Summary.Unchanged++
		case len(before) == 0:
			result.Summary.Added++
			result.Details = append(result.Details, ChangeDetail{Date: key, Change: "added", After: windowStrings(after)})
		case len(after) == 0:
			result.Summary.Removed++
			result.Details = append(result.Details, ChangeDetail{Date: key, Change: "removed", Before: windowStrings(before)})
		case windowsEqual(before, after):
			result.Summary.Unchanged++
		default:
			result.Summary.Modified++
			result.Details = append(result.Details, ChangeDetail{
				Date: key, Change: "modified",
				Before: windowStrings(before), After: windowStrings(after),
			})
		}
	}
	return result, nil
}

// mergeWindows applies the containment merge of source windows into existing
// ones. Returned windows are sorted by start; created counts source windows
// that were actually added (subsuming windows count once no matter how many
// fragments they replace).
func mergeWindows(existing, source []bitset.Window) ([]bitset.Window, int) {
	result := make([]bitset.Window, len(existing))
	copy(result, existing)

	created := 0
	for _, src := range source {
		contained := false
		for _, e := range result {
			if e.Start <= src.Start && src.End <= e.End {
				contained = true
				break
			}
		}
		if contained {
			continue
		}

		// Drop existing windows fully inside the source: they are superseded
		// by the single larger window.
		kept := result[:0]
		for _, e := range result {
			if src.Start <= e.Start && e.End <= src.End {
				continue
			}
			kept = append(kept, e)
		}
		result = append(kept, src)
		created++
	}

	sort.Slice(result, func(i, j int) bool { return result[i].Start < result[j].Start })
	return result, created
}

func windowStrings(windows []bitset.Window) []string {
	out := make([]string, 0, len(windows))
	for _, w := range windows {
		out = append(out, w.StartString()+"-"+w.EndString())
	}
	return out
}
