package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/md-rashed-zaman/openhours/services/availability-service/internal/bitset"
	"github.com/md-rashed-zaman/openhours/services/availability-service/internal/schedule"
	"github.com/md-rashed-zaman/openhours/services/availability-service/internal/storage"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type fakeStore struct {
	days map[string]map[string]bitset.Bitmap
}

func newFakeStore() *fakeStore {
	return &fakeStore{days: make(map[string]map[string]bitset.Bitmap)}
}

func (f *fakeStore) GetWeek(_ context.Context, providerID string, weekStart time.Time) (map[string]bitset.Bitmap, error) {
	out := make(map[string]bitset.Bitmap)
	end := weekStart.AddDate(0, 0, 6)
	for key, bm := range f.days[providerID] {
		d, _ := time.ParseInLocation("2006-01-02", key, time.UTC)
		if !d.Before(weekStart) && !d.After(end) {
			out[key] = bm
		}
	}
	return out, nil
}

func (f *fakeStore) GetDaysInRange(_ context.Context, providerID string, start, end time.Time) ([]storage.DayBits, error) {
	var out []storage.DayBits
	for key, bm := range f.days[providerID] {
		d, _ := time.ParseInLocation("2006-01-02", key, time.UTC)
		if !d.Before(start) && !d.After(end) {
			out = append(out, storage.DayBits{Day: d, Bits: bm})
		}
	}
	return out, nil
}

func (f *fakeStore) UpsertWeek(_ context.Context, providerID string, items []storage.DayBits) (int64, error) {
	if f.days[providerID] == nil {
		f.days[providerID] = make(map[string]bitset.Bitmap)
	}
	for _, item := range items {
		f.days[providerID][item.Day.Format("2006-01-02")] = item.Bits
	}
	return int64(len(items)), nil
}

func newHandler() (*AvailabilityHandler, *fakeStore) {
	store := newFakeStore()
	svc := schedule.NewService(store, nil, testLogger)
	ops := schedule.NewWeekOpService(svc, store, testLogger)
	return NewAvailabilityHandler(svc, ops, nil, nil, testLogger), store
}

func doJSON(t *testing.T, handler http.HandlerFunc, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, target, reader)
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestSaveThenGetWeek(t *testing.T) {
	h, _ := newHandler()

	save := doJSON(t, h.SaveWeek, http.MethodPut, "/v1/availability/week", saveWeekRequest{
		ProviderID: "prov-1",
		WeekStart:  "2026-03-02",
		Entries: []entryItem{
			{Date: "2026-03-02", StartTime: "09:00:00", EndTime: "12:00:00"},
			{Date: "2026-03-02", StartTime: "13:00:00", EndTime: "17:00:00"},
		},
	})
	if save.Code != http.StatusOK {
		t.Fatalf("save status = %d, body %s", save.Code, save.Body.String())
	}

	get := doJSON(t, h.GetWeek, http.MethodGet, "/v1/availability/week?provider_id=prov-1&week_start=2026-03-02", nil)
	if get.Code != http.StatusOK {
		t.Fatalf("get status = %d, body %s", get.Code, get.Body.String())
	}
	var resp weekResponse
	if err := json.Unmarshal(get.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	windows := resp.Days["2026-03-02"]
	if len(windows) != 2 {
		t.Fatalf("windows = %+v, want 2", windows)
	}
	if windows[0].StartTime != "09:00:00" || windows[0].EndTime != "12:00:00" {
		t.Errorf("first window = %+v", windows[0])
	}
	if windows[1].StartTime != "13:00:00" || windows[1].EndTime != "17:00:00" {
		t.Errorf("second window = %+v", windows[1])
	}
	if len(resp.Days) != 1 {
		t.Errorf("days = %v, want only the Monday", resp.Days)
	}
}

func TestSaveWeek_OvernightEntrySplits(t *testing.T) {
	h, _ := newHandler()

	save := doJSON(t, h.SaveWeek, http.MethodPut, "/v1/availability/week", saveWeekRequest{
		ProviderID: "prov-1",
		WeekStart:  "2026-03-02",
		Entries: []entryItem{
			{Date: "2026-03-02", StartTime: "22:00:00", EndTime: "01:00:00"},
		},
	})
	if save.Code != http.StatusOK {
		t.Fatalf("save status = %d, body %s", save.Code, save.Body.String())
	}
	var resp weekResponse
	if err := json.Unmarshal(save.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	mon := resp.Days["2026-03-02"]
	if len(mon) != 1 || mon[0].StartTime != "22:00:00" || mon[0].EndTime != "24:00:00" {
		t.Errorf("monday = %+v", mon)
	}
	tue := resp.Days["2026-03-03"]
	if len(tue) != 1 || tue[0].StartTime != "00:00:00" || tue[0].EndTime != "01:00:00" {
		t.Errorf("tuesday = %+v", tue)
	}
}

func TestSaveWeek_Rejections(t *testing.T) {
	h, _ := newHandler()

	cases := []struct {
		name string
		req  saveWeekRequest
	}{
		{"non-monday week start", saveWeekRequest{
			ProviderID: "prov-1", WeekStart: "2026-03-03",
			Entries: []entryItem{{Date: "2026-03-03", StartTime: "09:00:00", EndTime: "10:00:00"}},
		}},
		{"missing provider", saveWeekRequest{
			WeekStart: "2026-03-02",
		}},
		{"misaligned start", saveWeekRequest{
			ProviderID: "prov-1", WeekStart: "2026-03-02",
			Entries: []entryItem{{Date: "2026-03-02", StartTime: "09:10:00", EndTime: "10:00:00"}},
		}},
		{"date outside week", saveWeekRequest{
			ProviderID: "prov-1", WeekStart: "2026-03-02",
			Entries: []entryItem{{Date: "2026-03-12", StartTime: "09:00:00", EndTime: "10:00:00"}},
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doJSON(t, h.SaveWeek, http.MethodPut, "/v1/availability/week", tc.req)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400 (body %s)", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestSaveWeek_InvalidJSON(t *testing.T) {
	h, _ := newHandler()
	req := httptest.NewRequest(http.MethodPut, "/v1/availability/week", strings.NewReader("{"))
	rec := httptest.NewRecorder()
	h.SaveWeek(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestGetWeek_MethodNotAllowed(t *testing.T) {
	h, _ := newHandler()
	rec := doJSON(t, h.GetWeek, http.MethodPost, "/v1/availability/week", nil)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
}

func TestCopyWeek(t *testing.T) {
	h, _ := newHandler()

	doJSON(t, h.SaveWeek, http.MethodPut, "/v1/availability/week", saveWeekRequest{
		ProviderID: "prov-1",
		WeekStart:  "2026-03-02",
		Entries: []entryItem{
			{Date: "2026-03-02", StartTime: "09:00:00", EndTime: "12:00:00"},
		},
	})

	copyRec := doJSON(t, h.CopyWeek, http.MethodPost, "/v1/availability/week/copy", copyWeekRequest{
		ProviderID:    "prov-1",
		FromWeekStart: "2026-03-02",
		ToWeekStart:   "2026-03-09",
	})
	if copyRec.Code != http.StatusOK {
		t.Fatalf("copy status = %d, body %s", copyRec.Code, copyRec.Body.String())
	}
	var copyResp copyWeekResponse
	if err := json.Unmarshal(copyRec.Body.Bytes(), &copyResp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if copyResp.WindowsCreated != 1 {
		t.Errorf("windows created = %d, want 1", copyResp.WindowsCreated)
	}

	get := doJSON(t, h.GetWeek, http.MethodGet, "/v1/availability/week?provider_id=prov-1&week_start=2026-03-09", nil)
	var resp weekResponse
	if err := json.Unmarshal(get.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	windows := resp.Days["2026-03-09"]
	if len(windows) != 1 || windows[0].StartTime != "09:00:00" {
		t.Errorf("target monday = %+v", windows)
	}
}

func TestCopyWeek_SameWeekRejected(t *testing.T) {
	h, _ := newHandler()
	rec := doJSON(t, h.CopyWeek, http.MethodPost, "/v1/availability/week/copy", copyWeekRequest{
		ProviderID:    "prov-1",
		FromWeekStart: "2026-03-02",
		ToWeekStart:   "2026-03-02",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestApplyRange(t *testing.T) {
	h, _ := newHandler()

	doJSON(t, h.SaveWeek, http.MethodPut, "/v1/availability/week", saveWeekRequest{
		ProviderID: "prov-1",
		WeekStart:  "2026-03-02",
		Entries: []entryItem{
			{Date: "2026-03-02", StartTime: "09:00:00", EndTime: "12:00:00"},
		},
	})

	rec := doJSON(t, h.ApplyRange, http.MethodPost, "/v1/availability/week/apply", applyRangeRequest{
		ProviderID:    "prov-1",
		FromWeekStart: "2026-03-02",
		StartDate:     "2026-03-09",
		EndDate:       "2026-03-22",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var summary schedule.ApplySummary
	if err := json.Unmarshal(rec.Body.Bytes(), &summary); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if summary.DaysWritten != 2 || summary.WindowsCreated != 2 {
		t.Errorf("summary = %+v, want 2 mondays written", summary)
	}
}

func TestApplyRange_ReversedRejected(t *testing.T) {
	h, _ := newHandler()
	rec := doJSON(t, h.ApplyRange, http.MethodPost, "/v1/availability/week/apply", applyRangeRequest{
		ProviderID:    "prov-1",
		FromWeekStart: "2026-03-02",
		StartDate:     "2026-03-22",
		EndDate:       "2026-03-09",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestValidateChanges(t *testing.T) {
	h, _ := newHandler()

	rec := doJSON(t, h.ValidateChanges, http.MethodPost, "/v1/availability/week/validate", validateRequest{
		ProviderID: "prov-1",
		WeekStart:  "2026-03-02",
		Current: map[string][]windowItem{
			"2026-03-02": {{StartTime: "09:00:00", EndTime: "12:00:00"}},
			"2026-03-03": {{StartTime: "09:00:00", EndTime: "12:00:00"}},
		},
		Proposed: map[string][]windowItem{
			"2026-03-02": {{StartTime: "09:00:00", EndTime: "13:00:00"}},
			"2026-03-04": {{StartTime: "10:00:00", EndTime: "11:00:00"}},
		},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var result schedule.ValidationResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !result.Valid {
		t.Error("result should be valid")
	}
	if result.Summary.Modified != 1 || result.Summary.Removed != 1 || result.Summary.Added != 1 || result.Summary.Unchanged != 4 {
		t.Errorf("summary = %+v", result.Summary)
	}
}

func TestValidateChanges_OutOfWeekDateRejected(t *testing.T) {
	h, _ := newHandler()
	rec := doJSON(t, h.ValidateChanges, http.MethodPost, "/v1/availability/week/validate", validateRequest{
		ProviderID: "prov-1",
		WeekStart:  "2026-03-02",
		Proposed: map[string][]windowItem{
			"2026-03-12": {{StartTime: "09:00:00", EndTime: "10:00:00"}},
		},
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestDeleteProviderDays_MissingProviderRejected(t *testing.T) {
	h, _ := newHandler()
	rec := doJSON(t, h.DeleteProviderDays, http.MethodPost, "/v1/availability/provider/cleanup", cleanupRequest{})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
