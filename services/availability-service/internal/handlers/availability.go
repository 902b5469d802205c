package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/md-rashed-zaman/openhours/services/availability-service/internal/bitset"
	"github.com/md-rashed-zaman/openhours/services/availability-service/internal/outbox"
	"github.com/md-rashed-zaman/openhours/services/availability-service/internal/schedule"
	"github.com/md-rashed-zaman/openhours/services/availability-service/internal/storage"
)

const dateLayout = "2006-01-02"

// AvailabilityHandler exposes the week read/write and week operation surfaces.
// The events repository is nil-able so tests and brokerless deployments can
// run without one.
type AvailabilityHandler struct {
	svc    *schedule.Service
	ops    *schedule.WeekOpService
	repo   *storage.DayRepository
	events *outbox.Repository
	logger *slog.Logger
}

func NewAvailabilityHandler(svc *schedule.Service, ops *schedule.WeekOpService, repo *storage.DayRepository, events *outbox.Repository, logger *slog.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{svc: svc, ops: ops, repo: repo, events: events, logger: logger}
}

type windowItem struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type weekResponse struct {
	ProviderID string                  `json:"provider_id"`
	WeekStart  string                  `json:"week_start"`
	Days       map[string][]windowItem `json:"days"`
}

type saveWeekRequest struct {
	ProviderID    string      `json:"provider_id"`
	WeekStart     string      `json:"week_start"`
	ClearExisting bool        `json:"clear_existing"`
	Entries       []entryItem `json:"entries"`
}

type entryItem struct {
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type copyWeekRequest struct {
	ProviderID    string `json:"provider_id"`
	FromWeekStart string `json:"from_week_start"`
	ToWeekStart   string `json:"to_week_start"`
}

type copyWeekResponse struct {
	WindowsCreated int `json:"windows_created"`
}

type applyRangeRequest struct {
	ProviderID    string `json:"provider_id"`
	FromWeekStart string `json:"from_week_start"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
}

type validateRequest struct {
	ProviderID string                  `json:"provider_id"`
	WeekStart  string                  `json:"week_start"`
	Current    map[string][]windowItem `json:"current"`
	Proposed   map[string][]windowItem `json:"proposed"`
}

type purgeRequest struct {
	DryRun bool `json:"dry_run"`
}

type cleanupRequest struct {
	ProviderID   string   `json:"provider_id"`
	ExcludeDates []string `json:"exclude_dates"`
}

type cleanupResponse struct {
	DeletedDays int64 `json:"deleted_days"`
}

type dayResponse struct {
	ProviderID string       `json:"provider_id"`
	Date       string       `json:"date"`
	Windows    []windowItem `json:"windows"`
}

// GetDay serves GET /v1/availability/day: the decoded windows of one date.
// An absent row reads as an empty list.
func (h *AvailabilityHandler) GetDay(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	providerID := strings.TrimSpace(r.URL.Query().Get("provider_id"))
	dateStr := strings.TrimSpace(r.URL.Query().Get("date"))
	if providerID == "" || dateStr == "" {
		http.Error(w, "provider_id and date required", http.StatusBadRequest)
		return
	}
	date, err := schedule.ParseDate(dateStr)
	if err != nil {
		http.Error(w, "invalid date", http.StatusBadRequest)
		return
	}

	items := []windowItem{}
	bm, found, err := h.repo.GetDayBits(r.Context(), providerID, date)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if found {
		for _, win := range bitset.Decode(bm) {
			items = append(items, windowItem{StartTime: win.StartString(), EndTime: win.EndString()})
		}
	}
	writeJSON(w, http.StatusOK, dayResponse{ProviderID: providerID, Date: dateStr, Windows: items})
}

// GetWeek serves GET /v1/availability/week.
func (h *AvailabilityHandler) GetWeek(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	providerID := strings.TrimSpace(r.URL.Query().Get("provider_id"))
	weekStartStr := strings.TrimSpace(r.URL.Query().Get("week_start"))
	if providerID == "" || weekStartStr == "" {
		http.Error(w, "provider_id and week_start required", http.StatusBadRequest)
		return
	}
	weekStart, err := schedule.ParseDate(weekStartStr)
	if err != nil {
		http.Error(w, "invalid week_start", http.StatusBadRequest)
		return
	}
	includeEmpty := r.URL.Query().Get("include_empty") == "true"

	week, err := h.svc.GetWeekAvailability(r.Context(), providerID, weekStart, includeEmpty)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeWeek(w, providerID, weekStart, week)
}

// SaveWeek serves PUT /v1/availability/week and responds with the persisted
// state re-read from the store.
func (h *AvailabilityHandler) SaveWeek(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut && r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req saveWeekRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.ProviderID = strings.TrimSpace(req.ProviderID)
	if req.ProviderID == "" {
		http.Error(w, "provider_id required", http.StatusBadRequest)
		return
	}
	weekStart, err := schedule.ParseDate(strings.TrimSpace(req.WeekStart))
	if err != nil {
		http.Error(w, "invalid week_start", http.StatusBadRequest)
		return
	}

	entries := make([]schedule.Entry, 0, len(req.Entries))
	for _, item := range req.Entries {
		e, err := parseEntry(item)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		entries = append(entries, e)
	}

	week, err := h.svc.SaveWeekAvailability(r.Context(), req.ProviderID, entries, req.ClearExisting, weekStart)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if h.events != nil {
		evt := outbox.WeekSaved(req.ProviderID, weekStart, len(week))
		if err := h.events.Insert(r.Context(), evt); err != nil {
			h.logger.Error("failed to record week saved event", "err", err)
		}
	}
	h.writeWeek(w, req.ProviderID, weekStart, week)
}

// CopyWeek serves POST /v1/availability/week/copy.
func (h *AvailabilityHandler) CopyWeek(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req copyWeekRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.ProviderID = strings.TrimSpace(req.ProviderID)
	if req.ProviderID == "" {
		http.Error(w, "provider_id required", http.StatusBadRequest)
		return
	}
	from, err := schedule.ParseDate(strings.TrimSpace(req.FromWeekStart))
	if err != nil {
		http.Error(w, "invalid from_week_start", http.StatusBadRequest)
		return
	}
	to, err := schedule.ParseDate(strings.TrimSpace(req.ToWeekStart))
	if err != nil {
		http.Error(w, "invalid to_week_start", http.StatusBadRequest)
		return
	}

	created, err := h.ops.CopyWeekAvailability(r.Context(), req.ProviderID, from, to)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if h.events != nil && created > 0 {
		evt := outbox.WeekCopied(req.ProviderID, from, to, created)
		if err := h.events.Insert(r.Context(), evt); err != nil {
			h.logger.Error("failed to record week copied event", "err", err)
		}
	}
	writeJSON(w, http.StatusOK, copyWeekResponse{WindowsCreated: created})
}

// ApplyRange serves POST /v1/availability/week/apply.
func (h *AvailabilityHandler) ApplyRange(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req applyRangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.ProviderID = strings.TrimSpace(req.ProviderID)
	if req.ProviderID == "" {
		http.Error(w, "provider_id required", http.StatusBadRequest)
		return
	}
	from, err := schedule.ParseDate(strings.TrimSpace(req.FromWeekStart))
	if err != nil {
		http.Error(w, "invalid from_week_start", http.StatusBadRequest)
		return
	}
	start, err := schedule.ParseDate(strings.TrimSpace(req.StartDate))
	if err != nil {
		http.Error(w, "invalid start_date", http.StatusBadRequest)
		return
	}
	end, err := schedule.ParseDate(strings.TrimSpace(req.EndDate))
	if err != nil {
		http.Error(w, "invalid end_date", http.StatusBadRequest)
		return
	}

	summary, err := h.ops.ApplyToDateRange(r.Context(), req.ProviderID, from, start, end)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// ValidateChanges serves POST /v1/availability/week/validate. It is a pure
// diff: nothing is written.
func (h *AvailabilityHandler) ValidateChanges(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req validateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.ProviderID = strings.TrimSpace(req.ProviderID)
	if req.ProviderID == "" {
		http.Error(w, "provider_id required", http.StatusBadRequest)
		return
	}
	weekStart, err := schedule.ParseDate(strings.TrimSpace(req.WeekStart))
	if err != nil {
		http.Error(w, "invalid week_start", http.StatusBadRequest)
		return
	}

	current, err := parseWeekMap(req.Current)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	proposed, err := parseWeekMap(req.Proposed)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.ops.ValidateChanges(req.ProviderID, weekStart, current, proposed)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// DeleteProviderDays serves POST /v1/availability/provider/cleanup: remove a
// provider's rows, optionally preserving named dates.
func (h *AvailabilityHandler) DeleteProviderDays(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost && r.Method != http.MethodDelete {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req cleanupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.ProviderID = strings.TrimSpace(req.ProviderID)
	if req.ProviderID == "" {
		http.Error(w, "provider_id required", http.StatusBadRequest)
		return
	}
	exclude := make([]time.Time, 0, len(req.ExcludeDates))
	for _, s := range req.ExcludeDates {
		d, err := schedule.ParseDate(strings.TrimSpace(s))
		if err != nil {
			http.Error(w, "invalid exclude date: "+s, http.StatusBadRequest)
			return
		}
		exclude = append(exclude, d)
	}

	deleted, err := h.repo.DeleteDaysForProvider(r.Context(), req.ProviderID, exclude)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cleanupResponse{DeletedDays: deleted})
}

func (h *AvailabilityHandler) writeWeek(w http.ResponseWriter, providerID string, weekStart time.Time, week schedule.WeekMap) {
	days := make(map[string][]windowItem, len(week))
	for date, windows := range week {
		items := make([]windowItem, 0, len(windows))
		for _, win := range windows {
			items = append(items, windowItem{StartTime: win.StartString(), EndTime: win.EndString()})
		}
		days[date] = items
	}
	writeJSON(w, http.StatusOK, weekResponse{
		ProviderID: providerID,
		WeekStart:  weekStart.Format(dateLayout),
		Days:       days,
	})
}

func (h *AvailabilityHandler) writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, schedule.ErrValidation) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if storage.IsStoreError(err) {
		h.logger.Error("availability store failure", "err", err)
	} else {
		h.logger.Error("availability request failed", "err", err)
	}
	http.Error(w, "internal error", http.StatusInternalServerError)
}

func parseEntry(item entryItem) (schedule.Entry, error) {
	date, err := schedule.ParseDate(strings.TrimSpace(item.Date))
	if err != nil {
		return schedule.Entry{}, err
	}
	start, err := bitset.ParseClock(strings.TrimSpace(item.StartTime))
	if err != nil {
		return schedule.Entry{}, err
	}
	end, err := bitset.ParseClock(strings.TrimSpace(item.EndTime))
	if err != nil {
		return schedule.Entry{}, err
	}
	return schedule.Entry{Date: date, Start: start, End: end}, nil
}

func parseWeekMap(in map[string][]windowItem) (schedule.WeekMap, error) {
	out := make(schedule.WeekMap, len(in))
	for date, items := range in {
		windows := make([]bitset.Window, 0, len(items))
		for _, item := range items {
			start, err := bitset.ParseClock(strings.TrimSpace(item.StartTime))
			if err != nil {
				return nil, err
			}
			end, err := bitset.ParseClock(strings.TrimSpace(item.EndTime))
			if err != nil {
				return nil, err
			}
			windows = append(windows, bitset.Window{Start: start, End: end})
		}
		out[date] = windows
	}
	return out, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "failed to build response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
