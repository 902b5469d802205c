package outbox

import (
	"encoding/json"
	"time"
)

// Topic per event type. Payloads are versioned independently of the table.
const (
	EventWeekSaved  = "availability.week.saved.v1"
	EventWeekCopied = "availability.week.copied.v1"
	EventDaysPurged = "availability.days.purged.v1"
)

const aggregateProvider = "provider"

// Event is the envelope written to the outbox table. The Kafka topic name
// equals EventType.
type Event struct {
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       []byte
}

const dateLayout = "2006-01-02"

type weekSavedPayload struct {
	ProviderID string `json:"provider_id"`
	WeekStart  string `json:"week_start"`
	DaysSaved  int    `json:"days_saved"`
	SavedAt    string `json:"saved_at"`
}

func WeekSaved(providerID string, weekStart time.Time, daysSaved int) Event {
	payload, _ := json.Marshal(weekSavedPayload{
		ProviderID: providerID,
		WeekStart:  weekStart.Format(dateLayout),
		DaysSaved:  daysSaved,
		SavedAt:    time.Now().UTC().Format(time.RFC3339),
	})
	return Event{
		AggregateType: aggregateProvider,
		AggregateID:   providerID,
		EventType:     EventWeekSaved,
		Payload:       payload,
	}
}

type weekCopiedPayload struct {
	ProviderID     string `json:"provider_id"`
	FromWeekStart  string `json:"from_week_start"`
	ToWeekStart    string `json:"to_week_start"`
	WindowsCreated int    `json:"windows_created"`
}

func WeekCopied(providerID string, from, to time.Time, created int) Event {
	payload, _ := json.Marshal(weekCopiedPayload{
		ProviderID:     providerID,
		FromWeekStart:  from.Format(dateLayout),
		ToWeekStart:    to.Format(dateLayout),
		WindowsCreated: created,
	})
	return Event{
		AggregateType: aggregateProvider,
		AggregateID:   providerID,
		EventType:     EventWeekCopied,
		Payload:       payload,
	}
}

type daysPurgedPayload struct {
	Cutoff     string `json:"cutoff"`
	PurgedDays int64  `json:"purged_days"`
	SiteMode   string `json:"site_mode"`
}

func DaysPurged(cutoff time.Time, purged int64, siteMode string) Event {
	payload, _ := json.Marshal(daysPurgedPayload{
		Cutoff:     cutoff.Format(dateLayout),
		PurgedDays: purged,
		SiteMode:   siteMode,
	})
	return Event{
		AggregateType: "retention",
		AggregateID:   siteMode,
		EventType:     EventDaysPurged,
		Payload:       payload,
	}
}
