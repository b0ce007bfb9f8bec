package entity

import "time"

// BusyInterval is a half-open time range [Start, End) during which a
// participant is unavailable. Always Start < End.
type BusyInterval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// FreeInterval is the complement of merged busy time within a query window.
// Derived, never stored.
type FreeInterval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (i BusyInterval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

func (i FreeInterval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

// AvailabilityStatus reports how a participant's calendar data was resolved.
type AvailabilityStatus string

const (
	AvailabilityResolved AvailabilityStatus = "resolved"
	AvailabilityUnlinked AvailabilityStatus = "unlinked"
	AvailabilityError    AvailabilityStatus = "error"
)

// ParticipantAvailability is one participant's busy data for a queried
// window. Participants whose data could not be fetched are reported with a
// non-resolved status, never silently dropped.
type ParticipantAvailability struct {
	ParticipantKey string             `json:"participant_key"`
	Status         AvailabilityStatus `json:"status"`
	Busy           []BusyInterval     `json:"busy,omitempty"`
}
