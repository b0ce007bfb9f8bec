package dto

import (
	"encoding/json"
	"time"

	"meetquorum/modules/availability/entity"
	threadEntity "meetquorum/modules/thread/entity"
)

// CreateThreadRequest starts a scheduling thread.
type CreateThreadRequest struct {
	Title           string          `json:"title"`
	DurationMinutes int             `json:"duration_minutes"`
	Timezone        string          `json:"timezone"`
	WindowStart     time.Time       `json:"window_start"`
	WindowEnd       time.Time       `json:"window_end"`
	Participants    []string        `json:"participants"`
	Rule            json.RawMessage `json:"rule,omitempty"`
}

// ThreadResponse is the full thread view: roster plus current candidate
// snapshot.
type ThreadResponse struct {
	Thread       threadEntity.Thread              `json:"thread"`
	Participants []threadEntity.ThreadParticipant `json:"participants"`
	Slots        []threadEntity.ThreadSlot        `json:"slots,omitempty"`
}

// ComputeSlotsResponse is the persisted outcome of one availability run.
type ComputeSlotsResponse struct {
	Slots        []threadEntity.ThreadSlot        `json:"slots"`
	Availability []entity.ParticipantAvailability `json:"availability"`
	Stats        entity.CoverageStats             `json:"stats"`
}

// SubmitSelectionRequest records one participant's response.
type SubmitSelectionRequest struct {
	ParticipantKey string `json:"participant_key"`
	SlotID         string `json:"slot_id,omitempty"`
	Status         string `json:"status"` // selected | declined
}

// DecisionResponse reports the thread's decision state. When Finalized is
// false, Reason explains what is still missing.
type DecisionResponse struct {
	Finalized    bool     `json:"finalized"`
	SlotID       string   `json:"slot_id,omitempty"`
	Participants []string `json:"participants,omitempty"`
	DecidedBy    string   `json:"decided_by,omitempty"`
	Reason       string   `json:"reason"`
}

// SetRuleRequest replaces the thread's attendance rule document.
type SetRuleRequest struct {
	Rule json.RawMessage `json:"rule"`
}
