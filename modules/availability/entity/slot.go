package entity

import "time"

// CandidateSlot is a fixed-duration meeting window fully contained in a free
// interval, aligned to the generation grid.
type CandidateSlot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Label string    `json:"label"`
}

// ScoreReason explains one contribution to a slot's total score. Source is a
// participant key, or ReasonSourceRecency for the global tie-break.
type ScoreReason struct {
	Source string  `json:"source"`
	Label  string  `json:"label"`
	Delta  float64 `json:"delta"`
}

// ReasonSourceRecency is the sentinel source for the hours-until-slot
// tie-break contribution.
const ReasonSourceRecency = "recency"

// ScoredSlot is a candidate slot with its total score and the ordered reason
// list that produced it.
type ScoredSlot struct {
	Slot    CandidateSlot `json:"slot"`
	Score   float64       `json:"score"`
	Reasons []ScoreReason `json:"reasons"`
}

// CoverageStats summarizes how much of the window was free and how many
// participants were excluded from the computation.
type CoverageStats struct {
	TotalFreeMinutes     int    `json:"total_free_minutes"`
	ExcludedParticipants int    `json:"excluded_participants"`
	TotalParticipants    int    `json:"total_participants"`
	Warning              string `json:"warning,omitempty"`
}
