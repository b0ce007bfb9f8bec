package dto

import "time"

// ComputeSlotsRequest is the ad-hoc availability query: no thread involved,
// nothing persisted.
type ComputeSlotsRequest struct {
	Participants    []string  `json:"participants"`
	TimeMin         time.Time `json:"time_min"`
	TimeMax         time.Time `json:"time_max"`
	DurationMinutes int       `json:"duration_minutes"`
	GridStepMinutes int       `json:"grid_step_minutes,omitempty"`
	DayWindowStart  *int      `json:"day_window_start,omitempty"`
	DayWindowEnd    *int      `json:"day_window_end,omitempty"`
	MaxResults      int       `json:"max_results,omitempty"`
	Timezone        string    `json:"timezone,omitempty"`
}
