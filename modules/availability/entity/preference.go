package entity

import "time"

// PreferenceRule is one named availability window for a participant.
// Weight > 0 marks a preferred window; weight < 0 marks a window to avoid.
// An empty DaysOfWeek matches every day. StartMinute/EndMinute are local
// minutes since midnight, half-open [StartMinute, EndMinute).
type PreferenceRule struct {
	Label       string         `json:"label"`
	DaysOfWeek  []time.Weekday `json:"days_of_week,omitempty"`
	StartMinute int            `json:"start_minute"`
	EndMinute   int            `json:"end_minute"`
	Weight      float64        `json:"weight"`
}

// Matches reports whether the rule applies to a slot starting at the given
// local time.
func (r PreferenceRule) Matches(localStart time.Time) bool {
	if len(r.DaysOfWeek) > 0 {
		found := false
		for _, d := range r.DaysOfWeek {
			if d == localStart.Weekday() {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	minute := localStart.Hour()*60 + localStart.Minute()
	return minute >= r.StartMinute && minute < r.EndMinute
}
