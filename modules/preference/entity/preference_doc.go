package entity

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	availability "meetquorum/modules/availability/entity"
)

// DocVersion is the current wire version for stored preference documents.
const DocVersion = 1

// PreferenceWindow is one window in a stored preference document. Start and
// End are local wall-clock times in "HH:MM" form; DaysOfWeek uses lowercase
// three-letter day names and an empty list means every day.
type PreferenceWindow struct {
	Label      string   `json:"label"`
	DaysOfWeek []string `json:"days_of_week,omitempty"`
	Start      string   `json:"start"`
	End        string   `json:"end"`
	Weight     float64  `json:"weight"`
}

// PreferenceDoc is the persisted per-participant preference schema. Windows
// in Avoid are normalized to negative weight when parsed, whatever sign the
// author wrote.
type PreferenceDoc struct {
	Version int                `json:"version"`
	Prefer  []PreferenceWindow `json:"prefer,omitempty"`
	Avoid   []PreferenceWindow `json:"avoid,omitempty"`
}

var dayNames = map[string]time.Weekday{
	"sun": time.Sunday,
	"mon": time.Monday,
	"tue": time.Tuesday,
	"wed": time.Wednesday,
	"thu": time.Thursday,
	"fri": time.Friday,
	"sat": time.Saturday,
}

// ParseDoc validates a raw preference document and converts it into scoring
// rules. Any structural problem fails the whole document: a malformed
// document must degrade to neutral scoring, never to a partial read.
func ParseDoc(data []byte) ([]availability.PreferenceRule, error) {
	var doc PreferenceDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("malformed preference document: %w", err)
	}
	if doc.Version == 0 {
		doc.Version = 1
	}
	if doc.Version > DocVersion {
		return nil, fmt.Errorf("unsupported preference document version %d", doc.Version)
	}

	var rules []availability.PreferenceRule
	for _, w := range doc.Prefer {
		rule, err := w.toRule(false)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	for _, w := range doc.Avoid {
		rule, err := w.toRule(true)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

func (w PreferenceWindow) toRule(avoid bool) (availability.PreferenceRule, error) {
	start, err := parseMinute(w.Start)
	if err != nil {
		return availability.PreferenceRule{}, fmt.Errorf("window %q: %w", w.Label, err)
	}
	end, err := parseMinute(w.End)
	if err != nil {
		return availability.PreferenceRule{}, fmt.Errorf("window %q: %w", w.Label, err)
	}
	if start >= end {
		return availability.PreferenceRule{}, fmt.Errorf("window %q: start %s is not before end %s", w.Label, w.Start, w.End)
	}
	if w.Weight == 0 {
		return availability.PreferenceRule{}, fmt.Errorf("window %q: weight must be non-zero", w.Label)
	}

	var days []time.Weekday
	for _, name := range w.DaysOfWeek {
		day, ok := dayNames[strings.ToLower(name)]
		if !ok {
			return availability.PreferenceRule{}, fmt.Errorf("window %q: unknown day %q", w.Label, name)
		}
		days = append(days, day)
	}

	weight := w.Weight
	if avoid && weight > 0 {
		weight = -weight
	}

	return availability.PreferenceRule{
		Label:       w.Label,
		DaysOfWeek:  days,
		StartMinute: start,
		EndMinute:   end,
		Weight:      weight,
	}, nil
}

// parseMinute converts "HH:MM" into minutes since midnight.
func parseMinute(clock string) (int, error) {
	parsed, err := time.Parse("15:04", clock)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q", clock)
	}
	return parsed.Hour()*60 + parsed.Minute(), nil
}
