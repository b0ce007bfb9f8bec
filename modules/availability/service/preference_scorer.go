package service

import (
	"math"
	"sort"
	"time"

	"meetquorum/modules/availability/entity"
)

const (
	// recencyWeight is the per-hour penalty of the global tie-break: among
	// equally-preferred options the soonest slot wins deterministically.
	recencyWeight = 0.001
	// pastSlotPenalty is applied to slots whose start is already in the
	// past. They are penalized, not hidden; callers decide whether to drop
	// them.
	pastSlotPenalty = -1000.0
)

// PreferenceScorer scores candidate slots against per-participant preference
// rules. It is pure: identical inputs always produce identical ordering and
// identical reason lists.
type PreferenceScorer struct {
	// Now anchors the recency tie-break; injectable for tests.
	Now func() time.Time
	// Location is the local timezone preference windows are expressed in.
	Location *time.Location
}

func NewPreferenceScorer(loc *time.Location) *PreferenceScorer {
	if loc == nil {
		loc = time.UTC
	}
	return &PreferenceScorer{Now: time.Now, Location: loc}
}

// Score evaluates every slot against every participant's rules and returns
// the slots sorted by score descending, ties broken by start ascending,
// truncated to maxResults. Participants with no rules contribute nothing.
func (s *PreferenceScorer) Score(slots []entity.CandidateSlot, prefs map[string][]entity.PreferenceRule, maxResults int) []entity.ScoredSlot {
	now := s.Now()

	// Participants are visited in sorted key order so reason lists are
	// reproducible across calls.
	keys := make([]string, 0, len(prefs))
	for k := range prefs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	scored := make([]entity.ScoredSlot, 0, len(slots))
	for _, slot := range slots {
		localStart := slot.Start.In(s.Location)

		total := 0.0
		var reasons []entity.ScoreReason
		for _, key := range keys {
			for _, rule := range prefs[key] {
				if !rule.Matches(localStart) {
					continue
				}
				delta := rule.Weight
				if delta < 0 {
					delta = -math.Abs(rule.Weight)
				}
				total += delta
				reasons = append(reasons, entity.ScoreReason{
					Source: key,
					Label:  rule.Label,
					Delta:  delta,
				})
			}
		}

		// Recency tie-break: strictly negative, proportional to
		// hours-until-start, so sooner slots rank ahead of later ones at
		// equal preference.
		hoursUntil := slot.Start.Sub(now).Hours()
		var tieBreak float64
		var tieLabel string
		if hoursUntil < 0 {
			tieBreak = pastSlotPenalty
			tieLabel = "slot start already passed"
		} else {
			tieBreak = -hoursUntil * recencyWeight
			tieLabel = "sooner is better"
		}
		total += tieBreak
		reasons = append(reasons, entity.ScoreReason{
			Source: entity.ReasonSourceRecency,
			Label:  tieLabel,
			Delta:  tieBreak,
		})

		scored = append(scored, entity.ScoredSlot{
			Slot:    slot,
			Score:   total,
			Reasons: reasons,
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Slot.Start.Before(scored[j].Slot.Start)
	})

	if maxResults > 0 && len(scored) > maxResults {
		scored = scored[:maxResults]
	}
	return scored
}
