package service

import (
	"fmt"
	"sort"
	"strings"

	"meetquorum/modules/decision/entity"
)

// EvalResult is the outcome of evaluating an attendance rule against the
// current selections. When Finalized is false, Reason always explains what
// is still missing.
type EvalResult struct {
	Finalized    bool     `json:"finalized"`
	SlotID       string   `json:"slot_id,omitempty"`
	Participants []string `json:"participants,omitempty"`
	Reason       string   `json:"reason"`
}

// RuleEngine evaluates attendance rules. It is stateless and side-effect
// free: results are recomputed from the selection rows on every call.
//
// Ordering contract: whenever more than one slot could satisfy a rule, the
// slot with the earliest start time wins. This is user-observable behavior,
// not an implementation accident.
//
// A participant key may appear in more than one rule category (e.g. in
// required and inside a GROUP_ANY group); the evaluator intentionally does
// not deduplicate across categories.
type RuleEngine struct{}

// Evaluate partitions the selected rows by slot and dispatches on the rule
// variant. Declined, expired, and pending selections never count. Selections
// referencing unknown slots or participant keys outside the rule's pools are
// treated as "not yet satisfied", never as errors.
func (RuleEngine) Evaluate(rule entity.AttendanceRule, selections []entity.Selection, slots []entity.SlotRef) EvalResult {
	ordered := chronological(slots)
	bySlot := partitionSelected(selections, ordered)

	switch r := rule.(type) {
	case entity.AnyRule:
		return evalAny(ordered, bySlot)
	case entity.AllRule:
		return evalAll(r, ordered, bySlot)
	case entity.KOfNRule:
		return evalKOfN(r, ordered, bySlot)
	case entity.RequiredPlusKRule:
		return evalRequiredPlusK(r, ordered, bySlot)
	case entity.GroupAnyRule:
		return evalGroupAny(r, ordered, bySlot)
	default:
		return EvalResult{Reason: fmt.Sprintf("unknown rule type %q", rule.Type())}
	}
}

// chronological returns slots sorted by start ascending, ID as a stable
// secondary key.
func chronological(slots []entity.SlotRef) []entity.SlotRef {
	ordered := make([]entity.SlotRef, len(slots))
	copy(ordered, slots)
	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].Start.Equal(ordered[j].Start) {
			return ordered[i].Start.Before(ordered[j].Start)
		}
		return ordered[i].ID < ordered[j].ID
	})
	return ordered
}

// partitionSelected groups the selecting participant keys by slot ID. Only
// status=selected rows with a slot that actually exists participate.
func partitionSelected(selections []entity.Selection, slots []entity.SlotRef) map[string][]string {
	known := make(map[string]bool, len(slots))
	for _, s := range slots {
		known[s.ID] = true
	}

	bySlot := make(map[string][]string)
	seen := make(map[string]bool)
	for _, sel := range selections {
		if sel.Status != entity.SelectionSelected || sel.SlotID == nil {
			continue
		}
		if !known[*sel.SlotID] {
			continue
		}
		// One logical row per participant per slot.
		dedupeKey := *sel.SlotID + "\x00" + sel.ParticipantKey
		if seen[dedupeKey] {
			continue
		}
		seen[dedupeKey] = true
		bySlot[*sel.SlotID] = append(bySlot[*sel.SlotID], sel.ParticipantKey)
	}
	for id := range bySlot {
		sort.Strings(bySlot[id])
	}
	return bySlot
}

func evalAny(slots []entity.SlotRef, bySlot map[string][]string) EvalResult {
	for _, slot := range slots {
		if group := bySlot[slot.ID]; len(group) > 0 {
			return EvalResult{
				Finalized:    true,
				SlotID:       slot.ID,
				Participants: group,
				Reason:       "first selection wins",
			}
		}
	}
	return EvalResult{Reason: "waiting for the first selection"}
}

func evalAll(rule entity.AllRule, slots []entity.SlotRef, bySlot map[string][]string) EvalResult {
	// An empty required set must never finalize a slot nobody agreed to.
	if len(rule.Participants) == 0 {
		return EvalResult{Reason: "no required participants"}
	}
	required := toSet(rule.Participants)

	// Track the closest slot for the reason message.
	bestMissing := rule.Participants
	bestExtra := 0
	for _, slot := range slots {
		group := bySlot[slot.ID]
		selected := toSet(group)

		missing := difference(required, selected)
		extra := len(difference(selected, required))
		if len(missing) == 0 && extra == 0 {
			return EvalResult{
				Finalized:    true,
				SlotID:       slot.ID,
				Participants: group,
				Reason:       "all required participants selected this slot",
			}
		}
		if len(missing) < len(bestMissing) {
			bestMissing = missing
			bestExtra = extra
		}
	}

	reason := fmt.Sprintf("waiting for %s", joinKeys(bestMissing))
	if len(bestMissing) == 0 && bestExtra > 0 {
		reason = "a slot has selections from outside the required set"
	}
	return EvalResult{Reason: reason}
}

func evalKOfN(rule entity.KOfNRule, slots []entity.SlotRef, bySlot map[string][]string) EvalResult {
	pool := toSet(rule.Participants)

	most := 0
	for _, slot := range slots {
		var fromPool []string
		for _, key := range bySlot[slot.ID] {
			if pool[key] {
				fromPool = append(fromPool, key)
			}
		}
		if len(fromPool) >= rule.K {
			return EvalResult{
				Finalized:    true,
				SlotID:       slot.ID,
				Participants: fromPool,
				Reason:       fmt.Sprintf("%d of %d participants selected this slot", len(fromPool), len(rule.Participants)),
			}
		}
		if len(fromPool) > most {
			most = len(fromPool)
		}
	}

	return EvalResult{
		Reason: fmt.Sprintf("waiting for %d of %d participants on a common slot (best so far: %d)",
			rule.K, len(rule.Participants), most),
	}
}

func evalRequiredPlusK(rule entity.RequiredPlusKRule, slots []entity.SlotRef, bySlot map[string][]string) EvalResult {
	required := toSet(rule.Required)
	optional := toSet(rule.Optional)

	bestMissing := rule.Required
	bestOptional := 0
	for _, slot := range slots {
		selected := toSet(bySlot[slot.ID])

		missing := difference(required, selected)
		var optionals []string
		for _, key := range bySlot[slot.ID] {
			if optional[key] {
				optionals = append(optionals, key)
			}
		}

		if len(missing) == 0 && len(optionals) >= rule.Quorum {
			participants := append([]string{}, rule.Required...)
			participants = append(participants, optionals...)
			sort.Strings(participants)
			return EvalResult{
				Finalized:    true,
				SlotID:       slot.ID,
				Participants: participants,
				Reason: fmt.Sprintf("all required present with %d of %d optional quorum",
					len(optionals), rule.Quorum),
			}
		}
		if len(missing) < len(bestMissing) || (len(missing) == len(bestMissing) && len(optionals) > bestOptional) {
			bestMissing = missing
			bestOptional = len(optionals)
		}
	}

	if len(bestMissing) > 0 {
		return EvalResult{Reason: fmt.Sprintf("waiting for required participant(s) %s", joinKeys(bestMissing))}
	}
	return EvalResult{Reason: fmt.Sprintf("waiting for optional quorum: have %d of %d", bestOptional, rule.Quorum)}
}

func evalGroupAny(rule entity.GroupAnyRule, slots []entity.SlotRef, bySlot map[string][]string) EvalResult {
	for _, slot := range slots {
		selected := toSet(bySlot[slot.ID])
		for _, group := range rule.Groups {
			var members []string
			for _, m := range group.Members {
				if selected[m] {
					members = append(members, m)
				}
			}
			if len(members) > 0 {
				sort.Strings(members)
				return EvalResult{
					Finalized:    true,
					SlotID:       slot.ID,
					Participants: members,
					Reason:       fmt.Sprintf("member of group %s selected this slot", group.ID),
				}
			}
		}
	}
	return EvalResult{Reason: fmt.Sprintf("waiting for a selection from any of %d group(s)", len(rule.Groups))}
}

func toSet(keys []string) map[string]bool {
	set := make(map[string]bool, len(keys))
	for _, k := range keys {
		set[k] = true
	}
	return set
}

// difference returns the keys of a not present in b, sorted.
func difference(a, b map[string]bool) []string {
	var out []string
	for k := range a {
		if !b[k] {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

func joinKeys(keys []string) string {
	if len(keys) == 0 {
		return "nobody"
	}
	return strings.Join(keys, ", ")
}
