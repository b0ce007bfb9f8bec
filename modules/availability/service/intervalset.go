package service

import (
	"sort"
	"time"

	"meetquorum/modules/availability/entity"
)

// Merge folds possibly-overlapping busy intervals into a minimal sorted,
// non-overlapping form. Adjacent intervals (current.Start == previous.End)
// are merged as well. Stable for ties: sorting is by start then end.
func Merge(intervals []entity.BusyInterval) []entity.BusyInterval {
	if len(intervals) == 0 {
		return nil
	}

	sorted := make([]entity.BusyInterval, len(intervals))
	copy(sorted, intervals)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Start.Equal(sorted[j].Start) {
			return sorted[i].End.Before(sorted[j].End)
		}
		return sorted[i].Start.Before(sorted[j].Start)
	})

	merged := []entity.BusyInterval{sorted[0]}
	for _, current := range sorted[1:] {
		last := &merged[len(merged)-1]
		if !current.Start.After(last.End) {
			// Overlapping or adjacent: keep the later end.
			if current.End.After(last.End) {
				last.End = current.End
			}
		} else {
			merged = append(merged, current)
		}
	}

	return merged
}

// Clip truncates intervals to [windowStart, windowEnd) and drops ones fully
// outside. Runs before Merge so unions stay bounded by the query window.
func Clip(intervals []entity.BusyInterval, windowStart, windowEnd time.Time) []entity.BusyInterval {
	var clipped []entity.BusyInterval
	for _, iv := range intervals {
		start, end := iv.Start, iv.End
		if start.Before(windowStart) {
			start = windowStart
		}
		if end.After(windowEnd) {
			end = windowEnd
		}
		if start.Before(end) {
			clipped = append(clipped, entity.BusyInterval{Start: start, End: end})
		}
	}
	return clipped
}

// Complement walks merged busy intervals left to right and emits the free
// gaps within [windowStart, windowEnd). With no busy intervals the whole
// window is one free interval. Input must already be clipped and merged.
func Complement(merged []entity.BusyInterval, windowStart, windowEnd time.Time) []entity.FreeInterval {
	if !windowStart.Before(windowEnd) {
		return nil
	}

	var free []entity.FreeInterval
	cursor := windowStart
	for _, iv := range merged {
		if cursor.Before(iv.Start) {
			free = append(free, entity.FreeInterval{Start: cursor, End: iv.Start})
		}
		if iv.End.After(cursor) {
			cursor = iv.End
		}
	}
	if cursor.Before(windowEnd) {
		free = append(free, entity.FreeInterval{Start: cursor, End: windowEnd})
	}

	return free
}

// Union computes everyone's combined busy time: flatten all participants'
// busy lists, then merge. Empty input means everyone is free.
func Union(busyLists ...[]entity.BusyInterval) []entity.BusyInterval {
	var all []entity.BusyInterval
	for _, list := range busyLists {
		all = append(all, list...)
	}
	return Merge(all)
}
