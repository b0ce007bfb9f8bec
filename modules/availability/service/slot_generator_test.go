package service

import (
	"testing"
	"time"

	"meetquorum/modules/availability/entity"

	"github.com/stretchr/testify/require"
)

func free(t *testing.T, pairs ...string) []entity.FreeInterval {
	t.Helper()
	out := make([]entity.FreeInterval, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		out = append(out, entity.FreeInterval{Start: at(t, pairs[i]), End: at(t, pairs[i+1])})
	}
	return out
}

func starts(slots []entity.CandidateSlot) []time.Time {
	out := make([]time.Time, len(slots))
	for i, s := range slots {
		out[i] = s.Start
	}
	return out
}

func TestGenerateWalksGridWithinFreeIntervals(t *testing.T) {
	t.Parallel()

	gen := NewSlotGenerator(30*time.Minute, time.UTC)
	slots := gen.Generate(free(t, "09:00", "11:00"), time.Hour, nil, 0)

	require.Equal(t, []time.Time{at(t, "09:00"), at(t, "09:30"), at(t, "10:00")}, starts(slots))
	for _, s := range slots {
		require.Equal(t, time.Hour, s.End.Sub(s.Start), "every candidate has exactly the meeting length")
		require.NotEmpty(t, s.Label)
	}
}

// Busy 09:00-10:00 over window 09:00-11:00 with a 60-minute
// meeting on a 30-minute grid leaves exactly one candidate, 10:00-11:00.
func TestGenerateAfterComplementSingleCandidate(t *testing.T) {
	t.Parallel()

	winStart, winEnd := at(t, "09:00"), at(t, "11:00")
	merged := Merge(busy(t, "09:00", "10:00"))
	freeIntervals := Complement(merged, winStart, winEnd)

	gen := NewSlotGenerator(30*time.Minute, time.UTC)
	slots := gen.Generate(freeIntervals, time.Hour, nil, 0)

	require.Len(t, slots, 1)
	require.Equal(t, at(t, "10:00"), slots[0].Start)
	require.Equal(t, at(t, "11:00"), slots[0].End)
}

func TestGenerateNeverOverlapsBusy(t *testing.T) {
	t.Parallel()

	winStart, winEnd := at(t, "08:00"), at(t, "18:00")
	raw := busy(t, "09:00", "09:45", "12:00", "13:30", "16:00", "17:00")
	merged := Merge(Clip(raw, winStart, winEnd))
	freeIntervals := Complement(merged, winStart, winEnd)

	gen := NewSlotGenerator(30*time.Minute, time.UTC)
	slots := gen.Generate(freeIntervals, 45*time.Minute, nil, 0)
	require.NotEmpty(t, slots)

	for _, s := range slots {
		for _, b := range merged {
			overlap := s.Start.Before(b.End) && b.Start.Before(s.End)
			require.False(t, overlap, "slot %v overlaps busy %v", s, b)
		}
	}
}

func TestGenerateDayWindowSkipsButKeepsStepping(t *testing.T) {
	t.Parallel()

	// One free interval spanning the whole day; only 09:00-11:59 local
	// starts are allowed. Candidates resume inside the window rather than
	// the interval being abandoned at the first rejection.
	gen := NewSlotGenerator(time.Hour, time.UTC)
	slots := gen.Generate(free(t, "00:00", "23:00"), time.Hour, &DayTimeWindow{StartHour: 9, EndHour: 12}, 0)

	require.Equal(t, []time.Time{at(t, "09:00"), at(t, "10:00"), at(t, "11:00")}, starts(slots))
}

func TestGenerateMaxResultsPrefersEarliest(t *testing.T) {
	t.Parallel()

	gen := NewSlotGenerator(30*time.Minute, time.UTC)
	intervals := free(t, "09:00", "12:00", "14:00", "17:00")
	slots := gen.Generate(intervals, 30*time.Minute, nil, 3)

	require.Equal(t, []time.Time{at(t, "09:00"), at(t, "09:30"), at(t, "10:00")}, starts(slots))
}

func TestGenerateDegenerateCases(t *testing.T) {
	t.Parallel()

	gen := NewSlotGenerator(30*time.Minute, time.UTC)

	t.Run("meeting longer than any free interval", func(t *testing.T) {
		t.Parallel()
		slots := gen.Generate(free(t, "09:00", "10:00"), 2*time.Hour, nil, 0)
		require.Empty(t, slots)
	})

	t.Run("tail shorter than meeting is exhausted", func(t *testing.T) {
		t.Parallel()
		// 09:00-10:15 with 60m meetings: only 09:00 fits; 09:30 would end
		// 10:30 past the interval end.
		slots := gen.Generate(free(t, "09:00", "10:15"), time.Hour, nil, 0)
		require.Equal(t, []time.Time{at(t, "09:00")}, starts(slots))
	})

	t.Run("no free intervals", func(t *testing.T) {
		t.Parallel()
		require.Empty(t, gen.Generate(nil, time.Hour, nil, 0))
	})
}

func TestGenerateDayWindowUsesDisplayTimezone(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("UTC+7", 7*3600)
	gen := NewSlotGenerator(time.Hour, loc)

	// 02:00-05:00 UTC is 09:00-12:00 in UTC+7; a 9-12 local day window must
	// accept these starts.
	slots := gen.Generate(free(t, "02:00", "05:00"), time.Hour, &DayTimeWindow{StartHour: 9, EndHour: 12}, 0)
	require.Equal(t, []time.Time{at(t, "02:00"), at(t, "03:00"), at(t, "04:00")}, starts(slots))
}
