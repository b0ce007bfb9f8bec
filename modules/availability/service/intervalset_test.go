package service

import (
	"testing"
	"time"

	"meetquorum/modules/availability/entity"

	"github.com/stretchr/testify/require"
)

func at(t *testing.T, hhmm string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, "2026-09-07T"+hhmm+":00Z")
	require.NoError(t, err)
	return ts
}

func busy(t *testing.T, pairs ...string) []entity.BusyInterval {
	t.Helper()
	require.Zero(t, len(pairs)%2)
	out := make([]entity.BusyInterval, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		out = append(out, entity.BusyInterval{Start: at(t, pairs[i]), End: at(t, pairs[i+1])})
	}
	return out
}

func TestMergeFoldsOverlapsAndAdjacency(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []entity.BusyInterval
		want []entity.BusyInterval
	}{
		{
			name: "empty input",
			in:   nil,
			want: nil,
		},
		{
			name: "disjoint stays disjoint",
			in:   busy(t, "09:00", "10:00", "11:00", "12:00"),
			want: busy(t, "09:00", "10:00", "11:00", "12:00"),
		},
		{
			name: "overlap folds to later end",
			in:   busy(t, "09:00", "10:30", "10:00", "11:00"),
			want: busy(t, "09:00", "11:00"),
		},
		{
			name: "adjacent intervals fold",
			in:   busy(t, "09:00", "10:00", "10:00", "11:00"),
			want: busy(t, "09:00", "11:00"),
		},
		{
			name: "contained interval is absorbed",
			in:   busy(t, "09:00", "12:00", "10:00", "11:00"),
			want: busy(t, "09:00", "12:00"),
		},
		{
			name: "unsorted input is sorted first",
			in:   busy(t, "14:00", "15:00", "09:00", "10:00", "09:30", "11:00"),
			want: busy(t, "09:00", "11:00", "14:00", "15:00"),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.want, Merge(tc.in))
		})
	}
}

func TestMergeOutputIsSortedAndNonOverlapping(t *testing.T) {
	t.Parallel()

	in := busy(t,
		"13:00", "13:45",
		"09:00", "09:30",
		"09:15", "10:00",
		"13:30", "14:00",
		"09:45", "09:50",
	)
	merged := Merge(in)

	for i := 1; i < len(merged); i++ {
		require.True(t, merged[i-1].End.Before(merged[i].Start),
			"intervals %d and %d overlap or touch", i-1, i)
	}
}

func TestMergeDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	in := busy(t, "11:00", "12:00", "09:00", "10:00")
	first := in[0]
	Merge(in)
	require.Equal(t, first, in[0])
}

func TestClip(t *testing.T) {
	t.Parallel()

	winStart, winEnd := at(t, "09:00"), at(t, "17:00")

	tests := []struct {
		name string
		in   []entity.BusyInterval
		want []entity.BusyInterval
	}{
		{
			name: "fully inside untouched",
			in:   busy(t, "10:00", "11:00"),
			want: busy(t, "10:00", "11:00"),
		},
		{
			name: "fully outside dropped",
			in:   busy(t, "07:00", "08:00", "18:00", "19:00"),
			want: nil,
		},
		{
			name: "partial overlaps truncated",
			in:   busy(t, "08:00", "10:00", "16:30", "18:00"),
			want: busy(t, "09:00", "10:00", "16:30", "17:00"),
		},
		{
			name: "interval spanning window becomes window",
			in:   busy(t, "07:00", "20:00"),
			want: busy(t, "09:00", "17:00"),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.want, Clip(tc.in, winStart, winEnd))
		})
	}
}

func TestComplement(t *testing.T) {
	t.Parallel()

	winStart, winEnd := at(t, "09:00"), at(t, "17:00")

	t.Run("no busy means whole window free", func(t *testing.T) {
		t.Parallel()
		free := Complement(nil, winStart, winEnd)
		require.Equal(t, []entity.FreeInterval{{Start: winStart, End: winEnd}}, free)
	})

	t.Run("gaps before, between and after", func(t *testing.T) {
		t.Parallel()
		merged := busy(t, "10:00", "11:00", "13:00", "14:00")
		free := Complement(merged, winStart, winEnd)
		require.Equal(t, []entity.FreeInterval{
			{Start: at(t, "09:00"), End: at(t, "10:00")},
			{Start: at(t, "11:00"), End: at(t, "13:00")},
			{Start: at(t, "14:00"), End: at(t, "17:00")},
		}, free)
	})

	t.Run("busy aligned to window edges emits no empty gaps", func(t *testing.T) {
		t.Parallel()
		merged := busy(t, "09:00", "10:00", "16:00", "17:00")
		free := Complement(merged, winStart, winEnd)
		require.Equal(t, []entity.FreeInterval{
			{Start: at(t, "10:00"), End: at(t, "16:00")},
		}, free)
	})

	t.Run("empty window yields nothing", func(t *testing.T) {
		t.Parallel()
		require.Nil(t, Complement(nil, winStart, winStart))
	})
}

// Busy (clipped+merged) and free intervals must exactly tile the window.
func TestComplementTilesWindow(t *testing.T) {
	t.Parallel()

	winStart, winEnd := at(t, "08:00"), at(t, "18:00")
	raw := busy(t,
		"07:30", "09:00",
		"09:30", "10:15",
		"10:00", "11:00",
		"13:00", "13:30",
		"17:45", "19:00",
	)

	merged := Merge(Clip(raw, winStart, winEnd))
	free := Complement(merged, winStart, winEnd)

	type piece struct {
		start, end time.Time
	}
	var pieces []piece
	for _, b := range merged {
		pieces = append(pieces, piece{b.Start, b.End})
	}
	for _, f := range free {
		pieces = append(pieces, piece{f.Start, f.End})
	}

	var total time.Duration
	for _, p := range pieces {
		total += p.end.Sub(p.start)
	}
	require.Equal(t, winEnd.Sub(winStart), total, "pieces must cover the window exactly")

	for i, a := range pieces {
		for j, b := range pieces {
			if i == j {
				continue
			}
			overlap := a.start.Before(b.end) && b.start.Before(a.end)
			require.False(t, overlap, "pieces %d and %d overlap", i, j)
		}
	}
}

func TestUnionAcrossParticipants(t *testing.T) {
	t.Parallel()

	alice := busy(t, "09:00", "10:00")
	bob := busy(t, "09:30", "11:00")
	carol := busy(t, "14:00", "15:00")

	merged := Union(alice, bob, carol)
	require.Equal(t, busy(t, "09:00", "11:00", "14:00", "15:00"), merged)

	require.Nil(t, Union(), "no participants means everyone free")
	require.Nil(t, Union(nil, nil))
}
