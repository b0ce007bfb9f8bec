package service

import (
	"time"

	"meetquorum/modules/availability/entity"
)

// DayTimeWindow restricts candidates to local start hours in
// [StartHour, EndHour).
type DayTimeWindow struct {
	StartHour int
	EndHour   int
}

// SlotGenerator walks free intervals on a fixed time grid and emits
// fixed-duration candidate slots.
type SlotGenerator struct {
	// GridStep between candidate starts, default 30 minutes.
	GridStep time.Duration
	// Location is the display timezone used for labels and the day window.
	Location *time.Location
}

func NewSlotGenerator(gridStep time.Duration, loc *time.Location) *SlotGenerator {
	if gridStep <= 0 {
		gridStep = 30 * time.Minute
	}
	if loc == nil {
		loc = time.UTC
	}
	return &SlotGenerator{GridStep: gridStep, Location: loc}
}

// Generate emits candidates of exactly meetingLength from each free
// interval, stepping by GridStep from the interval start. Free intervals are
// scanned in the order given (chronological for Complement output), so when
// maxResults caps the output the earliest valid candidates win.
//
// A candidate whose local start hour falls outside the day window is skipped
// but stepping continues; an interval shorter than meetingLength simply
// yields nothing.
func (g *SlotGenerator) Generate(free []entity.FreeInterval, meetingLength time.Duration, dayWindow *DayTimeWindow, maxResults int) []entity.CandidateSlot {
	if meetingLength <= 0 {
		return nil
	}

	var slots []entity.CandidateSlot
	for _, interval := range free {
		for cursor := interval.Start; !cursor.Add(meetingLength).After(interval.End); cursor = cursor.Add(g.GridStep) {
			if dayWindow != nil {
				hour := cursor.In(g.Location).Hour()
				if hour < dayWindow.StartHour || hour >= dayWindow.EndHour {
					continue
				}
			}

			slots = append(slots, entity.CandidateSlot{
				Start: cursor,
				End:   cursor.Add(meetingLength),
				Label: g.label(cursor, cursor.Add(meetingLength)),
			})

			if maxResults > 0 && len(slots) >= maxResults {
				return slots
			}
		}
	}

	return slots
}

func (g *SlotGenerator) label(start, end time.Time) string {
	local := start.In(g.Location)
	return local.Format("Mon 02/01 15:04") + " - " + end.In(g.Location).Format("15:04")
}
