package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"meetquorum/core/config"
	coreErrors "meetquorum/core/errors"
	"meetquorum/modules/availability/entity"

	"github.com/stretchr/testify/require"
)

type fakeCalendar struct {
	busy map[string][]entity.BusyInterval
	errs map[string]error
}

func (f *fakeCalendar) GetBusy(_ context.Context, key string, _, _ time.Time) ([]entity.BusyInterval, error) {
	if err, ok := f.errs[key]; ok {
		return nil, err
	}
	return f.busy[key], nil
}

type fakePrefs struct {
	rules map[string][]entity.PreferenceRule
}

func (f *fakePrefs) GetPreferences(_ context.Context, key string) ([]entity.PreferenceRule, error) {
	return f.rules[key], nil
}

func testConfig() *config.Config {
	return &config.Config{
		Scheduling: config.SchedulingConfig{
			GridStepMinutes: 30,
			MaxResults:      10,
			SlotCacheTTLSec: 60,
		},
	}
}

func computeReq(t *testing.T, participants ...string) ComputeRequest {
	t.Helper()
	return ComputeRequest{
		Participants:  participants,
		TimeMin:       at(t, "09:00"),
		TimeMax:       at(t, "11:00"),
		MeetingLength: time.Hour,
	}
}

func TestComputeAvailableSlotsHappyPath(t *testing.T) {
	t.Parallel()

	cal := &fakeCalendar{busy: map[string][]entity.BusyInterval{
		"alice": busy(t, "09:00", "10:00"),
		"bob":   nil,
	}}
	svc := NewAvailabilityService(cal, &fakePrefs{}, nil, testConfig())

	result, appErr := svc.ComputeAvailableSlots(context.Background(), computeReq(t, "alice", "bob"))
	require.Nil(t, appErr)

	require.Len(t, result.Slots, 1)
	require.Equal(t, at(t, "10:00"), result.Slots[0].Slot.Start)
	require.Equal(t, at(t, "11:00"), result.Slots[0].Slot.End)

	require.Equal(t, 60, result.Stats.TotalFreeMinutes)
	require.Zero(t, result.Stats.ExcludedParticipants)
	require.Empty(t, result.Stats.Warning)

	require.Len(t, result.Availability, 2)
	for _, pa := range result.Availability {
		require.Equal(t, entity.AvailabilityResolved, pa.Status)
	}
}

func TestComputeExcludesUnlinkedAndErroredParticipants(t *testing.T) {
	t.Parallel()

	cal := &fakeCalendar{
		busy: map[string][]entity.BusyInterval{"alice": nil},
		errs: map[string]error{
			"bob":   ErrNotLinked,
			"carol": errors.New("upstream 503"),
		},
	}
	svc := NewAvailabilityService(cal, &fakePrefs{}, nil, testConfig())

	result, appErr := svc.ComputeAvailableSlots(context.Background(), computeReq(t, "alice", "bob", "carol"))
	require.Nil(t, appErr)

	require.Equal(t, 2, result.Stats.ExcludedParticipants)
	require.Equal(t, string(coreErrors.WarnPartialExclusion), result.Stats.Warning)

	byKey := map[string]entity.AvailabilityStatus{}
	for _, pa := range result.Availability {
		byKey[pa.ParticipantKey] = pa.Status
	}
	require.Equal(t, entity.AvailabilityResolved, byKey["alice"])
	require.Equal(t, entity.AvailabilityUnlinked, byKey["bob"])
	require.Equal(t, entity.AvailabilityError, byKey["carol"])

	// The computation still produced slots from alice's data alone.
	require.NotEmpty(t, result.Slots)
}

func TestComputeAllExcludedWarns(t *testing.T) {
	t.Parallel()

	cal := &fakeCalendar{errs: map[string]error{
		"bob":   ErrNotLinked,
		"carol": ErrNotLinked,
	}}
	svc := NewAvailabilityService(cal, &fakePrefs{}, nil, testConfig())

	result, appErr := svc.ComputeAvailableSlots(context.Background(), computeReq(t, "bob", "carol"))
	require.Nil(t, appErr)
	require.Equal(t, string(coreErrors.WarnAllExcluded), result.Stats.Warning)
	// With nobody contributing busy data the window is fully free.
	require.NotEmpty(t, result.Slots)
}

func TestComputeNoCandidatesWarnsInsteadOfFailing(t *testing.T) {
	t.Parallel()

	cal := &fakeCalendar{busy: map[string][]entity.BusyInterval{
		"alice": busy(t, "09:00", "11:00"),
	}}
	svc := NewAvailabilityService(cal, &fakePrefs{}, nil, testConfig())

	result, appErr := svc.ComputeAvailableSlots(context.Background(), computeReq(t, "alice"))
	require.Nil(t, appErr)
	require.Empty(t, result.Slots)
	require.Equal(t, string(coreErrors.WarnNoCandidates), result.Stats.Warning)
}

func TestComputeAppliesPreferences(t *testing.T) {
	t.Parallel()

	cal := &fakeCalendar{busy: map[string][]entity.BusyInterval{"alice": nil}}
	prefs := &fakePrefs{rules: map[string][]entity.PreferenceRule{
		"alice": {{
			Label:       "late morning",
			StartMinute: 10 * 60,
			EndMinute:   11 * 60,
			Weight:      20,
		}},
	}}
	svc := NewAvailabilityService(cal, prefs, nil, testConfig())

	result, appErr := svc.ComputeAvailableSlots(context.Background(), computeReq(t, "alice"))
	require.Nil(t, appErr)
	require.NotEmpty(t, result.Slots)
	// The preferred 10:00 start outranks the otherwise-sooner 09:00/09:30.
	require.Equal(t, at(t, "10:00"), result.Slots[0].Slot.Start)
	require.Equal(t, "alice", result.Slots[0].Reasons[0].Source)
}

func TestComputeAppliesConfiguredDayWindow(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Scheduling.DayWindowStart = 10
	cfg.Scheduling.DayWindowEnd = 11
	cal := &fakeCalendar{busy: map[string][]entity.BusyInterval{"alice": nil}}
	svc := NewAvailabilityService(cal, &fakePrefs{}, nil, cfg)

	result, appErr := svc.ComputeAvailableSlots(context.Background(), computeReq(t, "alice"))
	require.Nil(t, appErr)
	require.Len(t, result.Slots, 1)
	require.Equal(t, at(t, "10:00"), result.Slots[0].Slot.Start)

	// An explicit request window wins over the configured one.
	req := computeReq(t, "alice")
	req.DayWindow = &DayTimeWindow{StartHour: 9, EndHour: 12}
	result, appErr = svc.ComputeAvailableSlots(context.Background(), req)
	require.Nil(t, appErr)
	require.Len(t, result.Slots, 3)
}

func TestComputeDefaultsWindowEndFromSearchDays(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Scheduling.SearchDays = 2
	cal := &fakeCalendar{busy: map[string][]entity.BusyInterval{"alice": nil}}
	svc := NewAvailabilityService(cal, &fakePrefs{}, nil, cfg)

	req := computeReq(t, "alice")
	req.TimeMax = time.Time{}
	result, appErr := svc.ComputeAvailableSlots(context.Background(), req)
	require.Nil(t, appErr)
	require.NotEmpty(t, result.Slots)
	// The cap still applies to the widened window.
	require.LessOrEqual(t, len(result.Slots), cfg.Scheduling.MaxResults)
}

func TestCacheKeyCoversResultCap(t *testing.T) {
	t.Parallel()

	svc := NewAvailabilityService(&fakeCalendar{}, &fakePrefs{}, nil, testConfig())

	small := computeReq(t, "alice", "bob")
	small.GridStep = 30 * time.Minute
	small.MaxResults = 1
	large := small
	large.MaxResults = 50

	// The cached value is already truncated to the cap, so requests with
	// different caps must not share an entry.
	require.NotEqual(t, svc.cacheKey(small), svc.cacheKey(large))

	reordered := computeReq(t, "bob", "alice")
	reordered.GridStep = 30 * time.Minute
	reordered.MaxResults = 1
	require.Equal(t, svc.cacheKey(small), svc.cacheKey(reordered))
}

func TestComputeRejectsDegenerateRequests(t *testing.T) {
	t.Parallel()

	svc := NewAvailabilityService(&fakeCalendar{}, &fakePrefs{}, nil, testConfig())

	req := computeReq(t, "alice")
	req.TimeMax = req.TimeMin
	_, appErr := svc.ComputeAvailableSlots(context.Background(), req)
	require.NotNil(t, appErr)
	require.Equal(t, coreErrors.ErrInvalidInput, appErr.Code)

	req = computeReq(t, "alice")
	req.MeetingLength = 0
	_, appErr = svc.ComputeAvailableSlots(context.Background(), req)
	require.NotNil(t, appErr)
	require.Equal(t, coreErrors.ErrInvalidInput, appErr.Code)
}
