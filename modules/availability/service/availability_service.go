package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"meetquorum/core/cache"
	"meetquorum/core/config"
	"meetquorum/core/constants"
	coreErrors "meetquorum/core/errors"
	"meetquorum/core/logger"
	"meetquorum/modules/availability/entity"
)

// ErrNotLinked is returned by a CalendarPort when the participant has no
// calendar connection. The computation excludes the participant with status
// "unlinked" instead of failing.
var ErrNotLinked = errors.New("calendar not linked")

// CalendarPort supplies raw busy intervals for one participant and window.
type CalendarPort interface {
	GetBusy(ctx context.Context, participantKey string, timeMin, timeMax time.Time) ([]entity.BusyInterval, error)
}

// PreferencePort supplies a participant's preference rules. A nil slice with
// a nil error means neutral scoring.
type PreferencePort interface {
	GetPreferences(ctx context.Context, participantKey string) ([]entity.PreferenceRule, error)
}

// ComputeRequest describes one availability computation.
type ComputeRequest struct {
	Participants  []string
	TimeMin       time.Time
	TimeMax       time.Time
	MeetingLength time.Duration
	GridStep      time.Duration
	DayWindow     *DayTimeWindow
	MaxResults    int
	Timezone      string
}

// ComputeResult is the engine output consumed by the rest of the system.
type ComputeResult struct {
	Slots        []entity.ScoredSlot              `json:"slots"`
	Availability []entity.ParticipantAvailability `json:"availability"`
	Stats        entity.CoverageStats             `json:"stats"`
}

// AvailabilityService aggregates busy time across participants, generates
// grid-aligned candidates and scores them. Stateless per invocation; the
// only shared state is the optional result cache.
type AvailabilityService struct {
	calendar CalendarPort
	prefs    PreferencePort
	cache    *cache.Cache
	cfg      *config.Config
}

func NewAvailabilityService(calendar CalendarPort, prefs PreferencePort, resultCache *cache.Cache, cfg *config.Config) *AvailabilityService {
	return &AvailabilityService{
		calendar: calendar,
		prefs:    prefs,
		cache:    resultCache,
		cfg:      cfg,
	}
}

// ComputeAvailableSlots runs the full pipeline: per-participant busy fetch,
// union, complement, grid generation, preference scoring. Participants whose
// calendar data is unavailable are excluded and counted, never fatal.
func (s *AvailabilityService) ComputeAvailableSlots(ctx context.Context, req ComputeRequest) (*ComputeResult, *coreErrors.AppError) {
	s.applyDefaults(&req)
	if !req.TimeMin.Before(req.TimeMax) {
		return nil, coreErrors.NewAppError(coreErrors.ErrInvalidInput, "time window is empty", nil)
	}
	if req.MeetingLength <= 0 {
		return nil, coreErrors.NewAppError(coreErrors.ErrInvalidInput, "meeting length must be positive", nil)
	}

	cacheKey := s.cacheKey(req)
	if s.cache != nil {
		var cached ComputeResult
		if s.cache.GetJSON(ctx, cacheKey, &cached) {
			logger.Debug("availability: cache hit", "key", cacheKey)
			return &cached, nil
		}
	}

	loc := s.location(req.Timezone)

	// Per-participant busy fetch. Failures degrade to exclusion.
	availability := make([]entity.ParticipantAvailability, 0, len(req.Participants))
	var busyLists [][]entity.BusyInterval
	excluded := 0
	for _, key := range req.Participants {
		busy, err := s.calendar.GetBusy(ctx, key, req.TimeMin, req.TimeMax)
		switch {
		case err == nil:
			clipped := Clip(busy, req.TimeMin, req.TimeMax)
			busyLists = append(busyLists, clipped)
			availability = append(availability, entity.ParticipantAvailability{
				ParticipantKey: key,
				Status:         entity.AvailabilityResolved,
				Busy:           clipped,
			})
		case errors.Is(err, ErrNotLinked):
			excluded++
			availability = append(availability, entity.ParticipantAvailability{
				ParticipantKey: key,
				Status:         entity.AvailabilityUnlinked,
			})
		default:
			logger.Warn("availability: busy fetch failed", "participant", key, "error", err)
			excluded++
			availability = append(availability, entity.ParticipantAvailability{
				ParticipantKey: key,
				Status:         entity.AvailabilityError,
			})
		}
	}

	merged := Union(busyLists...)
	free := Complement(merged, req.TimeMin, req.TimeMax)

	freeMinutes := 0
	for _, f := range free {
		freeMinutes += int(f.Duration().Minutes())
	}

	generator := NewSlotGenerator(req.GridStep, loc)
	candidates := generator.Generate(free, req.MeetingLength, req.DayWindow, 0)

	prefs := s.collectPreferences(ctx, availability)
	scorer := NewPreferenceScorer(loc)
	scored := scorer.Score(candidates, prefs, req.MaxResults)

	stats := entity.CoverageStats{
		TotalFreeMinutes:     freeMinutes,
		ExcludedParticipants: excluded,
		TotalParticipants:    len(req.Participants),
	}
	switch {
	case len(req.Participants) > 0 && excluded == len(req.Participants):
		stats.Warning = string(coreErrors.WarnAllExcluded)
	case len(scored) == 0:
		stats.Warning = string(coreErrors.WarnNoCandidates)
	case excluded > 0:
		stats.Warning = string(coreErrors.WarnPartialExclusion)
	}

	result := &ComputeResult{
		Slots:        scored,
		Availability: availability,
		Stats:        stats,
	}

	if s.cache != nil {
		ttl := time.Duration(s.cfg.Scheduling.SlotCacheTTLSec) * time.Second
		s.cache.SetJSON(ctx, cacheKey, result, ttl)
	}

	logger.Info("availability: computed",
		"participants", len(req.Participants),
		"excluded", excluded,
		"candidates", len(candidates),
		"returned", len(scored),
		"warning", stats.Warning,
	)
	return result, nil
}

func (s *AvailabilityService) applyDefaults(req *ComputeRequest) {
	sched := s.cfg.Scheduling
	if req.GridStep <= 0 {
		minutes := sched.GridStepMinutes
		if minutes <= 0 {
			minutes = constants.DefaultGridStepMinutes
		}
		req.GridStep = time.Duration(minutes) * time.Minute
	}
	if req.MaxResults <= 0 {
		req.MaxResults = sched.MaxResults
		if req.MaxResults <= 0 {
			req.MaxResults = constants.DefaultMaxResults
		}
	}
	if req.TimeMax.IsZero() && !req.TimeMin.IsZero() {
		days := sched.SearchDays
		if days <= 0 {
			days = constants.DefaultSearchDays
		}
		req.TimeMax = req.TimeMin.AddDate(0, 0, days)
	}
	if req.DayWindow == nil && sched.DayWindowStart < sched.DayWindowEnd && sched.DayWindowEnd <= 24 {
		req.DayWindow = &DayTimeWindow{
			StartHour: sched.DayWindowStart,
			EndHour:   sched.DayWindowEnd,
		}
	}
}

func (s *AvailabilityService) location(tz string) *time.Location {
	if tz == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		logger.Warn("availability: unknown timezone, using UTC", "timezone", tz)
		return time.UTC
	}
	return loc
}

// collectPreferences loads rules for resolved participants only; malformed
// or absent preference documents come back as nil and score neutrally.
func (s *AvailabilityService) collectPreferences(ctx context.Context, availability []entity.ParticipantAvailability) map[string][]entity.PreferenceRule {
	prefs := make(map[string][]entity.PreferenceRule)
	if s.prefs == nil {
		return prefs
	}
	for _, pa := range availability {
		if pa.Status != entity.AvailabilityResolved {
			continue
		}
		rules, err := s.prefs.GetPreferences(ctx, pa.ParticipantKey)
		if err != nil {
			logger.Warn("availability: preference load failed", "participant", pa.ParticipantKey, "error", err)
			continue
		}
		if len(rules) > 0 {
			prefs[pa.ParticipantKey] = rules
		}
	}
	return prefs
}

func (s *AvailabilityService) cacheKey(req ComputeRequest) string {
	participants := make([]string, len(req.Participants))
	copy(participants, req.Participants)
	sort.Strings(participants)

	raw := fmt.Sprintf("%s|%d|%d|%d|%d|%d|%s",
		strings.Join(participants, ","),
		req.TimeMin.Unix(), req.TimeMax.Unix(),
		int(req.MeetingLength.Minutes()), int(req.GridStep.Minutes()),
		req.MaxResults,
		req.Timezone,
	)
	if req.DayWindow != nil {
		raw += fmt.Sprintf("|%d-%d", req.DayWindow.StartHour, req.DayWindow.EndHour)
	}
	sum := sha256.Sum256([]byte(raw))
	return "slots:" + hex.EncodeToString(sum[:16])
}
