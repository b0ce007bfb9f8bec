package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"meetquorum/core/config"
	coreErrors "meetquorum/core/errors"
	"meetquorum/core/logger"
	availEntity "meetquorum/modules/availability/entity"
	availService "meetquorum/modules/availability/service"
	"meetquorum/modules/calendar/entity"
	"meetquorum/modules/calendar/repository"
)

const (
	ProviderGoogle = "google"

	googleFreeBusyAPI = "https://www.googleapis.com/calendar/v3/freeBusy"
)

// CalendarService resolves participant busy time from Google Calendar. It
// satisfies the availability module's CalendarPort: unlinked participants
// surface as ErrNotLinked so the computation can degrade instead of failing.
type CalendarService struct {
	repo       repository.CalendarRepositoryInterface
	cfg        *config.Config
	httpClient *http.Client
}

func NewCalendarService(repo repository.CalendarRepositoryInterface, cfg *config.Config) *CalendarService {
	return &CalendarService{
		repo:       repo,
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// SaveGoogleConnection stores or replaces a participant's Google connection.
func (s *CalendarService) SaveGoogleConnection(ctx context.Context, userID uuid.UUID, accessToken, refreshToken string, expiresAt time.Time, email string) (*entity.CalendarConnection, error) {
	conn := &entity.CalendarConnection{
		UserID:         userID,
		Provider:       ProviderGoogle,
		AccessToken:    accessToken,
		RefreshToken:   refreshToken,
		TokenExpiresAt: expiresAt,
		CalendarEmail:  email,
		IsActive:       true,
	}
	return s.repo.CreateConnection(ctx, conn)
}

func (s *CalendarService) DisconnectCalendar(ctx context.Context, userID uuid.UUID, provider string) error {
	return s.repo.DeleteConnection(ctx, userID, provider)
}

func (s *CalendarService) GetConnections(ctx context.Context, userID uuid.UUID) ([]entity.CalendarConnection, error) {
	return s.repo.GetConnectionsByUserID(ctx, userID)
}

// GetBusy fetches the participant's busy intervals for the window. A
// participant key that is not an internal user ID, or one without an active
// connection, returns ErrNotLinked.
func (s *CalendarService) GetBusy(ctx context.Context, participantKey string, timeMin, timeMax time.Time) ([]availEntity.BusyInterval, error) {
	userID, err := uuid.Parse(participantKey)
	if err != nil {
		// External keys (email hashes and the like) carry no connection.
		return nil, availService.ErrNotLinked
	}

	conn, err := s.repo.GetConnectionByUserAndProvider(ctx, userID, ProviderGoogle)
	if err != nil {
		return nil, err
	}
	if conn == nil {
		return nil, availService.ErrNotLinked
	}

	token, err := s.freshToken(ctx, conn)
	if err != nil {
		return nil, coreErrors.NewAppError(coreErrors.ErrInternalServer, "failed to refresh calendar token", err)
	}

	return s.queryFreeBusy(ctx, token, conn.CalendarEmail, timeMin, timeMax)
}

// freshToken returns a valid access token, refreshing through the oauth2
// token source when the stored one is near expiry. Refreshed tokens are
// written back so the next call starts warm; the write failing only costs us
// a refresh next time.
func (s *CalendarService) freshToken(ctx context.Context, conn *entity.CalendarConnection) (string, error) {
	oauthCfg := oauth2.Config{
		ClientID:     s.cfg.GoogleAPI.ClientID,
		ClientSecret: s.cfg.GoogleAPI.ClientSecret,
		Endpoint:     google.Endpoint,
	}

	stored := &oauth2.Token{
		AccessToken:  conn.AccessToken,
		RefreshToken: conn.RefreshToken,
		Expiry:       conn.TokenExpiresAt.Add(-5 * time.Minute),
	}

	token, err := oauthCfg.TokenSource(ctx, stored).Token()
	if err != nil {
		return "", err
	}

	if token.AccessToken != conn.AccessToken {
		conn.AccessToken = token.AccessToken
		conn.TokenExpiresAt = token.Expiry
		if token.RefreshToken != "" {
			conn.RefreshToken = token.RefreshToken
		}
		if err := s.repo.UpdateConnection(ctx, conn); err != nil {
			logger.Warn("failed to persist refreshed calendar token", "user_id", conn.UserID, err)
		}
	}
	return token.AccessToken, nil
}

func (s *CalendarService) queryFreeBusy(ctx context.Context, accessToken, email string, timeMin, timeMax time.Time) ([]availEntity.BusyInterval, error) {
	payload := map[string]any{
		"timeMin": timeMin.Format(time.RFC3339),
		"timeMax": timeMax.Format(time.RFC3339),
		"items":   []map[string]string{{"id": email}},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, googleFreeBusyAPI, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("google freebusy api error (%d): %s", resp.StatusCode, string(errBody))
	}

	var result struct {
		Calendars map[string]struct {
			Busy []struct {
				Start time.Time `json:"start"`
				End   time.Time `json:"end"`
			} `json:"busy"`
		} `json:"calendars"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}

	var busy []availEntity.BusyInterval
	if cal, ok := result.Calendars[email]; ok {
		for _, b := range cal.Busy {
			busy = append(busy, availEntity.BusyInterval{Start: b.Start, End: b.End})
		}
	}
	return busy, nil
}
