// workers/angler_sync_worker.go
package workers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"fishlog/models"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const ProfilesEndpoint = "/api/v1/public/profiles"

// RemoteProfile matches the JSON returned by the profile sync service.
type RemoteProfile struct {
	ExternalID        string    `json:"external_id"`
	Username          string    `json:"username"`
	FirstName         *string   `json:"first_name,omitempty"`
	LastName          *string   `json:"last_name,omitempty"`
	ProfilePictureURL *string   `json:"profile_picture_url,omitempty"`
	AccountStatus     string    `json:"account_status"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type profileChangesResponse struct {
	Users []RemoteProfile `json:"users"`
}

var anglerSyncColumns = []string{
	"username", "first_name", "last_name", "profile_picture_url", "created_at", "updated_at", "deleted_at",
}

// AnglerSyncWorker mirrors profile names into the anglers table for leaderboards.
type AnglerSyncWorker struct {
	db           *gorm.DB
	interval     time.Duration
	baseURL      string
	endpointPath string
	serviceToken string
	httpClient   *http.Client
	log          zerolog.Logger
}

func NewAnglerSyncWorker(db *gorm.DB, baseURL, serviceToken string, logger zerolog.Logger) *AnglerSyncWorker {
	return &AnglerSyncWorker{
		db:           db,
		interval:     1 * time.Minute,
		baseURL:      baseURL,
		endpointPath: ProfilesEndpoint,
		serviceToken: serviceToken,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: logger,
	}
}

// Start runs the worker until ctx is cancelled.
func (w *AnglerSyncWorker) Start(ctx context.Context) {
	w.log.Info().Msg("🔁 Starting Angler Sync Worker (sync-service → anglers)…")
	go w.run(ctx)
}

func (w *AnglerSyncWorker) run(ctx context.Context) {
	// initial backfill from the beginning of time
	if _, err := w.SyncOnce(ctx, time.Time{}); err != nil {
		w.log.Warn().Err(err).Msg("⚠️ Initial angler sync failed")
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := w.SyncOnce(ctx, w.lastSyncTime(ctx)); err != nil {
				w.log.Error().Err(err).Msg("❌ Angler sync batch failed")
			}
		case <-ctx.Done():
			w.log.Info().Msg("⏹️ Angler Sync Worker stopped")
			return
		}
	}
}

// lastSyncTime is the newest updated_at mirrored so far, including deactivated anglers.
func (w *AnglerSyncWorker) lastSyncTime(ctx context.Context) time.Time {
	var latest models.Angler
	err := w.db.WithContext(ctx).Unscoped().Select("updated_at").Order("updated_at DESC").First(&latest).Error
	if err != nil || latest.UpdatedAt.IsZero() {
		return time.Unix(0, 0)
	}
	return latest.UpdatedAt
}

func (w *AnglerSyncWorker) fetch(ctx context.Context, since time.Time) ([]RemoteProfile, error) {
	base, err := url.Parse(w.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid sync service URL %q: %w", w.baseURL, err)
	}
	endpointURL := base.JoinPath(w.endpointPath)
	q := endpointURL.Query()
	q.Set("since", since.UTC().Format(time.RFC3339))
	endpointURL.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpointURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Service-Token", w.serviceToken)

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request to sync service failed: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("sync service returned %d: %s", resp.StatusCode, body)
	}

	var out profileChangesResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode sync service response: %w", err)
	}
	return out.Users, nil
}

// SyncOnce mirrors every profile changed since the given time and returns how many
// anglers were upserted. Deactivated accounts are soft-deleted.
func (w *AnglerSyncWorker) SyncOnce(ctx context.Context, since time.Time) (int, error) {
	profiles, err := w.fetch(ctx, since)
	if err != nil {
		return 0, err
	}
	if len(profiles) == 0 {
		w.log.Debug().Time("since", since).Msg("[SYNC] no profile changes")
		return 0, nil
	}

	var upserted int
	var errs []error
	for _, p := range profiles {
		if p.ExternalID == "" {
			continue
		}
		angler := models.Angler{
			ExternalUserID:    p.ExternalID,
			Username:          p.Username,
			FirstName:         p.FirstName,
			LastName:          p.LastName,
			ProfilePictureURL: p.ProfilePictureURL,
			CreatedAt:         p.CreatedAt,
			UpdatedAt:         p.UpdatedAt,
		}
		if p.AccountStatus == "deactivated" || p.AccountStatus == "suspended" {
			angler.DeletedAt = gorm.DeletedAt{Time: p.UpdatedAt, Valid: true}
		}

		if err := w.db.WithContext(ctx).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "external_user_id"}},
			DoUpdates: clause.AssignmentColumns(anglerSyncColumns),
		}).Create(&angler).Error; err != nil {
			errs = append(errs, fmt.Errorf("upsert angler %s: %w", p.ExternalID, err))
			continue
		}
		upserted++
	}

	w.log.Info().
		Int("received", len(profiles)).
		Int("upserted", upserted).
		Int("errors", len(errs)).
		Msg("[SYNC] ✅ anglers synced")
	return upserted, errors.Join(errs...)
}
