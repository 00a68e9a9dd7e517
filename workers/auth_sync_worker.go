// workers/auth_sync_worker.go
package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"digital-id-system/models"
	"digital-id-system/services"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MirroredUserFromAuth matches the JSON of the auth service's public user feed.
type MirroredUserFromAuth struct {
	ID            string    `json:"id"`
	ExternalID    string    `json:"external_id"`
	Email         string    `json:"email"`
	EmailVerified bool      `json:"email_verified"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// GetUserChangesResponse is the top-level structure of the feed response.
type GetUserChangesResponse struct {
	Users []MirroredUserFromAuth `json:"users"`
}

// AuthUserSyncWorker mirrors auth-service users into identity_users and
// watches each user's email-verified flag. The false→true transition is the
// trigger for Smart Wallet auto-provisioning; provisioning failures are
// logged and never fail a sync batch.
type AuthUserSyncWorker struct {
	db           *gorm.DB
	provisioning *services.ProvisioningService
	interval     time.Duration
	baseURL      string // e.g., "http://localhost:8500"
	endpointPath string // e.g., "/api/v1/public/users"
	serviceToken string
	httpClient   *http.Client
}

func NewAuthUserSyncWorker(db *gorm.DB, provisioning *services.ProvisioningService, authServiceBaseURL, endpointPath, serviceToken string) *AuthUserSyncWorker {
	return &AuthUserSyncWorker{
		db:           db,
		provisioning: provisioning,
		interval:     1 * time.Minute,
		baseURL:      authServiceBaseURL,
		endpointPath: endpointPath,
		serviceToken: serviceToken,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (w *AuthUserSyncWorker) Start(ctx context.Context) {
	log.Println("🔁 Starting Auth User Sync Worker (auth-service → identity_users)…")
	go w.run(ctx)
}

func (w *AuthUserSyncWorker) run(ctx context.Context) {
	// Initial sync (backfill if needed) - sync from the beginning of time
	if err := w.syncBatch(ctx, time.Time{}); err != nil {
		log.Printf("⚠️ Initial sync failed: %v", err)
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			lastSyncTime := w.getLastSyncTime()
			if err := w.syncBatch(ctx, lastSyncTime); err != nil {
				log.Printf("❌ Sync batch failed: %v", err)
			}
		case <-ctx.Done():
			log.Println("⏹️ Auth User Sync Worker stopped")
			return
		}
	}
}

// getLastSyncTime finds the most recent UpdatedAt from the local mirror.
func (w *AuthUserSyncWorker) getLastSyncTime() time.Time {
	var lastTime time.Time
	err := w.db.Raw("SELECT MAX(updated_at) FROM identity_users WHERE deleted_at IS NULL").Scan(&lastTime).Error
	if err != nil || lastTime.IsZero() {
		return time.Unix(0, 0) // Fallback to epoch if no records or error
	}
	return lastTime
}

// syncBatch fetches user changes from the auth service, upserts the mirror,
// and runs provisioning for every user whose email-verified flag flipped on.
func (w *AuthUserSyncWorker) syncBatch(ctx context.Context, since time.Time) error {
	sinceStr := since.UTC().Format(time.RFC3339)

	base, err := url.Parse(w.baseURL)
	if err != nil {
		return fmt.Errorf("invalid auth service URL '%s': %w", w.baseURL, err)
	}

	endpointURL := base.JoinPath(w.endpointPath)
	q := endpointURL.Query()
	q.Set("since", sinceStr)
	endpointURL.RawQuery = q.Encode()
	finalURL := endpointURL.String()

	req, err := http.NewRequestWithContext(ctx, "GET", finalURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request to %s: %w", finalURL, err)
	}
	req.Header.Set("X-Service-Token", w.serviceToken)

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request to auth service failed: %w", err)
	}
	defer func() {
		// Always drain & close to prevent connection leaks
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		log.Printf("[SYNC] ❌ Auth service returned %d for %s: %s", resp.StatusCode, finalURL, string(body))
		return fmt.Errorf("auth service non-200 response: %d — %s", resp.StatusCode, string(body))
	}

	var response GetUserChangesResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return fmt.Errorf("failed to decode auth service response: %w", err)
	}

	if len(response.Users) == 0 {
		return nil
	}

	log.Printf("[SYNC] 📥 Processing %d user(s) from auth service…", len(response.Users))

	var upsertCount, errorCount int
	for _, remoteUser := range response.Users {
		// Snapshot the previous verified flag before the upsert so the
		// false→true transition is observed exactly once per flip.
		var existing models.IdentityUser
		wasVerified := false
		if err := w.db.Where("external_user_id = ?", remoteUser.ExternalID).First(&existing).Error; err == nil {
			wasVerified = existing.EmailVerified
		}

		localUser := models.IdentityUser{
			ExternalUserID: remoteUser.ExternalID,
			Email:          remoteUser.Email,
			EmailVerified:  remoteUser.EmailVerified,
			CreatedAt:      remoteUser.CreatedAt,
			UpdatedAt:      remoteUser.UpdatedAt,
		}

		if err := w.db.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "external_user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"email", "email_verified", "created_at", "updated_at",
			}),
		}).Create(&localUser).Error; err != nil {
			errorCount++
			log.Printf("[SYNC] ⚠️ Failed to upsert identity_user (external_id=%q): %v",
				remoteUser.ExternalID, err)
			continue
		}
		upsertCount++

		if remoteUser.EmailVerified && !wasVerified {
			log.Printf("[SYNC] ✉️ Email verified for %s — provisioning Smart Wallet", remoteUser.ExternalID)
			w.provisioning.ProvisionOnLogin(&localUser)
		}
	}

	log.Printf("[SYNC] ✅ Synced %d user(s) (%d upserted, %d errors)", len(response.Users), upsertCount, errorCount)
	return nil
}
