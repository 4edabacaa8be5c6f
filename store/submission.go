package store

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Submission is a persisted form submission: one package or task the
// backend notified a recipient about. The human-facing tracking code is
// independent from the authorization token id.
type Submission struct {
	ID           string    `gorm:"primaryKey" json:"id"`
	TrackingCode string    `gorm:"uniqueIndex" json:"tracking_code"`
	Kind         Kind      `json:"kind"`
	Recipient    string    `json:"recipient"`
	Subject      string    `json:"subject"`
	Description  string    `json:"description"`
	ImageURL     string    `json:"image_url,omitempty"`
	Street       string    `json:"street,omitempty"`
	City         string    `json:"city,omitempty"`
	Country      string    `json:"country,omitempty"`
	MapLinkURL   string    `json:"map_link_url,omitempty"`
	Locale       string    `json:"locale,omitempty"`
	TokenID      string    `gorm:"index" json:"token_id"`
	Authorized   bool      `json:"authorized"`
	AuthorizedAt *time.Time `json:"authorized_at,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func (Submission) TableName() string {
	return "submissions"
}

// SubmissionStore provides operations for persisted submissions.
type SubmissionStore struct {
	DB *gorm.DB
}

// NewSubmissionStore creates a new SubmissionStore.
func NewSubmissionStore(db *gorm.DB) *SubmissionStore {
	return &SubmissionStore{DB: db}
}

// GenerateTrackingCode creates a cryptographically secure 12-digit
// numeric tracking code.
func GenerateTrackingCode() (string, error) {
	var code string
	for i := 0; i < 12; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("failed to generate random digit: %w", err)
		}
		code += fmt.Sprintf("%d", n.Int64())
	}
	return code, nil
}

// Create persists a submission, assigning an id when missing.
func (s *SubmissionStore) Create(ctx context.Context, sub *Submission) error {
	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = time.Now().UTC()
	}
	if err := s.DB.WithContext(ctx).Create(sub).Error; err != nil {
		return fmt.Errorf("failed to save submission: %w", err)
	}
	return nil
}

// GetByTrackingCode looks up a submission by its human-facing code.
// Returns (nil, nil) when no submission matches.
func (s *SubmissionStore) GetByTrackingCode(ctx context.Context, code string) (*Submission, error) {
	var sub Submission
	err := s.DB.WithContext(ctx).Where("tracking_code = ?", code).First(&sub).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &sub, nil
}

// MarkAuthorized records the authorization click against the submission
// that issued the given token and returns its tracking code. Idempotent:
// already-authorized rows stay untouched but still report their code.
func (s *SubmissionStore) MarkAuthorized(ctx context.Context, tokenID string) (string, error) {
	var sub Submission
	err := s.DB.WithContext(ctx).Where("token_id = ?", tokenID).First(&sub).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", nil
		}
		return "", err
	}
	if sub.Authorized {
		return sub.TrackingCode, nil
	}
	now := time.Now().UTC()
	err = s.DB.WithContext(ctx).Model(&Submission{}).
		Where("token_id = ? AND authorized = FALSE", tokenID).
		Updates(map[string]interface{}{
			"authorized":    true,
			"authorized_at": now,
		}).Error
	return sub.TrackingCode, err
}

// ListRecent returns up to limit submissions, newest first.
func (s *SubmissionStore) ListRecent(ctx context.Context, limit int) ([]Submission, error) {
	if limit <= 0 {
		limit = 50
	}
	var subs []Submission
	err := s.DB.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&subs).Error
	return subs, err
}

// DeleteOlderThan removes submissions created before the cutoff
// (retention cleanup job). Returns the number of rows removed.
func (s *SubmissionStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := s.DB.WithContext(ctx).Where("created_at < ?", cutoff).Delete(&Submission{})
	return result.RowsAffected, result.Error
}
