package privacy

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"
)

// Store is the persistence surface the privacy service needs.
type Store interface {
	DeleteResponse(ctx context.Context, id string) error
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// Invalidator is notified after records are removed so derived caches can be dropped.
type Invalidator interface {
	Invalidate()
}

// PurgeRecorder receives purge counts. *monitoring.Metrics satisfies it.
type PurgeRecorder interface {
	RecordRetentionPurge(n int64)
}

// DefaultRetentionDays applies when no retention window is configured.
const DefaultRetentionDays = 365

// Service handles erasure requests and the retention window for quiz leads.
type Service struct {
	store         Store
	retentionDays int
	contactEmail  string
	invalidators  []Invalidator
	recorder      PurgeRecorder
	now           func() time.Time
}

// NewService creates a privacy service. retentionDays <= 0 selects DefaultRetentionDays.
func NewService(store Store, retentionDays int, contactEmail string) *Service {
	if retentionDays <= 0 {
		retentionDays = DefaultRetentionDays
	}
	return &Service{
		store:         store,
		retentionDays: retentionDays,
		contactEmail:  contactEmail,
		now:           time.Now,
	}
}

// OnDelete registers caches to invalidate after deletions.
func (s *Service) OnDelete(inv ...Invalidator) {
	s.invalidators = append(s.invalidators, inv...)
}

// SetRecorder wires purge counts into metrics.
func (s *Service) SetRecorder(r PurgeRecorder) {
	s.recorder = r
}

// HashIdentifier anonymizes a client identifier (IP address) before storage.
// Empty input stays empty so "unknown" is not conflated with a real hash.
func HashIdentifier(s string) string {
	if s == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// DeleteResponse erases a single stored response on request.
func (s *Service) DeleteResponse(ctx context.Context, id string) error {
	slog.Info("Initiating data deletion", "response_id", id)

	if err := s.store.DeleteResponse(ctx, id); err != nil {
		return err
	}
	s.invalidate()

	slog.Info("Data deletion completed", "response_id", id)
	return nil
}

// PurgeExpired removes responses older than retentionDays (the configured window when <= 0).
func (s *Service) PurgeExpired(ctx context.Context, retentionDays int) (int64, error) {
	if retentionDays <= 0 {
		retentionDays = s.retentionDays
	}
	cutoff := s.now().AddDate(0, 0, -retentionDays)

	n, err := s.store.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge expired responses: %w", err)
	}

	if n > 0 {
		s.invalidate()
	}
	if s.recorder != nil {
		s.recorder.RecordRetentionPurge(n)
	}

	slog.Info("Data cleanup completed", "cutoff_date", cutoff.Format(time.RFC3339), "responses_deleted", n)
	return n, nil
}

func (s *Service) invalidate() {
	for _, inv := range s.invalidators {
		inv.Invalidate()
	}
}

// Policy describes how quiz data is handled.
type Policy struct {
	RetentionDays       int      `json:"retentionDays"`
	IdentifierHashing   string   `json:"identifierHashing"`
	StoredFields        []string `json:"storedFields"`
	DeletionRequestPath string   `json:"deletionRequestPath"`
	ContactEmail        string   `json:"contactEmail,omitempty"`
}

// RetentionPolicy describes the active retention and anonymization rules.
func (s *Service) RetentionPolicy() Policy {
	return Policy{
		RetentionDays:     s.retentionDays,
		IdentifierHashing: "SHA-256",
		StoredFields: []string{
			"answers", "type_code", "axis_scores", "reliability",
			"email (optional)", "source (optional)", "ip_hash", "user_agent",
		},
		DeletionRequestPath: "/api/v1/admin/responses/{id}",
		ContactEmail:        s.contactEmail,
	}
}
