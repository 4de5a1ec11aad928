package privacy

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	deleted []string
	cutoff  time.Time
	purged  int64
	err     error
}

func (f *fakeStore) DeleteResponse(_ context.Context, id string) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeStore) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	f.cutoff = cutoff
	return f.purged, f.err
}

type countingInvalidator struct{ calls int }

func (c *countingInvalidator) Invalidate() { c.calls++ }

type purgeRecorder struct{ total int64 }

func (p *purgeRecorder) RecordRetentionPurge(n int64) { p.total += n }

func TestHashIdentifier(t *testing.T) {
	h := HashIdentifier("203.0.113.7")
	assert.Len(t, h, 64)
	assert.Equal(t, h, HashIdentifier("203.0.113.7"))
	assert.NotEqual(t, h, HashIdentifier("203.0.113.8"))
	assert.Empty(t, HashIdentifier(""))
}

func TestDeleteResponseInvalidates(t *testing.T) {
	store := &fakeStore{}
	inv := &countingInvalidator{}
	svc := NewService(store, 0, "")
	svc.OnDelete(inv)

	require.NoError(t, svc.DeleteResponse(context.Background(), "r-1"))
	assert.Equal(t, []string{"r-1"}, store.deleted)
	assert.Equal(t, 1, inv.calls)

	store.err = errors.New("boom")
	assert.Error(t, svc.DeleteResponse(context.Background(), "r-2"))
	assert.Equal(t, 1, inv.calls)
}

func TestPurgeExpired(t *testing.T) {
	now := time.Date(2026, 10, 19, 3, 0, 0, 0, time.UTC)
	store := &fakeStore{purged: 4}
	inv := &countingInvalidator{}
	rec := &purgeRecorder{}

	svc := NewService(store, 30, "")
	svc.now = func() time.Time { return now }
	svc.OnDelete(inv)
	svc.SetRecorder(rec)

	n, err := svc.PurgeExpired(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
	assert.Equal(t, now.AddDate(0, 0, -30), store.cutoff)
	assert.Equal(t, 1, inv.calls)
	assert.Equal(t, int64(4), rec.total)

	store.purged = 0
	_, err = svc.PurgeExpired(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, now.AddDate(0, 0, -7), store.cutoff)
	assert.Equal(t, 1, inv.calls, "nothing purged, nothing to invalidate")
}

func TestRetentionPolicy(t *testing.T) {
	policy := NewService(&fakeStore{}, 0, "privacy@example.com").RetentionPolicy()

	assert.Equal(t, DefaultRetentionDays, policy.RetentionDays)
	assert.Equal(t, "SHA-256", policy.IdentifierHashing)
	assert.Equal(t, "privacy@example.com", policy.ContactEmail)
	assert.Contains(t, policy.StoredFields, "ip_hash")
}
