package service

import (
	"context"
	"errors"
	"testing"

	"hitolicious-api/internal/models"

	"github.com/stretchr/testify/assert"
)

type fakeAuditStore struct {
	admins    map[string]*models.Admin
	lookupErr error
	insertErr error
	logged    []models.AdminLogEntry
}

func (f *fakeAuditStore) GetAdminByEmail(_ context.Context, email string) (*models.Admin, error) {
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	return f.admins[email], nil
}

func (f *fakeAuditStore) InsertAdminLog(_ context.Context, adminName, action string) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.logged = append(f.logged, models.AdminLogEntry{AdminName: adminName, Action: action})
	return nil
}

func (f *fakeAuditStore) GetAdminLogs(_ context.Context, limit int) ([]models.AdminLogEntry, error) {
	if limit < len(f.logged) {
		return f.logged[:limit], nil
	}
	return f.logged, nil
}

func TestLogActionResolvesEmailToDisplayName(t *testing.T) {
	fake := &fakeAuditStore{admins: map[string]*models.Admin{
		"maria@hitolicious.com": {FullName: "Maria Santos", Email: "maria@hitolicious.com"},
	}}
	al := NewAuditLogger(fake)

	al.LogAction(context.Background(), "maria@hitolicious.com", "Archived order #12")

	assert.Len(t, fake.logged, 1)
	assert.Equal(t, "Maria Santos", fake.logged[0].AdminName)
	assert.Equal(t, "Archived order #12", fake.logged[0].Action)
}

func TestLogActionFallsBackToRawIdentifier(t *testing.T) {
	tests := []struct {
		name       string
		identifier string
		store      *fakeAuditStore
		wantName   string
	}{
		{
			name:       "unknown email",
			identifier: "ghost@hitolicious.com",
			store:      &fakeAuditStore{},
			wantName:   "ghost@hitolicious.com",
		},
		{
			name:       "lookup failure",
			identifier: "maria@hitolicious.com",
			store:      &fakeAuditStore{lookupErr: errors.New("connection refused")},
			wantName:   "maria@hitolicious.com",
		},
		{
			name:       "plain display name skips lookup",
			identifier: "Maria Santos",
			store:      &fakeAuditStore{lookupErr: errors.New("must not be called")},
			wantName:   "Maria Santos",
		},
		{
			name:       "empty identifier",
			identifier: "",
			store:      &fakeAuditStore{},
			wantName:   "admin",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			al := NewAuditLogger(tt.store)

			al.LogAction(context.Background(), tt.identifier, "did something")

			assert.Len(t, tt.store.logged, 1)
			assert.Equal(t, tt.wantName, tt.store.logged[0].AdminName)
		})
	}
}

// Log writes are best-effort: a failing insert must not propagate.
func TestLogActionSwallowsWriteFailure(t *testing.T) {
	fake := &fakeAuditStore{insertErr: errors.New("table dropped")}
	al := NewAuditLogger(fake)

	assert.NotPanics(t, func() {
		al.LogAction(context.Background(), "Maria Santos", "Updated stock")
	})
	assert.Empty(t, fake.logged)
}
