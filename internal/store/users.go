package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"hitolicious-api/internal/apperr"
	"hitolicious-api/internal/models"

	"github.com/lib/pq"
)

const pqUniqueViolation = "23505"

// CreateCustomer inserts a new storefront account
func (s *Store) CreateCustomer(ctx context.Context, c *models.Customer) error {
	query := `
		INSERT INTO users (customer_fullname, customer_birthday, customer_email, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := s.db.GetContext(ctx, c, query, c.FullName, c.Birthday, c.Email, c.PasswordHash)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
		return apperr.Conflict("email already registered: %s", c.Email)
	}
	if err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}
	return nil
}

// GetCustomerByEmail retrieves a customer account, nil if absent
func (s *Store) GetCustomerByEmail(ctx context.Context, email string) (*models.Customer, error) {
	var c models.Customer
	err := s.db.GetContext(ctx, &c, "SELECT * FROM users WHERE customer_email = $1", email)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetAdminByEmail retrieves an admin account, nil if absent
func (s *Store) GetAdminByEmail(ctx context.Context, email string) (*models.Admin, error) {
	var a models.Admin
	err := s.db.GetContext(ctx, &a, "SELECT * FROM admins WHERE admin_email = $1", email)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// InsertAdminLog appends one row to the admin action log
func (s *Store) InsertAdminLog(ctx context.Context, adminName, action string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO admin_logs (admin_name, action) VALUES ($1, $2)",
		adminName, action)
	return err
}

// GetAdminLogs retrieves the most recent log entries
func (s *Store) GetAdminLogs(ctx context.Context, limit int) ([]models.AdminLogEntry, error) {
	var entries []models.AdminLogEntry
	err := s.db.SelectContext(ctx, &entries,
		"SELECT * FROM admin_logs ORDER BY created_at DESC LIMIT $1", limit)
	return entries, err
}

// IsEventProcessed checks if an event has been processed
func (s *Store) IsEventProcessed(ctx context.Context, eventID string) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists,
		"SELECT EXISTS(SELECT 1 FROM processed_events WHERE event_id = $1)", eventID)
	return exists, err
}

// MarkEventProcessed marks an event as processed
func (s *Store) MarkEventProcessed(ctx context.Context, eventID, eventType string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO processed_events (event_id, event_type) VALUES ($1, $2) ON CONFLICT (event_id) DO NOTHING",
		eventID, eventType)
	return err
}
