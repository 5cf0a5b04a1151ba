package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"hitolicious-api/internal/models"
	"hitolicious-api/internal/util"
)

// auditStore is the slice of the store the audit logger needs
type auditStore interface {
	GetAdminByEmail(ctx context.Context, email string) (*models.Admin, error)
	InsertAdminLog(ctx context.Context, adminName, action string) error
	GetAdminLogs(ctx context.Context, limit int) ([]models.AdminLogEntry, error)
}

// AuditLogger appends admin mutations to the action log. Writing the log is
// best-effort: failures are logged to process output and never surface to
// the caller.
type AuditLogger struct {
	store  auditStore
	logger *zap.Logger
}

// NewAuditLogger creates a new audit logger
func NewAuditLogger(store auditStore) *AuditLogger {
	return &AuditLogger{
		store:  store,
		logger: util.GetLogger(),
	}
}

// LogAction records an admin action. The identifier may be an email (resolved
// to the admin's display name) or already a display name; resolution failures
// fall back to the raw identifier.
func (al *AuditLogger) LogAction(ctx context.Context, identifier, action string) {
	name := al.resolveDisplayName(ctx, identifier)

	if err := al.store.InsertAdminLog(ctx, name, action); err != nil {
		al.logger.Warn("Failed to write admin log",
			zap.String("admin", name),
			zap.String("action", action),
			zap.Error(err))
	}
}

func (al *AuditLogger) resolveDisplayName(ctx context.Context, identifier string) string {
	if identifier == "" {
		return "admin"
	}
	if !strings.Contains(identifier, "@") {
		return identifier
	}

	admin, err := al.store.GetAdminByEmail(ctx, identifier)
	if err != nil {
		al.logger.Warn("Failed to resolve admin display name",
			zap.String("identifier", identifier),
			zap.Error(err))
		return identifier
	}
	if admin == nil || admin.FullName == "" {
		return identifier
	}
	return admin.FullName
}

// RecentEntries returns the newest log entries for the dashboard
func (al *AuditLogger) RecentEntries(ctx context.Context, limit int) ([]models.AdminLogEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	return al.store.GetAdminLogs(ctx, limit)
}
