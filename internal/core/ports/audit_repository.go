package ports

import (
	"context"

	"github.com/ledgerline/backoffice-portal/internal/core/domain"
)

// AuditRepository persists session transitions.
type AuditRepository interface {
	InsertEvent(ctx context.Context, event domain.SessionEvent) error
}
