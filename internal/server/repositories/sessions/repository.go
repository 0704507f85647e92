package sessions

import (
	"context"
	"time"

	"github.com/noverif/noverif/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, session *models.Session) (*models.Session, error)
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.Session, error)
	// Touch overwrites the session's last-activity timestamp
	// (last-writer-wins; the value only moves forward in practice).
	Touch(ctx context.Context, id string, at time.Time) error
	DeleteByID(ctx context.Context, id string) error
	DeleteByTokenHash(ctx context.Context, tokenHash string) error
	// DeleteIdle removes sessions of the given role whose last activity is
	// before cutoff and returns how many were removed.
	DeleteIdle(ctx context.Context, role models.Role, cutoff time.Time) (int64, error)
	// DeleteExpired removes sessions past their absolute expiry.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
