package session

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/noverif/noverif/internal/logging"
	"github.com/noverif/noverif/internal/metrics"
	"github.com/noverif/noverif/internal/server/models"
	"github.com/noverif/noverif/internal/server/repositories/repomanager"
)

// Profile describes one monitored surface: how long a session of the given
// role may idle and how often the monitor checks.
type Profile struct {
	Role         models.Role
	Timeout      time.Duration
	PollInterval time.Duration
}

// Monitor sweeps idle and absolutely-expired sessions out of the store,
// one goroutine per profile. A swept session makes the next authenticated
// request fail with 401, which is the forced sign-out.
type Monitor struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	profiles    []Profile
	logger      logging.Logger
	wg          sync.WaitGroup

	// now is swappable in tests.
	now func() time.Time
}

func NewMonitor(db *sql.DB, m repomanager.RepositoryManager, profiles []Profile, logger logging.Logger) *Monitor {
	return &Monitor{
		db:          db,
		repomanager: m,
		profiles:    profiles,
		logger:      logger.With("component", "session_monitor"),
		now:         time.Now,
	}
}

// Start launches one sweep loop per profile. The loops stop when ctx is
// cancelled; Wait blocks until they are done.
func (m *Monitor) Start(ctx context.Context) {
	for _, p := range m.profiles {
		m.wg.Add(1)
		go func(p Profile) {
			defer m.wg.Done()
			m.run(ctx, p)
		}(p)
	}
}

// Wait blocks until all sweep loops have returned.
func (m *Monitor) Wait() {
	m.wg.Wait()
}

func (m *Monitor) run(ctx context.Context, p Profile) {
	ticker := time.NewTicker(p.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.sweep(ctx, p)
		}
	}
}

func (m *Monitor) sweep(ctx context.Context, p Profile) {
	now := m.now()
	repo := m.repomanager.Sessions(m.db)

	idle, err := repo.DeleteIdle(ctx, p.Role, now.Add(-p.Timeout))
	if err != nil {
		m.logger.Error(ctx, "idle sweep failed", "role", p.Role, "error", err)
		return
	}
	for range idle {
		metrics.RecordSessionExpiry(string(p.Role))
	}

	expired, err := repo.DeleteExpired(ctx, now)
	if err != nil {
		m.logger.Error(ctx, "expiry sweep failed", "role", p.Role, "error", err)
		return
	}

	if idle > 0 || expired > 0 {
		m.logger.Info(ctx, "sessions swept", "role", p.Role, "idle", idle, "expired", expired)
	}
}
