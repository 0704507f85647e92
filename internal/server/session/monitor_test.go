package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/noverif/noverif/internal/dbx"
	"github.com/noverif/noverif/internal/logging"
	"github.com/noverif/noverif/internal/server/models"
	"github.com/noverif/noverif/internal/server/repositories/repomanager"
	sessionsrepo "github.com/noverif/noverif/internal/server/repositories/sessions"
)

type fakeSessionsRepo struct {
	sessionsrepo.Repository

	idleCutoffs  []time.Time
	idleRoles    []models.Role
	idleOut      int64
	idleErr      error
	expiredCalls []time.Time
	expiredOut   int64
}

func (f *fakeSessionsRepo) DeleteIdle(ctx context.Context, role models.Role, cutoff time.Time) (int64, error) {
	f.idleRoles = append(f.idleRoles, role)
	f.idleCutoffs = append(f.idleCutoffs, cutoff)
	return f.idleOut, f.idleErr
}

func (f *fakeSessionsRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	f.expiredCalls = append(f.expiredCalls, now)
	return f.expiredOut, nil
}

type fakeManager struct {
	repomanager.RepositoryManager

	sessions *fakeSessionsRepo
}

func (m *fakeManager) Sessions(dbx.DBTX) sessionsrepo.Repository { return m.sessions }

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestSweep_DeletesIdleAtCutoff(t *testing.T) {
	repo := &fakeSessionsRepo{idleOut: 2, expiredOut: 1}
	m := NewMonitor(nil, &fakeManager{sessions: repo}, nil, testLogger())

	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	m.sweep(context.Background(), Profile{
		Role:         models.RoleUser,
		Timeout:      15 * time.Minute,
		PollInterval: 30 * time.Second,
	})

	if len(repo.idleCutoffs) != 1 {
		t.Fatal("idle sweep did not run")
	}
	if got, want := repo.idleCutoffs[0], now.Add(-15*time.Minute); !got.Equal(want) {
		t.Errorf("idle cutoff = %v, want %v", got, want)
	}
	if repo.idleRoles[0] != models.RoleUser {
		t.Errorf("idle role = %s, want user", repo.idleRoles[0])
	}
	if len(repo.expiredCalls) != 1 || !repo.expiredCalls[0].Equal(now) {
		t.Error("expiry sweep did not run with the sweep time")
	}
}

func TestSweep_AdminProfileUsesShorterTimeout(t *testing.T) {
	repo := &fakeSessionsRepo{}
	m := NewMonitor(nil, &fakeManager{sessions: repo}, nil, testLogger())

	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	m.sweep(context.Background(), Profile{
		Role:         models.RoleAdmin,
		Timeout:      5 * time.Minute,
		PollInterval: 15 * time.Second,
	})

	if got, want := repo.idleCutoffs[0], now.Add(-5*time.Minute); !got.Equal(want) {
		t.Errorf("idle cutoff = %v, want %v", got, want)
	}
}

func TestSweep_IdleErrorSkipsExpiry(t *testing.T) {
	repo := &fakeSessionsRepo{idleErr: errors.New("db down")}
	m := NewMonitor(nil, &fakeManager{sessions: repo}, nil, testLogger())

	m.sweep(context.Background(), Profile{Role: models.RoleUser, Timeout: time.Minute})

	if len(repo.expiredCalls) != 0 {
		t.Fatal("expiry sweep must not run after a failed idle sweep")
	}
}

func TestStart_StopsOnContextCancel(t *testing.T) {
	repo := &fakeSessionsRepo{}
	m := NewMonitor(nil, &fakeManager{sessions: repo}, []Profile{
		{Role: models.RoleUser, Timeout: time.Minute, PollInterval: time.Hour},
	}, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	m.Start(ctx)
	cancel()

	done := make(chan struct{})
	go func() {
		m.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("monitor did not stop after cancel")
	}
}
