package users

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/noverif/noverif/internal/common"
	"github.com/noverif/noverif/internal/server/models"
)

func newMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewPostgresRepository(db), mock
}

func TestCreate_Success(t *testing.T) {
	repo, mock := newMock(t)

	now := time.Now()
	mock.ExpectQuery(`(?s)^\s*INSERT\s+INTO\s+users\s+\(email, password_hash, name, phone, address, role\).*RETURNING id, created_at`).
		WithArgs("a@b.example", []byte("hash"), "Alice", "", "", models.RoleUser).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow("u-1", now))

	user, err := repo.Create(context.Background(), &models.User{
		Email:        "a@b.example",
		PasswordHash: []byte("hash"),
		Name:         "Alice",
		Role:         models.RoleUser,
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if user.ID != "u-1" || !user.CreatedAt.Equal(now) {
		t.Fatalf("returned fields not populated: %+v", user)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock := newMock(t)

	dbErr := errors.New("connection reset")
	mock.ExpectQuery(`(?s)^\s*INSERT\s+INTO\s+users`).WillReturnError(dbErr)

	_, err := repo.Create(context.Background(), &models.User{Email: "a@b.example", Role: models.RoleUser})
	if !errors.Is(err, dbErr) {
		t.Fatalf("db error not wrapped: %v", err)
	}
}

func TestGetByEmail_NotFound(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(`(?s)^SELECT .* FROM users WHERE lower\(email\) = lower\(\$1\)`).
		WithArgs("ghost@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByEmail(context.Background(), "ghost@example.com")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected ErrorNotFound, got %v", err)
	}
}

func TestUpdateProfile_ZeroRows(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectExec(`^UPDATE users SET name = \$2, phone = \$3, address = \$4 WHERE id = \$1$`).
		WithArgs("u-missing", "Bob", "", "").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateProfile(context.Background(), "u-missing", "Bob", "", "")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected ErrorNotFound, got %v", err)
	}
}

func TestGetByID_MapsBankDetails(t *testing.T) {
	repo, mock := newMock(t)

	now := time.Now()
	completed := now.Add(time.Hour)
	rows := sqlmock.NewRows([]string{
		"id", "email", "password_hash", "name", "phone", "address", "role", "suspended",
		"virtual_bank_status", "virtual_bank_created_at", "virtual_bank_completed_at",
		"bank_name", "bank_address", "account_owner", "account_type", "account_number",
		"routing_number", "swift_code", "created_at",
	}).AddRow(
		"u-1", "a@b.example", []byte("hash"), "Alice", "", "", "user", false,
		"completed", now, completed,
		"First National", "1 Main St", "Alice", "checking", "123456789012",
		"021000021", "", now,
	)
	mock.ExpectQuery(`(?s)^SELECT .* FROM users WHERE id = \$1$`).
		WithArgs("u-1").WillReturnRows(rows)

	user, err := repo.GetByID(context.Background(), "u-1")
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if user.BankDetails == nil {
		t.Fatal("bank details not mapped")
	}
	if user.BankDetails.AccountNumber != "123456789012" {
		t.Errorf("account number = %q", user.BankDetails.AccountNumber)
	}
	if user.VirtualBankCompletedAt == nil || !user.VirtualBankCompletedAt.Equal(completed) {
		t.Error("completion timestamp not mapped")
	}
}

func TestGetByID_NoBankDetails(t *testing.T) {
	repo, mock := newMock(t)

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "email", "password_hash", "name", "phone", "address", "role", "suspended",
		"virtual_bank_status", "virtual_bank_created_at", "virtual_bank_completed_at",
		"bank_name", "bank_address", "account_owner", "account_type", "account_number",
		"routing_number", "swift_code", "created_at",
	}).AddRow(
		"u-1", "a@b.example", []byte("hash"), "Alice", "", "", "user", false,
		"", nil, nil,
		nil, nil, nil, nil, nil,
		nil, nil, now,
	)
	mock.ExpectQuery(`(?s)^SELECT .* FROM users WHERE id = \$1$`).
		WithArgs("u-1").WillReturnRows(rows)

	user, err := repo.GetByID(context.Background(), "u-1")
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if user.BankDetails != nil {
		t.Fatal("bank details must stay nil before completion")
	}
}
