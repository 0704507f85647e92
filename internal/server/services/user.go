// Package services contains server-side business logic. This file implements
// UserService: registration, sign-in on both surfaces, token refresh with
// rotation, and admin user management.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/noverif/noverif/internal/common"
	"github.com/noverif/noverif/internal/dbx"
	"github.com/noverif/noverif/internal/server/auth"
	"github.com/noverif/noverif/internal/server/config"
	"github.com/noverif/noverif/internal/server/models"
	"github.com/noverif/noverif/internal/server/repositories/repomanager"
)

const minPasswordLength = 8

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// UserService provides account and authentication operations:
//   - Register: create users (no identity verification)
//   - Login: verify credentials per surface and mint tokens
//   - RefreshToken: rotate refresh tokens and mint new access tokens
//   - admin management: list/get/update/suspend/delete
type UserService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                           db,
		repomanager:                  m,
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
	}
}

// generateTokenPair mints an access JWT, a refresh token, and the session
// row the activity monitor tracks. db may be a transaction handle.
func (s *UserService) generateTokenPair(ctx context.Context, userID string, role models.Role, db dbx.DBTX) (*TokenPair, error) {
	accessToken, err := auth.GenerateToken(userID, string(role), s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, fmt.Errorf("error generating access token: %w", err)
	}

	refreshToken := uuid.NewString()
	if err := s.repomanager.RefreshTokens(db).Create(ctx, userID, refreshToken, s.refreshTokenValidityDuration); err != nil {
		return nil, fmt.Errorf("error saving refresh token: %w", err)
	}

	now := time.Now()
	_, err = s.repomanager.Sessions(db).Create(ctx, &models.Session{
		UserID:         userID,
		Role:           role,
		TokenHash:      auth.HashToken(accessToken),
		ExpiresAt:      now.Add(s.accessTokenValidityDuration),
		LastActivityAt: now,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating session: %w", err)
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// Register creates a regular user account and signs it in. Duplicate emails
// yield common.ErrorAlreadyExists.
func (s *UserService) Register(ctx context.Context, email, password, name string) (*models.User, *TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, nil, fmt.Errorf("%w: valid email required", common.ErrorValidation)
	}
	if len(password) < minPasswordLength {
		return nil, nil, fmt.Errorf("%w: password must be at least %d characters", common.ErrorValidation, minPasswordLength)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, nil, fmt.Errorf("error hashing password: %w", err)
	}

	var user *models.User
	var pair *TokenPair
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var txErr error
		user, txErr = s.repomanager.Users(tx).Create(ctx, &models.User{
			Email:        email,
			PasswordHash: hash,
			Name:         strings.TrimSpace(name),
			Role:         models.RoleUser,
		})
		if txErr != nil {
			return txErr
		}
		pair, txErr = s.generateTokenPair(ctx, user.ID, user.Role, tx)
		return txErr
	})
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// Login verifies credentials for the given surface and returns a token pair.
// Unknown email, wrong password, and role mismatch all yield
// common.ErrorUnauthorized so the response never reveals which one it was.
func (s *UserService) Login(ctx context.Context, email, password string, role models.Role) (*models.User, *TokenPair, error) {
	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil, common.ErrorUnauthorized
		}
		return nil, nil, common.ErrorInternal
	}
	if user.Role != role {
		return nil, nil, common.ErrorUnauthorized
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, nil, common.ErrorUnauthorized
	}
	if user.Suspended {
		return nil, nil, common.ErrUserSuspended
	}

	var pair *TokenPair
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var txErr error
		pair, txErr = s.generateTokenPair(ctx, user.ID, user.Role, tx)
		return txErr
	})
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// RefreshToken validates a refresh token, rotates it transactionally, and
// returns a fresh TokenPair. Expired tokens yield ErrRefreshTokenExpired.
func (s *UserService) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	token, err := s.repomanager.RefreshTokens(s.db).Find(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("error searching refresh token: %w", err)
	}
	if token.Expires.Before(time.Now()) {
		return nil, common.ErrRefreshTokenExpired
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, token.UserID)
	if err != nil {
		return nil, common.ErrorUnauthorized
	}
	if user.Suspended {
		return nil, common.ErrUserSuspended
	}

	var pair *TokenPair
	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.RefreshTokens(tx).Delete(ctx, refreshToken); err != nil {
			return fmt.Errorf("error deleting refresh token: %w", err)
		}
		var genErr error
		pair, genErr = s.generateTokenPair(ctx, user.ID, user.Role, tx)
		return genErr
	}); err != nil {
		return nil, err
	}
	return pair, nil
}

// Logout deletes the caller's session and all their stored refresh tokens.
func (s *UserService) Logout(ctx context.Context, userID, accessToken string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Sessions(tx).DeleteByTokenHash(ctx, auth.HashToken(accessToken)); err != nil &&
			!errors.Is(err, common.ErrorNotFound) {
			return err
		}
		return s.repomanager.RefreshTokens(tx).DeleteForUser(ctx, userID)
	})
}

// ChangePassword re-authenticates with the current password before storing
// the new hash.
func (s *UserService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", common.ErrorValidation, minPasswordLength)
	}
	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !auth.CheckPassword(user.PasswordHash, currentPassword) {
		return common.ErrorUnauthorized
	}
	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}
	return s.repomanager.Users(s.db).UpdatePassword(ctx, userID, hash)
}

// UpdateProfile stores the user's contact fields.
func (s *UserService) UpdateProfile(ctx context.Context, userID, name, phone, address string) error {
	return s.repomanager.Users(s.db).UpdateProfile(ctx, userID,
		strings.TrimSpace(name), strings.TrimSpace(phone), strings.TrimSpace(address))
}

// Get returns one user.
func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	return s.repomanager.Users(s.db).GetByID(ctx, id)
}

// List returns all users, newest first.
func (s *UserService) List(ctx context.Context) ([]*models.User, error) {
	return s.repomanager.Users(s.db).List(ctx)
}

// SetSuspended flips the suspended flag. Suspension also revokes the user's
// refresh tokens so a suspended account cannot mint new sessions.
func (s *UserService) SetSuspended(ctx context.Context, id string, suspended bool) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Users(tx).SetSuspended(ctx, id, suspended); err != nil {
			return err
		}
		if suspended {
			return s.repomanager.RefreshTokens(tx).DeleteForUser(ctx, id)
		}
		return nil
	})
}

// Delete removes a user and, via FK cascade, their dependent records.
func (s *UserService) Delete(ctx context.Context, id string) error {
	return s.repomanager.Users(s.db).Delete(ctx, id)
}
