package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/noverif/noverif/internal/common"
	"github.com/noverif/noverif/internal/server/models"
	"github.com/noverif/noverif/internal/server/repositories/repomanager"
)

// Address shapes per currency family. ERC-20 tokens share the Ethereum
// account format. Anything we have no pattern for falls back to a plain
// length check.
var (
	ethAddressRe = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)
	btcAddressRe = regexp.MustCompile(`^(bc1[02-9ac-hj-np-z]{11,87}|[13][1-9A-HJ-NP-Za-km-z]{25,34})$`)
)

const (
	genericAddressMinLen = 20
	genericAddressMaxLen = 120
)

// ValidateWalletAddress checks that address plausibly belongs to the given
// currency type. It validates shape only; no network lookups.
func ValidateWalletAddress(walletType, address string) error {
	switch strings.ToLower(walletType) {
	case "eth", "ethereum", "erc20", "usdt", "usdc":
		if !ethAddressRe.MatchString(address) {
			return fmt.Errorf("%w: invalid ethereum-family address", common.ErrorValidation)
		}
	case "btc", "bitcoin":
		if !btcAddressRe.MatchString(address) {
			return fmt.Errorf("%w: invalid bitcoin address", common.ErrorValidation)
		}
	default:
		if l := len(address); l < genericAddressMinLen || l > genericAddressMaxLen {
			return fmt.Errorf("%w: address length out of range", common.ErrorValidation)
		}
	}
	return nil
}

// WalletService manages cryptocurrency addresses users attach to their
// profile. Addresses are deduplicated per user, case-insensitively.
type WalletService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewWalletService(db *sql.DB, m repomanager.RepositoryManager) *WalletService {
	return &WalletService{db: db, repomanager: m}
}

// Connect validates and stores a wallet address. A case-insensitive
// duplicate of an address the user already connected yields
// common.ErrDuplicateWalletAddress and creates nothing.
func (s *WalletService) Connect(ctx context.Context, userID, walletType, address, name string) (*models.Wallet, error) {
	walletType = strings.TrimSpace(walletType)
	address = strings.TrimSpace(address)
	if walletType == "" {
		return nil, fmt.Errorf("%w: wallet type required", common.ErrorValidation)
	}
	if address == "" {
		return nil, fmt.Errorf("%w: address required", common.ErrorValidation)
	}
	if err := ValidateWalletAddress(walletType, address); err != nil {
		return nil, err
	}

	wallet, err := s.repomanager.Wallets(s.db).Create(ctx, &models.Wallet{
		UserID:  userID,
		Type:    walletType,
		Address: address,
		Name:    strings.TrimSpace(name),
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrDuplicateWalletAddress
		}
		return nil, err
	}
	return wallet, nil
}

func (s *WalletService) ListByUser(ctx context.Context, userID string) ([]*models.Wallet, error) {
	return s.repomanager.Wallets(s.db).ListByUser(ctx, userID)
}

// ListAll is the admin overview.
func (s *WalletService) ListAll(ctx context.Context) ([]*models.Wallet, error) {
	return s.repomanager.Wallets(s.db).ListAll(ctx)
}

// Rename updates the display name of the user's own wallet.
func (s *WalletService) Rename(ctx context.Context, id, userID, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: name required", common.ErrorValidation)
	}
	return s.repomanager.Wallets(s.db).Rename(ctx, id, userID, name)
}

// Disconnect removes the user's own wallet.
func (s *WalletService) Disconnect(ctx context.Context, id, userID string) error {
	return s.repomanager.Wallets(s.db).Delete(ctx, id, userID)
}
