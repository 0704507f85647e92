package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/noverif/noverif/internal/common"
)

func TestValidateWalletAddress(t *testing.T) {
	tests := []struct {
		name    string
		typ     string
		address string
		wantErr bool
	}{
		{"eth ok", "eth", "0x52908400098527886E0F7030069857D2E4169EE7", false},
		{"ethereum alias ok", "ethereum", "0x52908400098527886e0f7030069857d2e4169ee7", false},
		{"erc20 shares eth format", "usdt", "0x52908400098527886E0F7030069857D2E4169EE7", false},
		{"eth missing prefix", "eth", "52908400098527886E0F7030069857D2E4169EE7", true},
		{"eth too short", "eth", "0x1234", true},
		{"eth non-hex", "eth", "0x5290840009852788ZZ0F7030069857D2E4169EE7", true},
		{"btc legacy ok", "btc", "1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa", false},
		{"btc p2sh ok", "btc", "3J98t1WpEZ73CNmQviecrnyiWrnqRhWNLy", false},
		{"btc bech32 ok", "bitcoin", "bc1qw508d6qejxtdg4y5r3zarvary0c5xw7kv8f3t4", false},
		{"btc bad checksum chars", "btc", "1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfN0", true}, // 0 not in base58
		{"unknown type length ok", "sol", "4Nd1mYQZkzTQTMCcDTqXo5s3mFGyyJbPKuDdnDhGqWwE", false},
		{"unknown type too short", "sol", "abc", true},
		{"unknown type too long", "xrp", strings.Repeat("r", 200), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateWalletAddress(tt.typ, tt.address)
			if tt.wantErr && err == nil {
				t.Fatal("expected error")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if err != nil && !errors.Is(err, common.ErrorValidation) {
				t.Fatalf("error does not wrap ErrorValidation: %v", err)
			}
		})
	}
}

func TestConnect_Validation(t *testing.T) {
	db, _ := newSQLMockDB(t)
	svc := NewWalletService(db, &fakeRepoManager{wallets: &fakeWalletsRepo{}})

	if _, err := svc.Connect(context.Background(), "u-1", "", "0x52908400098527886E0F7030069857D2E4169EE7", ""); !errors.Is(err, common.ErrorValidation) {
		t.Fatalf("expected ErrorValidation for missing type, got %v", err)
	}
	if _, err := svc.Connect(context.Background(), "u-1", "eth", "", ""); !errors.Is(err, common.ErrorValidation) {
		t.Fatalf("expected ErrorValidation for missing address, got %v", err)
	}
	if _, err := svc.Connect(context.Background(), "u-1", "eth", "nope", ""); !errors.Is(err, common.ErrorValidation) {
		t.Fatalf("expected ErrorValidation for bad address, got %v", err)
	}
}

func TestConnect_Duplicate(t *testing.T) {
	db, _ := newSQLMockDB(t)
	svc := NewWalletService(db, &fakeRepoManager{
		wallets: &fakeWalletsRepo{createErr: common.ErrorAlreadyExists},
	})

	_, err := svc.Connect(context.Background(), "u-1", "eth", "0x52908400098527886E0F7030069857D2E4169EE7", "main")
	if !errors.Is(err, common.ErrDuplicateWalletAddress) {
		t.Fatalf("expected ErrDuplicateWalletAddress, got %v", err)
	}
}

func TestConnect_Success(t *testing.T) {
	db, _ := newSQLMockDB(t)
	svc := NewWalletService(db, &fakeRepoManager{wallets: &fakeWalletsRepo{}})

	wallet, err := svc.Connect(context.Background(), "u-1", " eth ", " 0x52908400098527886E0F7030069857D2E4169EE7 ", " main ")
	if err != nil {
		t.Fatalf("Connect error: %v", err)
	}
	if wallet.Type != "eth" || wallet.Name != "main" {
		t.Fatalf("fields not trimmed: %+v", wallet)
	}
	if wallet.Address != "0x52908400098527886E0F7030069857D2E4169EE7" {
		t.Fatalf("address mangled: %q", wallet.Address)
	}
}

func TestRename_NameRequired(t *testing.T) {
	db, _ := newSQLMockDB(t)
	svc := NewWalletService(db, &fakeRepoManager{})

	if err := svc.Rename(context.Background(), "w-1", "u-1", "  "); !errors.Is(err, common.ErrorValidation) {
		t.Fatalf("expected ErrorValidation, got %v", err)
	}
}
