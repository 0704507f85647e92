// Command admintool creates the first admin account (or promotes an
// existing user to admin) directly against the database. The password is
// prompted, never taken from argv.
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"syscall"

	_ "github.com/jackc/pgx/v5/stdlib"
	"golang.org/x/term"

	"github.com/noverif/noverif/internal/common"
	"github.com/noverif/noverif/internal/server/auth"
	"github.com/noverif/noverif/internal/server/config"
	"github.com/noverif/noverif/internal/server/models"
	"github.com/noverif/noverif/internal/server/repositories/repomanager"
)

func main() {
	var dsn, email string
	flag.StringVar(&dsn, "d", "", "database DSN (defaults to server config)")
	flag.StringVar(&email, "e", "", "admin email")
	flag.Parse()

	if err := run(dsn, email); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(dsn, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return fmt.Errorf("valid -e email required")
	}

	if dsn == "" {
		cfg := &config.Config{}
		cfg.LoadDefaults()
		dsn = cfg.DatabaseDSN
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("db open error: %w", err)
	}
	defer db.Close()

	ctx := context.Background()
	m := repomanager.NewPostgresRepositoryManager()
	if err := m.RunMigrations(ctx, db); err != nil {
		return err
	}

	repo := m.Users(db)
	existing, err := repo.GetByEmail(ctx, email)
	if err == nil {
		if existing.Role == models.RoleAdmin {
			fmt.Printf("%s is already an admin\n", email)
			return nil
		}
		return promote(ctx, db, existing.ID, email)
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return err
	}

	password, err := promptPassword()
	if err != nil {
		return err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	if _, err := repo.Create(ctx, &models.User{
		Email:        email,
		PasswordHash: hash,
		Name:         "Administrator",
		Role:         models.RoleAdmin,
	}); err != nil {
		return err
	}

	fmt.Printf("admin %s created\n", email)
	return nil
}

func promote(ctx context.Context, db *sql.DB, id, email string) error {
	if _, err := db.ExecContext(ctx, `UPDATE users SET role = $2 WHERE id = $1`, id, models.RoleAdmin); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	fmt.Printf("%s promoted to admin\n", email)
	return nil
}

func promptPassword() (string, error) {
	fmt.Print("Password: ")
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("error reading password: %w", err)
	}

	fmt.Print("Repeat password: ")
	confirm, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("error reading password: %w", err)
	}

	if string(password) != string(confirm) {
		return "", fmt.Errorf("passwords do not match")
	}
	if len(password) < 8 {
		return "", fmt.Errorf("password must be at least 8 characters")
	}
	return string(password), nil
}
