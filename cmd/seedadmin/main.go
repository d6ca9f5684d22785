package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/mpetrenko/craftsite/internal/apperrors"
	"github.com/mpetrenko/craftsite/internal/db"
	"github.com/mpetrenko/craftsite/internal/models"
	"github.com/mpetrenko/craftsite/internal/repository/postgres"
	"github.com/mpetrenko/craftsite/internal/service/auth"
)

const (
	defaultAdminUsername = "admin"
	defaultAdminPassword = "admin123"
)

// Creates the initial admin account if it does not exist yet.
// Safe to run more than once.
func main() {
	if err := run(context.Background()); err != nil {
		fmt.Printf("Seed failed: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	dsn := os.Getenv("DATABASE_URI")
	if dsn == "" {
		return errors.New("DATABASE_URI must be set")
	}

	username := os.Getenv("ADMIN_USERNAME")
	if username == "" {
		username = defaultAdminUsername
	}
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = defaultAdminPassword
	}

	pool, err := db.ConnectAndMigrate(ctx, dsn)
	if err != nil {
		return fmt.Errorf("error while connecting to db. Err: %w", err)
	}
	defer pool.Close()

	storage := postgres.NewStorage(pool)

	hash, err := auth.DefaultHasher.Hash(password)
	if err != nil {
		return fmt.Errorf("error while hashing password. Err: %w", err)
	}

	_, err = storage.User().CreateUser(ctx, username, hash, models.RoleAdmin)
	switch {
	case errors.Is(err, apperrors.ErrUserAlreadyExists):
		fmt.Println("Admin already exists")
		return nil
	case err != nil:
		return fmt.Errorf("error while creating admin. Err: %w", err)
	}

	fmt.Println("Admin created:")
	fmt.Printf("   username: %s\n", username)
	fmt.Printf("   password: %s\n", password)
	return nil
}
