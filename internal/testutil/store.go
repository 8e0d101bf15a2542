// Package testutil provides helpers shared by package tests.
package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/eventplanner/eventplanner-api/internal/config"
	"github.com/eventplanner/eventplanner-api/internal/models"
	"github.com/eventplanner/eventplanner-api/internal/store"
)

// NewStore returns a migrated store backed by a sqlite file in a temporary
// directory. It is closed when the test ends.
func NewStore(t *testing.T) *store.Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := store.Open(config.DBConfig{
		Driver:     "sqlite",
		DataSource: path + "?_foreign_keys=on&_busy_timeout=5000",
	}, nil)
	if err != nil {
		t.Fatalf("store.Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() }) // nolint: errcheck
	if err := s.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate() failed: %v", err)
	}
	return s
}

// CreateUser inserts a user with a placeholder password hash.
func CreateUser(t *testing.T, s *store.Store, name, email string) *models.User {
	t.Helper()
	u := &models.User{Name: name, Email: email, PasswordHash: "x"}
	if err := s.InsertUser(context.Background(), u); err != nil {
		t.Fatalf("InsertUser(%q) failed: %v", email, err)
	}
	return u
}
