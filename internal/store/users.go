package store

import (
	"context"

	"github.com/eventplanner/eventplanner-api/internal/models"
)

// FindUserByID returns the user with the given id.
func (s *Store) FindUserByID(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, WrapError(err)
	}
	return &u, nil
}

// FindUserByEmail returns the user registered with email. The match is
// case-sensitive.
func (s *Store) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, WrapError(err)
	}
	return &u, nil
}

// InsertUser creates u and fills in its id. A taken email yields ErrDuplicate.
func (s *Store) InsertUser(ctx context.Context, u *models.User) error {
	return WrapError(s.db.WithContext(ctx).Create(u).Error)
}
