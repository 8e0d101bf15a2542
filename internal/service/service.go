// Package service implements the event planner's use cases: accounts, the
// event lifecycle and participation reconciliation. Every operation takes
// the acting user's id explicitly; 0 means anonymous.
package service

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"
	"github.com/eventplanner/eventplanner-api/internal/policy"
	"github.com/eventplanner/eventplanner-api/internal/store"
)

type base struct {
	store  *store.Store
	logger *log.Logger
}

func newBase(s *store.Store, logger *log.Logger) base {
	if logger == nil {
		logger = log.Default()
	}
	return base{store: s, logger: logger}
}

// actor resolves the acting user. An actor id of 0 yields a nil, anonymous
// actor. An id that no longer names a user is not authenticated.
func (b *base) actor(ctx context.Context, actorID uint) (*policy.Actor, error) {
	if actorID == 0 {
		return nil, nil
	}
	u, err := b.store.FindUserByID(ctx, actorID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotAuthenticated
	}
	if err != nil {
		return nil, err
	}
	return &policy.Actor{ID: u.ID, Email: u.Email}, nil
}

// requireActor is actor for operations that need an authenticated user.
func (b *base) requireActor(ctx context.Context, actorID uint) (*policy.Actor, error) {
	if actorID == 0 {
		return nil, ErrNotAuthenticated
	}
	return b.actor(ctx, actorID)
}
