package service

import (
	"context"
	"io"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/eventplanner/eventplanner-api/internal/models"
	"github.com/eventplanner/eventplanner-api/internal/store"
	"github.com/eventplanner/eventplanner-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	ctx          context.Context
	store        *store.Store
	events       *EventService
	participants *ParticipantService

	owner    *models.User
	friend   *models.User
	stranger *models.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s := testutil.NewStore(t)
	logger := log.New(io.Discard)
	return &fixture{
		ctx:          context.Background(),
		store:        s,
		events:       NewEventService(s, logger),
		participants: NewParticipantService(s, logger),
		owner:        testutil.CreateUser(t, s, "Owner", "owner@example.com"),
		friend:       testutil.CreateUser(t, s, "Friend", "friend@example.com"),
		stranger:     testutil.CreateUser(t, s, "Stranger", "stranger@example.com"),
	}
}

func (f *fixture) createEvent(t *testing.T, title string, vis models.Visibility) *EventView {
	t.Helper()
	ev, err := f.events.Create(f.ctx, EventInput{
		Title:      title,
		Date:       "2025-01-10",
		Time:       "09:00",
		Visibility: vis,
	}, f.owner.ID)
	require.NoError(t, err)
	return ev
}

func (f *fixture) count(t *testing.T, eventID uint, email string) int64 {
	t.Helper()
	n, err := f.store.CountParticipations(f.ctx, eventID, email)
	require.NoError(t, err)
	return n
}

// concurrently runs fn n times at once and returns the errors in call order.
func concurrently(n int, fn func() error) []error {
	var wg sync.WaitGroup
	start := make(chan struct{})
	errs := make([]error, n)
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			errs[i] = fn()
		}()
	}
	close(start)
	wg.Wait()
	return errs
}

// assertOneWinner checks that exactly one call succeeded and every other
// one lost with a conflict.
func assertOneWinner(t *testing.T, errs []error) {
	t.Helper()
	won := 0
	for _, err := range errs {
		if err == nil {
			won++
			continue
		}
		assert.ErrorIs(t, err, ErrConflict)
	}
	assert.Equal(t, 1, won, "successful calls")
}
