package service

import (
	"testing"

	"github.com/eventplanner/eventplanner-api/internal/models"
	"github.com/eventplanner/eventplanner-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvite(t *testing.T) {
	f := newFixture(t)
	ev := f.createEvent(t, "Dinner", models.VisibilityPrivate)

	t.Run("unknown email stays unbound", func(t *testing.T) {
		p, err := f.participants.Invite(f.ctx, ev.ID, "later@example.com", f.owner.ID)
		require.NoError(t, err)
		assert.Equal(t, models.RsvpPending, p.RsvpStatus)
		assert.False(t, p.IsAdmin)
		assert.Nil(t, p.User)
	})

	t.Run("registered email is pre-bound", func(t *testing.T) {
		p, err := f.participants.Invite(f.ctx, ev.ID, f.friend.Email, f.owner.ID)
		require.NoError(t, err)
		require.NotNil(t, p.User)
		assert.Equal(t, f.friend.ID, p.User.ID)
		assert.Equal(t, models.RsvpPending, p.RsvpStatus)
	})

	t.Run("duplicate is refused", func(t *testing.T) {
		_, err := f.participants.Invite(f.ctx, ev.ID, "later@example.com", f.owner.ID)
		assert.ErrorIs(t, err, ErrAlreadyInvited)
		assert.ErrorIs(t, err, ErrConflict)
		assert.EqualValues(t, 1, f.count(t, ev.ID, "later@example.com"))

		_, err = f.participants.Invite(f.ctx, ev.ID, f.owner.Email, f.owner.ID)
		assert.ErrorIs(t, err, ErrAlreadyInvited)
	})

	t.Run("only admins invite", func(t *testing.T) {
		// friend can see the event but is not an admin
		_, err := f.participants.Invite(f.ctx, ev.ID, "x@example.com", f.friend.ID)
		assert.ErrorIs(t, err, ErrNotEventAdmin)
		assert.ErrorIs(t, err, ErrNotAuthorized)

		_, err = f.participants.Invite(f.ctx, ev.ID, "x@example.com", f.stranger.ID)
		assert.ErrorIs(t, err, ErrEventNotFound, "private events stay hidden")

		_, err = f.participants.Invite(f.ctx, ev.ID, "x@example.com", 0)
		assert.ErrorIs(t, err, ErrNotAuthenticated)
		assert.Zero(t, f.count(t, ev.ID, "x@example.com"))
	})

	t.Run("invalid email", func(t *testing.T) {
		for _, email := range []string{"", "not-an-email", "Name <name@example.com>"} {
			_, err := f.participants.Invite(f.ctx, ev.ID, email, f.owner.ID)
			assert.ErrorIs(t, err, ErrInvalid, email)
		}
	})

	t.Run("missing event", func(t *testing.T) {
		_, err := f.participants.Invite(f.ctx, ev.ID+100, "y@example.com", f.owner.ID)
		assert.ErrorIs(t, err, ErrEventNotFound)
	})
}

func TestInviteUserAlreadyBoundUnderOtherEmail(t *testing.T) {
	f := newFixture(t)
	ev := f.createEvent(t, "Offsite", models.VisibilityPrivate)

	_, err := f.participants.Invite(f.ctx, ev.ID, "friend.alias@example.com", f.owner.ID)
	require.NoError(t, err)
	_, err = f.participants.Join(f.ctx, ev.ID, f.friend.ID, "friend.alias@example.com")
	require.NoError(t, err)

	_, err = f.participants.Invite(f.ctx, ev.ID, f.friend.Email, f.owner.ID)
	assert.ErrorIs(t, err, ErrAlreadyInvited)
}

func TestJoinInviteClaim(t *testing.T) {
	f := newFixture(t)
	ev := f.createEvent(t, "Offsite", models.VisibilityPrivate)
	_, err := f.participants.Invite(f.ctx, ev.ID, "newcomer@example.com", f.owner.ID)
	require.NoError(t, err)
	before := f.count(t, ev.ID, "")

	newcomer := testutil.CreateUser(t, f.store, "Newcomer", "newcomer@example.com")
	p, err := f.participants.Join(f.ctx, ev.ID, newcomer.ID, "newcomer@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.RsvpYes, p.RsvpStatus)
	require.NotNil(t, p.User)
	assert.Equal(t, newcomer.ID, p.User.ID)
	assert.Equal(t, "newcomer@example.com", p.Email)
	assert.Equal(t, before, f.count(t, ev.ID, ""), "claiming never adds a row")

	// once bound, joining again fails whatever the path
	_, err = f.participants.Join(f.ctx, ev.ID, newcomer.ID, "")
	assert.ErrorIs(t, err, ErrConflict)
	_, err = f.participants.Join(f.ctx, ev.ID, newcomer.ID, "newcomer@example.com")
	assert.ErrorIs(t, err, ErrAlreadyJoined)

	got, err := f.events.Get(f.ctx, ev.ID, newcomer.ID)
	require.NoError(t, err)
	require.NotNil(t, got.CurrentUserRsvpStatus)
	assert.Equal(t, models.RsvpYes, *got.CurrentUserRsvpStatus)
}

func TestJoinInviteClaimedByOtherAccount(t *testing.T) {
	f := newFixture(t)
	ev := f.createEvent(t, "Offsite", models.VisibilityPublic)
	_, err := f.participants.Invite(f.ctx, ev.ID, "shared@example.com", f.owner.ID)
	require.NoError(t, err)

	_, err = f.participants.Join(f.ctx, ev.ID, f.friend.ID, "shared@example.com")
	require.NoError(t, err)

	// the row is claimed: a second account cannot take it over
	_, err = f.participants.Join(f.ctx, ev.ID, f.stranger.ID, "shared@example.com")
	assert.ErrorIs(t, err, ErrInvitationNotFound)
}

func TestJoinInviteNotFound(t *testing.T) {
	f := newFixture(t)
	priv := f.createEvent(t, "Private", models.VisibilityPrivate)
	pub := f.createEvent(t, "Public", models.VisibilityPublic)

	_, err := f.participants.Join(f.ctx, pub.ID, f.friend.ID, "nobody@example.com")
	assert.ErrorIs(t, err, ErrInvitationNotFound)

	_, err = f.participants.Join(f.ctx, priv.ID, f.stranger.ID, "nobody@example.com")
	assert.ErrorIs(t, err, ErrEventNotFound, "outsiders learn nothing about private events")

	// a pre-bound invitation cannot be claimed through its email by someone else
	_, err = f.participants.Invite(f.ctx, pub.ID, f.friend.Email, f.owner.ID)
	require.NoError(t, err)
	_, err = f.participants.Join(f.ctx, pub.ID, f.stranger.ID, f.friend.Email)
	assert.ErrorIs(t, err, ErrInvitationNotFound)
}

func TestJoinOpen(t *testing.T) {
	f := newFixture(t)
	pub := f.createEvent(t, "Public", models.VisibilityPublic)

	p, err := f.participants.Join(f.ctx, pub.ID, f.friend.ID, "")
	require.NoError(t, err)
	assert.Equal(t, models.RsvpYes, p.RsvpStatus)
	assert.False(t, p.IsAdmin)
	assert.Equal(t, f.friend.Email, p.Email)

	_, err = f.participants.Join(f.ctx, pub.ID, f.friend.ID, "")
	assert.ErrorIs(t, err, ErrAlreadyJoined)
	assert.EqualValues(t, 1, f.count(t, pub.ID, f.friend.Email))

	_, err = f.participants.Join(f.ctx, pub.ID, f.owner.ID, "")
	assert.ErrorIs(t, err, ErrAlreadyJoined, "the creator already participates")

	_, err = f.participants.Join(f.ctx, pub.ID, 0, "")
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	_, err = f.participants.Join(f.ctx, pub.ID+100, f.friend.ID, "")
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestJoinOpenPrivate(t *testing.T) {
	f := newFixture(t)
	priv := f.createEvent(t, "Private", models.VisibilityPrivate)

	_, err := f.participants.Join(f.ctx, priv.ID, f.stranger.ID, "")
	assert.ErrorIs(t, err, ErrEventNotFound)

	// invitees may see the event but must join through their invitation
	_, err = f.participants.Invite(f.ctx, priv.ID, "newcomer@example.com", f.owner.ID)
	require.NoError(t, err)
	newcomer := testutil.CreateUser(t, f.store, "Newcomer", "newcomer@example.com")
	_, err = f.participants.Join(f.ctx, priv.ID, newcomer.ID, "")
	assert.ErrorIs(t, err, ErrCannotJoin)
	assert.ErrorIs(t, err, ErrNotAuthorized)

	// a viewer naming an invitation that does not exist
	_, err = f.participants.Join(f.ctx, priv.ID, newcomer.ID, "someone.else@example.com")
	assert.ErrorIs(t, err, ErrInvitationNotFound)
}

func TestJoinClaimsInvitationForOtherEmail(t *testing.T) {
	f := newFixture(t)
	priv := f.createEvent(t, "Private", models.VisibilityPrivate)
	_, err := f.participants.Invite(f.ctx, priv.ID, "team@example.com", f.owner.ID)
	require.NoError(t, err)

	// holding the invite is enough, whatever the account email
	p, err := f.participants.Join(f.ctx, priv.ID, f.friend.ID, "team@example.com")
	require.NoError(t, err)
	assert.Equal(t, "team@example.com", p.Email)
	require.NotNil(t, p.User)
	assert.Equal(t, f.friend.ID, p.User.ID)

	_, err = f.events.Get(f.ctx, priv.ID, f.friend.ID)
	assert.NoError(t, err)
}

func TestJoinOpenWithUnclaimedInvitation(t *testing.T) {
	f := newFixture(t)
	pub := f.createEvent(t, "Public", models.VisibilityPublic)
	_, err := f.participants.Invite(f.ctx, pub.ID, "newcomer@example.com", f.owner.ID)
	require.NoError(t, err)
	newcomer := testutil.CreateUser(t, f.store, "Newcomer", "newcomer@example.com")

	_, err = f.participants.Join(f.ctx, pub.ID, newcomer.ID, "")
	assert.ErrorIs(t, err, ErrConflict)

	_, err = f.participants.Join(f.ctx, pub.ID, newcomer.ID, "newcomer@example.com")
	require.NoError(t, err)
	assert.EqualValues(t, 1, f.count(t, pub.ID, "newcomer@example.com"))
}

func TestUpdateRsvp(t *testing.T) {
	f := newFixture(t)
	ev := f.createEvent(t, "Dinner", models.VisibilityPrivate)
	_, err := f.participants.Invite(f.ctx, ev.ID, f.friend.Email, f.owner.ID)
	require.NoError(t, err)

	p, err := f.participants.UpdateRsvp(f.ctx, ev.ID, f.friend.ID, "maybe")
	require.NoError(t, err)
	assert.Equal(t, models.RsvpMaybe, p.RsvpStatus)

	all, err := f.participants.List(f.ctx, ev.ID, f.owner.ID)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, models.RsvpYes, all[0].RsvpStatus, "other rows are untouched")
	assert.Equal(t, models.RsvpMaybe, all[1].RsvpStatus)

	_, err = f.participants.UpdateRsvp(f.ctx, ev.ID, f.friend.ID, "going")
	assert.ErrorIs(t, err, ErrInvalidStatus)
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = f.participants.UpdateRsvp(f.ctx, ev.ID, f.stranger.ID, "yes")
	assert.ErrorIs(t, err, ErrEventNotFound)

	pub := f.createEvent(t, "Public", models.VisibilityPublic)
	_, err = f.participants.UpdateRsvp(f.ctx, pub.ID, f.stranger.ID, "yes")
	assert.ErrorIs(t, err, ErrNotAParticipant)

	_, err = f.participants.UpdateRsvp(f.ctx, ev.ID, 0, "yes")
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	// an unclaimed invitation is looked up by account, not by email
	_, err = f.participants.Invite(f.ctx, pub.ID, "later@example.com", f.owner.ID)
	require.NoError(t, err)
	later := testutil.CreateUser(t, f.store, "Later", "later@example.com")
	_, err = f.participants.UpdateRsvp(f.ctx, pub.ID, later.ID, "no")
	assert.ErrorIs(t, err, ErrNotAParticipant)
}

func TestListParticipants(t *testing.T) {
	f := newFixture(t)
	ev := f.createEvent(t, "Dinner", models.VisibilityPrivate)
	_, err := f.participants.Invite(f.ctx, ev.ID, f.friend.Email, f.owner.ID)
	require.NoError(t, err)

	ps, err := f.participants.List(f.ctx, ev.ID, f.friend.ID)
	require.NoError(t, err)
	require.Len(t, ps, 2)
	assert.True(t, ps[0].IsAdmin)
	assert.Equal(t, f.friend.Email, ps[1].Email)

	_, err = f.participants.List(f.ctx, ev.ID, f.stranger.ID)
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestInviteRace(t *testing.T) {
	f := newFixture(t)
	ev := f.createEvent(t, "Popular", models.VisibilityPublic)

	errs := concurrently(8, func() error {
		_, err := f.participants.Invite(f.ctx, ev.ID, "race@example.com", f.owner.ID)
		return err
	})
	assertOneWinner(t, errs)
	assert.EqualValues(t, 1, f.count(t, ev.ID, "race@example.com"))
}

func TestJoinRace(t *testing.T) {
	f := newFixture(t)
	ev := f.createEvent(t, "Popular", models.VisibilityPublic)

	errs := concurrently(8, func() error {
		_, err := f.participants.Join(f.ctx, ev.ID, f.friend.ID, "")
		return err
	})
	assertOneWinner(t, errs)
	assert.EqualValues(t, 1, f.count(t, ev.ID, f.friend.Email))
	assert.EqualValues(t, 2, f.count(t, ev.ID, ""))
}
