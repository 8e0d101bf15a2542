package service

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"
	"github.com/eventplanner/eventplanner-api/internal/metrics"
	"github.com/eventplanner/eventplanner-api/internal/models"
	"github.com/eventplanner/eventplanner-api/internal/policy"
	"github.com/eventplanner/eventplanner-api/internal/store"
)

// ParticipantService manages invitations, joins and RSVPs.
type ParticipantService struct {
	base
}

// NewParticipantService returns a ParticipantService.
func NewParticipantService(s *store.Store, logger *log.Logger) *ParticipantService {
	return &ParticipantService{base: newBase(s, logger)}
}

// Invite adds a pending participation for email. Only admin participants
// may invite, and an email can be on an event's ledger at most once. If
// the email belongs to an account the row is bound to it right away.
func (s *ParticipantService) Invite(ctx context.Context, eventID uint, email string, actorID uint) (*ParticipantView, error) {
	a, err := s.requireActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if email, err = normalizeEmail(email); err != nil {
		return nil, err
	}

	ev, err := loadVisible(ctx, s.store, eventID, a)
	if err != nil {
		return nil, err
	}
	if !policy.IsAdmin(ev, a) {
		return nil, ErrNotEventAdmin
	}
	for _, p := range ev.Participants {
		if p.Email == email {
			return nil, ErrAlreadyInvited
		}
	}

	p, err := pendingInvitation(ctx, s.store, ev.ID, email)
	if err != nil {
		return nil, err
	}
	if p.UserID != nil && policy.ParticipationOf(ev, &policy.Actor{ID: *p.UserID}) != nil {
		return nil, ErrAlreadyInvited
	}

	if err := s.store.InsertParticipation(ctx, p); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrAlreadyInvited
		}
		return nil, err
	}

	metrics.Invitations.Inc()
	s.logger.Info("participant invited", "event_id", ev.ID, "participation_id", p.ID, "bound", p.UserID != nil)
	return s.byEmail(ctx, ev.ID, email)
}

// Join makes the actor a participant. With an invite email the matching
// unclaimed invitation is bound to the actor in place; without one a new
// participation is created, which requires a public event.
func (s *ParticipantService) Join(ctx context.Context, eventID uint, actorID uint, inviteEmail string) (*ParticipantView, error) {
	a, err := s.requireActor(ctx, actorID)
	if err != nil {
		return nil, err
	}

	ev, err := s.store.FindEventByID(ctx, eventID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}
	if policy.ParticipationOf(ev, a) != nil {
		return nil, ErrAlreadyJoined
	}
	if !policy.CanJoin(ev, a, inviteEmail) {
		switch {
		case !policy.CanView(ev, a):
			return nil, ErrEventNotFound
		case inviteEmail != "":
			return nil, ErrInvitationNotFound
		default:
			return nil, ErrCannotJoin
		}
	}

	if inviteEmail != "" {
		return s.claim(ctx, ev, a, inviteEmail)
	}

	for _, p := range ev.Participants {
		if p.Email == a.Email {
			// An unclaimed invitation already holds the actor's email.
			return nil, ErrAlreadyInvited
		}
	}
	p := &models.Participation{
		EventID:    ev.ID,
		Email:      a.Email,
		UserID:     &a.ID,
		RsvpStatus: models.RsvpYes,
	}
	if err := s.store.InsertParticipation(ctx, p); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrAlreadyJoined
		}
		return nil, err
	}

	metrics.Joins.WithLabelValues("open").Inc()
	s.logger.Info("participant joined", "event_id", ev.ID, "user_id", a.ID)
	return s.byUser(ctx, ev.ID, a.ID)
}

// claim binds the unclaimed pending row for email to the actor. The email
// need not be the actor's account email: holding the invite is enough.
func (s *ParticipantService) claim(ctx context.Context, ev *models.Event, a *policy.Actor, email string) (*ParticipantView, error) {
	var inv *models.Participation
	for i := range ev.Participants {
		p := &ev.Participants[i]
		if p.Email == email && p.UserID == nil && p.RsvpStatus == models.RsvpPending {
			inv = p
			break
		}
	}
	if inv == nil {
		return nil, ErrInvitationNotFound
	}

	ok, err := s.store.ClaimInvitation(ctx, inv.ID, a.ID)
	if errors.Is(err, store.ErrDuplicate) {
		return nil, ErrAlreadyJoined
	}
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvitationNotFound
	}

	metrics.Joins.WithLabelValues("invite").Inc()
	s.logger.Info("invitation claimed", "event_id", ev.ID, "participation_id", inv.ID, "user_id", a.ID)
	return s.byUser(ctx, ev.ID, a.ID)
}

// UpdateRsvp sets the status of the actor's own participation.
func (s *ParticipantService) UpdateRsvp(ctx context.Context, eventID uint, actorID uint, status string) (*ParticipantView, error) {
	a, err := s.requireActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	st, err := models.ParseRsvpStatus(status)
	if err != nil {
		return nil, ErrInvalidStatus
	}

	ev, err := loadVisible(ctx, s.store, eventID, a)
	if err != nil {
		return nil, err
	}
	p := policy.ParticipationOf(ev, a)
	if p == nil {
		return nil, ErrNotAParticipant
	}

	p.RsvpStatus = st
	if err := s.store.UpdateParticipation(ctx, p); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotAParticipant
		}
		return nil, err
	}
	s.logger.Debug("rsvp updated", "event_id", ev.ID, "user_id", a.ID, "status", st)
	return s.byUser(ctx, ev.ID, a.ID)
}

// List returns the participations of an event the actor may see.
func (s *ParticipantService) List(ctx context.Context, eventID uint, actorID uint) ([]ParticipantView, error) {
	a, err := s.actor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	ev, err := loadVisible(ctx, s.store, eventID, a)
	if err != nil {
		return nil, err
	}
	ps, err := s.store.ListParticipations(ctx, ev.ID)
	if err != nil {
		return nil, err
	}
	return newParticipantViews(ps), nil
}

func (s *ParticipantService) byUser(ctx context.Context, eventID, userID uint) (*ParticipantView, error) {
	p, err := s.store.FindParticipationByUser(ctx, eventID, userID)
	if err != nil {
		return nil, err
	}
	return newParticipantView(p), nil
}

func (s *ParticipantService) byEmail(ctx context.Context, eventID uint, email string) (*ParticipantView, error) {
	p, err := s.store.FindParticipationByEmail(ctx, eventID, email)
	if err != nil {
		return nil, err
	}
	return newParticipantView(p), nil
}

// pendingInvitation builds the pending row for email, bound to the account
// registered with that email if there is one.
func pendingInvitation(ctx context.Context, st *store.Store, eventID uint, email string) (*models.Participation, error) {
	p := &models.Participation{
		EventID:    eventID,
		Email:      email,
		RsvpStatus: models.RsvpPending,
	}
	u, err := st.FindUserByEmail(ctx, email)
	switch {
	case err == nil:
		p.UserID = &u.ID
	case !errors.Is(err, store.ErrNotFound):
		return nil, err
	}
	return p, nil
}
