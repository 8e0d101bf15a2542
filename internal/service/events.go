package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/eventplanner/eventplanner-api/internal/metrics"
	"github.com/eventplanner/eventplanner-api/internal/models"
	"github.com/eventplanner/eventplanner-api/internal/policy"
	"github.com/eventplanner/eventplanner-api/internal/store"
)

// Roles accepted by EventFilter.Role.
const (
	RoleOrganizer   = "organizer"
	RoleParticipant = "participant"
	RoleInvited     = "invited"
)

// EventInput is the payload of Create.
type EventInput struct {
	Title       string
	Description string
	Date        string
	Time        string
	// Visibility defaults to public.
	Visibility models.Visibility
	// InvitedEmails get a pending participation each, created together
	// with the event.
	InvitedEmails []string
}

// EventUpdate is a partial update. Nil fields are left untouched.
type EventUpdate struct {
	Title       *string
	Description *string
	Date        *string
	Time        *string
	Visibility  *models.Visibility
}

// EventFilter narrows List. Zero values match everything visible.
type EventFilter struct {
	Keyword string
	From    string
	To      string
	// Role is empty, RoleOrganizer, RoleParticipant or RoleInvited.
	Role string
}

// EventService orchestrates the event lifecycle.
type EventService struct {
	base
}

// NewEventService returns an EventService.
func NewEventService(s *store.Store, logger *log.Logger) *EventService {
	return &EventService{base: newBase(s, logger)}
}

// Create stores a new event owned by the creator together with the
// creator's own admin participation. Either both rows exist or neither.
func (s *EventService) Create(ctx context.Context, in EventInput, creatorID uint) (*EventView, error) {
	creator, err := s.requireActor(ctx, creatorID)
	if err != nil {
		return nil, err
	}

	ev := &models.Event{Description: in.Description, CreatorID: creator.ID}
	if ev.Title, err = normalizeTitle(in.Title); err != nil {
		return nil, err
	}
	if ev.Date, err = normalizeDate(in.Date); err != nil {
		return nil, err
	}
	if ev.Time, err = normalizeTime(in.Time); err != nil {
		return nil, err
	}
	switch in.Visibility {
	case "":
		ev.Visibility = models.VisibilityPublic
	case models.VisibilityPublic, models.VisibilityPrivate:
		ev.Visibility = in.Visibility
	default:
		return nil, invalid("unknown visibility %q", in.Visibility)
	}

	invited, err := normalizeEmails(in.InvitedEmails, creator.Email)
	if err != nil {
		return nil, err
	}

	err = s.store.Transaction(ctx, func(tx *store.Store) error {
		if err := tx.InsertEvent(ctx, ev); err != nil {
			return fmt.Errorf("insert event: %w", err)
		}
		err := tx.InsertParticipation(ctx, &models.Participation{
			EventID:    ev.ID,
			Email:      creator.Email,
			UserID:     &creator.ID,
			RsvpStatus: models.RsvpYes,
			IsAdmin:    true,
		})
		if err != nil {
			return err
		}
		for _, email := range invited {
			p, err := pendingInvitation(ctx, tx, ev.ID, email)
			if err != nil {
				return err
			}
			if err := tx.InsertParticipation(ctx, p); err != nil {
				if errors.Is(err, store.ErrDuplicate) {
					return ErrAlreadyInvited
				}
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.EventsCreated.Inc()
	metrics.Invitations.Add(float64(len(invited)))
	s.logger.Info("event created", "event_id", ev.ID, "creator_id", creator.ID, "visibility", ev.Visibility, "invited", len(invited))
	return s.view(ctx, ev.ID, creator)
}

// List returns the events the actor may see that match the filter, ordered
// by date and time.
func (s *EventService) List(ctx context.Context, actorID uint, f EventFilter) ([]EventView, error) {
	a, err := s.actor(ctx, actorID)
	if err != nil {
		return nil, err
	}

	q := store.EventQuery{Keyword: f.Keyword}
	if f.From != "" {
		if q.From, err = normalizeDate(f.From); err != nil {
			return nil, err
		}
	}
	if f.To != "" {
		if q.To, err = normalizeDate(f.To); err != nil {
			return nil, err
		}
	}

	keep := func(ev *models.Event) bool { return policy.CanView(ev, a) }
	switch f.Role {
	case "":
	case RoleOrganizer, RoleParticipant, RoleInvited:
		if a.Anonymous() {
			return nil, ErrNotAuthenticated
		}
	default:
		return nil, invalid("role must be one of %s, %s, %s", RoleOrganizer, RoleParticipant, RoleInvited)
	}
	switch f.Role {
	case RoleOrganizer:
		q.CreatorID = a.ID
	case RoleParticipant:
		keep = func(ev *models.Event) bool {
			return ev.CreatorID != a.ID && policy.ParticipationOf(ev, a) != nil
		}
	case RoleInvited:
		keep = func(ev *models.Event) bool { return isPendingFor(ev, a) }
	}

	events, err := s.store.ListEvents(ctx, q, keep)
	if err != nil {
		return nil, err
	}
	views := make([]EventView, 0, len(events))
	for i := range events {
		views = append(views, *newEventView(&events[i], a))
	}
	return views, nil
}

// Organized returns the events the actor created.
func (s *EventService) Organized(ctx context.Context, actorID uint) ([]EventView, error) {
	return s.List(ctx, actorID, EventFilter{Role: RoleOrganizer})
}

// Invited returns the events holding an unanswered invitation for the actor.
func (s *EventService) Invited(ctx context.Context, actorID uint) ([]EventView, error) {
	return s.List(ctx, actorID, EventFilter{Role: RoleInvited})
}

// Get returns one event. Missing events and events the actor may not see
// are reported identically.
func (s *EventService) Get(ctx context.Context, id uint, actorID uint) (*EventView, error) {
	a, err := s.actor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, id, a)
}

// Update applies the non-nil fields of upd. Only the creator may update.
func (s *EventService) Update(ctx context.Context, id uint, upd EventUpdate, actorID uint) (*EventView, error) {
	a, err := s.requireActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	ev, err := s.modifiable(ctx, id, a)
	if err != nil {
		return nil, err
	}

	changes := map[string]interface{}{}
	if upd.Title != nil {
		title, err := normalizeTitle(*upd.Title)
		if err != nil {
			return nil, err
		}
		changes["title"] = title
	}
	if upd.Description != nil {
		changes["description"] = *upd.Description
	}
	if upd.Date != nil {
		date, err := normalizeDate(*upd.Date)
		if err != nil {
			return nil, err
		}
		changes["event_date"] = date
	}
	if upd.Time != nil {
		tm, err := normalizeTime(*upd.Time)
		if err != nil {
			return nil, err
		}
		changes["event_time"] = tm
	}
	if upd.Visibility != nil {
		switch *upd.Visibility {
		case models.VisibilityPublic, models.VisibilityPrivate:
			changes["visibility"] = *upd.Visibility
		default:
			return nil, invalid("unknown visibility %q", *upd.Visibility)
		}
	}

	if err := s.store.UpdateEvent(ctx, ev, changes); err != nil {
		return nil, err
	}
	if len(changes) > 0 {
		s.logger.Info("event updated", "event_id", ev.ID, "fields", len(changes))
	}
	return s.view(ctx, ev.ID, a)
}

// Delete removes the event and all its participations. Only the creator may
// delete.
func (s *EventService) Delete(ctx context.Context, id uint, actorID uint) error {
	a, err := s.requireActor(ctx, actorID)
	if err != nil {
		return err
	}
	ev, err := s.modifiable(ctx, id, a)
	if err != nil {
		return err
	}

	if err := s.store.DeleteEvent(ctx, ev.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrEventNotFound
		}
		return err
	}
	s.logger.Info("event deleted", "event_id", ev.ID, "actor_id", a.ID)
	return nil
}

// visible loads an event and hides it from actors who may not see it.
func (s *EventService) visible(ctx context.Context, id uint, a *policy.Actor) (*models.Event, error) {
	return loadVisible(ctx, s.store, id, a)
}

func (s *EventService) modifiable(ctx context.Context, id uint, a *policy.Actor) (*models.Event, error) {
	ev, err := s.visible(ctx, id, a)
	if err != nil {
		return nil, err
	}
	if !policy.CanModify(ev, a) {
		return nil, ErrNotEventOwner
	}
	return ev, nil
}

func (s *EventService) view(ctx context.Context, id uint, a *policy.Actor) (*EventView, error) {
	ev, err := s.visible(ctx, id, a)
	if err != nil {
		return nil, err
	}
	return newEventView(ev, a), nil
}

func loadVisible(ctx context.Context, st *store.Store, id uint, a *policy.Actor) (*models.Event, error) {
	ev, err := st.FindEventByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}
	if !policy.CanView(ev, a) {
		return nil, ErrEventNotFound
	}
	return ev, nil
}

// isPendingFor reports whether ev holds an unanswered invitation for the
// actor, bound to the account or addressed to its email.
func isPendingFor(ev *models.Event, a *policy.Actor) bool {
	if p := policy.ParticipationOf(ev, a); p != nil {
		return p.RsvpStatus == models.RsvpPending
	}
	inv := policy.PendingInvitation(ev, a.Email)
	return inv != nil && inv.UserID == nil
}
