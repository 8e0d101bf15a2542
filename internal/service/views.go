package service

import (
	"time"

	"github.com/eventplanner/eventplanner-api/internal/models"
	"github.com/eventplanner/eventplanner-api/internal/policy"
)

// UserView is the public shape of a user.
type UserView struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// ParticipantView is the public shape of a participation.
type ParticipantView struct {
	ID         uint              `json:"id"`
	EventID    uint              `json:"eventId"`
	Email      string            `json:"email"`
	User       *UserView         `json:"user"`
	RsvpStatus models.RsvpStatus `json:"rsvpStatus"`
	IsAdmin    bool              `json:"isAdmin"`
	CreatedAt  time.Time         `json:"createdAt"`
}

// EventView is an event as seen by one caller. The isPublic and isPrivate
// flags are both derived from Visibility.
type EventView struct {
	ID            uint              `json:"id"`
	Title         string            `json:"title"`
	Description   string            `json:"description"`
	Date          string            `json:"date"`
	Time          string            `json:"time"`
	Visibility    models.Visibility `json:"visibility"`
	IsPublic      bool              `json:"isPublic"`
	IsPrivate     bool              `json:"isPrivate"`
	InvitedEmails []string          `json:"invitedEmails"`
	CreatorID     uint              `json:"creatorId"`
	Creator       UserView          `json:"creator"`
	CreatedAt     time.Time         `json:"createdAt"`
	Participants  []ParticipantView `json:"participants"`

	IsCurrentUserAdmin    bool               `json:"isCurrentUserAdmin"`
	CurrentUserRsvpStatus *models.RsvpStatus `json:"currentUserRsvpStatus"`
}

// AuthResult is returned by sign-up and login.
type AuthResult struct {
	Token string    `json:"token"`
	User  *UserView `json:"user"`
}

func newUserView(u *models.User) *UserView {
	if u == nil {
		return nil
	}
	return &UserView{ID: u.ID, Name: u.Name, Email: u.Email, CreatedAt: u.CreatedAt}
}

func newParticipantView(p *models.Participation) *ParticipantView {
	return &ParticipantView{
		ID:         p.ID,
		EventID:    p.EventID,
		Email:      p.Email,
		User:       newUserView(p.User),
		RsvpStatus: p.RsvpStatus,
		IsAdmin:    p.IsAdmin,
		CreatedAt:  p.CreatedAt,
	}
}

func newParticipantViews(ps []models.Participation) []ParticipantView {
	views := make([]ParticipantView, 0, len(ps))
	for i := range ps {
		views = append(views, *newParticipantView(&ps[i]))
	}
	return views
}

func newEventView(ev *models.Event, a *policy.Actor) *EventView {
	invited := ev.InvitedEmails()
	if invited == nil {
		invited = []string{}
	}
	v := &EventView{
		ID:            ev.ID,
		Title:         ev.Title,
		Description:   ev.Description,
		Date:          ev.Date,
		Time:          ev.Time,
		Visibility:    ev.Visibility,
		IsPublic:      ev.IsPublic(),
		IsPrivate:     !ev.IsPublic(),
		InvitedEmails: invited,
		CreatorID:     ev.CreatorID,
		Creator:       *newUserView(&ev.Creator),
		CreatedAt:     ev.CreatedAt,
		Participants:  newParticipantViews(ev.Participants),
	}
	if p := policy.ParticipationOf(ev, a); p != nil {
		st := p.RsvpStatus
		v.IsCurrentUserAdmin = p.IsAdmin
		v.CurrentUserRsvpStatus = &st
	}
	return v
}
