// Package policy decides who may see, modify and join an event.
//
// Every function is a pure predicate over an event whose participants are
// loaded and the acting user. None of them fail: callers turn a false into
// a not-found or not-authorized outcome.
package policy

import (
	"github.com/eventplanner/eventplanner-api/internal/models"
)

// Actor is the user a request acts for. A nil Actor, or one with a zero ID,
// is anonymous.
type Actor struct {
	ID    uint
	Email string
}

// Anonymous reports whether no user is authenticated.
func (a *Actor) Anonymous() bool {
	return a == nil || a.ID == 0
}

// ParticipationOf returns the actor's bound participation on ev, or nil.
func ParticipationOf(ev *models.Event, a *Actor) *models.Participation {
	if ev == nil || a.Anonymous() {
		return nil
	}
	for i := range ev.Participants {
		if ev.Participants[i].BoundTo(a.ID) {
			return &ev.Participants[i]
		}
	}
	return nil
}

// IsAdmin reports whether the actor holds an admin participation on ev.
func IsAdmin(ev *models.Event, a *Actor) bool {
	p := ParticipationOf(ev, a)
	return p != nil && p.IsAdmin
}

// IsInvited reports whether the actor's account email is on the event's
// invitation list.
func IsInvited(ev *models.Event, a *Actor) bool {
	if ev == nil || a.Anonymous() || a.Email == "" {
		return false
	}
	for _, email := range ev.InvitedEmails() {
		if email == a.Email {
			return true
		}
	}
	return false
}

// CanView reports whether the actor may see ev. Public events are visible
// to everyone; private ones only to the creator, participants and invitees.
func CanView(ev *models.Event, a *Actor) bool {
	if ev == nil {
		return false
	}
	if ev.IsPublic() {
		return true
	}
	if a.Anonymous() {
		return false
	}
	return ev.CreatorID == a.ID || ParticipationOf(ev, a) != nil || IsInvited(ev, a)
}

// CanModify reports whether the actor may update or delete ev. Only the
// creator may.
func CanModify(ev *models.Event, a *Actor) bool {
	return ev != nil && !a.Anonymous() && ev.CreatorID == a.ID
}

// CanJoin reports whether the actor may join ev: the event is public, the
// actor created it, or inviteEmail names a pending invitation on it.
// Whether the actor already participates is checked by the caller.
func CanJoin(ev *models.Event, a *Actor, inviteEmail string) bool {
	if ev == nil || a.Anonymous() {
		return false
	}
	if ev.IsPublic() || ev.CreatorID == a.ID {
		return true
	}
	return PendingInvitation(ev, inviteEmail) != nil
}

// PendingInvitation returns the pending participation for email on ev, or
// nil.
func PendingInvitation(ev *models.Event, email string) *models.Participation {
	if ev == nil || email == "" {
		return nil
	}
	for i := range ev.Participants {
		p := &ev.Participants[i]
		if p.Email == email && p.RsvpStatus == models.RsvpPending {
			return p
		}
	}
	return nil
}
