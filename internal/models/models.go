package models

import (
	"time"
)

// User represents a registered account.
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"size:255;not null"`
	Email        string    `json:"email" gorm:"size:255;uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Event is the core event model. Its invitation list lives in the
// participation rows, never on the event itself.
type Event struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	Title       string     `json:"title" gorm:"size:255;not null"`
	Description string     `json:"description" gorm:"type:text"`
	Date        string     `json:"date" gorm:"column:event_date;size:10;not null;index"` // YYYY-MM-DD
	Time        string     `json:"time" gorm:"column:event_time;size:5;not null"`        // HH:MM
	Visibility  Visibility `json:"visibility" gorm:"type:varchar(16);not null;default:'public'"`
	CreatorID   uint       `json:"creatorId" gorm:"not null;index"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`

	Creator      User            `json:"creator" gorm:"foreignKey:CreatorID"`
	Participants []Participation `json:"participants,omitempty" gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE"`
}

// IsPublic reports whether anyone may see the event.
func (e *Event) IsPublic() bool {
	return e.Visibility != VisibilityPrivate
}

// InvitedEmails lists the emails on the event's participation ledger.
// Public events have no invitation list.
func (e *Event) InvitedEmails() []string {
	if e.IsPublic() {
		return nil
	}
	emails := make([]string, 0, len(e.Participants))
	for _, p := range e.Participants {
		emails = append(emails, p.Email)
	}
	return emails
}

// Participation links one email address to one event. UserID stays nil
// until the invited email is claimed by an account.
type Participation struct {
	ID         uint       `json:"id" gorm:"primaryKey"`
	EventID    uint       `json:"eventId" gorm:"not null;uniqueIndex:idx_participant_event_email;uniqueIndex:idx_participant_event_user"`
	Email      string     `json:"email" gorm:"size:255;not null;uniqueIndex:idx_participant_event_email"`
	UserID     *uint      `json:"userId" gorm:"uniqueIndex:idx_participant_event_user"`
	RsvpStatus RsvpStatus `json:"rsvpStatus" gorm:"type:varchar(16);not null;default:'pending'"`
	IsAdmin    bool       `json:"isAdmin" gorm:"not null;default:false"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`

	User *User `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL"`
}

// TableName keeps the participants table name stable.
func (Participation) TableName() string {
	return "event_participants"
}

// BoundTo reports whether the participation is claimed by the given user.
func (p *Participation) BoundTo(userID uint) bool {
	return p.UserID != nil && userID != 0 && *p.UserID == userID
}
