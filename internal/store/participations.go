package store

import (
	"context"

	"github.com/eventplanner/eventplanner-api/internal/models"
	"gorm.io/gorm/clause"
)

// InsertParticipation creates p. A second row for the same (event, email)
// or (event, user) pair yields ErrDuplicate.
func (s *Store) InsertParticipation(ctx context.Context, p *models.Participation) error {
	return WrapError(s.db.WithContext(ctx).Omit(clause.Associations).Create(p).Error)
}

// FindParticipationByEmail returns the row for email on the event.
func (s *Store) FindParticipationByEmail(ctx context.Context, eventID uint, email string) (*models.Participation, error) {
	var p models.Participation
	err := s.db.WithContext(ctx).
		Preload("User").
		Where("event_id = ? AND email = ?", eventID, email).
		First(&p).Error
	if err != nil {
		return nil, WrapError(err)
	}
	return &p, nil
}

// FindParticipationByUser returns the row bound to userID on the event.
func (s *Store) FindParticipationByUser(ctx context.Context, eventID, userID uint) (*models.Participation, error) {
	var p models.Participation
	err := s.db.WithContext(ctx).
		Preload("User").
		Where("event_id = ? AND user_id = ?", eventID, userID).
		First(&p).Error
	if err != nil {
		return nil, WrapError(err)
	}
	return &p, nil
}

// ListParticipations returns every participation of the event in creation order.
func (s *Store) ListParticipations(ctx context.Context, eventID uint) ([]models.Participation, error) {
	var ps []models.Participation
	err := s.db.WithContext(ctx).
		Preload("User").
		Where("event_id = ?", eventID).
		Order("id asc").
		Find(&ps).Error
	if err != nil {
		return nil, WrapError(err)
	}
	return ps, nil
}

// UpdateParticipation saves the mutable columns of p.
func (s *Store) UpdateParticipation(ctx context.Context, p *models.Participation) error {
	res := s.db.WithContext(ctx).
		Model(&models.Participation{}).
		Where("id = ?", p.ID).
		Updates(map[string]interface{}{
			"user_id":     p.UserID,
			"rsvp_status": p.RsvpStatus,
			"is_admin":    p.IsAdmin,
		})
	if res.Error != nil {
		return WrapError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ClaimInvitation binds the unclaimed row id to userID and accepts it. It
// returns false when the row is gone or was claimed by someone else first.
func (s *Store) ClaimInvitation(ctx context.Context, id, userID uint) (bool, error) {
	res := s.db.WithContext(ctx).
		Model(&models.Participation{}).
		Where("id = ? AND user_id IS NULL", id).
		Updates(map[string]interface{}{
			"user_id":     userID,
			"rsvp_status": models.RsvpYes,
		})
	if res.Error != nil {
		return false, WrapError(res.Error)
	}
	return res.RowsAffected == 1, nil
}

// CountParticipations returns the number of rows of the event, optionally
// restricted to one email.
func (s *Store) CountParticipations(ctx context.Context, eventID uint, email string) (int64, error) {
	var n int64
	q := s.db.WithContext(ctx).Model(&models.Participation{}).Where("event_id = ?", eventID)
	if email != "" {
		q = q.Where("email = ?", email)
	}
	if err := q.Count(&n).Error; err != nil {
		return 0, WrapError(err)
	}
	return n, nil
}
