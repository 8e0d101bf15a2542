package store

import (
	"context"
	"strings"

	"github.com/eventplanner/eventplanner-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EventQuery narrows ListEvents at the database level. Zero values match
// everything.
type EventQuery struct {
	// Keyword matches title or description, case-insensitively.
	Keyword string
	// From and To bound the event date (YYYY-MM-DD), inclusive.
	From string
	To   string
	// CreatorID restricts the result to events created by that user.
	CreatorID uint
}

func preloadEvent(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Creator").
		Preload("Participants", func(db *gorm.DB) *gorm.DB {
			return db.Order("event_participants.id asc")
		}).
		Preload("Participants.User")
}

// InsertEvent creates ev and fills in its id. Associations are not written.
func (s *Store) InsertEvent(ctx context.Context, ev *models.Event) error {
	return WrapError(s.db.WithContext(ctx).Omit(clause.Associations).Create(ev).Error)
}

// FindEventByID returns the event with its creator, participants and their
// users loaded.
func (s *Store) FindEventByID(ctx context.Context, id uint) (*models.Event, error) {
	var ev models.Event
	if err := preloadEvent(s.db.WithContext(ctx)).First(&ev, id).Error; err != nil {
		return nil, WrapError(err)
	}
	return &ev, nil
}

// ListEvents returns the events matching q for which keep returns true,
// ordered by date and time. A nil keep keeps every row.
func (s *Store) ListEvents(ctx context.Context, q EventQuery, keep func(*models.Event) bool) ([]models.Event, error) {
	query := preloadEvent(s.db.WithContext(ctx).Model(&models.Event{}))

	if kw := strings.TrimSpace(q.Keyword); kw != "" {
		like := "%" + strings.ToLower(kw) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}
	if q.From != "" {
		query = query.Where("event_date >= ?", q.From)
	}
	if q.To != "" {
		query = query.Where("event_date <= ?", q.To)
	}
	if q.CreatorID != 0 {
		query = query.Where("creator_id = ?", q.CreatorID)
	}

	var events []models.Event
	if err := query.Order("event_date asc").Order("event_time asc").Order("id asc").Find(&events).Error; err != nil {
		return nil, WrapError(err)
	}
	if keep == nil {
		return events, nil
	}

	kept := events[:0]
	for i := range events {
		if keep(&events[i]) {
			kept = append(kept, events[i])
		}
	}
	return kept, nil
}

// UpdateEvent writes the given column changes to ev. Only the listed
// columns are touched.
func (s *Store) UpdateEvent(ctx context.Context, ev *models.Event, changes map[string]interface{}) error {
	if len(changes) == 0 {
		return nil
	}
	return WrapError(s.db.WithContext(ctx).Model(ev).Omit(clause.Associations).Updates(changes).Error)
}

// DeleteEvent removes the event and all its participations in one
// transaction.
func (s *Store) DeleteEvent(ctx context.Context, id uint) error {
	return WrapError(s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", id).Delete(&models.Participation{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Event{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	}))
}
