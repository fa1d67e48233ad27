package attendance

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository persists attendance records.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a repo.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CheckIn makes sure the (user, day) row exists and stamps its check-in if
// it has none yet. It reports false when the row was already checked in.
// The insert relies on the (user_id, day) unique index, so concurrent callers
// converge on one row and exactly one of them gets true.
func (r *Repository) CheckIn(ctx context.Context, userID string, day, at time.Time) (bool, error) {
	var stamped bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "day"}},
			DoNothing: true,
		}).Create(&Record{UserID: userID, Day: day}).Error
		if err != nil {
			return err
		}
		res := tx.Model(&Record{}).
			Where("user_id = ? AND day = ? AND check_in IS NULL", userID, day).
			Updates(map[string]any{"check_in": at, "updated_at": at})
		if res.Error != nil {
			return res.Error
		}
		stamped = res.RowsAffected == 1
		return nil
	})
	return stamped, err
}

// CheckOut stamps the check-out of a checked-in, not yet checked-out row.
// It reports false when no such row exists.
func (r *Repository) CheckOut(ctx context.Context, userID string, day, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&Record{}).
		Where("user_id = ? AND day = ? AND check_in IS NOT NULL AND check_out IS NULL", userID, day).
		Updates(map[string]any{"check_out": at, "updated_at": at})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// Get returns the record for (user, day), or nil.
func (r *Repository) Get(ctx context.Context, userID string, day time.Time) (*Record, error) {
	var rec Record
	err := r.db.WithContext(ctx).Where("user_id = ? AND day = ?", userID, day).Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// ListByUser returns every record of the user, oldest day first.
func (r *Repository) ListByUser(ctx context.Context, userID string) ([]Record, error) {
	var recs []Record
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("day ASC").Find(&recs).Error
	return recs, err
}
