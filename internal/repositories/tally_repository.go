package repositories

import (
	"context"
	"time"

	"github.com/baker339/DOGR/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TallyRepository stores the maintained consumption aggregate
type TallyRepository interface {
	Apply(ctx context.Context, userID string, buckets []string, delta int64) error
	Totals(ctx context.Context, bucket string) (map[string]int64, error)
	Replace(ctx context.Context, tallies []models.ConsumptionTally) error
}

// PostgresTallyRepository implements TallyRepository for PostgreSQL
type PostgresTallyRepository struct {
	db *gorm.DB
}

// NewPostgresTallyRepository creates a new PostgresTallyRepository
func NewPostgresTallyRepository(db *gorm.DB) *PostgresTallyRepository {
	return &PostgresTallyRepository{db: db}
}

// Apply adds delta to each of the user's buckets, creating missing rows
func (r *PostgresTallyRepository) Apply(ctx context.Context, userID string, buckets []string, delta int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		for _, b := range buckets {
			row := models.ConsumptionTally{UserID: userID, Bucket: b, Total: delta, UpdatedAt: now}
			err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "user_id"}, {Name: "bucket"}},
				DoUpdates: clause.Assignments(map[string]interface{}{
					"total":      gorm.Expr("consumption_tallies.total + ?", delta),
					"updated_at": now,
				}),
			}).Create(&row).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// Totals returns user id -> total for one bucket
func (r *PostgresTallyRepository) Totals(ctx context.Context, bucket string) (map[string]int64, error) {
	var rows []models.ConsumptionTally
	err := r.db.WithContext(ctx).
		Select("user_id", "total").
		Where("bucket = ?", bucket).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	totals := make(map[string]int64, len(rows))
	for _, row := range rows {
		totals[row.UserID] = row.Total
	}
	return totals, nil
}

// Replace swaps the whole aggregate for tallies in one transaction
func (r *PostgresTallyRepository) Replace(ctx context.Context, tallies []models.ConsumptionTally) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.ConsumptionTally{}).Error; err != nil {
			return err
		}
		if len(tallies) == 0 {
			return nil
		}
		return tx.CreateInBatches(tallies, 500).Error
	})
}
