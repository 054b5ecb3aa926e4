package repositories

import (
	"context"

	"github.com/baker339/DOGR/internal/models"
	"gorm.io/gorm"
)

// ErrorLogRepository is the error-logging sink
type ErrorLogRepository interface {
	CreateErrorLog(ctx context.Context, entry *models.ErrorLog) error
}

// PostgresErrorLogRepository implements ErrorLogRepository for PostgreSQL
type PostgresErrorLogRepository struct {
	db *gorm.DB
}

// NewPostgresErrorLogRepository creates a new PostgresErrorLogRepository
func NewPostgresErrorLogRepository(db *gorm.DB) *PostgresErrorLogRepository {
	return &PostgresErrorLogRepository{db: db}
}

// CreateErrorLog inserts one error entry
func (r *PostgresErrorLogRepository) CreateErrorLog(ctx context.Context, entry *models.ErrorLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}
