package models

import "time"

// ConsumptionTally is the maintained per-user total for one time bucket.
type ConsumptionTally struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"size:128;uniqueIndex:idx_tally_user_bucket"`
	Bucket    string    `json:"bucket" gorm:"size:16;uniqueIndex:idx_tally_user_bucket;index"`
	Total     int64     `json:"total"`
	UpdatedAt time.Time `json:"updated_at"`
}
