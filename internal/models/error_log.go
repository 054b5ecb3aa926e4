package models

import "time"

// ErrorLog is a row in the error sink (PostgreSQL)
type ErrorLog struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Error     string    `json:"error" gorm:"type:text"`
	Stack     string    `json:"stack,omitempty" gorm:"type:text"`
	Location  string    `json:"location" gorm:"size:512"`
	Context   string    `json:"context" gorm:"size:128"`
	UserID    string    `json:"userId,omitempty" gorm:"size:128;index"`
	CreatedAt time.Time `json:"createdAt" gorm:"index"`
}

// LogErrorRequest is the body accepted by the error sink endpoint
type LogErrorRequest struct {
	Error    string `json:"error" validate:"required,max=4000"`
	Stack    string `json:"stack,omitempty" validate:"max=16000"`
	Location string `json:"location" validate:"max=512"`
	Context  string `json:"context" validate:"max=128"`
	UserID   string `json:"userId,omitempty" validate:"max=128"`
}
