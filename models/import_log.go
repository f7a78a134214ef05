package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ImportStatusCompleted = "completed"
	ImportStatusFailed    = "failed"
)

// ImportLog records the outcome of one bulk import call.
type ImportLog struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Kind      string    `gorm:"not null;index" json:"kind"` // structure, students
	FileName  string    `json:"file_name"`
	Status    string    `gorm:"not null" json:"status"`
	TotalRows int       `json:"total_rows"`
	Created   int       `json:"created"`
	Updated   int       `json:"updated"`
	Skipped   int       `json:"skipped"`
	DryRun    bool      `json:"dry_run"`
	Message   string    `json:"message,omitempty"`
	UserID    uint      `gorm:"index" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (l *ImportLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
