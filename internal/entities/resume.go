package entities

import "time"

// StoredResume is the latest analyzed resume of a user. Data holds the normalized record as JSON.
type StoredResume struct {
	ID        string `gorm:"primaryKey"`
	UserID    string `gorm:"uniqueIndex;not null"`
	Source    string
	ATSScore  int
	Data      []byte
	CreatedAt time.Time
	UpdatedAt time.Time `gorm:"index"`
}
