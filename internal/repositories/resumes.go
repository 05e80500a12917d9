package repositories

import (
	"context"
	"errors"
	"github.com/google/uuid"
	"github.com/skillzen/career-api/internal/entities"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"time"
)

type Resumes struct {
	db *gorm.DB
}

func NewResumesRepository(db *gorm.DB) *Resumes {
	return &Resumes{db: db}
}

// Upsert stores the resume as the user's latest one, replacing the previous analysis.
func (r *Resumes) Upsert(ctx context.Context, resume entities.StoredResume) error {
	if resume.ID == "" {
		resume.ID = uuid.NewString()
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"source", "ats_score", "data", "updated_at"}),
	}).Create(&resume).Error
}

// GetByUserID returns nil without error when the user has no stored resume.
func (r *Resumes) GetByUserID(ctx context.Context, userID string) (*entities.StoredResume, error) {
	var resume entities.StoredResume
	err := r.db.WithContext(ctx).First(&resume, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &resume, nil
}

func (r *Resumes) RemoveOldResumes(ctx context.Context, expirationTime time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&entities.StoredResume{}, "updated_at < ?", expirationTime)
	return res.RowsAffected, res.Error
}
