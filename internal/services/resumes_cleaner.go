package services

import (
	"context"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
	"github.com/skillzen/career-api/internal/logger"
	"time"
)

type ResumeCleanupRepository interface {
	RemoveOldResumes(ctx context.Context, expirationTime time.Time) (int64, error)
}

type ResumesCleaner struct {
	resumes              ResumeCleanupRepository
	cron                 *cron.Cron
	expirationTimeInDays int
}

func NewResumesCleaner(resumes ResumeCleanupRepository, expirationInDays int) (*ResumesCleaner, error) {

	if expirationInDays <= 0 {
		return nil, errors.New("expiration in days must be greater than zero")
	}

	rc := &ResumesCleaner{
		resumes:              resumes,
		cron:                 cron.New(),
		expirationTimeInDays: expirationInDays,
	}

	_, err := rc.cron.AddFunc("0 0 * * *", rc.cleanOldResumes)
	if err != nil {
		return nil, err
	}

	rc.cron.Start()
	log.Infof("resumes cleaner started, expiration in days: %d", rc.expirationTimeInDays)
	return rc, nil
}

func (rc *ResumesCleaner) Stop() {
	rc.cron.Stop()
}

func (rc *ResumesCleaner) cleanOldResumes() {
	expirationTime := time.Now().Add(-time.Duration(rc.expirationTimeInDays) * 24 * time.Hour)
	rowsAffected, err := rc.resumes.RemoveOldResumes(context.Background(), expirationTime)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("failed to clean old resumes: %v", err)
	} else {
		log.Infof("old resumes were cleaned at %v, affected rows: %v", time.Now(), rowsAffected)
	}
}
