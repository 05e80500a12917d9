package services

import (
	"context"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
	"time"
)

type quotaResetter interface {
	Reset(ctx context.Context)
}

// QuotaResetter restores every key to its default budget once a day, when the provider quota renews.
type QuotaResetter struct {
	quota quotaResetter
	cron  *cron.Cron
}

func NewQuotaResetter(manager quotaResetter) (*QuotaResetter, error) {

	qr := &QuotaResetter{quota: manager, cron: cron.New()}

	_, err := qr.cron.AddFunc("0 0 * * *", qr.reset)
	if err != nil {
		return nil, err
	}

	qr.cron.Start()
	log.Info("quota resetter started")
	return qr, nil
}

func (qr *QuotaResetter) Stop() {
	qr.cron.Stop()
}

func (qr *QuotaResetter) reset() {
	qr.quota.Reset(context.Background())
	log.Infof("gemini quota was reset at %v", time.Now())
}
