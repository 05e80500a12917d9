package main

import (
	"context"
	"github.com/asaskevich/EventBus"
	log "github.com/sirupsen/logrus"
	"github.com/skillzen/career-api/internal/api"
	"github.com/skillzen/career-api/internal/clients/gemini"
	"github.com/skillzen/career-api/internal/clients/resumeparser"
	"github.com/skillzen/career-api/internal/config"
	"github.com/skillzen/career-api/internal/kvstore"
	"github.com/skillzen/career-api/internal/logger"
	"github.com/skillzen/career-api/internal/metrics"
	"github.com/skillzen/career-api/internal/quota"
	"github.com/skillzen/career-api/internal/repositories"
	"github.com/skillzen/career-api/internal/services"
	"os/signal"
	"syscall"
	"time"
)

func createQuotaStore(ctx context.Context, cfg config.QuotaConfig, dbContext *repositories.DbContext) (quota.Store, func()) {

	switch cfg.Store {
	case config.StoreRedis:
		store, err := kvstore.NewRedis(cfg.RedisURL, cfg.Namespace)
		if err != nil {
			log.Fatalf("can't create redis quota store: %v", err)
		}
		if err = store.Ping(ctx); err != nil {
			log.Fatalf("can't reach redis: %v", err)
		}
		return store, func() { _ = store.Close() }
	case config.StoreSqlite:
		return repositories.NewDataRepository(dbContext.DB, cfg.Namespace), func() {}
	default:
		return kvstore.NewMemory(), func() {}
	}
}

func createGenerationService(ctx context.Context, cfg *config.Config, dbContext *repositories.DbContext,
	bus EventBus.Bus) (*services.GenerationService, func()) {

	store, closeStore := createQuotaStore(ctx, cfg.Quota, dbContext)

	manager := quota.NewManager(cfg.Gemini.Keys(), store)
	manager.InitializeAPIKeys(ctx)
	log.Infof("gemini api keys initialized, quota store: %s", cfg.Quota.Store)

	resetter, err := services.NewQuotaResetter(manager)
	if err != nil {
		log.Fatalf("can't create quota resetter: %v", err)
	}

	aiClient := gemini.NewClient(cfg.Gemini.Models...)
	aiClient.SetMinuteRateLimit(cfg.Gemini.MaxRequestsPerMinute)
	aiClient.SetDayRateLimit(cfg.Gemini.MaxRequestsPerDay)

	return services.NewGenerationService(bus, manager, aiClient), func() {
		resetter.Stop()
		if err := aiClient.Close(); err != nil {
			log.Errorf("can't close gemini client: %v", err)
		}
		closeStore()
	}
}

func createResumeService(cfg config.ResumeParserConfig, resumes *repositories.Resumes,
	bus EventBus.Bus) *services.ResumeService {

	apyHub := resumeparser.NewAPYHub(cfg.APYHubKey, cfg.APYHubURL)
	apyHub.SetRateLimit(cfg.MaxRequestsPerSecond)
	apyHub.SetPolling(cfg.PollInterval, cfg.MaxPollAttempts)

	apiLayer := resumeparser.NewAPILayer(cfg.APILayerKey, cfg.APILayerURL)
	apiLayer.SetRateLimit(cfg.MaxRequestsPerSecond)

	return services.NewResumeService(bus, resumes, cfg.RequestTimeout, apyHub, apiLayer)
}

func main() {

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Get()

	logger.Setup(ctx, cfg.Logger)
	defer logger.Cleanup()

	metrics.Register()

	dbContext, err := repositories.NewDbContext(cfg.DB.ConnectionString)
	if err != nil {
		log.Fatalf("can't create db context: %v", err)
	}
	defer dbContext.Close()

	err = dbContext.Migrate()
	if err != nil {
		log.Fatalf("can't migrate db context: %v", err)
	}

	bus := EventBus.New()
	recorder, err := services.NewEventsRecorder(bus)
	if err != nil {
		log.Fatalf("can't create events recorder: %v", err)
	}
	defer recorder.Stop()

	generation, closeGeneration := createGenerationService(ctx, cfg, dbContext, bus)
	defer closeGeneration()

	resumes := repositories.NewResumesRepository(dbContext.DB)
	cleaner, err := services.NewResumesCleaner(resumes, cfg.ResumeParser.RetentionDays)
	if err != nil {
		log.Fatalf("can't create resumes cleaner: %v", err)
	}
	defer cleaner.Stop()

	server := api.NewServer(cfg.Server, generation, createResumeService(cfg.ResumeParser, resumes, bus))
	go func() {
		if err := server.Start(); err != nil {
			log.Errorf("http server stopped: %v", err)
			stop()
		}
	}()

	<-ctx.Done()

	log.Info("Shutting down services...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err = server.Shutdown(shutdownCtx); err != nil {
		log.Errorf("can't shut down http server: %v", err)
	}
	log.Info("Services stopped.")
}
