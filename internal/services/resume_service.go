package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/asaskevich/EventBus"
	"github.com/go-playground/validator/v10"
	gocache "github.com/patrickmn/go-cache"
	log "github.com/sirupsen/logrus"
	"github.com/skillzen/career-api/internal/clients/resumeparser"
	"github.com/skillzen/career-api/internal/entities"
	"github.com/skillzen/career-api/internal/events"
	"github.com/skillzen/career-api/internal/logger"
	"github.com/skillzen/career-api/internal/metrics"
	"github.com/skillzen/career-api/internal/resume"
	"strings"
	"time"
)

var (
	ErrInvalidUpload      = errors.New("invalid resume upload")
	ErrParsersUnavailable = errors.New("resume parsing services are unavailable")
	ErrResumeNotFound     = errors.New("resume not found")
)

const (
	ParserStatusSuccess = "success"
	ParserStatusNoKey   = "no_key"
	ParserStatusError   = "error"
)

type resumeParser interface {
	Name() string
	Configured() bool
	Parse(ctx context.Context, doc resumeparser.Document) ([]byte, error)
	Check(ctx context.Context) error
}

type resumeRepository interface {
	Upsert(ctx context.Context, resume entities.StoredResume) error
	GetByUserID(ctx context.Context, userID string) (*entities.StoredResume, error)
}

// Upload is a resume file received from a client.
type Upload struct {
	Name        string
	ContentType string `validate:"oneof=application/pdf application/msword application/vnd.openxmlformats-officedocument.wordprocessingml.document text/plain application/rtf"`
	Data        []byte `validate:"min=1,max=5242880"`
}

type ParserCheck struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type parsedPayload struct {
	source string
	data   []byte
}

// ResumeService turns an uploaded file into a scored record using the first parser that succeeds.
type ResumeService struct {
	bus            EventBus.Bus
	resumes        resumeRepository
	parsers        []resumeParser
	cache          *gocache.Cache
	validate       *validator.Validate
	requestTimeout time.Duration
}

func NewResumeService(bus EventBus.Bus, resumes resumeRepository, requestTimeout time.Duration,
	parsers ...resumeParser) *ResumeService {

	return &ResumeService{
		bus:            bus,
		resumes:        resumes,
		parsers:        parsers,
		cache:          gocache.New(30*time.Minute, time.Hour),
		validate:       validator.New(),
		requestTimeout: requestTimeout,
	}
}

// Analyze parses and scores the upload. When userID is set the record is stored as the user's latest.
func (s *ResumeService) Analyze(ctx context.Context, userID string, upload Upload) (*resume.Record, error) {

	if err := s.validateUpload(upload); err != nil {
		return nil, err
	}

	payload, err := s.parse(ctx, upload)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	record, err := resume.Extract(payload.data)
	metrics.ParseStepDuration.WithLabelValues("extraction").Observe(time.Since(start).Seconds())
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeParserApi).
			Errorf("%s returned unreadable payload for %s", payload.source, upload.Name)
		return nil, fmt.Errorf("%s: %w", payload.source, err)
	}
	record.Source = payload.source

	if userID != "" {
		if err = s.store(ctx, userID, record); err != nil {
			return nil, err
		}
	}

	s.bus.Publish(events.ResumeAnalyzedTopic, events.ResumeAnalyzed{
		UserID:   userID,
		Source:   record.Source,
		ATSScore: record.ATSScore,
	})
	return record, nil
}

func (s *ResumeService) Latest(ctx context.Context, userID string) (*resume.Record, error) {

	stored, err := s.resumes.GetByUserID(ctx, userID)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("couldn't load resume of %s: %v", userID, err)
		return nil, err
	}
	if stored == nil {
		return nil, ErrResumeNotFound
	}

	var record resume.Record
	if err = json.Unmarshal(stored.Data, &record); err != nil {
		return nil, fmt.Errorf("couldn't decode stored resume: %w", err)
	}
	return &record, nil
}

// CheckParsers probes every vendor with its configured key.
func (s *ResumeService) CheckParsers(ctx context.Context) []ParserCheck {

	checks := make([]ParserCheck, 0, len(s.parsers))
	for _, parser := range s.parsers {
		check := ParserCheck{Name: parser.Name(), Status: ParserStatusSuccess}

		if !parser.Configured() {
			check.Status = ParserStatusNoKey
			check.Error = "API key not configured"
		} else if err := parser.Check(ctx); err != nil {
			check.Status = ParserStatusError
			check.Error = err.Error()
		}

		log.Infof("%s check result: %s", check.Name, check.Status)
		checks = append(checks, check)
	}
	return checks
}

func (s *ResumeService) parse(ctx context.Context, upload Upload) (*parsedPayload, error) {

	cacheID := createUploadCacheID(upload.Data)
	if cached, found := s.cache.Get(cacheID); found {
		payload := cached.(parsedPayload)
		return &payload, nil
	}

	doc := resumeparser.Document{Name: upload.Name, ContentType: upload.ContentType, Data: upload.Data}

	for _, parser := range s.parsers {
		if !parser.Configured() {
			continue
		}

		data, err := s.parseWith(ctx, parser, doc)
		if err != nil {
			log.WithField(logger.ErrorTypeField, logger.ErrorTypeParserApi).
				Warnf("%s failed to parse %s: %v", parser.Name(), upload.Name, err)
			continue
		}

		payload := parsedPayload{source: parser.Name(), data: data}
		if cacheErr := s.cache.Add(cacheID, payload, gocache.DefaultExpiration); cacheErr != nil {
			log.Errorf("failed to add parsed resume to cache: %v", cacheErr)
		}
		log.Infof("%s parsed %s", parser.Name(), upload.Name)
		return &payload, nil
	}

	return nil, ErrParsersUnavailable
}

func (s *ResumeService) parseWith(ctx context.Context, parser resumeParser, doc resumeparser.Document) ([]byte, error) {

	if s.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.requestTimeout)
		defer cancel()
	}

	start := time.Now()
	data, err := parser.Parse(ctx, doc)
	metrics.ParseStepDuration.WithLabelValues(strings.ToLower(parser.Name())).Observe(time.Since(start).Seconds())
	return data, err
}

func (s *ResumeService) store(ctx context.Context, userID string, record *resume.Record) error {

	data, err := json.Marshal(record)
	if err != nil {
		return err
	}

	err = s.resumes.Upsert(ctx, entities.StoredResume{
		UserID:   userID,
		Source:   record.Source,
		ATSScore: record.ATSScore,
		Data:     data,
	})
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("couldn't store resume of %s: %v", userID, err)
		return err
	}
	return nil
}

func (s *ResumeService) validateUpload(upload Upload) error {

	err := s.validate.Struct(upload)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	switch validationErrors[0].Field() {
	case "ContentType":
		return fmt.Errorf("%w: invalid file type, please upload PDF, DOC, DOCX, TXT, or RTF files only", ErrInvalidUpload)
	case "Data":
		if len(upload.Data) == 0 {
			return fmt.Errorf("%w: file is empty", ErrInvalidUpload)
		}
		return fmt.Errorf("%w: file too large, please upload files smaller than 5MB", ErrInvalidUpload)
	default:
		return fmt.Errorf("%w: %v", ErrInvalidUpload, err)
	}
}

func createUploadCacheID(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
