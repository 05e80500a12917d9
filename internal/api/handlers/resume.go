package handlers

import (
	"context"
	"errors"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"
	"github.com/skillzen/career-api/internal/resume"
	"github.com/skillzen/career-api/internal/services"
	"io"
	"net/http"
)

// maxFormSize leaves room above the 5MB upload limit so oversized files reach validation.
const maxFormSize = 6 << 20

type ResumeService interface {
	Analyze(ctx context.Context, userID string, upload services.Upload) (*resume.Record, error)
	Latest(ctx context.Context, userID string) (*resume.Record, error)
	CheckParsers(ctx context.Context) []services.ParserCheck
}

// ParseResumeHandler handles POST /api/resume/parse
func ParseResumeHandler(service ResumeService) echo.HandlerFunc {
	return func(c echo.Context) error {

		fileHeader, err := c.FormFile("file")
		if err != nil {
			return respondError(c, http.StatusBadRequest, "No file provided", err.Error())
		}

		file, err := fileHeader.Open()
		if err != nil {
			return respondError(c, http.StatusBadRequest, "Couldn't read file", err.Error())
		}
		defer file.Close()

		data, err := io.ReadAll(io.LimitReader(file, maxFormSize))
		if err != nil {
			return respondError(c, http.StatusBadRequest, "Couldn't read file", err.Error())
		}

		upload := services.Upload{
			Name:        fileHeader.Filename,
			ContentType: fileHeader.Header.Get(echo.HeaderContentType),
			Data:        data,
		}
		log.Infof("file received: %s %d %s", upload.Name, len(upload.Data), upload.ContentType)

		record, err := service.Analyze(c.Request().Context(), c.FormValue("userId"), upload)
		if err != nil {
			return respondResumeError(c, err)
		}
		return c.JSON(http.StatusOK, record)
	}
}

// LatestResumeHandler handles GET /api/resume/:userId
func LatestResumeHandler(service ResumeService) echo.HandlerFunc {
	return func(c echo.Context) error {
		record, err := service.Latest(c.Request().Context(), c.Param("userId"))
		if err != nil {
			return respondResumeError(c, err)
		}
		return c.JSON(http.StatusOK, record)
	}
}

func respondResumeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidUpload):
		return respondError(c, http.StatusBadRequest, err.Error(), "")
	case errors.Is(err, services.ErrResumeNotFound):
		return respondError(c, http.StatusNotFound, "Resume not found", "")
	case errors.Is(err, services.ErrParsersUnavailable):
		return respondError(c, http.StatusServiceUnavailable, "Resume parsing services are currently unavailable",
			"Both APYHub and APILayer APIs are unavailable. Please check your API keys and try again.")
	case errors.Is(err, resume.ErrMalformedPayload):
		return respondError(c, http.StatusBadGateway, "Resume parser returned an unreadable response", err.Error())
	default:
		return respondError(c, http.StatusInternalServerError, "Failed to parse resume", err.Error())
	}
}
