package api

import (
	"context"
	"errors"
	"fmt"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"
	"github.com/skillzen/career-api/internal/api/handlers"
	"github.com/skillzen/career-api/internal/config"
	"net/http"
)

type Server struct {
	echo    *echo.Echo
	address string
}

func NewServer(cfg config.ServerConfig, generation handlers.GenerationService, resumes handlers.ResumeService) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = cfg.ReadTimeout
	e.Server.WriteTimeout = cfg.WriteTimeout

	SetupRoutes(e, generation, resumes)
	return &Server{echo: e, address: fmt.Sprintf(":%d", cfg.Port)}
}

// Start blocks until the server stops. A graceful shutdown is not reported as an error.
func (s *Server) Start() error {
	log.Infof("http server listening on %s", s.address)
	if err := s.echo.Start(s.address); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
