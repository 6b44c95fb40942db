package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"repodocs/internal/fetcher"
	"repodocs/internal/llm/client"
	"repodocs/internal/models"
	"repodocs/internal/services"
	"repodocs/internal/utils"
)

// DefaultAllowOrigin is where the dev frontend is served from.
const DefaultAllowOrigin = "http://localhost:5173"

// DocsGenerator is the pipeline surface the HTTP layer depends on.
type DocsGenerator interface {
	GenerateDocs(ctx context.Context, req models.DocGenerationRequest) (*models.DocGenerationResult, error)
	SiteDir(runKey string) string
}

// Config carries HTTP-layer settings.
type Config struct {
	Addr        string
	AllowOrigin string
}

// Server exposes the documentation pipeline over HTTP.
type Server struct {
	echo      *echo.Echo
	addr      string
	generator DocsGenerator
	runs      services.RunService
	modelS    services.ModelService
}

// New wires routes and middleware onto a fresh echo instance.
func New(cfg Config, generator DocsGenerator, runs services.RunService, modelS services.ModelService) *Server {
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.AllowOrigin == "" {
		cfg.AllowOrigin = DefaultAllowOrigin
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{cfg.AllowOrigin},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
	}))

	s := &Server{echo: e, addr: cfg.Addr, generator: generator, runs: runs, modelS: modelS}

	e.GET("/healthz", s.handleHealth)
	e.GET("/models", s.handleListModels)
	e.POST("/generate-docs", s.handleGenerateDocs)
	e.GET("/runs", s.handleListRuns)
	e.GET("/runs/:id", s.handleGetRun)
	e.GET("/site/:key/*", s.handleSiteFile)

	return s
}

// Start blocks serving HTTP until Shutdown or a fatal listener error.
func (s *Server) Start() error {
	log.Printf("listening on %s", s.addr)
	if err := s.echo.Start(s.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListModels(c echo.Context) error {
	return c.JSON(http.StatusOK, s.modelS.ListModels())
}

func (s *Server) handleGenerateDocs(c echo.Context) error {
	var req models.DocGenerationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.RepoURL) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "repoUrl is required")
	}

	result, err := s.generator.GenerateDocs(c.Request().Context(), req)
	if err != nil {
		return generationHTTPError(err)
	}
	return c.JSON(http.StatusOK, result)
}

// generationHTTPError maps pipeline failures onto status codes so callers
// can tell a bad request from an upstream outage.
func generationHTTPError(err error) *echo.HTTPError {
	var remoteErr *fetcher.RemoteFetchError
	var exhausted *client.ExhaustedError
	switch {
	case errors.Is(err, services.ErrNoMatchingSource):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case strings.Contains(err.Error(), "already in progress"):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.As(err, &remoteErr):
		return echo.NewHTTPError(http.StatusBadGateway, "remote fetch failed: "+err.Error())
	case errors.As(err, &exhausted), errors.Is(err, client.ErrRateLimited):
		return echo.NewHTTPError(http.StatusBadGateway, "generation failed: "+err.Error())
	case strings.Contains(err.Error(), "not found"), strings.Contains(err.Error(), "not configured"), strings.Contains(err.Error(), "required"), strings.Contains(err.Error(), "unrecognized"):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

func (s *Server) handleListRuns(c echo.Context) error {
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be a non-negative integer")
		}
		limit = n
	}
	runs, err := s.runs.List(limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, runs)
}

func (s *Server) handleGetRun(c echo.Context) error {
	raw := c.Param("id")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		// Fall back to the run key for non-numeric identifiers.
		run, kerr := s.runs.GetByKey(raw)
		if kerr != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, kerr.Error())
		}
		if run == nil {
			return echo.NewHTTPError(http.StatusNotFound, "run not found")
		}
		return c.JSON(http.StatusOK, run)
	}
	run, err := s.runs.GetByID(uint(id))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if run == nil {
		return echo.NewHTTPError(http.StatusNotFound, "run not found")
	}
	return c.JSON(http.StatusOK, run)
}

// handleSiteFile serves one file of a built doc site, confined to the run's
// site directory.
func (s *Server) handleSiteFile(c echo.Context) error {
	key := c.Param("key")
	rel := c.Param("*")
	if rel == "" {
		rel = "index.html"
	}
	base := s.generator.SiteDir(key)
	if !utils.DirectoryExists(base) {
		return echo.NewHTTPError(http.StatusNotFound, "site not available for this run")
	}
	full := filepath.Join(base, filepath.FromSlash(rel))
	if !strings.HasPrefix(full, filepath.Clean(base)+string(filepath.Separator)) {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid path")
	}
	return c.File(full)
}
