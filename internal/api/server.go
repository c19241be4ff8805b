// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package api exposes the advisor engine over HTTP. Routes, error taxonomy,
// and the JSON envelopes are described in docs/ARCHITECTURE.md § HTTP API.
package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/pdiddy/advisor-match/internal/advisor"
	"github.com/pdiddy/advisor-match/internal/retrieval"
	"github.com/pdiddy/advisor-match/pkg/types"
)

// Server hosts the HTTP API over one advisor engine.
type Server struct {
	engine *advisor.Engine
	cfg    types.ServerConfig
	logger zerolog.Logger
}

func NewServer(engine *advisor.Engine, cfg types.ServerConfig, logger zerolog.Logger) *Server {
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}
	return &Server{engine: engine, cfg: cfg, logger: logger}
}

// Router builds the gin handler. Split from Run so tests can drive it with
// httptest.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggingMiddleware(s.logger))
	r.Use(CORSMiddleware(s.cfg.CORSOrigins))

	r.GET("/health", s.handleHealth)
	apiGroup := r.Group("/api")
	{
		apiGroup.POST("/search", s.handleSearch)
		apiGroup.GET("/professors/:id", s.handleProfessor)
		apiGroup.GET("/publications/:id", s.handlePublication)
	}
	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{Addr: s.cfg.Addr, Handler: s.Router()}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.cfg.Addr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// searchRequest is the POST /api/search body.
type searchRequest struct {
	Query               string `json:"query"`
	Mode                string `json:"mode,omitempty"`
	TopK                *int   `json:"top_k,omitempty"`
	IncludePublications bool   `json:"include_publications,omitempty"`
}

func (s *Server) handleSearch(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendError(c, http.StatusBadRequest, ErrorCodeInvalidJSON, "invalid JSON in request body: "+err.Error())
		return
	}

	result, err := s.engine.Search(c.Request.Context(), advisor.SearchRequest{
		Query:           req.Query,
		Mode:            retrieval.Mode(req.Mode),
		TopK:            req.TopK,
		IncludeEvidence: req.IncludePublications,
	})
	if err != nil {
		s.sendSearchError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) sendSearchError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, advisor.ErrInvalidQuery):
		SendError(c, http.StatusBadRequest, ErrorCodeInvalidQuery, err.Error())
	case errors.Is(err, advisor.ErrInvalidTopK):
		SendError(c, http.StatusBadRequest, ErrorCodeInvalidTopK, err.Error())
	case errors.Is(err, advisor.ErrProviderUnavailable):
		SendError(c, http.StatusServiceUnavailable, ErrorCodeProviderUnavailable, err.Error())
	case errors.Is(err, retrieval.ErrUnknownMode):
		SendError(c, http.StatusBadRequest, ErrorCodeInvalidMode, err.Error())
	default:
		s.logger.Error().Err(err).Str("request_id", c.GetString(requestIDKey)).Msg("search failed")
		SendError(c, http.StatusInternalServerError, ErrorCodeInternalError, "search failed")
	}
}

func (s *Server) handleProfessor(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		SendError(c, http.StatusBadRequest, ErrorCodeInvalidID, "professor id must be an integer")
		return
	}

	detail, err := s.engine.Professor(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, advisor.ErrNotFound) {
			SendError(c, http.StatusNotFound, ErrorCodeProfessorNotFound, err.Error())
			return
		}
		s.logger.Error().Err(err).Int64("professor_id", id).Msg("professor lookup failed")
		SendError(c, http.StatusInternalServerError, ErrorCodeInternalError, "professor lookup failed")
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (s *Server) handlePublication(c *gin.Context) {
	id := c.Param("id")

	detail, err := s.engine.Publication(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, advisor.ErrNotFound) {
			SendError(c, http.StatusNotFound, ErrorCodePublicationNotFound, err.Error())
			return
		}
		s.logger.Error().Err(err).Str("paper_id", id).Msg("publication lookup failed")
		SendError(c, http.StatusInternalServerError, ErrorCodeInternalError, "publication lookup failed")
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (s *Server) handleHealth(c *gin.Context) {
	health, err := s.engine.Health(c.Request.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("health check failed")
		SendError(c, http.StatusInternalServerError, ErrorCodeInternalError, "health check failed")
		return
	}
	c.JSON(http.StatusOK, health)
}
