// internal/api/server.go

// Package api exposes the planning pipeline over HTTP.
package api

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"

	"trip-planner/internal/common/logger"
	"trip-planner/internal/pipeline"
)

// Server holds the HTTP handlers for the trip planning API.
type Server struct {
	pipeline *pipeline.Pipeline
	logger   logger.Logger
}

// NewServer creates the API server around a wired pipeline.
func NewServer(p *pipeline.Pipeline, log logger.Logger) *Server {
	return &Server{
		pipeline: p,
		logger:   log.WithFields(map[string]interface{}{"component": "api"}),
	}
}

// Handler builds the routed handler with CORS applied.
func (s *Server) Handler() http.Handler {
	router := httprouter.New()

	router.POST("/api/trips", s.createTrip)
	router.GET("/api/trips", s.listTrips)
	router.GET("/api/trips/:id", s.getTrip)
	router.POST("/api/trips/:id/regenerate", s.regenerateTrip)
	router.GET("/api/trips/:id/export/pdf", s.exportPDF)
	router.GET("/api/trips/:id/export/ics", s.exportICS)
	router.GET("/healthz", s.health)

	c := cors.New(cors.Options{
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	})
	return c.Handler(router)
}
