// Package rest is the HTTP surface spec.md's consumers drive a run
// through: submit a time range and body set, poll for its events, check
// liveness, or open the WebSocket stream for events as they're detected.
// Adapted from the teacher's gin-based Server — the route table and
// CORS/health-check middleware survive; the handlers underneath are
// rewritten against the engine package instead of the game/catalog/mount
// simulators.
package rest

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/skywatch/eventline/internal/api/websocket"
	"github.com/skywatch/eventline/internal/astro/catalog"
	"github.com/skywatch/eventline/internal/engine"
)

// Server wires the engine and the WebSocket hub into a gin.Engine.
type Server struct {
	router *gin.Engine
	engine *engine.Engine
	hub    *websocket.Hub
}

// NewServer builds a Server ready to ListenAndServe.
func NewServer(eng *engine.Engine, hub *websocket.Hub) *Server {
	s := &Server{
		router: gin.New(),
		engine: eng,
		hub:    hub,
	}
	s.router.Use(gin.Recovery(), corsMiddleware())
	s.registerRoutes()
	return s
}

// Router exposes the underlying gin.Engine, e.g. for http.Server.Handler.
func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) registerRoutes() {
	s.router.GET("/api/v1/health", s.healthCheck)
	s.router.GET("/ws", s.handleWebSocket)

	v1 := s.router.Group("/api/v1")
	{
		v1.POST("/runs", s.createRun)
		v1.GET("/runs/:id", s.getRun)
		v1.GET("/runs/:id/events", s.getRunEvents)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func (s *Server) healthCheck(c *gin.Context) {
	health := s.engine.Health()
	status := http.StatusOK
	if health.Status == "unhealthy" {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{
		"status":  health.Status,
		"message": health.Message,
		"service": s.engine.Name(),
	})
}

func (s *Server) handleWebSocket(c *gin.Context) {
	s.hub.HandleWebSocket(c.Writer, c.Request)
}

// runRequest is the wire shape of POST /api/v1/runs.
type runRequest struct {
	Start            time.Time `json:"start" binding:"required"`
	End              time.Time `json:"end" binding:"required"`
	Bodies           []string  `json:"bodies" binding:"required,min=1,dive,required"`
	SubWindowMinutes int       `json:"sub_window_minutes" binding:"gte=0"`
}

type runResponse struct {
	ID string `json:"id"`
}

func (s *Server) createRun(c *gin.Context) {
	var req runRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": formatBindError(err)})
		return
	}
	if !req.End.After(req.Start) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end must be after start"})
		return
	}

	bodies := make([]catalog.Body, 0, len(req.Bodies))
	for _, name := range req.Bodies {
		b, err := catalog.ParseBody(name)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		bodies = append(bodies, b)
	}

	id, err := s.engine.Submit(engine.RunRequest{
		Start:     req.Start,
		End:       req.End,
		Bodies:    bodies,
		SubWindow: time.Duration(req.SubWindowMinutes) * time.Minute,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusAccepted, runResponse{ID: id})
}

type runStatusResponse struct {
	ID        string    `json:"id"`
	Status    string    `json:"status"`
	Error     string    `json:"error,omitempty"`
	StartedAt time.Time `json:"started_at,omitzero"`
	EndedAt   time.Time `json:"ended_at,omitzero"`
}

func (s *Server) getRun(c *gin.Context) {
	run, ok := s.engine.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": engine.ErrRunNotFound.Error()})
		return
	}

	resp := runStatusResponse{
		ID:        run.ID,
		Status:    string(run.Status),
		StartedAt: run.StartedAt,
		EndedAt:   run.EndedAt,
	}
	if run.Err != nil {
		resp.Error = run.Err.Error()
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) getRunEvents(c *gin.Context) {
	run, ok := s.engine.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": engine.ErrRunNotFound.Error()})
		return
	}

	switch run.Status {
	case engine.StatusCompleted:
		c.JSON(http.StatusOK, gin.H{"status": run.Status, "count": len(run.Records), "events": run.Records})
	case engine.StatusFailed:
		c.JSON(http.StatusConflict, gin.H{"status": run.Status, "error": run.Err.Error()})
	default:
		c.JSON(http.StatusAccepted, gin.H{"status": run.Status})
	}
}

func formatBindError(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return verrs[0].Error()
	}
	return err.Error()
}
