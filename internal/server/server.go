// Package server exposes the application state over a local JSON API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/theirongolddev/presu/internal/app"
)

// DefaultAddr is the loopback address `presu serve` listens on.
const DefaultAddr = "127.0.0.1:8788"

// Server serialises every mutation behind mu so the read-modify-write of
// the stored JSON documents never interleaves.
type Server struct {
	app       *app.App
	addr      string
	startedAt time.Time
	events    *eventLog

	mu sync.RWMutex
}

// New wraps a. It replaces a.Confirm with a confirmer that approves only
// requests carrying confirm=true.
func New(a *app.App, addr string) *Server {
	if addr == "" {
		addr = DefaultAddr
	}
	a.Confirm = requestConfirmer{}
	return &Server{
		app:       a,
		addr:      addr,
		startedAt: time.Now(),
		events:    newEventLog(defaultEventsBuffer, a.Now),
	}
}

// Handler builds the gin engine.
func (s *Server) Handler() http.Handler {
	r := gin.New()
	r.Use(requestLogger())
	r.Use(recovery())

	r.GET("/healthz", s.handleHealth)

	v1 := r.Group("/v1")
	v1.GET("/dashboard", s.read(s.handleDashboard))
	v1.GET("/events", s.handleEvents)
	v1.GET("/stream", s.handleStream)

	v1.GET("/catalog", s.read(s.handleListCatalog))
	v1.POST("/catalog", s.write(s.handleCreateCatalog))
	v1.PUT("/catalog/:id", s.write(s.handleUpdateCatalog))
	v1.DELETE("/catalog/:id", s.write(s.handleDeleteCatalog))

	v1.GET("/budgets", s.read(s.handleListBudgets))
	v1.GET("/budgets/export.xlsx", s.read(s.handleExportXLSX))
	v1.POST("/budgets", s.write(s.handleCreateBudget))
	v1.GET("/budgets/:id", s.read(s.handleGetBudget))
	v1.PUT("/budgets/:id", s.write(s.handleUpdateBudget))
	v1.DELETE("/budgets/:id", s.write(s.handleDeleteBudget))
	v1.PATCH("/budgets/:id/status", s.write(s.handleUpdateStatus))
	v1.GET("/budgets/:id/pdf", s.read(s.handlePDF))
	v1.GET("/budgets/:id/message", s.read(s.handleMessage))

	v1.GET("/settings", s.read(s.handleGetSettings))
	v1.PUT("/settings", s.write(s.handleSaveSettings))

	return r
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	log.Info().Str("addr", s.addr).Msg("api listening")

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return fmt.Errorf("api http server: %w", err)
	}
}

func (s *Server) read(h gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		s.mu.RLock()
		defer s.mu.RUnlock()
		h(c)
	}
}

func (s *Server) write(h gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		s.mu.Lock()
		defer s.mu.Unlock()
		h(c)
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"ok":         true,
		"started_at": s.startedAt,
	})
}

type confirmKey struct{}

// requestConfirmer approves a destructive action when the handler marked
// the request context as confirmed.
type requestConfirmer struct{}

func (requestConfirmer) Confirm(ctx context.Context, _ string) (bool, error) {
	ok, _ := ctx.Value(confirmKey{}).(bool)
	return ok, nil
}

func confirmedContext(c *gin.Context) context.Context {
	return context.WithValue(c.Request.Context(), confirmKey{}, c.Query("confirm") == "true")
}
