package server

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/theirongolddev/presu/internal/catalog"
)

type catalogRequest struct {
	Name     string      `json:"name"`
	Price    json.Number `json:"price"`
	Unit     string      `json:"unit"`
	Category string      `json:"category"`
}

func (r catalogRequest) form(id string) catalog.Form {
	return catalog.Form{
		ID:       id,
		Name:     r.Name,
		Price:    r.Price.String(),
		Unit:     r.Unit,
		Category: r.Category,
	}
}

func (s *Server) handleListCatalog(c *gin.Context) {
	entries, err := s.app.Catalog.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		abortWith(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (s *Server) handleCreateCatalog(c *gin.Context) {
	s.upsertCatalog(c, "", http.StatusCreated)
}

func (s *Server) handleUpdateCatalog(c *gin.Context) {
	s.upsertCatalog(c, c.Param("id"), http.StatusOK)
}

func (s *Server) upsertCatalog(c *gin.Context, id string, status int) {
	var req catalogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	entry, err := req.form(id).Entry()
	if err != nil {
		abortWith(c, err)
		return
	}
	saved, err := s.app.Catalog.Upsert(c.Request.Context(), entry)
	if err != nil {
		abortWith(c, err)
		return
	}
	s.events.publish(EventCatalogSaved, saved.ID)
	c.JSON(status, saved)
}

func (s *Server) handleDeleteCatalog(c *gin.Context) {
	id := c.Param("id")
	if err := s.app.DeleteCatalogEntry(confirmedContext(c), id); err != nil {
		abortWith(c, err)
		return
	}
	s.events.publish(EventCatalogDeleted, id)
	c.Status(http.StatusNoContent)
}
