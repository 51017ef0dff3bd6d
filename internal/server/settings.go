package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/theirongolddev/presu/internal/model"
)

func (s *Server) handleGetSettings(c *gin.Context) {
	p, err := s.app.Settings.Get(c.Request.Context())
	if err != nil {
		abortWith(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// handleSaveSettings replaces the stored profile with the body. Fields the
// body omits take their default values, not the previously stored ones.
func (s *Server) handleSaveSettings(c *gin.Context) {
	p := model.DefaultProfile()
	if err := c.ShouldBindJSON(&p); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	if err := s.app.Settings.Save(c.Request.Context(), p); err != nil {
		abortWith(c, err)
		return
	}
	s.events.publish(EventSettingsSaved, "")
	c.JSON(http.StatusOK, p)
}
