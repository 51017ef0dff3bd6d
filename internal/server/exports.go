package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/theirongolddev/presu/internal/budget"
	"github.com/theirongolddev/presu/internal/model"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (s *Server) handlePDF(c *gin.Context) {
	a, err := s.app.ExportPDF(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWith(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+a.Name+`"`)
	c.Data(http.StatusOK, "application/pdf", a.Data)
}

func (s *Server) handleMessage(c *gin.Context) {
	text, link, err := s.app.Message(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWith(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"text": text, "link": link})
}

func (s *Server) handleExportXLSX(c *gin.Context) {
	f := budget.Filter{Query: c.Query("q")}
	if raw := c.Query("status"); raw != "" {
		st, err := model.ParseStatus(raw)
		if err != nil {
			abortWith(c, err)
			return
		}
		f.Status = st
	}
	a, err := s.app.ExportHistory(c.Request.Context(), f)
	if err != nil {
		abortWith(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+a.Name+`"`)
	c.Data(http.StatusOK, xlsxContentType, a.Data)
}

func (s *Server) handleDashboard(c *gin.Context) {
	st, err := s.app.Stats(c.Request.Context())
	if err != nil {
		abortWith(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}
