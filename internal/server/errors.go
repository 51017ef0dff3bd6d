package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/theirongolddev/presu/internal/app"
	"github.com/theirongolddev/presu/internal/budget"
	"github.com/theirongolddev/presu/internal/catalog"
	"github.com/theirongolddev/presu/internal/export"
	"github.com/theirongolddev/presu/internal/model"
	"github.com/theirongolddev/presu/internal/pricing"
)

// apiError is the envelope for every 4xx/5xx response.
type apiError struct {
	Detail string `json:"detail"`
}

func mapError(err error) (int, apiError) {
	switch {
	case errors.Is(err, budget.ErrBudgetNotFound),
		errors.Is(err, catalog.ErrEntryNotFound):
		return http.StatusNotFound, apiError{Detail: err.Error()}
	case errors.Is(err, pricing.ErrClientNameRequired),
		errors.Is(err, pricing.ErrNoLineItems),
		errors.Is(err, catalog.ErrNameRequired),
		errors.Is(err, catalog.ErrInvalidUnit),
		errors.Is(err, catalog.ErrInvalidPrice),
		errors.Is(err, model.ErrInvalidStatus):
		return http.StatusUnprocessableEntity, apiError{Detail: err.Error()}
	case errors.Is(err, app.ErrNotConfirmed):
		return http.StatusPreconditionRequired, apiError{Detail: "destructive action requires confirm=true"}
	case errors.Is(err, export.ErrDocumentGeneration):
		return http.StatusInternalServerError, apiError{Detail: export.ErrDocumentGeneration.Error()}
	}
	return http.StatusInternalServerError, apiError{Detail: "internal server error"}
}

func abortWith(c *gin.Context, err error) {
	status, body := mapError(err)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
	}
	c.AbortWithStatusJSON(status, body)
}

func badRequest(c *gin.Context, detail string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, apiError{Detail: detail})
}
