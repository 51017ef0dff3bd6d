package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/presu/internal/budget"
	"github.com/theirongolddev/presu/internal/catalog"
	"github.com/theirongolddev/presu/internal/model"
	"github.com/theirongolddev/presu/internal/pricing"
)

type itemRequest struct {
	ProductID string              `json:"productId"`
	Quantity  decimal.Decimal     `json:"quantity"`
	Price     decimal.NullDecimal `json:"price"`
}

// budgetRequest is the editable part of a budget. Totals, dates, id and
// status are always derived server-side.
type budgetRequest struct {
	Client           model.ClientInfo         `json:"client"`
	Items            []itemRequest            `json:"items"`
	Materials        []model.RequiredMaterial `json:"requiredMaterials"`
	Discount         decimal.Decimal          `json:"discount"`
	TaxRate          decimal.NullDecimal      `json:"taxRate"`
	ManualAdjustment decimal.Decimal          `json:"manualAdjustment"`
	ValidityDays     *int                     `json:"validityDays"`
}

// apply replaces the editor's working set with r. Line items resolve against
// the editor's existing snapshots first so an edit survives catalog removals.
func (r budgetRequest) apply(e *pricing.Editor, entries []model.CatalogEntry) error {
	lookup := make([]model.CatalogEntry, 0, len(e.LineItems)+len(entries))
	for _, it := range e.LineItems {
		lookup = append(lookup, model.CatalogEntry{
			ID:        it.CatalogRef,
			Name:      it.Name,
			UnitPrice: it.UnitPrice,
			Unit:      it.Unit,
		})
	}
	lookup = append(lookup, entries...)

	e.LineItems = nil
	for i, it := range r.Items {
		if !e.AddLineItem(lookup, it.ProductID, it.Quantity) {
			return fmt.Errorf("%w: item %d (%q) needs a catalog entry and a positive quantity",
				catalog.ErrEntryNotFound, i, it.ProductID)
		}
		if it.Price.Valid {
			if err := e.UpdateLineItem(len(e.LineItems)-1, pricing.FieldPrice, it.Price.Decimal.String()); err != nil {
				return err
			}
		}
	}

	e.Materials = nil
	for _, m := range r.Materials {
		e.AddMaterial(m.Name, m.Quantity)
	}

	e.SetClient(r.Client)
	e.SetDiscount(r.Discount)
	if r.TaxRate.Valid {
		e.SetTax(r.TaxRate.Decimal)
	}
	e.SetManualAdjustment(r.ManualAdjustment)
	if r.ValidityDays != nil {
		e.SetValidityDays(*r.ValidityDays)
	}
	return nil
}

func (s *Server) handleListBudgets(c *gin.Context) {
	f := budget.Filter{Query: c.Query("q")}
	if raw := c.Query("status"); raw != "" {
		st, err := model.ParseStatus(raw)
		if err != nil {
			abortWith(c, err)
			return
		}
		f.Status = st
	}
	all, err := s.app.Budgets.List(c.Request.Context())
	if err != nil {
		abortWith(c, err)
		return
	}
	c.JSON(http.StatusOK, f.Apply(all))
}

func (s *Server) handleGetBudget(c *gin.Context) {
	b, err := s.app.Budgets.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWith(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (s *Server) handleCreateBudget(c *gin.Context) {
	ctx := c.Request.Context()
	e, err := s.app.NewEditor(ctx)
	if err != nil {
		abortWith(c, err)
		return
	}
	s.saveBudget(c, e, http.StatusCreated)
}

func (s *Server) handleUpdateBudget(c *gin.Context) {
	e, err := s.app.EditBudget(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWith(c, err)
		return
	}
	s.saveBudget(c, e, http.StatusOK)
}

func (s *Server) saveBudget(c *gin.Context, e *pricing.Editor, status int) {
	ctx := c.Request.Context()

	var req budgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	entries, err := s.app.Catalog.List(ctx)
	if err != nil {
		abortWith(c, err)
		return
	}
	if err := req.apply(e, entries); err != nil {
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, apiError{Detail: err.Error()})
		return
	}
	b, err := s.app.SaveBudget(ctx, e)
	if err != nil {
		abortWith(c, err)
		return
	}
	s.events.publish(EventBudgetSaved, b.ID)
	c.JSON(status, b)
}

func (s *Server) handleDeleteBudget(c *gin.Context) {
	id := c.Param("id")
	if err := s.app.DeleteBudget(confirmedContext(c), id); err != nil {
		abortWith(c, err)
		return
	}
	s.events.publish(EventBudgetDeleted, id)
	c.Status(http.StatusNoContent)
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (s *Server) handleUpdateStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "status is required")
		return
	}
	st, err := model.ParseStatus(req.Status)
	if err != nil {
		abortWith(c, err)
		return
	}
	b, err := s.app.UpdateStatus(c.Request.Context(), c.Param("id"), st)
	if err != nil {
		abortWith(c, err)
		return
	}
	s.events.publish(EventBudgetStatus, b.ID)
	c.JSON(http.StatusOK, b)
}
