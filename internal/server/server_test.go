package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/theirongolddev/presu/internal/app"
	"github.com/theirongolddev/presu/internal/config"
	"github.com/theirongolddev/presu/internal/export"
	"github.com/theirongolddev/presu/internal/model"
	"github.com/theirongolddev/presu/internal/store"
)

var clock = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T) (*Server, http.Handler) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	a := app.New(store.NewMemory(), config.DefaultConfig(), nil)
	a.Now = func() time.Time { return clock }
	n := 0
	a.NewID = func() string {
		n++
		return fmt.Sprintf("EXP-%06d", n)
	}
	s := New(a, "")
	return s, s.Handler()
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(data)
	} else {
		r = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func seedCement(t *testing.T, h http.Handler) model.CatalogEntry {
	t.Helper()
	w := do(t, h, http.MethodPost, "/v1/catalog", gin.H{
		"name":  "CEMENT BAG",
		"price": 1000,
		"unit":  "unit",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[model.CatalogEntry](t, w)
}

func createCementBudget(t *testing.T, h http.Handler, productID string) model.Budget {
	t.Helper()
	w := do(t, h, http.MethodPost, "/v1/budgets", gin.H{
		"client":   gin.H{"name": "Ana Pérez", "phone": "+54 9 11 5555-0000"},
		"items":    []gin.H{{"productId": productID, "quantity": 3}},
		"discount": 10,
		"taxRate":  21,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[model.Budget](t, w)
}

func TestHealth(t *testing.T) {
	_, h := newTestServer(t)
	w := do(t, h, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"ok":true`)
}

func TestCatalog_CreateListSearch(t *testing.T) {
	_, h := newTestServer(t)
	cement := seedCement(t, h)
	assert.NotEmpty(t, cement.ID)
	assert.Equal(t, model.UnitUnit, cement.Unit)
	assert.Equal(t, model.DefaultCategory, cement.Category)

	w := do(t, h, http.MethodPost, "/v1/catalog", gin.H{"name": "Pintura", "price": "12.5", "unit": "kg", "category": "Finishes"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	all := decode[[]model.CatalogEntry](t, do(t, h, http.MethodGet, "/v1/catalog", nil))
	assert.Len(t, all, 2)

	hits := decode[[]model.CatalogEntry](t, do(t, h, http.MethodGet, "/v1/catalog?q=cement", nil))
	require.Len(t, hits, 1)
	assert.Equal(t, cement.ID, hits[0].ID)
}

func TestCatalog_ValidationAndNotFound(t *testing.T) {
	_, h := newTestServer(t)

	w := do(t, h, http.MethodPost, "/v1/catalog", gin.H{"name": "  ", "price": 10})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = do(t, h, http.MethodPost, "/v1/catalog", gin.H{"name": "Brick", "price": 10, "unit": "barrel"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = do(t, h, http.MethodPut, "/v1/catalog/missing", gin.H{"name": "Brick", "price": 10})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), `"detail"`)

	w = do(t, h, http.MethodPost, "/v1/catalog", "not an object")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCatalog_DeleteNeedsConfirm(t *testing.T) {
	_, h := newTestServer(t)
	cement := seedCement(t, h)

	w := do(t, h, http.MethodDelete, "/v1/catalog/"+cement.ID, nil)
	assert.Equal(t, http.StatusPreconditionRequired, w.Code)

	w = do(t, h, http.MethodDelete, "/v1/catalog/"+cement.ID+"?confirm=true", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	all := decode[[]model.CatalogEntry](t, do(t, h, http.MethodGet, "/v1/catalog", nil))
	assert.Empty(t, all)
}

func TestBudget_CreateComputesTotals(t *testing.T) {
	_, h := newTestServer(t)
	cement := seedCement(t, h)
	b := createCementBudget(t, h, cement.ID)

	assert.Equal(t, "EXP-000001", b.ID)
	assert.Equal(t, model.StatusPending, b.Status)
	assert.True(t, b.Subtotal.Equal(decimal.NewFromInt(3000)), b.Subtotal.String())
	assert.True(t, b.Total.Equal(decimal.NewFromInt(3267)), b.Total.String())
	assert.True(t, b.ValidUntil.Equal(clock.AddDate(0, 0, 15)))
	require.Len(t, b.LineItems, 1)
	assert.Equal(t, "CEMENT BAG", b.LineItems[0].Name)
}

func TestBudget_CreateRejectsInvalid(t *testing.T) {
	_, h := newTestServer(t)
	cement := seedCement(t, h)

	tests := []struct {
		name string
		body gin.H
	}{
		{"missing client", gin.H{"items": []gin.H{{"productId": cement.ID, "quantity": 1}}}},
		{"no items", gin.H{"client": gin.H{"name": "Ana"}}},
		{"unknown product", gin.H{"client": gin.H{"name": "Ana"}, "items": []gin.H{{"productId": "nope", "quantity": 1}}}},
		{"zero quantity", gin.H{"client": gin.H{"name": "Ana"}, "items": []gin.H{{"productId": cement.ID, "quantity": 0}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, http.MethodPost, "/v1/budgets", tt.body)
			assert.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())
		})
	}

	list := decode[[]model.Budget](t, do(t, h, http.MethodGet, "/v1/budgets", nil))
	assert.Empty(t, list)
}

func TestBudget_UpdateKeepsIdentityAndSnapshots(t *testing.T) {
	_, h := newTestServer(t)
	cement := seedCement(t, h)
	b := createCementBudget(t, h, cement.ID)

	w := do(t, h, http.MethodPatch, "/v1/budgets/"+b.ID+"/status", gin.H{"status": "accepted"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// The catalog entry disappears; the budget's snapshot still resolves.
	w = do(t, h, http.MethodDelete, "/v1/catalog/"+cement.ID+"?confirm=true", nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, h, http.MethodPut, "/v1/budgets/"+b.ID, gin.H{
		"client": gin.H{"name": "Ana Pérez"},
		"items":  []gin.H{{"productId": cement.ID, "quantity": 2, "price": 1500}},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	got := decode[model.Budget](t, w)

	assert.Equal(t, b.ID, got.ID)
	assert.Equal(t, model.StatusAccepted, got.Status)
	assert.True(t, got.CreatedAt.Equal(b.CreatedAt))
	assert.True(t, got.Subtotal.Equal(decimal.NewFromInt(3000)), got.Subtotal.String())
	assert.True(t, got.TaxPercent.Equal(decimal.NewFromInt(21)), "tax kept when omitted")

	list := decode[[]model.Budget](t, do(t, h, http.MethodGet, "/v1/budgets", nil))
	assert.Len(t, list, 1)
}

func TestBudget_ListFilters(t *testing.T) {
	_, h := newTestServer(t)
	cement := seedCement(t, h)
	first := createCementBudget(t, h, cement.ID)
	createCementBudget(t, h, cement.ID)
	do(t, h, http.MethodPatch, "/v1/budgets/"+first.ID+"/status", gin.H{"status": "rechazado"})

	list := decode[[]model.Budget](t, do(t, h, http.MethodGet, "/v1/budgets?status=rejected", nil))
	require.Len(t, list, 1)
	assert.Equal(t, first.ID, list[0].ID)

	list = decode[[]model.Budget](t, do(t, h, http.MethodGet, "/v1/budgets?q=5555", nil))
	assert.Len(t, list, 2)

	w := do(t, h, http.MethodGet, "/v1/budgets?status=archived", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestBudget_StatusErrors(t *testing.T) {
	_, h := newTestServer(t)
	cement := seedCement(t, h)
	b := createCementBudget(t, h, cement.ID)

	w := do(t, h, http.MethodPatch, "/v1/budgets/"+b.ID+"/status", gin.H{"status": "cancelado"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = do(t, h, http.MethodPatch, "/v1/budgets/EXP-NOPE/status", gin.H{"status": "accepted"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, h, http.MethodPatch, "/v1/budgets/"+b.ID+"/status", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBudget_DeleteNeedsConfirm(t *testing.T) {
	_, h := newTestServer(t)
	cement := seedCement(t, h)
	b := createCementBudget(t, h, cement.ID)

	w := do(t, h, http.MethodDelete, "/v1/budgets/"+b.ID, nil)
	assert.Equal(t, http.StatusPreconditionRequired, w.Code)

	w = do(t, h, http.MethodDelete, "/v1/budgets/"+b.ID+"?confirm=true", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, h, http.MethodGet, "/v1/budgets/"+b.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestExports(t *testing.T) {
	_, h := newTestServer(t)
	cement := seedCement(t, h)
	b := createCementBudget(t, h, cement.ID)

	w := do(t, h, http.MethodGet, "/v1/budgets/"+b.ID+"/pdf", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))
	assert.Contains(t, w.Header().Get("Content-Disposition"), export.FileName(b))

	w = do(t, h, http.MethodGet, "/v1/budgets/"+b.ID+"/message", nil)
	require.Equal(t, http.StatusOK, w.Code)
	msg := decode[map[string]string](t, w)
	assert.Contains(t, msg["text"], b.ID)
	assert.True(t, strings.HasPrefix(msg["link"], "https://wa.me/5491155550000?text="), msg["link"])

	w = do(t, h, http.MethodGet, "/v1/budgets/export.xlsx", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	id, err := f.GetCellValue("Budgets", "A2")
	require.NoError(t, err)
	assert.Equal(t, b.ID, id)

	w = do(t, h, http.MethodGet, "/v1/budgets/EXP-NOPE/pdf", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSettings_SaveReplacesProfile(t *testing.T) {
	_, h := newTestServer(t)

	p := decode[model.BusinessProfile](t, do(t, h, http.MethodGet, "/v1/settings", nil))
	assert.Equal(t, model.DefaultProfile().BusinessName, p.BusinessName)

	w := do(t, h, http.MethodPut, "/v1/settings", gin.H{"name": "Obras Sur", "phone": "555-1234", "defaultTax": 21})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	p = decode[model.BusinessProfile](t, do(t, h, http.MethodGet, "/v1/settings", nil))
	assert.Equal(t, "Obras Sur", p.BusinessName)
	assert.Equal(t, "555-1234", p.Phone)

	// The second save omits name and phone; both go back to the defaults.
	w = do(t, h, http.MethodPut, "/v1/settings", gin.H{"defaultTax": 21})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	p = decode[model.BusinessProfile](t, do(t, h, http.MethodGet, "/v1/settings", nil))
	assert.Equal(t, model.DefaultProfile().BusinessName, p.BusinessName)
	assert.Equal(t, model.DefaultProfile().Phone, p.Phone)
	assert.True(t, p.DefaultTaxPercent.Equal(decimal.NewFromInt(21)))

	// New budgets pick up the saved tax.
	cement := seedCement(t, h)
	w = do(t, h, http.MethodPost, "/v1/budgets", gin.H{
		"client": gin.H{"name": "Ana"},
		"items":  []gin.H{{"productId": cement.ID, "quantity": 1}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	b := decode[model.Budget](t, w)
	assert.True(t, b.TaxPercent.Equal(decimal.NewFromInt(21)))
}

func TestDashboard(t *testing.T) {
	_, h := newTestServer(t)
	cement := seedCement(t, h)
	b := createCementBudget(t, h, cement.ID)
	createCementBudget(t, h, cement.ID)
	do(t, h, http.MethodPatch, "/v1/budgets/"+b.ID+"/status", gin.H{"status": "accepted"})

	st := decode[app.Stats](t, do(t, h, http.MethodGet, "/v1/dashboard", nil))
	assert.Equal(t, 2, st.Total)
	assert.Equal(t, 1, st.Accepted)
	assert.Equal(t, 1, st.Pending)
	assert.Equal(t, 1, st.CatalogSize)
	assert.True(t, st.AcceptedRevenue.Equal(decimal.NewFromInt(3267)))
}

func TestEvents(t *testing.T) {
	_, h := newTestServer(t)
	cement := seedCement(t, h)
	b := createCementBudget(t, h, cement.ID)

	evs := decode[[]Event](t, do(t, h, http.MethodGet, "/v1/events", nil))
	require.Len(t, evs, 2)
	assert.Equal(t, EventCatalogSaved, evs[0].Type)
	assert.Equal(t, EventBudgetSaved, evs[1].Type)
	assert.Equal(t, b.ID, evs[1].Subject)

	evs = decode[[]Event](t, do(t, h, http.MethodGet, fmt.Sprintf("/v1/events?after=%d", evs[0].ID), nil))
	assert.Len(t, evs, 1)

	w := do(t, h, http.MethodGet, "/v1/events?after=x", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEventLog_Bounded(t *testing.T) {
	l := newEventLog(3, func() time.Time { return clock })
	ch := make(chan Event, 1)
	l.subscribe(ch)
	for i := 0; i < 5; i++ {
		l.publish(EventBudgetSaved, fmt.Sprint(i))
	}
	evs := l.since(0)
	require.Len(t, evs, 3)
	assert.Equal(t, int64(3), evs[0].ID)
	assert.Equal(t, "0", (<-ch).Subject, "full subscribers drop later events")
}

func TestRecovery(t *testing.T) {
	s, _ := newTestServer(t)
	r := s.Handler().(*gin.Engine)
	r.GET("/boom", func(*gin.Context) { panic("kaboom") })

	w := do(t, r, http.MethodGet, "/boom", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "kaboom")
}

func TestMapError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{app.ErrNotConfirmed, http.StatusPreconditionRequired},
		{model.ErrInvalidStatus, http.StatusUnprocessableEntity},
		{fmt.Errorf("wrap: %w", export.ErrDocumentGeneration), http.StatusInternalServerError},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		got, body := mapError(tt.err)
		assert.Equal(t, tt.want, got, tt.err.Error())
		assert.NotContains(t, body.Detail, "disk on fire")
	}
}

func TestRun_ShutsDownOnCancel(t *testing.T) {
	gin.SetMode(gin.TestMode)
	a := app.New(store.NewMemory(), config.DefaultConfig(), nil)
	s := New(a, "127.0.0.1:0")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
