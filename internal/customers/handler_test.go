package customers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/duetrack/duetrack/internal/audit"
	"github.com/duetrack/duetrack/internal/dues"
	"github.com/duetrack/duetrack/internal/notify"
	"github.com/duetrack/duetrack/internal/platform/tabular"
)

type captureDispatcher struct {
	sent []notify.Message
}

func (d *captureDispatcher) Send(ctx context.Context, msg notify.Message) error {
	d.sent = append(d.sent, msg)
	return nil
}

func newTestRouter(t *testing.T) (http.Handler, *captureDispatcher) {
	t.Helper()
	store := tabular.NewMemory[Customer]()
	ledger := dues.NewLedger(tabular.NewMemory[dues.Entry]())
	trail := audit.NewMemoryTrail()
	service := NewService(store, ledger, trail, stubCreds{})
	dispatcher := &captureDispatcher{}
	handler := NewHandler(slog.Default(), service, dispatcher, "Corner Shop")

	r := chi.NewRouter()
	r.Route("/admin", handler.MountAdminRoutes)
	r.Route("/user", handler.MountUserRoutes)
	return r, dispatcher
}

func TestAddEndpointDispatchesWelcome(t *testing.T) {
	router, dispatcher := newTestRouter(t)

	body := `{"name":"Jane Doe","phone":"9000000000","address":"12 Main St","due":500,"email":"jane@example.com"}`
	req := httptest.NewRequest(http.MethodPost, "/admin/customer/add", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var created CreatedCustomer
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.Equal(t, int64(1), created.ID)
	require.Equal(t, "password1234", created.PlainPassword)

	require.Len(t, dispatcher.sent, 1)
	require.Equal(t, "jane@example.com", dispatcher.sent[0].To)
	require.Contains(t, dispatcher.sent[0].Subject, "Corner Shop")
	require.Contains(t, dispatcher.sent[0].Body, "password1234")
}

func TestAddEndpointRejectsMissingName(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/admin/customer/add", strings.NewReader(`{"phone":"9000000000"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListEndpointFiltersActive(t *testing.T) {
	router, _ := newTestRouter(t)

	add := httptest.NewRequest(http.MethodPost, "/admin/customer/add",
		strings.NewReader(`{"name":"Jane Doe","phone":"9000000000"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, add)
	require.Equal(t, http.StatusCreated, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/admin/customers?active_only=true", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var payload struct {
		Customers []Customer `json:"customers"`
		Count     int        `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Equal(t, 1, payload.Count)
	require.Equal(t, "Jane Doe", payload.Customers[0].Name)
}

func TestPayDueEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	add := httptest.NewRequest(http.MethodPost, "/admin/customer/add",
		strings.NewReader(`{"name":"Jane Doe","phone":"9000000000","due":500}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, add)
	require.Equal(t, http.StatusCreated, rec.Code)

	pay := httptest.NewRequest(http.MethodPost, "/user/due/pay",
		strings.NewReader(`{"customer_id":1,"username":"janedoe","amount":200}`))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, pay)

	require.Equal(t, http.StatusOK, rec.Code)
	var payload struct {
		Success bool    `json:"success"`
		NewDue  float64 `json:"new_due"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.True(t, payload.Success)
	require.Equal(t, 300.0, payload.NewDue)
}

func TestDeleteUnknownCustomerEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/admin/customer/delete",
		strings.NewReader(`{"customer_id":42}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}
