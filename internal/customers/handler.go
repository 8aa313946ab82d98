package customers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/duetrack/duetrack/internal/notify"
	"github.com/duetrack/duetrack/internal/platform/httpx"
)

// Handler exposes the admin and customer-facing endpoints. Notification
// dispatch happens here, after the mutation has committed; a failed dispatch
// is logged and the response still reports success.
type Handler struct {
	logger     *slog.Logger
	service    *Service
	dispatcher notify.Dispatcher
	shopName   string
	validate   *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service, dispatcher notify.Dispatcher, shopName string) *Handler {
	return &Handler{
		logger:     logger,
		service:    service,
		dispatcher: dispatcher,
		shopName:   shopName,
		validate:   validator.New(),
	}
}

// MountAdminRoutes registers the admin-side customer endpoints.
func (h *Handler) MountAdminRoutes(r chi.Router) {
	r.Get("/customers", h.list)
	r.Post("/customer/add", h.add)
	r.Post("/credentials/reset", h.resetCredentials)
	r.Post("/customer/update_due", h.updateDue)
	r.Post("/customer/partial_payment", h.partialPayment)
	r.Post("/customer/delete", h.deleteOne)
	r.Post("/customer/delete_all", h.deleteAll)
}

// MountUserRoutes registers the customer-side endpoints.
func (h *Handler) MountUserRoutes(r chi.Router) {
	r.Post("/due/pay", h.payDue)
	r.Post("/account/delete", h.deleteAccount)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active_only") == "true"
	all, err := h.service.List(r.Context(), activeOnly)
	if err != nil {
		h.logger.Error("list customers", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"customers": all, "count": len(all)})
}

type addRequest struct {
	Name     string  `json:"name" validate:"required"`
	Phone    string  `json:"phone" validate:"required"`
	Address  string  `json:"address"`
	Due      float64 `json:"due" validate:"gte=0"`
	Category string  `json:"category"`
	Email    string  `json:"email" validate:"omitempty,email"`
}

func (h *Handler) add(w http.ResponseWriter, r *http.Request) {
	var req addRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	created, err := h.service.Add(r.Context(), AddInput{
		Name:     req.Name,
		Phone:    req.Phone,
		Address:  req.Address,
		Due:      req.Due,
		Category: req.Category,
		Email:    req.Email,
	})
	if err != nil {
		h.logger.Error("add customer", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	if created.Email != "" {
		msg := notify.Welcome(h.shopName, created.Name, created.Email, created.Username, created.PlainPassword, created.Due)
		if err := h.dispatcher.Send(r.Context(), msg); err != nil {
			h.logger.Warn("welcome dispatch failed", slog.Int64("customer_id", created.ID), slog.Any("error", err))
		}
	}

	h.logger.Info("customer added", slog.Int64("customer_id", created.ID), slog.String("name", created.Name))
	httpx.JSON(w, http.StatusCreated, created)
}

type resetCredentialsRequest struct {
	CustomerID int64  `json:"customer_id" validate:"required,gt=0"`
	Username   string `json:"username"`
	Password   string `json:"password"`
}

func (h *Handler) resetCredentials(w http.ResponseWriter, r *http.Request) {
	var req resetCredentialsRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	reset, err := h.service.ResetCredentials(r.Context(), req.CustomerID, req.Username, req.Password)
	if err != nil {
		h.logger.Error("reset credentials", slog.Int64("customer_id", req.CustomerID), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	if reset.Email != "" {
		msg := notify.CredentialsUpdated(h.shopName, reset.Name, reset.Email, reset.Username, reset.PlainPassword)
		if err := h.dispatcher.Send(r.Context(), msg); err != nil {
			h.logger.Warn("credentials dispatch failed", slog.Int64("customer_id", reset.ID), slog.Any("error", err))
		}
	}

	h.logger.Info("credentials reset", slog.Int64("customer_id", reset.ID))
	httpx.JSON(w, http.StatusOK, reset)
}

type updateDueRequest struct {
	CustomerID int64   `json:"customer_id" validate:"required,gt=0"`
	NewDue     float64 `json:"new_due" validate:"gte=0"`
}

func (h *Handler) updateDue(w http.ResponseWriter, r *http.Request) {
	var req updateDueRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	cust, err := h.service.UpdateDue(r.Context(), req.CustomerID, req.NewDue)
	if err != nil {
		h.logger.Error("update due", slog.Int64("customer_id", req.CustomerID), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	h.logger.Info("due updated", slog.Int64("customer_id", cust.ID), slog.Float64("new_due", cust.Due))
	httpx.JSON(w, http.StatusOK, cust)
}

type partialPaymentRequest struct {
	CustomerID int64   `json:"customer_id" validate:"required,gt=0"`
	Amount     float64 `json:"amount" validate:"required,gt=0"`
}

func (h *Handler) partialPayment(w http.ResponseWriter, r *http.Request) {
	var req partialPaymentRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	cust, err := h.service.RecordPartialPayment(r.Context(), req.CustomerID, req.Amount)
	if err != nil {
		h.logger.Error("partial payment", slog.Int64("customer_id", req.CustomerID), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	h.logger.Info("partial payment recorded", slog.Int64("customer_id", cust.ID), slog.Float64("new_due", cust.Due))
	httpx.JSON(w, http.StatusOK, cust)
}

type deleteRequest struct {
	CustomerID int64 `json:"customer_id" validate:"required,gt=0"`
}

func (h *Handler) deleteOne(w http.ResponseWriter, r *http.Request) {
	var req deleteRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	cust, err := h.service.Delete(r.Context(), req.CustomerID)
	if err != nil {
		h.logger.Error("delete customer", slog.Int64("customer_id", req.CustomerID), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	h.logger.Info("customer deleted", slog.Int64("customer_id", cust.ID), slog.String("name", cust.Name))
	httpx.JSON(w, http.StatusOK, map[string]any{"deleted": cust})
}

func (h *Handler) deleteAll(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteAll(r.Context()); err != nil {
		h.logger.Error("delete all customers", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	h.logger.Info("all customers deleted")
	httpx.JSON(w, http.StatusOK, map[string]any{"deleted_all": true})
}

type payDueRequest struct {
	CustomerID int64   `json:"customer_id" validate:"required,gt=0"`
	Username   string  `json:"username" validate:"required"`
	Amount     float64 `json:"amount" validate:"required,gt=0"`
}

func (h *Handler) payDue(w http.ResponseWriter, r *http.Request) {
	var req payDueRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	cust, err := h.service.PayDue(r.Context(), req.Username, req.CustomerID, req.Amount)
	if err != nil {
		h.logger.Error("pay due", slog.Int64("customer_id", req.CustomerID), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	h.logger.Info("due paid", slog.Int64("customer_id", cust.ID), slog.Float64("amount", req.Amount), slog.Float64("new_due", cust.Due))
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true, "new_due": cust.Due})
}

type deleteAccountRequest struct {
	CustomerID int64  `json:"customer_id" validate:"required,gt=0"`
	Username   string `json:"username" validate:"required"`
}

func (h *Handler) deleteAccount(w http.ResponseWriter, r *http.Request) {
	var req deleteAccountRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	cust, err := h.service.DeleteAccount(r.Context(), req.Username, req.CustomerID)
	if err != nil {
		h.logger.Error("delete account", slog.Int64("customer_id", req.CustomerID), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	h.logger.Info("account deleted", slog.Int64("customer_id", cust.ID), slog.String("username", req.Username))
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true})
}
