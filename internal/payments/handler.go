package payments

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/duetrack/duetrack/internal/platform/httpx"
)

// Handler exposes gateway key management and the checkout endpoints.
type Handler struct {
	logger   *slog.Logger
	keys     *KeyStore
	client   *Client
	validate *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, keys *KeyStore, client *Client) *Handler {
	return &Handler{logger: logger, keys: keys, client: client, validate: validator.New()}
}

// MountAdminRoutes registers the key-management endpoint.
func (h *Handler) MountAdminRoutes(r chi.Router) {
	r.Post("/save_keys", h.saveKeys)
}

// MountCustomerRoutes registers the checkout endpoint.
func (h *Handler) MountCustomerRoutes(r chi.Router) {
	r.Post("/pay", h.createOrder)
}

// MountStatusRoutes registers the payment status endpoint.
func (h *Handler) MountStatusRoutes(r chi.Router) {
	r.Get("/status/{paymentID}", h.paymentStatus)
}

type saveKeysRequest struct {
	KeyID     string `json:"key_id" validate:"required"`
	KeySecret string `json:"key_secret" validate:"required"`
	Mode      string `json:"mode" validate:"omitempty,oneof=test live"`
}

func (h *Handler) saveKeys(w http.ResponseWriter, r *http.Request) {
	var req saveKeysRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	mode := req.Mode
	if mode == "" {
		mode = "test"
	}
	if err := h.keys.Save(Keys{KeyID: req.KeyID, KeySecret: req.KeySecret, Mode: mode}); err != nil {
		h.logger.Error("save gateway keys", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	h.logger.Info("gateway keys saved", slog.String("mode", mode))
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true, "mode": mode})
}

type createOrderRequest struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	order, err := h.client.CreateOrder(r.Context(), req.Amount)
	if errors.Is(err, ErrNoKeys) {
		httpx.Problem(w, http.StatusServiceUnavailable, "Gateway Not Configured", "payment gateway keys have not been saved")
		return
	}
	if err != nil {
		h.logger.Error("create order", slog.Any("error", err))
		httpx.Problem(w, http.StatusBadGateway, "Gateway Error", "could not create payment order")
		return
	}
	h.logger.Info("order created", slog.String("order_id", order.OrderID), slog.Float64("amount", order.Amount))
	httpx.JSON(w, http.StatusOK, order)
}

func (h *Handler) paymentStatus(w http.ResponseWriter, r *http.Request) {
	paymentID := chi.URLParam(r, "paymentID")
	if paymentID == "" {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "payment id required")
		return
	}

	status, err := h.client.PaymentStatus(r.Context(), paymentID)
	if errors.Is(err, ErrNoKeys) {
		httpx.Problem(w, http.StatusServiceUnavailable, "Gateway Not Configured", "payment gateway keys have not been saved")
		return
	}
	if err != nil {
		h.logger.Error("payment status", slog.String("payment_id", paymentID), slog.Any("error", err))
		httpx.Problem(w, http.StatusBadGateway, "Gateway Error", "could not fetch payment status")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"payment_id": paymentID, "status": status})
}
