package audit

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/duetrack/duetrack/internal/platform/httpx"
)

const defaultFeedLimit = 10

// Handler exposes the merged activity feeds.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers the admin feed endpoints.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/recent_activity", h.recentActivity)
	r.Get("/user_transactions", h.userTransactions)
}

func (h *Handler) recentActivity(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.RecentActivity(r.Context(), feedLimit(r))
	if err != nil {
		h.logger.Error("recent activity", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"activity": rows, "count": len(rows)})
}

func (h *Handler) userTransactions(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.UserTransactions(r.Context(), feedLimit(r))
	if err != nil {
		h.logger.Error("user transactions", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"transactions": rows, "count": len(rows)})
}

func feedLimit(r *http.Request) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return defaultFeedLimit
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return defaultFeedLimit
	}
	return limit
}
