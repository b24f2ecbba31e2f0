package notifications

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/atlas-itsm/atlas/internal/platform/httpx"
	"github.com/atlas-itsm/atlas/internal/rbac"
	"github.com/atlas-itsm/atlas/internal/shared"
)

// Handler manages notification preference endpoints. Every role carries the
// manage permission for its own settings, so the gate here is about having
// an authenticated, known role rather than privilege.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	rbac     rbac.Middleware
	validate *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, rbac rbac.Middleware) *Handler {
	return &Handler{logger: logger, service: service, rbac: rbac, validate: validator.New()}
}

// MountRoutes registers notification routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequirePermission(shared.PermNotificationsManage))
		r.Get("/preferences", h.getPreferences)
		r.Put("/preferences", h.updatePreferences)
	})
}

type updatePreferencesRequest struct {
	EmailEnabled bool   `json:"emailEnabled"`
	PushEnabled  bool   `json:"pushEnabled"`
	Locale       string `json:"locale" validate:"max=35"`
	QuietStart   string `json:"quietStart" validate:"omitempty,len=5"`
	QuietEnd     string `json:"quietEnd" validate:"omitempty,len=5"`
}

func (h *Handler) getPreferences(w http.ResponseWriter, r *http.Request) {
	principal := rbac.PrincipalFromContext(r.Context())
	pref, err := h.service.GetPreferences(r.Context(), principal.ID)
	if err != nil {
		h.logger.Error("get notification preferences", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, pref)
}

func (h *Handler) updatePreferences(w http.ResponseWriter, r *http.Request) {
	var req updatePreferencesRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, fmt.Errorf("decode body: %w", httpx.ErrValidation))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.RespondError(w, fmt.Errorf("%v: %w", err, httpx.ErrValidation))
		return
	}
	principal := rbac.PrincipalFromContext(r.Context())
	pref, err := h.service.UpdatePreferences(r.Context(), Preference{
		UserID:       principal.ID,
		EmailEnabled: req.EmailEnabled,
		PushEnabled:  req.PushEnabled,
		Locale:       req.Locale,
		QuietStart:   req.QuietStart,
		QuietEnd:     req.QuietEnd,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, pref)
}
