package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/pictoboard/internal/adapters/http/dto"
	"github.com/jsamuelsen/pictoboard/internal/app"
)

// PreferencesHandler handles the stored user preferences.
type PreferencesHandler struct {
	prefs *app.Preferences
}

// NewPreferencesHandler creates a preferences handler.
func NewPreferencesHandler(prefs *app.Preferences) *PreferencesHandler {
	return &PreferencesHandler{prefs: prefs}
}

// Get handles GET /api/v1/preferences
func (h *PreferencesHandler) Get(c *gin.Context) {
	values, err := h.prefs.All(c.Request.Context())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, values)
}

// Update handles PUT /api/v1/preferences
// Absent fields keep their stored value.
func (h *PreferencesHandler) Update(c *gin.Context) {
	var req dto.PreferencesRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.HandleBindingError(c, err)
		return
	}

	ctx := c.Request.Context()

	if req.Language != nil {
		if err := h.prefs.SetLanguage(ctx, *req.Language); err != nil {
			dto.HandleError(c, err)
			return
		}
	}

	if req.Theme != nil {
		if err := h.prefs.SetTheme(ctx, *req.Theme); err != nil {
			dto.HandleError(c, err)
			return
		}
	}

	h.Get(c)
}

// RegisterPreferenceRoutes registers preference routes on the given router group.
func (h *PreferencesHandler) RegisterPreferenceRoutes(rg *gin.RouterGroup) {
	rg.GET("/preferences", h.Get)
	rg.PUT("/preferences", h.Update)
}
