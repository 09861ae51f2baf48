// handlers_styles.go - Style preset handlers
package api

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/roadmap-visualizer/backend/internal/styles"
)

// StyleHandlerImpl implements the StyleHandler interface.
type StyleHandlerImpl struct {
	styles *styles.Manager
}

// NewStyleHandler creates a new style preset handler.
func NewStyleHandler(styleMgr *styles.Manager) StyleHandler {
	return &StyleHandlerImpl{styles: styleMgr}
}

// HandleListStyles returns all stored style presets.
func (h *StyleHandlerImpl) HandleListStyles(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"presets": h.styles.List(),
	})
}

// HandleGetStyle returns one preset by name.
func (h *StyleHandlerImpl) HandleGetStyle(c echo.Context) error {
	name := c.Param("name")
	preset, ok := h.styles.Get(name)
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "preset not found"})
	}
	return c.JSON(http.StatusOK, preset)
}

// HandlePutStyle stores a preset named in the body, replacing any
// existing one of the same name.
func (h *StyleHandlerImpl) HandlePutStyle(c echo.Context) error {
	var preset styles.Preset
	if err := c.Bind(&preset); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	return h.storePreset(c, &preset, http.StatusCreated)
}

// HandleUpsertStyle stores a preset under the name in the URL,
// overriding any name carried in the body.
func (h *StyleHandlerImpl) HandleUpsertStyle(c echo.Context) error {
	var preset styles.Preset
	if err := c.Bind(&preset); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	preset.Name = c.Param("name")
	return h.storePreset(c, &preset, http.StatusOK)
}

func (h *StyleHandlerImpl) storePreset(c echo.Context, preset *styles.Preset, okStatus int) error {
	if preset.Name == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "name is required"})
	}
	if err := preset.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	if err := h.styles.Put(preset); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": fmt.Sprintf("failed to save preset: %v", err)})
	}
	return c.JSON(okStatus, preset)
}
