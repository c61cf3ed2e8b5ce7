package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/pictoboard/internal/adapters/http/dto"
	"github.com/jsamuelsen/pictoboard/internal/app/library"
)

// LibraryHandler handles saved-board endpoints.
type LibraryHandler struct {
	library *library.Library
}

// NewLibraryHandler creates a library handler.
func NewLibraryHandler(lib *library.Library) *LibraryHandler {
	return &LibraryHandler{library: lib}
}

// List handles GET /api/v1/library
// Returns the saved boards, most recent first.
func (h *LibraryHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, dto.ToLibraryEntries(h.library.List(c.Request.Context())))
}

// Download handles GET /api/v1/library/:index
// Returns a saved board as a board file.
func (h *LibraryHandler) Download(c *gin.Context) {
	index, ok := pathIndex(c)
	if !ok {
		return
	}

	snapshot, err := h.library.Get(c.Request.Context(), index)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	data, err := library.EncodeDocument(snapshot)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	filename := library.ExportFilename(snapshot.Title, snapshot.CapturedAt)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/json; charset=utf-8", data)
}

// Clear handles DELETE /api/v1/library
func (h *LibraryHandler) Clear(c *gin.Context) {
	if err := h.library.Clear(c.Request.Context()); err != nil {
		dto.HandleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// RegisterLibraryRoutes registers library routes on the given router group.
func (h *LibraryHandler) RegisterLibraryRoutes(rg *gin.RouterGroup) {
	rg.GET("/library", h.List)
	rg.GET("/library/:index", h.Download)
	rg.DELETE("/library", h.Clear)
}
