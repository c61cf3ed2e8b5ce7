package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/pictoboard/internal/adapters/http/dto"
	"github.com/jsamuelsen/pictoboard/internal/app"
	"github.com/jsamuelsen/pictoboard/internal/domain"
)

// SymbolHandler handles pictogram search endpoints.
type SymbolHandler struct {
	resolver app.SymbolResolver
	imageURL dto.ImageURLFunc
}

// NewSymbolHandler creates a symbol handler.
func NewSymbolHandler(resolver app.SymbolResolver, imageURL dto.ImageURLFunc) *SymbolHandler {
	return &SymbolHandler{
		resolver: resolver,
		imageURL: imageURL,
	}
}

// Search handles GET /api/v1/symbols/:lang/search/:word
// Lists every candidate pictogram for a word, in the symbol service's order.
//
// @Summary Search pictograms
// @Tags symbols
// @Produce json
// @Param lang path string true "Language code"
// @Param word path string true "Word"
// @Param cursor query string false "Cursor from a previous page"
// @Param limit query int false "Page size (1-100)"
// @Success 200 {object} dto.Page[dto.SymbolCandidate]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /api/v1/symbols/{lang}/search/{word} [get]
func (h *SymbolHandler) Search(c *gin.Context) {
	lang, word := c.Param("lang"), c.Param("word")
	if !domain.IsSupportedLanguage(lang) {
		dto.HandleError(c, domain.NewValidationErrorWithValue("lang", "unsupported language", lang))
		return
	}

	var req dto.PageRequest
	if err := dto.BindQueryAndValidate(c, &req); err != nil {
		dto.HandleBindingError(c, err)
		return
	}

	records, err := h.resolver.ResolveAll(c.Request.Context(), word, lang)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	page, err := dto.Paginate(dto.ToSymbolCandidates(records, h.imageURL), word, &req)
	if err != nil {
		dto.HandleErrorCode(c, dto.ErrorCodeBadRequest, "invalid cursor")
		return
	}

	c.JSON(http.StatusOK, page)
}

// RegisterSymbolRoutes registers symbol routes on the given router group.
func (h *SymbolHandler) RegisterSymbolRoutes(rg *gin.RouterGroup) {
	rg.GET("/symbols/:lang/search/:word", h.Search)
}
