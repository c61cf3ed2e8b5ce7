package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/pictoboard/internal/adapters/http/dto"
	"github.com/jsamuelsen/pictoboard/internal/app"
	"github.com/jsamuelsen/pictoboard/internal/app/symbols"
	"github.com/jsamuelsen/pictoboard/internal/domain"
)

// BoardHandler handles board session endpoints.
type BoardHandler struct {
	sessions *app.Sessions
	prefs    *app.Preferences
	imageURL dto.ImageURLFunc
}

// NewBoardHandler creates a board handler.
// prefs may be nil, in which case new boards use the default language.
func NewBoardHandler(sessions *app.Sessions, prefs *app.Preferences, imageURL dto.ImageURLFunc) *BoardHandler {
	return &BoardHandler{
		sessions: sessions,
		prefs:    prefs,
		imageURL: imageURL,
	}
}

// Create handles POST /api/v1/boards
// Opens a session with an empty board.
//
// @Summary Open a board
// @Tags boards
// @Accept json
// @Produce json
// @Param request body dto.CreateBoardRequest false "Board options"
// @Success 201 {object} dto.BoardResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/v1/boards [post]
func (h *BoardHandler) Create(c *gin.Context) {
	var req dto.CreateBoardRequest

	if c.Request.ContentLength != 0 {
		if err := dto.BindAndValidate(c, &req); err != nil {
			dto.HandleBindingError(c, err)
			return
		}
	}

	lang := req.Language
	if lang == "" {
		lang = domain.DefaultLanguage
		if h.prefs != nil {
			lang = h.prefs.Language(c.Request.Context())
		}
	}

	if !domain.IsSupportedLanguage(lang) {
		dto.HandleError(c, domain.NewValidationErrorWithValue("language", "unsupported language", lang))
		return
	}

	s := h.sessions.Create(lang)

	c.Header("Location", "/api/v1/boards/"+s.ID())
	c.JSON(http.StatusCreated, dto.ToBoardResponse(s.State(), h.imageURL))
}

// Get handles GET /api/v1/boards/:id
func (h *BoardHandler) Get(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, dto.ToBoardResponse(s.State(), h.imageURL))
}

// Close handles DELETE /api/v1/boards/:id
func (h *BoardHandler) Close(c *gin.Context) {
	if err := h.sessions.Delete(c.Param("id")); err != nil {
		dto.HandleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Generate handles POST /api/v1/boards/:id/generate
// Replaces the board with one card per word of the text.
//
// @Summary Generate a board from text
// @Tags boards
// @Accept json
// @Produce json
// @Param id path string true "Board ID"
// @Param request body dto.GenerateRequest true "Text"
// @Success 200 {object} dto.GenerateResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /api/v1/boards/{id}/generate [post]
func (h *BoardHandler) Generate(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	var req dto.GenerateRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.HandleBindingError(c, err)
		return
	}

	res, err := s.Generate(c.Request.Context(), req.Text)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToGenerateResponse(res, h.imageURL))
}

// Update handles PATCH /api/v1/boards/:id
// Present fields are applied one at a time, each as its own undo step.
// Processing stops at the first invalid field; earlier fields stay applied.
func (h *BoardHandler) Update(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	var req dto.UpdateBoardRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.HandleBindingError(c, err)
		return
	}

	var steps []func() (app.State, error)

	if req.Title != nil {
		steps = append(steps, func() (app.State, error) { return s.SetTitle(*req.Title) })
	}

	if req.Columns != nil {
		steps = append(steps, func() (app.State, error) { return s.SetColumns(*req.Columns) })
	}

	if req.BorderColor != nil {
		steps = append(steps, func() (app.State, error) { return s.SetBorderColor(*req.BorderColor) })
	}

	if req.ShowText != nil {
		steps = append(steps, func() (app.State, error) { return s.SetLegends(*req.ShowText) })
	}

	if req.Language != nil {
		steps = append(steps, func() (app.State, error) { return s.SetLanguage(c.Request.Context(), *req.Language) })
	}

	state := s.State()

	for _, step := range steps {
		var err error

		state, err = step()
		if err != nil {
			dto.HandleError(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, dto.ToBoardResponse(state, h.imageURL))
}

// Undo handles POST /api/v1/boards/:id/undo
// With nothing to undo the board is returned unchanged.
func (h *BoardHandler) Undo(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	state, _ := s.Undo()
	c.JSON(http.StatusOK, dto.ToBoardResponse(state, h.imageURL))
}

// Redo handles POST /api/v1/boards/:id/redo
func (h *BoardHandler) Redo(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	state, _ := s.Redo()
	c.JSON(http.StatusOK, dto.ToBoardResponse(state, h.imageURL))
}

// Duplicate handles POST /api/v1/boards/:id/cards/:index/duplicate
func (h *BoardHandler) Duplicate(c *gin.Context) {
	h.cardAction(c, func(s *app.Session, i int) (app.State, error) { return s.Duplicate(i) })
}

// DeleteCard handles DELETE /api/v1/boards/:id/cards/:index
func (h *BoardHandler) DeleteCard(c *gin.Context) {
	h.cardAction(c, func(s *app.Session, i int) (app.State, error) { return s.Delete(i) })
}

// Recolor handles POST /api/v1/boards/:id/cards/:index/recolor
// Paints the card in the board's current border color.
func (h *BoardHandler) Recolor(c *gin.Context) {
	h.cardAction(c, func(s *app.Session, i int) (app.State, error) { return s.RecolorCard(i) })
}

// ReplaceSymbol handles PUT /api/v1/boards/:id/cards/:index/symbol
// Accepts a service pictogram id or an uploaded image as a data URL.
func (h *BoardHandler) ReplaceSymbol(c *gin.Context) {
	var req dto.ReplaceSymbolRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.HandleBindingError(c, err)
		return
	}

	symbol := domain.SymbolRecord{ID: req.ID}

	if req.DataURL != "" {
		var err error

		symbol, err = symbols.FromDataURL(req.DataURL)
		if err != nil {
			dto.HandleError(c, err)
			return
		}
	}

	h.cardAction(c, func(s *app.Session, i int) (app.State, error) { return s.ReplaceSymbol(i, symbol) })
}

// Reorder handles PUT /api/v1/boards/:id/order
func (h *BoardHandler) Reorder(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	var req dto.ReorderRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.HandleBindingError(c, err)
		return
	}

	state, err := s.Reorder(req.Order)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToBoardResponse(state, h.imageURL))
}

// Save handles POST /api/v1/boards/:id/save
// Adds the board to the library and returns it as a downloadable board file.
func (h *BoardHandler) Save(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	exp, err := s.Save(c.Request.Context())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exp.Filename))
	c.Data(http.StatusOK, "application/json; charset=utf-8", exp.Data)
}

// Load handles POST /api/v1/boards/:id/load/:index
// Replaces the board with a saved one, 0 being the most recent.
func (h *BoardHandler) Load(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	index, ok := pathIndex(c)
	if !ok {
		return
	}

	state, err := s.LoadSaved(c.Request.Context(), index)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToBoardResponse(state, h.imageURL))
}

// Import handles POST /api/v1/boards/:id/import
// The body is a board file as produced by Save.
func (h *BoardHandler) Import(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	data, err := c.GetRawData()
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			dto.HandleErrorCode(c, dto.ErrorCodeTooLarge, "board file too large")
			return
		}

		dto.HandleErrorCode(c, dto.ErrorCodeBadRequest, "unreadable request body")

		return
	}

	state, err := s.Import(c.Request.Context(), data)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToBoardResponse(state, h.imageURL))
}

// RegisterBoardRoutes registers board routes on the given router group.
func (h *BoardHandler) RegisterBoardRoutes(rg *gin.RouterGroup) {
	boards := rg.Group("/boards")
	boards.POST("", h.Create)
	boards.GET("/:id", h.Get)
	boards.PATCH("/:id", h.Update)
	boards.DELETE("/:id", h.Close)
	boards.POST("/:id/generate", h.Generate)
	boards.POST("/:id/undo", h.Undo)
	boards.POST("/:id/redo", h.Redo)
	boards.PUT("/:id/order", h.Reorder)
	boards.POST("/:id/save", h.Save)
	boards.POST("/:id/load/:index", h.Load)
	boards.POST("/:id/import", h.Import)

	cards := boards.Group("/:id/cards/:index")
	cards.DELETE("", h.DeleteCard)
	cards.POST("/duplicate", h.Duplicate)
	cards.POST("/recolor", h.Recolor)
	cards.PUT("/symbol", h.ReplaceSymbol)
}

func (h *BoardHandler) session(c *gin.Context) (*app.Session, bool) {
	s, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		dto.HandleError(c, err)
		return nil, false
	}

	return s, true
}

func (h *BoardHandler) cardAction(c *gin.Context, action func(*app.Session, int) (app.State, error)) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	index, ok := pathIndex(c)
	if !ok {
		return
	}

	state, err := action(s, index)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToBoardResponse(state, h.imageURL))
}

func pathIndex(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		dto.HandleError(c, domain.NewValidationErrorWithValue("index", "must be an integer", c.Param("index")))
		return 0, false
	}

	return index, true
}
