package dto

import (
	"time"

	"github.com/jsamuelsen/pictoboard/internal/app"
	"github.com/jsamuelsen/pictoboard/internal/domain"
)

// ImageURLFunc returns the image address of a service pictogram.
type ImageURLFunc func(id int) string

// CreateBoardRequest opens a board session.
type CreateBoardRequest struct {
	// Language is the search language; the stored preference when empty.
	Language string `json:"language" validate:"omitempty,lang"`
}

// GenerateRequest is the text to turn into cards.
type GenerateRequest struct {
	Text string `json:"text" validate:"required,notempty,max=2000"`
}

// UpdateBoardRequest changes board settings. Each present field is applied
// as its own undo step, in field order.
type UpdateBoardRequest struct {
	Title       *string `json:"title"       validate:"omitempty,max=200"`
	Columns     *int    `json:"columns"     validate:"omitempty,gte=1,lte=8"`
	BorderColor *string `json:"borderColor" validate:"omitempty,iscolor"`
	ShowText    *bool   `json:"showText"`
	Language    *string `json:"language"    validate:"omitempty,lang"`
}

// ReplaceSymbolRequest picks a service pictogram or an uploaded image for a card.
type ReplaceSymbolRequest struct {
	ID      int    `json:"id"      validate:"omitempty,gt=0"`
	DataURL string `json:"dataUrl" validate:"omitempty,startswith=data:image/"`
}

// Validate requires exactly one of ID and DataURL.
func (r *ReplaceSymbolRequest) Validate() error {
	if (r.ID > 0) == (r.DataURL != "") {
		return domain.NewValidationError("symbol", "exactly one of id or dataUrl is required")
	}

	return nil
}

// ReorderRequest is the new card order: position i takes the card at Order[i].
type ReorderRequest struct {
	Order []int `json:"order" validate:"required,dive,gte=0"`
}

// SymbolResponse is a card's pictogram. ImageURL is a data URL for uploads.
type SymbolResponse struct {
	ID       int      `json:"id,omitempty"`
	Keywords []string `json:"keywords,omitempty"`
	ImageURL string   `json:"imageUrl"`
	Upload   bool     `json:"upload,omitempty"`
}

// CardResponse is one card. Symbol is null for a word without a pictogram.
type CardResponse struct {
	Word        string          `json:"word"`
	Symbol      *SymbolResponse `json:"symbol"`
	BorderColor string          `json:"borderColor"`
}

// BoardResponse is a board session's state.
type BoardResponse struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Columns     int            `json:"columns"`
	Rows        int            `json:"rows"`
	BorderColor string         `json:"borderColor"`
	ShowText    bool           `json:"showText"`
	Cards       []CardResponse `json:"cards"`
	Language    string         `json:"language"`
	UndoDepth   int            `json:"undoDepth"`
	RedoDepth   int            `json:"redoDepth"`
	CanUndo     bool           `json:"canUndo"`
	CanRedo     bool           `json:"canRedo"`
}

// GenerateResponse is a generated board with its lookup summary.
type GenerateResponse struct {
	State      *BoardResponse `json:"state"`
	Found      int            `json:"found"`
	NotFound   int            `json:"notFound"`
	AllMissing bool           `json:"allMissing"`
}

// LibraryEntryResponse summarizes one saved board.
type LibraryEntryResponse struct {
	Index     int       `json:"index"`
	Title     string    `json:"title"`
	CardCount int       `json:"cardCount"`
	SavedAt   time.Time `json:"savedAt"`
}

// SymbolCandidate is one search result.
type SymbolCandidate struct {
	ID       int      `json:"id"`
	Keywords []string `json:"keywords"`
	ImageURL string   `json:"imageUrl"`
}

// PreferencesRequest changes stored preferences. Absent fields are kept.
type PreferencesRequest struct {
	Language *string `json:"language" validate:"omitempty,lang"`
	Theme    *string `json:"theme"    validate:"omitempty,oneof=light dark"`
}

// ToSymbolResponse converts a symbol record, or returns nil for none.
func ToSymbolResponse(s *domain.SymbolRecord, imageURL ImageURLFunc) *SymbolResponse {
	if s == nil {
		return nil
	}

	if s.IsUpload() {
		return &SymbolResponse{ImageURL: s.DataURL, Upload: true}
	}

	return &SymbolResponse{
		ID:       s.ID,
		Keywords: s.Keywords,
		ImageURL: imageURL(s.ID),
	}
}

// ToBoardResponse converts a session state.
func ToBoardResponse(st app.State, imageURL ImageURLFunc) *BoardResponse {
	cards := make([]CardResponse, len(st.Board.Cards))
	for i, c := range st.Board.Cards {
		cards[i] = CardResponse{
			Word:        c.Word,
			Symbol:      ToSymbolResponse(c.Symbol, imageURL),
			BorderColor: c.BorderColor,
		}
	}

	return &BoardResponse{
		ID:          st.ID,
		Title:       st.Board.Title,
		Columns:     st.Layout.Columns,
		Rows:        st.Layout.Rows,
		BorderColor: st.Board.BorderColor,
		ShowText:    st.Board.ShowLegends,
		Cards:       cards,
		Language:    st.Language,
		UndoDepth:   st.UndoDepth,
		RedoDepth:   st.RedoDepth,
		CanUndo:     st.UndoDepth > 0,
		CanRedo:     st.RedoDepth > 0,
	}
}

// ToGenerateResponse converts a generation result.
func ToGenerateResponse(res app.GenerateResult, imageURL ImageURLFunc) *GenerateResponse {
	return &GenerateResponse{
		State:      ToBoardResponse(res.State, imageURL),
		Found:      res.Found,
		NotFound:   res.NotFound,
		AllMissing: res.AllMissing,
	}
}

// ToLibraryEntries converts the saved boards, most recent first.
func ToLibraryEntries(boards []domain.BoardSnapshot) []LibraryEntryResponse {
	entries := make([]LibraryEntryResponse, len(boards))
	for i, b := range boards {
		entries[i] = LibraryEntryResponse{
			Index:     i,
			Title:     b.Title,
			CardCount: len(b.Cards),
			SavedAt:   b.CapturedAt,
		}
	}

	return entries
}

// ToSymbolCandidates converts search results.
func ToSymbolCandidates(records []domain.SymbolRecord, imageURL ImageURLFunc) []SymbolCandidate {
	out := make([]SymbolCandidate, len(records))
	for i, r := range records {
		keywords := r.Keywords
		if keywords == nil {
			keywords = []string{}
		}

		out[i] = SymbolCandidate{ID: r.ID, Keywords: keywords, ImageURL: imageURL(r.ID)}
	}

	return out
}
