// Package board holds the live board and its undo/redo history.
//
// Engine and History are not safe for concurrent use; the owning session
// serializes access to them.
package board

import (
	"fmt"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/jsamuelsen/pictoboard/internal/domain"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Layout is the display state derived from a board.
type Layout struct {
	Columns     int  `json:"columns"`
	Rows        int  `json:"rows"`
	ShowLegends bool `json:"showText"`
}

// Engine owns the live board. Its mutators change state directly and do
// no history bookkeeping; History.Apply is how callers reach them.
type Engine struct {
	live   domain.BoardSnapshot
	layout Layout
}

// NewEngine returns an engine holding an empty board.
func NewEngine() *Engine {
	e := &Engine{}
	e.Restore(domain.NewBoardSnapshot())

	return e
}

// Snapshot captures the live board by value.
func (e *Engine) Snapshot() domain.BoardSnapshot {
	return e.live.Clone()
}

// Restore replaces the live board wholesale with s and re-derives the
// layout. Restoring the same snapshot twice yields the same state.
// The capture time is not part of the live board.
func (e *Engine) Restore(s domain.BoardSnapshot) {
	live := s.Clone()
	live.Columns = domain.ClampColumns(live.Columns)
	live.CapturedAt = time.Time{}

	if live.BorderColor == "" {
		live.BorderColor = domain.DefaultBorderColor
	}

	e.live = live
	e.deriveLayout()
}

// Layout returns the display state of the live board.
func (e *Engine) Layout() Layout {
	return e.layout
}

// Len returns the number of cards.
func (e *Engine) Len() int {
	return len(e.live.Cards)
}

// Card returns a copy of the card at i.
func (e *Engine) Card(i int) (domain.Card, error) {
	if err := e.checkIndex(i); err != nil {
		return domain.Card{}, err
	}

	return e.live.Cards[i].Clone(), nil
}

// BorderColor returns the board's current border color, used for new cards.
func (e *Engine) BorderColor() string {
	return e.live.BorderColor
}

// SetCards replaces the card sequence.
func (e *Engine) SetCards(cards []domain.Card) {
	next := make([]domain.Card, len(cards))
	for i, c := range cards {
		next[i] = c.Clone()
	}

	e.live.Cards = next
	e.deriveLayout()
}

// InsertCardAfter inserts card right after position i.
func (e *Engine) InsertCardAfter(i int, card domain.Card) error {
	if err := e.checkIndex(i); err != nil {
		return err
	}

	cards := make([]domain.Card, 0, len(e.live.Cards)+1)
	cards = append(cards, e.live.Cards[:i+1]...)
	cards = append(cards, card.Clone())
	cards = append(cards, e.live.Cards[i+1:]...)

	e.live.Cards = cards
	e.deriveLayout()

	return nil
}

// RemoveCard deletes the card at i.
func (e *Engine) RemoveCard(i int) error {
	if err := e.checkIndex(i); err != nil {
		return err
	}

	cards := make([]domain.Card, 0, len(e.live.Cards)-1)
	cards = append(cards, e.live.Cards[:i]...)
	cards = append(cards, e.live.Cards[i+1:]...)

	e.live.Cards = cards
	e.deriveLayout()

	return nil
}

// SetTitle sets the board title.
func (e *Engine) SetTitle(title string) {
	e.live.Title = title
}

// SetColumnCount sets the grid width.
func (e *Engine) SetColumnCount(n int) error {
	if n < domain.MinColumns || n > domain.MaxColumns {
		return domain.NewValidationErrorWithValue("columns",
			fmt.Sprintf("must be between %d and %d", domain.MinColumns, domain.MaxColumns), n)
	}

	e.live.Columns = n
	e.deriveLayout()

	return nil
}

// SetBorderColorAll recolors every card and makes color the default for new cards.
func (e *Engine) SetBorderColorAll(color string) error {
	if err := checkColor(color); err != nil {
		return err
	}

	e.live.BorderColor = color
	for i := range e.live.Cards {
		e.live.Cards[i].BorderColor = color
	}

	return nil
}

// SetCardBorderColor recolors the card at i.
func (e *Engine) SetCardBorderColor(i int, color string) error {
	if err := e.checkIndex(i); err != nil {
		return err
	}

	if err := checkColor(color); err != nil {
		return err
	}

	e.live.Cards[i].BorderColor = color

	return nil
}

// SetLegendVisibility shows or hides the words under the pictograms.
func (e *Engine) SetLegendVisibility(show bool) {
	e.live.ShowLegends = show
	e.deriveLayout()
}

// ReplaceCardSymbol sets the pictogram of the card at i.
func (e *Engine) ReplaceCardSymbol(i int, symbol domain.SymbolRecord) error {
	if err := e.checkIndex(i); err != nil {
		return err
	}

	s := symbol.Clone()
	e.live.Cards[i].Symbol = &s

	return nil
}

// Reorder rearranges the cards so that new position k holds the card
// previously at order[k]. order must be a permutation of the card indexes.
func (e *Engine) Reorder(order []int) error {
	if len(order) != len(e.live.Cards) {
		return domain.NewValidationErrorWithValue("order",
			"must list every card exactly once", len(order))
	}

	seen := make([]bool, len(order))
	cards := make([]domain.Card, len(order))

	for k, from := range order {
		if from < 0 || from >= len(order) || seen[from] {
			return domain.NewValidationErrorWithValue("order",
				"must list every card exactly once", from)
		}

		seen[from] = true
		cards[k] = e.live.Cards[from]
	}

	e.SetCards(cards)

	return nil
}

func (e *Engine) checkIndex(i int) error {
	if i < 0 || i >= len(e.live.Cards) {
		return domain.NewValidationErrorWithValue("index",
			"out of range [0,"+strconv.Itoa(len(e.live.Cards))+")", i)
	}

	return nil
}

func (e *Engine) deriveLayout() {
	cols := domain.ClampColumns(e.live.Columns)

	e.layout = Layout{
		Columns:     cols,
		Rows:        (len(e.live.Cards) + cols - 1) / cols,
		ShowLegends: e.live.ShowLegends,
	}
}

// checkColor accepts the CSS color forms validator knows: hex, rgb(a) and hsl(a).
func checkColor(color string) error {
	if err := validate.Var(color, "required,iscolor"); err != nil {
		return domain.NewValidationErrorWithValue("borderColor", "must be a CSS color", color)
	}

	return nil
}
