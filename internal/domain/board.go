package domain

import (
	"slices"
	"time"
)

// Board defaults, matching the original editor.
const (
	DefaultColumns     = 4
	MinColumns         = 1
	MaxColumns         = 8
	DefaultBorderColor = "#e5e7eb"
	DefaultLanguage    = "pt"
)

// Card is one word on the board with the pictogram chosen for it.
type Card struct {
	// Word is the display form exactly as typed.
	Word string `json:"word"`

	// Symbol is nil when no pictogram was found for the word.
	Symbol *SymbolRecord `json:"symbol"`

	// BorderColor is a CSS color string.
	BorderColor string `json:"borderColor"`
}

// Found reports whether the card has a pictogram.
func (c Card) Found() bool {
	return c.Symbol != nil
}

// Clone returns a deep copy of the card.
func (c Card) Clone() Card {
	if c.Symbol != nil {
		s := c.Symbol.Clone()
		c.Symbol = &s
	}

	return c
}

// BoardSnapshot is a captured board. Snapshots are values: once taken they are never
// mutated, and every accessor that hands one out clones it first.
type BoardSnapshot struct {
	Cards       []Card    `json:"cards"`
	Title       string    `json:"title"`
	Columns     int       `json:"columns"`
	BorderColor string    `json:"borderColor"`
	ShowLegends bool      `json:"showText"`
	CapturedAt  time.Time `json:"capturedAt,omitzero"`
}

// NewBoardSnapshot returns the state of a fresh, empty board.
func NewBoardSnapshot() BoardSnapshot {
	return BoardSnapshot{
		Cards:       []Card{},
		Columns:     DefaultColumns,
		BorderColor: DefaultBorderColor,
		ShowLegends: true,
	}
}

// Clone returns a deep copy of the snapshot.
func (s BoardSnapshot) Clone() BoardSnapshot {
	cards := make([]Card, len(s.Cards))
	for i, c := range s.Cards {
		cards[i] = c.Clone()
	}

	s.Cards = cards

	return s
}

// Equal compares two snapshots by value, ignoring CapturedAt.
func (s BoardSnapshot) Equal(o BoardSnapshot) bool {
	if s.Title != o.Title || s.Columns != o.Columns ||
		s.BorderColor != o.BorderColor || s.ShowLegends != o.ShowLegends {
		return false
	}

	return slices.EqualFunc(s.Cards, o.Cards, func(a, b Card) bool {
		if a.Word != b.Word || a.BorderColor != b.BorderColor {
			return false
		}

		if a.Symbol == nil || b.Symbol == nil {
			return a.Symbol == nil && b.Symbol == nil
		}

		return a.Symbol.ID == b.Symbol.ID && a.Symbol.DataURL == b.Symbol.DataURL &&
			slices.Equal(a.Symbol.Keywords, b.Symbol.Keywords)
	})
}

// ClampColumns bounds n to the supported column range.
func ClampColumns(n int) int {
	return min(max(n, MinColumns), MaxColumns)
}
