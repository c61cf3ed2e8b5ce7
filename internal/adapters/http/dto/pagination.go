package dto

import (
	"encoding/base64"
	"encoding/json"
	"errors"
)

// Page sizes for candidate search.
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// ErrInvalidCursor is returned for a cursor that does not decode, is
// negative, or was issued for a different word.
var ErrInvalidCursor = errors.New("invalid cursor")

// PageRequest is the paging part of a search query.
type PageRequest struct {
	// Cursor is the NextCursor of the previous page; empty for the first.
	Cursor string `form:"cursor"`

	Limit int `form:"limit" validate:"omitempty,gte=1,lte=100"`
}

// GetLimit returns the page size with defaults applied.
func (p *PageRequest) GetLimit() int {
	if p.Limit <= 0 {
		return DefaultLimit
	}

	return min(p.Limit, MaxLimit)
}

// Page is one window of search results.
type Page[T any] struct {
	Items      []T    `json:"items"`
	NextCursor string `json:"nextCursor,omitempty"`
	HasMore    bool   `json:"hasMore"`
}

// SearchCursor is the position after a page, bound to the word searched.
type SearchCursor struct {
	Word   string `json:"w"`
	Offset int    `json:"o"`
}

// EncodeCursor returns the opaque form of c.
func EncodeCursor(c SearchCursor) string {
	data, err := json.Marshal(c)
	if err != nil {
		return ""
	}

	return base64.URLEncoding.EncodeToString(data)
}

// DecodeCursor parses a cursor produced by EncodeCursor.
func DecodeCursor(encoded string) (SearchCursor, error) {
	var c SearchCursor

	data, err := base64.URLEncoding.DecodeString(encoded)
	if err != nil {
		return c, ErrInvalidCursor
	}

	if err := json.Unmarshal(data, &c); err != nil || c.Offset < 0 {
		return SearchCursor{}, ErrInvalidCursor
	}

	return c, nil
}

// Paginate returns the page of items for word that req asks for. A cursor
// past the end yields an empty page.
func Paginate[T any](items []T, word string, req *PageRequest) (*Page[T], error) {
	offset := 0

	if req.Cursor != "" {
		c, err := DecodeCursor(req.Cursor)
		if err != nil {
			return nil, err
		}

		if c.Word != word {
			return nil, ErrInvalidCursor
		}

		offset = c.Offset
	}

	if offset >= len(items) {
		return &Page[T]{Items: []T{}}, nil
	}

	end := min(offset+req.GetLimit(), len(items))
	page := &Page[T]{Items: items[offset:end], HasMore: end < len(items)}

	if page.HasMore {
		page.NextCursor = EncodeCursor(SearchCursor{Word: word, Offset: end})
	}

	return page, nil
}
