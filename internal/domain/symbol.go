package domain

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// SymbolRecord is one pictogram returned by the symbol service.
// This is a domain entity - it has no knowledge of the service's wire format.
type SymbolRecord struct {
	// ID is the identifier assigned by the symbol service. Zero for uploads.
	ID int `json:"id,omitempty"`

	// Keywords are the service's labels for the pictogram, in service order.
	Keywords []string `json:"keywords,omitempty"`

	// DataURL holds an uploaded image instead of a service pictogram.
	DataURL string `json:"dataUrl,omitempty"`
}

// IsUpload reports whether the record carries an inline image.
func (r SymbolRecord) IsUpload() bool {
	return r.DataURL != ""
}

// Ref returns a stable textual reference for the record: the service ID or "upload".
func (r SymbolRecord) Ref() string {
	if r.IsUpload() {
		return "upload"
	}

	return strconv.Itoa(r.ID)
}

// Clone returns a copy that shares no slices with r.
func (r SymbolRecord) Clone() SymbolRecord {
	if r.Keywords != nil {
		r.Keywords = append([]string(nil), r.Keywords...)
	}

	return r
}

// SymbolKey identifies a cache entry: a language plus a normalized word.
type SymbolKey struct {
	Language string
	Word     string
}

// NewSymbolKey normalizes word and pairs it with lang.
func NewSymbolKey(lang, word string) SymbolKey {
	return SymbolKey{
		Language: strings.ToLower(strings.TrimSpace(lang)),
		Word:     NormalizeWord(word),
	}
}

// Empty reports whether the key has nothing to look up.
func (k SymbolKey) Empty() bool {
	return k.Word == ""
}

// String returns the persisted form "lang:word".
func (k SymbolKey) String() string {
	return k.Language + ":" + k.Word
}

// NormalizeWord case-folds w and strips its diacritics so that "Café" and "cafe"
// share a cache entry. It is idempotent.
func NormalizeWord(w string) string {
	return strings.TrimSpace(stripMarks(strings.ToLower(w)))
}

// SanitizeFilename turns a board title into a portable file name stem.
// Only ASCII letters, digits, spaces and hyphens survive; whitespace runs become "-".
func SanitizeFilename(title string) string {
	stripped := stripMarks(title)

	var b strings.Builder

	for _, r := range stripped {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}

	return strings.Join(strings.Fields(b.String()), "-")
}

// stripMarks decomposes s (NFD) and drops every nonspacing mark.
// A new transformer is built per call since transformers carry state.
func stripMarks(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))

	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}

	return out
}
