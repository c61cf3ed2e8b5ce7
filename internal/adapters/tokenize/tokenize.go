// Package tokenize splits the text typed into the board into display words.
//
// Words are returned exactly as typed; normalization for lookups happens
// later, in the symbol key.
package tokenize

import (
	"fmt"
	"strings"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"

	"github.com/jsamuelsen/pictoboard/internal/ports"
)

// Whitespace splits text on runs of white space.
type Whitespace struct{}

// Split implements ports.Tokenizer.
func (Whitespace) Split(_, text string) []string {
	return strings.Fields(text)
}

// posSymbol is the IPA part of speech for punctuation and other symbols.
const posSymbol = "記号"

// Japanese segments Japanese text, which has no spaces between words,
// using kagome with the IPA dictionary. Punctuation is dropped.
type Japanese struct {
	t *tokenizer.Tokenizer
}

// NewJapanese loads the IPA dictionary and builds the tokenizer.
func NewJapanese() (*Japanese, error) {
	t, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	if err != nil {
		return nil, fmt.Errorf("creating japanese tokenizer: %w", err)
	}

	return &Japanese{t: t}, nil
}

// Split implements ports.Tokenizer.
func (j *Japanese) Split(_, text string) []string {
	words := []string{}

	for _, token := range j.t.Tokenize(text) {
		if token.Class == tokenizer.DUMMY || strings.TrimSpace(token.Surface) == "" {
			continue
		}

		if pos := token.POS(); len(pos) > 0 && pos[0] == posSymbol {
			continue
		}

		words = append(words, token.Surface)
	}

	return words
}

// ByLanguage picks a tokenizer per language code, falling back to a
// default for languages without a dedicated one.
type ByLanguage struct {
	fallback ports.Tokenizer
	routes   map[string]ports.Tokenizer
}

// NewByLanguage creates a router. Panics if fallback is nil.
func NewByLanguage(fallback ports.Tokenizer, routes map[string]ports.Tokenizer) *ByLanguage {
	if fallback == nil {
		panic("ByLanguage: fallback tokenizer is required")
	}

	r := make(map[string]ports.Tokenizer, len(routes))
	for lang, t := range routes {
		r[lang] = t
	}

	return &ByLanguage{fallback: fallback, routes: r}
}

// New returns the standard router: whitespace splitting, with the
// Japanese segmenter for "ja".
func New() (*ByLanguage, error) {
	ja, err := NewJapanese()
	if err != nil {
		return nil, err
	}

	return NewByLanguage(Whitespace{}, map[string]ports.Tokenizer{"ja": ja}), nil
}

// Split implements ports.Tokenizer.
func (b *ByLanguage) Split(lang, text string) []string {
	if t, ok := b.routes[lang]; ok {
		return t.Split(lang, text)
	}

	return b.fallback.Split(lang, text)
}
