package acl

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jsamuelsen/pictoboard/internal/domain"
)

// pictogramDTO is one element of an ARASAAC search answer. Fields we do not
// use (categories, tags, synsets, license flags) are left undecoded.
type pictogramDTO struct {
	ID       int          `json:"_id"`
	Keywords []keywordDTO `json:"keywords"`
}

type keywordDTO struct {
	Keyword string `json:"keyword"`
	Plural  string `json:"plural,omitempty"`
}

// decodePictograms translates a search answer body into symbol records, in
// the service's order. An answer holding any pictogram without a usable id
// is rejected whole.
func decodePictograms(body []byte) ([]domain.SymbolRecord, error) {
	var external []pictogramDTO
	if err := json.Unmarshal(body, &external); err != nil {
		return nil, fmt.Errorf("decoding search answer: %w", err)
	}

	records := make([]domain.SymbolRecord, 0, len(external))

	for i, ext := range external {
		rec, err := translatePictogram(ext)
		if err != nil {
			return nil, fmt.Errorf("pictogram %d: %w", i, err)
		}

		records = append(records, rec)
	}

	return records, nil
}

// translatePictogram keeps the non-blank keywords, first spelling wins.
func translatePictogram(ext pictogramDTO) (domain.SymbolRecord, error) {
	if ext.ID <= 0 {
		return domain.SymbolRecord{}, domain.NewValidationErrorWithValue("_id", "must be positive", ext.ID)
	}

	keywords := make([]string, 0, len(ext.Keywords))
	seen := make(map[string]struct{}, len(ext.Keywords))

	for _, kw := range ext.Keywords {
		word := strings.TrimSpace(kw.Keyword)
		if word == "" {
			continue
		}

		if _, dup := seen[word]; dup {
			continue
		}

		seen[word] = struct{}{}
		keywords = append(keywords, word)
	}

	return domain.SymbolRecord{ID: ext.ID, Keywords: keywords}, nil
}
