package library

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"path"
	"slices"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/jsamuelsen/pictoboard/internal/domain"
)

const cardClass = "pictogram-card"

// document is the portable board file:
// {cards, title, columns, borderColor, showText, timestamp}.
// timestamp is Unix milliseconds.
type document struct {
	Cards       []domain.Card `json:"cards"`
	Title       string        `json:"title"`
	Columns     int           `json:"columns"`
	BorderColor string        `json:"borderColor"`
	ShowText    bool          `json:"showText"`
	Timestamp   int64         `json:"timestamp,omitempty"`
}

// incomingDocument accepts every shape a board file has had.
// Nil fields were absent. Older files carry the rendered grid in html
// instead of cards, and columns as a string.
type incomingDocument struct {
	Cards       *[]domain.Card  `json:"cards"`
	HTML        *string         `json:"html"`
	Title       *string         `json:"title"`
	Columns     json.RawMessage `json:"columns"`
	BorderColor *string         `json:"borderColor"`
	ShowText    *bool           `json:"showText"`
	Timestamp   *json.Number    `json:"timestamp"`
}

// EncodeDocument writes s as an indented board file.
func EncodeDocument(s domain.BoardSnapshot) ([]byte, error) {
	doc := document{
		Cards:       s.Cards,
		Title:       s.Title,
		Columns:     s.Columns,
		BorderColor: s.BorderColor,
		ShowText:    s.ShowLegends,
	}

	if doc.Cards == nil {
		doc.Cards = []domain.Card{}
	}

	if !s.CapturedAt.IsZero() {
		doc.Timestamp = s.CapturedAt.UnixMilli()
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding board: %w", err)
	}

	return append(data, '\n'), nil
}

// DecodeDocument reads a board file. Fields the file does not carry keep
// their value from live. Any parse failure returns a MalformedImportError
// and no snapshot.
func DecodeDocument(data []byte, live domain.BoardSnapshot) (domain.BoardSnapshot, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return domain.BoardSnapshot{}, domain.NewMalformedImportError("empty document", nil)
	}

	var in incomingDocument
	if err := json.Unmarshal(trimmed, &in); err != nil {
		return domain.BoardSnapshot{}, domain.NewMalformedImportError("invalid JSON", err)
	}

	out := live.Clone()

	if in.Title != nil {
		out.Title = *in.Title
	}

	if in.BorderColor != nil {
		out.BorderColor = *in.BorderColor
	}

	if in.ShowText != nil {
		out.ShowLegends = *in.ShowText
	}

	if len(in.Columns) > 0 && !bytes.Equal(in.Columns, []byte("null")) {
		cols, err := decodeColumns(in.Columns)
		if err != nil {
			return domain.BoardSnapshot{}, err
		}

		out.Columns = cols
	}

	if in.Timestamp != nil {
		ms, err := in.Timestamp.Int64()
		if err != nil {
			return domain.BoardSnapshot{}, domain.NewMalformedImportError("timestamp is not an integer", err)
		}

		out.CapturedAt = time.UnixMilli(ms).UTC()
	}

	switch {
	case in.Cards != nil:
		out.Cards = *in.Cards
		for i := range out.Cards {
			if out.Cards[i].BorderColor == "" {
				out.Cards[i].BorderColor = out.BorderColor
			}
		}
	case in.HTML != nil:
		cards, err := cardsFromHTML(*in.HTML, out.BorderColor)
		if err != nil {
			return domain.BoardSnapshot{}, err
		}

		out.Cards = cards
	}

	if out.Cards == nil {
		out.Cards = []domain.Card{}
	}

	return out, nil
}

// decodeColumns accepts 4 or "4".
func decodeColumns(raw json.RawMessage) (int, error) {
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, domain.NewMalformedImportError("columns must be a number", err)
	}

	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, domain.NewMalformedImportError("columns must be a number", err)
	}

	return n, nil
}

// cardsFromHTML rebuilds cards from a saved grid fragment. Each element
// with the pictogram-card class is one card: data-word is the word, an
// inline border-color its color, and the first <img> its pictogram.
func cardsFromHTML(fragment, defaultColor string) ([]domain.Card, error) {
	root := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}

	nodes, err := html.ParseFragment(strings.NewReader(fragment), root)
	if err != nil {
		return nil, domain.NewMalformedImportError("invalid html grid", err)
	}

	cards := []domain.Card{}

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && hasClass(n, cardClass) {
			cards = append(cards, cardFromNode(n, defaultColor))
			return
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	for _, n := range nodes {
		walk(n)
	}

	return cards, nil
}

func cardFromNode(n *html.Node, defaultColor string) domain.Card {
	card := domain.Card{
		Word:        attr(n, "data-word"),
		BorderColor: styleProperty(attr(n, "style"), "border-color"),
	}

	if card.BorderColor == "" {
		card.BorderColor = defaultColor
	}

	if img := find(n, func(c *html.Node) bool { return c.DataAtom == atom.Img }); img != nil {
		card.Symbol = symbolFromSrc(attr(img, "src"))
	}

	if card.Word == "" {
		if legend := find(n, func(c *html.Node) bool { return hasClass(c, "pictogram-legend") }); legend != nil {
			card.Word = strings.TrimSpace(text(legend))
		}
	}

	return card
}

// symbolFromSrc maps an image address back to a record: a data URL is an
// upload, {base}/{id} a service pictogram. Anything else is no pictogram.
func symbolFromSrc(src string) *domain.SymbolRecord {
	if strings.HasPrefix(src, "data:") {
		return &domain.SymbolRecord{DataURL: src}
	}

	u, err := url.Parse(src)
	if err != nil {
		return nil
	}

	id, err := strconv.Atoi(path.Base(u.Path))
	if err != nil || id <= 0 {
		return nil
	}

	return &domain.SymbolRecord{ID: id}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}

	return ""
}

func hasClass(n *html.Node, class string) bool {
	return n.Type == html.ElementNode && slices.Contains(strings.Fields(attr(n, "class")), class)
}

// find returns the first descendant of n matching match, depth first.
func find(n *html.Node, match func(*html.Node) bool) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && match(c) {
			return c
		}

		if found := find(c, match); found != nil {
			return found
		}
	}

	return nil
}

func text(n *html.Node) string {
	var b strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(n)

	return b.String()
}

// styleProperty extracts one declaration from an inline style attribute.
func styleProperty(style, property string) string {
	for decl := range strings.SplitSeq(style, ";") {
		name, value, ok := strings.Cut(decl, ":")
		if ok && strings.EqualFold(strings.TrimSpace(name), property) {
			return strings.TrimSpace(value)
		}
	}

	return ""
}
