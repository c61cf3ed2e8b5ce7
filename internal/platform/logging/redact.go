package logging

import (
	"log/slog"
	"regexp"

	"github.com/m-mizutani/masq"
)

var (
	// dataURLPattern matches an uploaded pictogram carried inline. Boards and
	// board files embed them, and a single one can run to megabytes.
	dataURLPattern = regexp.MustCompile(`^data:image/[a-z0-9.+-]+;base64,`)

	bearerPattern = regexp.MustCompile(`(?i)^bearer\s+.+$`)
	jwtPattern    = regexp.MustCompile(`^eyJ[A-Za-z0-9_-]*\.eyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]*$`)
)

// DefaultRedactOptions returns the masq options applied to every sink.
func DefaultRedactOptions() []masq.Option {
	return []masq.Option{
		masq.WithFieldName("dataUrl"),
		masq.WithFieldName("DataURL"),
		masq.WithRegex(dataURLPattern),

		masq.WithFieldName("password"),
		masq.WithFieldName("token"),
		masq.WithFieldName("authorization"),
		masq.WithFieldName("cookie"),
		masq.WithFieldName("api_key"),
		masq.WithFieldName("apiKey"),
		masq.WithFieldPrefix("secret"),
		masq.WithRegex(bearerPattern),
		masq.WithRegex(jwtPattern),
	}
}

// NewReplaceAttr returns a slog ReplaceAttr that applies the default
// redaction plus opts.
func NewReplaceAttr(opts ...masq.Option) func(groups []string, a slog.Attr) slog.Attr {
	return masq.New(append(DefaultRedactOptions(), opts...)...)
}
