package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jsamuelsen/pictoboard/internal/domain"
	"github.com/jsamuelsen/pictoboard/internal/ports"
)

// PreferenceValues are the user's stored preferences.
type PreferenceValues struct {
	Language string `json:"language"`
	Theme    string `json:"theme"`
}

// PreferencesConfig contains the preference store's dependencies.
type PreferencesConfig struct {
	Store           ports.BlobStore
	DefaultLanguage string
	Logger          *slog.Logger
}

// Preferences stores the search language and the theme mode, each as a
// JSON string in its own namespace. Unset or unreadable values fall back to
// the defaults.
type Preferences struct {
	store       ports.BlobStore
	defaultLang string
	logger      *slog.Logger
}

// NewPreferences creates the preference store.
// Panics if Store is nil.
func NewPreferences(cfg PreferencesConfig) *Preferences {
	if cfg.Store == nil {
		panic("Preferences: Store is required")
	}

	lang := cfg.DefaultLanguage
	if !domain.IsSupportedLanguage(lang) {
		lang = domain.DefaultLanguage
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Preferences{
		store:       cfg.Store,
		defaultLang: lang,
		logger:      logger,
	}
}

// Language returns the stored search language.
func (p *Preferences) Language(ctx context.Context) string {
	lang, ok := p.read(ctx, ports.NamespaceLanguage)
	if !ok || !domain.IsSupportedLanguage(lang) {
		return p.defaultLang
	}

	return lang
}

// SetLanguage stores the search language.
func (p *Preferences) SetLanguage(ctx context.Context, lang string) error {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if !domain.IsSupportedLanguage(lang) {
		return domain.NewValidationErrorWithValue("language", "unsupported language", lang)
	}

	return p.write(ctx, ports.NamespaceLanguage, lang)
}

// Theme returns the stored theme mode.
func (p *Preferences) Theme(ctx context.Context) string {
	mode, ok := p.read(ctx, ports.NamespaceTheme)
	if !ok || !domain.Theme(mode).Valid() {
		return string(domain.ThemeLight)
	}

	return mode
}

// SetTheme stores the theme mode.
func (p *Preferences) SetTheme(ctx context.Context, mode string) error {
	mode = strings.ToLower(strings.TrimSpace(mode))
	if !domain.Theme(mode).Valid() {
		return domain.NewValidationErrorWithValue("theme", "must be light or dark", mode)
	}

	return p.write(ctx, ports.NamespaceTheme, mode)
}

// All reads every preference.
func (p *Preferences) All(ctx context.Context) (PreferenceValues, error) {
	lang, theme, err := Both(ctx,
		func(ctx context.Context) (string, error) { return p.Language(ctx), ctx.Err() },
		func(ctx context.Context) (string, error) { return p.Theme(ctx), ctx.Err() },
	)
	if err != nil {
		return PreferenceValues{}, err
	}

	return PreferenceValues{Language: lang, Theme: theme}, nil
}

// read returns the scalar stored in namespace. Values written before they
// were JSON encoded are accepted as plain text.
func (p *Preferences) read(ctx context.Context, namespace string) (string, bool) {
	data, err := p.store.Get(ctx, namespace)
	if errors.Is(err, ports.ErrBlobNotFound) {
		return "", false
	}

	if err != nil {
		p.logger.WarnContext(ctx, "reading preference",
			slog.String("namespace", namespace),
			slog.String("error", err.Error()))

		return "", false
	}

	var value string
	if err := json.Unmarshal(data, &value); err != nil {
		return strings.TrimSpace(string(data)), true
	}

	return value, true
}

func (p *Preferences) write(ctx context.Context, namespace, value string) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding preference: %w", err)
	}

	if err := p.store.Put(ctx, namespace, data); err != nil {
		return fmt.Errorf("storing %s: %w", namespace, err)
	}

	return nil
}
