package domain

import "slices"

// Theme is the UI color mode preference.
type Theme string

// Supported themes.
const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Valid reports whether t is a known theme.
func (t Theme) Valid() bool {
	return t == ThemeLight || t == ThemeDark
}

// SupportedLanguages are the ARASAAC catalogue languages.
var SupportedLanguages = []string{
	"pt", "en", "es", "fr", "it", "de", "ca", "eu", "gl",
	"ro", "ru", "ar", "zh", "pl", "bg", "hr", "nl", "val", "ja",
}

// IsSupportedLanguage reports whether lang has a symbol catalogue.
func IsSupportedLanguage(lang string) bool {
	return slices.Contains(SupportedLanguages, lang)
}
