package meta

import (
	"context"
	"sync"
)

//nolint:gochecknoglobals // translations are configured once at startup
var (
	langMapOnce sync.Once
	langMap     map[string]map[string]string
	defaultLang string
)

// SetLanguageMap sets the translations, keyed by language and then by text,
// and the language used when a request does not ask for a known one.
// Only the first call has an effect.
func SetLanguageMap(m map[string]map[string]string, defLang string) {
	langMapOnce.Do(func() {
		langMap = m
		defaultLang = defLang
	})
}

// Tr returns the translated text for the given language.
// Falls back to the default language if the requested language is not found.
func Tr(text, lang string) string {
	if m, ok := langMap[lang]; ok {
		return translated(text, m)
	}
	return translated(text, langMap[defaultLang])
}

// TrCtx returns the translated text using the language from the request context.
func TrCtx(ctx context.Context, text string) string {
	return Tr(text, Find(ctx, AcceptLanguage))
}

func translated(text string, m map[string]string) string {
	if res := m[text]; res != "" {
		return res
	}
	return "[untranslated]: " + text
}
