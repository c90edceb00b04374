// Package i18n serves localized bot strings from embedded JSON catalogs,
// one file per supported language. Keys use dot notation mirroring the
// catalog nesting, e.g. "commands.sleep.started".
package i18n

import (
	"embed"
	"fmt"
	"strings"

	"github.com/blaisecz/sleep-bot/internal/domain"
	"github.com/blaisecz/sleep-bot/internal/logging"
	"github.com/tidwall/gjson"
)

//go:embed translations/*.json
var translationFS embed.FS

// Vars holds placeholder substitutions for a translation string. A value
// for key "time" replaces every "{time}" in the resolved string.
type Vars map[string]string

type Service struct {
	catalogs map[string]string
	log      *logging.Logger
}

// New loads and validates the catalog for every supported language.
// A missing or malformed catalog file is a startup error, not a runtime
// fallback.
func New(log *logging.Logger) (*Service, error) {
	catalogs := make(map[string]string, len(domain.SupportedLanguages))
	for _, lang := range domain.SupportedLanguages {
		data, err := translationFS.ReadFile("translations/" + lang + ".json")
		if err != nil {
			return nil, fmt.Errorf("load translation catalog %q: %w", lang, err)
		}
		if !gjson.ValidBytes(data) {
			return nil, fmt.Errorf("translation catalog %q is not valid JSON", lang)
		}
		catalogs[lang] = string(data)
		log.Info("translation_loaded", "language", lang, "bytes", len(data))
	}
	return &Service{catalogs: catalogs, log: log}, nil
}

// Get resolves key in the given language. Unsupported languages fall back
// to English; keys missing from a language fall back to the English
// catalog; keys missing everywhere resolve to the key itself so the
// breakage is visible in chat rather than silent.
func (s *Service) Get(key, language string, vars Vars) string {
	if !domain.IsSupportedLanguage(language) {
		s.log.Warn("unsupported_language", "requested", language, "fallback", domain.DefaultLanguage)
		language = domain.DefaultLanguage
	}

	value := gjson.Get(s.catalogs[language], key)
	if !value.Exists() && language != domain.DefaultLanguage {
		s.log.Warn("translation_key_not_found", "key", key, "language", language)
		value = gjson.Get(s.catalogs[domain.DefaultLanguage], key)
	}
	if !value.Exists() {
		s.log.Error("translation_missing", "key", key, "language", language)
		return key
	}

	text := value.String()
	for name, replacement := range vars {
		text = strings.ReplaceAll(text, "{"+name+"}", replacement)
	}
	return text
}

// LanguageName returns the language's name in that language, or the code
// itself when unknown.
func (s *Service) LanguageName(code string) string {
	switch code {
	case "en":
		return "English"
	case "ru":
		return "Русский"
	case "et":
		return "Eesti"
	default:
		return code
	}
}
