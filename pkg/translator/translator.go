package translator

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

// Translator holds every loaded message bundle. English is the fallback
// language for keys missing from a requested locale.
var Translator *i18n.Bundle

type Config struct {
	TranslationFolder  string
	SupportedLanguages []string
}

const (
	LanguageFr = "fr"
	LanguageEn = "en"
)

// InitTranslator loads all .toml message files from the configured folder
// into the shared bundle. A missing folder or unreadable file is logged and
// skipped; lookups then fall back to the message key.
func InitTranslator(cfg Config) {
	Translator = i18n.NewBundle(language.English)
	Translator.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	entries, err := os.ReadDir(cfg.TranslationFolder)
	if err != nil {
		zap.L().Error("failed to list translation folder",
			zap.String("folder", cfg.TranslationFolder), zap.Error(err))
		return
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".toml") {
			continue
		}
		path := filepath.Join(cfg.TranslationFolder, entry.Name())
		if _, err := Translator.LoadMessageFile(path); err != nil {
			zap.L().Warn("failed to load translation file",
				zap.String("file", entry.Name()), zap.Error(err))
		}
	}
}
