package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"crewdesk/pkg/translator"
)

const langKey = "lang"

// LanguageMiddleware resolves the response language from the Accept-Language
// header and stores it on the request context. Only the primary subtag of the
// first listed language is considered; anything unsupported falls back to
// English.
func LanguageMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(langKey, resolveLanguage(c.GetHeader("Accept-Language")))
		c.Next()
	}
}

func GetLang(c *gin.Context) string {
	if lang, exists := c.Get(langKey); exists {
		if s, ok := lang.(string); ok {
			return s
		}
	}
	return translator.LanguageEn
}

func resolveLanguage(header string) string {
	// "fr-FR,fr;q=0.9,en;q=0.8" -> "fr"
	first := header
	if i := strings.IndexAny(first, ",;"); i >= 0 {
		first = first[:i]
	}
	if i := strings.Index(first, "-"); i >= 0 {
		first = first[:i]
	}
	switch strings.ToLower(strings.TrimSpace(first)) {
	case translator.LanguageFr:
		return translator.LanguageFr
	default:
		return translator.LanguageEn
	}
}
