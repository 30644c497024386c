package apierrors

import (
	"fmt"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"go.uber.org/zap"

	"crewdesk/pkg/translator"
)

// JsonErr represents the JSON structure for apierrors.
type JsonErr struct {
	ErrDetails Err `json:"error"`
}

// Err represents the error with a code, a translated message and an
// optional untranslated detail explaining what exactly was rejected.
type Err struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// Error implements the error interface for JsonErr.
func (e JsonErr) Error() string {
	return fmt.Sprintf("Code: %d, Message: %s", e.ErrDetails.Code, e.ErrDetails.Message)
}

// CreateError generates a JsonErr with a translated message.
func CreateError(code int, msgKey string, lang string) JsonErr {
	message := GetTransErrorMsg(msgKey, lang)
	return JsonErr{ErrDetails: Err{Code: code, Message: message}}
}

// CreateDetailedError generates a JsonErr carrying a domain-level detail
// alongside the translated message.
func CreateDetailedError(code int, msgKey string, lang string, detail string) JsonErr {
	err := CreateError(code, msgKey, lang)
	err.ErrDetails.Detail = detail
	return err
}

// GetTransErrorMsg resolves msgKey in the requested language, falling back
// to English and finally to the key itself when no catalog entry exists.
func GetTransErrorMsg(msgKey string, lang string) string {
	localizer := i18n.NewLocalizer(translator.Translator, lang, translator.LanguageEn)
	msg, err := localizer.Localize(&i18n.LocalizeConfig{MessageID: msgKey})
	if err != nil {
		zap.L().Warn("translation not found",
			zap.String("lang", lang),
			zap.String("message_id", msgKey),
			zap.Error(err))
		return msgKey
	}
	return msg
}
