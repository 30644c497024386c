package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"

	"crewdesk/internal/core/domain"
	"crewdesk/pkg/apierrors"
)

// respondEngineError maps typed engine errors onto the API error envelope:
// validation 400, not found 404, conflict 409, anything else 500 with the
// per-operation fallback key.
func respondEngineError(c *gin.Context, lang string, err error, failKey string, logMsg string, fields ...zap.Field) {
	var validationErr *domain.ValidationError
	var notFoundErr *domain.NotFoundError
	var conflictErr *domain.ConflictError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateDetailedError(http.StatusBadRequest, apierrors.MsgInvalidTaskPayload, lang, validationErr.Reason),
		)
	case errors.As(err, &notFoundErr):
		c.JSON(
			http.StatusNotFound,
			apierrors.CreateError(http.StatusNotFound, notFoundKey(notFoundErr.Resource), lang),
		)
	case errors.As(err, &conflictErr):
		c.JSON(
			http.StatusConflict,
			apierrors.CreateError(http.StatusConflict, apierrors.MsgPositionConflict, lang),
		)
	default:
		zap.L().Error(logMsg, append(fields, zap.Error(err))...)
		c.JSON(
			http.StatusInternalServerError,
			apierrors.CreateError(http.StatusInternalServerError, failKey, lang),
		)
	}
}

func notFoundKey(resource string) string {
	switch resource {
	case "workspace":
		return apierrors.MsgWorkspaceNotFound
	case "template":
		return apierrors.MsgTemplateNotFound
	default:
		return apierrors.MsgTaskNotFound
	}
}

func parseIDParam(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// bindJSONWithRaw binds the body into target and also returns the raw field
// map, so payload validation can tell an absent field from an explicit null
// or a value binding rejected.
func bindJSONWithRaw(c *gin.Context, target any) (map[string]json.RawMessage, error) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return nil, err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, err
	}
	if err := binding.JSON.BindBody(body, target); err != nil {
		return nil, err
	}
	return raw, nil
}
