package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"crewdesk/internal/adapter/http/dto"
	"crewdesk/internal/adapter/http/mapper"
	"crewdesk/internal/adapter/http/middleware"
	"crewdesk/internal/adapter/http/validation"
	"crewdesk/internal/core/ports"
	"crewdesk/pkg/apierrors"
)

type TemplateHandler struct {
	templateService ports.TemplateService
}

func NewTemplateHandler(templateService ports.TemplateService) *TemplateHandler {
	return &TemplateHandler{templateService: templateService}
}

func (h *TemplateHandler) CreateTemplate(c *gin.Context) {
	lang := middleware.GetLang(c)

	workspaceID, ok := parseIDParam(c, "workspaceId")
	if !ok {
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidWorkspaceID, lang),
		)
		return
	}

	var req dto.CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidTemplatePayload, lang),
		)
		return
	}

	input, err := validation.BuildCreateTemplateInput(workspaceID, req)
	if err != nil {
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidTemplatePayload, lang),
		)
		return
	}

	template, err := h.templateService.CreateTemplate(c.Request.Context(), input)
	if err != nil {
		respondEngineError(c, lang, err, apierrors.MsgFailCreateTemplate,
			"failed to create template", zap.Uint64("workspace_id", workspaceID))
		return
	}

	c.JSON(http.StatusCreated, mapper.ToTemplateItem(template))
}

func (h *TemplateHandler) ListTemplates(c *gin.Context) {
	lang := middleware.GetLang(c)

	workspaceID, ok := parseIDParam(c, "workspaceId")
	if !ok {
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidWorkspaceID, lang),
		)
		return
	}

	templates, err := h.templateService.ListTemplates(c.Request.Context(), workspaceID)
	if err != nil {
		respondEngineError(c, lang, err, apierrors.MsgFailListTemplates,
			"failed to list templates", zap.Uint64("workspace_id", workspaceID))
		return
	}

	c.JSON(http.StatusOK, mapper.ToTemplateItems(templates))
}

func (h *TemplateHandler) ApplyTemplate(c *gin.Context) {
	lang := middleware.GetLang(c)

	workspaceID, okWorkspace := parseIDParam(c, "workspaceId")
	templateID, okTemplate := parseIDParam(c, "id")
	if !okWorkspace || !okTemplate {
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidTemplateID, lang),
		)
		return
	}

	// An empty body applies the template with no variables.
	var req dto.ApplyTemplateRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(
				http.StatusBadRequest,
				apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidTemplatePayload, lang),
			)
			return
		}
	}

	input, err := validation.BuildApplyTemplateInput(templateID, workspaceID, req)
	if err != nil {
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidTemplatePayload, lang),
		)
		return
	}

	task, err := h.templateService.ApplyTemplate(c.Request.Context(), input)
	if err != nil {
		respondEngineError(c, lang, err, apierrors.MsgFailApplyTemplate,
			"failed to apply template", zap.Uint64("template_id", templateID))
		return
	}

	c.JSON(http.StatusCreated, mapper.ToTaskItem(task))
}
