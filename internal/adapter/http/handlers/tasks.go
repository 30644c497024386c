package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"crewdesk/internal/adapter/http/dto"
	"crewdesk/internal/adapter/http/mapper"
	"crewdesk/internal/adapter/http/middleware"
	"crewdesk/internal/adapter/http/validation"
	"crewdesk/internal/core/domain"
	"crewdesk/internal/core/ports"
	"crewdesk/pkg/apierrors"
)

type TaskHandler struct {
	taskService ports.TaskService
}

func NewTaskHandler(taskService ports.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

func (h *TaskHandler) CreateTask(c *gin.Context) {
	lang := middleware.GetLang(c)

	workspaceID, ok := parseIDParam(c, "workspaceId")
	if !ok {
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidWorkspaceID, lang),
		)
		return
	}

	var req dto.CreateTaskRequest
	raw, err := bindJSONWithRaw(c, &req)
	if err != nil {
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidTaskPayload, lang),
		)
		return
	}

	input, err := validation.BuildCreateTaskInput(workspaceID, req, raw)
	if err != nil {
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidTaskPayload, lang),
		)
		return
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), input)
	if err != nil {
		respondEngineError(c, lang, err, apierrors.MsgFailCreateTask,
			"failed to create task", zap.Uint64("workspace_id", workspaceID))
		return
	}

	c.JSON(http.StatusCreated, mapper.ToTaskItem(task))
}

func (h *TaskHandler) ListTasks(c *gin.Context) {
	lang := middleware.GetLang(c)

	workspaceID, ok := parseIDParam(c, "workspaceId")
	if !ok {
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidWorkspaceID, lang),
		)
		return
	}

	var filter domain.TaskFilter
	if value := c.Query("status"); value != "" {
		status := domain.TaskStatus(value)
		if !status.Valid() {
			c.JSON(
				http.StatusBadRequest,
				apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidTaskPayload, lang),
			)
			return
		}
		filter.Status = &status
	}
	if value := c.Query("priority"); value != "" {
		priority := domain.TaskPriority(value)
		if !priority.Valid() {
			c.JSON(
				http.StatusBadRequest,
				apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidTaskPayload, lang),
			)
			return
		}
		filter.Priority = &priority
	}

	tasks, err := h.taskService.ListTasks(c.Request.Context(), workspaceID, filter)
	if err != nil {
		respondEngineError(c, lang, err, apierrors.MsgFailListTask,
			"failed to list tasks", zap.Uint64("workspace_id", workspaceID))
		return
	}

	c.JSON(http.StatusOK, mapper.ToTaskItems(tasks))
}

func (h *TaskHandler) ListSubtasks(c *gin.Context) {
	lang := middleware.GetLang(c)

	workspaceID, okWorkspace := parseIDParam(c, "workspaceId")
	taskID, okTask := parseIDParam(c, "id")
	if !okWorkspace || !okTask {
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidTaskID, lang),
		)
		return
	}

	subtasks, err := h.taskService.ListSubtasks(c.Request.Context(), workspaceID, taskID)
	if err != nil {
		respondEngineError(c, lang, err, apierrors.MsgFailListSubtasks,
			"failed to list subtasks", zap.Uint64("task_id", taskID))
		return
	}

	c.JSON(http.StatusOK, mapper.ToTaskItems(subtasks))
}

func (h *TaskHandler) UpdateTask(c *gin.Context) {
	lang := middleware.GetLang(c)

	workspaceID, okWorkspace := parseIDParam(c, "workspaceId")
	taskID, okTask := parseIDParam(c, "id")
	if !okWorkspace || !okTask {
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidTaskID, lang),
		)
		return
	}

	var req dto.UpdateTaskRequest
	raw, err := bindJSONWithRaw(c, &req)
	if err != nil {
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidTaskPayload, lang),
		)
		return
	}

	input, err := validation.BuildUpdateTaskInput(req, raw)
	if err != nil {
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidTaskPayload, lang),
		)
		return
	}

	task, err := h.taskService.UpdateTask(c.Request.Context(), workspaceID, taskID, input)
	if err != nil {
		respondEngineError(c, lang, err, apierrors.MsgFailUpdateTask,
			"failed to update task", zap.Uint64("task_id", taskID))
		return
	}

	c.JSON(http.StatusOK, mapper.ToTaskItem(task))
}

func (h *TaskHandler) CompleteRecurring(c *gin.Context) {
	lang := middleware.GetLang(c)

	workspaceID, okWorkspace := parseIDParam(c, "workspaceId")
	taskID, okTask := parseIDParam(c, "id")
	if !okWorkspace || !okTask {
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidTaskID, lang),
		)
		return
	}

	completion, err := h.taskService.CompleteRecurringTask(c.Request.Context(), workspaceID, taskID)
	if err != nil {
		respondEngineError(c, lang, err, apierrors.MsgFailCompleteRecurring,
			"failed to complete recurring task", zap.Uint64("task_id", taskID))
		return
	}

	c.JSON(http.StatusOK, mapper.ToCompleteRecurringResponse(completion))
}

func (h *TaskHandler) ReorderSubtasks(c *gin.Context) {
	lang := middleware.GetLang(c)

	workspaceID, okWorkspace := parseIDParam(c, "workspaceId")
	parentID, okParent := parseIDParam(c, "id")
	if !okWorkspace || !okParent {
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidTaskID, lang),
		)
		return
	}

	var req dto.ReorderSubtasksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidTaskPayload, lang),
		)
		return
	}

	if err := h.taskService.ReorderSubtasks(c.Request.Context(), workspaceID, parentID, req.OrderedIDs); err != nil {
		respondEngineError(c, lang, err, apierrors.MsgFailReorderSubtasks,
			"failed to reorder subtasks", zap.Uint64("parent_task_id", parentID))
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *TaskHandler) DeleteTask(c *gin.Context) {
	lang := middleware.GetLang(c)

	workspaceID, okWorkspace := parseIDParam(c, "workspaceId")
	taskID, okTask := parseIDParam(c, "id")
	if !okWorkspace || !okTask {
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidTaskID, lang),
		)
		return
	}

	if err := h.taskService.DeleteTask(c.Request.Context(), workspaceID, taskID); err != nil {
		respondEngineError(c, lang, err, apierrors.MsgFailDeleteTask,
			"failed to delete task", zap.Uint64("task_id", taskID))
		return
	}

	c.Status(http.StatusNoContent)
}
