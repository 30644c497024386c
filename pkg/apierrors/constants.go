package apierrors

const (
	MsgInvalidTaskID          = "invalidTaskID"
	MsgInvalidWorkspaceID     = "invalidWorkspaceID"
	MsgInvalidTemplateID      = "invalidTemplateID"
	MsgInvalidTaskPayload     = "invalidTaskPayload"
	MsgInvalidTemplatePayload = "invalidTemplatePayload"
	MsgTaskNotFound           = "taskNotFound"
	MsgWorkspaceNotFound      = "workspaceNotFound"
	MsgTemplateNotFound       = "templateNotFound"
	MsgPositionConflict       = "positionConflict"
	MsgFailListTask           = "errorListTask"
	MsgFailListSubtasks       = "failListSubtasks"
	MsgFailCreateTask         = "failCreateTask"
	MsgFailUpdateTask         = "failUpdateTask"
	MsgFailDeleteTask         = "failDeleteTask"
	MsgFailReorderSubtasks    = "failReorderSubtasks"
	MsgFailCompleteRecurring  = "failCompleteRecurring"
	MsgFailListTemplates      = "failListTemplates"
	MsgFailCreateTemplate     = "failCreateTemplate"
	MsgFailApplyTemplate      = "failApplyTemplate"
)
