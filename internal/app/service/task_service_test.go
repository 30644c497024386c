package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crewdesk/internal/app/service"
	"crewdesk/internal/core/domain"
)

const workspaceID = uint64(1)

// fixedNow is a Wednesday.
var fixedNow = time.Date(2026, time.January, 7, 10, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func newTaskService(s *fakeStore) *service.TaskService {
	return service.NewTaskService(s, service.WithClock(fixedClock))
}

func TestTaskService_CreateTask(t *testing.T) {
	store := newFakeStore(workspaceID)
	svc := newTaskService(store)

	first, err := svc.CreateTask(context.Background(), domain.CreateTaskInput{
		WorkspaceID: workspaceID,
		Title:       "  Write launch plan  ",
	})
	require.NoError(t, err)
	assert.Equal(t, "Write launch plan", first.Title)
	assert.Equal(t, domain.TaskStatusTodo, first.Status)
	assert.Equal(t, domain.TaskPriorityMedium, first.Priority)
	assert.Equal(t, 0, first.Position)

	second, err := svc.CreateTask(context.Background(), domain.CreateTaskInput{
		WorkspaceID: workspaceID,
		Title:       "Review launch plan",
		Priority:    domain.TaskPriorityHigh,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, second.Position)
}

func TestTaskService_CreateTask_EmptyTitle(t *testing.T) {
	store := newFakeStore(workspaceID)
	svc := newTaskService(store)

	_, err := svc.CreateTask(context.Background(), domain.CreateTaskInput{
		WorkspaceID: workspaceID,
		Title:       "   ",
	})

	var validationErr *domain.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Empty(t, store.tasks)
}

func TestTaskService_CreateTask_UnknownWorkspace(t *testing.T) {
	store := newFakeStore(workspaceID)
	svc := newTaskService(store)

	_, err := svc.CreateTask(context.Background(), domain.CreateTaskInput{
		WorkspaceID: 99,
		Title:       "Orphan",
	})

	var notFoundErr *domain.NotFoundError
	require.ErrorAs(t, err, &notFoundErr)
	assert.Equal(t, "workspace", notFoundErr.Resource)
}

func TestTaskService_CreateTask_SubtaskMayNotRecur(t *testing.T) {
	store := newFakeStore(workspaceID)
	svc := newTaskService(store)

	parent, err := svc.CreateTask(context.Background(), domain.CreateTaskInput{
		WorkspaceID: workspaceID,
		Title:       "Parent",
	})
	require.NoError(t, err)

	_, err = svc.CreateTask(context.Background(), domain.CreateTaskInput{
		WorkspaceID:  workspaceID,
		Title:        "Child",
		ParentTaskID: &parent.ID,
		Recurrence:   domain.RecurrenceRule{Type: domain.RecurrenceDaily, Interval: 1},
	})

	var validationErr *domain.ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestTaskService_CreateTask_SubtaskUpdatesParentRollup(t *testing.T) {
	store := newFakeStore(workspaceID)
	svc := newTaskService(store)

	parent, err := svc.CreateTask(context.Background(), domain.CreateTaskInput{
		WorkspaceID: workspaceID,
		Title:       "Parent",
	})
	require.NoError(t, err)

	for _, title := range []string{"one", "two"} {
		_, err := svc.CreateTask(context.Background(), domain.CreateTaskInput{
			WorkspaceID:  workspaceID,
			Title:        title,
			ParentTaskID: &parent.ID,
		})
		require.NoError(t, err)
	}

	stored := store.tasks[parent.ID]
	assert.Equal(t, 2, stored.SubtaskCount)
	assert.Equal(t, 0, stored.CompletedCount)
}

func TestTaskService_UpdateTask_StatusManagesCompletedAt(t *testing.T) {
	store := newFakeStore(workspaceID)
	svc := newTaskService(store)

	task, err := svc.CreateTask(context.Background(), domain.CreateTaskInput{
		WorkspaceID: workspaceID,
		Title:       "Flaky test hunt",
	})
	require.NoError(t, err)

	completed := domain.TaskStatusCompleted
	task, err = svc.UpdateTask(context.Background(), workspaceID, task.ID, domain.UpdateTaskInput{Status: &completed})
	require.NoError(t, err)
	require.NotNil(t, task.CompletedAt)
	assert.Equal(t, fixedNow, *task.CompletedAt)

	// Re-opening clears the completion timestamp.
	todo := domain.TaskStatusTodo
	task, err = svc.UpdateTask(context.Background(), workspaceID, task.ID, domain.UpdateTaskInput{Status: &todo})
	require.NoError(t, err)
	assert.Nil(t, task.CompletedAt)
}

func TestTaskService_UpdateTask_ChildStatusRefreshesParentRollup(t *testing.T) {
	store := newFakeStore(workspaceID)
	svc := newTaskService(store)

	parent, err := svc.CreateTask(context.Background(), domain.CreateTaskInput{WorkspaceID: workspaceID, Title: "Parent"})
	require.NoError(t, err)
	child, err := svc.CreateTask(context.Background(), domain.CreateTaskInput{WorkspaceID: workspaceID, Title: "Child", ParentTaskID: &parent.ID})
	require.NoError(t, err)

	completed := domain.TaskStatusCompleted
	_, err = svc.UpdateTask(context.Background(), workspaceID, child.ID, domain.UpdateTaskInput{Status: &completed})
	require.NoError(t, err)

	stored := store.tasks[parent.ID]
	assert.Equal(t, 1, stored.SubtaskCount)
	assert.Equal(t, 1, stored.CompletedCount)
	// Completing every subtask never auto-completes the parent.
	assert.Equal(t, domain.TaskStatusTodo, stored.Status)
}

func TestTaskService_UpdateTask_RejectsCycle(t *testing.T) {
	store := newFakeStore(workspaceID)
	svc := newTaskService(store)

	grandparent, err := svc.CreateTask(context.Background(), domain.CreateTaskInput{WorkspaceID: workspaceID, Title: "A"})
	require.NoError(t, err)
	parent, err := svc.CreateTask(context.Background(), domain.CreateTaskInput{WorkspaceID: workspaceID, Title: "B", ParentTaskID: &grandparent.ID})
	require.NoError(t, err)
	child, err := svc.CreateTask(context.Background(), domain.CreateTaskInput{WorkspaceID: workspaceID, Title: "C", ParentTaskID: &parent.ID})
	require.NoError(t, err)

	// Moving the grandparent under its own grandchild must fail.
	_, err = svc.UpdateTask(context.Background(), workspaceID, grandparent.ID, domain.UpdateTaskInput{
		ParentTaskID:    &child.ID,
		ParentTaskIDSet: true,
	})

	var validationErr *domain.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Nil(t, store.tasks[grandparent.ID].ParentTaskID)
}

func TestTaskService_UpdateTask_CrossWorkspaceIsNotFound(t *testing.T) {
	store := newFakeStore(1, 2)
	svc := newTaskService(store)

	task, err := svc.CreateTask(context.Background(), domain.CreateTaskInput{WorkspaceID: 1, Title: "Tenant one"})
	require.NoError(t, err)

	title := "stolen"
	_, err = svc.UpdateTask(context.Background(), 2, task.ID, domain.UpdateTaskInput{Title: &title})

	var notFoundErr *domain.NotFoundError
	require.ErrorAs(t, err, &notFoundErr)
}

func TestTaskService_CompleteRecurring_WeeklySpawnsNextInstance(t *testing.T) {
	store := newFakeStore(workspaceID)
	svc := newTaskService(store)

	// Due Wednesday 2026-01-07, Mon/Wed/Fri: next instance lands on that
	// week's Friday.
	dueDate := time.Date(2026, time.January, 7, 0, 0, 0, 0, time.UTC)
	task, err := svc.CreateTask(context.Background(), domain.CreateTaskInput{
		WorkspaceID: workspaceID,
		Title:       "Standup notes",
		DueDate:     &dueDate,
		Recurrence:  domain.RecurrenceRule{Type: domain.RecurrenceWeekly, Interval: 1, Days: []int{0, 2, 4}},
	})
	require.NoError(t, err)

	completion, err := svc.CompleteRecurringTask(context.Background(), workspaceID, task.ID)
	require.NoError(t, err)

	assert.Equal(t, domain.TaskStatusCompleted, completion.Task.Status)
	require.NotNil(t, completion.Task.CompletedAt)

	require.NotNil(t, completion.NextTask)
	next := *completion.NextTask
	assert.Equal(t, "Standup notes", next.Title)
	assert.Equal(t, domain.TaskStatusTodo, next.Status)
	require.NotNil(t, next.DueDate)
	assert.Equal(t, time.Date(2026, time.January, 9, 0, 0, 0, 0, time.UTC), *next.DueDate)
	require.NotNil(t, next.OriginalTaskID)
	assert.Equal(t, task.ID, *next.OriginalTaskID)
}

func TestTaskService_CompleteRecurring_InstancePropagatesSeriesRoot(t *testing.T) {
	store := newFakeStore(workspaceID)
	svc := newTaskService(store)

	dueDate := time.Date(2026, time.January, 7, 0, 0, 0, 0, time.UTC)
	root, err := svc.CreateTask(context.Background(), domain.CreateTaskInput{
		WorkspaceID: workspaceID,
		Title:       "Backup check",
		DueDate:     &dueDate,
		Recurrence:  domain.RecurrenceRule{Type: domain.RecurrenceDaily, Interval: 1},
	})
	require.NoError(t, err)

	first, err := svc.CompleteRecurringTask(context.Background(), workspaceID, root.ID)
	require.NoError(t, err)
	require.NotNil(t, first.NextTask)

	second, err := svc.CompleteRecurringTask(context.Background(), workspaceID, first.NextTask.ID)
	require.NoError(t, err)
	require.NotNil(t, second.NextTask)
	assert.Equal(t, root.ID, *second.NextTask.OriginalTaskID)
}

func TestTaskService_CompleteRecurring_SeriesEnds(t *testing.T) {
	store := newFakeStore(workspaceID)
	svc := newTaskService(store)

	dueDate := time.Date(2026, time.January, 7, 0, 0, 0, 0, time.UTC)
	endDate := time.Date(2026, time.January, 7, 23, 59, 59, 0, time.UTC)
	task, err := svc.CreateTask(context.Background(), domain.CreateTaskInput{
		WorkspaceID: workspaceID,
		Title:       "Last call",
		DueDate:     &dueDate,
		Recurrence:  domain.RecurrenceRule{Type: domain.RecurrenceDaily, Interval: 1, EndDate: &endDate},
	})
	require.NoError(t, err)

	completion, err := svc.CompleteRecurringTask(context.Background(), workspaceID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusCompleted, completion.Task.Status)
	assert.Nil(t, completion.NextTask)
	assert.Len(t, store.tasks, 1)
}

func TestTaskService_CompleteRecurring_NonRecurringFailsUnchanged(t *testing.T) {
	store := newFakeStore(workspaceID)
	svc := newTaskService(store)

	task, err := svc.CreateTask(context.Background(), domain.CreateTaskInput{WorkspaceID: workspaceID, Title: "One-off"})
	require.NoError(t, err)

	_, err = svc.CompleteRecurringTask(context.Background(), workspaceID, task.ID)

	var validationErr *domain.ValidationError
	require.ErrorAs(t, err, &validationErr)

	stored := store.tasks[task.ID]
	assert.Equal(t, domain.TaskStatusTodo, stored.Status)
	assert.Nil(t, stored.CompletedAt)
	assert.Len(t, store.tasks, 1)
}

func TestTaskService_ReorderSubtasks(t *testing.T) {
	store := newFakeStore(workspaceID)
	svc := newTaskService(store)

	parent, children := seedParentWithChildren(t, svc, 3)

	err := svc.ReorderSubtasks(context.Background(), workspaceID, parent.ID,
		[]uint64{children[2].ID, children[0].ID, children[1].ID})
	require.NoError(t, err)

	reordered, err := svc.ListSubtasks(context.Background(), workspaceID, parent.ID)
	require.NoError(t, err)
	require.Len(t, reordered, 3)
	assert.Equal(t, children[2].ID, reordered[0].ID)
	assert.Equal(t, children[0].ID, reordered[1].ID)
	assert.Equal(t, children[1].ID, reordered[2].ID)
	for i, child := range reordered {
		assert.Equal(t, i, child.Position)
	}
}

func TestTaskService_ReorderSubtasks_MismatchedIDsFailAtomically(t *testing.T) {
	store := newFakeStore(workspaceID)
	svc := newTaskService(store)

	parent, children := seedParentWithChildren(t, svc, 3)

	tests := []struct {
		name string
		ids  []uint64
	}{
		{name: "foreign id", ids: []uint64{children[0].ID, children[1].ID, 999}},
		{name: "missing id", ids: []uint64{children[0].ID, children[1].ID}},
		{name: "duplicate id", ids: []uint64{children[0].ID, children[1].ID, children[1].ID}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.ReorderSubtasks(context.Background(), workspaceID, parent.ID, tt.ids)

			var validationErr *domain.ValidationError
			require.ErrorAs(t, err, &validationErr)

			current, err := svc.ListSubtasks(context.Background(), workspaceID, parent.ID)
			require.NoError(t, err)
			for i, child := range current {
				assert.Equal(t, children[i].ID, child.ID)
			}
		})
	}
}

func TestTaskService_DeleteTask_CascadesToSubtasks(t *testing.T) {
	store := newFakeStore(workspaceID)
	svc := newTaskService(store)

	parent, _ := seedParentWithChildren(t, svc, 3)
	require.Len(t, store.tasks, 4)

	require.NoError(t, svc.DeleteTask(context.Background(), workspaceID, parent.ID))
	assert.Empty(t, store.tasks)
}

func TestTaskService_DeleteSubtask_DecrementsParentRollup(t *testing.T) {
	store := newFakeStore(workspaceID)
	svc := newTaskService(store)

	parent, children := seedParentWithChildren(t, svc, 3)

	require.NoError(t, svc.DeleteTask(context.Background(), workspaceID, children[1].ID))

	stored := store.tasks[parent.ID]
	assert.Equal(t, 2, stored.SubtaskCount)
	assert.Len(t, store.tasks, 3)
}

func TestTaskService_ListTasks_Filters(t *testing.T) {
	store := newFakeStore(workspaceID)
	svc := newTaskService(store)

	_, err := svc.CreateTask(context.Background(), domain.CreateTaskInput{WorkspaceID: workspaceID, Title: "low prio", Priority: domain.TaskPriorityLow})
	require.NoError(t, err)
	high, err := svc.CreateTask(context.Background(), domain.CreateTaskInput{WorkspaceID: workspaceID, Title: "high prio", Priority: domain.TaskPriorityHigh})
	require.NoError(t, err)

	priority := domain.TaskPriorityHigh
	tasks, err := svc.ListTasks(context.Background(), workspaceID, domain.TaskFilter{Priority: &priority})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, high.ID, tasks[0].ID)
}

func seedParentWithChildren(t *testing.T, svc *service.TaskService, n int) (domain.Task, []domain.Task) {
	t.Helper()

	parent, err := svc.CreateTask(context.Background(), domain.CreateTaskInput{
		WorkspaceID: workspaceID,
		Title:       "Parent",
	})
	require.NoError(t, err)

	children := make([]domain.Task, 0, n)
	for i := 0; i < n; i++ {
		child, err := svc.CreateTask(context.Background(), domain.CreateTaskInput{
			WorkspaceID:  workspaceID,
			Title:        "Child",
			ParentTaskID: &parent.ID,
		})
		require.NoError(t, err)
		children = append(children, child)
	}
	return parent, children
}
