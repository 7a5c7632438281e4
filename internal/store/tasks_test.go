package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/taskboard/pkg/types"
)

func TestCreateTaskWithCategories(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := mustCreateUser(t, s, "alice")
	work := mustCreateCategory(t, s, "work")
	home := mustCreateCategory(t, s, "home")

	due := "2026-09-15"
	task, err := s.CreateTask(ctx, types.NewTask{
		Title:       "file report",
		Description: "quarterly numbers",
		Status:      types.TaskStatusPending,
		Priority:    types.TaskPriorityHigh,
		UserID:      u.ID,
		DueDate:     &due,
		CategoryIDs: []string{work.ID, home.ID},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, task.ID)
	assert.Equal(t, "alice", task.UserUsername)
	require.NotNil(t, task.DueDate)
	assert.Equal(t, due, *task.DueDate)
	assert.ElementsMatch(t, []string{"work", "home"}, task.Categories)

	got, err := s.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, task.ID, got.ID)
	assert.ElementsMatch(t, []string{"work", "home"}, got.Categories)
}

func TestTaskCategoryNamesWithCommas(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := mustCreateUser(t, s, "alice")
	combined := mustCreateCategory(t, s, "home, office")
	plain := mustCreateCategory(t, s, "errands")

	task := mustCreateTask(t, s, u.ID, "mixed", combined.ID, plain.ID)
	assert.ElementsMatch(t, []string{"home, office", "errands"}, task.Categories)

	got, err := s.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"home, office", "errands"}, got.Categories)

	tasks, _, err := s.ListTasks(ctx, types.TaskFilter{}, types.Page{})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.ElementsMatch(t, []string{"home, office", "errands"}, tasks[0].Categories)
}

func TestCreateTaskDuplicateCategoryIDs(t *testing.T) {
	s := newTestStore(t)
	u := mustCreateUser(t, s, "alice")
	c := mustCreateCategory(t, s, "work")

	task := mustCreateTask(t, s, u.ID, "deduped", c.ID, c.ID, c.ID)
	assert.Equal(t, []string{"work"}, task.Categories)
}

func TestCreateTaskMissingUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.CreateTask(ctx, types.NewTask{
		Title:    "nobody's task",
		Status:   types.TaskStatusPending,
		Priority: types.TaskPriorityMedium,
		UserID:   "missing",
	})
	assert.ErrorIs(t, err, types.ErrPreconditionFailed)

	counts, err := s.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, counts.Tasks, "nothing persisted on failure")
}

func TestCreateTaskMissingCategoryRollsBack(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := mustCreateUser(t, s, "alice")
	c := mustCreateCategory(t, s, "work")

	_, err := s.CreateTask(ctx, types.NewTask{
		Title:       "half attached",
		Status:      types.TaskStatusPending,
		Priority:    types.TaskPriorityMedium,
		UserID:      u.ID,
		CategoryIDs: []string{c.ID, "missing"},
	})
	assert.ErrorIs(t, err, types.ErrPreconditionFailed)

	// The core insert must roll back with the failed attach.
	counts, err := s.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, counts.Tasks)
	assert.Equal(t, 0, counts.TaskCategories)
}

func TestGetTaskNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetTask(context.Background(), "missing")
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestGetTaskWithoutCategories(t *testing.T) {
	s := newTestStore(t)
	u := mustCreateUser(t, s, "alice")
	task := mustCreateTask(t, s, u.ID, "bare")

	got, err := s.GetTask(context.Background(), task.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{}, got.Categories)
	assert.Nil(t, got.DueDate)
}

func TestListTasksFilters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := mustCreateUser(t, s, "alice")
	bob := mustCreateUser(t, s, "bob")
	work := mustCreateCategory(t, s, "work")

	_, err := s.CreateTask(ctx, types.NewTask{
		Title: "write report", Status: types.TaskStatusPending,
		Priority: types.TaskPriorityHigh, UserID: alice.ID,
		CategoryIDs: []string{work.ID},
	})
	require.NoError(t, err)
	_, err = s.CreateTask(ctx, types.NewTask{
		Title: "buy groceries", Status: types.TaskStatusCompleted,
		Priority: types.TaskPriorityLow, UserID: alice.ID,
	})
	require.NoError(t, err)
	_, err = s.CreateTask(ctx, types.NewTask{
		Title: "fix build", Description: "the report pipeline is red",
		Status: types.TaskStatusPending, Priority: types.TaskPriorityUrgent, UserID: bob.ID,
	})
	require.NoError(t, err)

	tests := []struct {
		name       string
		filter     types.TaskFilter
		wantTitles []string
	}{
		{"no filter", types.TaskFilter{}, []string{"write report", "buy groceries", "fix build"}},
		{"by status", types.TaskFilter{Status: types.TaskStatusPending}, []string{"write report", "fix build"}},
		{"by priority", types.TaskFilter{Priority: types.TaskPriorityLow}, []string{"buy groceries"}},
		{"by user", types.TaskFilter{UserID: bob.ID}, []string{"fix build"}},
		{"by category", types.TaskFilter{CategoryID: work.ID}, []string{"write report"}},
		{"search matches title and description", types.TaskFilter{Search: "report"}, []string{"write report", "fix build"}},
		{"combined", types.TaskFilter{Status: types.TaskStatusPending, UserID: alice.ID}, []string{"write report"}},
		{"no match", types.TaskFilter{Search: "zzz"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks, pg, err := s.ListTasks(ctx, tt.filter, types.Page{})
			require.NoError(t, err)
			titles := []string{}
			for _, task := range tasks {
				titles = append(titles, task.Title)
			}
			assert.ElementsMatch(t, tt.wantTitles, titles)
			assert.Equal(t, len(tt.wantTitles), pg.Total)
		})
	}
}

func TestListTasksPagination(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := mustCreateUser(t, s, "alice")
	for i := 0; i < 7; i++ {
		mustCreateTask(t, s, u.ID, "task")
	}

	tasks, pg, err := s.ListTasks(ctx, types.TaskFilter{}, types.Page{Number: 2, Size: 3})
	require.NoError(t, err)
	assert.Len(t, tasks, 3)
	assert.Equal(t, 7, pg.Total)
	assert.Equal(t, 3, pg.Pages)
	assert.Equal(t, 2, pg.Page)

	tasks, _, err = s.ListTasks(ctx, types.TaskFilter{}, types.Page{Number: 3, Size: 3})
	require.NoError(t, err)
	assert.Len(t, tasks, 1, "last page holds the remainder")
}

func TestListUserTasks(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := mustCreateUser(t, s, "alice")
	bob := mustCreateUser(t, s, "bob")
	mustCreateTask(t, s, alice.ID, "mine")
	mustCreateTask(t, s, bob.ID, "theirs")

	tasks, pg, err := s.ListUserTasks(ctx, alice.ID, "", types.Page{})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "mine", tasks[0].Title)
	assert.Equal(t, 1, pg.Total)

	t.Run("status narrows", func(t *testing.T) {
		tasks, _, err := s.ListUserTasks(ctx, alice.ID, types.TaskStatusCompleted, types.Page{})
		require.NoError(t, err)
		assert.Empty(t, tasks)
	})

	t.Run("missing user", func(t *testing.T) {
		_, _, err := s.ListUserTasks(ctx, "missing", "", types.Page{})
		assert.ErrorIs(t, err, types.ErrNotFound)
	})
}

func TestListCategoryTasks(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := mustCreateUser(t, s, "alice")
	work := mustCreateCategory(t, s, "work")
	mustCreateTask(t, s, u.ID, "tagged", work.ID)
	mustCreateTask(t, s, u.ID, "untagged")

	tasks, pg, err := s.ListCategoryTasks(ctx, work.ID, "", types.Page{})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "tagged", tasks[0].Title)
	assert.Equal(t, 1, pg.Total)

	t.Run("missing category", func(t *testing.T) {
		_, _, err := s.ListCategoryTasks(ctx, "missing", "", types.Page{})
		assert.ErrorIs(t, err, types.ErrNotFound)
	})
}

func TestUpdateTask(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := mustCreateUser(t, s, "alice")
	work := mustCreateCategory(t, s, "work")
	home := mustCreateCategory(t, s, "home")
	task := mustCreateTask(t, s, u.ID, "original", work.ID)

	t.Run("partial field update", func(t *testing.T) {
		title := "renamed"
		status := types.TaskStatusCompleted
		got, err := s.UpdateTask(ctx, task.ID, types.TaskUpdate{Title: &title, Status: &status})
		require.NoError(t, err)
		assert.Equal(t, "renamed", got.Title)
		assert.Equal(t, types.TaskStatusCompleted, got.Status)
		assert.Equal(t, task.Priority, got.Priority, "unprovided fields stay untouched")
		assert.Equal(t, []string{"work"}, got.Categories, "associations untouched without category_ids")
	})

	t.Run("replace category set", func(t *testing.T) {
		ids := []string{home.ID}
		got, err := s.UpdateTask(ctx, task.ID, types.TaskUpdate{CategoryIDs: &ids})
		require.NoError(t, err)
		assert.Equal(t, []string{"home"}, got.Categories)
	})

	t.Run("empty set clears associations", func(t *testing.T) {
		ids := []string{}
		got, err := s.UpdateTask(ctx, task.ID, types.TaskUpdate{CategoryIDs: &ids})
		require.NoError(t, err)
		assert.Equal(t, []string{}, got.Categories)
	})

	t.Run("set and clear due date", func(t *testing.T) {
		due := "2026-10-01"
		got, err := s.UpdateTask(ctx, task.ID, types.TaskUpdate{DueDate: &due, DueDateSet: true})
		require.NoError(t, err)
		require.NotNil(t, got.DueDate)
		assert.Equal(t, due, *got.DueDate)

		got, err = s.UpdateTask(ctx, task.ID, types.TaskUpdate{DueDateSet: true})
		require.NoError(t, err)
		assert.Nil(t, got.DueDate)
	})

	t.Run("missing category rolls the whole update back", func(t *testing.T) {
		before, err := s.GetTask(ctx, task.ID)
		require.NoError(t, err)

		title := "should not stick"
		ids := []string{"missing"}
		_, err = s.UpdateTask(ctx, task.ID, types.TaskUpdate{Title: &title, CategoryIDs: &ids})
		assert.ErrorIs(t, err, types.ErrPreconditionFailed)

		after, err := s.GetTask(ctx, task.ID)
		require.NoError(t, err)
		assert.Equal(t, before.Title, after.Title)
		assert.Equal(t, before.Categories, after.Categories)
	})

	t.Run("missing task", func(t *testing.T) {
		title := "x"
		_, err := s.UpdateTask(ctx, "missing", types.TaskUpdate{Title: &title})
		assert.ErrorIs(t, err, types.ErrNotFound)
	})
}

func TestDeleteTask(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := mustCreateUser(t, s, "alice")
	c := mustCreateCategory(t, s, "work")
	task := mustCreateTask(t, s, u.ID, "doomed", c.ID)

	require.NoError(t, s.DeleteTask(ctx, task.ID))

	_, err := s.GetTask(ctx, task.ID)
	assert.ErrorIs(t, err, types.ErrNotFound)

	// Junction rows cascade, the category itself survives.
	counts, err := s.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, counts.TaskCategories)
	assert.Equal(t, 1, counts.Categories)

	assert.ErrorIs(t, s.DeleteTask(ctx, task.ID), types.ErrNotFound)
}

func TestTaskStats(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := mustCreateUser(t, s, "alice")
	bob := mustCreateUser(t, s, "bob")

	create := func(userID, status, priority string) {
		t.Helper()
		_, err := s.CreateTask(ctx, types.NewTask{
			Title: "t", Status: status, Priority: priority, UserID: userID,
		})
		require.NoError(t, err)
	}
	create(alice.ID, types.TaskStatusPending, types.TaskPriorityHigh)
	create(alice.ID, types.TaskStatusPending, types.TaskPriorityLow)
	create(alice.ID, types.TaskStatusCompleted, types.TaskPriorityHigh)
	create(bob.ID, types.TaskStatusInProgress, types.TaskPriorityUrgent)

	t.Run("global", func(t *testing.T) {
		stats, err := s.TaskStats(ctx, "")
		require.NoError(t, err)
		assert.ElementsMatch(t, []types.StatusCount{
			{Status: types.TaskStatusPending, Count: 2},
			{Status: types.TaskStatusCompleted, Count: 1},
			{Status: types.TaskStatusInProgress, Count: 1},
		}, stats.ByStatus)
		assert.ElementsMatch(t, []types.PriorityCount{
			{Priority: types.TaskPriorityHigh, Count: 2},
			{Priority: types.TaskPriorityLow, Count: 1},
			{Priority: types.TaskPriorityUrgent, Count: 1},
		}, stats.ByPriority)
		assert.Equal(t, 4, stats.CreatedLast7Days)
	})

	t.Run("scoped to one user", func(t *testing.T) {
		stats, err := s.TaskStats(ctx, bob.ID)
		require.NoError(t, err)
		assert.Equal(t, []types.StatusCount{{Status: types.TaskStatusInProgress, Count: 1}}, stats.ByStatus)
		assert.Equal(t, 1, stats.CreatedLast7Days)
	})

	t.Run("empty store", func(t *testing.T) {
		stats, err := s.TaskStats(ctx, "nobody")
		require.NoError(t, err)
		assert.Empty(t, stats.ByStatus)
		assert.Empty(t, stats.ByPriority)
		assert.Equal(t, 0, stats.CreatedLast7Days)
	})
}
