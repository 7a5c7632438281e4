package types

import "time"

// Task statuses.
const (
	TaskStatusPending    = "pending"
	TaskStatusInProgress = "in_progress"
	TaskStatusCompleted  = "completed"
)

// Task priorities.
const (
	TaskPriorityLow    = "low"
	TaskPriorityMedium = "medium"
	TaskPriorityHigh   = "high"
	TaskPriorityUrgent = "urgent"
)

// TaskStatuses lists the valid status values in display order.
var TaskStatuses = []string{TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted}

// TaskPriorities lists the valid priority values in display order.
var TaskPriorities = []string{TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh, TaskPriorityUrgent}

// Task represents a work item owned by a user. Joined reads populate
// UserUsername and the associated category names.
type Task struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Status       string    `json:"status"`
	Priority     string    `json:"priority"`
	UserID       string    `json:"user_id"`
	DueDate      *string   `json:"due_date"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	UserUsername string    `json:"user_username"`
	Categories   []string  `json:"categories"`
}

// NewTask carries the fields for task creation. CategoryIDs, when non-empty,
// are attached in the same transaction as the insert.
type NewTask struct {
	Title       string
	Description string
	Status      string
	Priority    string
	UserID      string
	DueDate     *string
	CategoryIDs []string
}

// TaskUpdate carries a partial task update. Nil pointer fields are left
// untouched. DueDate is applied only when DueDateSet is true, so a due date
// can be cleared with an explicit null. A non-nil CategoryIDs replaces the
// full association set; an empty slice clears it.
type TaskUpdate struct {
	Title       *string
	Description *string
	Status      *string
	Priority    *string
	DueDate     *string
	DueDateSet  bool
	CategoryIDs *[]string
}

// TaskFilter holds the optional listing criteria. Empty fields are skipped.
type TaskFilter struct {
	Status     string
	Priority   string
	UserID     string
	CategoryID string
	Search     string
}

// StatusCount is one row of the per-status aggregate.
type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// PriorityCount is one row of the per-priority aggregate.
type PriorityCount struct {
	Priority string `json:"priority"`
	Count    int    `json:"count"`
}

// TaskStats aggregates task counts by status and priority plus the number of
// tasks created within the last seven days.
type TaskStats struct {
	ByStatus         []StatusCount   `json:"by_status"`
	ByPriority       []PriorityCount `json:"by_priority"`
	CreatedLast7Days int             `json:"created_last_7_days"`
}
