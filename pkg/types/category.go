package types

import "time"

// DefaultCategoryColor is assigned when a category is created without a color.
const DefaultCategoryColor = "#007bff"

// Category labels tasks. Name is unique across the service. TaskCount is the
// number of tasks currently associated, populated on reads.
type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"created_at"`
	TaskCount int       `json:"task_count"`
}

// NewCategory carries the fields for category creation.
type NewCategory struct {
	Name  string
	Color string
}

// CategoryUpdate carries a partial category update. Nil fields are left
// untouched.
type CategoryUpdate struct {
	Name  *string
	Color *string
}
