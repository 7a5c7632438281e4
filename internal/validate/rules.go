// Per-entity, per-operation rule tables. Update schemas list the same
// fields as their create counterparts but make everything optional and
// require at least one field, so an empty partial update fails before the
// repository is reached.
package validate

import (
	"regexp"

	"github.com/mesh-intelligence/taskboard/pkg/types"
)

var (
	reAlnum    = regexp.MustCompile(`^[a-zA-Z0-9]+$`)
	reEmail    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	reHexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)
)

// UserCreate validates POST /api/users bodies.
var UserCreate = Schema{Rules: []Rule{
	{Field: "username", Required: true, Kind: KindString, Min: 3, Max: 50, Pattern: reAlnum},
	{Field: "email", Required: true, Kind: KindEmail},
	{Field: "password", Required: true, Kind: KindString, Min: 6},
}}

// UserUpdate validates PUT /api/users/:id bodies.
var UserUpdate = Schema{RequireOne: true, Rules: []Rule{
	{Field: "username", Kind: KindString, Min: 3, Max: 50, Pattern: reAlnum},
	{Field: "email", Kind: KindEmail},
}}

// TaskCreate validates POST /api/tasks bodies.
var TaskCreate = Schema{Rules: []Rule{
	{Field: "title", Required: true, Kind: KindString, Min: 1, Max: 200},
	{Field: "description", Kind: KindString, Max: 1000},
	{Field: "status", Kind: KindString, Enum: types.TaskStatuses, Default: types.TaskStatusPending},
	{Field: "priority", Kind: KindString, Enum: types.TaskPriorities, Default: types.TaskPriorityMedium},
	{Field: "user_id", Required: true, Kind: KindUUID},
	{Field: "due_date", Kind: KindDate, AllowNull: true},
	{Field: "category_ids", Kind: KindUUIDList},
}}

// TaskUpdate validates PUT /api/tasks/:id bodies. No defaults: absent fields
// stay untouched.
var TaskUpdate = Schema{RequireOne: true, Rules: []Rule{
	{Field: "title", Kind: KindString, Min: 1, Max: 200},
	{Field: "description", Kind: KindString, Max: 1000},
	{Field: "status", Kind: KindString, Enum: types.TaskStatuses},
	{Field: "priority", Kind: KindString, Enum: types.TaskPriorities},
	{Field: "due_date", Kind: KindDate, AllowNull: true},
	{Field: "category_ids", Kind: KindUUIDList},
}}

// CategoryCreate validates POST /api/categories bodies.
var CategoryCreate = Schema{Rules: []Rule{
	{Field: "name", Required: true, Kind: KindString, Min: 1, Max: 50},
	{Field: "color", Kind: KindString, Pattern: reHexColor, Default: types.DefaultCategoryColor},
}}

// CategoryUpdate validates PUT /api/categories/:id bodies.
var CategoryUpdate = Schema{RequireOne: true, Rules: []Rule{
	{Field: "name", Kind: KindString, Min: 1, Max: 50},
	{Field: "color", Kind: KindString, Pattern: reHexColor},
}}
