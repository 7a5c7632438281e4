// Package store implements the SQLite-backed persistence layer for taskboard.
package store

// Schema DDL for all relations. Statements are idempotent so the store can
// reopen an existing database file.
const (
	createUsers = `CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    username TEXT NOT NULL UNIQUE,
    email TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);`

	createCategories = `CREATE TABLE IF NOT EXISTS categories (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    color TEXT NOT NULL DEFAULT '#007bff',
    created_at TEXT NOT NULL
);`

	// tasks carries no FK to users: the owner must exist at creation time
	// (checked in the create transaction) but user deletion is unguarded
	// and orphans its tasks.
	createTasks = `CREATE TABLE IF NOT EXISTS tasks (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    description TEXT,
    status TEXT NOT NULL,
    priority TEXT NOT NULL,
    user_id TEXT NOT NULL,
    due_date TEXT,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);`

	createTaskCategories = `CREATE TABLE IF NOT EXISTS task_categories (
    task_id TEXT NOT NULL,
    category_id TEXT NOT NULL,
    PRIMARY KEY (task_id, category_id),
    FOREIGN KEY (task_id) REFERENCES tasks(id) ON DELETE CASCADE,
    FOREIGN KEY (category_id) REFERENCES categories(id)
);`
)

// Index DDL for common queries.
const (
	idxTasksStatus            = `CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status);`
	idxTasksPriority          = `CREATE INDEX IF NOT EXISTS idx_tasks_priority ON tasks(priority);`
	idxTasksUser              = `CREATE INDEX IF NOT EXISTS idx_tasks_user ON tasks(user_id);`
	idxTaskCategoriesCategory = `CREATE INDEX IF NOT EXISTS idx_task_categories_category ON task_categories(category_id);`
)

// schemaDDL lists all CREATE TABLE statements in dependency order.
var schemaDDL = []string{
	createUsers,
	createCategories,
	createTasks,
	createTaskCategories,
}

// indexDDL lists all CREATE INDEX statements.
var indexDDL = []string{
	idxTasksStatus,
	idxTasksPriority,
	idxTasksUser,
	idxTaskCategoriesCategory,
}

// coreTables are the relations the readiness probe requires.
var coreTables = []string{"users", "tasks", "categories"}
