// Package httpapi is the transport adapter: it maps HTTP requests onto the
// store repositories and repository results onto status codes.
package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/taskboard/internal/store"
	"github.com/mesh-intelligence/taskboard/pkg/types"
)

// Version is reported by the root endpoint and the liveness probe.
const Version = "1.0.0"

// Server wires the store into the gin router.
type Server struct {
	store *store.Store
	cfg   types.Config
	log   *zap.SugaredLogger
}

// NewServer creates a Server over an opened store.
func NewServer(st *store.Store, cfg types.Config, log *zap.SugaredLogger) *Server {
	return &Server{store: st, cfg: cfg, log: log}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	if s.cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(requestLogger(s.log), gin.Recovery())

	r.GET("/", s.root)

	health := r.Group("/health")
	{
		health.GET("", s.health)
		health.GET("/ready", s.ready)
		health.GET("/live", s.live)
		health.GET("/detailed", s.detailed)
	}

	users := r.Group("/api/users")
	{
		users.GET("", s.listUsers)
		users.POST("", s.createUser)
		users.GET("/:id", s.getUser)
		users.PUT("/:id", s.updateUser)
		users.DELETE("/:id", s.deleteUser)
		users.GET("/:id/tasks", s.listUserTasks)
	}

	tasks := r.Group("/api/tasks")
	{
		tasks.GET("", s.listTasks)
		tasks.GET("/stats", s.taskStats)
		tasks.POST("", s.createTask)
		tasks.GET("/:id", s.getTask)
		tasks.PUT("/:id", s.updateTask)
		tasks.DELETE("/:id", s.deleteTask)
	}

	categories := r.Group("/api/categories")
	{
		categories.GET("", s.listCategories)
		categories.POST("", s.createCategory)
		categories.GET("/:id", s.getCategory)
		categories.PUT("/:id", s.updateCategory)
		categories.DELETE("/:id", s.deleteCategory)
		categories.GET("/:id/tasks", s.listCategoryTasks)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Not Found",
			"message": "The requested resource was not found",
		})
	})
	return r
}

func (s *Server) root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "taskboard microservice",
		"version": Version,
		"endpoints": gin.H{
			"health":     "/health",
			"users":      "/api/users",
			"tasks":      "/api/tasks",
			"categories": "/api/categories",
		},
	})
}
