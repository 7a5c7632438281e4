package httpapi

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
)

// live never touches the store.
func (s *Server) live(c *gin.Context) {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	c.JSON(http.StatusOK, gin.H{
		"status":         "alive",
		"timestamp":      time.Now().UTC().Format(time.RFC3339),
		"uptime_seconds": s.store.Uptime().Seconds(),
		"memory": gin.H{
			"alloc_bytes":      mem.Alloc,
			"heap_alloc_bytes": mem.HeapAlloc,
			"sys_bytes":        mem.Sys,
			"num_gc":           mem.NumGC,
		},
		"version": Version,
	})
}

func (s *Server) health(c *gin.Context) {
	if err := s.store.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":    "unhealthy",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"database":  "disconnected",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":         "healthy",
		"timestamp":      time.Now().UTC().Format(time.RFC3339),
		"database":       "connected",
		"uptime_seconds": s.store.Uptime().Seconds(),
	})
}

// ready requires all three core relations to exist.
func (s *Server) ready(c *gin.Context) {
	found, err := s.store.CoreTablesFound(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":    "not ready",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"error":     clientMessage(err),
		})
		return
	}
	if found < 3 {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":       "not ready",
			"timestamp":    time.Now().UTC().Format(time.RFC3339),
			"reason":       "Database tables not ready",
			"tables_found": found,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":       "ready",
		"timestamp":    time.Now().UTC().Format(time.RFC3339),
		"database":     "ready",
		"tables_found": found,
	})
}

// detailed reports the store version, per-relation row counts and the
// connection-pool breakdown; any sub-check failure yields unhealthy.
func (s *Server) detailed(c *gin.Context) {
	ctx := c.Request.Context()

	version, err := s.store.Version(ctx)
	if err != nil {
		s.unhealthy(c, err)
		return
	}
	counts, err := s.store.Counts(ctx)
	if err != nil {
		s.unhealthy(c, err)
		return
	}
	pool := s.store.PoolStats()

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	c.JSON(http.StatusOK, gin.H{
		"status":         "healthy",
		"timestamp":      time.Now().UTC().Format(time.RFC3339),
		"uptime_seconds": s.store.Uptime().Seconds(),
		"memory": gin.H{
			"alloc_bytes": mem.Alloc,
			"sys_bytes":   mem.Sys,
		},
		"database": gin.H{
			"status":  "connected",
			"version": version,
			"path":    s.store.DBPath(),
			"tables":  counts,
			"connections": gin.H{
				"open":       pool.OpenConnections,
				"in_use":     pool.InUse,
				"idle":       pool.Idle,
				"wait_count": pool.WaitCount,
			},
		},
		"application": gin.H{
			"go_version":  runtime.Version(),
			"platform":    runtime.GOOS,
			"environment": s.cfg.Environment,
		},
	})
}

func (s *Server) unhealthy(c *gin.Context, err error) {
	c.JSON(http.StatusServiceUnavailable, gin.H{
		"status":    "unhealthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"error":     clientMessage(err),
	})
}
