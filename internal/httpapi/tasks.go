package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mesh-intelligence/taskboard/internal/validate"
	"github.com/mesh-intelligence/taskboard/pkg/types"
)

func (s *Server) listTasks(c *gin.Context) {
	page := pageFromQuery(c)
	filter := types.TaskFilter{
		Status:     c.Query("status"),
		Priority:   c.Query("priority"),
		UserID:     c.Query("user_id"),
		CategoryID: c.Query("category_id"),
		Search:     c.Query("search"),
	}
	tasks, pagination, err := s.store.ListTasks(c.Request.Context(), filter, page)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks, "pagination": pagination})
}

func (s *Server) getTask(c *gin.Context) {
	task, err := s.store.GetTask(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (s *Server) createTask(c *gin.Context) {
	fields, ok := s.bindBody(c, validate.TaskCreate)
	if !ok {
		return
	}

	task, err := s.store.CreateTask(c.Request.Context(), types.NewTask{
		Title:       fields.String("title"),
		Description: fields.String("description"),
		Status:      fields.String("status"),
		Priority:    fields.String("priority"),
		UserID:      fields.String("user_id"),
		DueDate:     fields.StringPtr("due_date"),
		CategoryIDs: fields.StringList("category_ids"),
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

func (s *Server) updateTask(c *gin.Context) {
	fields, ok := s.bindBody(c, validate.TaskUpdate)
	if !ok {
		return
	}

	upd := types.TaskUpdate{
		Title:       fields.StringPtr("title"),
		Description: fields.StringPtr("description"),
		Status:      fields.StringPtr("status"),
		Priority:    fields.StringPtr("priority"),
		DueDate:     fields.StringPtr("due_date"),
		DueDateSet:  fields.Has("due_date"),
	}
	if fields.Has("category_ids") {
		ids := fields.StringList("category_ids")
		upd.CategoryIDs = &ids
	}

	task, err := s.store.UpdateTask(c.Request.Context(), c.Param("id"), upd)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (s *Server) deleteTask(c *gin.Context) {
	if err := s.store.DeleteTask(c.Request.Context(), c.Param("id")); err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) taskStats(c *gin.Context) {
	stats, err := s.store.TaskStats(c.Request.Context(), c.Query("user_id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
