package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mesh-intelligence/taskboard/internal/validate"
	"github.com/mesh-intelligence/taskboard/pkg/types"
)

func (s *Server) listCategories(c *gin.Context) {
	page := pageFromQuery(c)
	categories, pagination, err := s.store.ListCategories(c.Request.Context(), page)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories, "pagination": pagination})
}

func (s *Server) getCategory(c *gin.Context) {
	category, err := s.store.GetCategory(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

func (s *Server) createCategory(c *gin.Context) {
	fields, ok := s.bindBody(c, validate.CategoryCreate)
	if !ok {
		return
	}

	category, err := s.store.CreateCategory(c.Request.Context(), types.NewCategory{
		Name:  fields.String("name"),
		Color: fields.String("color"),
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

func (s *Server) updateCategory(c *gin.Context) {
	fields, ok := s.bindBody(c, validate.CategoryUpdate)
	if !ok {
		return
	}

	category, err := s.store.UpdateCategory(c.Request.Context(), c.Param("id"), types.CategoryUpdate{
		Name:  fields.StringPtr("name"),
		Color: fields.StringPtr("color"),
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

func (s *Server) deleteCategory(c *gin.Context) {
	err := s.store.DeleteCategory(c.Request.Context(), c.Param("id"))
	if err != nil {
		// The in-use guard gets its own envelope with a remediation hint.
		if errors.Is(err, types.ErrPreconditionFailed) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "cannot delete category",
				"message": "Category is being used by tasks. Remove it from all tasks first.",
			})
			return
		}
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) listCategoryTasks(c *gin.Context) {
	page := pageFromQuery(c)
	tasks, pagination, err := s.store.ListCategoryTasks(
		c.Request.Context(), c.Param("id"), c.Query("status"), page)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks, "pagination": pagination})
}
