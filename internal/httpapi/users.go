package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/mesh-intelligence/taskboard/internal/validate"
	"github.com/mesh-intelligence/taskboard/pkg/types"
)

func (s *Server) listUsers(c *gin.Context) {
	page := pageFromQuery(c)
	users, pagination, err := s.store.ListUsers(c.Request.Context(), c.Query("search"), page)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users, "pagination": pagination})
}

func (s *Server) getUser(c *gin.Context) {
	user, err := s.store.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (s *Server) createUser(c *gin.Context) {
	fields, ok := s.bindBody(c, validate.UserCreate)
	if !ok {
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(fields.String("password")), bcrypt.DefaultCost)
	if err != nil {
		s.writeError(c, err)
		return
	}

	user, err := s.store.CreateUser(c.Request.Context(), types.NewUser{
		Username:     fields.String("username"),
		Email:        fields.String("email"),
		PasswordHash: string(hash),
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (s *Server) updateUser(c *gin.Context) {
	fields, ok := s.bindBody(c, validate.UserUpdate)
	if !ok {
		return
	}

	user, err := s.store.UpdateUser(c.Request.Context(), c.Param("id"), types.UserUpdate{
		Username: fields.StringPtr("username"),
		Email:    fields.StringPtr("email"),
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (s *Server) deleteUser(c *gin.Context) {
	if err := s.store.DeleteUser(c.Request.Context(), c.Param("id")); err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) listUserTasks(c *gin.Context) {
	page := pageFromQuery(c)
	tasks, pagination, err := s.store.ListUserTasks(
		c.Request.Context(), c.Param("id"), c.Query("status"), page)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks, "pagination": pagination})
}
