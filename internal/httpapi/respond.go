package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mesh-intelligence/taskboard/internal/validate"
	"github.com/mesh-intelligence/taskboard/pkg/types"
)

// pageFromQuery reads page and limit query parameters, falling back to the
// defaults on absent or malformed values.
func pageFromQuery(c *gin.Context) types.Page {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	return types.Page{Number: page, Size: limit}.Normalize()
}

// bindBody decodes the JSON body and validates it against the schema.
// On failure it writes the 400 response and reports false.
func (s *Server) bindBody(c *gin.Context, schema validate.Schema) (validate.Fields, bool) {
	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return nil, false
	}
	fields, err := schema.Apply(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	return fields, true
}

// writeError maps the store error taxonomy onto status codes. Unrecognized
// failures answer 500, with the detail hidden in production.
func (s *Server) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, types.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": clientMessage(err)})
	case errors.Is(err, types.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": clientMessage(err)})
	case errors.Is(err, types.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": clientMessage(err)})
	case errors.Is(err, types.ErrPreconditionFailed):
		c.JSON(http.StatusBadRequest, gin.H{"error": clientMessage(err)})
	default:
		s.log.Errorw("request failed", "path", c.Request.URL.Path, "error", err)
		body := gin.H{"error": "Internal Server Error"}
		if s.cfg.Production() {
			body["message"] = "Something went wrong"
		} else {
			body["message"] = err.Error()
		}
		c.JSON(http.StatusInternalServerError, body)
	}
}

// clientMessage strips the trailing sentinel text from a wrapped store
// error, leaving the human-readable part for the response body.
func clientMessage(err error) string {
	msg := err.Error()
	for _, sentinel := range []error{
		types.ErrValidation,
		types.ErrNotFound,
		types.ErrConflict,
		types.ErrPreconditionFailed,
		types.ErrStoreUnavailable,
	} {
		msg = strings.TrimSuffix(msg, ": "+sentinel.Error())
	}
	return msg
}
