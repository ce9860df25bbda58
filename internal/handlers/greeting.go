// Package handlers contains HTTP request handlers for the greet service.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/sebasr/greet-service/internal/greeting"
)

// Greeter produces a greeting for a request
type Greeter interface {
	Handle(req greeting.Request) (greeting.Result, error)
}

// ErrorResponse represents a greeting failure
type ErrorResponse struct {
	Error string `json:"error"`
}

// GreetingHandler handles greeting requests
type GreetingHandler struct {
	greeter Greeter
}

// NewGreetingHandler creates a new greeting handler
func NewGreetingHandler(greeter Greeter) *GreetingHandler {
	return &GreetingHandler{greeter: greeter}
}

// Greet greets the name in the path
// GET /api/greet/:name
func (h *GreetingHandler) Greet(c *gin.Context) {
	// An empty segment reaches here from the bare /greet/ route
	res, err := h.greeter.Handle(greeting.Request{Name: c.Param("name")})
	if err != nil {
		var gerr *greeting.Error
		if errors.As(err, &gerr) && gerr.Kind == greeting.InvalidInput {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: gerr.Message})
			return
		}

		zerolog.Ctx(c.Request.Context()).Error().Err(err).Msg("greeting failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
		return
	}

	c.JSON(http.StatusOK, res)
}
