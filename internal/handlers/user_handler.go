package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sebasr/greet-service/internal/models"
	"github.com/sebasr/greet-service/internal/repository"
)

// UserHandler handles user record requests
type UserHandler struct {
	userRepo repository.UserRepository
}

// NewUserHandler creates a new user handler
func NewUserHandler(userRepo repository.UserRepository) *UserHandler {
	return &UserHandler{
		userRepo: userRepo,
	}
}

// CreateUserRequest represents the user creation request body
type CreateUserRequest struct {
	Name  string `json:"name" binding:"required,max=255"`
	Email string `json:"email" binding:"required,email,max=255"`
}

// CreateUser stores a new user record
// POST /api/v1/users
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Invalid request body: " + err.Error(),
		})
		return
	}

	user := &models.User{
		Name:  req.Name,
		Email: req.Email,
	}

	if err := h.userRepo.Create(c.Request.Context(), user); err != nil {
		if errors.Is(err, repository.ErrUserExists) {
			c.JSON(http.StatusConflict, gin.H{
				"error":   "user_exists",
				"message": "A user with this email already exists",
			})
			return
		}
		h.internalError(c, err, "Failed to create user")
		return
	}

	c.JSON(http.StatusCreated, user.ToResponse())
}

// GetUser retrieves a user by ID
// GET /api/v1/users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_id",
			"message": "Invalid user ID",
		})
		return
	}

	user, err := h.userRepo.GetByID(c.Request.Context(), id)
	h.respondWithUser(c, user, err)
}

// FindUser retrieves a user by email
// GET /api/v1/users?email=
func (h *UserHandler) FindUser(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "email query parameter is required",
		})
		return
	}

	user, err := h.userRepo.GetByEmail(c.Request.Context(), email)
	h.respondWithUser(c, user, err)
}

func (h *UserHandler) respondWithUser(c *gin.Context, user *models.User, err error) {
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "user_not_found",
				"message": "User not found",
			})
			return
		}
		h.internalError(c, err, "Failed to retrieve user")
		return
	}

	c.JSON(http.StatusOK, user.ToResponse())
}

func (h *UserHandler) internalError(c *gin.Context, err error, message string) {
	zerolog.Ctx(c.Request.Context()).Error().Err(err).Msg(message)
	c.JSON(http.StatusInternalServerError, gin.H{
		"error":   "internal_error",
		"message": message,
	})
}
