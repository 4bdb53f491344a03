package handlers

import (
	"log"

	"resep/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// UserHandler handles HTTP requests for registration and profile management.
type UserHandler struct {
	userService *services.UserService
	validate    *validator.Validate
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the public registration route.
func (h *UserHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/users/", h.HandleRegister)
}

// RegisterMeRoutes registers the authenticated profile routes.
func (h *UserHandler) RegisterMeRoutes(router fiber.Router) {
	router.Get("/users/me", h.HandleGetMe)
	router.Put("/users/me", h.HandleUpdateMe)
	router.Patch("/users/me", h.HandleUpdateMe)
	router.Delete("/users/me", h.HandleDeleteMe)
}

// RegisterRequest represents the request body for registration.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=5"`
	Name     string `json:"name" validate:"omitempty,max=255"`
}

// HandleRegister handles new user registration.
func (h *UserHandler) HandleRegister(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing register request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  validationErrorMessages(err),
		})
	}

	user, err := h.userService.CreateUser(req.Email, req.Password, req.Name)
	if err != nil {
		log.Printf("Error registering user: %v", err)
		return c.Status(errorStatus(err)).JSON(fiber.Map{
			"message": "Could not register user",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(user)
}

// HandleGetMe returns the authenticated user's profile.
func (h *UserHandler) HandleGetMe(c *fiber.Ctx) error {
	user, err := h.userService.GetUser(currentUserID(c))
	if err != nil {
		return c.Status(errorStatus(err)).JSON(fiber.Map{
			"message": "Could not retrieve profile",
		})
	}
	return c.JSON(user)
}

// ProfileUpdateRequest represents a partial profile update. Absent fields are
// left unchanged.
type ProfileUpdateRequest struct {
	Name     *string `json:"name"`
	Password *string `json:"password"`
}

// HandleUpdateMe updates the authenticated user's name and/or password.
func (h *UserHandler) HandleUpdateMe(c *fiber.Ctx) error {
	var req ProfileUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing profile update body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	user, err := h.userService.GetUser(currentUserID(c))
	if err != nil {
		return c.Status(errorStatus(err)).JSON(fiber.Map{
			"message": "Could not retrieve profile",
		})
	}

	if err := h.userService.UpdateProfile(user, req.Name, req.Password); err != nil {
		log.Printf("Error updating profile for user %d: %v", user.ID, err)
		return c.Status(errorStatus(err)).JSON(fiber.Map{
			"message": "Could not update profile",
			"error":   err.Error(),
		})
	}

	return c.JSON(user)
}

// HandleDeleteMe removes the authenticated user and everything they own.
func (h *UserHandler) HandleDeleteMe(c *fiber.Ctx) error {
	if err := h.userService.DeleteUser(currentUserID(c)); err != nil {
		log.Printf("Error deleting user %d: %v", currentUserID(c), err)
		return c.Status(errorStatus(err)).JSON(fiber.Map{
			"message": "Could not delete account",
		})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
