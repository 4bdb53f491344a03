package handlers

import (
	"log"

	"resep/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AttrHandler serves a user-owned recipe attribute collection. Tags and
// ingredients share it: the resource name and service are values, so the same
// handler backs both route groups.
type AttrHandler struct {
	service  services.RecipeAttrService
	resource string
	validate *validator.Validate
}

// NewAttrHandler creates a new AttrHandler for the given resource name
// (e.g. "tags" or "ingredients").
func NewAttrHandler(service services.RecipeAttrService, resource string) *AttrHandler {
	return &AttrHandler{
		service:  service,
		resource: resource,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the attribute routes with the Fiber app.
func (h *AttrHandler) RegisterRoutes(router fiber.Router) {
	routes := router.Group("/" + h.resource)
	routes.Get("/", h.HandleList)
	routes.Post("/", h.HandleCreate)
	routes.Get("/:id", h.HandleGet)
	routes.Put("/:id", h.HandleUpdate)
	routes.Delete("/:id", h.HandleDelete)
}

// AttrRequest represents the request body for creating or renaming an attribute.
type AttrRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

// HandleList returns the caller's attributes, name descending.
func (h *AttrHandler) HandleList(c *fiber.Ctx) error {
	items, err := h.service.List(currentUserID(c))
	if err != nil {
		log.Printf("Error listing %s: %v", h.resource, err)
		return c.Status(errorStatus(err)).JSON(fiber.Map{
			"message": "Could not retrieve " + h.resource,
		})
	}
	return c.JSON(items)
}

// HandleGet returns a single attribute owned by the caller.
func (h *AttrHandler) HandleGet(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Not found",
		})
	}
	item, err := h.service.Get(currentUserID(c), uint(id))
	if err != nil {
		return c.Status(errorStatus(err)).JSON(fiber.Map{
			"message": "Not found",
		})
	}
	return c.JSON(item)
}

// HandleCreate creates an attribute owned by the caller. Any owner supplied
// in the payload is ignored.
func (h *AttrHandler) HandleCreate(c *fiber.Ctx) error {
	var req AttrRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing %s create body: %v", h.resource, err)
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

	item, err := h.service.Create(currentUserID(c), req.Name)
	if err != nil {
		log.Printf("Error creating %s: %v", h.resource, err)
		return c.Status(errorStatus(err)).JSON(fiber.Map{
			"message": "Could not create " + h.resource,
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

// HandleUpdate renames an attribute owned by the caller.
func (h *AttrHandler) HandleUpdate(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Not found",
		})
	}
	var req AttrRequest
	if err := c.BodyParser(&req); err != nil {
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

	item, err := h.service.Update(currentUserID(c), uint(id), req.Name)
	if err != nil {
		return c.Status(errorStatus(err)).JSON(fiber.Map{
			"message": "Could not update " + h.resource,
			"error":   err.Error(),
		})
	}
	return c.JSON(item)
}

// HandleDelete removes an attribute owned by the caller.
func (h *AttrHandler) HandleDelete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Not found",
		})
	}
	if err := h.service.Delete(currentUserID(c), uint(id)); err != nil {
		return c.Status(errorStatus(err)).JSON(fiber.Map{
			"message": "Could not delete " + h.resource,
		})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
