package handlers

import (
	"io"
	"log"

	"resep/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// RecipeHandler handles HTTP requests for recipes.
type RecipeHandler struct {
	service  *services.RecipeService
	validate *validator.Validate
}

// NewRecipeHandler creates a new RecipeHandler.
func NewRecipeHandler(service *services.RecipeService) *RecipeHandler {
	return &RecipeHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the recipe routes with the Fiber app.
func (h *RecipeHandler) RegisterRoutes(router fiber.Router) {
	recipeRoutes := router.Group("/recipes")
	recipeRoutes.Get("/", h.HandleList)
	recipeRoutes.Post("/", h.HandleCreate)
	recipeRoutes.Get("/:id", h.HandleGet)
	recipeRoutes.Put("/:id", h.HandleReplace)
	recipeRoutes.Patch("/:id", h.HandlePatch)
	recipeRoutes.Delete("/:id", h.HandleDelete)
	recipeRoutes.Post("/:id/image", h.HandleUploadImage)
}

// HandleList returns the caller's recipes in the summary projection.
func (h *RecipeHandler) HandleList(c *fiber.Ctx) error {
	recipes, err := h.service.List(currentUserID(c))
	if err != nil {
		log.Printf("Error listing recipes: %v", err)
		return c.Status(errorStatus(err)).JSON(fiber.Map{
			"message": "Could not retrieve recipes",
		})
	}
	return c.JSON(recipes)
}

// HandleGet returns a single recipe in the detail projection.
func (h *RecipeHandler) HandleGet(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Not found",
		})
	}
	recipe, err := h.service.Get(currentUserID(c), uint(id))
	if err != nil {
		return c.Status(errorStatus(err)).JSON(fiber.Map{
			"message": "Not found",
		})
	}
	return c.JSON(recipe)
}

// HandleCreate creates a new recipe owned by the caller.
func (h *RecipeHandler) HandleCreate(c *fiber.Ctx) error {
	var input services.RecipeInput
	if err := c.BodyParser(&input); err != nil {
		log.Printf("Error parsing recipe create body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  validationErrorMessages(err),
		})
	}

	recipe, err := h.service.Create(currentUserID(c), input)
	if err != nil {
		log.Printf("Error creating recipe: %v", err)
		return c.Status(errorStatus(err)).JSON(fiber.Map{
			"message": "Could not create recipe",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(recipe)
}

// HandleReplace applies a full update: fields absent from the payload are
// reset, including the tag and ingredient sets.
func (h *RecipeHandler) HandleReplace(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Not found",
		})
	}
	var input services.RecipeInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  validationErrorMessages(err),
		})
	}

	recipe, err := h.service.Replace(currentUserID(c), uint(id), input)
	if err != nil {
		return c.Status(errorStatus(err)).JSON(fiber.Map{
			"message": "Could not update recipe",
			"error":   err.Error(),
		})
	}
	return c.JSON(recipe)
}

// HandlePatch applies a partial update: only fields present in the payload change.
func (h *RecipeHandler) HandlePatch(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Not found",
		})
	}
	var patch services.RecipePatch
	if err := c.BodyParser(&patch); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	recipe, err := h.service.Patch(currentUserID(c), uint(id), patch)
	if err != nil {
		return c.Status(errorStatus(err)).JSON(fiber.Map{
			"message": "Could not update recipe",
			"error":   err.Error(),
		})
	}
	return c.JSON(recipe)
}

// HandleDelete removes a recipe owned by the caller.
func (h *RecipeHandler) HandleDelete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Not found",
		})
	}
	if err := h.service.Delete(currentUserID(c), uint(id)); err != nil {
		return c.Status(errorStatus(err)).JSON(fiber.Map{
			"message": "Could not delete recipe",
		})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleUploadImage accepts a multipart "image" field and stores it for the recipe.
func (h *RecipeHandler) HandleUploadImage(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Not found",
		})
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "An image file is required in the 'image' field",
		})
	}
	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Could not read uploaded file",
		})
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Could not read uploaded file",
		})
	}

	result, err := h.service.UploadImage(currentUserID(c), uint(id), fileHeader.Filename, data)
	if err != nil {
		log.Printf("Error uploading image for recipe %d: %v", id, err)
		return c.Status(errorStatus(err)).JSON(fiber.Map{
			"message": "Could not upload image",
			"error":   err.Error(),
		})
	}
	return c.JSON(result)
}
