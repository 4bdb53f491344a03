package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"resep/internal/models"
	"resep/internal/repositories"
	"resep/pkg/imagestore"
)

// RecipeSummary is the list projection: tag and ingredient members appear as
// raw id references.
type RecipeSummary struct {
	ID          uint    `json:"id"`
	Title       string  `json:"title"`
	Tags        []uint  `json:"tags"`
	Ingredients []uint  `json:"ingredients"`
	TimeMinutes int     `json:"time_minutes"`
	Price       float64 `json:"price"`
	Link        string  `json:"link"`
}

// RecipeDetail is the retrieve projection: the same scalar fields, with tags
// and ingredients expanded to id+name pairs.
type RecipeDetail struct {
	ID          uint       `json:"id"`
	Title       string     `json:"title"`
	Tags        []AttrItem `json:"tags"`
	Ingredients []AttrItem `json:"ingredients"`
	TimeMinutes int        `json:"time_minutes"`
	Price       float64    `json:"price"`
	Link        string     `json:"link"`
	Image       string     `json:"image"`
}

// RecipeInput is the payload for create and full update. Omitted fields take
// their zero value; on full update that means omitted tag/ingredient sets are
// cleared. Any id in the payload is ignored, the server assigns ids.
type RecipeInput struct {
	Title       string  `json:"title" validate:"required,max=255"`
	TimeMinutes int     `json:"time_minutes" validate:"gte=0"`
	Price       float64 `json:"price" validate:"gte=0"`
	Link        string  `json:"link" validate:"omitempty,max=255"`
	Tags        []uint  `json:"tags"`
	Ingredients []uint  `json:"ingredients"`
}

// RecipePatch is the payload for partial update. Nil fields are left
// untouched, including the many-to-many sets.
type RecipePatch struct {
	Title       *string  `json:"title"`
	TimeMinutes *int     `json:"time_minutes"`
	Price       *float64 `json:"price"`
	Link        *string  `json:"link"`
	Tags        *[]uint  `json:"tags"`
	Ingredients *[]uint  `json:"ingredients"`
}

// RecipeImage is the response of an image upload.
type RecipeImage struct {
	ID    uint   `json:"id"`
	Image string `json:"image"`
}

// RecipeService handles business logic for the recipe aggregate: owner-scoped
// CRUD, the two JSON projections, and image ingestion.
type RecipeService struct {
	recipeRepo     repositories.RecipeRepository
	tagRepo        repositories.TagRepository
	ingredientRepo repositories.IngredientRepository
	images         ImageStore
	events         EventPublisher
}

// NewRecipeService creates a new RecipeService. events may be nil, in which
// case no domain events are published.
func NewRecipeService(
	recipeRepo repositories.RecipeRepository,
	tagRepo repositories.TagRepository,
	ingredientRepo repositories.IngredientRepository,
	images ImageStore,
	events EventPublisher,
) *RecipeService {
	return &RecipeService{
		recipeRepo:     recipeRepo,
		tagRepo:        tagRepo,
		ingredientRepo: ingredientRepo,
		images:         images,
		events:         events,
	}
}

// List retrieves the owner's recipes in the summary projection.
func (s *RecipeService) List(ownerID uint) ([]RecipeSummary, error) {
	recipes, err := s.recipeRepo.GetAllByOwner(ownerID)
	if err != nil {
		return nil, err
	}
	summaries := make([]RecipeSummary, 0, len(recipes))
	for i := range recipes {
		summaries = append(summaries, summarizeRecipe(&recipes[i]))
	}
	return summaries, nil
}

// Get retrieves a single recipe owned by the caller in the detail projection.
func (s *RecipeService) Get(ownerID, id uint) (*RecipeDetail, error) {
	recipe, err := s.recipeRepo.GetByID(ownerID, id)
	if err != nil {
		return nil, err
	}
	detail := detailRecipe(recipe)
	return &detail, nil
}

// Create validates the payload, resolves tag and ingredient references, and
// persists a new recipe owned by the caller. The owner always comes from the
// authenticated identity regardless of the payload.
func (s *RecipeService) Create(ownerID uint, input RecipeInput) (*RecipeSummary, error) {
	if err := validateRecipeInput(input); err != nil {
		return nil, err
	}
	tags, ingredients, err := s.resolveRefs(input.Tags, input.Ingredients)
	if err != nil {
		return nil, err
	}

	recipe := &models.Recipe{
		UserID:      ownerID,
		Title:       input.Title,
		TimeMinutes: input.TimeMinutes,
		Price:       input.Price,
		Link:        input.Link,
		Tags:        tags,
		Ingredients: ingredients,
	}
	if err := s.recipeRepo.Create(recipe); err != nil {
		return nil, err
	}

	s.publish("recipe.created", recipe)

	summary := summarizeRecipe(recipe)
	return &summary, nil
}

// Replace applies full-update semantics: every scalar field is overwritten
// and omitted tag/ingredient sets are cleared to empty.
func (s *RecipeService) Replace(ownerID, id uint, input RecipeInput) (*RecipeSummary, error) {
	if err := validateRecipeInput(input); err != nil {
		return nil, err
	}
	recipe, err := s.recipeRepo.GetByID(ownerID, id)
	if err != nil {
		return nil, err
	}
	tags, ingredients, err := s.resolveRefs(input.Tags, input.Ingredients)
	if err != nil {
		return nil, err
	}

	recipe.Title = input.Title
	recipe.TimeMinutes = input.TimeMinutes
	recipe.Price = input.Price
	recipe.Link = input.Link
	if err := s.recipeRepo.Update(recipe); err != nil {
		return nil, err
	}
	if err := s.recipeRepo.ReplaceTags(recipe, tags); err != nil {
		return nil, err
	}
	if err := s.recipeRepo.ReplaceIngredients(recipe, ingredients); err != nil {
		return nil, err
	}

	summary := summarizeRecipe(recipe)
	return &summary, nil
}

// Patch applies partial-update semantics: only fields present in the payload
// change, and omitted many-to-many sets are left as they are.
func (s *RecipeService) Patch(ownerID, id uint, patch RecipePatch) (*RecipeSummary, error) {
	if err := validateRecipePatch(patch); err != nil {
		return nil, err
	}
	recipe, err := s.recipeRepo.GetByID(ownerID, id)
	if err != nil {
		return nil, err
	}

	var tags []models.Tag
	if patch.Tags != nil {
		if tags, err = s.resolveTags(*patch.Tags); err != nil {
			return nil, err
		}
	}
	var ingredients []models.Ingredient
	if patch.Ingredients != nil {
		if ingredients, err = s.resolveIngredients(*patch.Ingredients); err != nil {
			return nil, err
		}
	}

	if patch.Title != nil {
		recipe.Title = *patch.Title
	}
	if patch.TimeMinutes != nil {
		recipe.TimeMinutes = *patch.TimeMinutes
	}
	if patch.Price != nil {
		recipe.Price = *patch.Price
	}
	if patch.Link != nil {
		recipe.Link = *patch.Link
	}
	if err := s.recipeRepo.Update(recipe); err != nil {
		return nil, err
	}
	if patch.Tags != nil {
		if err := s.recipeRepo.ReplaceTags(recipe, tags); err != nil {
			return nil, err
		}
	}
	if patch.Ingredients != nil {
		if err := s.recipeRepo.ReplaceIngredients(recipe, ingredients); err != nil {
			return nil, err
		}
	}

	summary := summarizeRecipe(recipe)
	return &summary, nil
}

// Delete removes a recipe owned by the caller and its stored image file.
func (s *RecipeService) Delete(ownerID, id uint) error {
	recipe, err := s.recipeRepo.GetByID(ownerID, id)
	if err != nil {
		return err
	}
	if recipe.Image != "" && s.images != nil {
		if err := s.images.Delete(recipe.Image); err != nil {
			log.Printf("Warning: failed to remove image %s for recipe %d: %v", recipe.Image, recipe.ID, err)
		}
	}
	return s.recipeRepo.Delete(recipe)
}

// UploadImage validates and stores an uploaded image for a recipe owned by
// the caller. A non-image payload fails validation and leaves the current
// image reference unchanged. A previous image is orphaned, not deleted.
func (s *RecipeService) UploadImage(ownerID, id uint, originalName string, data []byte) (*RecipeImage, error) {
	recipe, err := s.recipeRepo.GetByID(ownerID, id)
	if err != nil {
		return nil, err
	}
	if s.images == nil {
		return nil, fmt.Errorf("image storage is not configured")
	}
	path, err := s.images.Save(originalName, data)
	if err != nil {
		if errors.Is(err, imagestore.ErrNotImage) {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		return nil, err
	}
	if err := s.recipeRepo.UpdateImage(recipe, path); err != nil {
		return nil, err
	}
	return &RecipeImage{ID: recipe.ID, Image: recipe.Image}, nil
}

// resolveRefs resolves both reference lists, failing validation if any id is
// unknown. Ownership of the referenced records is deliberately not checked:
// attaching another user's tag or ingredient is allowed.
func (s *RecipeService) resolveRefs(tagIDs, ingredientIDs []uint) ([]models.Tag, []models.Ingredient, error) {
	tags, err := s.resolveTags(tagIDs)
	if err != nil {
		return nil, nil, err
	}
	ingredients, err := s.resolveIngredients(ingredientIDs)
	if err != nil {
		return nil, nil, err
	}
	return tags, ingredients, nil
}

func (s *RecipeService) resolveTags(ids []uint) ([]models.Tag, error) {
	unique := dedupIDs(ids)
	tags, err := s.tagRepo.GetByIDs(unique)
	if err != nil {
		return nil, err
	}
	if len(tags) != len(unique) {
		return nil, fmt.Errorf("%w: unknown tag id", ErrValidation)
	}
	return tags, nil
}

func (s *RecipeService) resolveIngredients(ids []uint) ([]models.Ingredient, error) {
	unique := dedupIDs(ids)
	ingredients, err := s.ingredientRepo.GetByIDs(unique)
	if err != nil {
		return nil, err
	}
	if len(ingredients) != len(unique) {
		return nil, fmt.Errorf("%w: unknown ingredient id", ErrValidation)
	}
	return ingredients, nil
}

// publish emits a domain event if a publisher is configured. Failures are
// logged, never surfaced: eventing is best-effort and must not fail the request.
func (s *RecipeService) publish(event string, recipe *models.Recipe) {
	if s.events == nil {
		return
	}
	body, err := json.Marshal(map[string]interface{}{
		"recipe_id": recipe.ID,
		"user_id":   recipe.UserID,
		"title":     recipe.Title,
	})
	if err != nil {
		log.Printf("Failed to marshal %s event for recipe %d: %v", event, recipe.ID, err)
		return
	}
	if err := s.events.PublishRecipeEvent(event, body); err != nil {
		log.Printf("Warning: failed to publish %s event for recipe %d: %v", event, recipe.ID, err)
	}
}

func validateRecipeInput(input RecipeInput) error {
	if strings.TrimSpace(input.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if input.TimeMinutes < 0 {
		return fmt.Errorf("%w: time_minutes must not be negative", ErrValidation)
	}
	if input.Price < 0 {
		return fmt.Errorf("%w: price must not be negative", ErrValidation)
	}
	return nil
}

func validateRecipePatch(patch RecipePatch) error {
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return fmt.Errorf("%w: title must not be empty", ErrValidation)
	}
	if patch.TimeMinutes != nil && *patch.TimeMinutes < 0 {
		return fmt.Errorf("%w: time_minutes must not be negative", ErrValidation)
	}
	if patch.Price != nil && *patch.Price < 0 {
		return fmt.Errorf("%w: price must not be negative", ErrValidation)
	}
	return nil
}

func summarizeRecipe(recipe *models.Recipe) RecipeSummary {
	tagIDs := make([]uint, 0, len(recipe.Tags))
	for _, t := range recipe.Tags {
		tagIDs = append(tagIDs, t.ID)
	}
	ingredientIDs := make([]uint, 0, len(recipe.Ingredients))
	for _, in := range recipe.Ingredients {
		ingredientIDs = append(ingredientIDs, in.ID)
	}
	return RecipeSummary{
		ID:          recipe.ID,
		Title:       recipe.Title,
		Tags:        tagIDs,
		Ingredients: ingredientIDs,
		TimeMinutes: recipe.TimeMinutes,
		Price:       recipe.Price,
		Link:        recipe.Link,
	}
}

func detailRecipe(recipe *models.Recipe) RecipeDetail {
	tags := make([]AttrItem, 0, len(recipe.Tags))
	for _, t := range recipe.Tags {
		tags = append(tags, AttrItem{ID: t.ID, Name: t.Name})
	}
	ingredients := make([]AttrItem, 0, len(recipe.Ingredients))
	for _, in := range recipe.Ingredients {
		ingredients = append(ingredients, AttrItem{ID: in.ID, Name: in.Name})
	}
	return RecipeDetail{
		ID:          recipe.ID,
		Title:       recipe.Title,
		Tags:        tags,
		Ingredients: ingredients,
		TimeMinutes: recipe.TimeMinutes,
		Price:       recipe.Price,
		Link:        recipe.Link,
		Image:       recipe.Image,
	}
}

// dedupIDs drops duplicate ids while keeping first-seen order. The
// many-to-many sets have set semantics, duplicates in a payload are not an error.
func dedupIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	unique := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	return unique
}
