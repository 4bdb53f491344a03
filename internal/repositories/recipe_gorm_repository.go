package repositories

import (
	"errors"
	"fmt"

	"resep/internal/models"

	"gorm.io/gorm"
)

// GORMRecipeRepository is a GORM implementation of RecipeRepository.
type GORMRecipeRepository struct {
	db *gorm.DB
}

// NewGORMRecipeRepository creates a new instance of GORMRecipeRepository.
func NewGORMRecipeRepository(db *gorm.DB) *GORMRecipeRepository {
	return &GORMRecipeRepository{
		db: db,
	}
}

// GetAllByOwner retrieves all recipes owned by the given user with their tag
// and ingredient associations loaded. No ordering beyond storage order.
func (r *GORMRecipeRepository) GetAllByOwner(ownerID uint) ([]models.Recipe, error) {
	var recipes []models.Recipe
	if err := r.db.Preload("Tags").Preload("Ingredients").
		Where("user_id = ?", ownerID).Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("failed to get recipes for user %d: %w", ownerID, err)
	}
	return recipes, nil
}

// GetByID retrieves a single recipe owned by the given user with associations loaded.
func (r *GORMRecipeRepository) GetByID(ownerID, id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := r.db.Preload("Tags").Preload("Ingredients").
		First(&recipe, "id = ? AND user_id = ?", id, ownerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get recipe %d: %w", id, err)
	}
	return &recipe, nil
}

// Create creates a new recipe. Tag and ingredient members must already exist;
// only the join rows are written for them.
func (r *GORMRecipeRepository) Create(recipe *models.Recipe) error {
	if err := r.db.Omit("Tags.*", "Ingredients.*").Create(recipe).Error; err != nil {
		return fmt.Errorf("failed to create recipe: %w", err)
	}
	return nil
}

// Update persists the recipe's scalar fields. Associations are managed
// separately via ReplaceTags and ReplaceIngredients.
func (r *GORMRecipeRepository) Update(recipe *models.Recipe) error {
	res := r.db.Model(&models.Recipe{}).
		Where("id = ? AND user_id = ?", recipe.ID, recipe.UserID).
		Select("title", "time_minutes", "price", "link").
		Updates(recipe)
	if res.Error != nil {
		return fmt.Errorf("failed to update recipe %d: %w", recipe.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ReplaceTags replaces the recipe's tag set.
func (r *GORMRecipeRepository) ReplaceTags(recipe *models.Recipe, tags []models.Tag) error {
	if err := r.db.Model(recipe).Association("Tags").Replace(tags); err != nil {
		return fmt.Errorf("failed to replace tags for recipe %d: %w", recipe.ID, err)
	}
	recipe.Tags = tags
	return nil
}

// ReplaceIngredients replaces the recipe's ingredient set.
func (r *GORMRecipeRepository) ReplaceIngredients(recipe *models.Recipe, ingredients []models.Ingredient) error {
	if err := r.db.Model(recipe).Association("Ingredients").Replace(ingredients); err != nil {
		return fmt.Errorf("failed to replace ingredients for recipe %d: %w", recipe.ID, err)
	}
	recipe.Ingredients = ingredients
	return nil
}

// UpdateImage sets the recipe's stored image path.
func (r *GORMRecipeRepository) UpdateImage(recipe *models.Recipe, image string) error {
	res := r.db.Model(&models.Recipe{}).
		Where("id = ? AND user_id = ?", recipe.ID, recipe.UserID).
		Update("image", image)
	if res.Error != nil {
		return fmt.Errorf("failed to update image for recipe %d: %w", recipe.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	recipe.Image = image
	return nil
}

// Delete removes a previously fetched recipe and its association rows. The
// stored image file, if any, is the caller's responsibility.
func (r *GORMRecipeRepository) Delete(recipe *models.Recipe) error {
	if err := r.db.Model(recipe).Association("Tags").Clear(); err != nil {
		return fmt.Errorf("failed to clear tags for recipe %d: %w", recipe.ID, err)
	}
	if err := r.db.Model(recipe).Association("Ingredients").Clear(); err != nil {
		return fmt.Errorf("failed to clear ingredients for recipe %d: %w", recipe.ID, err)
	}
	res := r.db.Delete(&models.Recipe{}, "id = ? AND user_id = ?", recipe.ID, recipe.UserID)
	if res.Error != nil {
		return fmt.Errorf("failed to delete recipe %d: %w", recipe.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
