package repositories

import (
	"errors"
	"fmt"

	"resep/internal/models"

	"gorm.io/gorm"
)

// GORMIngredientRepository is a GORM implementation of IngredientRepository.
type GORMIngredientRepository struct {
	db *gorm.DB
}

// NewGORMIngredientRepository creates a new instance of GORMIngredientRepository.
func NewGORMIngredientRepository(db *gorm.DB) *GORMIngredientRepository {
	return &GORMIngredientRepository{
		db: db,
	}
}

// GetAllByOwner retrieves all ingredients owned by the given user, name descending.
func (r *GORMIngredientRepository) GetAllByOwner(ownerID uint) ([]models.Ingredient, error) {
	var ingredients []models.Ingredient
	if err := r.db.Where("user_id = ?", ownerID).Order("name desc").Find(&ingredients).Error; err != nil {
		return nil, fmt.Errorf("failed to get ingredients for user %d: %w", ownerID, err)
	}
	return ingredients, nil
}

// GetByID retrieves a single ingredient owned by the given user.
func (r *GORMIngredientRepository) GetByID(ownerID, id uint) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	if err := r.db.First(&ingredient, "id = ? AND user_id = ?", id, ownerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get ingredient %d: %w", id, err)
	}
	return &ingredient, nil
}

// GetByIDs retrieves ingredients by id regardless of owner.
func (r *GORMIngredientRepository) GetByIDs(ids []uint) ([]models.Ingredient, error) {
	var ingredients []models.Ingredient
	if len(ids) == 0 {
		return ingredients, nil
	}
	if err := r.db.Where("id IN ?", ids).Find(&ingredients).Error; err != nil {
		return nil, fmt.Errorf("failed to get ingredients by ids: %w", err)
	}
	return ingredients, nil
}

// Create creates a new ingredient in the database.
func (r *GORMIngredientRepository) Create(ingredient *models.Ingredient) error {
	if err := r.db.Create(ingredient).Error; err != nil {
		return fmt.Errorf("failed to create ingredient: %w", err)
	}
	return nil
}

// Update renames an existing ingredient owned by the ingredient's user.
func (r *GORMIngredientRepository) Update(ingredient *models.Ingredient) error {
	res := r.db.Model(&models.Ingredient{}).
		Where("id = ? AND user_id = ?", ingredient.ID, ingredient.UserID).
		Update("name", ingredient.Name)
	if res.Error != nil {
		return fmt.Errorf("failed to update ingredient %d: %w", ingredient.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes an ingredient owned by the given user after clearing its
// recipe associations.
func (r *GORMIngredientRepository) Delete(ownerID, id uint) error {
	var ingredient models.Ingredient
	if err := r.db.First(&ingredient, "id = ? AND user_id = ?", id, ownerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to get ingredient %d for deletion: %w", id, err)
	}
	if err := r.db.Exec("DELETE FROM recipe_ingredients WHERE ingredient_id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to clear recipe associations for ingredient %d: %w", id, err)
	}
	if err := r.db.Delete(&ingredient).Error; err != nil {
		return fmt.Errorf("failed to delete ingredient %d: %w", id, err)
	}
	return nil
}

// DeleteAllByOwner removes all ingredients owned by the given user, along
// with their recipe associations.
func (r *GORMIngredientRepository) DeleteAllByOwner(ownerID uint) error {
	if err := r.db.Exec(
		"DELETE FROM recipe_ingredients WHERE ingredient_id IN (SELECT id FROM ingredients WHERE user_id = ?)", ownerID,
	).Error; err != nil {
		return fmt.Errorf("failed to clear recipe associations for user %d ingredients: %w", ownerID, err)
	}
	if err := r.db.Delete(&models.Ingredient{}, "user_id = ?", ownerID).Error; err != nil {
		return fmt.Errorf("failed to delete ingredients for user %d: %w", ownerID, err)
	}
	return nil
}
