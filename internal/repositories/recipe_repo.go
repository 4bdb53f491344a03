package repositories

import "resep/internal/models"

// RecipeRepository defines the interface for recipe data access. All reads
// and writes are scoped to the owning user.
type RecipeRepository interface {
	GetAllByOwner(ownerID uint) ([]models.Recipe, error)
	GetByID(ownerID, id uint) (*models.Recipe, error)
	Create(recipe *models.Recipe) error
	Update(recipe *models.Recipe) error
	ReplaceTags(recipe *models.Recipe, tags []models.Tag) error
	ReplaceIngredients(recipe *models.Recipe, ingredients []models.Ingredient) error
	UpdateImage(recipe *models.Recipe, image string) error
	Delete(recipe *models.Recipe) error
}
