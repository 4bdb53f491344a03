package repositories

import "resep/internal/models"

// IngredientRepository defines the interface for ingredient data access.
// Every read and write except GetByIDs is scoped to the owning user.
type IngredientRepository interface {
	GetAllByOwner(ownerID uint) ([]models.Ingredient, error)
	GetByID(ownerID, id uint) (*models.Ingredient, error)
	GetByIDs(ids []uint) ([]models.Ingredient, error)
	Create(ingredient *models.Ingredient) error
	Update(ingredient *models.Ingredient) error
	Delete(ownerID, id uint) error
	DeleteAllByOwner(ownerID uint) error
}
