package repositories

import "resep/internal/models"

// TagRepository defines the interface for tag data access. Every read and
// write except GetByIDs is scoped to the owning user.
type TagRepository interface {
	GetAllByOwner(ownerID uint) ([]models.Tag, error)
	GetByID(ownerID, id uint) (*models.Tag, error)
	GetByIDs(ids []uint) ([]models.Tag, error)
	Create(tag *models.Tag) error
	Update(tag *models.Tag) error
	Delete(ownerID, id uint) error
	DeleteAllByOwner(ownerID uint) error
}
