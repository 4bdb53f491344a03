package repositories

import (
	"errors"
	"fmt"

	"resep/internal/models"

	"gorm.io/gorm"
)

// GORMTagRepository is a GORM implementation of TagRepository.
type GORMTagRepository struct {
	db *gorm.DB
}

// NewGORMTagRepository creates a new instance of GORMTagRepository.
func NewGORMTagRepository(db *gorm.DB) *GORMTagRepository {
	return &GORMTagRepository{
		db: db,
	}
}

// GetAllByOwner retrieves all tags owned by the given user, name descending.
func (r *GORMTagRepository) GetAllByOwner(ownerID uint) ([]models.Tag, error) {
	var tags []models.Tag
	if err := r.db.Where("user_id = ?", ownerID).Order("name desc").Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("failed to get tags for user %d: %w", ownerID, err)
	}
	return tags, nil
}

// GetByID retrieves a single tag owned by the given user.
func (r *GORMTagRepository) GetByID(ownerID, id uint) (*models.Tag, error) {
	var tag models.Tag
	if err := r.db.First(&tag, "id = ? AND user_id = ?", id, ownerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get tag %d: %w", id, err)
	}
	return &tag, nil
}

// GetByIDs retrieves tags by id regardless of owner. Used to resolve recipe
// references, which are allowed to cross ownership boundaries.
func (r *GORMTagRepository) GetByIDs(ids []uint) ([]models.Tag, error) {
	var tags []models.Tag
	if len(ids) == 0 {
		return tags, nil
	}
	if err := r.db.Where("id IN ?", ids).Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("failed to get tags by ids: %w", err)
	}
	return tags, nil
}

// Create creates a new tag in the database.
func (r *GORMTagRepository) Create(tag *models.Tag) error {
	if err := r.db.Create(tag).Error; err != nil {
		return fmt.Errorf("failed to create tag: %w", err)
	}
	return nil
}

// Update renames an existing tag owned by the tag's user.
func (r *GORMTagRepository) Update(tag *models.Tag) error {
	res := r.db.Model(&models.Tag{}).
		Where("id = ? AND user_id = ?", tag.ID, tag.UserID).
		Update("name", tag.Name)
	if res.Error != nil {
		return fmt.Errorf("failed to update tag %d: %w", tag.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a tag owned by the given user. Recipe associations are
// removed first; recipes referencing the tag are left untouched.
func (r *GORMTagRepository) Delete(ownerID, id uint) error {
	var tag models.Tag
	if err := r.db.First(&tag, "id = ? AND user_id = ?", id, ownerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to get tag %d for deletion: %w", id, err)
	}
	if err := r.db.Exec("DELETE FROM recipe_tags WHERE tag_id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to clear recipe associations for tag %d: %w", id, err)
	}
	if err := r.db.Delete(&tag).Error; err != nil {
		return fmt.Errorf("failed to delete tag %d: %w", id, err)
	}
	return nil
}

// DeleteAllByOwner removes all tags owned by the given user, along with their
// recipe associations. Used by the explicit user-deletion cascade.
func (r *GORMTagRepository) DeleteAllByOwner(ownerID uint) error {
	if err := r.db.Exec(
		"DELETE FROM recipe_tags WHERE tag_id IN (SELECT id FROM tags WHERE user_id = ?)", ownerID,
	).Error; err != nil {
		return fmt.Errorf("failed to clear recipe associations for user %d tags: %w", ownerID, err)
	}
	if err := r.db.Delete(&models.Tag{}, "user_id = ?", ownerID).Error; err != nil {
		return fmt.Errorf("failed to delete tags for user %d: %w", ownerID, err)
	}
	return nil
}
