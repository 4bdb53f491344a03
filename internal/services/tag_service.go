package services

import (
	"fmt"
	"strings"

	"resep/internal/models"
	"resep/internal/repositories"
)

// TagService implements RecipeAttrService over the tag repository.
type TagService struct {
	repo repositories.TagRepository
}

// NewTagService creates a new TagService.
func NewTagService(repo repositories.TagRepository) *TagService {
	return &TagService{
		repo: repo,
	}
}

// List retrieves the owner's tags, name descending.
func (s *TagService) List(ownerID uint) ([]AttrItem, error) {
	tags, err := s.repo.GetAllByOwner(ownerID)
	if err != nil {
		return nil, err
	}
	items := make([]AttrItem, 0, len(tags))
	for _, t := range tags {
		items = append(items, AttrItem{ID: t.ID, Name: t.Name})
	}
	return items, nil
}

// Get retrieves a single tag owned by the caller.
func (s *TagService) Get(ownerID, id uint) (*AttrItem, error) {
	tag, err := s.repo.GetByID(ownerID, id)
	if err != nil {
		return nil, err
	}
	return &AttrItem{ID: tag.ID, Name: tag.Name}, nil
}

// Create creates a tag for the owner. The owner is always taken from the
// authenticated identity, never from the payload.
func (s *TagService) Create(ownerID uint, name string) (*AttrItem, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	tag := &models.Tag{Name: name, UserID: ownerID}
	if err := s.repo.Create(tag); err != nil {
		return nil, err
	}
	return &AttrItem{ID: tag.ID, Name: tag.Name}, nil
}

// Update renames a tag owned by the caller.
func (s *TagService) Update(ownerID, id uint, name string) (*AttrItem, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	tag := &models.Tag{ID: id, Name: name, UserID: ownerID}
	if err := s.repo.Update(tag); err != nil {
		return nil, err
	}
	return &AttrItem{ID: tag.ID, Name: tag.Name}, nil
}

// Delete removes a tag owned by the caller.
func (s *TagService) Delete(ownerID, id uint) error {
	return s.repo.Delete(ownerID, id)
}
