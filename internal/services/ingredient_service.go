package services

import (
	"fmt"
	"strings"

	"resep/internal/models"
	"resep/internal/repositories"
)

// IngredientService implements RecipeAttrService over the ingredient repository.
type IngredientService struct {
	repo repositories.IngredientRepository
}

// NewIngredientService creates a new IngredientService.
func NewIngredientService(repo repositories.IngredientRepository) *IngredientService {
	return &IngredientService{
		repo: repo,
	}
}

// List retrieves the owner's ingredients, name descending.
func (s *IngredientService) List(ownerID uint) ([]AttrItem, error) {
	ingredients, err := s.repo.GetAllByOwner(ownerID)
	if err != nil {
		return nil, err
	}
	items := make([]AttrItem, 0, len(ingredients))
	for _, in := range ingredients {
		items = append(items, AttrItem{ID: in.ID, Name: in.Name})
	}
	return items, nil
}

// Get retrieves a single ingredient owned by the caller.
func (s *IngredientService) Get(ownerID, id uint) (*AttrItem, error) {
	ingredient, err := s.repo.GetByID(ownerID, id)
	if err != nil {
		return nil, err
	}
	return &AttrItem{ID: ingredient.ID, Name: ingredient.Name}, nil
}

// Create creates an ingredient for the owner.
func (s *IngredientService) Create(ownerID uint, name string) (*AttrItem, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	ingredient := &models.Ingredient{Name: name, UserID: ownerID}
	if err := s.repo.Create(ingredient); err != nil {
		return nil, err
	}
	return &AttrItem{ID: ingredient.ID, Name: ingredient.Name}, nil
}

// Update renames an ingredient owned by the caller.
func (s *IngredientService) Update(ownerID, id uint, name string) (*AttrItem, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	ingredient := &models.Ingredient{ID: id, Name: name, UserID: ownerID}
	if err := s.repo.Update(ingredient); err != nil {
		return nil, err
	}
	return &AttrItem{ID: ingredient.ID, Name: ingredient.Name}, nil
}

// Delete removes an ingredient owned by the caller.
func (s *IngredientService) Delete(ownerID, id uint) error {
	return s.repo.Delete(ownerID, id)
}
