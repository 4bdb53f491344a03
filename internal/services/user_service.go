package services

import (
	"fmt"
	"log"
	"strings"

	"resep/internal/models"
	"resep/internal/repositories"

	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 5

// UserService handles account creation, profile updates and the explicit
// deletion cascade over a user's owned records.
type UserService struct {
	userRepo       repositories.UserRepository
	tagRepo        repositories.TagRepository
	ingredientRepo repositories.IngredientRepository
	recipeRepo     repositories.RecipeRepository
	images         ImageStore
}

// NewUserService creates a new UserService.
func NewUserService(
	userRepo repositories.UserRepository,
	tagRepo repositories.TagRepository,
	ingredientRepo repositories.IngredientRepository,
	recipeRepo repositories.RecipeRepository,
	images ImageStore,
) *UserService {
	return &UserService{
		userRepo:       userRepo,
		tagRepo:        tagRepo,
		ingredientRepo: ingredientRepo,
		recipeRepo:     recipeRepo,
		images:         images,
	}
}

// CreateUser registers a new user, hashes their password, and persists them.
// Email and password are both required; the email's domain portion is
// lower-cased while the local part is preserved verbatim.
func (s *UserService) CreateUser(email, password, name string) (*models.User, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrValidation)
	}
	if len(password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", ErrValidation, minPasswordLength)
	}

	email = normalizeEmail(email)

	if existing, err := s.userRepo.GetByEmail(email); err == nil && existing != nil {
		return nil, fmt.Errorf("%w: %s", ErrEmailTaken, email)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:    email,
		Name:     name,
		Password: string(hashedPassword),
		IsActive: true,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to register user: %w", err)
	}
	return user, nil
}

// CreateSuperuser registers a user and grants staff and superuser flags.
func (s *UserService) CreateSuperuser(email, password string) (*models.User, error) {
	user, err := s.CreateUser(email, password, "")
	if err != nil {
		return nil, err
	}
	user.IsStaff = true
	user.IsSuperuser = true
	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to promote superuser: %w", err)
	}
	return user, nil
}

// GetUser retrieves a user by id.
func (s *UserService) GetUser(id uint) (*models.User, error) {
	return s.userRepo.GetByID(id)
}

// UpdateProfile applies a partial profile update. A nil field is left
// untouched; a new password is re-hashed before storage.
func (s *UserService) UpdateProfile(user *models.User, name, password *string) error {
	if name != nil {
		user.Name = *name
	}
	if password != nil {
		if len(*password) < minPasswordLength {
			return fmt.Errorf("%w: password must be at least %d characters", ErrValidation, minPasswordLength)
		}
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		user.Password = string(hashedPassword)
	}
	if err := s.userRepo.Update(user); err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	return nil
}

// DeleteUser removes a user and everything they own. The cascade is explicit:
// recipes go first (their stored images are removed from the image store),
// then tags, then ingredients, then the user row itself.
func (s *UserService) DeleteUser(id uint) error {
	recipes, err := s.recipeRepo.GetAllByOwner(id)
	if err != nil {
		return fmt.Errorf("failed to list recipes for user %d: %w", id, err)
	}
	for i := range recipes {
		recipe := &recipes[i]
		if recipe.Image != "" && s.images != nil {
			if err := s.images.Delete(recipe.Image); err != nil {
				log.Printf("Warning: failed to remove image %s for recipe %d: %v", recipe.Image, recipe.ID, err)
			}
		}
		if err := s.recipeRepo.Delete(recipe); err != nil {
			return fmt.Errorf("failed to delete recipe %d: %w", recipe.ID, err)
		}
	}
	if err := s.tagRepo.DeleteAllByOwner(id); err != nil {
		return err
	}
	if err := s.ingredientRepo.DeleteAllByOwner(id); err != nil {
		return err
	}
	return s.userRepo.Delete(id)
}

// normalizeEmail lower-cases the domain portion of an email address. The
// local part is case-sensitive per RFC 5321 and preserved verbatim.
func normalizeEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at+1] + strings.ToLower(email[at+1:])
}
