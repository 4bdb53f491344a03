package services_test

import (
	"testing"

	"resep/internal/models"
	"resep/internal/repositories"
	"resep/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(id uint) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Update(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

func newUserService(repo repositories.UserRepository) *services.UserService {
	// Tag/ingredient/recipe repositories and the image store are only needed
	// by the deletion cascade, which has its own sqlite-backed tests.
	return services.NewUserService(repo, nil, nil, nil, nil)
}

func TestUserService_CreateUser(t *testing.T) {
	mockRepo := new(MockUserRepository)
	userService := newUserService(mockRepo)

	mockRepo.On("GetByEmail", "test@example.com").Return(nil, repositories.ErrNotFound).Once()
	mockRepo.On("Create", mock.AnythingOfType("*models.User")).Return(nil).Once()

	user, err := userService.CreateUser("test@example.com", "password123", "Test User")
	assert.NoError(t, err)
	assert.Equal(t, "test@example.com", user.Email)
	assert.Equal(t, "Test User", user.Name)
	assert.True(t, user.IsActive)
	assert.False(t, user.IsStaff)
	assert.False(t, user.IsSuperuser)

	// The stored password must be a hash of the plaintext, never the plaintext
	assert.NotEqual(t, "password123", user.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("password123")))
	mockRepo.AssertExpectations(t)
}

func TestUserService_CreateUser_NormalizesEmailDomain(t *testing.T) {
	mockRepo := new(MockUserRepository)
	userService := newUserService(mockRepo)

	// The domain is lower-cased, the local part is preserved verbatim
	mockRepo.On("GetByEmail", "Test@foo.com").Return(nil, repositories.ErrNotFound).Once()
	mockRepo.On("Create", mock.AnythingOfType("*models.User")).Return(nil).Once()

	user, err := userService.CreateUser("Test@FOO.com", "password123", "")
	assert.NoError(t, err)
	assert.Equal(t, "Test@foo.com", user.Email)
	mockRepo.AssertExpectations(t)
}

func TestUserService_CreateUser_Invalid(t *testing.T) {
	mockRepo := new(MockUserRepository)
	userService := newUserService(mockRepo)

	// Empty email
	user, err := userService.CreateUser("", "password123", "")
	assert.Nil(t, user)
	assert.ErrorIs(t, err, services.ErrValidation)

	// Empty password
	user, err = userService.CreateUser("test@example.com", "", "")
	assert.Nil(t, user)
	assert.ErrorIs(t, err, services.ErrValidation)

	// Password below the minimum length
	user, err = userService.CreateUser("test@example.com", "pw", "")
	assert.Nil(t, user)
	assert.ErrorIs(t, err, services.ErrValidation)

	// No persistence call is made for invalid input
	mockRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestUserService_CreateUser_EmailTaken(t *testing.T) {
	mockRepo := new(MockUserRepository)
	userService := newUserService(mockRepo)

	mockRepo.On("GetByEmail", "taken@example.com").Return(&models.User{ID: 1}, nil).Once()

	user, err := userService.CreateUser("taken@example.com", "password123", "")
	assert.Nil(t, user)
	assert.ErrorIs(t, err, services.ErrEmailTaken)
	mockRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestUserService_CreateSuperuser(t *testing.T) {
	mockRepo := new(MockUserRepository)
	userService := newUserService(mockRepo)

	mockRepo.On("GetByEmail", "admin@example.com").Return(nil, repositories.ErrNotFound).Once()
	mockRepo.On("Create", mock.AnythingOfType("*models.User")).Return(nil).Once()
	mockRepo.On("Update", mock.AnythingOfType("*models.User")).Return(nil).Once()

	user, err := userService.CreateSuperuser("admin@example.com", "password123")
	assert.NoError(t, err)
	assert.True(t, user.IsStaff)
	assert.True(t, user.IsSuperuser)
	mockRepo.AssertExpectations(t)
}

func TestUserService_UpdateProfile(t *testing.T) {
	mockRepo := new(MockUserRepository)
	userService := newUserService(mockRepo)

	oldHash, _ := bcrypt.GenerateFromPassword([]byte("oldpassword"), bcrypt.DefaultCost)
	user := &models.User{ID: 1, Email: "test@example.com", Name: "Old Name", Password: string(oldHash)}

	mockRepo.On("Update", user).Return(nil).Once()

	newName := "New Name"
	newPassword := "newpassword"
	err := userService.UpdateProfile(user, &newName, &newPassword)
	assert.NoError(t, err)
	assert.Equal(t, "New Name", user.Name)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("newpassword")))
	mockRepo.AssertExpectations(t)

	// Nil fields leave the profile untouched
	mockRepo.On("Update", user).Return(nil).Once()
	err = userService.UpdateProfile(user, nil, nil)
	assert.NoError(t, err)
	assert.Equal(t, "New Name", user.Name)

	// A short password fails validation without persisting
	shortPassword := "pw"
	err = userService.UpdateProfile(user, nil, &shortPassword)
	assert.ErrorIs(t, err, services.ErrValidation)
	mockRepo.AssertExpectations(t)
}
