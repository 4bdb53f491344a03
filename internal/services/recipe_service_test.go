package services_test

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"resep/internal/models"
	"resep/internal/repositories"
	"resep/internal/services"
	"resep/pkg/imagestore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// MockEventPublisher is a mock implementation of services.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishRecipeEvent(event string, body []byte) error {
	args := m.Called(event, body)
	return args.Error(0)
}

// recipeTestEnv wires real GORM repositories over an in-memory SQLite
// database. Recipe semantics lean on association handling, so mocking the
// repositories would test nothing.
type recipeTestEnv struct {
	db         *gorm.DB
	users      *repositories.GORMUserRepository
	tags       *repositories.GORMTagRepository
	ingreds    *repositories.GORMIngredientRepository
	recipes    *repositories.GORMRecipeRepository
	images     *imagestore.Store
	service    *services.RecipeService
	imageDir   string
	eventsMock *MockEventPublisher
}

func setupRecipeEnv(t *testing.T) *recipeTestEnv {
	t.Helper()

	// A named shared-cache DSN keeps every pooled connection on the same
	// in-memory database while isolating tests from each other.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open in-memory database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Tag{}, &models.Ingredient{}, &models.Recipe{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	imageDir := t.TempDir()
	images, err := imagestore.NewStore(imageDir)
	if err != nil {
		t.Fatalf("failed to create image store: %v", err)
	}

	env := &recipeTestEnv{
		db:         db,
		users:      repositories.NewGORMUserRepository(db),
		tags:       repositories.NewGORMTagRepository(db),
		ingreds:    repositories.NewGORMIngredientRepository(db),
		recipes:    repositories.NewGORMRecipeRepository(db),
		images:     images,
		imageDir:   imageDir,
		eventsMock: new(MockEventPublisher),
	}
	env.service = services.NewRecipeService(env.recipes, env.tags, env.ingreds, env.images, env.eventsMock)
	return env
}

func (env *recipeTestEnv) createUser(t *testing.T, email string) *models.User {
	t.Helper()
	user := &models.User{Email: email, Password: "hashed", IsActive: true}
	if err := env.users.Create(user); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

func (env *recipeTestEnv) createTag(t *testing.T, ownerID uint, name string) *models.Tag {
	t.Helper()
	tag := &models.Tag{Name: name, UserID: ownerID}
	if err := env.tags.Create(tag); err != nil {
		t.Fatalf("failed to create tag: %v", err)
	}
	return tag
}

func (env *recipeTestEnv) createIngredient(t *testing.T, ownerID uint, name string) *models.Ingredient {
	t.Helper()
	ingredient := &models.Ingredient{Name: name, UserID: ownerID}
	if err := env.ingreds.Create(ingredient); err != nil {
		t.Fatalf("failed to create ingredient: %v", err)
	}
	return ingredient
}

// pngBytes returns a minimal valid PNG payload.
func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 1, 1))); err != nil {
		t.Fatalf("failed to encode png: %v", err)
	}
	return buf.Bytes()
}

func TestRecipeService_CreateAndProjections(t *testing.T) {
	env := setupRecipeEnv(t)
	user := env.createUser(t, "cook@example.com")
	tag := env.createTag(t, user.ID, "Vegan")
	ingredient := env.createIngredient(t, user.ID, "Carrot")

	env.eventsMock.On("PublishRecipeEvent", "recipe.created", mock.Anything).Return(nil).Once()

	summary, err := env.service.Create(user.ID, services.RecipeInput{
		Title:       "Soup",
		TimeMinutes: 10,
		Price:       5.00,
		Link:        "http://example.com/soup",
		Tags:        []uint{tag.ID},
		Ingredients: []uint{ingredient.ID},
	})
	assert.NoError(t, err)
	assert.Equal(t, "Soup", summary.Title)
	assert.Equal(t, []uint{tag.ID}, summary.Tags)
	assert.Equal(t, []uint{ingredient.ID}, summary.Ingredients)
	env.eventsMock.AssertExpectations(t)

	// Summary projection in list: raw id references only
	summaries, err := env.service.List(user.ID)
	assert.NoError(t, err)
	assert.Len(t, summaries, 1)
	assert.Equal(t, []uint{tag.ID}, summaries[0].Tags)

	// Detail projection: members expanded to id+name, scalars round-trip
	detail, err := env.service.Get(user.ID, summary.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Soup", detail.Title)
	assert.Equal(t, 10, detail.TimeMinutes)
	assert.Equal(t, 5.00, detail.Price)
	assert.Equal(t, "http://example.com/soup", detail.Link)
	assert.Equal(t, []services.AttrItem{{ID: tag.ID, Name: "Vegan"}}, detail.Tags)
	assert.Equal(t, []services.AttrItem{{ID: ingredient.ID, Name: "Carrot"}}, detail.Ingredients)
}

func TestRecipeService_Create_Invalid(t *testing.T) {
	env := setupRecipeEnv(t)
	user := env.createUser(t, "cook@example.com")

	// Missing title
	_, err := env.service.Create(user.ID, services.RecipeInput{TimeMinutes: 5, Price: 1})
	assert.ErrorIs(t, err, services.ErrValidation)

	// Negative time
	_, err = env.service.Create(user.ID, services.RecipeInput{Title: "Soup", TimeMinutes: -1})
	assert.ErrorIs(t, err, services.ErrValidation)

	// Unknown tag reference
	_, err = env.service.Create(user.ID, services.RecipeInput{Title: "Soup", Tags: []uint{9999}})
	assert.ErrorIs(t, err, services.ErrValidation)

	// Nothing was persisted
	summaries, err := env.service.List(user.ID)
	assert.NoError(t, err)
	assert.Empty(t, summaries)
	env.eventsMock.AssertNotCalled(t, "PublishRecipeEvent", mock.Anything, mock.Anything)
}

func TestRecipeService_OwnerScoping(t *testing.T) {
	env := setupRecipeEnv(t)
	alice := env.createUser(t, "alice@example.com")
	bob := env.createUser(t, "bob@example.com")

	env.eventsMock.On("PublishRecipeEvent", "recipe.created", mock.Anything).Return(nil)
	summary, err := env.service.Create(alice.ID, services.RecipeInput{Title: "Alice's Soup"})
	assert.NoError(t, err)

	// Bob cannot see or fetch Alice's recipe; absent and not-owned are the same
	summaries, err := env.service.List(bob.ID)
	assert.NoError(t, err)
	assert.Empty(t, summaries)

	_, err = env.service.Get(bob.ID, summary.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	_, err = env.service.Get(bob.ID, 424242)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	// Nor mutate or delete it
	_, err = env.service.Replace(bob.ID, summary.ID, services.RecipeInput{Title: "Hijack"})
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	err = env.service.Delete(bob.ID, summary.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestRecipeService_CrossOwnerAttachAllowed(t *testing.T) {
	env := setupRecipeEnv(t)
	alice := env.createUser(t, "alice@example.com")
	bob := env.createUser(t, "bob@example.com")
	bobsTag := env.createTag(t, bob.ID, "Shared")

	// Attaching another user's tag to your own recipe is legal
	env.eventsMock.On("PublishRecipeEvent", "recipe.created", mock.Anything).Return(nil)
	summary, err := env.service.Create(alice.ID, services.RecipeInput{
		Title: "Borrowed Flavors",
		Tags:  []uint{bobsTag.ID},
	})
	assert.NoError(t, err)

	detail, err := env.service.Get(alice.ID, summary.ID)
	assert.NoError(t, err)
	assert.Equal(t, []services.AttrItem{{ID: bobsTag.ID, Name: "Shared"}}, detail.Tags)
}

func TestRecipeService_PatchAndReplaceSemantics(t *testing.T) {
	env := setupRecipeEnv(t)
	user := env.createUser(t, "cook@example.com")
	tag := env.createTag(t, user.ID, "Vegan")
	ingredient := env.createIngredient(t, user.ID, "Carrot")

	env.eventsMock.On("PublishRecipeEvent", "recipe.created", mock.Anything).Return(nil)
	summary, err := env.service.Create(user.ID, services.RecipeInput{
		Title:       "Soup",
		TimeMinutes: 10,
		Price:       5.00,
		Tags:        []uint{tag.ID},
		Ingredients: []uint{ingredient.ID},
	})
	assert.NoError(t, err)

	// Patch that omits the many-to-many sets leaves them untouched
	newTitle := "Better Soup"
	patched, err := env.service.Patch(user.ID, summary.ID, services.RecipePatch{Title: &newTitle})
	assert.NoError(t, err)
	assert.Equal(t, "Better Soup", patched.Title)
	assert.Equal(t, []uint{tag.ID}, patched.Tags)
	assert.Equal(t, []uint{ingredient.ID}, patched.Ingredients)
	assert.Equal(t, 10, patched.TimeMinutes)

	// Patch with an empty set clears just that set
	empty := []uint{}
	patched, err = env.service.Patch(user.ID, summary.ID, services.RecipePatch{Ingredients: &empty})
	assert.NoError(t, err)
	assert.Empty(t, patched.Ingredients)
	assert.Equal(t, []uint{tag.ID}, patched.Tags)

	// Full update that omits tags resets them to empty
	replaced, err := env.service.Replace(user.ID, summary.ID, services.RecipeInput{
		Title:       "Soup v2",
		TimeMinutes: 20,
		Price:       6.50,
	})
	assert.NoError(t, err)
	assert.Equal(t, "Soup v2", replaced.Title)
	assert.Empty(t, replaced.Tags)
	assert.Empty(t, replaced.Ingredients)
	assert.Equal(t, "", replaced.Link)

	detail, err := env.service.Get(user.ID, summary.ID)
	assert.NoError(t, err)
	assert.Empty(t, detail.Tags)
	assert.Equal(t, 6.50, detail.Price)
}

func TestRecipeService_Patch_Invalid(t *testing.T) {
	env := setupRecipeEnv(t)
	user := env.createUser(t, "cook@example.com")

	env.eventsMock.On("PublishRecipeEvent", "recipe.created", mock.Anything).Return(nil)
	summary, err := env.service.Create(user.ID, services.RecipeInput{Title: "Soup", TimeMinutes: 10})
	assert.NoError(t, err)

	negative := -3
	_, err = env.service.Patch(user.ID, summary.ID, services.RecipePatch{TimeMinutes: &negative})
	assert.ErrorIs(t, err, services.ErrValidation)

	// Failed validation mutates nothing
	detail, err := env.service.Get(user.ID, summary.ID)
	assert.NoError(t, err)
	assert.Equal(t, 10, detail.TimeMinutes)
}

func TestRecipeService_UploadImage(t *testing.T) {
	env := setupRecipeEnv(t)
	user := env.createUser(t, "cook@example.com")

	env.eventsMock.On("PublishRecipeEvent", "recipe.created", mock.Anything).Return(nil)
	summary, err := env.service.Create(user.ID, services.RecipeInput{Title: "Soup"})
	assert.NoError(t, err)

	result, err := env.service.UploadImage(user.ID, summary.ID, "photo.png", pngBytes(t))
	assert.NoError(t, err)
	assert.Equal(t, summary.ID, result.ID)
	assert.True(t, strings.HasPrefix(result.Image, imagestore.LogicalPrefix))
	// Original base name is discarded
	assert.NotContains(t, result.Image, "photo")

	// The file exists on disk under the recipe prefix
	stored := filepath.Join(env.imageDir, "recipe", filepath.Base(result.Image))
	_, err = os.Stat(stored)
	assert.NoError(t, err)

	// A non-image payload fails validation and leaves the reference unchanged
	_, err = env.service.UploadImage(user.ID, summary.ID, "notes.txt", []byte("just text"))
	assert.ErrorIs(t, err, services.ErrValidation)

	detail, err := env.service.Get(user.ID, summary.ID)
	assert.NoError(t, err)
	assert.Equal(t, result.Image, detail.Image)
}

func TestRecipeService_DeleteRemovesImage(t *testing.T) {
	env := setupRecipeEnv(t)
	user := env.createUser(t, "cook@example.com")

	env.eventsMock.On("PublishRecipeEvent", "recipe.created", mock.Anything).Return(nil)
	summary, err := env.service.Create(user.ID, services.RecipeInput{Title: "Soup"})
	assert.NoError(t, err)

	result, err := env.service.UploadImage(user.ID, summary.ID, "photo.png", pngBytes(t))
	assert.NoError(t, err)
	stored := filepath.Join(env.imageDir, "recipe", filepath.Base(result.Image))

	err = env.service.Delete(user.ID, summary.ID)
	assert.NoError(t, err)

	_, err = env.service.Get(user.ID, summary.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	_, err = os.Stat(stored)
	assert.True(t, os.IsNotExist(err))
}

func TestTagService_OwnerScopingAndOrdering(t *testing.T) {
	env := setupRecipeEnv(t)
	alice := env.createUser(t, "alice@example.com")
	bob := env.createUser(t, "bob@example.com")
	tagService := services.NewTagService(env.tags)

	// Both users own a tag named "Dessert"; each sees exactly their own
	_, err := tagService.Create(alice.ID, "Dessert")
	assert.NoError(t, err)
	_, err = tagService.Create(bob.ID, "Dessert")
	assert.NoError(t, err)
	_, err = tagService.Create(alice.ID, "Vegan")
	assert.NoError(t, err)

	aliceTags, err := tagService.List(alice.ID)
	assert.NoError(t, err)
	assert.Len(t, aliceTags, 2)
	// Ordered by name, descending
	assert.Equal(t, "Vegan", aliceTags[0].Name)
	assert.Equal(t, "Dessert", aliceTags[1].Name)

	bobTags, err := tagService.List(bob.ID)
	assert.NoError(t, err)
	assert.Len(t, bobTags, 1)
	assert.Equal(t, "Dessert", bobTags[0].Name)

	// Cross-owner get reads as not found
	_, err = tagService.Get(bob.ID, aliceTags[0].ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestTagService_DeleteKeepsRecipes(t *testing.T) {
	env := setupRecipeEnv(t)
	user := env.createUser(t, "cook@example.com")
	tag := env.createTag(t, user.ID, "Vegan")

	env.eventsMock.On("PublishRecipeEvent", "recipe.created", mock.Anything).Return(nil)
	summary, err := env.service.Create(user.ID, services.RecipeInput{Title: "Soup", Tags: []uint{tag.ID}})
	assert.NoError(t, err)

	// Deleting the tag removes only the association, never the recipe
	tagService := services.NewTagService(env.tags)
	err = tagService.Delete(user.ID, tag.ID)
	assert.NoError(t, err)

	detail, err := env.service.Get(user.ID, summary.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Soup", detail.Title)
	assert.Empty(t, detail.Tags)
}

func TestUserService_DeleteUserCascade(t *testing.T) {
	env := setupRecipeEnv(t)
	alice := env.createUser(t, "alice@example.com")
	bob := env.createUser(t, "bob@example.com")
	userService := services.NewUserService(env.users, env.tags, env.ingreds, env.recipes, env.images)

	aliceTag := env.createTag(t, alice.ID, "Vegan")
	env.createIngredient(t, alice.ID, "Carrot")
	bobTag := env.createTag(t, bob.ID, "Dessert")

	env.eventsMock.On("PublishRecipeEvent", "recipe.created", mock.Anything).Return(nil)
	summary, err := env.service.Create(alice.ID, services.RecipeInput{Title: "Soup", Tags: []uint{aliceTag.ID}})
	assert.NoError(t, err)
	result, err := env.service.UploadImage(alice.ID, summary.ID, "photo.png", pngBytes(t))
	assert.NoError(t, err)
	stored := filepath.Join(env.imageDir, "recipe", filepath.Base(result.Image))

	err = userService.DeleteUser(alice.ID)
	assert.NoError(t, err)

	// Alice's account and all owned records are gone, image file included
	_, err = env.users.GetByEmail("alice@example.com")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	aliceTags, err := env.tags.GetAllByOwner(alice.ID)
	assert.NoError(t, err)
	assert.Empty(t, aliceTags)
	aliceIngredients, err := env.ingreds.GetAllByOwner(alice.ID)
	assert.NoError(t, err)
	assert.Empty(t, aliceIngredients)
	aliceRecipes, err := env.recipes.GetAllByOwner(alice.ID)
	assert.NoError(t, err)
	assert.Empty(t, aliceRecipes)
	_, err = os.Stat(stored)
	assert.True(t, os.IsNotExist(err))

	// Bob's data is untouched
	bobTags, err := env.tags.GetAllByOwner(bob.ID)
	assert.NoError(t, err)
	assert.Len(t, bobTags, 1)
	assert.Equal(t, bobTag.Name, bobTags[0].Name)
}
