package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/cooklog/backend/internal/models"
	"github.com/cooklog/backend/internal/service"
	"github.com/cooklog/backend/internal/testhelpers"
)

func createRecipe(t *testing.T, db *gorm.DB, owner *uuid.UUID, title string) *models.Recipe {
	t.Helper()
	recipe := &models.Recipe{Title: title}
	if owner != nil {
		recipe.SetOwner(*owner)
	}
	if err := db.Create(recipe).Error; err != nil {
		t.Fatalf("failed to create recipe: %v", err)
	}
	return recipe
}

func TestRecipeVisibility(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewRecipeService(db)
	ctx := context.Background()

	alice := uuid.New()
	bob := uuid.New()

	mine := createRecipe(t, db, &alice, "Alice's Toast")
	shared := createRecipe(t, db, nil, "House Marinara")
	theirs := createRecipe(t, db, &bob, "Bob's Stew")

	// Alice sees her own recipe and the shared one.
	recipes, total, err := svc.List(ctx, alice, service.RecipeFilter{})
	assert.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, recipes, 2)

	_, err = svc.Get(ctx, alice, mine.ID)
	assert.NoError(t, err)
	_, err = svc.Get(ctx, alice, shared.ID)
	assert.NoError(t, err)

	// Bob's record is indistinguishable from a missing one.
	_, err = svc.Get(ctx, alice, theirs.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestRecipeListFilters(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewRecipeService(db)
	ctx := context.Background()
	alice := uuid.New()

	fav := &models.Recipe{Title: "Oven Bacon", IsFavorite: true, IsActive: true}
	fav.SetOwner(alice)
	assert.NoError(t, db.Create(fav).Error)

	retired := &models.Recipe{Title: "Old Casserole", IsActive: false}
	retired.SetOwner(alice)
	assert.NoError(t, db.Create(retired).Error)

	byAuthor := &models.Recipe{Title: "Marinara", Author: "Marcella Hazan", IsActive: true}
	byAuthor.SetOwner(alice)
	assert.NoError(t, db.Create(byAuthor).Error)

	recipes, total, err := svc.List(ctx, alice, service.RecipeFilter{Query: "marcella"})
	assert.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "Marinara", recipes[0].Title)

	recipes, _, err = svc.List(ctx, alice, service.RecipeFilter{FavoriteOnly: true})
	assert.NoError(t, err)
	assert.Len(t, recipes, 1)
	assert.Equal(t, "Oven Bacon", recipes[0].Title)

	recipes, _, err = svc.List(ctx, alice, service.RecipeFilter{InactiveOnly: true})
	assert.NoError(t, err)
	assert.Len(t, recipes, 1)
	assert.Equal(t, "Old Casserole", recipes[0].Title)
}

func TestRecipeListPagination(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewRecipeService(db)
	ctx := context.Background()
	alice := uuid.New()

	for _, title := range []string{"A", "B", "C", "D", "E"} {
		createRecipe(t, db, &alice, title)
	}

	recipes, total, err := svc.List(ctx, alice, service.RecipeFilter{Page: 2, PerPage: 2})
	assert.NoError(t, err)
	assert.EqualValues(t, 5, total)
	assert.Len(t, recipes, 2)
}

func TestRecipeDeleteNullifiesReferences(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewRecipeService(db)
	ctx := context.Background()
	alice := uuid.New()

	recipe := createRecipe(t, db, &alice, "Marinara")

	dish := &models.Dish{Name: "Spaghetti Night", DefaultRecipeID: &recipe.ID}
	dish.SetOwner(alice)
	assert.NoError(t, db.Create(dish).Error)

	session := &models.CookSession{DishID: dish.ID, RecipeUsedID: &recipe.ID}
	session.SetOwner(alice)
	assert.NoError(t, db.Create(session).Error)

	assert.NoError(t, svc.Delete(ctx, alice, recipe.ID))

	var reloadedDish models.Dish
	assert.NoError(t, db.First(&reloadedDish, "id = ?", dish.ID).Error)
	assert.Nil(t, reloadedDish.DefaultRecipeID)

	var reloadedSession models.CookSession
	assert.NoError(t, db.First(&reloadedSession, "id = ?", session.ID).Error)
	assert.Nil(t, reloadedSession.RecipeUsedID)
}

func TestRecipeDeleteInvisibleRecord(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewRecipeService(db)
	ctx := context.Background()

	bob := uuid.New()
	theirs := createRecipe(t, db, &bob, "Bob's Stew")

	err := svc.Delete(ctx, uuid.New(), theirs.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)

	var count int64
	db.Model(&models.Recipe{}).Where("id = ?", theirs.ID).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestRecipeUpdateRoundTrip(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewRecipeService(db)
	ctx := context.Background()
	alice := uuid.New()

	recipe := &models.Recipe{Title: "Pancakes", IsActive: true}
	assert.NoError(t, svc.Create(ctx, alice, recipe))
	assert.Equal(t, alice, *recipe.CreatedByID)

	recipe.Title = "Buttermilk Pancakes"
	recipe.IsFavorite = true
	assert.NoError(t, svc.Save(ctx, alice, recipe))

	reloaded, err := svc.Get(ctx, alice, recipe.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Buttermilk Pancakes", reloaded.Title)
	assert.True(t, reloaded.IsFavorite)
}
