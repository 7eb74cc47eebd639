package testhelpers

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/cooklog/backend/internal/models"
	"github.com/cooklog/backend/internal/service"
)

// Runs the core flows against real PostgreSQL. Skipped without docker.
func TestPostgresSmoke(t *testing.T) {
	db := SetupPostgresDB(t)
	ctx := context.Background()
	alice := uuid.New()

	recipes := service.NewRecipeService(db)
	dishes := service.NewDishService(db)
	sessions := service.NewSessionService(db)
	results := service.NewResultService(db)

	recipe := &models.Recipe{Title: "Oven Bacon", IsActive: true}
	assert.NoError(t, recipes.Create(ctx, alice, recipe))

	dish := &models.Dish{Name: "Bacon Breakfast", DefaultRecipeID: &recipe.ID, IsActive: true}
	assert.NoError(t, dishes.Create(ctx, alice, dish))
	assert.ErrorIs(t, dishes.Create(ctx, alice, &models.Dish{Name: "Bacon Breakfast"}), service.ErrDuplicateDish)

	session := &models.CookSession{DishID: dish.ID, RecipeUsedID: &recipe.ID, MealType: models.MealBreakfast, Method: models.MethodOven}
	assert.NoError(t, sessions.Create(ctx, alice, session))

	result, err := results.GetOrCreateForSession(ctx, alice, session.ID)
	assert.NoError(t, err)
	again, err := results.GetOrCreateForSession(ctx, alice, session.ID)
	assert.NoError(t, err)
	assert.Equal(t, result.ID, again.ID)

	// Deleting the recipe nullifies both references.
	assert.NoError(t, recipes.Delete(ctx, alice, recipe.ID))
	reloaded, err := dishes.Get(ctx, alice, dish.ID)
	assert.NoError(t, err)
	assert.Nil(t, reloaded.DefaultRecipeID)

	// Another user sees none of it.
	_, err = dishes.Get(ctx, uuid.New(), dish.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)
}
