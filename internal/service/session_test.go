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
	"github.com/cooklog/backend/internal/types"
)

func createDish(t *testing.T, db *gorm.DB, owner *uuid.UUID, name string) *models.Dish {
	t.Helper()
	dish := &models.Dish{Name: name, IsActive: true}
	if owner != nil {
		dish.SetOwner(*owner)
	}
	if err := db.Create(dish).Error; err != nil {
		t.Fatalf("failed to create dish: %v", err)
	}
	return dish
}

func createSessionOn(t *testing.T, db *gorm.DB, owner uuid.UUID, dishID uuid.UUID, day types.Date) *models.CookSession {
	t.Helper()
	session := &models.CookSession{DishID: dishID, CookedOn: day, IsActive: true}
	session.SetOwner(owner)
	if err := db.Create(session).Error; err != nil {
		t.Fatalf("failed to create session: %v", err)
	}
	return session
}

func TestSessionCreateDefaultsCookedOn(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewSessionService(db)
	ctx := context.Background()
	alice := uuid.New()

	dish := createDish(t, db, &alice, "Spaghetti Night")

	session := &models.CookSession{DishID: dish.ID, MealType: models.MealDinner, Method: models.MethodStovetop}
	assert.NoError(t, svc.Create(ctx, alice, session))
	assert.True(t, session.CookedOn.Equal(types.Today()))
}

func TestSessionCreateRequiresVisibleDish(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewSessionService(db)
	ctx := context.Background()

	bob := uuid.New()
	bobsDish := createDish(t, db, &bob, "Bob's Stew Night")

	err := svc.Create(ctx, uuid.New(), &models.CookSession{DishID: bobsDish.ID})
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestSessionCreateRequiresVisibleRecipe(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewSessionService(db)
	ctx := context.Background()
	alice := uuid.New()

	dish := createDish(t, db, &alice, "Spaghetti Night")
	bob := uuid.New()
	bobsRecipe := createRecipe(t, db, &bob, "Bob's Marinara")

	err := svc.Create(ctx, alice, &models.CookSession{DishID: dish.ID, RecipeUsedID: &bobsRecipe.ID})
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestSessionDateWindows(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewSessionService(db)
	ctx := context.Background()
	alice := uuid.New()
	today := types.Today()

	dish := createDish(t, db, &alice, "Meal Prep")

	createSessionOn(t, db, alice, dish.ID, today)
	createSessionOn(t, db, alice, dish.ID, today.AddDays(3))
	createSessionOn(t, db, alice, dish.ID, today.AddDays(20))
	createSessionOn(t, db, alice, dish.ID, today.AddDays(-10))
	createSessionOn(t, db, alice, dish.ID, today.AddDays(-45))

	cases := []struct {
		when string
		want int64
	}{
		{service.WhenToday, 1},
		{service.WhenWeek, 1},
		{service.WhenMonth, 2},
		{service.WhenPast30, 2},
		{"", 5},
		{"fortnight", 5},
	}
	for _, tc := range cases {
		_, total, err := svc.List(ctx, alice, service.SessionFilter{When: tc.when})
		assert.NoError(t, err)
		assert.Equal(t, tc.want, total, "window %q", tc.when)
	}
}

func TestSessionListFilters(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewSessionService(db)
	ctx := context.Background()
	alice := uuid.New()

	tacos := createDish(t, db, &alice, "Tacos")
	soup := createDish(t, db, &alice, "Soup")

	dinner := &models.CookSession{DishID: tacos.ID, MealType: models.MealDinner, Method: models.MethodStovetop}
	assert.NoError(t, svc.Create(ctx, alice, dinner))
	lunch := &models.CookSession{DishID: soup.ID, MealType: models.MealLunch, Method: models.MethodOven}
	assert.NoError(t, svc.Create(ctx, alice, lunch))

	sessions, _, err := svc.List(ctx, alice, service.SessionFilter{MealType: "lunch"})
	assert.NoError(t, err)
	assert.Len(t, sessions, 1)
	assert.Equal(t, lunch.ID, sessions[0].ID)

	sessions, _, err = svc.List(ctx, alice, service.SessionFilter{Method: "stovetop"})
	assert.NoError(t, err)
	assert.Len(t, sessions, 1)
	assert.Equal(t, dinner.ID, sessions[0].ID)

	sessions, _, err = svc.List(ctx, alice, service.SessionFilter{DishID: &soup.ID})
	assert.NoError(t, err)
	assert.Len(t, sessions, 1)
	assert.Equal(t, lunch.ID, sessions[0].ID)

	// Search reaches the dish name through the join.
	sessions, _, err = svc.List(ctx, alice, service.SessionFilter{Query: "taco"})
	assert.NoError(t, err)
	assert.Len(t, sessions, 1)
	assert.Equal(t, dinner.ID, sessions[0].ID)
}

func TestSessionListPreloadsRefs(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewSessionService(db)
	ctx := context.Background()
	alice := uuid.New()

	recipe := createRecipe(t, db, &alice, "Marinara")
	dish := createDish(t, db, &alice, "Spaghetti Night")
	session := &models.CookSession{DishID: dish.ID, RecipeUsedID: &recipe.ID}
	assert.NoError(t, svc.Create(ctx, alice, session))

	sessions, _, err := svc.List(ctx, alice, service.SessionFilter{})
	assert.NoError(t, err)
	assert.Len(t, sessions, 1)
	assert.NotNil(t, sessions[0].Dish)
	assert.Equal(t, "Spaghetti Night", sessions[0].Dish.Name)
	assert.NotNil(t, sessions[0].RecipeUsed)
	assert.Equal(t, "Marinara", sessions[0].RecipeUsed.Title)
}

func TestSessionDeleteRemovesResult(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	sessions := service.NewSessionService(db)
	results := service.NewResultService(db)
	ctx := context.Background()
	alice := uuid.New()

	dish := createDish(t, db, &alice, "Spaghetti Night")
	session := &models.CookSession{DishID: dish.ID}
	assert.NoError(t, sessions.Create(ctx, alice, session))

	result, err := results.GetOrCreateForSession(ctx, alice, session.ID)
	assert.NoError(t, err)

	assert.NoError(t, sessions.Delete(ctx, alice, session.ID))

	var count int64
	db.Model(&models.CookResult{}).Where("id = ?", result.ID).Count(&count)
	assert.Zero(t, count)
}
