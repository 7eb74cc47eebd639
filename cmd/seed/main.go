package main

import (
	"log"

	"github.com/cooklog/backend/config"
	"github.com/cooklog/backend/internal/database"
	"github.com/cooklog/backend/internal/models"
	"github.com/cooklog/backend/internal/types"
)

// Seeds a small set of shared records. They carry no owner, so every
// account can see them; running the seeder twice skips anything that is
// already present.

func intPtr(v int) *int { return &v }

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	recipes := []models.Recipe{
		{
			Title:        "Oven Bacon",
			Description:  "Hands-off bacon on a sheet pan.",
			Ingredients:  "1 lb bacon",
			Instructions: "Lay strips on a parchment-lined sheet pan. Bake at 400F for 18 minutes.",
			YieldText:    "4 servings",
			PrepMinutes:  intPtr(2),
			CookMinutes:  intPtr(18),
			IsFavorite:   true,
		},
		{
			Title:        "Weeknight Marinara",
			Author:       "Marcella Hazan",
			Description:  "Tomato sauce with butter and onion.",
			Ingredients:  "28 oz canned tomatoes\n5 tbsp butter\n1 onion, halved",
			Instructions: "Simmer everything for 45 minutes. Discard the onion. Salt to taste.",
			YieldText:    "enough for 1 lb pasta",
			PrepMinutes:  intPtr(5),
			CookMinutes:  intPtr(45),
		},
		{
			Title:        "Basic Pancakes",
			Description:  "Sunday morning standard.",
			Ingredients:  "1.5 cups flour\n1 tbsp sugar\n1 tbsp baking powder\n1 egg\n1.25 cups milk",
			Instructions: "Whisk dry, whisk wet, combine. Cook on a medium griddle until bubbles pop.",
			YieldText:    "8 pancakes",
			PrepMinutes:  intPtr(10),
			CookMinutes:  intPtr(15),
		},
	}

	byTitle := make(map[string]models.Recipe)
	for _, r := range recipes {
		var existing models.Recipe
		err := db.Where("title = ? AND created_by_id IS NULL", r.Title).First(&existing).Error
		if err == nil {
			byTitle[r.Title] = existing
			continue
		}
		if err := db.Create(&r).Error; err != nil {
			log.Fatalf("Failed to seed recipe %q: %v", r.Title, err)
		}
		byTitle[r.Title] = r
		log.Printf("Seeded recipe %q", r.Title)
	}

	marinara := byTitle["Weeknight Marinara"]
	pancakes := byTitle["Basic Pancakes"]

	dishes := []models.Dish{
		{Name: "Spaghetti Night", Description: "Pasta with whatever sauce is around.", DefaultRecipeID: &marinara.ID},
		{Name: "Pancake Breakfast", DefaultRecipeID: &pancakes.ID},
		{Name: "Breakfast for Dinner"},
	}

	byName := make(map[string]models.Dish)
	for _, d := range dishes {
		var existing models.Dish
		err := db.Where("name = ? AND created_by_id IS NULL", d.Name).First(&existing).Error
		if err == nil {
			byName[d.Name] = existing
			continue
		}
		if err := db.Create(&d).Error; err != nil {
			log.Fatalf("Failed to seed dish %q: %v", d.Name, err)
		}
		byName[d.Name] = d
		log.Printf("Seeded dish %q", d.Name)
	}

	spaghetti := byName["Spaghetti Night"]

	var sessionCount int64
	db.Model(&models.CookSession{}).Where("dish_id = ?", spaghetti.ID).Count(&sessionCount)
	if sessionCount == 0 {
		session := models.CookSession{
			DishID:       spaghetti.ID,
			RecipeUsedID: &marinara.ID,
			CookedOn:     types.Today().AddDays(-2),
			MealType:     models.MealDinner,
			Method:       models.MethodStovetop,
			Summary:      "Doubled the sauce, froze half.",
		}
		if err := db.Create(&session).Error; err != nil {
			log.Fatalf("Failed to seed cook session: %v", err)
		}
		result := models.CookResult{
			CookSessionID:  session.ID,
			Outcome:        models.OutcomeGood,
			TasteRating:    intPtr(8),
			WouldMakeAgain: true,
			WhatWorked:     "The long simmer.",
		}
		if err := db.Create(&result).Error; err != nil {
			log.Fatalf("Failed to seed cook result: %v", err)
		}
		log.Println("Seeded a cook session with result")
	}

	log.Println("Seed complete")
}
