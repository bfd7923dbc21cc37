package models

import "time"

// RecipeContent is shared by generated and custom recipes.
type RecipeContent struct {
	Name         string
	Ingredients  []string
	Instructions []string
	Calories     float64
	Protein      float64
	Carbs        float64
	Fat          float64
	Tags         []string
}

// Recipe is a recipe produced by the text-generation feature and saved by
// the user. FavoriteDate is empty unless the user marked it as a favourite.
type Recipe struct {
	ID     string
	UserID string
	RecipeContent
	FavoriteDate string
	CreatedAt    time.Time
}

// CustomRecipe is authored by the user. It is never hard-deleted; IsActive
// false hides it from listings.
type CustomRecipe struct {
	ID     string
	UserID string
	RecipeContent
	ImageKey  string
	IsActive  bool
	CreatedAt time.Time
}
