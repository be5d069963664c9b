package types

import "time"

// Meal is a single meal record owned by a user. Every query touching
// meals is additionally filtered by the owning user's identifier.
type Meal struct {
	// ID is the unique identifier of the meal (UUID).
	ID string `json:"id" db:"id"`

	// UserID identifies the owning user.
	UserID string `json:"user_id" db:"user_id"`

	// Name is the short label of the meal.
	Name string `json:"name" db:"name"`

	// Description is free-form text about the meal.
	Description string `json:"description" db:"description"`

	// IsDiet marks whether the meal fits the user's diet.
	IsDiet bool `json:"isDiet" db:"isDiet"`

	// CreatedAt is when the meal was logged.
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent change to the record.
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// MealMetrics aggregates a single user's meals.
//
// BestDietSequence is the highest number of diet meals logged on a single
// calendar day, matching the behavior the API has always exposed under
// this name.
type MealMetrics struct {
	TotalMeals       int `json:"totalMeals"`
	DietMeals        int `json:"dietMeals"`
	NonDietMeals     int `json:"nonDietMeals"`
	BestDietSequence int `json:"bestDietSequence"`
}
