package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dailydiet/apiserver/types"
)

// MealRepository handles persistence for meals. Every read and mutation is
// scoped by the owning user's id; ownership is enforced here, not by the
// database's access control.
type MealRepository struct {
	db *sql.DB
}

func NewMealRepository(db *sql.DB) *MealRepository {
	return &MealRepository{db: db}
}

func (r *MealRepository) ListByOwner(ctx context.Context, ownerID string) ([]types.Meal, error) {
	const query = `
		SELECT id, user_id, name, description, "isDiet", created_at, updated_at
		FROM meals
		WHERE user_id = $1
		ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	meals := make([]types.Meal, 0)
	for rows.Next() {
		var meal types.Meal
		if err := rows.Scan(
			&meal.ID,
			&meal.UserID,
			&meal.Name,
			&meal.Description,
			&meal.IsDiet,
			&meal.CreatedAt,
			&meal.UpdatedAt,
		); err != nil {
			return nil, err
		}
		meals = append(meals, meal)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return meals, nil
}

// FindOwned returns the meal only when it exists AND belongs to ownerID.
// A meal owned by someone else is reported as ErrNotFound.
func (r *MealRepository) FindOwned(ctx context.Context, id, ownerID string) (types.Meal, error) {
	const query = `
		SELECT id, user_id, name, description, "isDiet", created_at, updated_at
		FROM meals
		WHERE id = $1 AND user_id = $2`
	var meal types.Meal
	err := r.db.QueryRowContext(ctx, query, id, ownerID).Scan(
		&meal.ID,
		&meal.UserID,
		&meal.Name,
		&meal.Description,
		&meal.IsDiet,
		&meal.CreatedAt,
		&meal.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Meal{}, ErrNotFound
		}
		return types.Meal{}, err
	}
	return meal, nil
}

func (r *MealRepository) Create(ctx context.Context, meal types.Meal) (types.Meal, error) {
	now := time.Now()
	meal.CreatedAt = now
	meal.UpdatedAt = now

	const query = `
		INSERT INTO meals (id, user_id, name, description, "isDiet", created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.ExecContext(
		ctx,
		query,
		meal.ID,
		meal.UserID,
		meal.Name,
		meal.Description,
		meal.IsDiet,
		meal.CreatedAt,
		meal.UpdatedAt,
	)
	if err != nil {
		return types.Meal{}, err
	}
	return meal, nil
}

// UpdateOwned updates the row matched by (id, owner) and returns how many
// rows matched. Zero is not an error: callers decide what a miss means.
func (r *MealRepository) UpdateOwned(ctx context.Context, meal types.Meal) (int64, error) {
	meal.UpdatedAt = time.Now()

	const query = `
		UPDATE meals
		SET name = $1,
			description = $2,
			"isDiet" = $3,
			created_at = $4,
			updated_at = $5
		WHERE id = $6 AND user_id = $7`
	result, err := r.db.ExecContext(
		ctx,
		query,
		meal.Name,
		meal.Description,
		meal.IsDiet,
		meal.CreatedAt,
		meal.UpdatedAt,
		meal.ID,
		meal.UserID,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// DeleteOwned removes the row matched by (id, owner) and returns how many
// rows were deleted.
func (r *MealRepository) DeleteOwned(ctx context.Context, id, ownerID string) (int64, error) {
	const query = `DELETE FROM meals WHERE id = $1 AND user_id = $2`
	result, err := r.db.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// Metrics aggregates the owner's meals. bestDietSequence is the maximum
// number of diet meals logged on one calendar day.
func (r *MealRepository) Metrics(ctx context.Context, ownerID string) (types.MealMetrics, error) {
	const countsQuery = `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE "isDiet"),
			COUNT(*) FILTER (WHERE NOT "isDiet")
		FROM meals
		WHERE user_id = $1`
	var metrics types.MealMetrics
	if err := r.db.QueryRowContext(ctx, countsQuery, ownerID).Scan(
		&metrics.TotalMeals,
		&metrics.DietMeals,
		&metrics.NonDietMeals,
	); err != nil {
		return types.MealMetrics{}, err
	}

	const bestDayQuery = `
		SELECT COALESCE(MAX(daily), 0)
		FROM (
			SELECT COUNT(*) AS daily
			FROM meals
			WHERE user_id = $1 AND "isDiet"
			GROUP BY DATE(created_at)
		) AS diet_days`
	if err := r.db.QueryRowContext(ctx, bestDayQuery, ownerID).Scan(
		&metrics.BestDietSequence,
	); err != nil {
		return types.MealMetrics{}, err
	}

	return metrics, nil
}
