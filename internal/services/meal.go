package services

import (
	"context"

	"github.com/dailydiet/apiserver/types"
)

// MealRepository defines persistence operations for meals. Implementations
// must scope every operation by the owner id they are given.
type MealRepository interface {
	ListByOwner(ctx context.Context, ownerID string) ([]types.Meal, error)
	FindOwned(ctx context.Context, id, ownerID string) (types.Meal, error)
	Create(ctx context.Context, meal types.Meal) (types.Meal, error)
	UpdateOwned(ctx context.Context, meal types.Meal) (int64, error)
	DeleteOwned(ctx context.Context, id, ownerID string) (int64, error)
	Metrics(ctx context.Context, ownerID string) (types.MealMetrics, error)
}

// MealService encapsulates meal use-cases.
type MealService struct {
	repo MealRepository
}

func NewMealService(repo MealRepository) *MealService {
	return &MealService{repo: repo}
}

func (s *MealService) ListByOwner(ctx context.Context, ownerID string) ([]types.Meal, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

func (s *MealService) FindOwned(ctx context.Context, id, ownerID string) (types.Meal, error) {
	return s.repo.FindOwned(ctx, id, ownerID)
}

func (s *MealService) Create(ctx context.Context, meal types.Meal) (types.Meal, error) {
	return s.repo.Create(ctx, meal)
}

func (s *MealService) UpdateOwned(ctx context.Context, meal types.Meal) (int64, error) {
	return s.repo.UpdateOwned(ctx, meal)
}

func (s *MealService) DeleteOwned(ctx context.Context, id, ownerID string) (int64, error) {
	return s.repo.DeleteOwned(ctx, id, ownerID)
}

func (s *MealService) Metrics(ctx context.Context, ownerID string) (types.MealMetrics, error) {
	return s.repo.Metrics(ctx, ownerID)
}
