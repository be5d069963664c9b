package handlers

import (
	"context"
	"net/http"
	"sort"
	"testing"
	"time"

	"github.com/dailydiet/apiserver/internal/auth"
	"github.com/dailydiet/apiserver/internal/services"
	"github.com/dailydiet/apiserver/internal/store"
	"github.com/dailydiet/apiserver/types"
	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

const testSecret = "handler-test-secret"

type fakeUserRepo struct {
	users map[string]types.User // keyed by id
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]types.User)}
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (types.User, error) {
	user, ok := f.users[id]
	if !ok {
		return types.User{}, store.ErrNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (types.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (f *fakeUserRepo) Create(ctx context.Context, user types.User) (types.User, error) {
	for _, existing := range f.users {
		if existing.Email == user.Email {
			return types.User{}, store.ErrDuplicateEmail
		}
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	f.users[user.ID] = user
	return user, nil
}

type fakeMealRepo struct {
	meals map[string]types.Meal // keyed by id
}

func newFakeMealRepo() *fakeMealRepo {
	return &fakeMealRepo{meals: make(map[string]types.Meal)}
}

func (f *fakeMealRepo) ListByOwner(ctx context.Context, ownerID string) ([]types.Meal, error) {
	meals := make([]types.Meal, 0)
	for _, meal := range f.meals {
		if meal.UserID == ownerID {
			meals = append(meals, meal)
		}
	}
	sort.Slice(meals, func(i, j int) bool {
		return meals[i].CreatedAt.Before(meals[j].CreatedAt)
	})
	return meals, nil
}

func (f *fakeMealRepo) FindOwned(ctx context.Context, id, ownerID string) (types.Meal, error) {
	meal, ok := f.meals[id]
	if !ok || meal.UserID != ownerID {
		return types.Meal{}, store.ErrNotFound
	}
	return meal, nil
}

func (f *fakeMealRepo) Create(ctx context.Context, meal types.Meal) (types.Meal, error) {
	now := time.Now()
	meal.CreatedAt = now
	meal.UpdatedAt = now
	f.meals[meal.ID] = meal
	return meal, nil
}

func (f *fakeMealRepo) UpdateOwned(ctx context.Context, meal types.Meal) (int64, error) {
	existing, ok := f.meals[meal.ID]
	if !ok || existing.UserID != meal.UserID {
		return 0, nil
	}
	meal.UpdatedAt = time.Now()
	f.meals[meal.ID] = meal
	return 1, nil
}

func (f *fakeMealRepo) DeleteOwned(ctx context.Context, id, ownerID string) (int64, error) {
	meal, ok := f.meals[id]
	if !ok || meal.UserID != ownerID {
		return 0, nil
	}
	delete(f.meals, id)
	return 1, nil
}

func (f *fakeMealRepo) Metrics(ctx context.Context, ownerID string) (types.MealMetrics, error) {
	var metrics types.MealMetrics
	perDay := make(map[string]int)
	for _, meal := range f.meals {
		if meal.UserID != ownerID {
			continue
		}
		metrics.TotalMeals++
		if meal.IsDiet {
			metrics.DietMeals++
			perDay[meal.CreatedAt.Format("2006-01-02")]++
		} else {
			metrics.NonDietMeals++
		}
	}
	for _, count := range perDay {
		if count > metrics.BestDietSequence {
			metrics.BestDietSequence = count
		}
	}
	return metrics, nil
}

type testEnv struct {
	router http.Handler
	users  *fakeUserRepo
	meals  *fakeMealRepo
	tokens *auth.Tokens
}

func newTestEnv() *testEnv {
	users := newFakeUserRepo()
	meals := newFakeMealRepo()
	tokens := auth.NewTokens(testSecret)

	authHandler := NewAuthHandler(services.NewUserService(users), tokens)
	router := chi.NewRouter()
	router.Get("/healthz", Healthz)
	router.Post("/users", authHandler.Register)
	router.Post("/authenticate", authHandler.Login)
	router.Route("/meals", func(r chi.Router) {
		MealRouter(r, services.NewMealService(meals), RequireAuth(tokens))
	})

	return &testEnv{router: router, users: users, meals: meals, tokens: tokens}
}

// seedUser creates an account directly in the fake store and returns its id
// with a valid token for it.
func (e *testEnv) seedUser(t *testing.T, email, password string) (string, string) {
	t.Helper()

	hashed, err := auth.HashPassword(password)
	require.NoError(t, err)

	id := uuid.NewString()
	_, err = e.users.Create(context.Background(), types.User{
		ID:           id,
		Name:         "Test User",
		Email:        email,
		PasswordHash: hashed,
	})
	require.NoError(t, err)

	token, err := e.tokens.Issue(id)
	require.NoError(t, err)
	return id, token
}

// issueExpiredToken signs a token for userID whose expiry is in the past,
// using the same secret the test router verifies with.
func issueExpiredToken(env *testEnv, userID string) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
}

// seedMeal stores a meal for the given owner and returns its id.
func (e *testEnv) seedMeal(t *testing.T, ownerID, name string, isDiet bool, createdAt time.Time) string {
	t.Helper()

	id := uuid.NewString()
	e.meals.meals[id] = types.Meal{
		ID:          id,
		UserID:      ownerID,
		Name:        name,
		Description: name + " description",
		IsDiet:      isDiet,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
	return id
}
