package server

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"agora/internal/models"
	"agora/internal/repository"
	"agora/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock of the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByIDs(ctx context.Context, ids []string) ([]models.User, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserRepository) Search(ctx context.Context, query string) ([]models.User, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserRepository) UpdateProfile(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) ReconcileFollowCounts(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func TestInternalErrorsAreHidden(t *testing.T) {
	store := repository.NewGormStore(testutil.NewSQLiteDB(t), "sqlite")
	users := new(MockUserRepository)
	users.On("Search", mock.Anything, "x").Return(nil, errors.New("connection reset by peer"))
	store.Users = users

	app := newTestServer(testConfig(), Deps{Store: store}).App()

	status, body := doJSON(t, app, http.MethodGet, "/users?search=x", "", nil)
	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, "Internal server error", body["error"])
	assert.Equal(t, models.CodeInternal, body["code"])
	users.AssertExpectations(t)
}

func TestHealthChecks(t *testing.T) {
	t.Run("liveness", func(t *testing.T) {
		status, body := doJSON(t, newTestApp(t), http.MethodGet, "/health/live", "", nil)
		assert.Equal(t, fiber.StatusOK, status)
		assert.Equal(t, "up", body["status"])
	})

	t.Run("ready with redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		t.Cleanup(func() { _ = rdb.Close() })

		store := repository.NewGormStore(testutil.NewSQLiteDB(t), "sqlite")
		app := newTestServer(testConfig(), Deps{Store: store, Redis: rdb}).App()

		status, body := doJSON(t, app, http.MethodGet, "/health/ready", "", nil)
		assert.Equal(t, fiber.StatusOK, status)
		assert.Equal(t, "sqlite", body["backend"])
		checks := body["checks"].(map[string]any)
		assert.Equal(t, "healthy", checks["database"])
		assert.Equal(t, "healthy", checks["redis"])

		mr.Close()
		status, body = doJSON(t, app, http.MethodGet, "/health/ready", "", nil)
		assert.Equal(t, fiber.StatusServiceUnavailable, status)
		assert.Equal(t, "unhealthy", body["checks"].(map[string]any)["redis"])
	})

	t.Run("store down", func(t *testing.T) {
		store := repository.NewGormStore(testutil.NewSQLiteDB(t), "sqlite")
		store.PingFunc = func(context.Context) error { return errors.New("no route to host") }
		app := newTestServer(testConfig(), Deps{Store: store}).App()

		status, body := doJSON(t, app, http.MethodGet, "/health/ready", "", nil)
		assert.Equal(t, fiber.StatusServiceUnavailable, status)
		assert.Equal(t, "unhealthy", body["status"])
		assert.NotContains(t, body["checks"], "redis")
	})
}
