package repository

import (
	"context"
	"testing"
	"time"

	"agora/internal/models"
	"agora/internal/testutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestStore(t *testing.T) (*Store, *gorm.DB) {
	t.Helper()
	db := testutil.NewSQLiteDB(t)
	return NewGormStore(db, "sqlite"), db
}

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)

	return gormDB, mock
}

func createUser(t *testing.T, s *Store, username string) *models.User {
	t.Helper()
	u := &models.User{Username: username, Email: username + "@x.com", Password: "hash"}
	require.NoError(t, s.Users.Create(context.Background(), u))
	return u
}

func createContent(t *testing.T, s *Store, author *models.User, text string, at time.Time) *models.Content {
	t.Helper()
	c := &models.Content{AuthorID: author.ID, AuthorUsername: author.Username, Text: text, Timestamp: at}
	require.NoError(t, s.Contents.Create(context.Background(), c))
	return c
}
