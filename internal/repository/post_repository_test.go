package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recycleways/internal/models"
)

var listColumns = []string{
	"post_id", "author_id", "title", "description", "procedure", "image_url",
	"ingredients", "status", "created_at", "author_name",
}

var returningColumns = []string{
	"post_id", "author_id", "title", "description", "procedure", "image_url",
	"ingredients", "status", "created_at",
}

func TestNewPostRepository(t *testing.T) {
	db, _ := setupMockDB(t)

	repo := NewPostRepository(db)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.DB)
}

func TestPostRepository_ListPosts(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	newer := time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)
	older := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT (.+) FROM recycle_post p LEFT JOIN users u`).
		WillReturnRows(sqlmock.NewRows(listColumns).
			AddRow("p2", "u1", "Bottle lamp", "desc", "steps", "", "{bottle,led}", "PUBLISHED", newer, "Ana").
			AddRow("p1", "u9", "Compost bin", "desc", "", "", "{soil}", "REQUESTING", older, nil))

	mock.ExpectQuery(`SELECT user_id, post_id FROM likes WHERE post_id = ANY\(\$1\)`).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "post_id"}).
			AddRow("u2", "p2").
			AddRow("u3", "p2"))

	mock.ExpectQuery(`FROM ratings r`).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "post_id", "star", "comment", "created_at", "author_name"}).
			AddRow("u2", "p1", 4, "nice", older, "Bo"))

	rows, err := repo.ListPosts(ctx)

	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "p2", rows[0].ID)
	assert.Equal(t, []string{"bottle", "led"}, rows[0].Ingredients)
	require.NotNil(t, rows[0].Author)
	assert.Equal(t, "Ana", rows[0].Author.Name)
	assert.Len(t, rows[0].Likes, 2)
	assert.Empty(t, rows[0].Ratings)

	assert.Equal(t, "p1", rows[1].ID)
	assert.Nil(t, rows[1].Author)
	assert.Empty(t, rows[1].Likes)
	require.Len(t, rows[1].Ratings, 1)
	assert.Equal(t, 4, rows[1].Ratings[0].Star)
	assert.Equal(t, "Bo", rows[1].Ratings[0].AuthorName)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_ListPosts_Empty(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)

	mock.ExpectQuery(`SELECT (.+) FROM recycle_post p`).
		WillReturnRows(sqlmock.NewRows(listColumns))

	rows, err := repo.ListPosts(context.Background())

	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_ListPosts_Error(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)

	mock.ExpectQuery(`SELECT (.+) FROM recycle_post p`).
		WillReturnError(errors.New("connection reset"))

	rows, err := repo.ListPosts(context.Background())

	assert.Nil(t, rows)
	assert.ErrorContains(t, err, "could not list posts")
}

func TestPostRepository_InsertPost(t *testing.T) {
	tests := []struct {
		name        string
		setupMock   func(mock sqlmock.Sqlmock)
		expectError bool
	}{
		{
			name: "returns server-assigned row",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO recycle_post`).
					WithArgs(
						sqlmock.AnyArg(), // generated post_id
						"u1",
						"Compost bin",
						"Turn scraps into soil",
						"Layer it",
						"",
						sqlmock.AnyArg(),
						"REQUESTING",
						sqlmock.AnyArg(),
					).
					WillReturnRows(sqlmock.NewRows(returningColumns).
						AddRow("p1", "u1", "Compost bin", "Turn scraps into soil", "Layer it", "", "{soil}", "REQUESTING", time.Now()))
			},
		},
		{
			name: "database error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO recycle_post`).
					WillReturnError(errors.New("violates foreign key constraint"))
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := setupMockDB(t)
			repo := NewPostRepository(db)
			tt.setupMock(mock)

			row, err := repo.InsertPost(context.Background(), models.NewPostRow{
				AuthorID:    "u1",
				Title:       "Compost bin",
				Description: "Turn scraps into soil",
				Procedure:   "Layer it",
				Ingredients: []string{"soil"},
				Status:      models.StatusRequesting,
			})

			if tt.expectError {
				assert.Nil(t, row)
				assert.ErrorContains(t, err, "could not create post")
			} else {
				require.NoError(t, err)
				assert.Equal(t, "p1", row.ID)
				assert.Equal(t, []string{"soil"}, row.Ingredients)
				assert.Equal(t, models.StatusRequesting, row.Status)
				assert.False(t, row.CreatedAt.IsZero())
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPostRepository_UpdatePost(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()
	upd := models.PostUpdate{
		Title:       "New",
		Description: "d",
		Ingredients: []string{"a"},
		Status:      models.StatusRequesting,
	}

	t.Run("updated", func(t *testing.T) {
		mock.ExpectQuery(`UPDATE recycle_post SET`).
			WithArgs("New", "d", "", "", sqlmock.AnyArg(), "REQUESTING", "p1").
			WillReturnRows(sqlmock.NewRows(returningColumns).
				AddRow("p1", "u1", "New", "d", "", "", "{a}", "REQUESTING", time.Now()))

		row, err := repo.UpdatePost(ctx, "p1", upd)

		require.NoError(t, err)
		assert.Equal(t, "New", row.Title)
	})

	t.Run("missing post", func(t *testing.T) {
		mock.ExpectQuery(`UPDATE recycle_post SET`).
			WillReturnError(sql.ErrNoRows)

		row, err := repo.UpdatePost(ctx, "nope", upd)

		assert.Nil(t, row)
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_UpdatePostStatus(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)

	mock.ExpectQuery(`UPDATE recycle_post SET status = \$1 WHERE post_id = \$2 RETURNING status`).
		WithArgs("PUBLISHED", "p1").
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("PUBLISHED"))

	status, err := repo.UpdatePostStatus(context.Background(), "p1", models.StatusPublished)

	require.NoError(t, err)
	assert.Equal(t, models.StatusPublished, status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_DeletePost(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	mock.ExpectExec(`DELETE FROM recycle_post WHERE post_id = \$1`).
		WithArgs("p1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, repo.DeletePost(ctx, "p1"))

	mock.ExpectExec(`DELETE FROM recycle_post WHERE post_id = \$1`).
		WithArgs("p2").
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.DeletePost(ctx, "p2"), models.ErrNotFound)

	mock.ExpectExec(`DELETE FROM recycle_post WHERE post_id = \$1`).
		WithArgs("p3").
		WillReturnError(errors.New("permission denied"))
	assert.ErrorContains(t, repo.DeletePost(ctx, "p3"), "could not delete post")

	assert.NoError(t, mock.ExpectationsWereMet())
}
