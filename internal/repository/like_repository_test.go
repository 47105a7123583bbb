package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestLikeRepository(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewLikeRepository(db)
	ctx := context.Background()

	mock.ExpectExec(`INSERT INTO likes (.+) ON CONFLICT \(user_id, post_id\) DO NOTHING`).
		WithArgs("u1", "p1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, repo.InsertLike(ctx, "u1", "p1"))

	mock.ExpectExec(`DELETE FROM likes WHERE user_id = \$1 AND post_id = \$2`).
		WithArgs("u1", "p1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, repo.DeleteLike(ctx, "u1", "p1"))

	mock.ExpectExec(`INSERT INTO likes`).
		WillReturnError(errors.New("network down"))
	assert.ErrorContains(t, repo.InsertLike(ctx, "u1", "p1"), "could not like post")

	assert.NoError(t, mock.ExpectationsWereMet())
}
