package test

import (
	"context"
	"io"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/mock"

	"recycleways/internal/models"
)

type MockPostStore struct {
	mock.Mock
}

func (m *MockPostStore) FetchPosts(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockPostStore) Posts() []models.Post {
	return m.Called().Get(0).([]models.Post)
}

func (m *MockPostStore) PostsByStatus(status models.Status) []models.Post {
	return m.Called(status).Get(0).([]models.Post)
}

func (m *MockPostStore) PostsByAuthor(authorID string) []models.Post {
	return m.Called(authorID).Get(0).([]models.Post)
}

func (m *MockPostStore) FindPost(postID string) (models.Post, bool) {
	args := m.Called(postID)
	return args.Get(0).(models.Post), args.Bool(1)
}

func (m *MockPostStore) Loading() bool {
	return m.Called().Bool(0)
}

func (m *MockPostStore) CreatePost(ctx context.Context, input models.PostInput) (models.Post, error) {
	args := m.Called(ctx, input)
	return args.Get(0).(models.Post), args.Error(1)
}

func (m *MockPostStore) UpdatePost(ctx context.Context, postID string, input models.PostInput) (models.Post, error) {
	args := m.Called(ctx, postID, input)
	return args.Get(0).(models.Post), args.Error(1)
}

func (m *MockPostStore) DeletePost(ctx context.Context, postID string) error {
	return m.Called(ctx, postID).Error(0)
}

func (m *MockPostStore) ToggleLike(ctx context.Context, postID string) error {
	return m.Called(ctx, postID).Error(0)
}

func (m *MockPostStore) UpdatePostRating(ctx context.Context, postID string, star int, comment string) error {
	return m.Called(ctx, postID, star, comment).Error(0)
}

func (m *MockPostStore) DeleteRating(ctx context.Context, postID string) error {
	return m.Called(ctx, postID).Error(0)
}

func (m *MockPostStore) UpdatePostStatus(ctx context.Context, postID string, status models.Status) error {
	return m.Called(ctx, postID, status).Error(0)
}

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, creds models.Credentials) (*models.User, string, error) {
	args := m.Called(ctx, creds)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*models.User), args.String(1), args.Error(2)
}

func (m *MockAuthService) Signup(ctx context.Context, input models.SignupInput) (*models.User, string, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*models.User), args.String(1), args.Error(2)
}

func (m *MockAuthService) Logout(ctx context.Context) {
	m.Called(ctx)
}

func (m *MockAuthService) Restore(ctx context.Context, tokenString string) (*models.User, error) {
	args := m.Called(ctx, tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthService) ValidateToken(tokenString string) (*jwt.Token, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*jwt.Token), args.Error(1)
}

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) UploadImage(ctx context.Context, file io.Reader, size int64) (string, error) {
	args := m.Called(ctx, file, size)
	return args.String(0), args.Error(1)
}

func (m *MockStorage) DeleteImage(ctx context.Context, imageURL string) error {
	return m.Called(ctx, imageURL).Error(0)
}

type fakeSession struct {
	user  *models.User
	token string
}

func (s *fakeSession) CurrentUser() *models.User {
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *fakeSession) IsAdmin() bool {
	return s.user.IsAdmin()
}

func (s *fakeSession) Token() string {
	return s.token
}
