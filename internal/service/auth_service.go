package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"recycleways/internal/config"
	"recycleways/internal/identity"
	"recycleways/internal/models"
	"recycleways/internal/repository"
)

type AuthService interface {
	Login(ctx context.Context, creds models.Credentials) (*models.User, string, error)
	Signup(ctx context.Context, input models.SignupInput) (*models.User, string, error)
	Logout(ctx context.Context)
	Restore(ctx context.Context, tokenString string) (*models.User, error)
	ValidateToken(tokenString string) (*jwt.Token, error)
}

type authService struct {
	userRepo repository.UserRepository
	session  *identity.Session
	cfg      *config.Config
	validate *validator.Validate
	logger   zerolog.Logger
	now      func() time.Time
}

func NewAuthService(userRepo repository.UserRepository, session *identity.Session, cfg *config.Config, logger zerolog.Logger) AuthService {
	return &authService{
		userRepo: userRepo,
		session:  session,
		cfg:      cfg,
		validate: validator.New(),
		logger:   logger,
		now:      time.Now,
	}
}

func (s *authService) Login(ctx context.Context, creds models.Credentials) (*models.User, string, error) {
	if err := s.validate.Struct(creds); err != nil {
		return nil, "", models.NewValidationError("invalid credentials", err)
	}

	user, err := s.userRepo.VerifyPassword(ctx, creds.Email, creds.Password)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, "", models.NewUnauthorizedError("invalid email or password", nil)
		}
		return nil, "", fmt.Errorf("authentication failed: %w", err)
	}

	token, err := s.generateAccessToken(user)
	if err != nil {
		return nil, "", err
	}

	s.session.SignIn(ctx, user, token)
	s.logger.Info().Str("user_id", user.ID).Msg("user signed in")

	return s.session.CurrentUser(), token, nil
}

func (s *authService) Signup(ctx context.Context, input models.SignupInput) (*models.User, string, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, "", models.NewValidationError("invalid signup data", err)
	}

	existing, err := s.userRepo.GetUserByEmail(ctx, input.Email)
	if err == nil && existing != nil {
		return nil, "", models.NewValidationError(fmt.Sprintf("user with email %s already exists", input.Email), nil)
	}
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return nil, "", fmt.Errorf("could not check email: %w", err)
	}

	user := &models.User{
		Email: input.Email,
		Name:  input.Name,
		Role:  models.RoleUser,
	}
	if err := s.userRepo.CreateUser(ctx, user, input.Password); err != nil {
		return nil, "", fmt.Errorf("could not create user: %w", err)
	}

	token, err := s.generateAccessToken(user)
	if err != nil {
		return nil, "", err
	}

	s.session.SignIn(ctx, user, token)
	s.logger.Info().Str("user_id", user.ID).Msg("user signed up")

	return s.session.CurrentUser(), token, nil
}

func (s *authService) Logout(ctx context.Context) {
	if user := s.session.CurrentUser(); user != nil {
		s.logger.Info().Str("user_id", user.ID).Msg("user signed out")
	}
	s.session.SignOut(ctx)
}

// Restore signs the session in from a previously issued token. The user
// record is reloaded so a changed name or role takes effect.
func (s *authService) Restore(ctx context.Context, tokenString string) (*models.User, error) {
	token, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, models.NewUnauthorizedError("invalid session token", err)
	}

	subject, err := token.Claims.GetSubject()
	if err != nil || subject == "" {
		return nil, models.NewUnauthorizedError("session token has no subject", err)
	}

	user, err := s.userRepo.GetUserByID(ctx, subject)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.NewUnauthorizedError("session user no longer exists", err)
		}
		return nil, fmt.Errorf("could not load session user: %w", err)
	}

	s.session.SignIn(ctx, user, tokenString)
	return s.session.CurrentUser(), nil
}

func (s *authService) generateAccessToken(user *models.User) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub":  user.ID,
		"name": user.Name,
		"role": user.Role,
		"exp":  now.Add(s.cfg.AccessTokenDuration).Unix(),
		"iat":  now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.cfg.JWTSecretKey))
	if err != nil {
		return "", fmt.Errorf("could not sign token: %w", err)
	}

	return tokenString, nil
}

func (s *authService) ValidateToken(tokenString string) (*jwt.Token, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.JWTSecretKey), nil
	})
	if err != nil {
		return nil, fmt.Errorf("could not parse token: %w", err)
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return token, nil
}
