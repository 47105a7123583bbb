package service

import (
	"github.com/rs/zerolog"

	"recycleways/internal/config"
	"recycleways/internal/identity"
	"recycleways/internal/repository"
)

type Service struct {
	Auth AuthService
}

func NewService(rep *repository.Repository, cfg *config.Config, session *identity.Session, logger zerolog.Logger) *Service {
	return &Service{
		Auth: NewAuthService(rep.User, session, cfg, logger),
	}
}
