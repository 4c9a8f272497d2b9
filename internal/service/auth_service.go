package service

import (
	"context"
	"time"

	"go-catalog-api/internal/apperror"
	"go-catalog-api/internal/model"
	"go-catalog-api/internal/repository"
	"go-catalog-api/pkg/jwt"
)

var (
	errInvalidCredentials = apperror.New(apperror.CodeBadRequest, "invalid email or password")
	errUserInactive       = apperror.New(apperror.CodeBadRequest, "user account is inactive")
)

type AuthService interface {
	Login(ctx context.Context, email, password string) (*LoginResponse, error)
}

type LoginResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

type authService struct {
	users repository.UserRepository
}

func NewAuthService(users repository.UserRepository) AuthService {
	return &authService{users: users}
}

func (s *authService) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, errInvalidCredentials
	}
	if !user.IsActive {
		return nil, errUserInactive
	}
	if !user.CheckPassword(password) {
		return nil, errInvalidCredentials
	}

	now := time.Now()
	user.LastSeenAt = &now
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	token, err := jwt.GenerateToken(user.ID, user.Email, user.FullName)
	if err != nil {
		return nil, apperror.New(apperror.CodeBadRequest, "failed to issue token")
	}

	return &LoginResponse{Token: token, User: user}, nil
}
