package service

import (
	"context"
	"fmt"

	"studio-api/core/cache"
	"studio-api/core/constants"
	"studio-api/core/errors"
	"studio-api/core/logger"
	"studio-api/core/utils"
	"studio-api/modules/auth/dto"
	"studio-api/modules/auth/repository"

	"github.com/google/uuid"
)

type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, *errors.AppError)
	Me(ctx context.Context, userID uuid.UUID) (*dto.MeResponse, *errors.AppError)
}

type authService struct {
	repo  repository.UserRepository
	cache cache.Cache
}

func NewAuthService(repo repository.UserRepository, c cache.Cache) AuthService {
	return &authService{repo: repo, cache: c}
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, *errors.AppError) {
	if req.Email == "" || req.Password == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "email and password are required", nil)
	}

	attemptKey := fmt.Sprintf("login:%s", req.Email)

	user, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		logger.Error("AuthService:Login:GetByEmail", "error", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to look up user", err)
	}
	if user == nil || !user.IsActive || !utils.ComparePassword(user.PasswordHash, req.Password) {
		if appErr := s.recordFailedAttempt(ctx, attemptKey); appErr != nil {
			return nil, appErr
		}
		return nil, errors.NewAppError(errors.ErrUnauthorized, "invalid credentials", nil)
	}

	accessToken, err := utils.GenerateToken(user.ID, user.Email, utils.AccessTokenTTL)
	if err != nil {
		logger.Error("AuthService:Login:GenerateToken", "error", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to generate access token", err)
	}
	refreshToken, err := utils.GenerateToken(user.ID, user.Email, utils.RefreshTokenTTL)
	if err != nil {
		logger.Error("AuthService:Login:GenerateRefreshToken", "error", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to generate refresh token", err)
	}

	if err := s.cache.Delete(ctx, attemptKey); err != nil {
		logger.Warn("AuthService:Login:ClearAttempts", "error", err)
	}

	return &dto.LoginResponse{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// recordFailedAttempt counts failures per email and locks the account out
// for the block duration once the limit is hit. The counter expires with
// the block, so a quiet period resets it.
func (s *authService) recordFailedAttempt(ctx context.Context, key string) *errors.AppError {
	count, err := s.cache.Incr(ctx, key)
	if err != nil {
		logger.Error("AuthService:recordFailedAttempt:Incr", "error", err)
		return errors.NewAppError(errors.ErrInternalServer, "failed to record login attempt", err)
	}
	if err := s.cache.Expire(ctx, key, constants.BlockDuration); err != nil {
		logger.Error("AuthService:recordFailedAttempt:Expire", "error", err)
		return errors.NewAppError(errors.ErrInternalServer, "failed to record login attempt", err)
	}
	if count >= constants.MaxLoginAttempts {
		return errors.NewAppError(errors.ErrUnauthorized, "too many failed attempts, try again later", nil)
	}
	return nil
}

func (s *authService) Me(ctx context.Context, userID uuid.UUID) (*dto.MeResponse, *errors.AppError) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load user", err)
	}
	if user == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "user not found", nil)
	}
	return &dto.MeResponse{ID: user.ID.String(), Email: user.Email, Name: user.Name}, nil
}
