package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/jackc/pgconn"

	"github.com/pomy-dev/ebh-repo/backend/services/auth-service/internal/repositories"
	"github.com/pomy-dev/ebh-repo/backend/shared/go-utils"
)

// One retry on transient network errors (EOF, closed connection).
const cleanupRetryDelay = 3 * time.Second

// TokenCleanupService removes expired refresh tokens each night.
type TokenCleanupService interface {
	CleanupDaily(ctx context.Context) error
}

type tokenCleanupService struct {
	tokenRepo  repositories.TokenRepository
	retryDelay time.Duration
}

func NewTokenCleanupService(tokenRepo repositories.TokenRepository) TokenCleanupService {
	return &tokenCleanupService{tokenRepo: tokenRepo, retryDelay: cleanupRetryDelay}
}

func isTransient(err error) bool {
	return errors.Is(err, io.EOF) || pgconn.SafeToRetry(err) ||
		strings.Contains(err.Error(), "connection was closed")
}

func (s *tokenCleanupService) CleanupDaily(ctx context.Context) error {
	err := s.tokenRepo.CleanupExpiredRefreshTokens(ctx)
	if err != nil && isTransient(err) {
		utils.Logger.WithError(err).Warn("token cleanup hit transient DB error; retrying once")
		time.Sleep(s.retryDelay)
		err = s.tokenRepo.CleanupExpiredRefreshTokens(ctx)
	}
	if err != nil {
		utils.Logger.WithError(err).Error("Failed to cleanup expired refresh_tokens")
		return err
	}
	utils.Logger.Info("Daily token cleanup completed successfully.")
	return nil
}
