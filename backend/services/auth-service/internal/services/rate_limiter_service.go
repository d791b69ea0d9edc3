package services

import (
	"context"
	"fmt"
	"time"

	"github.com/pomy-dev/ebh-repo/backend/services/auth-service/internal/repositories"
	"github.com/pomy-dev/ebh-repo/backend/shared/go-utils"
)

// RateLimiterService guards the login endpoint against brute force.
type RateLimiterService interface {
	CheckLoginRateLimits(ctx context.Context, ip, email string) error
	// ClearLoginAttempts forgets the per-email counter after a successful login.
	ClearLoginAttempts(ctx context.Context, email string) error
}

type rateLimiterService struct {
	repo          repositories.RateLimitRepository
	limitPerIP    int
	limitPerEmail int
	window        time.Duration
}

func NewRateLimiterService(repo repositories.RateLimitRepository, limitPerIP, limitPerEmail int, window time.Duration) RateLimiterService {
	return &rateLimiterService{repo: repo, limitPerIP: limitPerIP, limitPerEmail: limitPerEmail, window: window}
}

func loginEmailKey(email string) string { return fmt.Sprintf("login:email:%s", email) }

// CheckLoginRateLimits checks the per-IP and then the per-email limit.
func (s *rateLimiterService) CheckLoginRateLimits(ctx context.Context, ip, email string) error {
	ipKey := fmt.Sprintf("login:ip:%s", ip)
	allowed, err := s.repo.IncrementAndCheck(ctx, ipKey, s.limitPerIP, s.window)
	if err != nil {
		return err
	}
	if !allowed {
		utils.Logger.Warnf("Per-IP login rate limit exceeded (key: %s)", ipKey)
		return utils.ErrRateLimitExceeded
	}

	emailKey := loginEmailKey(email)
	allowed, err = s.repo.IncrementAndCheck(ctx, emailKey, s.limitPerEmail, s.window)
	if err != nil {
		return err
	}
	if !allowed {
		utils.Logger.Warnf("Per-email login rate limit exceeded (key: %s)", emailKey)
		return utils.ErrRateLimitExceeded
	}
	return nil
}

func (s *rateLimiterService) ClearLoginAttempts(ctx context.Context, email string) error {
	return s.repo.Reset(ctx, loginEmailKey(email))
}
