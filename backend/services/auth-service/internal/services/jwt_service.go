package services

import (
	"context"
	"crypto/rsa"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/pomy-dev/ebh-repo/backend/services/auth-service/internal/models"
	"github.com/pomy-dev/ebh-repo/backend/services/auth-service/internal/repositories"
	"github.com/pomy-dev/ebh-repo/backend/shared/go-middleware"
	"github.com/pomy-dev/ebh-repo/backend/shared/go-utils"
)

const refreshTokenLength = 64

var (
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
)

// ---------------------------------------------------------------------
// JWTService interface
// ---------------------------------------------------------------------

type JWTService interface {
	GenerateAccessToken(userID uuid.UUID) (string, error)
	GenerateRefreshToken(ctx context.Context, userID uuid.UUID) (*models.RefreshToken, error)
	// RefreshToken rotates: the old refresh token is deleted and a new
	// access/refresh pair is returned.
	RefreshToken(ctx context.Context, refreshTokenString string) (string, string, error)
	// Logout deletes the refresh token; an unknown token is a no-op.
	Logout(ctx context.Context, refreshTokenString string) error
}

// ---------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------

type jwtService struct {
	privateKey    *rsa.PrivateKey
	tokenRepo     repositories.TokenRepository
	tokenExpiry   time.Duration
	refreshExpiry time.Duration
	now           func() time.Time
}

func NewJWTService(
	privateKey *rsa.PrivateKey,
	tokenRepo repositories.TokenRepository,
	tokenExpiry, refreshExpiry time.Duration,
) JWTService {
	return &jwtService{
		privateKey:    privateKey,
		tokenRepo:     tokenRepo,
		tokenExpiry:   tokenExpiry,
		refreshExpiry: refreshExpiry,
		now:           time.Now,
	}
}

func (j *jwtService) GenerateAccessToken(userID uuid.UUID) (string, error) {
	now := j.now()
	claims := jwt.MapClaims{
		"iss": middleware.TokenIssuer,
		"sub": userID.String(),
		"exp": now.Add(j.tokenExpiry).Unix(),
		"iat": now.Unix(),
		"jti": uuid.NewString(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	return token.SignedString(j.privateKey)
}

func (j *jwtService) GenerateRefreshToken(ctx context.Context, userID uuid.UUID) (*models.RefreshToken, error) {
	now := j.now()
	rt := &models.RefreshToken{
		ID:        uuid.New(),
		UserID:    userID,
		Token:     utils.RandomToken(refreshTokenLength),
		ExpiresAt: now.Add(j.refreshExpiry),
		CreatedAt: now,
	}
	if err := j.tokenRepo.CreateRefreshToken(ctx, rt); err != nil {
		return nil, err
	}
	return rt, nil
}

func (j *jwtService) RefreshToken(ctx context.Context, refreshTokenString string) (string, string, error) {
	oldToken, err := j.tokenRepo.GetRefreshToken(ctx, refreshTokenString)
	if err != nil {
		return "", "", err
	}
	if oldToken == nil {
		return "", "", ErrInvalidRefreshToken
	}
	if j.now().After(oldToken.ExpiresAt) {
		_ = j.tokenRepo.RemoveRefreshToken(ctx, oldToken.ID)
		return "", "", ErrRefreshTokenExpired
	}

	if err := j.tokenRepo.RemoveRefreshToken(ctx, oldToken.ID); err != nil {
		utils.Logger.WithError(err).Error("failed to remove old refresh token")
		return "", "", err
	}

	access, err := j.GenerateAccessToken(oldToken.UserID)
	if err != nil {
		return "", "", err
	}
	newRT, err := j.GenerateRefreshToken(ctx, oldToken.UserID)
	if err != nil {
		return "", "", err
	}
	return access, newRT.Token, nil
}

func (j *jwtService) Logout(ctx context.Context, refreshTokenString string) error {
	oldToken, err := j.tokenRepo.GetRefreshToken(ctx, refreshTokenString)
	if err != nil {
		return err
	}
	if oldToken == nil {
		return nil
	}
	return j.tokenRepo.RemoveRefreshToken(ctx, oldToken.ID)
}
