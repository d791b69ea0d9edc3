package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	twilio "github.com/twilio/twilio-go"

	"github.com/pomy-dev/ebh-repo/backend/services/auth-service/internal/config"
	"github.com/pomy-dev/ebh-repo/backend/services/auth-service/internal/dtos"
	"github.com/pomy-dev/ebh-repo/backend/shared/go-middleware"
	"github.com/pomy-dev/ebh-repo/backend/shared/go-models"
	"github.com/pomy-dev/ebh-repo/backend/shared/go-repositories"
	"github.com/pomy-dev/ebh-repo/backend/shared/go-utils"
)

// ContactValidator decides whether an e-mail address or phone number is
// deliverable before an account is created.
type ContactValidator interface {
	ValidEmail(ctx context.Context, email string) (bool, error)
	ValidPhone(ctx context.Context, phone string) (bool, error)
}

type remoteContactValidator struct {
	sendGridAPIKey      string
	validateEmailRemote bool
	validatePhoneRemote bool
	twilioClient        *twilio.RestClient
}

// NewContactValidator checks syntax locally and, depending on the
// validate_* flags, asks SendGrid and Twilio Lookup.
func NewContactValidator(cfg *config.Config) ContactValidator {
	v := &remoteContactValidator{
		sendGridAPIKey:      cfg.SendGridAPIKey,
		validateEmailRemote: cfg.LDFlag_ValidateEmailWithSendGrid,
		validatePhoneRemote: cfg.LDFlag_ValidatePhoneWithTwilio,
	}
	if cfg.TwilioAccountSID != "" {
		v.twilioClient = twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: cfg.TwilioAccountSID,
			Password: cfg.TwilioAuthToken,
		})
	}
	return v
}

func (v *remoteContactValidator) ValidEmail(ctx context.Context, email string) (bool, error) {
	return utils.ValidateEmail(ctx, v.sendGridAPIKey, email, v.validateEmailRemote)
}

func (v *remoteContactValidator) ValidPhone(ctx context.Context, phone string) (bool, error) {
	return utils.ValidatePhoneNumber(ctx, phone, v.validatePhoneRemote, v.twilioClient)
}

// AuthService owns tenant accounts and their sessions.
type AuthService interface {
	Register(ctx context.Context, req dtos.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, req dtos.LoginRequest, clientIP string) (*dtos.LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dtos.RefreshTokenResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	Me(ctx context.Context, sess middleware.Session) (*models.User, error)
}

type authService struct {
	users     repositories.UserRepository
	jwt       JWTService
	limiter   RateLimiterService
	validator ContactValidator
	mailer    utils.Mailer
}

func NewAuthService(
	users repositories.UserRepository,
	jwt JWTService,
	limiter RateLimiterService,
	validator ContactValidator,
	mailer utils.Mailer,
) AuthService {
	return &authService{users: users, jwt: jwt, limiter: limiter, validator: validator, mailer: mailer}
}

func (s *authService) Register(ctx context.Context, req dtos.RegisterRequest) (*models.User, error) {
	email := utils.NormalizeEmail(req.Email)

	ok, err := s.validator.ValidEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%w: email validation: %v", utils.ErrExternalServiceFailure, err)
	}
	if !ok {
		return nil, utils.ErrInvalidEmail
	}
	ok, err = s.validator.ValidPhone(ctx, req.PhoneNumber)
	if err != nil {
		return nil, fmt.Errorf("%w: phone validation: %v", utils.ErrExternalServiceFailure, err)
	}
	if !ok {
		return nil, utils.ErrInvalidPhone
	}

	if existing, err := s.users.GetByEmail(ctx, email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, utils.ErrEmailExists
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PhoneNumber:  req.PhoneNumber,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, utils.ErrEmailExists
		}
		return nil, err
	}

	s.sendWelcome(ctx, user)
	utils.Logger.WithField("user_id", user.ID).Info("user registered")
	return user, nil
}

// sendWelcome never fails the registration.
func (s *authService) sendWelcome(ctx context.Context, u *models.User) {
	if s.mailer == nil {
		return
	}
	subject := fmt.Sprintf(welcomeEmailSubject, utils.OrganizationName)
	text := fmt.Sprintf(welcomeEmailText, u.Name, utils.OrganizationName)
	html := fmt.Sprintf(welcomeEmailHTML, u.Name, utils.OrganizationName, time.Now().Year(), utils.OrganizationName)
	if err := s.mailer.Send(ctx, u.Name, u.Email, subject, text, html); err != nil {
		utils.Logger.WithError(err).WithField("user_id", u.ID).Warn("welcome email not sent")
	}
}

func (s *authService) Login(ctx context.Context, req dtos.LoginRequest, clientIP string) (*dtos.LoginResponse, error) {
	email := utils.NormalizeEmail(req.Email)
	if err := s.limiter.CheckLoginRateLimits(ctx, clientIP, email); err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil || !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, utils.ErrInvalidCredentials
	}

	access, err := s.jwt.GenerateAccessToken(user.ID)
	if err != nil {
		return nil, err
	}
	refresh, err := s.jwt.GenerateRefreshToken(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	if err := s.limiter.ClearLoginAttempts(ctx, email); err != nil {
		utils.Logger.WithError(err).Warn("could not clear login attempts")
	}

	return &dtos.LoginResponse{
		AccessToken:  access,
		RefreshToken: refresh.Token,
		User:         dtos.NewUserResponse(user),
	}, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dtos.RefreshTokenResponse, error) {
	access, refresh, err := s.jwt.RefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	return &dtos.RefreshTokenResponse{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	return s.jwt.Logout(ctx, refreshToken)
}

func (s *authService) Me(ctx context.Context, sess middleware.Session) (*models.User, error) {
	user, err := s.users.GetByID(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, utils.ErrNotFound
	}
	return user, nil
}
