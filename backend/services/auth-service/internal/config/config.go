package config

import (
	"crypto/rsa"
	"encoding/base64"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/pomy-dev/ebh-repo/backend/shared/go-utils"
)

// Config holds all application configuration, including secrets, flags, etc.
type Config struct {
	OrganizationName   string
	AppName            string
	AppPort            string
	AppUrl             string
	DBUrl              string
	RedisUrl           string
	TokenExpiry        time.Duration
	RefreshTokenExpiry time.Duration
	LoginLimitPerIP    int
	LoginLimitPerEmail int
	LoginWindow        time.Duration
	TwilioAccountSID   string
	TwilioAuthToken    string
	SendGridAPIKey     string
	RSAPrivateKey      *rsa.PrivateKey
	RSAPublicKey       *rsa.PublicKey

	// Static flags fetched once from LaunchDarkly (or the environment)
	LDFlag_SendgridFromEmail         string
	LDFlag_SendgridSandboxMode       bool
	LDFlag_ValidatePhoneWithTwilio   bool
	LDFlag_ValidateEmailWithSendGrid bool
	LDFlag_ShortTokenTTL             bool
	LDFlag_CORSHighSecurity          bool
}

const (
	OrganizationName            = utils.OrganizationName
	DefaultTokenExpiry          = 15 * time.Minute
	DefaultRefreshTokenExpiry   = 30 * 24 * time.Hour
	TestShortTokenExpiry        = 2 * time.Second
	TestShortRefreshTokenExpiry = 8 * time.Second
	DefaultLoginLimit           = 10
	DefaultLoginWindow          = 15 * time.Minute
	LDConnectionTimeout         = 5 * time.Second
)

// Overridable with -ldflags "-X .../config.AppName=auth-service".
var (
	AppName             = "auth-service"
	LDServerContextKey  = "ebh-backend"
	LDServerContextKind = "service"
)

// LoadConfig reads the environment (after an optional .env) and the
// LaunchDarkly flags. Missing required values are fatal.
func LoadConfig() *Config {
	utils.LoadDotEnv()
	utils.Logger.Info("Loading config for app: ", AppName)

	appUrl := utils.MustEnv("APP_URL_FROM_ANYWHERE")
	appPort := utils.EnvOr("APP_PORT", "8081")
	utils.Logger.Debugf("App can be accessed at: %s", appUrl)

	dbUrl, err := utils.WithApplicationName(utils.MustEnv("DB_URL"), AppName)
	if err != nil {
		utils.Logger.WithError(err).Fatal("DB_URL is not a valid connection string")
	}

	privateKey, publicKey := loadRSAKeys()

	flags := utils.NewFlagSource(utils.EnvOr("LD_SDK_KEY", ""), LDServerContextKind, LDServerContextKey, LDConnectionTimeout)
	defer flags.Close()

	cfg := &Config{
		OrganizationName:   OrganizationName,
		AppName:            AppName,
		AppPort:            appPort,
		AppUrl:             appUrl,
		DBUrl:              dbUrl,
		RedisUrl:           utils.MustEnv("REDIS_URL"),
		TokenExpiry:        utils.EnvDuration("TOKEN_EXPIRY", DefaultTokenExpiry),
		RefreshTokenExpiry: utils.EnvDuration("REFRESH_TOKEN_EXPIRY", DefaultRefreshTokenExpiry),
		LoginLimitPerIP:    utils.EnvInt("LOGIN_LIMIT_PER_IP", DefaultLoginLimit),
		LoginLimitPerEmail: utils.EnvInt("LOGIN_LIMIT_PER_EMAIL", DefaultLoginLimit),
		LoginWindow:        utils.EnvDuration("LOGIN_WINDOW", DefaultLoginWindow),
		TwilioAccountSID:   utils.EnvOr("TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:    utils.EnvOr("TWILIO_AUTH_TOKEN", ""),
		SendGridAPIKey:     utils.EnvOr("SENDGRID_API_KEY", ""),
		RSAPrivateKey:      privateKey,
		RSAPublicKey:       publicKey,

		LDFlag_SendgridFromEmail:         flags.String("sendgrid_from_email", "no-reply@ebh.example"),
		LDFlag_SendgridSandboxMode:       flags.Bool("sendgrid_sandbox_mode", true),
		LDFlag_ValidatePhoneWithTwilio:   flags.Bool("validate_phone_with_twilio", false),
		LDFlag_ValidateEmailWithSendGrid: flags.Bool("validate_email_with_sendgrid", false),
		LDFlag_ShortTokenTTL:             flags.Bool("short_token_ttl", false),
		LDFlag_CORSHighSecurity:          flags.Bool("cors_high_security", false),
	}

	if cfg.LDFlag_ShortTokenTTL {
		cfg.TokenExpiry = TestShortTokenExpiry
		cfg.RefreshTokenExpiry = TestShortRefreshTokenExpiry
	}
	utils.Logger.Debugf("short_token_ttl flag: %t", cfg.LDFlag_ShortTokenTTL)

	return cfg
}

func loadRSAKeys() (*rsa.PrivateKey, *rsa.PublicKey) {
	privatePEM, err := base64.StdEncoding.DecodeString(utils.MustEnv("RSA_PRIVATE_KEY_BASE64"))
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to decode base64 private key")
	}
	privateKey, err := jwt.ParseRSAPrivateKeyFromPEM(privatePEM)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to parse RSA private key")
	}

	publicPEM, err := base64.StdEncoding.DecodeString(utils.MustEnv("RSA_PUBLIC_KEY_BASE64"))
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to decode base64 public key")
	}
	publicKey, err := jwt.ParseRSAPublicKeyFromPEM(publicPEM)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to parse RSA public key")
	}
	return privateKey, publicKey
}
