package config

import (
	"crypto/rsa"
	"encoding/base64"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/pomy-dev/ebh-repo/backend/shared/go-storage"
	"github.com/pomy-dev/ebh-repo/backend/shared/go-utils"
)

// Config holds all application configuration, including secrets, flags, etc.
type Config struct {
	OrganizationName string
	AppName          string
	AppPort          string
	AppUrl           string
	DBUrl            string
	DBEncryptionKey  []byte
	RSAPublicKey     *rsa.PublicKey
	Storage          storage.Config
	StripeSecretKey  string
	SendGridAPIKey   string
	ListingCacheTTL  time.Duration
	MaxImageBytes    int64
	SignedURLTTL     time.Duration // 0 for a public bucket

	// Static flags fetched once from LaunchDarkly (or the environment)
	LDFlag_SendgridFromEmail    string
	LDFlag_SendgridSandboxMode  bool
	LDFlag_VerifyCardWithStripe bool
	LDFlag_CORSHighSecurity     bool
}

const (
	OrganizationName       = utils.OrganizationName
	DefaultListingCacheTTL = 30 * time.Second
	DefaultMaxImageBytes   = 10 << 20
	LDConnectionTimeout    = 5 * time.Second
)

// Overridable with -ldflags "-X .../config.AppName=rental-service".
var (
	AppName             = "rental-service"
	LDServerContextKey  = "ebh-backend"
	LDServerContextKind = "service"
)

// LoadConfig reads the environment (after an optional .env) and the
// LaunchDarkly flags. Missing required values are fatal.
func LoadConfig() *Config {
	utils.LoadDotEnv()
	utils.Logger.Info("Loading config for app: ", AppName)

	dbUrl, err := utils.WithApplicationName(utils.MustEnv("DB_URL"), AppName)
	if err != nil {
		utils.Logger.WithError(err).Fatal("DB_URL is not a valid connection string")
	}

	encKey, err := base64.StdEncoding.DecodeString(utils.MustEnv("DB_ENCRYPTION_KEY_BASE64"))
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to decode DB_ENCRYPTION_KEY_BASE64 from base64")
	}
	if len(encKey) != 32 {
		utils.Logger.Fatal("DBEncryptionKey must be 32 bytes for AES-256 encryption")
	}

	publicPEM, err := base64.StdEncoding.DecodeString(utils.MustEnv("RSA_PUBLIC_KEY_BASE64"))
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to decode base64 public key")
	}
	publicKey, err := jwt.ParseRSAPublicKeyFromPEM(publicPEM)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to parse RSA public key")
	}

	flags := utils.NewFlagSource(utils.EnvOr("LD_SDK_KEY", ""), LDServerContextKind, LDServerContextKey, LDConnectionTimeout)
	defer flags.Close()

	cfg := &Config{
		OrganizationName: OrganizationName,
		AppName:          AppName,
		AppPort:          utils.EnvOr("APP_PORT", "8082"),
		AppUrl:           utils.MustEnv("APP_URL_FROM_ANYWHERE"),
		DBUrl:            dbUrl,
		DBEncryptionKey:  encKey,
		RSAPublicKey:     publicKey,
		Storage: storage.Config{
			Endpoint:      utils.MustEnv("S3_ENDPOINT"),
			AccessKey:     utils.MustEnv("S3_ACCESS_KEY"),
			SecretKey:     utils.MustEnv("S3_SECRET_KEY"),
			Region:        utils.EnvOr("S3_REGION", "us-east-1"),
			Bucket:        utils.EnvOr("S3_BUCKET", utils.DefaultEvidenceBucket),
			UseSSL:        utils.EnvBool("S3_USE_SSL", true),
			PublicBaseURL: utils.EnvOr("S3_PUBLIC_BASE_URL", ""),
		},
		StripeSecretKey: utils.EnvOr("STRIPE_SECRET_KEY", ""),
		SendGridAPIKey:  utils.EnvOr("SENDGRID_API_KEY", ""),
		ListingCacheTTL: utils.EnvDuration("LISTING_CACHE_TTL", DefaultListingCacheTTL),
		MaxImageBytes:   int64(utils.EnvInt("MAX_IMAGE_BYTES", DefaultMaxImageBytes)),
		SignedURLTTL:    utils.EnvDuration("S3_SIGNED_URL_TTL", 0),

		LDFlag_SendgridFromEmail:    flags.String("sendgrid_from_email", "no-reply@ebh.example"),
		LDFlag_SendgridSandboxMode:  flags.Bool("sendgrid_sandbox_mode", true),
		LDFlag_VerifyCardWithStripe: flags.Bool("verify_card_with_stripe", true),
		LDFlag_CORSHighSecurity:     flags.Bool("cors_high_security", false),
	}
	utils.Logger.Debugf("verify_card_with_stripe flag: %t", cfg.LDFlag_VerifyCardWithStripe)
	return cfg
}
