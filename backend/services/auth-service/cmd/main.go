package main

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	cron "github.com/robfig/cron/v3"
	"github.com/rs/cors"

	"github.com/pomy-dev/ebh-repo/backend/services/auth-service/internal/app"
	"github.com/pomy-dev/ebh-repo/backend/services/auth-service/internal/config"
	"github.com/pomy-dev/ebh-repo/backend/services/auth-service/internal/controllers"
	auth_repositories "github.com/pomy-dev/ebh-repo/backend/services/auth-service/internal/repositories"
	"github.com/pomy-dev/ebh-repo/backend/services/auth-service/internal/routes"
	"github.com/pomy-dev/ebh-repo/backend/services/auth-service/internal/services"
	"github.com/pomy-dev/ebh-repo/backend/shared/go-middleware"
	"github.com/pomy-dev/ebh-repo/backend/shared/go-repositories"
	"github.com/pomy-dev/ebh-repo/backend/shared/go-utils"
)

func main() {
	utils.InitLogger(config.AppName)
	cfg := config.LoadConfig()

	application, err := app.NewApp(cfg)
	if err != nil {
		utils.Logger.Fatal("Failed to initialize application:", err)
	}
	defer application.Close()

	//----------------------------------------------------------------------
	// Repositories
	//----------------------------------------------------------------------
	userRepo := repositories.NewUserRepository(application.DB)
	tokenRepo := auth_repositories.NewTokenRepository(application.DB)
	rateLimitRepo := auth_repositories.NewRateLimitRepository(application.Redis)

	//----------------------------------------------------------------------
	// Services
	//----------------------------------------------------------------------
	var mailer utils.Mailer
	if cfg.SendGridAPIKey != "" {
		mailer = utils.NewSendGridMailer(cfg.SendGridAPIKey, cfg.LDFlag_SendgridFromEmail, cfg.LDFlag_SendgridSandboxMode)
	} else {
		utils.Logger.Warn("SENDGRID_API_KEY not set; welcome emails disabled")
	}

	jwtService := services.NewJWTService(cfg.RSAPrivateKey, tokenRepo, cfg.TokenExpiry, cfg.RefreshTokenExpiry)
	rateLimiterService := services.NewRateLimiterService(rateLimitRepo, cfg.LoginLimitPerIP, cfg.LoginLimitPerEmail, cfg.LoginWindow)
	authService := services.NewAuthService(
		userRepo,
		jwtService,
		rateLimiterService,
		services.NewContactValidator(cfg),
		mailer,
	)
	tokenCleanupService := services.NewTokenCleanupService(tokenRepo)

	//----------------------------------------------------------------------
	// Controllers
	//----------------------------------------------------------------------
	authController := controllers.NewAuthController(authService)
	healthController := controllers.NewHealthController(map[string]controllers.Pinger{
		"database": application.DB,
		"redis": controllers.PingFunc(func(ctx context.Context) error {
			return application.Redis.Ping(ctx).Err()
		}),
	})

	//----------------------------------------------------------------------
	// Router & Endpoints
	//----------------------------------------------------------------------
	router := mux.NewRouter()

	router.HandleFunc(routes.Health, healthController.HealthCheckHandler).Methods(http.MethodGet)

	router.HandleFunc(routes.AuthRegister, authController.Register).Methods(http.MethodPost)
	router.HandleFunc(routes.AuthLogin, authController.Login).Methods(http.MethodPost)
	router.HandleFunc(routes.AuthRefresh, authController.Refresh).Methods(http.MethodPost)
	router.HandleFunc(routes.AuthLogout, authController.Logout).Methods(http.MethodPost)

	secured := router.NewRoute().Subrouter()
	secured.Use(middleware.AuthMiddleware(cfg.RSAPublicKey))
	secured.HandleFunc(routes.AuthMe, authController.Me).Methods(http.MethodGet)

	//----------------------------------------------------------------------
	// Nightly cleanup via cron
	//----------------------------------------------------------------------
	c := cron.New()
	if _, err := c.AddFunc("5 3 * * *", func() {
		if e := tokenCleanupService.CleanupDaily(context.Background()); e != nil {
			utils.Logger.WithError(e).Error("Scheduled token cleanup failed")
		}
	}); err != nil {
		utils.Logger.WithError(err).Fatal("Failed to schedule token cleanup job")
	}
	c.Start()
	defer c.Stop()

	allowedOrigins := []string{cfg.AppUrl}
	if !cfg.LDFlag_CORSHighSecurity {
		allowedOrigins = append(allowedOrigins, utils.CORSLowSecurityAllowedOriginLocalhost)
	}

	co := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	utils.Logger.Infof("Starting %s on port: %s", cfg.AppName, cfg.AppPort)
	if err := http.ListenAndServe(":"+cfg.AppPort, co.Handler(router)); err != nil {
		utils.Logger.Fatal("Failed to start server:", err)
	}
}
