package main

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	cron "github.com/robfig/cron/v3"
	"github.com/rs/cors"

	"github.com/pomy-dev/ebh-repo/backend/services/rental-service/internal/app"
	"github.com/pomy-dev/ebh-repo/backend/services/rental-service/internal/config"
	"github.com/pomy-dev/ebh-repo/backend/services/rental-service/internal/controllers"
	"github.com/pomy-dev/ebh-repo/backend/services/rental-service/internal/routes"
	"github.com/pomy-dev/ebh-repo/backend/services/rental-service/internal/services"
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
	unitRepo := repositories.NewUnitRepository(application.DB)
	applicationRepo := repositories.NewApplicationRepository(application.DB)
	tenancyRepo := repositories.NewTenancyRepository(application.DB)
	userRepo := repositories.NewUserRepository(application.DB)
	maintenanceRepo := repositories.NewMaintenanceRepository(application.DB)
	paymentRepo := repositories.NewPaymentRepository(application.DB, cfg.DBEncryptionKey)
	leaseStore := repositories.NewLeaseStore(application.DB)

	//----------------------------------------------------------------------
	// Services
	//----------------------------------------------------------------------
	listingCache, err := services.NewListingCache()
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to create listing cache")
	}

	var mailer utils.Mailer
	if cfg.SendGridAPIKey != "" {
		mailer = utils.NewSendGridMailer(cfg.SendGridAPIKey, cfg.LDFlag_SendgridFromEmail, cfg.LDFlag_SendgridSandboxMode)
	} else {
		utils.Logger.Warn("SENDGRID_API_KEY not set; payment receipts disabled")
	}

	var verifier services.CardVerifier
	if cfg.LDFlag_VerifyCardWithStripe {
		if cfg.StripeSecretKey == "" {
			utils.Logger.Fatal("verify_card_with_stripe is on but STRIPE_SECRET_KEY is empty")
		}
		verifier = services.NewStripeVerifier(cfg.StripeSecretKey)
	}

	apartmentService := services.NewApartmentService(unitRepo, listingCache, cfg.ListingCacheTTL)
	applicationService := services.NewApplicationService(applicationRepo, unitRepo)
	leaseService := services.NewLeaseAcceptanceService(applicationRepo, leaseStore, apartmentService)
	tenancyService := services.NewTenancyService(tenancyRepo, userRepo, unitRepo)
	maintenanceService := services.NewMaintenanceService(maintenanceRepo, tenancyService, application.Storage, cfg.SignedURLTTL)
	paymentService := services.NewPaymentService(paymentRepo, userRepo, tenancyService, verifier, mailer)
	sweepService := services.NewSweepService(unitRepo, paymentRepo, apartmentService)

	//----------------------------------------------------------------------
	// Controllers
	//----------------------------------------------------------------------
	healthController := controllers.NewHealthController(application.DB)
	apartmentController := controllers.NewApartmentController(apartmentService)
	applicationController := controllers.NewApplicationController(applicationService, leaseService)
	tenancyController := controllers.NewTenancyController(tenancyService)
	maintenanceController := controllers.NewMaintenanceController(maintenanceService, cfg.MaxImageBytes)
	paymentController := controllers.NewPaymentController(paymentService)

	//----------------------------------------------------------------------
	// Router & Endpoints
	//----------------------------------------------------------------------
	router := mux.NewRouter()

	router.HandleFunc(routes.Health, healthController.HealthCheckHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.Apartments, apartmentController.ListHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.Apartment, apartmentController.GetHandler).Methods(http.MethodGet)

	secured := router.NewRoute().Subrouter()
	secured.Use(middleware.AuthMiddleware(cfg.RSAPublicKey))

	secured.HandleFunc(routes.ApartmentApplications, applicationController.SubmitHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.Applications, applicationController.ListMineHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.Application, applicationController.WithdrawHandler).Methods(http.MethodDelete)
	secured.HandleFunc(routes.ApplicationAccept, applicationController.AcceptHandler).Methods(http.MethodPost)

	secured.HandleFunc(routes.Tenancies, tenancyController.ListMineHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.Tenancy, tenancyController.DetailsHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.Tenancy, tenancyController.UpdateHandler).Methods(http.MethodPatch)

	secured.HandleFunc(routes.TenancyMaintenance, maintenanceController.SubmitHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.TenancyMaintenance, maintenanceController.ListHandler).Methods(http.MethodGet)

	secured.HandleFunc(routes.TenancyPayments, paymentController.RecordHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.TenancyPayments, paymentController.ListHandler).Methods(http.MethodGet)

	//----------------------------------------------------------------------
	// Periodic sweeps via cron
	//----------------------------------------------------------------------
	c := cron.New()
	if _, err := c.AddFunc("@every 10m", func() {
		if e := sweepService.ReconcileOccupancy(context.Background()); e != nil {
			utils.Logger.WithError(e).Error("Scheduled occupancy reconcile failed")
		}
	}); err != nil {
		utils.Logger.WithError(err).Fatal("Failed to schedule occupancy reconcile job")
	}
	if _, err := c.AddFunc("5 0 * * *", func() {
		if e := sweepService.MarkOverdue(context.Background()); e != nil {
			utils.Logger.WithError(e).Error("Scheduled overdue sweep failed")
		}
	}); err != nil {
		utils.Logger.WithError(err).Fatal("Failed to schedule overdue sweep job")
	}
	c.Start()
	defer c.Stop()

	allowedOrigins := []string{cfg.AppUrl}
	if !cfg.LDFlag_CORSHighSecurity {
		allowedOrigins = append(allowedOrigins, utils.CORSLowSecurityAllowedOriginLocalhost)
	}

	co := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	utils.Logger.Infof("Starting %s on port: %s", cfg.AppName, cfg.AppPort)
	if err := http.ListenAndServe(":"+cfg.AppPort, co.Handler(router)); err != nil {
		utils.Logger.Fatal("Failed to start server:", err)
	}
}
