package main

import (
	"context"
	"log"
	"time"

	authdomain "horizon/internal/domain/auth"
	"horizon/internal/domain/identity"
	"horizon/internal/domain/linking"
	"horizon/internal/domain/notification"
	"horizon/internal/infrastructure/aggregator"
	"horizon/internal/infrastructure/crypto"
	"horizon/internal/infrastructure/firebase"
	"horizon/internal/infrastructure/payments"
	"horizon/internal/infrastructure/postgres"
	httphandlers "horizon/internal/interfaces/http"
	"horizon/internal/shared/cache"
	"horizon/internal/shared/config"
)

// Dependencies holds all initialized application components.
type Dependencies struct {
	DB *postgres.DB

	// Handlers
	AuthHandler    *httphandlers.AuthHandler
	BankHandler    *httphandlers.BankHandler
	LinkingHandler *httphandlers.LinkingHandler
	DeviceHandler  *httphandlers.DeviceHandler
	HealthHandler  *httphandlers.HealthHandler

	// Services
	AuthService     *authdomain.Service
	IdentityService *identity.Service
	LinkingService  *linking.Service

	// Shared
	RenderCache *cache.Memory
}

// NewDependencies initializes all application dependencies.
func NewDependencies(ctx context.Context, cfg *config.Config) (*Dependencies, error) {
	// Connect to database
	db, err := postgres.New(cfg.Database.ConnectionString())
	if err != nil {
		return nil, err
	}
	log.Println("Connected to database")

	// Initialize encryptor
	encryptor, err := crypto.NewEncryptor(cfg.Encryption.Key)
	if err != nil {
		return nil, err
	}

	// Initialize repositories
	identityRepo := postgres.NewIdentityRepository(db)
	sessionRepo := postgres.NewSessionRepository(db)
	userRepo := postgres.NewUserRepository(db, encryptor)
	bankRepo := postgres.NewBankRepository(db, encryptor)
	deviceRepo := postgres.NewDeviceRepository(db)

	// Initialize external clients
	aggregatorClient := aggregator.NewClient(cfg.Aggregator.BaseURL, cfg.Aggregator.ClientID, cfg.Aggregator.Secret)
	paymentsClient := payments.NewClient(cfg.Payments.BaseURL, cfg.Payments.Key, cfg.Payments.Secret)

	// Initialize domain services
	identityService := identity.NewService(identityRepo, sessionRepo, cfg.Session.MaxAge)
	authService := authdomain.NewService(identityService, paymentsClient, userRepo)

	notificationService := notification.NewService(deviceRepo, nil)
	if cfg.Firebase.CredentialsFile != "" {
		fcmClient, err := firebase.NewClient(ctx, cfg.Firebase.CredentialsFile, func(ctx context.Context, token string) error {
			return notificationService.DeactivateToken(ctx, token)
		})
		if err != nil {
			log.Printf("Warning: Failed to initialize FCM client, push disabled: %v", err)
		} else {
			notificationService = notification.NewService(deviceRepo, fcmClient)
		}
	}

	renderCache := cache.NewMemory(time.Minute, 256)

	linkingService := linking.NewService(
		aggregatorClient,
		paymentsClient,
		bankRepo,
		encryptor,
		notificationService,
		renderCache,
	)

	// Initialize handlers
	authHandler := httphandlers.NewAuthHandler(authService, cfg.Session.CookieName, int(cfg.Session.MaxAge.Seconds()))
	bankHandler := httphandlers.NewBankHandler(bankRepo, renderCache)
	linkingHandler := httphandlers.NewLinkingHandler(linkingService)
	deviceHandler := httphandlers.NewDeviceHandler(notificationService)
	healthHandler := httphandlers.NewHealthHandler(db)

	return &Dependencies{
		DB:              db,
		AuthHandler:     authHandler,
		BankHandler:     bankHandler,
		LinkingHandler:  linkingHandler,
		DeviceHandler:   deviceHandler,
		HealthHandler:   healthHandler,
		AuthService:     authService,
		IdentityService: identityService,
		LinkingService:  linkingService,
		RenderCache:     renderCache,
	}, nil
}

// Close releases all resources held by dependencies.
func (d *Dependencies) Close() {
	if d.DB != nil {
		d.DB.Close()
	}
}
