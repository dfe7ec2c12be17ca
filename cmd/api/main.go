package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/homepro/homepro-api/internal/config"
	"github.com/homepro/homepro-api/internal/domain/auth"
	"github.com/homepro/homepro-api/internal/domain/availability"
	"github.com/homepro/homepro-api/internal/domain/booking"
	"github.com/homepro/homepro-api/internal/domain/catalog"
	"github.com/homepro/homepro-api/internal/domain/dispute"
	"github.com/homepro/homepro-api/internal/domain/notification"
	"github.com/homepro/homepro-api/internal/domain/payment"
	"github.com/homepro/homepro-api/internal/domain/provider"
	"github.com/homepro/homepro-api/internal/domain/review"
	"github.com/homepro/homepro-api/internal/domain/subscription"
	"github.com/homepro/homepro-api/internal/middleware"
	"github.com/homepro/homepro-api/internal/pkg/database"
	"github.com/homepro/homepro-api/internal/pkg/imaging"
	"github.com/homepro/homepro-api/internal/pkg/jwt"
	pkgresponse "github.com/homepro/homepro-api/internal/pkg/response"
	"github.com/homepro/homepro-api/internal/pkg/storage"
)

func main() {
	cfg := config.Load()
	setupLogger(cfg)

	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Msg("Starting HomePro API")

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer db.Close()

	redis, err := database.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer database.CloseRedis(redis)

	jwtService := jwt.NewService(cfg.JWTSecret, cfg.JWTAccessTTL, cfg.JWTRefreshTTL)

	var store storage.Storage
	if cfg.StorageAccountID != "" {
		r2, err := storage.NewR2Storage(storage.R2Config{
			AccountID:       cfg.StorageAccountID,
			AccessKeyID:     cfg.StorageAccessKeyID,
			AccessKeySecret: cfg.StorageAccessKeySecret,
			BucketName:      cfg.StorageBucketName,
			PublicURL:       cfg.StoragePublicURL,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize R2 storage")
		}
		store = r2
	} else {
		local, err := storage.NewLocalStorage("./uploads", "http://localhost:"+cfg.Port+"/uploads")
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize local storage")
		}
		store = local
		log.Warn().Msg("R2 not configured, using local storage")
	}

	imageProcessor := imaging.NewProcessor(imaging.DefaultConfig())

	// ---------- Repositories ----------
	authRepo := auth.NewRepository(db)
	providerRepo := provider.NewRepository(db)
	catalogRepo := catalog.NewRepository(db)
	bookingRepo := booking.NewRepository(db)
	paymentRepo := payment.NewRepository(db)
	disputeRepo := dispute.NewRepository(db)
	reviewRepo := review.NewRepository(db)
	availabilityRepo := availability.NewRepository(db)
	subscriptionRepo := subscription.NewRepository(db)

	// ---------- Realtime ----------
	hub := notification.NewHub()
	go hub.Run()

	changePublisher := booking.NewRedisPublisher(redis)
	changeSource := notification.NewRedisSource(redis)

	// ---------- Services ----------
	// provider and subscription reference each other (zero-commission
	// lookups one way, featured flag updates the other), so the feature
	// sink is bound after both exist. Same for payment and dispute.
	featureSink := &providerFeatureSink{}
	subscriptionService := subscription.NewService(subscriptionRepo, featureSink)

	providerService := provider.NewService(providerRepo, authRepo, subscriptionService, store, imageProcessor, cfg.CommissionRate)
	featureSink.providers = providerService

	catalogService := catalog.NewCatalog(catalogRepo)

	disputeChecker := &lateBoundDisputeChecker{}
	paymentService := payment.NewService(paymentRepo, &bookingStatusAdapter{repo: bookingRepo}, disputeChecker)

	bookingService := booking.NewService(
		bookingRepo,
		&bookingCatalogAdapter{catalog: catalogService},
		providerService,
		paymentService,
		changePublisher,
		providerService,
	)

	disputeService := dispute.NewService(disputeRepo, &disputeBookingAdapter{repo: bookingRepo, bookings: bookingService})
	disputeChecker.disputes = disputeService

	reviewService := review.NewService(reviewRepo, &reviewBookingAdapter{repo: bookingRepo}, providerService)
	availabilityService := availability.NewService(availabilityRepo)
	authService := auth.NewService(authRepo, &providerLookupAdapter{repo: providerRepo}, jwtService, redis)

	// ---------- Handlers ----------
	authHandler := auth.NewHandler(authService)
	providerHandler := provider.NewHandler(providerService)
	catalogHandler := catalog.NewHandler(catalogService)
	bookingHandler := booking.NewHandler(bookingService)
	paymentHandler := payment.NewHandler(paymentService)
	disputeHandler := dispute.NewHandler(disputeService)
	reviewHandler := review.NewHandler(reviewService)
	availabilityHandler := availability.NewHandler(availabilityService)
	subscriptionHandler := subscription.NewHandler(subscriptionService)
	notificationHandler := notification.NewHandler(hub, changeSource, cfg.AllowedOrigins)

	authMiddleware := middleware.Auth(jwtService)

	// Expire lapsed subscriptions in the background so featured and
	// zero-commission flags drop without waiting for a request.
	expiryDone := make(chan struct{})
	go func() {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				n, err := subscriptionService.ExpireDue(ctx)
				cancel()
				if err != nil {
					log.Error().Err(err).Msg("Subscription expiry sweep failed")
				} else if n > 0 {
					log.Info().Int("expired", n).Msg("Expired subscriptions")
				}
			case <-expiryDone:
				return
			}
		}
	}()

	// ---------- Router ----------
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.CORSHandler(cfg.AllowedOrigins))

	// WebSocket endpoint (before Compress)
	r.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("token")
		if token != "" {
			r.Header.Set("Authorization", "Bearer "+token)
		}
		authMiddleware(http.HandlerFunc(notificationHandler.WebSocket)).ServeHTTP(w, r)
	})

	// Compress for everything else
	r.Group(func(r chi.Router) {
		r.Use(chimw.Compress(5))
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		pkgresponse.OK(w, map[string]string{
			"status":  "ok",
			"version": "1.0.0",
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/auth", authHandler.Routes(authMiddleware))
		r.Mount("/providers", providerHandler.Routes(authMiddleware))
		r.Mount("/catalog", catalogHandler.Routes(authMiddleware))
		r.Mount("/bookings", bookingHandler.Routes(authMiddleware))
		r.Mount("/payments", paymentHandler.Routes(authMiddleware))
		r.Mount("/disputes", disputeHandler.Routes(authMiddleware))
		r.Mount("/reviews", reviewHandler.Routes(authMiddleware))
		r.Mount("/availability", availabilityHandler.Routes(authMiddleware))
		r.Mount("/subscriptions", subscriptionHandler.Routes(authMiddleware))
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")
	close(expiryDone)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}

func setupLogger(cfg *config.Config) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.IsDevelopment() {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: "15:04:05",
		})
	}
}

// Adapter implementations to bridge interface mismatches

// bookingCatalogAdapter adapts catalog.Catalog to booking.Catalog
type bookingCatalogAdapter struct {
	catalog *catalog.Catalog
}

func (a *bookingCatalogAdapter) GetService(ctx context.Context, id uuid.UUID) (*booking.CatalogService, error) {
	svc, err := a.catalog.GetService(ctx, id)
	if err != nil {
		if err == catalog.ErrServiceNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &booking.CatalogService{
		ID:         svc.ID,
		ProviderID: svc.ProviderID,
		Price:      svc.Price,
		IsActive:   svc.IsActive,
	}, nil
}

// bookingStatusAdapter adapts booking.Repository to payment.BookingStatusSource
type bookingStatusAdapter struct {
	repo *booking.Repository
}

func (a *bookingStatusAdapter) BookingStatus(ctx context.Context, bookingID uuid.UUID) (booking.Status, error) {
	b, err := a.repo.GetByID(ctx, bookingID)
	if err != nil {
		return "", err
	}
	if b == nil {
		return "", booking.ErrNotFound
	}
	return b.Status, nil
}

// disputeBookingAdapter adapts the booking domain to dispute.BookingGateway.
// Reads go straight to the repository; the disputed transition goes through
// the service so the change event is published.
type disputeBookingAdapter struct {
	repo     *booking.Repository
	bookings *booking.Service
}

func (a *disputeBookingAdapter) GetBooking(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	return a.repo.GetByID(ctx, id)
}

func (a *disputeBookingAdapter) MarkDisputed(ctx context.Context, id uuid.UUID) error {
	_, err := a.bookings.MarkDisputed(ctx, id)
	return err
}

// reviewBookingAdapter adapts booking.Repository to review.BookingSource
type reviewBookingAdapter struct {
	repo *booking.Repository
}

func (a *reviewBookingAdapter) GetBooking(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	return a.repo.GetByID(ctx, id)
}

// providerLookupAdapter adapts provider.Repository to auth.ProviderLookup
type providerLookupAdapter struct {
	repo *provider.Repository
}

func (a *providerLookupAdapter) ProviderIDForUser(ctx context.Context, userID uuid.UUID) (uuid.NullUUID, error) {
	p, err := a.repo.GetByUserID(ctx, userID)
	if err != nil || p == nil {
		return uuid.NullUUID{}, err
	}
	return uuid.NullUUID{UUID: p.ID, Valid: true}, nil
}

// providerFeatureSink defers the subscription -> provider dependency
// until the provider service exists.
type providerFeatureSink struct {
	providers *provider.Service
}

func (s *providerFeatureSink) SetFeatured(ctx context.Context, providerID uuid.UUID, featured bool) error {
	if s.providers == nil {
		return nil
	}
	return s.providers.SetFeatured(ctx, providerID, featured)
}

// lateBoundDisputeChecker defers the payment -> dispute dependency
// until the dispute service exists.
type lateBoundDisputeChecker struct {
	disputes *dispute.Service
}

func (c *lateBoundDisputeChecker) HasOpenDispute(ctx context.Context, bookingID uuid.UUID) (bool, error) {
	if c.disputes == nil {
		return false, nil
	}
	return c.disputes.HasOpenDispute(ctx, bookingID)
}
