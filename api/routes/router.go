package routes

import (
	"net/http"
	"time"

	"darshan/internal/booking"
	"darshan/internal/drafts"
	"darshan/internal/guestauth"
	"darshan/internal/places"
	"darshan/internal/pricing"
	"darshan/internal/shared/config"
	"darshan/internal/shared/database"
	"darshan/internal/shared/upstream"
	"darshan/pkg/cache"
	"darshan/pkg/ratelimit"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Router holds all route dependencies
type Router struct {
	config      *config.Config
	db          *database.DB
	rateLimiter *ratelimit.RateLimiter
	notifier    booking.Notifier

	// Built during SetupRoutes; later groups depend on earlier services
	cacheService   cache.Service
	guestService   guestauth.Service
	bookingClient  *upstream.Client
	placeService   places.Service
	pricingService pricing.Service
	draftService   drafts.Service
}

// NewRouter creates a new router instance. notifier may be nil.
func NewRouter(cfg *config.Config, db *database.DB, rateLimiter *ratelimit.RateLimiter, notifier booking.Notifier) *Router {
	return &Router{
		config:      cfg,
		db:          db,
		rateLimiter: rateLimiter,
		notifier:    notifier,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	r.setupHealthRoutes(engine)

	if r.db.Redis != nil {
		r.cacheService = cache.NewService(r.db.GetRedisClient())
	}
	r.setupUpstreamClients()

	api := engine.Group(r.config.GetAPIBasePath())
	{
		r.setupPlaceRoutes(api)
		r.setupPricingRoutes(api)
		r.setupDraftRoutes(api)
		r.setupAuthRoutes(api)
		r.setupBookingRoutes(api)
	}

	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

// setupUpstreamClients wires the outbound clients. The guest-auth service
// must exist before the booking client so its invalidation hook can be
// attached; an upstream 401/403 then tears down the owning session.
func (r *Router) setupUpstreamClients() {
	guestClient := upstream.New(upstream.Config{
		Target:  "guest-auth",
		BaseURL: r.config.Upstream.BaseURL,
		Timeout: r.config.Upstream.Timeout,
	})

	guestAdapter := guestauth.NewAdapter(guestClient)
	sessionStore := guestauth.NewSessionStore(r.cacheService, r.config.Redis.SessionTTL)
	r.guestService = guestauth.NewService(guestAdapter, sessionStore, r.rateLimiter, r.config)

	r.bookingClient = upstream.New(upstream.Config{
		Target:  "booking-api",
		BaseURL: r.config.Upstream.BaseURL,
		Timeout: r.config.Upstream.Timeout,
	}, upstream.WithAuthFailureHook(r.guestService.InvalidationHook()))
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "darshan-bff",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "darshan-bff",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})

	engine.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "operational",
			"api_version": r.config.APIVersion,
			"timestamp":   time.Now(),
		})
	})
}

// setupPlaceRoutes configures place content routes
func (r *Router) setupPlaceRoutes(rg *gin.RouterGroup) {
	placeAdapter := places.NewAdapter(r.config.Content.GraphQLURL, r.config.Content.Timeout, r.bookingClient)
	r.placeService = places.NewService(placeAdapter, r.cacheService, r.config.Redis.CacheTTL)
	placeController := places.NewController(r.placeService)

	places.SetupPlaceRoutes(rg, placeController)
}

// setupPricingRoutes configures pricing routes
func (r *Router) setupPricingRoutes(rg *gin.RouterGroup) {
	pricingAdapter := pricing.NewAdapter(r.bookingClient)
	r.pricingService = pricing.NewService(pricingAdapter, r.config.Booking.DefaultChargesID)
	pricingController := pricing.NewController(r.pricingService)

	pricing.SetupPricingRoutes(rg, pricingController)
}

// setupDraftRoutes configures draft routes
func (r *Router) setupDraftRoutes(rg *gin.RouterGroup) {
	draftRepo := drafts.NewRepository(r.cacheService, r.config.Redis.DraftTTL)
	r.draftService = drafts.NewService(draftRepo, r.placeService, r.pricingService)
	draftController := drafts.NewController(r.draftService)

	drafts.SetupDraftRoutes(rg, draftController)
}

// setupAuthRoutes configures guest authentication routes
func (r *Router) setupAuthRoutes(rg *gin.RouterGroup) {
	authController := guestauth.NewController(r.guestService)

	guestauth.SetupAuthRoutes(rg, authController, r.config)
}

// setupBookingRoutes configures booking confirmation and payment routes
func (r *Router) setupBookingRoutes(rg *gin.RouterGroup) {
	bookingAdapter := booking.NewAdapter(r.bookingClient)
	bookingRepo := booking.NewRepository(r.db.GetPostgreSQL())
	handoffStore := booking.NewHandoffStore(r.cacheService, r.config.Redis.HandoffTTL)
	bookingService := booking.NewService(bookingAdapter, bookingRepo, handoffStore,
		r.draftService, r.pricingService, r.guestService, r.notifier, r.config)
	bookingController := booking.NewController(bookingService)

	booking.SetupBookingRoutes(rg, bookingController, r.config)
}
