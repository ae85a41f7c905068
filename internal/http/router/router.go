package router

import (
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"

	"github.com/ignatzorin/gig-marketplace/internal/config"
	"github.com/ignatzorin/gig-marketplace/internal/domain/valueobject"
	"github.com/ignatzorin/gig-marketplace/internal/http/middleware"
	"github.com/ignatzorin/gig-marketplace/internal/interface/http/handler"
	"github.com/ignatzorin/gig-marketplace/internal/interface/http/response"
)

// Deps собирает всё, что нужно роутеру.
type Deps struct {
	AuthHandler   *handler.AuthHandler
	GigHandler    *handler.GigHandler
	BidHandler    *handler.BidHandler
	HealthHandler *handler.HealthHandler

	Authenticator middleware.Authenticator

	// Счётчики лимитов для входа и для откликов хранятся раздельно.
	AuthLimitStore limiter.Store
	BidLimitStore  limiter.Store
}

func SetupRouter(cfg *config.Config, deps Deps) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.RequestLogger())
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", deps.HealthHandler.Health)

	api := r.Group("/api")
	requireAuth := middleware.AuthMiddleware(deps.Authenticator)

	authGroup := api.Group("/auth")
	{
		authRateLimit := middleware.RateLimitMiddleware(deps.AuthLimitStore, cfg.RateLimitLimit, cfg.RateLimitPeriod)
		authGroup.POST("/register", authRateLimit, deps.AuthHandler.Register)
		authGroup.POST("/login", authRateLimit, deps.AuthHandler.Login)
		authGroup.POST("/logout", deps.AuthHandler.Logout)
		authGroup.GET("/me", requireAuth, deps.AuthHandler.Me)
	}

	gigs := api.Group("/gigs")
	{
		gigs.GET("", deps.GigHandler.ListGigs)
		gigs.POST("", requireAuth, middleware.RequireRoles(valueobject.RoleClient), deps.GigHandler.CreateGig)
		gigs.GET("/my-gigs", requireAuth, deps.GigHandler.ListMyGigs)
		gigs.GET("/:id", middleware.UUIDValidator("id"), deps.GigHandler.GetGig)
	}

	bids := api.Group("/bids")
	bids.Use(requireAuth)
	{
		bidRateLimit := middleware.RateLimitMiddleware(deps.BidLimitStore, cfg.RateLimitLimit, cfg.RateLimitPeriod)
		bids.POST("", middleware.RequireRoles(valueobject.RoleFreelancer), bidRateLimit, deps.BidHandler.SubmitBid)
		bids.GET("/my-bids/all", deps.BidHandler.ListMyBids)
		bids.GET("/:gigId", middleware.UUIDValidator("gigId"), deps.BidHandler.ListBidsForGig)
		bids.PATCH("/:bidId/hire", middleware.UUIDValidator("bidId"), deps.BidHandler.Hire)
	}

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c, "маршрут не найден")
	})

	return r
}
