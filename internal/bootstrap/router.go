package bootstrap

import (
	"database/sql"
	"time"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	httpapi "github.com/cardfolio/cardfolio-backend/internal/api/http"
	"github.com/cardfolio/cardfolio-backend/internal/api/http/middleware"
	"github.com/cardfolio/cardfolio-backend/internal/auth"
	cardshttp "github.com/cardfolio/cardfolio-backend/internal/cards/http"
	"github.com/cardfolio/cardfolio-backend/internal/cards/repository"
	"github.com/cardfolio/cardfolio-backend/internal/users"
)

type RouterDeps struct {
	ServiceName    string
	Version        string
	AllowedOrigins []string
	PublicRPS      float64
	PublicBurst    int
	DB             *pgxpool.Pool
	SQLDB          *sql.DB
	Redis          *redis.Client // nil disables the view cache
	AuthClient     *fbauth.Client
	Logger         *zap.Logger
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(ginzap.Ginzap(dep.Logger, time.RFC3339, true))
	r.Use(ginzap.RecoveryWithZap(dep.Logger, true))
	r.Use(middleware.RequestIDMiddleware())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     dep.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.DB, dep.Redis)
	healthHandler.RegisterRoutes(r)

	userRepo := users.NewRepo(dep.DB)
	profileRepo := repository.NewProfileRepository(dep.SQLDB)
	designRepo := repository.NewDesignRepository(dep.SQLDB)

	var viewCache *repository.ViewCache
	if dep.Redis != nil {
		viewCache = repository.NewViewCache(dep.Redis)
	}

	limiter := rate.NewLimiter(rate.Limit(dep.PublicRPS), dep.PublicBurst)
	cardshttp.RegisterPublic(r, profileRepo, viewCache, limiter, dep.Logger)

	api := r.Group("/api/v1")
	api.Use(auth.RequireUser(dep.AuthClient, userRepo))
	cardshttp.Register(api, profileRepo, designRepo, viewCache, dep.Logger)

	return r
}
