package http

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/cardfolio/cardfolio-backend/internal/cards/repository"
)

// Handler serves the authenticated profile/design CRUD routes.
type Handler struct {
	profiles *repository.ProfileRepository
	designs  *repository.DesignRepository
	cache    *repository.ViewCache // nil when Redis is disabled
	log      *zap.Logger
}

// Register attaches the card CRUD routes to an authenticated group.
func Register(rg *gin.RouterGroup, profiles *repository.ProfileRepository, designs *repository.DesignRepository, cache *repository.ViewCache, log *zap.Logger) {
	h := &Handler{profiles: profiles, designs: designs, cache: cache, log: log}

	rg.POST("/profiles", h.createProfile)
	rg.GET("/profiles", h.listProfiles)
	rg.GET("/profiles/:public_id", h.getProfile)
	rg.PATCH("/profiles/:public_id", h.updateProfile)
	rg.DELETE("/profiles/:public_id", h.deleteProfile)

	rg.POST("/designs", h.createDesign)
	rg.GET("/designs", h.listDesigns)
	rg.GET("/designs/:public_id", h.getDesign)
	rg.PATCH("/designs/:public_id", h.updateDesign)
	rg.DELETE("/designs/:public_id", h.deleteDesign)
}

// RegisterPublic attaches the unauthenticated share-link viewer.
func RegisterPublic(r gin.IRouter, profiles *repository.ProfileRepository, cache *repository.ViewCache, limiter *rate.Limiter, log *zap.Logger) {
	ph := &PublicHandler{profiles: profiles, cache: cache, limiter: limiter, log: log}
	r.GET("/v/:slug", ph.view)
}
