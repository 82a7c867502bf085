package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/cardfolio/cardfolio-backend/internal/cards/domain"
	"github.com/cardfolio/cardfolio-backend/internal/cards/repository"
)

// PublicHandler serves the unauthenticated share-link viewer.
type PublicHandler struct {
	profiles *repository.ProfileRepository
	cache    *repository.ViewCache // nil when Redis is disabled
	limiter  *rate.Limiter
	log      *zap.Logger
}

func (h *PublicHandler) view(c *gin.Context) {
	if h.limiter != nil && !h.limiter.Allow() {
		c.JSON(http.StatusTooManyRequests, gin.H{"ok": false, "error": "rate limit exceeded"})
		return
	}

	slug := c.Param("slug")
	ctx := c.Request.Context()

	if h.cache != nil {
		card, err := h.cache.Get(ctx, slug)
		if err != nil {
			h.log.Warn("view cache get", zap.Error(err))
		}
		if card != nil {
			c.JSON(http.StatusOK, gin.H{"ok": true, "card": card})
			return
		}
	}

	card, err := h.profiles.GetPublicBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "not found"})
			return
		}
		h.log.Error("public view", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "internal error"})
		return
	}

	if h.cache != nil {
		if err := h.cache.Set(ctx, slug, card); err != nil {
			h.log.Warn("view cache set", zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "card": card})
}
