package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cardfolio/cardfolio-backend/internal/auth"
	"github.com/cardfolio/cardfolio-backend/internal/cards/domain"
)

func (h *Handler) createProfile(c *gin.Context) {
	var req createProfileReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	userID := auth.UserDBID(c)
	p, err := h.profiles.Create(c.Request.Context(), userID, domain.Profile{
		Prefix:     strings.TrimSpace(req.Prefix),
		FirstName:  strings.TrimSpace(req.FirstName),
		LastName:   strings.TrimSpace(req.LastName),
		Title:      req.Title,
		Company:    req.Company,
		Department: req.Department,
		Email:      strings.TrimSpace(req.Email),
		Phone:      strings.TrimSpace(req.Phone),
		Website:    req.Website,
		Address:    req.Address,
		Bio:        req.Bio,
		IsDefault:  req.IsDefault,
	})
	if err != nil {
		h.respondError(c, err, "create profile")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"ok": true, "profile": p})
}

func (h *Handler) listProfiles(c *gin.Context) {
	userID := auth.UserDBID(c)
	items, err := h.profiles.List(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, err, "list profiles")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "profiles": items})
}

func (h *Handler) getProfile(c *gin.Context) {
	userID := auth.UserDBID(c)
	p, err := h.profiles.GetByPublicID(c.Request.Context(), userID, c.Param("public_id"))
	if err != nil {
		h.respondError(c, err, "get profile")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "profile": p})
}

func (h *Handler) updateProfile(c *gin.Context) {
	var patch domain.ProfilePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	userID := auth.UserDBID(c)
	p, err := h.profiles.Update(c.Request.Context(), userID, c.Param("public_id"), patch)
	if err != nil {
		h.respondError(c, err, "update profile")
		return
	}

	h.invalidateView(c, p.Slug)
	c.JSON(http.StatusOK, gin.H{"ok": true, "profile": p})
}

func (h *Handler) deleteProfile(c *gin.Context) {
	userID := auth.UserDBID(c)
	p, err := h.profiles.SoftDelete(c.Request.Context(), userID, c.Param("public_id"))
	if err != nil {
		h.respondError(c, err, "delete profile")
		return
	}

	h.invalidateView(c, p.Slug)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// respondError maps domain errors onto the response envelope.
func (h *Handler) respondError(c *gin.Context, err error, op string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "not found"})
	case errors.Is(err, domain.ErrNameRequired), errors.Is(err, domain.ErrProfileRequired):
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
	default:
		h.log.Error(op, zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "internal error"})
	}
}

// invalidateView drops cached public views. Best effort: a failed
// invalidation only shortens to the cache TTL.
func (h *Handler) invalidateView(c *gin.Context, slugs ...string) {
	if h.cache == nil {
		return
	}
	if err := h.cache.Invalidate(c.Request.Context(), slugs...); err != nil {
		h.log.Warn("view cache invalidate", zap.Error(err))
	}
}
