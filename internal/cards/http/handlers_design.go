package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cardfolio/cardfolio-backend/internal/auth"
	"github.com/cardfolio/cardfolio-backend/internal/cards/domain"
)

func (h *Handler) createDesign(c *gin.Context) {
	var req createDesignReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.ProfileID) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	userID := auth.UserDBID(c)
	d, err := h.designs.Create(c.Request.Context(), userID, strings.TrimSpace(req.ProfileID), domain.Design{
		Name:        strings.TrimSpace(req.Name),
		Template:    strings.TrimSpace(req.Template),
		ColorScheme: strings.TrimSpace(req.ColorScheme),
		Font:        strings.TrimSpace(req.Font),
		Layout:      strings.TrimSpace(req.Layout),
		LogoURL:     strings.TrimSpace(req.LogoURL),
		IsPrimary:   req.IsPrimary,
	})
	if err != nil {
		h.respondError(c, err, "create design")
		return
	}

	h.invalidateProfileView(c, userID, d.ProfilePublicID)
	c.JSON(http.StatusCreated, gin.H{"ok": true, "design": d})
}

func (h *Handler) listDesigns(c *gin.Context) {
	userID := auth.UserDBID(c)
	items, err := h.designs.List(c.Request.Context(), userID, strings.TrimSpace(c.Query("profile_id")))
	if err != nil {
		h.respondError(c, err, "list designs")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "designs": items})
}

func (h *Handler) getDesign(c *gin.Context) {
	userID := auth.UserDBID(c)
	d, err := h.designs.GetByPublicID(c.Request.Context(), userID, c.Param("public_id"))
	if err != nil {
		h.respondError(c, err, "get design")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "design": d})
}

func (h *Handler) updateDesign(c *gin.Context) {
	var patch domain.DesignPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	userID := auth.UserDBID(c)
	publicID := c.Param("public_id")

	// Re-parenting moves the design between profiles; both public views go
	// stale, so remember the current parent before the update.
	var oldProfile string
	if patch.ProfilePublicID != nil {
		if current, err := h.designs.GetByPublicID(c.Request.Context(), userID, publicID); err == nil {
			oldProfile = current.ProfilePublicID
		}
	}

	d, err := h.designs.Update(c.Request.Context(), userID, publicID, patch)
	if err != nil {
		h.respondError(c, err, "update design")
		return
	}

	h.invalidateProfileView(c, userID, d.ProfilePublicID)
	if oldProfile != "" && oldProfile != d.ProfilePublicID {
		h.invalidateProfileView(c, userID, oldProfile)
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "design": d})
}

func (h *Handler) deleteDesign(c *gin.Context) {
	userID := auth.UserDBID(c)
	d, err := h.designs.SoftDelete(c.Request.Context(), userID, c.Param("public_id"))
	if err != nil {
		h.respondError(c, err, "delete design")
		return
	}

	h.invalidateProfileView(c, userID, d.ProfilePublicID)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// invalidateProfileView resolves a profile's share slug and drops its cached
// public view.
func (h *Handler) invalidateProfileView(c *gin.Context, userID, profilePublicID string) {
	if h.cache == nil || profilePublicID == "" {
		return
	}
	slug, err := h.profiles.SlugByPublicID(c.Request.Context(), userID, profilePublicID)
	if err != nil {
		return
	}
	h.invalidateView(c, slug)
}
