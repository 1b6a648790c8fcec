package profiles

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"

	"onboard-backend/internal/shared/metrics"
	"onboard-backend/internal/shared/server/middleware"
	"onboard-backend/internal/shared/server/respond"
)

// Onboarding step destinations. Each step redirects to the next unless the
// caller asked to return to the dashboard (edit mode).
const (
	PathDashboard    = "/dashboard"
	PathStepRoleName = "/onboarding/rolename"
	PathStepProfile  = "/onboarding/profile"
	PathStepWorkType = "/onboarding/work-type"
	PathStepResume   = "/onboarding/resume"
)

type Handler struct {
	Svc *Service
	Env string
}

func NewHandler(svc *Service, env string) *Handler {
	return &Handler{Svc: svc, Env: env}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/onboarding/rolename", h.getRoleName)
	rg.POST("/onboarding/rolename", h.saveRoleName)
	rg.GET("/onboarding/profile", h.getProfile)
	rg.POST("/onboarding/profile", h.saveProfile)
	rg.GET("/onboarding/work-type", h.getWorkType)
	rg.POST("/onboarding/work-type", h.saveWorkType)
	rg.POST("/onboarding/complete", h.completeOnboarding)
	rg.POST("/dashboard/guide-seen", h.markGuideSeen)
	rg.POST("/debug/reset-guide", h.resetGuide)
}

func (h *Handler) saveRoleName(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "Unauthorized", nil)
		return
	}
	email := middleware.UserEmailFromContext(c)

	err := h.Svc.SaveRoleName(c.Request.Context(), userID, email, c.PostForm("role_name"))
	if err != nil {
		h.saveFailed(c, err)
		return
	}
	h.finish(c, PathStepProfile)
}

func (h *Handler) saveProfile(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "Unauthorized", nil)
		return
	}

	err := h.Svc.SaveProfile(c.Request.Context(), userID,
		c.PostForm("first_name"),
		c.PostForm("last_name"),
		c.PostForm("country"),
		c.PostForm("city"),
	)
	if err != nil {
		h.saveFailed(c, err)
		return
	}
	h.finish(c, PathStepWorkType)
}

func (h *Handler) saveWorkType(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "Unauthorized", nil)
		return
	}

	err := h.Svc.SaveWorkTypes(c.Request.Context(), userID, c.PostFormArray("work_types"))
	if err != nil {
		h.saveFailed(c, err)
		return
	}
	h.finish(c, PathStepResume)
}

func (h *Handler) completeOnboarding(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "Unauthorized", nil)
		return
	}

	if err := h.Svc.CompleteOnboarding(c.Request.Context(), userID); err != nil {
		h.saveFailed(c, err)
		return
	}
	// The final step always lands on the dashboard.
	metrics.IncStepSaved()
	h.invalidate(c)
	c.Redirect(http.StatusSeeOther, PathDashboard)
}

func (h *Handler) markGuideSeen(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "Unauthorized", nil)
		return
	}
	h.Svc.MarkGuideSeen(c.Request.Context(), userID)
	respond.OK(c, gin.H{"success": true})
}

func (h *Handler) resetGuide(c *gin.Context) {
	if h.Env != "dev" && h.Env != "local" {
		respond.Error(c, http.StatusForbidden, "forbidden", "only available in development", nil)
		return
	}
	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "Unauthorized", nil)
		return
	}
	if err := h.Svc.ResetGuide(c.Request.Context(), userID); err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to reset guide status", nil)
		return
	}
	respond.OK(c, gin.H{"success": true})
}

func (h *Handler) getRoleName(c *gin.Context) {
	profile, ok := h.fetch(c)
	if !ok {
		return
	}
	respond.OK(c, gin.H{"role_name": profile.RoleName})
}

func (h *Handler) getProfile(c *gin.Context) {
	profile, ok := h.fetch(c)
	if !ok {
		return
	}
	respond.OK(c, gin.H{
		"first_name": profile.FirstName,
		"last_name":  profile.LastName,
		"country":    profile.Country,
		"city":       profile.City,
	})
}

func (h *Handler) getWorkType(c *gin.Context) {
	profile, ok := h.fetch(c)
	if !ok {
		return
	}
	respond.OK(c, gin.H{"work_types": profile.WorkTypes})
}

func (h *Handler) fetch(c *gin.Context) (UserProfile, bool) {
	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "Unauthorized", nil)
		return UserProfile{}, false
	}
	profile, err := h.Svc.GetByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.OK(c, gin.H{})
			return UserProfile{}, false
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load profile", nil)
		return UserProfile{}, false
	}
	return profile, true
}

// finish issues the post-save redirect: the next step in sequence, or the
// dashboard when the form carried redirect_destination=dashboard.
func (h *Handler) finish(c *gin.Context, next string) {
	metrics.IncStepSaved()
	h.invalidate(c)
	if c.PostForm("redirect_destination") == "dashboard" {
		c.Redirect(http.StatusSeeOther, PathDashboard)
		return
	}
	c.Redirect(http.StatusSeeOther, next)
}

// invalidate signals the serving layer that cached renderings of the
// onboarding and dashboard pages are stale.
func (h *Handler) invalidate(c *gin.Context) {
	c.Header("X-Cache-Invalidate", "/onboarding, /dashboard")
	c.Header("Cache-Control", "no-store")
}

// saveFailed maps a save error to the user-facing form response: validation
// problems and store failures both render in the form, not as HTTP errors.
func (h *Handler) saveFailed(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrRoleNameRequired), errors.Is(err, ErrFirstNameRequired), errors.Is(err, ErrLastNameRequired):
		respond.OK(c, gin.H{"error": err.Error()})
	default:
		respond.OK(c, gin.H{"error": storeErrorMessage(err)})
	}
}

func storeErrorMessage(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return fmt.Sprintf("Failed to save: %s (%s)", pgErr.Message, pgErr.Code)
	}
	return fmt.Sprintf("Failed to save: %v", err)
}
