package onboarding

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"onboard-backend/internal/billing"
	"onboard-backend/internal/profiles"
	"onboard-backend/internal/resumes"
	"onboard-backend/internal/shared/server/middleware"
	"onboard-backend/internal/shared/server/respond"
)

// Handler serves the dashboard payload: profile, resume, subscription, and
// the progress score in one response.
type Handler struct {
	Profiles *profiles.Service
	Resumes  *resumes.Service
	Billing  *billing.Service
}

func NewHandler(profilesSvc *profiles.Service, resumesSvc *resumes.Service, billingSvc *billing.Service) *Handler {
	return &Handler{Profiles: profilesSvc, Resumes: resumesSvc, Billing: billingSvc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/dashboard", h.dashboard)
	rg.GET("/onboarding/progress", h.progress)
}

func (h *Handler) dashboard(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "Unauthorized", nil)
		return
	}
	ctx := c.Request.Context()

	profile, err := h.Profiles.GetByID(ctx, userID)
	if err != nil && !errors.Is(err, profiles.ErrNotFound) {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load profile", nil)
		return
	}

	resume, err := h.Resumes.Get(ctx, userID)
	if err != nil && !errors.Is(err, resumes.ErrNotFound) {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load resume", nil)
		return
	}

	sub, err := h.Billing.Status(ctx, userID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load subscription", nil)
		return
	}

	score := Compute(profile, resume)
	respond.OK(c, gin.H{
		"profile":      profile,
		"resume":       resume,
		"subscription": sub,
		"progress": gin.H{
			"score": score,
			"band":  Band(score.Total),
		},
	})
}

func (h *Handler) progress(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "Unauthorized", nil)
		return
	}
	ctx := c.Request.Context()

	profile, err := h.Profiles.GetByID(ctx, userID)
	if err != nil && !errors.Is(err, profiles.ErrNotFound) {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load profile", nil)
		return
	}
	resume, err := h.Resumes.Get(ctx, userID)
	if err != nil && !errors.Is(err, resumes.ErrNotFound) {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load resume", nil)
		return
	}

	score := Compute(profile, resume)
	respond.OK(c, gin.H{"score": score, "band": Band(score.Total)})
}
