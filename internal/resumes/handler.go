package resumes

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"onboard-backend/internal/shared/server/middleware"
	"onboard-backend/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/resume/parse", h.parse)
	rg.GET("/resume", h.get)
}

func (h *Handler) parse(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Unauthorized"})
		return
	}

	var body struct {
		File string `json:"file"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body"})
		return
	}

	result, err := h.Svc.Parse(c.Request.Context(), userID, body.File)
	if err != nil {
		c.JSON(parseStatus(err), gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": result})
}

func (h *Handler) get(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "Unauthorized", nil)
		return
	}
	result, err := h.Svc.Get(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.OK(c, gin.H{})
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load resume", nil)
		return
	}
	respond.OK(c, result)
}

// parseStatus maps pipeline failures to response codes. Anything past the
// upload checks is a server-side failure.
func parseStatus(err error) int {
	switch {
	case errors.Is(err, ErrNoFile), errors.Is(err, ErrInvalidEncoding), errors.Is(err, ErrEmptyFile):
		return http.StatusBadRequest
	case errors.Is(err, ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}
