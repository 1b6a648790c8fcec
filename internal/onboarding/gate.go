package onboarding

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"onboard-backend/internal/profiles"
	"onboard-backend/internal/shared/server/middleware"
)

// PathSignIn is where anonymous visitors of gated pages are sent.
const PathSignIn = "/sign-in"

// Gate protects page routes. Anonymous visitors go to sign-in; signed-in
// users asking for the dashboard before finishing onboarding go back to the
// first step.
func Gate(resolver *Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.UserIDFromContext(c)
		if userID == "" {
			c.Redirect(http.StatusSeeOther, PathSignIn)
			c.Abort()
			return
		}
		if c.FullPath() == profiles.PathDashboard && !resolver.IsComplete(c.Request.Context(), userID) {
			c.Redirect(http.StatusSeeOther, profiles.PathStepRoleName)
			c.Abort()
			return
		}
		c.Next()
	}
}
