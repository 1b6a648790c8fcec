package onboarding

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"onboard-backend/internal/profiles"
)

func newGatedRouter(t *testing.T) (*gin.Engine, *profiles.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	profileSvc := profiles.NewService(profiles.NewMemoryRepo())
	resolver := NewResolver(profileSvc)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		if c.GetHeader("X-Test-User") != "" {
			c.Set("userId", c.GetHeader("X-Test-User"))
		}
		c.Next()
	})
	r.Use(Gate(resolver))
	r.GET(profiles.PathDashboard, func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET(profiles.PathStepRoleName, func(c *gin.Context) { c.Status(http.StatusOK) })
	return r, profileSvc
}

func get(r *gin.Engine, path, user string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if user != "" {
		req.Header.Set("X-Test-User", user)
	}
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestGateRedirectsAnonymousToSignIn(t *testing.T) {
	r, _ := newGatedRouter(t)

	resp := get(r, profiles.PathDashboard, "")
	if resp.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", resp.Code)
	}
	if loc := resp.Header().Get("Location"); loc != PathSignIn {
		t.Fatalf("expected redirect to %s, got %s", PathSignIn, loc)
	}
}

func TestGateRedirectsIncompleteUserToFirstStep(t *testing.T) {
	r, profileSvc := newGatedRouter(t)
	if err := profileSvc.SaveRoleName(context.Background(), "user-1", "u@example.com", "Engineer"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	resp := get(r, profiles.PathDashboard, "user-1")
	if resp.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", resp.Code)
	}
	if loc := resp.Header().Get("Location"); loc != profiles.PathStepRoleName {
		t.Fatalf("expected redirect to %s, got %s", profiles.PathStepRoleName, loc)
	}
}

func TestGateRedirectsUnknownUserToFirstStep(t *testing.T) {
	r, _ := newGatedRouter(t)

	// No profile row at all still counts as incomplete.
	resp := get(r, profiles.PathDashboard, "user-unknown")
	if resp.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", resp.Code)
	}
	if loc := resp.Header().Get("Location"); loc != profiles.PathStepRoleName {
		t.Fatalf("expected redirect to %s, got %s", profiles.PathStepRoleName, loc)
	}
}

func TestGateAllowsCompletedUser(t *testing.T) {
	r, profileSvc := newGatedRouter(t)
	ctx := context.Background()
	if err := profileSvc.SaveRoleName(ctx, "user-1", "u@example.com", "Engineer"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := profileSvc.CompleteOnboarding(ctx, "user-1"); err != nil {
		t.Fatalf("complete: %v", err)
	}

	resp := get(r, profiles.PathDashboard, "user-1")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
}

func TestGateAllowsStepsForIncompleteUser(t *testing.T) {
	r, profileSvc := newGatedRouter(t)
	if err := profileSvc.SaveRoleName(context.Background(), "user-1", "u@example.com", "Engineer"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	resp := get(r, profiles.PathStepRoleName, "user-1")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
}
