package billing

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/webhook"

	"onboard-backend/internal/shared/metrics"
	"onboard-backend/internal/shared/server/middleware"
	"onboard-backend/internal/shared/server/respond"
	"onboard-backend/internal/shared/telemetry"
)

const maxWebhookBody = int64(65536)

type Handler struct {
	Svc           *Service
	WebhookSecret string
	Env           string
}

func NewHandler(svc *Service, webhookSecret, env string) *Handler {
	return &Handler{Svc: svc, WebhookSecret: webhookSecret, Env: env}
}

// RegisterRoutes mounts the authenticated billing endpoints.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/billing/checkout", h.checkout)
	rg.POST("/billing/portal", h.portal)
	rg.GET("/subscription", h.status)
	rg.POST("/billing/reset", h.reset)
}

// RegisterWebhook mounts the processor callback. It authenticates with the
// signature header, not a bearer token, so it lives outside the auth group.
func (h *Handler) RegisterWebhook(rg *gin.RouterGroup) {
	rg.POST("/billing/webhook", h.handleWebhook)
}

func (h *Handler) checkout(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "Unauthorized", nil)
		return
	}
	url, err := h.Svc.CheckoutURL(c.Request.Context(), userID, middleware.UserEmailFromContext(c))
	if err != nil {
		telemetry.Error("billing.checkout_failed", map[string]any{"user_id": userID, "error": err.Error()})
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to create checkout session", nil)
		return
	}
	respond.OK(c, gin.H{"url": url})
}

func (h *Handler) portal(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "Unauthorized", nil)
		return
	}
	url, err := h.Svc.PortalURL(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrNoCustomer) {
			respond.Error(c, http.StatusNotFound, "not_found", "no billing account for user", nil)
			return
		}
		telemetry.Error("billing.portal_failed", map[string]any{"user_id": userID, "error": err.Error()})
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to create portal session", nil)
		return
	}
	respond.OK(c, gin.H{"url": url})
}

func (h *Handler) status(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "Unauthorized", nil)
		return
	}
	sub, err := h.Svc.Status(c.Request.Context(), userID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load subscription", nil)
		return
	}
	respond.OK(c, sub)
}

func (h *Handler) reset(c *gin.Context) {
	if h.Env != "dev" && h.Env != "local" {
		respond.Error(c, http.StatusForbidden, "forbidden", "only available in development", nil)
		return
	}
	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "Unauthorized", nil)
		return
	}
	if err := h.Svc.Reset(c.Request.Context(), userID); err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to reset subscription", nil)
		return
	}
	respond.OK(c, gin.H{"success": true})
}

// handleWebhook verifies the processor signature before touching the payload,
// then dispatches on event type. Unrecognized events are acknowledged so the
// processor stops retrying them.
func (h *Handler) handleWebhook(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "bad_request", "invalid payload", nil)
		return
	}

	event, err := webhook.ConstructEventWithOptions(
		body,
		c.GetHeader("Stripe-Signature"),
		h.WebhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true},
	)
	if err != nil {
		telemetry.Warn("billing.webhook_signature_failed", map[string]any{"error": err.Error()})
		respond.Error(c, http.StatusBadRequest, "bad_request", "signature verification failed", nil)
		return
	}

	ctx := c.Request.Context()
	switch event.Type {
	case "checkout.session.completed":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			respond.Error(c, http.StatusBadRequest, "bad_request", "invalid session payload", nil)
			return
		}
		customerID := ""
		if sess.Customer != nil {
			customerID = sess.Customer.ID
		}
		subscriptionID := ""
		if sess.Subscription != nil {
			subscriptionID = sess.Subscription.ID
		}
		err = h.Svc.HandleCheckoutCompleted(ctx, customerID, subscriptionID)
	case "customer.subscription.created", "customer.subscription.updated":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			respond.Error(c, http.StatusBadRequest, "bad_request", "invalid subscription payload", nil)
			return
		}
		customerID := ""
		if sub.Customer != nil {
			customerID = sub.Customer.ID
		}
		err = h.Svc.HandleSubscriptionChanged(ctx, customerID, sub.ID)
	case "customer.subscription.deleted":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			respond.Error(c, http.StatusBadRequest, "bad_request", "invalid subscription payload", nil)
			return
		}
		err = h.Svc.HandleSubscriptionDeleted(ctx, sub.ID)
	default:
		metrics.IncWebhookIgnored()
		respond.OK(c, gin.H{"received": true})
		return
	}

	if err != nil {
		telemetry.Error("billing.webhook_failed", map[string]any{
			"event_type": string(event.Type), "error": err.Error(),
		})
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to process event", nil)
		return
	}
	metrics.IncWebhookHandled()
	respond.OK(c, gin.H{"received": true})
}
