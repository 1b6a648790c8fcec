package server

import (
	"context"
	"database/sql"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"onboard-backend/internal/billing"
	"onboard-backend/internal/extract"
	"onboard-backend/internal/llm"
	"onboard-backend/internal/llm/dmx"
	"onboard-backend/internal/onboarding"
	"onboard-backend/internal/profiles"
	"onboard-backend/internal/resumes"
	"onboard-backend/internal/shared/auth"
	"onboard-backend/internal/shared/config"
	"onboard-backend/internal/shared/metrics"
	"onboard-backend/internal/shared/server/middleware"
	"onboard-backend/internal/shared/server/respond"
	"onboard-backend/internal/shared/storage/db"
)

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(cfg config.Config) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
	)

	// Dependencies
	var verifier middleware.TokenVerifier
	if cfg.AuthIssuer != "" {
		v, err := auth.NewVerifier(cfg.AuthIssuer, cfg.AuthAudience, "")
		if err != nil {
			log.Printf("auth verifier unavailable, requests will be rejected: %v", err)
		} else {
			verifier = v
		}
	} else {
		log.Printf("AUTH_ISSUER not set, authenticated routes will reject all requests")
	}

	var sqlDB *sql.DB
	if cfg.DatabaseURL != "" {
		dbConn, err := db.Connect(context.Background(), cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
		if err != nil {
			log.Printf("failed to connect database, falling back to memory: %v", err)
		} else {
			if err := db.RunMigrations(context.Background(), dbConn); err != nil {
				log.Printf("failed to run migrations, falling back to memory: %v", err)
				dbConn = nil
			}
		}
		sqlDB = dbConn
	}

	var profileRepo profiles.Repo
	var resumeRepo resumes.Repo
	var billingRepo billing.Repo
	if sqlDB != nil {
		profileRepo = &profiles.PGRepo{DB: sqlDB}
		resumeRepo = &resumes.PGRepo{DB: sqlDB}
		billingRepo = &billing.PGRepo{DB: sqlDB}
	} else {
		profileRepo = profiles.NewMemoryRepo()
		resumeRepo = resumes.NewMemoryRepo()
		billingRepo = billing.NewMemoryRepo()
	}

	var extractor extract.Client
	if cfg.DMXAPIKey != "" {
		httpExtractor, err := extract.NewHTTPClient(cfg.DMXAPIKey, cfg.PDFModel, cfg.ExtractURL)
		if err != nil {
			log.Printf("extraction service unavailable, using local decoder: %v", err)
			extractor = extract.Local{}
		} else {
			extractor = httpExtractor
		}
	} else {
		extractor = extract.Local{}
	}

	var llmClient llm.Client
	if cfg.DMXAPIKey != "" {
		client, err := dmx.NewClient(cfg.DMXAPIKey, cfg.LLMModel, cfg.StructURL)
		if err != nil {
			log.Printf("llm client unavailable, resume parsing disabled: %v", err)
		} else {
			llmClient = client
		}
	}

	var processor billing.Processor
	if cfg.StripeSecretKey != "" {
		p, err := billing.NewStripeProcessor(cfg.StripeSecretKey, cfg.StripePriceID, cfg.AppURL)
		if err != nil {
			log.Printf("stripe unavailable, billing disabled: %v", err)
		} else {
			processor = p
		}
	}

	profileSvc := profiles.NewService(profileRepo)
	resumeSvc := resumes.NewService(resumeRepo, extractor, llmClient)
	billingSvc := billing.NewService(billingRepo, profileSvc, processor)
	resolver := onboarding.NewResolver(profileSvc)

	profileHandler := profiles.NewHandler(profileSvc, cfg.Env)
	resumeHandler := resumes.NewHandler(resumeSvc)
	billingHandler := billing.NewHandler(billingSvc, cfg.StripeWebhookSecret, cfg.Env)
	dashboardHandler := onboarding.NewHandler(profileSvc, resumeSvc, billingSvc)

	// Public surface: health, metrics, and the signature-authenticated webhook.
	public := r.Group("/api/v1")
	public.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	public.GET("/metrics", metrics.Handler())
	billingHandler.RegisterWebhook(public)

	// JSON API, bearer-token enforced.
	api := r.Group("/api/v1", middleware.Auth(verifier, nil, cfg.AuthDisable))
	registerMeRoutes(api)
	resumeHandler.RegisterRoutes(api)
	billingHandler.RegisterRoutes(api)

	// Page-shaped routes: identity is optional at the edge, the gate decides
	// where unauthenticated or unfinished visitors land.
	pages := r.Group("", middleware.AuthOptional(verifier, cfg.AuthDisable), onboarding.Gate(resolver))
	profileHandler.RegisterRoutes(pages)
	dashboardHandler.RegisterRoutes(pages)

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
