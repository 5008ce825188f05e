package bootstrap

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/nepfy/nepfy-backend/config"
	"github.com/nepfy/nepfy-backend/internal/agents"
	agentshttp "github.com/nepfy/nepfy-backend/internal/agents/http"
	httpapi "github.com/nepfy/nepfy-backend/internal/api/http"
	"github.com/nepfy/nepfy-backend/internal/api/http/middleware"
	"github.com/nepfy/nepfy-backend/internal/auth"
	authhttp "github.com/nepfy/nepfy-backend/internal/auth/http"
	authmw "github.com/nepfy/nepfy-backend/internal/auth/middleware"
	authrepo "github.com/nepfy/nepfy-backend/internal/auth/repository"
	authsvc "github.com/nepfy/nepfy-backend/internal/auth/service"
	"github.com/nepfy/nepfy-backend/internal/billing"
	"github.com/nepfy/nepfy-backend/internal/generator"
	genhttp "github.com/nepfy/nepfy-backend/internal/generator/http"
	notifhttp "github.com/nepfy/nepfy-backend/internal/notifications/http"
	notifrepo "github.com/nepfy/nepfy-backend/internal/notifications/repository"
	notifsvc "github.com/nepfy/nepfy-backend/internal/notifications/service"
	"github.com/nepfy/nepfy-backend/internal/onboarding"
	"github.com/nepfy/nepfy-backend/internal/pexels"
	projecthttp "github.com/nepfy/nepfy-backend/internal/projects/http"
	projectrepo "github.com/nepfy/nepfy-backend/internal/projects/repository"
	projectsvc "github.com/nepfy/nepfy-backend/internal/projects/service"
	"github.com/nepfy/nepfy-backend/internal/slug"
)

type RouterDeps struct {
	Config *config.Config
	SQL    *sql.DB
	Pool   *pgxpool.Pool
	Redis  *redis.Client
	Agents *agents.Manager

	// Verifier checks Firebase ID tokens. Nil outside production switches
	// the API to header-based identities.
	Verifier authmw.TokenVerifier

	// Model is nil when no AI key is configured.
	Model generator.Model
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	cfg := dep.Config
	codec := slug.NewCodec(cfg.Server.RootDomain)

	userRepo := authrepo.NewUserRepository(dep.SQL)
	projectRepo := projectrepo.NewProjectRepository(dep.SQL)
	notificationRepo := notifrepo.NewRepo(dep.Pool)

	users := authsvc.NewAuthService(userRepo)
	projects := projectsvc.NewProjectService(projectRepo, userRepo, codec)
	proposals := projectsvc.NewProposalService(projectRepo)
	notifications := notifsvc.NewService(notificationRepo)
	gen := generator.NewService(dep.Model, dep.Agents, proposals, generator.Options{
		MaxAttempts: cfg.AI.MaxAttempts,
		Timeout:     cfg.AI.Timeout,
	})

	var billingProvider billing.Provider
	if sp := billing.NewStripeProvider(cfg.Stripe.SecretKey); sp != nil {
		billingProvider = sp
	}
	billingSvc := billing.NewService(billingProvider, userRepo, cfg.Stripe.ReturnURL, 0)

	photos := pexels.NewClient(cfg.Pexels.APIKey, pexels.Options{BaseURL: cfg.Pexels.BaseURL})

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.HeaderRequestID, "X-User-Id", "X-User-Email"},
		ExposeHeaders:    []string{middleware.HeaderRequestID},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RequestIDMiddleware())
	r.Use(projecthttp.NewPublic(projects, codec).Middleware())

	var redisPinger httpapi.Pinger
	if dep.Redis != nil {
		redisPinger = httpapi.RedisPinger(func(ctx context.Context) error {
			return dep.Redis.Ping(ctx).Err()
		})
	}
	httpapi.NewHealthHandler("nepfy-backend", cfg.App.Version, dep.Pool, redisPinger).RegisterRoutes(r)

	api := r.Group("/api/v1")
	if dep.Verifier != nil {
		api.Use(authmw.FirebaseAuthMiddleware(dep.Verifier))
	} else {
		api.Use(auth.OptionalUser())
	}
	api.Use(auth.WithUser(userRepo))

	authhttp.New(users).Register(api.Group("/users"))

	projectsGroup := api.Group("/projects")
	projecthttp.New(projects, proposals).Register(projectsGroup)
	genhttp.New(projects, gen).Register(projectsGroup)

	notificationHandler := notifhttp.New(notifications)
	notificationHandler.Register(api.Group("/notifications"))

	onboarding.NewHandler(users).Register(api.Group("/onboarding"))
	pexels.NewHandler(photos).Register(api.Group("/pexels"))
	billing.NewHandler(billingSvc).Register(api.Group("/stripe"))

	admin := r.Group("/api/v1/admin", middleware.APIKeyMiddleware(cfg.Admin.APIKey))
	agentshttp.New(dep.Agents).Register(admin.Group("/agents"))
	notificationHandler.RegisterAdmin(admin.Group("/notifications"))

	return r
}
