// Package api exposes the application engine over a JSON HTTP API.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"nagarik-sewa/internal/aggregation"
	"nagarik-sewa/internal/catalog"
	"nagarik-sewa/internal/common/auth"
	"nagarik-sewa/internal/common/logger"
	"nagarik-sewa/internal/common/observability"
	"nagarik-sewa/internal/lifecycle"
	"nagarik-sewa/internal/messaging"
	"nagarik-sewa/internal/models"
)

type ApplicationService interface {
	Submit(ctx context.Context, caller models.Role, draft models.Application) (*models.Application, error)
	Get(ctx context.Context, id string) (*models.Application, error)
	Track(ctx context.Context, id string) (*lifecycle.Tracking, error)
	ListMine(ctx context.Context, caller models.Role) ([]models.Application, error)
	Transition(ctx context.Context, actor models.Role, id string, patch models.ApplicationPatch) (*models.Application, error)
	Delete(ctx context.Context, actor models.Role, id string) error
	OfficeApplications(ctx context.Context, actor models.Role, opts aggregation.SortOptions, serviceType string) ([]models.Application, error)
	OfficeStats(ctx context.Context, actor models.Role) (*models.OfficeStats, error)
	HierarchyStats(ctx context.Context, actor models.Role) (*models.HierarchyStats, error)
	Search(ctx context.Context, actor models.Role, query string, size int) ([]models.Application, error)
}

type MessageService interface {
	Send(ctx context.Context, sender models.Identity, req messaging.SendRequest) (*models.Message, error)
	Received(ctx context.Context, who models.Role) ([]models.Message, error)
	Sent(ctx context.Context, who models.Role) ([]models.Message, error)
	MarkRead(ctx context.Context, who models.Role, id string) (*models.Message, error)
	Directory(ctx context.Context) ([]models.Account, error)
}

type AccountLookup interface {
	GetAccount(ctx context.Context, id string) (*models.Account, error)
}

type Config struct {
	Mode           string
	AllowedOrigins []string
}

// Dependencies of the router. Ready may be nil; Observability may be nil.
type Dependencies struct {
	Applications  ApplicationService
	Messages      MessageService
	Accounts      AccountLookup
	Catalog       *catalog.Catalog
	JWT           *auth.JWTManager
	Observability *observability.Observability
	Ready         func(ctx context.Context) error
}

type Server struct {
	deps   Dependencies
	logger logger.Logger
}

// NewRouter builds the gin engine with every route mounted.
func NewRouter(cfg Config, deps Dependencies, log logger.Logger) (*gin.Engine, error) {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}
	if err := registerValidators(deps.Catalog.Service); err != nil {
		return nil, err
	}

	s := &Server{deps: deps, logger: logger.ForComponent(log, "api")}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(accessLog(s.logger))
	router.Use(instrument(deps.Observability))

	corsConfig := cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 0 {
		corsConfig.AllowOrigins = nil
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowCredentials = false
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", s.health)
	router.GET("/ready", s.ready)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	s.catalogRoutes(api.Group("/catalog"))

	api.GET("/applications/:id", s.getApplication)
	api.GET("/applications/:id/tracking", s.trackApplication)

	authed := api.Group("", authenticate(deps.JWT, s.logger))
	{
		authed.GET("/auth/me", s.me)

		citizen := requireRole(s.logger, "citizen")
		authed.POST("/applications", citizen, s.submitApplication)
		authed.GET("/applications", citizen, s.listMyApplications)

		authed.PUT("/applications/:id", s.transitionApplication)
		authed.DELETE("/applications/:id", s.deleteApplication)

		office := authed.Group("/office", requireRole(s.logger, "official"))
		office.GET("/applications", s.officeApplications)
		office.GET("/applications/search", s.searchApplications)
		office.GET("/stats", s.officeStats)

		authed.GET("/monitor/hierarchy-stats", requireRole(s.logger, "monitor"), s.hierarchyStats)

		staff := requireRole(s.logger, "official", "monitor")
		authed.POST("/messages", staff, s.sendMessage)
		authed.GET("/messages/received", s.receivedMessages)
		authed.GET("/messages/sent", s.sentMessages)
		authed.PUT("/messages/:id/read", s.markMessageRead)
		authed.GET("/officials", staff, s.officials)
	}

	return router, nil
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().UTC().Format(time.RFC3339)})
}

func (s *Server) ready(c *gin.Context) {
	if s.deps.Ready != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()
		if err := s.deps.Ready(ctx); err != nil {
			s.logger.Warn("readiness check failed", map[string]interface{}{"error": err.Error()})
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

func (s *Server) fail(c *gin.Context, err error) {
	renderError(c, s.logger, err)
}
