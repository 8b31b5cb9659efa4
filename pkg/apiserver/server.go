package apiserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/countyai/cop-portal/pkg/apiserver/handlers"
	"github.com/countyai/cop-portal/pkg/apiserver/middleware"
	"github.com/countyai/cop-portal/pkg/auth"
	"github.com/countyai/cop-portal/pkg/config"
	"github.com/countyai/cop-portal/pkg/eventbus"
	"github.com/countyai/cop-portal/pkg/favorites"
	"github.com/countyai/cop-portal/pkg/service"
	"github.com/countyai/cop-portal/pkg/store/gormdb"
	redisclient "github.com/countyai/cop-portal/pkg/store/redis"
)

// Services are the collaborators the HTTP layer dispatches to.
type Services struct {
	Projects  *service.ProjectService
	ROI       *service.ROIService
	Prompts   *service.PromptService
	Contacts  *service.ContactService
	Stats     *service.StatsService
	Favorites favorites.Store
	Events    handlers.EventSource
	Verifier  auth.Verifier
	Sessions  *auth.SessionManager
}

// NewServices wires the services over db. redis may be nil, in which case
// events are dropped, stats are not cached and favorites live in memory.
func NewServices(db *gormdb.Store, redis *redisclient.Client, cfg *config.Config, logger *zap.Logger) Services {
	var (
		bus   *eventbus.Bus
		favs  favorites.Store = favorites.NewMemoryStore()
		cache service.StatsCache
	)
	if redis != nil {
		bus = eventbus.NewBus(redis.Client())
		favs = favorites.NewRedisStore(redis.Client())
		cache = redis
	}

	projects := gormdb.NewProjectRepository(db.DB())
	calcs := gormdb.NewROIRepository(db.DB())
	prompts := gormdb.NewPromptRepository(db.DB())
	contacts := gormdb.NewContactRepository(db.DB())

	stats := service.NewStatsService(projects, calcs, prompts, contacts, logger)
	if cache != nil {
		stats.WithCache(cache, cfg.Stats.CacheTTL)
	}

	services := Services{
		Projects:  service.NewProjectService(projects, bus, logger),
		ROI:       service.NewROIService(calcs, projects, bus, logger),
		Prompts:   service.NewPromptService(prompts, bus, logger),
		Contacts:  service.NewContactService(contacts, bus, logger),
		Stats:     stats,
		Favorites: favs,
		Verifier:  auth.NewIdentityToolkitVerifier(cfg.Auth.IdentityURL, cfg.Auth.IdentityAPIKey, cfg.Auth.IdentityTimeout),
		Sessions:  auth.NewSessionManager([]byte(cfg.Auth.SessionSecret), cfg.Auth.SessionTTL),
	}
	// a nil *eventbus.Bus would still satisfy EventSource
	if bus != nil {
		services.Events = bus
	}
	return services
}

type Server struct {
	router   *gin.Engine
	services Services
	logger   *zap.Logger
}

func NewServer(services Services, logger *zap.Logger) *Server {
	s := &Server{services: services, logger: logger}
	s.setupRouter()
	return s
}

func (s *Server) setupRouter() {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(s.logger))
	r.Use(middleware.CORS())
	if s.services.Stats != nil {
		r.Use(middleware.InvalidateOnWrite(s.services.Stats.Invalidate))
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authed := middleware.Auth(s.services.Sessions)

	authHandler := handlers.NewAuthHandler(s.services.Verifier, s.services.Sessions, s.logger)
	r.POST("/auth/login", authHandler.Login)
	r.GET("/auth/session", authed, authHandler.Session)

	projectHandler := handlers.NewProjectHandler(s.services.Projects, s.logger)
	r.POST("/projects", projectHandler.Create)
	r.GET("/projects", projectHandler.List)
	r.GET("/projects/:id", projectHandler.Get)
	r.PUT("/projects/:id", authed, projectHandler.Update)
	r.DELETE("/projects/:id", authed, projectHandler.Delete)

	roiHandler := handlers.NewROIHandler(s.services.ROI, s.logger)
	r.POST("/roi/calculate", roiHandler.Calculate)
	r.POST("/roi", roiHandler.Create)
	r.GET("/roi", roiHandler.List)
	r.GET("/roi/:id", roiHandler.Get)
	r.PUT("/roi/:id", authed, roiHandler.Update)
	r.DELETE("/roi/:id", authed, roiHandler.Delete)

	promptHandler := handlers.NewPromptHandler(s.services.Prompts, s.logger)
	r.POST("/prompts", promptHandler.Create)
	r.GET("/prompts", promptHandler.List)
	r.GET("/prompts/:id", promptHandler.Get)
	r.PUT("/prompts/:id", authed, promptHandler.Update)
	r.DELETE("/prompts/:id", authed, promptHandler.Delete)

	contactHandler := handlers.NewContactHandler(s.services.Contacts, s.logger)
	r.POST("/contact", contactHandler.Create)
	r.GET("/contact", authed, contactHandler.List)
	r.GET("/contact/:id", authed, contactHandler.Get)
	r.PUT("/contact/:id", authed, contactHandler.Update)
	r.DELETE("/contact/:id", authed, contactHandler.Delete)

	favoritesHandler := handlers.NewFavoritesHandler(s.services.Favorites, s.services.Prompts, s.logger)
	favs := r.Group("/favorites", authed)
	{
		favs.GET("", favoritesHandler.List)
		favs.PUT("/:promptId", favoritesHandler.Add)
		favs.DELETE("/:promptId", favoritesHandler.Remove)
	}

	admin := r.Group("/admin", authed)
	{
		admin.GET("/stats", handlers.NewStatsHandler(s.services.Stats, s.logger).Get)
		if s.services.Events != nil {
			admin.GET("/events", handlers.NewEventsHandler(s.services.Events, s.logger).Stream)
		}
	}

	s.router = r
}

func (s *Server) Router() *gin.Engine {
	return s.router
}
