package main

import (
	"github.com/charmbracelet/log"
	"github.com/eventplanner/eventplanner-api/internal/config"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter returns the gin engine serving the API.
func NewRouter(cfg *config.Config, api *API, l *log.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), RequestLogger(l), CORSMiddleware(cfg.HTTP.CORSOrigins))
	if cfg.Metrics.Enabled {
		r.Use(MetricsMiddleware())
	}
	SetupRoutes(r, api, cfg)
	return r
}

func SetupRoutes(r *gin.Engine, api *API, cfg *config.Config) {
	r.GET("/healthz", api.Health)
	if cfg.Metrics.Enabled {
		r.GET(cfg.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	// Auth
	authRoutes := r.Group("/api/auth")
	{
		authRoutes.POST("/signup", api.Signup)
		authRoutes.POST("/login", api.Login)
		authRoutes.GET("/me", api.AuthMiddleware(), api.Me)
	}

	// Public reads, personalised when a token is sent
	public := r.Group("/api")
	public.Use(api.OptionalAuth())
	{
		public.GET("/events", api.ListEvents)
		public.GET("/events/:id", api.GetEvent)
	}

	// Protected Routes
	authorized := r.Group("/api")
	authorized.Use(api.AuthMiddleware())
	{
		// EVENTS
		authorized.POST("/events", api.CreateEvent)
		authorized.GET("/events/organized", api.GetOrganizedEvents)
		authorized.GET("/events/invited", api.GetInvitedEvents)
		authorized.PUT("/events/:id", api.UpdateEvent)
		authorized.PATCH("/events/:id", api.UpdateEvent)
		authorized.DELETE("/events/:id", api.DeleteEvent)

		// PARTICIPANTS
		authorized.POST("/events/:id/invite", api.InviteParticipant)
		authorized.POST("/events/:id/join", api.JoinEvent)
		authorized.PATCH("/events/:id/rsvp", api.UpdateRsvp)
		authorized.GET("/events/:id/participants", api.GetParticipants)
	}
}
