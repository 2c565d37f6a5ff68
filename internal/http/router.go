package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/geocoder89/friendhub/internal/config"
	"github.com/geocoder89/friendhub/internal/domain/friend"
	"github.com/geocoder89/friendhub/internal/http/handlers"
	"github.com/geocoder89/friendhub/internal/http/middlewares"
	"github.com/geocoder89/friendhub/internal/observability"
)

// Service is everything the routes need from the friends service.
type Service interface {
	handlers.FriendsService
	middlewares.CredentialVerifier
}

type Deps struct {
	Config  config.Config
	Log     *slog.Logger
	Prom    *observability.Prom
	Service Service
	Store   handlers.Pinger
}

func NewRouter(d Deps) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger(d.Log))
	r.Use(otelgin.Middleware(observability.ServiceName))
	r.Use(d.Prom.GinHandleMiddleware())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(d.Config.CORSOrigins))

	health := handlers.NewHealthHandler(d.Store, d.Log)
	r.GET("/healthz", health.Healthz)
	r.GET("/readyz", health.Readyz)
	r.GET("/demo", health.Demo)
	r.GET("/metrics", gin.WrapH(d.Prom.Handler()))

	auth := middlewares.NewBasicAuth(d.Service, d.Config.AuthRealm, d.Prom, d.Log)
	friends := handlers.NewFriendsHandler(d.Service, d.Log)

	// body checks run after the auth gate so anonymous writes get the challenge
	jsonBody := func() []gin.HandlerFunc {
		return []gin.HandlerFunc{middlewares.RequireJSON(), middlewares.MaxBodyBytes(d.Config.MaxBodyBytes)}
	}

	api := r.Group("/api/friends")
	{
		api.POST("", append(jsonBody(), friends.Register)...)

		protected := api.Group("", auth.RequireAuth())
		protected.GET("/all", friends.List)
		protected.GET("/me", friends.Me)
		protected.GET("/find-user/:email", friends.FindByEmail)
		protected.PUT("/:email", append(jsonBody(), friends.Update)...)
		protected.DELETE("/:email", middlewares.RequireRole(friend.RoleAdmin), friends.Delete)
	}

	var static http.Handler
	if d.Config.PublicDir != "" {
		static = http.FileServer(gin.Dir(d.Config.PublicDir, false))
	}

	r.NoRoute(func(c *gin.Context) {
		if static == nil || middlewares.IsAPIPath(c.Request.URL.Path) {
			handlers.RespondNotFound(c)
			return
		}
		static.ServeHTTP(c.Writer, c.Request)
	})

	return r
}
