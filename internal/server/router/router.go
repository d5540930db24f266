package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/agricure/internal/observability"
	"github.com/mamadbah2/agricure/internal/server/handlers"
)

// Handlers groups the HTTP adapters mounted by the router.
type Handlers struct {
	Auth            *handlers.AuthHandler
	Language        *handlers.LanguageHandler
	Soil            *handlers.SoilHandler
	Farms           *handlers.FarmHandler
	Recommendations *handlers.RecommendationHandler
	// Ready backs /readyz; nil means always ready.
	Ready Pinger
}

// Pinger checks a backing dependency.
type Pinger interface {
	Ping(ctx context.Context) error
}

// New wires the Gin engine with required routes and middlewares.
func New(h Handlers, authn Authenticator, metrics *observability.Metrics, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))
	r.Use(metrics.GinMiddleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/readyz", readiness(h.Ready, logger))
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := r.Group("/api")

	public := api.Group("/auth")
	public.POST("/signup", h.Auth.SignUp)
	public.POST("/login", h.Auth.SignIn)

	private := api.Group("")
	private.Use(requireAuth(authn, logger))

	users := private.Group("/users/me")
	users.GET("", h.Auth.Me)
	users.PUT("", h.Auth.UpdateMe)
	users.POST("/password", h.Auth.ChangePassword)
	users.GET("/language", h.Language.Get)
	users.PUT("/language", h.Language.Set)

	soil := private.Group("/soil")
	soil.GET("/latest", h.Soil.Latest)
	soil.GET("/history", h.Soil.History)
	soil.GET("/trend", h.Soil.Trend)
	soil.GET("/snapshots", h.Soil.Snapshots)
	soil.POST("/score", h.Soil.Score)

	env := private.Group("/environment")
	env.GET("/latest", h.Soil.LatestEnvironment)
	env.GET("/history", h.Soil.EnvironmentHistory)

	farms := private.Group("/farms")
	farms.GET("", h.Farms.List)
	farms.POST("", h.Farms.Create)
	farms.GET("/stats", h.Farms.Stats)
	farms.GET("/:id", h.Farms.Get)
	farms.PUT("/:id", h.Farms.Update)
	farms.DELETE("/:id", h.Farms.Delete)

	recs := private.Group("/recommendations")
	recs.GET("", h.Recommendations.List)
	recs.POST("", h.Recommendations.Create)
	recs.GET("/:id", h.Recommendations.Get)
	recs.PATCH("/:id", h.Recommendations.UpdateStatus)
	recs.DELETE("/:id", h.Recommendations.Delete)
	recs.GET("/:id/plan", h.Recommendations.Plan)
	recs.POST("/:id/enhance", h.Recommendations.Enhance)

	logger.Info("router initialized")

	return r
}

func readiness(p Pinger, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if p != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := p.Ping(ctx); err != nil {
				logger.Warn("readiness check failed", zap.Error(err))
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	}
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if uid := c.GetString(handlers.UserIDKey); uid != "" {
			fields = append(fields, zap.String("user_id", uid))
		}
		logger.Info("request completed", fields...)
	}
}
