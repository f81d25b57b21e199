package http

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/codehive/server/internal/adapters/signal"
	"github.com/codehive/server/internal/auth"
	"github.com/codehive/server/internal/config"
	"github.com/codehive/server/internal/domain"
	"github.com/codehive/server/internal/metrics"
	"github.com/codehive/server/internal/store"
)

// identityMiddleware resolves the bearer token to an identity when present.
// Missing or invalid tokens are not an error here; the handlers decide what
// an anonymous caller may do.
func identityMiddleware(j *auth.JWT) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if strings.HasPrefix(h, "Bearer ") {
			if id, err := j.Verify(strings.TrimPrefix(h, "Bearer ")); err == nil {
				c.Set("identity", id)
			}
		}
		c.Next()
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}

func SetupRouter(ctx context.Context, cfg *config.Config, ctl *signal.Controller, st *store.Store, j *auth.JWT) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())
	r.Use(corsMiddleware())
	r.Use(identityMiddleware(j))

	r.GET("/healthz", func(c *gin.Context) { c.Status(200) })
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := r.Group("/api")
	rooms := &RoomsAPI{Store: st}
	api.POST("/rooms", rooms.Create)
	api.GET("/rooms/:id", rooms.Get)

	api.GET("/ws", func(c *gin.Context) {
		ctl.HandleWS(ctx, c)
	})

	log.Info().Str("module", "adapters.http").Msg("router setup")
	return r
}

func identityFrom(c *gin.Context) (domain.Identity, bool) {
	v, ok := c.Get("identity")
	if !ok {
		return domain.Identity{}, false
	}
	id, ok := v.(domain.Identity)
	return id, ok
}
