package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/TRHS-OMNIA/crew-backend/config"
	"github.com/TRHS-OMNIA/crew-backend/internal/api/handler"
	"github.com/TRHS-OMNIA/crew-backend/internal/api/middleware"
	"github.com/TRHS-OMNIA/crew-backend/pkg/jwt"
	"github.com/TRHS-OMNIA/crew-backend/pkg/redis"
)

// maxUploadBytes bounds roster uploads.
const maxUploadBytes = 8 << 20

// Setup initializes and returns the Gin engine.
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── global middleware ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(maxUploadBytes))

	// ── health check ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// auth module (no session required)
		auth := v1.Group("/auth")
		{
			auth.POST("/google", middleware.RateLimit(rdb, 10, time.Minute), h.Auth.GoogleLogin)
		}

		// public event surface; event pages render richer for signed-in
		// viewers, so the session is parsed when present
		v1.GET("/events", h.Event.List)
		v1.GET("/events/feed.ics", h.Export.Feed)
		v1.GET("/event/:id", middleware.OptionalAuth(jwtMgr), h.Event.Get)

		// member routes
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr))
		{
			authorized.POST("/join", h.Enrollment.Join)
			authorized.GET("/events/user", h.Enrollment.ListUserEvents)
			authorized.GET("/event/:id/user", h.Enrollment.GetUserEntry)
			authorized.GET("/event/:id/qr", middleware.RateLimit(rdb, 20, time.Minute), h.QR.Issue)
			authorized.GET("/qr/:qrid/status", h.QR.Status)

			// admin routes
			admin := authorized.Group("")
			admin.Use(middleware.AdminOnly())
			{
				admin.POST("/events", h.Event.Create)
				admin.PUT("/event/:id", h.Event.Update)
				admin.DELETE("/event/:id", h.Event.Delete)
				admin.GET("/event/:id/dashboard", h.Event.Dashboard)
				admin.GET("/event/:id/export", h.Export.Roster)

				admin.POST("/event/:id/entry/:uid", h.Enrollment.AdminJoin)
				admin.PUT("/event/:id/entry/:uid", h.Enrollment.EditEntry)
				admin.DELETE("/event/:id/entry/:uid", h.Enrollment.Remove)
				admin.POST("/event/:id/entry/:uid/checkin", h.Enrollment.CheckIn)
				admin.POST("/event/:id/entry/:uid/checkout", h.Enrollment.CheckOut)

				admin.POST("/qr/:qrid/scan", h.QR.Scan)

				admin.GET("/users", h.User.List)
				admin.POST("/users/import", h.User.Import)
			}
		}
	}

	return r
}
