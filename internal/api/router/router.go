package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/victorxmota/downeycleaning/config"
	"github.com/victorxmota/downeycleaning/internal/api/handler"
	"github.com/victorxmota/downeycleaning/internal/api/middleware"
	"github.com/victorxmota/downeycleaning/internal/model"
	"github.com/victorxmota/downeycleaning/pkg/jwt"
	"github.com/victorxmota/downeycleaning/pkg/redis"
)

// 开班/收班带照片，请求体上限放宽到 10MB
const maxBodyBytes = 10 << 20

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(maxBodyBytes))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	adminOnly := middleware.RoleAuth(model.RoleAdmin)

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证，登录注册限流防爆破）
		auth := v1.Group("/auth")
		auth.Use(middleware.RateLimit(rdb, 10, time.Minute))
		{
			auth.POST("/register", h.Auth.Register)
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.RefreshToken)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)

			// 用户模块
			users := authorized.Group("/users")
			{
				users.GET("/me", h.User.GetCurrentUser)
				users.GET("", adminOnly, h.User.ListUsers)
				users.PATCH("/:id", h.User.UpdateUser) // 管理员或本人（Handler/Service 层鉴权）
				users.DELETE("/:id", adminOnly, h.User.DeleteUser)
			}

			// 打卡模块
			shifts := authorized.Group("/shifts")
			{
				shifts.POST("/start", h.Shift.StartShift)
				shifts.POST("/pause", h.Shift.TogglePause)
				shifts.POST("/:id/end", h.Shift.EndShift)
				shifts.GET("/active", h.Shift.GetActive)
				shifts.GET("/sites", h.Shift.SiteOptions)
				shifts.GET("", h.Shift.ListMine)
				shifts.PATCH("/:id", adminOnly, h.Shift.AdminUpdateShift)
				shifts.DELETE("/:id", adminOnly, h.Shift.AdminDeleteShift)
			}

			// 报表与总控台
			authorized.GET("/reports", h.Report.GetReport)
			authorized.GET("/reports/export", h.Report.ExportReport)
			authorized.GET("/dashboard", adminOnly, h.Report.GetDashboard)

			// 排班模块
			schedules := authorized.Group("/schedules")
			{
				schedules.GET("/me", h.Schedule.ListMine)
				schedules.GET("/me/ics", h.Schedule.ExportICS)
				schedules.GET("", adminOnly, h.Schedule.ListAll)
				schedules.POST("", adminOnly, h.Schedule.CreateItem)
				schedules.PATCH("/:id", adminOnly, h.Schedule.UpdateItem)
				schedules.DELETE("/:id", adminOnly, h.Schedule.DeleteItem)
			}

			// 办公点模块
			offices := authorized.Group("/offices")
			{
				offices.GET("", h.Office.ListOffices)
				offices.GET("/:id", h.Office.GetOffice)
				offices.POST("", adminOnly, h.Office.CreateOffice)
				offices.PATCH("/:id", adminOnly, h.Office.UpdateOffice)
				offices.DELETE("/:id", adminOnly, h.Office.DeleteOffice)
			}

			// 通知模块
			notifications := authorized.Group("/notifications")
			{
				notifications.GET("", h.Notification.ListNotifications)
				notifications.GET("/unread", h.Notification.CountUnread)
				notifications.POST("/:id/read", h.Notification.MarkRead)
				notifications.POST("", adminOnly, h.Notification.CreateNotification)
				notifications.DELETE("/:id", adminOnly, h.Notification.DeleteNotification)
			}
		}
	}

	return r
}
