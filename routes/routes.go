package routes

import (
	"github.com/imtarget05/Health-Tracker-App/controllers"
	"github.com/imtarget05/Health-Tracker-App/middlewares"
	"github.com/imtarget05/Health-Tracker-App/services"

	"github.com/gin-gonic/gin"
)

type Controllers struct {
	Health   *controllers.HealthController
	Stats    *controllers.StatsController
	Logs     *controllers.LogController
	Device   *controllers.DeviceController
	Notify   *controllers.NotificationController
	Dispatch *controllers.DispatchController
	Realtime *controllers.RealtimeController
	Dev      *controllers.DevController
}

func NewControllers(
	health *services.HealthService,
	stats *services.StatsService,
	logs *services.LogService,
	push *services.PushService,
	dispatch *services.DispatchService,
	hub *services.RealtimeHub,
) Controllers {
	return Controllers{
		Health:   controllers.NewHealthController(health),
		Stats:    controllers.NewStatsController(stats),
		Logs:     controllers.NewLogController(logs),
		Device:   controllers.NewDeviceController(push),
		Notify:   controllers.NewNotificationController(push),
		Dispatch: controllers.NewDispatchController(dispatch),
		Realtime: controllers.NewRealtimeController(hub),
		Dev:      controllers.NewDevController(push),
	}
}

func SetupRouter(ctl Controllers) *gin.Engine {
	r := gin.Default()

	// Public auth routes
	auth := r.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)
	}

	authed := r.Group("/")
	authed.Use(middlewares.AuthMiddleware())
	{
		user := authed.Group("/user")
		{
			user.GET("/profile", controllers.GetProfile)
			user.PUT("/profile", controllers.UpdateProfile)
			user.POST("/devices", ctl.Device.Register)
			user.GET("/devices", ctl.Device.List)
			user.DELETE("/devices/:id", ctl.Device.Deactivate)
			user.GET("/notifications", controllers.ListNotifications)
			user.POST("/notifications/toggle", ctl.Notify.Toggle)
			user.POST("/notifications/:id/read", controllers.MarkNotificationRead)
		}

		health := authed.Group("/health")
		{
			health.GET("/profile", ctl.Health.GetProfile)
			health.PUT("/profile", ctl.Health.UpsertProfile)
			health.GET("/stats/daily", ctl.Health.DailyOverview)
		}

		stats := authed.Group("/stats")
		{
			stats.GET("/daily", ctl.Stats.Daily)
			stats.GET("/weekly", ctl.Stats.Weekly)
			stats.GET("/monthly", ctl.Stats.Monthly)
		}

		authed.POST("/meals", ctl.Logs.AddMeal)
		authed.GET("/meals", ctl.Logs.ListMeals)
		authed.POST("/water", ctl.Logs.AddWater)
		authed.GET("/water", ctl.Logs.ListWater)

		authed.GET("/ws/notifications", ctl.Realtime.NotificationsWS)
		authed.POST("/dev/push", ctl.Dev.PushTest)

		// manual replay of scheduled jobs
		authed.POST("/admin/dispatch/:kind", ctl.Dispatch.Run)
	}

	return r
}
