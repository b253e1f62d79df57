package main

import (
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/imtarget05/Health-Tracker-App/config"
	"github.com/imtarget05/Health-Tracker-App/routes"
	"github.com/imtarget05/Health-Tracker-App/services"
	"github.com/imtarget05/Health-Tracker-App/utils"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// refuse to start on a degraded store
	config.InitDB()
	utils.InitSES()

	push, err := services.NewPushService(config.DB, logger)
	if err != nil {
		log.Fatalf("push service init failed: %v", err)
	}

	stats := services.NewStatsService(config.DB)
	health := services.NewHealthService(config.DB, stats)
	logs := services.NewLogService(config.DB)
	hub := services.NewRealtimeHub()

	dispatch := services.NewDispatchService(
		services.NewDispatchStore(config.DB),
		stats,
		push,
		services.DispatchConfig{
			Quiet: services.QuietWindow{
				StartHour: config.EnvInt("QUIET_HOURS_START", services.DefaultQuietWindow.StartHour),
				EndHour:   config.EnvInt("QUIET_HOURS_END", services.DefaultQuietWindow.EndHour),
			},
			InactivityDays: config.EnvInt("INACTIVITY_DAYS", 3),
			UserTimeout:    time.Duration(config.EnvInt("DISPATCH_USER_TIMEOUT_SEC", 30)) * time.Second,
		},
		logger,
	).WithMailer(utils.SendReEngagementEmail).WithHub(hub)

	scheduler := services.NewScheduler(dispatch, logger)
	if err := scheduler.Start(); err != nil {
		log.Fatalf("scheduler start failed: %v", err)
	}
	defer scheduler.Stop()

	r := routes.SetupRouter(routes.NewControllers(health, stats, logs, push, dispatch, hub))
	if err := r.Run(":8080"); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
