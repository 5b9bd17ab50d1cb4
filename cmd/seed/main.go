package main

import (
	"context"
	"time"

	"github.com/gobox-app/internal/cache"
	"github.com/gobox-app/internal/config"
	"github.com/gobox-app/internal/logger"
	"github.com/gobox-app/internal/models"
	"github.com/gobox-app/internal/provider"
	"github.com/gobox-app/internal/service"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	user, err := models.InitDemoUser("", "")
	if err != nil {
		stdLog.Fatalf("Failed to create demo user: %v", err)
	}
	if user == nil {
		stdLog.Printf("Users already exist, skip seeding")
		return
	}

	// seed 不依赖 Redis 与队列
	cfg.Queue.Enabled = false
	cfg.Kafka.Enabled = false
	cache.Use(nil, "")
	container := provider.NewContainerWithDB(cfg, models.DB, nil, nil)
	defer container.Close()

	options := container.DeliveryRequestService.FormOptions()
	if len(options.Schools) == 0 || len(options.PickupTimes) == 0 || len(options.BoxTypes) == 0 {
		stdLog.Printf("No form options configured, skip sample request")
		return
	}
	draft := service.DeliveryDraftInput{
		FullName:      "Jane Doe",
		PhoneNumber:   "5551234567",
		PickupAddress: "1 Oak St, Springfield, IL 62701",
		SchoolName:    options.Schools[0],
		PickupDate:    time.Now().AddDate(0, 0, 1).Format("2006-01-02"),
		PickupTime:    options.PickupTimes[len(options.PickupTimes)/2],
		BoxType:       options.BoxTypes[0],
	}
	result, err := container.DeliveryRequestService.Submit(context.Background(), service.SessionFromUser(user), &draft, "seed")
	if err != nil {
		stdLog.Fatalf("Failed to create sample request: %v", err)
	}
	stdLog.Printf("Created demo user %s with request %s", user.Email, result.Request.RequestNo)
}
