package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ak4shii/smart-parking-system/internal/config"
	"github.com/ak4shii/smart-parking-system/internal/infrastructure/database/postgres"
	"github.com/ak4shii/smart-parking-system/internal/logger"
	"github.com/ak4shii/smart-parking-system/internal/mqtt"
	"github.com/ak4shii/smart-parking-system/internal/mqtt/dispatcher"
	"github.com/ak4shii/smart-parking-system/internal/realtime"
	"github.com/ak4shii/smart-parking-system/internal/recognition"
	"github.com/ak4shii/smart-parking-system/internal/routes"
	"github.com/ak4shii/smart-parking-system/internal/usecase/peripheral"
	"github.com/ak4shii/smart-parking-system/internal/usecase/provision"
	"github.com/ak4shii/smart-parking-system/internal/usecase/registry"
	"github.com/ak4shii/smart-parking-system/internal/usecase/workflow"
	pkgmqtt "github.com/ak4shii/smart-parking-system/pkg/mqtt"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("Failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	env := cfg.Server.Environment
	if env == "" {
		env = "development"
	}
	if err := logger.Init(env); err != nil {
		os.Stderr.WriteString("Failed to initialize logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting smart parking system",
		zap.String("environment", env),
	)

	if cfg.Database.Host == "" || cfg.Database.DBName == "" {
		logger.Fatal("Database configuration is missing. Please set DB_HOST and DB_NAME environment variables.")
	}

	db, err := postgres.NewDB(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", zap.Error(err))
		}
	}()

	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	mqttClient := pkgmqtt.NewClient(&pkgmqtt.Config{
		Broker:               cfg.MQTT.BrokerURI,
		ClientID:             cfg.MQTT.ClientID,
		Username:             cfg.MQTT.Username,
		Password:             cfg.MQTT.Password,
		CleanSession:         false,
		KeepAlive:            cfg.MQTT.KeepAlive,
		ConnectTimeout:       cfg.MQTT.ConnectTimeout,
		AutoReconnect:        true,
		MaxReconnectInterval: time.Minute,
	})
	if err := mqttClient.Connect(); err != nil {
		logger.Fatal("Failed to connect to MQTT broker", zap.Error(err))
	}
	defer mqttClient.Disconnect()

	hub := realtime.NewHub()
	go hub.Run()
	events := realtime.NewEventPublisher(hub)

	publisher := mqtt.NewPublisher(mqttClient, cfg.MQTT.BaseTopic, byte(cfg.MQTT.QoS))
	recognizer := recognition.NewClient(cfg.Recognition.ServerURL, cfg.Recognition.Timeout)

	parkingRepo := postgres.NewParkingRepository(db)
	deviceRepo := postgres.NewDeviceRepository(db)
	peripheralRepo := postgres.NewPeripheralRepository(db)
	sessionRepo := postgres.NewSessionRepository(db)

	registryService := registry.NewService(deviceRepo, parkingRepo, events)
	provisionService := provision.NewService(deviceRepo, peripheralRepo)
	workflowService := workflow.NewService(sessionRepo, deviceRepo, recognizer, publisher, events)
	peripheralService := peripheral.NewService(peripheralRepo, deviceRepo, publisher, events)

	disp := dispatcher.NewDispatcher(
		mqttClient,
		publisher,
		registryService,
		provisionService,
		workflowService,
		peripheralService,
		cfg.MQTT.BaseTopic,
		byte(cfg.MQTT.QoS),
	)
	if err := disp.Start(); err != nil {
		logger.Fatal("Failed to subscribe to device topics", zap.Error(err))
	}

	sweepCtx, sweepCancel := context.WithCancel(context.Background())
	defer sweepCancel()
	go registryService.StartLivenessSweep(sweepCtx, cfg.Liveness.SweepInterval, cfg.Liveness.OfflineThreshold)

	router := routes.SetupRoutes(cfg, db, hub, registryService, workflowService, peripheralService)

	host := cfg.Server.Host
	if host == "" {
		host = "0.0.0.0"
	}
	port := cfg.Server.Port
	if port == "" {
		port = "8080"
	}
	addr := net.JoinHostPort(host, port)

	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Server starting",
			zap.String("address", addr),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down")

	sweepCancel()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("Failed to shutdown server", zap.Error(err))
	}

	logger.Info("Server exited properly")
}
