package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kvasny/stampcam/assets"
	"github.com/kvasny/stampcam/ccc/db"
	"github.com/kvasny/stampcam/ccc/logging"
	"github.com/kvasny/stampcam/config"
	"github.com/kvasny/stampcam/kvstore"
	"github.com/kvasny/stampcam/location"
	"github.com/kvasny/stampcam/quality"
	"github.com/kvasny/stampcam/recording"
	"github.com/kvasny/stampcam/settings"
	"github.com/kvasny/stampcam/web/handlers"
)

func main() {
	configPath := flag.String("config", "config.json", "Path to the configuration file")
	cameraDevice := flag.String("camera", "", "Camera device identifier (overrides config)")
	videoDir := flag.String("video-dir", "", "App-private video folder (overrides config)")
	webPort := flag.Int("port", 0, "HTTP control API port (overrides config)")
	kvBackend := flag.String("kv", "", "Settings backend, sqlite or redis (overrides config)")
	logLevel := flag.String("log-level", "", "Log level: debug, info, warn, error (overrides config)")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	cfg.Override(config.ConfigOverrides{
		CameraDevice: cameraDevice,
		VideoDir:     videoDir,
		WebPort:      webPort,
		KVBackend:    kvBackend,
		LogLevel:     logLevel,
	})

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	var logger logging.Logger
	if cfg.LogPath != "" {
		logger = logging.CreateLogger(logging.LogLevel(cfg.LogLevel), cfg.LogPath, "stampcam")
	} else {
		logger = logging.CreateConsoleLogger(logging.LogLevel(cfg.LogLevel))
	}

	logger.Info("starting stampcam", "camera", cfg.CameraDevice,
		"video_dir", cfg.VideoDir, "kv_backend", cfg.KVBackend)

	ctx := context.Background()

	// Settings key-value backend
	var kv kvstore.Store
	switch cfg.KVBackend {
	case config.KVBackendRedis:
		redisStore, err := kvstore.NewRedisStore(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			logger.Error("failed to connect to redis", "addr", cfg.RedisAddr, "error", err)
			os.Exit(1)
		}
		defer redisStore.Close()
		kv = redisStore
	default:
		database, err := db.OpenFileDB(cfg.DatabasePath)
		if err != nil {
			logger.Error("failed to open database", "path", cfg.DatabasePath, "error", err)
			os.Exit(1)
		}
		defer database.Close()

		sqliteStore, err := kvstore.NewSQLiteStore(database)
		if err != nil {
			logger.Error("failed to initialize key-value store", "error", err)
			os.Exit(1)
		}
		kv = sqliteStore
	}

	settingsStore := settings.NewStore(logger, kv)

	// Gallery media store (optional)
	var mediaStore assets.MediaStore
	if cfg.GalleryEnabled {
		s3Store, err := assets.NewS3MediaStore(ctx, assets.S3Config{
			Region:          cfg.S3Region,
			Bucket:          cfg.S3Bucket,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccess,
		}, logger)
		if err != nil {
			logger.Error("failed to initialize gallery store", "error", err)
			os.Exit(1)
		}
		mediaStore = s3Store
	} else {
		logger.Info("gallery disabled, recordings will use the fallback save paths")
	}

	// No geocoding backend ships with the appliance; deployments with a
	// GPS source swap in their own Provider here.
	locationProvider := location.NopProvider

	prober := assets.NewFFmpegProber(logger)
	pipeline := assets.NewPipeline(logger, mediaStore, prober,
		cfg.VideoDir, cfg.PublicDir, cfg.AlbumName, cfg.FilePrefix)
	retention := assets.NewRetention(logger, cfg.VideoDir)

	// Completion sink: every finished recording goes through the
	// persistence pipeline with a snapshot of the current settings.
	sink := func(rec recording.FinishedRecording) {
		persistCtx := context.Background()
		if cfg.PersistTimeoutSeconds > 0 {
			var cancel context.CancelFunc
			persistCtx, cancel = context.WithTimeout(persistCtx,
				time.Duration(cfg.PersistTimeoutSeconds)*time.Second)
			defer cancel()
		}

		current, err := settingsStore.Get(persistCtx)
		if err != nil {
			logger.Warn("failed to load settings for persistence, using defaults", "error", err)
			current = settings.Defaults()
		}

		// A missing fix never blocks the save.
		var snapshot *location.Snapshot
		if current.LocationEnabled {
			if pos, err := locationProvider.Current(persistCtx); err == nil && pos != nil {
				snapshot = &location.Snapshot{Position: *pos}
			} else if err != nil {
				logger.Debug("no location fix for recording", "error", err)
			}
		}

		meta := assets.Metadata{
			Timestamp:      rec.StartedAt,
			Resolution:     rec.Profile.Name,
			Duration:       rec.ElapsedSeconds,
			Settings:       current,
			Location:       snapshot,
			VideoSettings:  rec.Profile,
			ExpectedSizeMB: quality.PredictSizeMB(rec.Profile.Name, rec.ElapsedSeconds),
		}

		saved, err := pipeline.Persist(persistCtx, rec.Path, meta)
		if err != nil {
			logger.Error("failed to persist recording", "session_id", rec.SessionID,
				"path", rec.Path, "error", err)
			return
		}

		logger.Info("recording persisted", "session_id", rec.SessionID,
			"file_name", saved.FileName, "method", saved.Method)
	}

	device := recording.NewGoCVDevice(logger, cfg.CameraDevice, cfg.VideoDir)

	initial, err := settingsStore.Get(ctx)
	if err != nil {
		logger.Warn("failed to load settings at startup, using defaults", "error", err)
		initial = settings.Defaults()
	}

	controller := recording.NewController(logger, device, initial.VideoQuality, sink)

	// Startup retention sweep
	if initial.AutoDeleteDays > 0 {
		deleted, err := retention.Cleanup(ctx, initial.AutoDeleteDays)
		if err != nil {
			logger.Warn("startup retention sweep failed", "error", err)
		} else if deleted > 0 {
			logger.Info("startup retention sweep done", "deleted", deleted)
		}
	}

	recordingHandler := handlers.NewRecordingHandler(logger, controller)
	settingsHandler := handlers.NewSettingsHandler(logger, settingsStore, controller)
	videoHandler := handlers.NewVideoHandler(logger, retention, settingsStore, cfg.VideoDir)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	setupRoutes(router, recordingHandler, settingsHandler, videoHandler)

	addr := fmt.Sprintf("%s:%d", cfg.WebAddr, cfg.WebPort)
	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		logger.Info("HTTP control API listening", "addr", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	// Stop a running capture so the recording is persisted before exit.
	if err := controller.Stop(ctx); err != nil && !recording.IsInvalidStateError(err) {
		logger.Warn("failed to stop capture on shutdown", "error", err)
	}

	// The persist runs inside the capture goroutine; wait for it to
	// finish, or the final recording is lost on exit.
	waitTimeout := time.Minute
	if cfg.PersistTimeoutSeconds > 0 {
		waitTimeout = time.Duration(cfg.PersistTimeoutSeconds)*time.Second + 10*time.Second
	}
	captureDone := make(chan struct{})
	go func() {
		device.Wait()
		close(captureDone)
	}()
	select {
	case <-captureDone:
	case <-time.After(waitTimeout):
		logger.Warn("timed out waiting for the final recording to persist")
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
	}

	logger.Info("stampcam stopped")
}

// setupRoutes configures the HTTP routes
func setupRoutes(router *gin.Engine, recordingHandler *handlers.RecordingHandler, settingsHandler *handlers.SettingsHandler, videoHandler *handlers.VideoHandler) {
	api := router.Group("/api")
	{
		api.POST("/recording/start", recordingHandler.Start)
		api.POST("/recording/stop", recordingHandler.Stop)
		api.GET("/recording/status", recordingHandler.Status)

		api.GET("/settings", settingsHandler.Get)
		api.PUT("/settings", settingsHandler.Replace)
		api.PATCH("/settings/:key", settingsHandler.UpdateKey)
		api.DELETE("/settings", settingsHandler.Reset)

		api.GET("/videos", videoHandler.List)
		api.POST("/videos/cleanup", videoHandler.Cleanup)
	}

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
