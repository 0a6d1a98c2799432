package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/tathagata48/Robo-Mechanic-Arm/internal/engine"
	"github.com/tathagata48/Robo-Mechanic-Arm/internal/server"
	"github.com/tathagata48/Robo-Mechanic-Arm/internal/version"
	"github.com/tathagata48/Robo-Mechanic-Arm/pkg/logger"
)

func init() {
	logger.Init()
}

func main() {
	// 1. Парсинг конфигурации
	var (
		cfgPath    string
		replayPath string
		seed       int64
		visionAddr string
	)
	pflag.StringVar(&cfgPath, "config", "", "Path to TOML config (watched for stream setting changes)")
	pflag.StringVar(&replayPath, "replay", "", "Path to .rmar session file to simulate")
	pflag.Int64Var(&seed, "seed", 0, "Spawner seed (0 for random)")
	pflag.StringVar(&visionAddr, "vision-addr", "", "Vision server address override")
	pflag.Parse()

	logger.Log.Info("Starting Robo Mechanic Arm client...")
	logger.Log.Info(version.String())

	cfg := engine.NewConfig()
	if cfgPath != "" {
		var err error
		cfg, err = engine.LoadConfig(cfgPath)
		if err != nil {
			logger.Log.Fatal("Config error: ", err)
		}
	}

	// Переопределения: окружение, затем флаги
	if addr := os.Getenv("RM_VISION_ADDR"); addr != "" {
		cfg.Vision.Addr = addr
	}
	if visionAddr != "" {
		cfg.Vision.Addr = visionAddr
	}
	if seed != 0 {
		cfg.Seed = seed
		logger.Log.Infof("🎲 Using explicit spawner seed: %d", seed)
	} else {
		logger.Log.Infof("🎲 Using random spawner seed: %d", cfg.Seed)
	}

	// РЕЖИМ РЕПЛЕЯ
	if replayPath != "" {
		logger.Log.Info("💿 Mode: Session Playback")

		svc, err := engine.LoadSession(cfg, replayPath)
		if err != nil {
			logger.Log.Fatal("Failed to load session: ", err)
		}
		if err := svc.RunPlayback(context.Background()); err != nil {
			logger.Log.Fatal("Playback error: ", err)
		}
		return
	}

	port := os.Getenv("RM_PORT")
	if port == "" {
		port = "8080"
	}

	// 2. Инициализация движка
	svc := engine.NewService(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	go svc.Run(ctx)

	if cfgPath != "" {
		go func() {
			if err := engine.WatchConfig(ctx, cfgPath, svc.ApplyStreamSettings); err != nil {
				logger.Log.WithError(err).Warn("Config watcher stopped")
			}
		}()
	}

	// 3. Запуск монитора
	srv := server.New(svc, port)
	go func() {
		if err := srv.Run(); err != nil {
			logger.Log.Fatal("Server start error: ", err)
		}
	}()

	// Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Log.Info("Shutting down...")
	cancel()

	// Дожидаемся остановки цикла: запись сессии пишется из него
	<-svc.Done()

	if _, err := svc.SaveSession(); err != nil {
		logger.Log.WithError(err).Error("Failed to save session")
	}

	logger.Log.Info("Done.")
}
