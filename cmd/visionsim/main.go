package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/tathagata48/Robo-Mechanic-Arm/internal/visionsim"
	"github.com/tathagata48/Robo-Mechanic-Arm/pkg/logger"
)

var (
	addr        = pflag.String("addr", "127.0.0.1:5005", "адрес для приёма кадров")
	minRed      = pflag.Float64("min-red", 0.005, "порог доли красных пикселей")
	pickupAfter = pflag.Int("pickup-after", 0, "после скольких красных кадров подряд отвечать pickup (0 - никогда)")
)

func init() {
	logger.Init()
}

func main() {
	pflag.Parse()

	cfg := visionsim.DefaultConfig()
	cfg.MinRedRatio = *minRed
	cfg.PickupAfter = *pickupAfter

	ln, err := net.Listen("tcp", *addr)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to listen")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Log.Info("Shutting down...")
		cancel()
	}()

	if err := visionsim.New(cfg).Serve(ctx, ln); err != nil {
		logger.Log.WithError(err).Fatal("Server stopped")
	}
	logger.Log.Info("Done.")
}
