package visionsim

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"net"

	"github.com/sirupsen/logrus"

	"github.com/tathagata48/Robo-Mechanic-Arm/internal/domain"
	"github.com/tathagata48/Robo-Mechanic-Arm/pkg/logger"
	"github.com/tathagata48/Robo-Mechanic-Arm/pkg/wire"
)

// Заглушка vision-сервера: принимает кадры по тому же протоколу,
// что и настоящий пайплайн, и отвечает movered/idle по доле красных
// пикселей. Никакого компьютерного зрения - только то, что нужно
// замкнуть демо без Python.

// Config - параметры заглушки.
type Config struct {
	// MinRedRatio - порог доли красных пикселей для movered.
	// Значение по умолчанию совпадает с настоящим сервером.
	MinRedRatio float64

	// PickupAfter - после скольких подряд "красных" кадров отвечать
	// pickup вместо movered. 0 - никогда (поведение оригинала).
	PickupAfter int
}

func DefaultConfig() Config {
	return Config{MinRedRatio: 0.005, PickupAfter: 0}
}

// Server обслуживает одного клиента за раз, как и оригинал.
type Server struct {
	cfg Config
	log *logrus.Entry
}

func New(cfg Config) *Server {
	return &Server{
		cfg: cfg,
		log: logger.WithComponent("visionsim"),
	}
}

// Serve принимает клиентов до отмены контекста или закрытия листенера.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	s.log.Infof("Vision stub listening on %s", ln.Addr())

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("accept: %w", err)
		}

		s.log.Infof("Client connected: %s", conn.RemoteAddr())
		if err := s.handleClient(conn); err != nil {
			s.log.WithError(err).Info("Client disconnected")
		}
		conn.Close()
	}
}

// handleClient крутит цикл кадр-команда до первой ошибки.
func (s *Server) handleClient(conn net.Conn) error {
	redStreak := 0

	for {
		payload, err := wire.ReadFrame(conn)
		if err != nil {
			return err
		}

		img, err := jpeg.Decode(bytes.NewReader(payload))
		if err != nil {
			return fmt.Errorf("decode frame: %w", err)
		}

		cmd := domain.CommandIdle
		if RedRatio(img) >= s.cfg.MinRedRatio {
			redStreak++
			cmd = domain.CommandMoveRed
			if s.cfg.PickupAfter > 0 && redStreak >= s.cfg.PickupAfter {
				cmd = domain.CommandPickup
				redStreak = 0
			}
		} else {
			redStreak = 0
		}

		if err := wire.WriteCommand(conn, cmd); err != nil {
			return err
		}
	}
}

// RedRatio возвращает долю красных пикселей кадра.
// Грубый RGB-аналог HSV-диапазона настоящего детектора; на наших
// синтетических кадрах с чистыми цветами этого достаточно.
func RedRatio(img image.Image) float64 {
	b := img.Bounds()
	total := b.Dx() * b.Dy()
	if total == 0 {
		return 0
	}

	red := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bb, _ := img.At(x, y).RGBA()
			// RGBA возвращает 16-битные каналы
			if r>>8 > 150 && g>>8 < 90 && bb>>8 < 90 {
				red++
			}
		}
	}
	return float64(red) / float64(total)
}
