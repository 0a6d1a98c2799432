package vision

import (
	"context"
	"net"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tathagata48/Robo-Mechanic-Arm/pkg/api"
	"github.com/tathagata48/Robo-Mechanic-Arm/pkg/logger"
	"github.com/tathagata48/Robo-Mechanic-Arm/pkg/wire"
)

// Config - параметры подключения к vision-серверу.
type Config struct {
	Addr        string        // host:port
	DialTimeout time.Duration // таймаут установки соединения
	RetryDelay  time.Duration // пауза перед переподключением
	ReadTimeout time.Duration // ожидание ответной команды на кадр
}

// DefaultConfig - значения по умолчанию (совпадают с дефолтами сервера).
func DefaultConfig() Config {
	return Config{
		Addr:        "127.0.0.1:5005",
		DialTimeout: 3 * time.Second,
		RetryDelay:  1 * time.Second,
		ReadTimeout: 10 * time.Second,
	}
}

// Client - TCP-клиент vision-сервера. Протокол строго поочередный:
// на каждый отправленный кадр сервер отвечает одной командой.
// Соединением владеет единственная горутина Run, поэтому внутри
// нет блокировок - только атомарные счетчики для монитора.
type Client struct {
	cfg Config
	log *logrus.Entry

	// frames - почтовый ящик на один кадр. Камера кладет кадры через
	// Offer; если клиент занят или отключен, кадр просто теряется.
	// Очереди и backpressure тут не нужны: следующий кадр всегда новее.
	frames chan []byte

	// onCommand вызывается из горутины Run на каждую принятую команду.
	onCommand func(cmd string)

	framesSent  atomic.Uint64
	commands    atomic.Uint64
	reconnects  atomic.Uint64
	connected   atomic.Bool
	lastCommand atomic.Value // string
}

// New создает клиента. onCommand будет звать горутина Run.
func New(cfg Config, onCommand func(string)) *Client {
	c := &Client{
		cfg:       cfg,
		log:       logger.WithComponent("vision"),
		frames:    make(chan []byte, 1),
		onCommand: onCommand,
	}
	c.lastCommand.Store("")
	return c
}

// Offer отдает кадр на отправку без блокировки.
// Возвращает false, если кадр выброшен (нет соединения или клиент занят).
func (c *Client) Offer(frame []byte) bool {
	if !c.connected.Load() {
		return false
	}
	select {
	case c.frames <- frame:
		return true
	default:
		return false
	}
}

// Status возвращает слепок состояния для монитора.
func (c *Client) Status() api.VisionStatus {
	return api.VisionStatus{
		Connected:   c.connected.Load(),
		FramesSent:  c.framesSent.Load(),
		Commands:    c.commands.Load(),
		Reconnects:  c.reconnects.Load(),
		LastCommand: c.lastCommand.Load().(string),
	}
}

// Run гоняет цикл "подключился - стримит - упал - подождал - заново"
// до отмены контекста. Классификации ошибок нет намеренно:
// любая проблема на сокете лечится одинаково - переподключением.
func (c *Client) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}

		conn, err := c.dial(ctx)
		if err != nil {
			c.log.WithError(err).Warn("Vision server unreachable, retrying")
			if !c.sleep(ctx) {
				return
			}
			continue
		}

		c.log.Infof("🔌 Connected to vision server at %s", c.cfg.Addr)
		c.connected.Store(true)
		c.session(ctx, conn)
		c.connected.Store(false)

		if ctx.Err() != nil {
			return
		}
		c.reconnects.Add(1)
		if !c.sleep(ctx) {
			return
		}
	}
}

func (c *Client) dial(ctx context.Context) (net.Conn, error) {
	d := net.Dialer{Timeout: c.cfg.DialTimeout}
	return d.DialContext(ctx, "tcp", c.cfg.Addr)
}

// session стримит кадры по живому соединению до первой ошибки.
func (c *Client) session(ctx context.Context, conn net.Conn) {
	defer func() {
		if err := conn.Close(); err != nil {
			c.log.WithError(err).Debug("close connection")
		}
	}()

	// Будильник на случай отмены: Read/Write на сокете не умеют
	// в context, поэтому просто рубим соединение.
	watchdog := make(chan struct{})
	defer close(watchdog)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-watchdog:
		}
	}()

	// Протухший кадр от прошлой сессии не интересен
	select {
	case <-c.frames:
	default:
	}

	for {
		var frame []byte
		select {
		case <-ctx.Done():
			return
		case frame = <-c.frames:
		}

		if err := wire.WriteFrame(conn, frame); err != nil {
			c.log.WithError(err).Warn("Frame write failed, dropping connection")
			return
		}
		c.framesSent.Add(1)

		if err := conn.SetReadDeadline(time.Now().Add(c.cfg.ReadTimeout)); err != nil {
			c.log.WithError(err).Warn("failed to set read deadline")
		}
		cmd, err := wire.ReadCommand(conn)
		if err != nil {
			c.log.WithError(err).Warn("Command read failed, dropping connection")
			return
		}

		c.commands.Add(1)
		c.lastCommand.Store(cmd)
		c.log.WithField("command", cmd).Debug("Command received")
		if c.onCommand != nil {
			c.onCommand(cmd)
		}
	}
}

// sleep ждет RetryDelay или отмену. false = пора выходить.
func (c *Client) sleep(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(c.cfg.RetryDelay):
		return true
	}
}
