package server

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/tathagata48/Robo-Mechanic-Arm/internal/domain"
	"github.com/tathagata48/Robo-Mechanic-Arm/internal/engine"
	"github.com/tathagata48/Robo-Mechanic-Arm/pkg/api"
	"github.com/tathagata48/Robo-Mechanic-Arm/pkg/logger"
)

// Настройки WebSocket
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Client - посредник между WebSocket наблюдателя и движком.
// Наблюдатель в основном читает слепки; небольшая отладочная
// поверхность команд (spawn, idle, status) идет в общий канал движка.
type Client struct {
	Engine     *engine.Service
	Conn       *websocket.Conn
	Send       chan api.Snapshot
	ObserverID string

	// done закрывается при выходе writePump: пересылка из хаба
	// не должна виснуть на Send, когда писать уже некому
	done chan struct{}
}

func NewClient(eng *engine.Service, conn *websocket.Conn) *Client {
	return &Client{
		Engine:     eng,
		Conn:       conn,
		Send:       make(chan api.Snapshot, 64),
		ObserverID: uuid.NewString(),
		done:       make(chan struct{}),
	}
}

// readPump читает команды наблюдателя
func (c *Client) readPump() {
	defer func() {
		c.Engine.Hub.Unregister(c.ObserverID)
		if err := c.Conn.Close(); err != nil {
			logger.Log.WithError(err).Debug("close websocket connection")
		}
		logger.Log.WithField("observer", c.ObserverID).Info("Observer disconnected")
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		logger.Log.WithError(err).Warn("failed to set read deadline")
	}
	c.Conn.SetPongHandler(func(string) error {
		if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			logger.Log.WithError(err).Warn("failed to set pong read deadline")
		}
		return nil
	})

	// Подписка на слепки сцены
	updates := c.Engine.Hub.Register(c.ObserverID)
	go func() {
		for msg := range updates {
			select {
			case c.Send <- msg:
			case <-c.done:
				return
			}
		}
		close(c.Send)
	}()

	logger.Log.WithField("observer", c.ObserverID).Info("Observer connected")
	c.Engine.ProcessCommand(api.ClientCommand{Action: "INIT"}, domain.SourceMonitor)

	for {
		var cmd api.ClientCommand
		err := c.Conn.ReadJSON(&cmd)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Log.Errorf("WS Error: %v", err)
			}
			break
		}
		c.Engine.ProcessCommand(cmd, domain.SourceMonitor)
	}
}

// writePump отправляет слепки наблюдателю + Ping
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		close(c.done)
		if err := c.Conn.Close(); err != nil {
			logger.Log.WithError(err).Debug("close websocket connection in writePump")
		}
	}()

	for {
		select {
		case message, ok := <-c.Send:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				logger.Log.WithError(err).Warn("failed to set write deadline")
			}
			if !ok {
				if err := c.Conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
					logger.Log.WithError(err).Debug("write close message failed")
				}
				return
			}
			if err := c.Conn.WriteJSON(message); err != nil {
				logger.Log.WithError(err).Debug("write json message failed")
				return
			}

		case <-ticker.C:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				logger.Log.WithError(err).Warn("failed to set ping write deadline")
			}
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				logger.Log.WithError(err).Debug("ping failed")
				return
			}
		}
	}
}
