package server

import (
	"net/http"
	"net/http/httptest"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/tathagata48/Robo-Mechanic-Arm/internal/engine"
	"github.com/tathagata48/Robo-Mechanic-Arm/pkg/api"
)

func newTestServer(t *testing.T) (*engine.Service, string) {
	t.Helper()
	svc := engine.NewService(engine.NewConfig())
	srv := New(svc, "0")

	ts := httptest.NewServer(http.HandlerFunc(srv.handleWS))
	t.Cleanup(ts.Close)

	return svc, "ws" + strings.TrimPrefix(ts.URL, "http")
}

func dialObserver(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	return conn
}

func TestObserverStreamAndCommands(t *testing.T) {
	svc, url := newTestServer(t)

	conn := dialObserver(t, url)
	defer conn.Close()

	require.Eventually(t, func() bool {
		return svc.Hub.SubscriberCount() == 1
	}, 2*time.Second, 10*time.Millisecond, "observer must register in the hub")

	// INIT уходит в канал движка автоматически при подключении
	require.Eventually(t, func() bool {
		return len(svc.CommandChan) == 1
	}, 2*time.Second, 10*time.Millisecond, "auto INIT must reach the command channel")

	// Слепок доходит до наблюдателя
	svc.Hub.Broadcast(svc.Snapshot())

	var snap api.Snapshot
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, conn.ReadJSON(&snap))
	require.Equal(t, "UPDATE", snap.Type)

	// Команда наблюдателя доходит до канала движка
	require.NoError(t, conn.WriteJSON(api.ClientCommand{Action: "status"}))
	require.Eventually(t, func() bool {
		return len(svc.CommandChan) == 2
	}, 2*time.Second, 10*time.Millisecond, "observer command must reach the command channel")

	conn.Close()
	require.Eventually(t, func() bool {
		return svc.Hub.SubscriberCount() == 0
	}, 2*time.Second, 10*time.Millisecond, "observer must unregister on disconnect")
}

func TestObserverDisconnectUnderLoad(t *testing.T) {
	svc, url := newTestServer(t)

	// Жирный слепок, чтобы TCP-буферы не проглотили весь поток:
	// очередь отправки должна реально забиться
	snap := svc.Snapshot()
	snap.Logs = []api.LogEntry{{Text: strings.Repeat("x", 4096)}}

	baseline := runtime.NumGoroutine()

	// Наблюдатель, который не читает: буферы подписки и отправки
	// забиваются, затем соединение рвется. Горутина пересылки
	// не должна остаться висеть на заполненном Send.
	for i := 0; i < 5; i++ {
		conn := dialObserver(t, url)

		require.Eventually(t, func() bool {
			return svc.Hub.SubscriberCount() == 1
		}, 2*time.Second, 10*time.Millisecond)

		for j := 0; j < 200; j++ {
			svc.Hub.Broadcast(snap)
		}
		conn.Close()

		require.Eventually(t, func() bool {
			return svc.Hub.SubscriberCount() == 0
		}, 2*time.Second, 10*time.Millisecond)
	}

	require.Eventually(t, func() bool {
		return runtime.NumGoroutine() <= baseline+2
	}, 5*time.Second, 50*time.Millisecond, "forwarding goroutines must exit after disconnect")
}
