package vision

import (
	"context"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tathagata48/Robo-Mechanic-Arm/pkg/wire"
)

// testServer - минимальный vision-сервер: на каждый кадр отвечает
// очередной командой из script.
type testServer struct {
	ln     net.Listener
	script []string

	mu     sync.Mutex
	frames [][]byte
	conns  []net.Conn
}

func newTestServer(t *testing.T, script []string) *testServer {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := &testServer{ln: ln, script: script}
	go srv.serve()
	t.Cleanup(func() { ln.Close() })
	return srv
}

func (s *testServer) serve() {
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			return
		}
		s.mu.Lock()
		s.conns = append(s.conns, conn)
		s.mu.Unlock()
		go s.handle(conn)
	}
}

func (s *testServer) handle(conn net.Conn) {
	defer conn.Close()
	i := 0
	for {
		frame, err := wire.ReadFrame(conn)
		if err != nil {
			return
		}
		s.mu.Lock()
		s.frames = append(s.frames, frame)
		s.mu.Unlock()

		cmd := "idle"
		if i < len(s.script) {
			cmd = s.script[i]
		}
		i++
		if err := wire.WriteCommand(conn, cmd); err != nil {
			return
		}
	}
}

// stop закрывает и листенер, и активные сессии.
func (s *testServer) stop() {
	s.ln.Close()
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, conn := range s.conns {
		conn.Close()
	}
}

func (s *testServer) receivedFrames() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.frames)
}

func testConfig(addr string) Config {
	cfg := DefaultConfig()
	cfg.Addr = addr
	cfg.RetryDelay = 20 * time.Millisecond
	cfg.ReadTimeout = 2 * time.Second
	return cfg
}

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal(msg)
}

func TestClientStreamsAndReceivesCommands(t *testing.T) {
	srv := newTestServer(t, []string{"movered", "pickup", "idle"})

	var mu sync.Mutex
	var got []string
	client := New(testConfig(srv.ln.Addr().String()), func(cmd string) {
		mu.Lock()
		got = append(got, cmd)
		mu.Unlock()
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go client.Run(ctx)

	waitFor(t, func() bool { return client.Status().Connected }, "client never connected")

	frame := []byte{0xFF, 0xD8, 0xFF} // псевдо-JPEG, серверу все равно
	for i := 0; i < 3; i++ {
		waitFor(t, func() bool { return client.Offer(frame) }, "offer never accepted")
		want := uint64(i + 1)
		waitFor(t, func() bool { return client.Status().Commands >= want }, "command not received")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"movered", "pickup", "idle"}, got)
	assert.Equal(t, 3, srv.receivedFrames())
	assert.Equal(t, "idle", client.Status().LastCommand)
}

func TestClientOfferDropsWhenDisconnected(t *testing.T) {
	client := New(testConfig("127.0.0.1:1"), nil)
	assert.False(t, client.Offer([]byte("frame")), "offer must drop frames with no connection")
}

func TestClientReconnectsAfterServerDrop(t *testing.T) {
	srv := newTestServer(t, []string{"idle"})

	client := New(testConfig(srv.ln.Addr().String()), nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go client.Run(ctx)

	waitFor(t, func() bool { return client.Status().Connected }, "initial connect failed")

	// Роняем сервер. Клиент заметит обрыв на ближайшей отправке кадра.
	srv.stop()
	waitFor(t, func() bool {
		client.Offer([]byte("x"))
		return !client.Status().Connected || client.Status().Reconnects >= 1
	}, "client did not notice the drop")

	// Поднимаем сервер на том же адресе
	ln, err := net.Listen("tcp", srv.ln.Addr().String())
	require.NoError(t, err)
	defer ln.Close()
	srv2 := &testServer{ln: ln, script: []string{"idle"}}
	go srv2.serve()

	waitFor(t, func() bool {
		st := client.Status()
		return st.Connected && st.Reconnects >= 1
	}, "client did not reconnect")
}

func TestClientStopsOnContextCancel(t *testing.T) {
	srv := newTestServer(t, nil)

	client := New(testConfig(srv.ln.Addr().String()), nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		client.Run(ctx)
		close(done)
	}()

	waitFor(t, func() bool { return client.Status().Connected }, "client never connected")
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after context cancel")
	}
	assert.False(t, client.Status().Connected)
}
