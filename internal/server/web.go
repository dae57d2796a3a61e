package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"

	"github.com/tasknap/tasknap/common"
	"golang.org/x/net/websocket"
)

// WebServer exposes the daemon's update stream over a WebSocket so
// tray applets and dashboards can follow countdowns without speaking
// the socket protocol themselves. Each frame carries one length-
// prefixed response, the same bytes a socket subscriber would read.
type WebServer struct {
	port   int
	l      *log.Logger
	pool   *Pool
	server *http.Server
	mu     sync.Mutex
}

func NewWebServer(l *log.Logger, pool *Pool, port int) *WebServer {
	return &WebServer{
		port: port,
		l:    l,
		pool: pool,
	}
}

// handleConnection subscribes the WebSocket to the broadcast pool and
// blocks until the client goes away. A websocket.Conn is a net.Conn,
// so the pool writes to it like any socket subscriber. Binary frames
// keep the length prefix intact.
func (ws *WebServer) handleConnection(conn *websocket.Conn) {
	conn.PayloadType = websocket.BinaryFrame
	sc := NewSyncConn(conn)
	ws.pool.Subscribe(sc)
	defer func() {
		ws.pool.Unsubscribe(sc)
		conn.Close()
	}()

	for {
		var msg []byte
		if err := websocket.Message.Receive(conn, &msg); err != nil {
			return
		}
	}
}

func (ws *WebServer) handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/events", websocket.Handler(ws.handleConnection))
	return mux
}

func (ws *WebServer) addr() string {
	return fmt.Sprintf("%s:%d", common.TCPHost, ws.port)
}

// Start serves the event feed until Shutdown.
func (ws *WebServer) Start() error {
	ws.mu.Lock()
	ws.server = &http.Server{
		Addr:    ws.addr(),
		Handler: ws.handler(),
	}
	srv := ws.server
	ws.mu.Unlock()

	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (ws *WebServer) Shutdown(ctx context.Context) error {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	if ws.server == nil {
		return nil
	}
	return ws.server.Shutdown(ctx)
}
