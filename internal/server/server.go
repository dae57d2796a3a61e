package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"sync"
	"time"

	"github.com/tasknap/tasknap/common"
)

// Server accepts connections from CLI clients on the local socket,
// dispatching framed requests to registered handlers. The optional web
// feed and RPC bridge are started and stopped with it.
type Server struct {
	log      *log.Logger
	pool     *Pool
	ws       *WebServer
	rpc      *RPCServer
	handler  map[common.UpdateType]HandlerFunc
	port     int
	listener net.Listener
	mu       sync.Mutex
}

// NewServer creates a Server listening on the platform transport with
// a TCP fallback on the given port. ws and rpc may be nil when those
// surfaces are disabled.
func NewServer(l *log.Logger, pool *Pool, port int, ws *WebServer, rpc *RPCServer) *Server {
	return &Server{
		log:     l,
		pool:    pool,
		ws:      ws,
		rpc:     rpc,
		handler: make(map[common.UpdateType]HandlerFunc),
		port:    port,
	}
}

// RegisterHandler associates a handler function with a request method.
// When a request with the given method is received, the corresponding
// handler is invoked.
func (s *Server) RegisterHandler(method common.UpdateType, handler HandlerFunc) {
	s.handler[method] = handler
}

// Pool returns the subscriber pool shared with push notifiers.
func (s *Server) Pool() *Pool {
	return s.pool
}

// Start begins listening for incoming connections and blocks until the
// context is canceled. The web feed and RPC bridge run in their own
// goroutines; each accepted socket connection gets one too.
func (s *Server) Start(ctx context.Context) error {
	if s.ws != nil {
		go func() {
			if err := s.ws.Start(); err != nil {
				s.log.Println("Web feed error:", err.Error())
			}
		}()
	}
	if s.rpc != nil {
		go func() {
			if err := s.rpc.Start(); err != nil {
				s.log.Println("RPC bridge error:", err.Error())
			}
		}()
	}

	l, err := s.createListener()
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.listener = l
	s.mu.Unlock()

	// Watch for context cancellation to trigger shutdown
	go func() {
		<-ctx.Done()
		_ = s.Shutdown()
	}()

	for {
		conn, err := l.Accept()
		if err != nil {
			// Check if we're shutting down
			select {
			case <-ctx.Done():
				return nil
			default:
			}
			s.log.Println("Error accepting:", err.Error())
			continue
		}
		go s.handleConnection(conn)
	}
}

// Shutdown gracefully stops the server by closing the listener, the
// web feed, and the RPC bridge, and removing the socket file.
func (s *Server) Shutdown() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener != nil {
		if err := s.listener.Close(); err != nil {
			s.log.Printf("Error closing listener: %v", err)
		}
		s.listener = nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if s.ws != nil {
		if err := s.ws.Shutdown(shutdownCtx); err != nil {
			s.log.Printf("Error shutting down web feed: %v", err)
		}
	}
	if s.rpc != nil {
		if err := s.rpc.Shutdown(shutdownCtx); err != nil {
			s.log.Printf("Error shutting down RPC bridge: %v", err)
		}
	}

	if err := cleanupSocket(); err != nil {
		s.log.Printf("Error removing socket file: %v", err)
	}

	return nil
}

func (s *Server) handleConnection(conn net.Conn) {
	sconn := NewSyncConn(conn)
	defer func() {
		s.pool.Unsubscribe(sconn)
		_ = conn.Close()
	}()
	for {
		buf, err := sconn.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			s.log.Println("Error reading:", err.Error())
			break
		}
		err = s.handlerWrapper(sconn, buf)
		if err != nil {
			s.log.Println("Error handling:", err.Error())
			break
		}
	}
}

func (s *Server) handlerWrapper(sconn *SyncConn, b []byte) error {
	req, err := ParseRequest(b)
	if err != nil {
		return fmt.Errorf("error parsing request: %s", err.Error())
	}
	rHandler, ok := s.handler[req.Method]
	if !ok {
		err = sconn.Write(CreateError("unknown method: " + string(req.Method)))
		if err != nil {
			return fmt.Errorf("error writing response: %s", err.Error())
		}
		return nil
	}
	utype, msg, err := rHandler(sconn, s.pool, req.Message)
	if err != nil {
		err = sconn.Write(InitError(err))
		if err != nil {
			return fmt.Errorf("error writing response: %s", err.Error())
		}
		return nil
	}
	err = sconn.Write(MakeResult(utype, msg))
	if err != nil {
		return fmt.Errorf("error writing response: %s", err.Error())
	}
	return nil
}
