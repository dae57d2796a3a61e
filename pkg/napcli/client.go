// Package napcli implements the client side of the tasknap daemon
// socket protocol: framed request/response calls plus a listen loop for
// pushed countdown and toast updates.
package napcli

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/tasknap/tasknap/common"
)

// dialFunc points to the actual dial implementation so tests can inject
// mock connections.
var dialFunc = net.Dial

// ensureDaemonFunc points to the daemon autostart check so tests can
// skip spawning a real daemon.
var ensureDaemonFunc = ensureDaemon

// dialURIFunc points to the URI dial implementation so tests can inject
// mock connections for explicit endpoints.
var dialURIFunc = dialURI

type Client struct {
	mu     *sync.RWMutex
	d      *Dispatcher
	conn   net.Conn
	listen bool
}

// NewClient connects to the daemon, spawning it first when it is not
// already running.
func NewClient() (*Client, error) {
	if err := ensureDaemonFunc(); err != nil {
		return nil, fmt.Errorf("failed to start daemon: %w", err)
	}
	conn, err := dial()
	if err != nil {
		err = fmt.Errorf("error connecting to daemon: %s", err.Error())
		return nil, err
	}
	return newClient(conn), nil
}

// NewClientIfRunning connects to an already-running daemon without the
// autostart behavior of NewClient. Callers that must not spawn a
// daemon, like the stop-daemon command, use this.
func NewClientIfRunning() (*Client, error) {
	conn, err := dial()
	if err != nil {
		return nil, fmt.Errorf("error connecting to daemon: %s", err.Error())
	}
	return newClient(conn), nil
}

// NewClientWithURI connects to the daemon at an explicit endpoint given
// as a unix://, tcp://, or pipe:// URI. An empty URI falls back to
// NewClient with its autostart behavior; explicit endpoints never spawn
// a daemon.
func NewClientWithURI(uri string) (*Client, error) {
	if uri == "" {
		return NewClient()
	}
	parsed, err := ParseDaemonURI(uri)
	if err != nil {
		return nil, err
	}
	conn, err := dialURIFunc(parsed)
	if err != nil {
		return nil, err
	}
	return newClient(conn), nil
}

func newClient(conn net.Conn) *Client {
	return &Client{
		conn: conn,
		mu:   &sync.RWMutex{},
		d: &Dispatcher{
			Handlers: make(map[common.UpdateType][]Handler),
		},
	}
}

// AddHandler registers a handler for pushed updates of the given type.
func (c *Client) AddHandler(utype common.UpdateType, h Handler) {
	c.d.AddHandler(utype, h)
}

// RemoveHandler unregisters all handlers for the given update type.
func (c *Client) RemoveHandler(utype common.UpdateType) {
	delete(c.d.Handlers, utype)
}

// Disconnect stops the listen loop after the current update.
func (c *Client) Disconnect() {
	c.listen = false
}

func (c *Client) Close() error {
	return c.conn.Close()
}

// Listen reads pushed updates and dispatches them to the registered
// handlers until a handler returns ErrDisconnect or the connection
// fails.
func (c *Client) Listen() (err error) {
	c.listen = true
	defer c.conn.Close()
	for c.listen {
		c.mu.RLock()
		var buf []byte
		buf, err = read(c.conn)
		if err != nil {
			c.mu.RUnlock()
			err = fmt.Errorf("error reading: %s", err.Error())
			return
		}
		err = c.d.process(buf)
		if err != nil {
			c.mu.RUnlock()
			if err == ErrDisconnect {
				err = nil
				break
			}
			err = fmt.Errorf("error processing: %s", err.Error())
			return
		}
		c.mu.RUnlock()
	}
	return
}

func (c *Client) invoke(method common.UpdateType, message any) (json.RawMessage, error) {
	// block updates listener while invoking a method
	// to retrieve the message update here instead
	c.mu.Lock()
	defer c.mu.Unlock()
	buf, err := json.Marshal(&Request{
		Method:  method,
		Message: message,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to invoke %s: %s", method, err.Error())
	}
	err = write(c.conn, buf)
	if err != nil {
		return nil, fmt.Errorf("failed to invoke %s: %s", method, err.Error())
	}
	buf, err = read(c.conn)
	if err != nil {
		return nil, fmt.Errorf("failed to invoke %s: %s", method, err.Error())
	}
	var res Response
	err = json.Unmarshal(buf, &res)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %s", method, err.Error())
	}
	if !res.Ok {
		return nil, errors.New(res.Error)
	}
	return res.Update.Message, nil
}
