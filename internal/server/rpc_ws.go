package server

import (
	"context"
	"net/http"

	cws "github.com/coder/websocket"
	"github.com/creachadair/jrpc2"
)

// wsChannel adapts a WebSocket connection to the jrpc2 channel interface.
// Each JSON-RPC message maps to one WebSocket text frame.
type wsChannel struct {
	conn *cws.Conn
	ctx  context.Context
}

func (c *wsChannel) Send(data []byte) error {
	return c.conn.Write(c.ctx, cws.MessageText, data)
}

func (c *wsChannel) Recv() ([]byte, error) {
	_, data, err := c.conn.Read(c.ctx)
	return data, err
}

func (c *wsChannel) Close() error {
	return c.conn.Close(cws.StatusNormalClosure, "")
}

// handleWS upgrades the request to a WebSocket and runs a dedicated
// jrpc2 server on it. Push is enabled so countdown and toast
// notifications reach the client without polling.
func (rs *RPCServer) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := cws.Accept(w, r, &cws.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		rs.l.Println("WebSocket accept failed:", err.Error())
		return
	}

	ch := &wsChannel{conn: conn, ctx: r.Context()}
	srv := jrpc2.NewServer(rs.methods, &jrpc2.ServerOptions{
		AllowPush: true,
	})
	srv.Start(ch)

	rs.notifier.Register(srv)
	defer rs.notifier.Unregister(srv)

	srv.Wait()
}
