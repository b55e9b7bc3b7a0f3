package gateway

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/lxzan/gws"

	"github.com/murmurchat/murmur/internal/store"
)

const (
	// The backend closes connections that stay silent; the plain-text
	// ping/pong exchange below keeps them alive.
	pingInterval = 25 * time.Second
)

// Gateway holds the websocket subscription that delivers server pushes.
// Every decoded event is dispatched straight into the store; the gateway
// itself keeps no state beyond the connection.
type Gateway struct {
	conn  *gws.Conn
	store *store.Store
}

type handler struct {
	store *store.Store
}

// Dial connects to the gateway endpoint and starts the read loop. The
// connection lives until Close or a read error; reconnect policy is the
// caller's concern.
func Dial(ctx context.Context, addr, token string, st *store.Store) (*Gateway, error) {
	header := http.Header{}
	if token != "" {
		header.Set("Authorization", "Bearer "+token)
	}

	conn, _, err := gws.NewClient(&handler{store: st}, &gws.ClientOption{
		Addr:          addr,
		RequestHeader: header,
		PermessageDeflate: gws.PermessageDeflate{
			Enabled: true,
		},
	})
	if err != nil {
		return nil, err
	}

	g := &Gateway{conn: conn, store: st}
	go conn.ReadLoop()
	go g.heartbeat(ctx)
	return g, nil
}

// Close tears the connection down.
func (g *Gateway) Close() {
	_ = g.conn.WriteClose(1000, nil)
}

func (g *Gateway) heartbeat(ctx context.Context) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			g.Close()
			return
		case <-ticker.C:
			if err := g.conn.WriteString("ping"); err != nil {
				return
			}
		}
	}
}

func (h *handler) OnOpen(socket *gws.Conn) {
	_ = socket.SetDeadline(time.Now().Add(2 * pingInterval))
}

func (h *handler) OnClose(socket *gws.Conn, err error) {
	if err != nil {
		log.Printf("gateway closed: %v", err)
	}
}

func (h *handler) OnPing(socket *gws.Conn, payload []byte) {
	_ = socket.WritePong(payload)
}

func (h *handler) OnPong(socket *gws.Conn, payload []byte) {
	_ = socket.SetDeadline(time.Now().Add(2 * pingInterval))
}

func (h *handler) OnMessage(socket *gws.Conn, message *gws.Message) {
	defer message.Close()

	raw := message.Bytes()
	if len(raw) == 4 && string(raw) == "pong" {
		_ = socket.SetDeadline(time.Now().Add(2 * pingInterval))
		return
	}

	localUserID := ""
	if user := h.store.LoggedInUser(); user != nil {
		localUserID = user.ID
	}

	action, err := decodeEvent(raw, localUserID)
	if err != nil {
		log.Printf("gateway: %v", err)
		return
	}
	if action == nil {
		return
	}
	h.store.Dispatch(action)
}
