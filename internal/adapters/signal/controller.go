package signal

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/creativemexy/learnvastora-sub003/internal/app"
	"github.com/creativemexy/learnvastora-sub003/internal/config"
	"github.com/creativemexy/learnvastora-sub003/internal/core"
	"github.com/creativemexy/learnvastora-sub003/internal/domain"
)

var (
	ErrBackpressure = errors.New("backpressure")
	ErrConnClosed   = errors.New("connection closed")
)

// Controller owns the signaling WebSocket endpoint: it upgrades connections,
// pumps frames, and routes decoded events into the lifecycle and relay.
type Controller struct {
	cfg       *config.Config
	lifecycle *app.Lifecycle
	relay     *app.Relay
}

func NewController(cfg *config.Config, lifecycle *app.Lifecycle, relay *app.Relay) *Controller {
	return &Controller{cfg: cfg, lifecycle: lifecycle, relay: relay}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsSignalConn adapts a gorilla connection to core.SignalConnection. Writes
// go through a buffered channel so fan-out never blocks on a slow peer.
type wsSignalConn struct {
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func (c *wsSignalConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return ErrConnClosed
	}
	select {
	case c.send <- f:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *wsSignalConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

// Handle upgrades the request and starts the read/write pumps. Each upgrade
// gets a fresh connection handle: a reconnecting user is a new participant.
func (ctl *Controller) Handle(ctx context.Context, c *gin.Context) {
	sid := domain.ConnID(uuid.NewString())
	log.Info().Str("module", "signal").Str("conn", string(sid)).Str("client_token", c.GetString("client_token")).Msg("new WS connection")

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}
	ws.SetReadLimit(ctl.cfg.ReadLimit)

	conn := &wsSignalConn{
		conn: ws,
		send: make(chan core.Frame, ctl.cfg.SendBuffer),
	}

	ctl.lifecycle.Connect(sid, conn)

	limiter := rate.NewLimiter(rate.Limit(ctl.cfg.SignalRate), ctl.cfg.SignalBurst)
	ctx, cancel := context.WithCancel(ctx)

	go ctl.writePump(ctx, conn)
	go ctl.readPump(ctx, cancel, sid, conn, limiter)
}
