package ws

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/vwhost/internal/domain/event"
	"github.com/GriffinCanCode/vwhost/internal/infrastructure/mainloop"
	"github.com/GriffinCanCode/vwhost/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/vwhost/internal/shared/types"
)

const (
	writeWait    = 10 * time.Second
	pongWait     = 60 * time.Second
	pingPeriod   = pongWait * 9 / 10
	maxReadBytes = 4096
	// SendBuffer is how many events may queue for one client before it is
	// dropped as too slow
	SendBuffer = 64
)

// Message is one frame sent to the shell
type Message struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

// clientMessage is one frame received from the shell
type clientMessage struct {
	Type   string   `json:"type"`
	Events []string `json:"events,omitempty"`
}

// Snapshotter provides the window list sent on connect
type Snapshotter interface {
	Windows() []types.WindowInfo
}

// Handler streams bus events to WebSocket clients
type Handler struct {
	bus      *event.Bus
	loop     *mainloop.Loop
	windows  Snapshotter
	metrics  *monitoring.Metrics
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

// NewHandler creates a new WebSocket handler
func NewHandler(bus *event.Bus, loop *mainloop.Loop, windows Snapshotter, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		bus:     bus,
		loop:    loop,
		windows: windows,
		logger:  logger.Named("ws"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// CORS middleware already vetted the origin
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// WithMetrics adds connection tracking
func (h *Handler) WithMetrics(metrics *monitoring.Metrics) *Handler {
	h.metrics = metrics
	return h
}

// client is one connected shell
type client struct {
	conn   *websocket.Conn
	send   chan []byte
	mu     sync.Mutex
	filter map[string]struct{}
	// events before the hello are already part of its window list
	greeted bool
	closed  bool
	slow    bool
}

// wants reports whether the client asked for this event type
func (c *client) wants(eventType string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.filter) == 0 {
		return true
	}
	_, ok := c.filter[eventType]
	return ok
}

func (c *client) setFilter(types []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filter = make(map[string]struct{}, len(types))
	for _, t := range types {
		c.filter[t] = struct{}{}
	}
}

// enqueue hands a frame to the writer without blocking. A full buffer
// closes the client.
func (c *client) enqueue(frame []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.push(frame)
}

// hello queues the greeting once. Later calls are ignored.
func (c *client) hello(frame []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.greeted {
		return
	}
	c.greeted = true
	c.push(frame)
}

func (c *client) isGreeted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.greeted
}

func (c *client) push(frame []byte) bool {
	if c.closed {
		return false
	}
	select {
	case c.send <- frame:
		return true
	default:
		c.closed = true
		c.slow = true
		close(c.send)
		return false
	}
}

func (c *client) dropped() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.slow
}

func (c *client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// HandleConnection upgrades the request and streams events until the client
// goes away
func (h *Handler) HandleConnection(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}

	cl := &client{conn: conn, send: make(chan []byte, SendBuffer)}
	h.metrics.IncWSConnections()
	defer h.metrics.DecWSConnections()

	subID := h.bus.SubscribeAll(func(ev event.Event) {
		if !cl.isGreeted() || !cl.wants(ev.EventType()) {
			return
		}
		frame, err := encode(ev.EventType(), ev)
		if err != nil {
			h.logger.Error("Event not encoded", zap.String("event", ev.EventType()), zap.Error(err))
			return
		}
		if !cl.enqueue(frame) {
			h.logger.Debug("Dropping slow WebSocket client", zap.String("remote", conn.RemoteAddr().String()))
		}
	})
	defer h.bus.Unsubscribe(subID)
	h.greet(c.Request.Context(), cl)

	done := make(chan struct{})
	go func() {
		defer close(done)
		h.writePump(cl)
	}()

	h.readPump(cl)
	cl.close()
	<-done
}

// greet sends the current window list so the shell can render before the
// first event arrives. The list is taken and queued on the main loop, so
// every event published after it follows the hello and none is missed.
func (h *Handler) greet(ctx context.Context, cl *client) {
	hello := func(windows []types.WindowInfo) {
		frame, err := encode("hello", gin.H{"windows": windows})
		if err != nil {
			h.logger.Error("Hello not encoded", zap.Error(err))
			frame, _ = encode("hello", gin.H{"windows": nil})
		}
		cl.hello(frame)
	}
	if h.windows != nil && h.loop != nil {
		ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		err := h.loop.Do(ctx, func() { hello(h.windows.Windows()) })
		if err == nil {
			return
		}
		h.logger.Warn("Greeting without window list", zap.Error(err))
	}
	hello(nil)
}

func (h *Handler) readPump(cl *client) {
	cl.conn.SetReadLimit(maxReadBytes)
	_ = cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	cl.conn.SetPongHandler(func(string) error {
		return cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := cl.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("WebSocket read error", zap.Error(err))
			}
			return
		}

		var msg clientMessage
		if err := sonic.Unmarshal(data, &msg); err != nil {
			h.reply(cl, "error", gin.H{"message": "invalid message"})
			continue
		}
		switch msg.Type {
		case "ping":
			h.reply(cl, "pong", nil)
		case "subscribe":
			cl.setFilter(msg.Events)
			h.reply(cl, "subscribed", gin.H{"events": msg.Events})
		default:
			h.reply(cl, "error", gin.H{"message": "unknown message type"})
		}
	}
}

func (h *Handler) writePump(cl *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		cl.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-cl.send:
			_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				if cl.dropped() {
					_ = cl.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "too slow"))
				}
				return
			}
			if err := cl.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := cl.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *Handler) reply(cl *client, msgType string, data interface{}) {
	if frame, err := encode(msgType, data); err == nil {
		cl.enqueue(frame)
	}
}

func encode(msgType string, data interface{}) ([]byte, error) {
	return sonic.Marshal(Message{Type: msgType, Data: data, Timestamp: time.Now().UnixMilli()})
}
