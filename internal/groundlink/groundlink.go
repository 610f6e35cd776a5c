// Package groundlink implements a local WebSocket rebroadcaster of
// decoded downlink telemetry, standing in for the ground-station
// TUI/radio link during bench and SITL testing. It is ground-side
// tooling, not the production CAN/VLP transport, and is explicitly
// allowed the goroutines and channels the real-time core avoids.
package groundlink

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/pozzari-rocketry/flightcore/pkg/obslog"
)

var log = obslog.Component("groundlink")

// Message is the JSON-encoded telemetry frame pushed to connected
// viewers, decoded from the wire-format packets in internal/telemetry.
type Message struct {
	Timestamp         time.Time `json:"timestamp"`
	Latitude          float64   `json:"latitude"`
	Longitude         float64   `json:"longitude"`
	BatteryVoltage    float32   `json:"battery_voltage"`
	AirTemperatureC   float32   `json:"air_temperature_c"`
	AltitudeAGL       float32   `json:"altitude_agl"`
	VerticalVelocity  float32   `json:"vertical_velocity"`
	TiltDeg           float32   `json:"tilt_deg"`
	ExtensionFraction float32   `json:"extension_fraction"`
	Phase             string    `json:"phase"`
}

// client is one connected WebSocket viewer.
type client struct {
	conn *websocket.Conn
	send chan *Message
	id   string
}

// Broadcaster fans out decoded telemetry frames to every connected
// viewer over WebSocket.
type Broadcaster struct {
	mu       sync.RWMutex
	clients  map[*client]bool
	incoming chan *Message
	upgrader websocket.Upgrader

	messagesSent  uint64
	clientsServed uint64
}

// New constructs a Broadcaster ready to accept WebSocket connections at
// HandleWebSocket and telemetry frames via Broadcast.
func New() *Broadcaster {
	return &Broadcaster{
		clients:  make(map[*client]bool),
		incoming: make(chan *Message, 100),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// HandleWebSocket upgrades an incoming HTTP request to a WebSocket
// connection and registers it as a telemetry viewer.
func (b *Broadcaster) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).Error("failed to upgrade websocket connection")
		return
	}

	c := &client{conn: conn, send: make(chan *Message, 50), id: r.RemoteAddr}
	b.register(c)
	log.WithField("client", c.id).Info("ground viewer connected")

	ctx, cancel := context.WithCancel(context.Background())
	go b.writePump(ctx, c)
	go b.readPump(ctx, cancel, c)
}

// Broadcast queues a telemetry frame for delivery to every connected
// viewer, dropping the oldest queued frame if the channel is full so a
// slow consumer never backs up telemetry production.
func (b *Broadcaster) Broadcast(msg *Message) {
	select {
	case b.incoming <- msg:
	default:
		select {
		case <-b.incoming:
		default:
		}
		b.incoming <- msg
	}
}

// Run drains queued frames to every connected client until ctx is
// canceled.
func (b *Broadcaster) Run(ctx context.Context) error {
	log.Info("groundlink broadcaster started")
	for {
		select {
		case <-ctx.Done():
			b.closeAll()
			return ctx.Err()
		case msg := <-b.incoming:
			b.fanOut(msg)
		}
	}
}

func (b *Broadcaster) fanOut(msg *Message) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for c := range b.clients {
		select {
		case c.send <- msg:
			b.messagesSent++
		default:
		}
	}
}

func (b *Broadcaster) register(c *client) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.clients[c] = true
	b.clientsServed++
}

func (b *Broadcaster) unregister(c *client) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.clients[c]; ok {
		delete(b.clients, c)
		close(c.send)
	}
}

func (b *Broadcaster) closeAll() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for c := range b.clients {
		c.conn.Close()
		close(c.send)
		delete(b.clients, c)
	}
}

// Stats returns current broadcaster counters.
func (b *Broadcaster) Stats() (clients int, sent, served uint64) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients), b.messagesSent, b.clientsServed
}

func (b *Broadcaster) writePump(ctx context.Context, c *client) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-c.send:
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			data, err := json.Marshal(msg)
			if err != nil {
				continue
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (b *Broadcaster) readPump(ctx context.Context, cancel context.CancelFunc, c *client) {
	defer func() {
		cancel()
		b.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(4096)
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
