// Package realtime subscribes to backend row changes (chat messages,
// notifications) over the Phoenix channel websocket protocol.
package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/youruser/frycards/internal/gateway"
)

const (
	eventJoin      = "phx_join"
	eventLeave     = "phx_leave"
	eventReply     = "phx_reply"
	eventHeartbeat = "heartbeat"
	eventChanges   = "postgres_changes"

	topicPrefix  = "realtime:"
	phoenixTopic = "phoenix"

	DefaultHeartbeat = 25 * time.Second
)

var ErrNotConnected = errors.New("realtime: not connected")

type message struct {
	Topic   string          `json:"topic"`
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
	Ref     string          `json:"ref,omitempty"`
}

// Filter selects the row changes a channel receives. Event is INSERT,
// UPDATE, DELETE or *.
type Filter struct {
	Event  string `json:"event"`
	Schema string `json:"schema"`
	Table  string `json:"table"`
	Filter string `json:"filter,omitempty"`
}

// Change is one row change delivered to a channel.
type Change struct {
	Schema          string          `json:"schema"`
	Table           string          `json:"table"`
	Type            string          `json:"type"`
	CommitTimestamp string          `json:"commit_timestamp"`
	Record          json.RawMessage `json:"record,omitempty"`
	OldRecord       json.RawMessage `json:"old_record,omitempty"`
}

type Handler func(Change)

type Config struct {
	BaseURL   string
	AnonKey   string
	Heartbeat time.Duration
	Logger    *slog.Logger
}

type Client struct {
	endpoint  string
	tokens    gateway.TokenSource
	heartbeat time.Duration
	log       *slog.Logger
	dialer    websocket.Dialer
	ref       atomic.Uint64

	writeMu sync.Mutex
	conn    *websocket.Conn

	mu       sync.Mutex
	channels map[string]*Channel
}

// Channel is a joined topic.
type Channel struct {
	client  *Client
	topic   string
	joinRef string
	handler Handler
	joined  atomic.Bool
}

func New(cfg Config, tokens gateway.TokenSource) (*Client, error) {
	endpoint, err := websocketURL(cfg.BaseURL, cfg.AnonKey)
	if err != nil {
		return nil, err
	}
	hb := cfg.Heartbeat
	if hb <= 0 {
		hb = DefaultHeartbeat
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		endpoint:  endpoint,
		tokens:    tokens,
		heartbeat: hb,
		log:       logger,
		dialer:    websocket.Dialer{HandshakeTimeout: 5 * time.Second},
		channels:  map[string]*Channel{},
	}, nil
}

func websocketURL(base, apiKey string) (string, error) {
	u, err := url.Parse(strings.TrimRight(base, "/"))
	if err != nil {
		return "", fmt.Errorf("realtime: parse base url: %w", err)
	}
	switch u.Scheme {
	case "https", "wss":
		u.Scheme = "wss"
	case "http", "ws":
		u.Scheme = "ws"
	default:
		return "", fmt.Errorf("realtime: unsupported scheme %q", u.Scheme)
	}
	u.Path += "/realtime/v1/websocket"
	q := url.Values{}
	q.Set("apikey", apiKey)
	q.Set("vsn", "1.0.0")
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (c *Client) Connect(ctx context.Context) error {
	conn, resp, err := c.dialer.DialContext(ctx, c.endpoint, http.Header{})
	if err != nil {
		if resp != nil {
			return fmt.Errorf("realtime: dial: %s: %w", resp.Status, err)
		}
		return fmt.Errorf("realtime: dial: %w", err)
	}
	c.writeMu.Lock()
	c.conn = conn
	c.writeMu.Unlock()
	return nil
}

func (c *Client) nextRef() string {
	return strconv.FormatUint(c.ref.Add(1), 10)
}

func (c *Client) send(m message) error {
	if m.Payload == nil {
		m.Payload = json.RawMessage(`{}`)
	}
	b, err := json.Marshal(m)
	if err != nil {
		return err
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if c.conn == nil {
		return ErrNotConnected
	}
	return c.conn.WriteMessage(websocket.TextMessage, b)
}

// Join subscribes handler to the row changes matching filters on topic.
// The topic is namespaced as realtime:<topic>.
func (c *Client) Join(ctx context.Context, topic string, filters []Filter, handler Handler) (*Channel, error) {
	token, err := c.tokens.AccessToken(ctx)
	if err != nil {
		return nil, err
	}
	payload, err := json.Marshal(map[string]any{
		"config": map[string]any{
			"broadcast":        map[string]bool{"self": false},
			"presence":         map[string]string{"key": ""},
			"postgres_changes": filters,
		},
		"access_token": token,
	})
	if err != nil {
		return nil, err
	}

	ch := &Channel{client: c, topic: topicPrefix + topic, joinRef: c.nextRef(), handler: handler}
	c.mu.Lock()
	c.channels[ch.topic] = ch
	c.mu.Unlock()

	if err := c.send(message{Topic: ch.topic, Event: eventJoin, Payload: payload, Ref: ch.joinRef}); err != nil {
		c.mu.Lock()
		delete(c.channels, ch.topic)
		c.mu.Unlock()
		return nil, err
	}
	return ch, nil
}

func (ch *Channel) Topic() string { return ch.topic }

// Joined reports whether the server acknowledged the join.
func (ch *Channel) Joined() bool { return ch.joined.Load() }

func (ch *Channel) Leave() error {
	c := ch.client
	c.mu.Lock()
	delete(c.channels, ch.topic)
	c.mu.Unlock()
	ch.joined.Store(false)
	return c.send(message{Topic: ch.topic, Event: eventLeave, Ref: c.nextRef()})
}

// Run reads and dispatches messages and sends heartbeats until ctx is done
// or the connection fails. The connection is closed when Run returns.
func (c *Client) Run(ctx context.Context) error {
	c.writeMu.Lock()
	conn := c.conn
	c.writeMu.Unlock()
	if conn == nil {
		return ErrNotConnected
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		<-ctx.Done()
		_ = c.Close()
	}()
	go c.heartbeatLoop(ctx)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("realtime: read: %w", err)
		}
		var m message
		if err := json.Unmarshal(data, &m); err != nil {
			c.log.Warn("realtime: bad frame", slog.String("error", err.Error()))
			continue
		}
		c.dispatch(m)
	}
}

func (c *Client) heartbeatLoop(ctx context.Context) {
	t := time.NewTicker(c.heartbeat)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if err := c.send(message{Topic: phoenixTopic, Event: eventHeartbeat, Ref: c.nextRef()}); err != nil {
				c.log.Warn("realtime: heartbeat failed", slog.String("error", err.Error()))
				return
			}
		}
	}
}

func (c *Client) dispatch(m message) {
	c.mu.Lock()
	ch := c.channels[m.Topic]
	c.mu.Unlock()
	if ch == nil {
		return
	}

	switch m.Event {
	case eventReply:
		if m.Ref != ch.joinRef {
			return
		}
		var reply struct {
			Status string `json:"status"`
		}
		if json.Unmarshal(m.Payload, &reply) == nil && reply.Status == "ok" {
			ch.joined.Store(true)
			return
		}
		c.log.Warn("realtime: join rejected", slog.String("topic", m.Topic), slog.String("payload", string(m.Payload)))
	case eventChanges:
		var p struct {
			Data Change `json:"data"`
		}
		if err := json.Unmarshal(m.Payload, &p); err != nil {
			c.log.Warn("realtime: bad change payload", slog.String("topic", m.Topic), slog.String("error", err.Error()))
			return
		}
		if ch.handler != nil {
			ch.handler(p.Data)
		}
	}
}

func (c *Client) Close() error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if c.conn == nil {
		return nil
	}
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
	err := c.conn.Close()
	c.conn = nil
	return err
}
