package discord

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// Bus event names.
const (
	EventReady             = "ready"
	EventInteractionCreate = "interactionCreate"
)

// Client is the bot's handle on Discord. Interactions reach it through the
// HTTP endpoint; outgoing calls go through its REST client.
type Client struct {
	bus      *Bus
	restOpts []RESTOption
	log      *zap.SugaredLogger

	mu      sync.RWMutex
	token   string
	rest    *REST
	user    *User
	appID   string
	readyAt time.Time
	ready   atomic.Bool
}

type ClientOption func(*Client)

// WithREST passes options to every REST client the bot creates.
func WithREST(opts ...RESTOption) ClientOption {
	return func(c *Client) { c.restOpts = append(c.restOpts, opts...) }
}

func WithLogger(l *zap.SugaredLogger) ClientOption {
	return func(c *Client) { c.log = l }
}

func (c *Client) Logger() *zap.SugaredLogger { return c.log }

func NewClient(opts ...ClientOption) *Client {
	c := &Client{bus: NewBus(), log: zap.NewNop().Sugar()}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Login authenticates with token, resolves the bot user and application,
// marks the client ready and emits EventReady with the client.
func (c *Client) Login(ctx context.Context, token string) error {
	if token == "" {
		return errors.WithHint(errors.New("empty login token"), "set CLIENT_LOGIN_TOKEN")
	}
	if c.ready.Load() {
		return errors.New("client already logged in")
	}

	rest := NewREST(token, c.restOpts...)
	user, err := rest.CurrentUser(ctx)
	if err != nil {
		return errors.Wrap(err, "login")
	}
	app, err := rest.CurrentApplication(ctx)
	if err != nil {
		return errors.Wrap(err, "login")
	}

	c.mu.Lock()
	c.token = token
	c.rest = rest
	c.user = user
	c.appID = app.ID
	c.readyAt = time.Now()
	c.mu.Unlock()

	c.ready.Store(true)

	c.log.Infow("logged in", "user", user.Username, "application", app.ID)
	c.bus.Emit(EventReady, c)
	return nil
}

func (c *Client) IsReady() bool { return c.ready.Load() }

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// REST returns the client's own REST handle, nil before login.
func (c *Client) REST() *REST {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.rest
}

// NewREST builds a REST client for token with the client's REST options.
func (c *Client) NewREST(token string) *REST {
	return NewREST(token, c.restOpts...)
}

func (c *Client) User() *User {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.user
}

func (c *Client) ApplicationID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.appID
}

// Uptime is zero before login.
func (c *Client) Uptime() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.readyAt.IsZero() {
		return 0
	}
	return time.Since(c.readyAt)
}

// Ping is the round trip of the last REST call.
func (c *Client) Ping() time.Duration {
	if r := c.REST(); r != nil {
		return r.Latency()
	}
	return 0
}

func (c *Client) Bus() *Bus { return c.bus }

func (c *Client) On(event string, fn Listener)   { c.bus.On(event, fn) }
func (c *Client) Once(event string, fn Listener) { c.bus.Once(event, fn) }

// Emit forwards to the bus.
func (c *Client) Emit(event string, args ...any) int { return c.bus.Emit(event, args...) }
