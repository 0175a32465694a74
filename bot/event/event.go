// Package event loads event extensions and binds them to the client's bus.
package event

import (
	"context"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"logpose.GO/bot/hub"
	"logpose.GO/core/manifest"
	"logpose.GO/core/registry"
	"logpose.GO/discord"
)

// ExecuteFunc handles one emission of an event. args are the values the
// bus emitted.
type ExecuteFunc func(ctx context.Context, client *discord.Client, loggerID string, args ...any) error

// Factory builds an event handler with the bot's shared dependencies.
type Factory func(h *hub.Hub) ExecuteFunc

// Provide registers an event handler under name. Call it from init().
func Provide(name string, f Factory) {
	registry.Provide(registry.KeySymbolsEvent, name, f)
}

// File is an imported event extension before verification.
type File struct {
	Execute  ExecuteFunc
	Event    *manifest.Event
	Requires string
}

// Event is a loaded event extension.
type Event struct {
	registry.Extension

	execute ExecuteFunc
	name    string
	once    bool
}

func (e *Event) Name() string { return e.name }

// Once reports whether the handler runs only for the first emission.
func (e *Event) Once() bool { return e.once }

// Execute runs the handler directly, outside the bus.
func (e *Event) Execute(ctx context.Context, client *discord.Client, args ...any) error {
	return e.execute(ctx, client, e.LoggerID(), args...)
}

type Options struct {
	Version string
	Logger  *zap.SugaredLogger
}

// Registry binds every loaded event to the bus of the client it was built with.
type Registry struct {
	*registry.Registry[string, File, *Event]

	client *discord.Client
	hub    *hub.Hub
	opts   Options
	log    *zap.SugaredLogger
}

func New(client *discord.Client, h *hub.Hub, opts Options) *Registry {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop().Sugar()
	}
	r := &Registry{client: client, hub: h, opts: opts, log: opts.Logger}
	r.Registry = registry.New[string, File, *Event](hooks{r}, registry.Options{Logger: opts.Logger})
	return r
}

type hooks struct {
	r *Registry
}

func (h hooks) Import(_ context.Context, path string) (File, error) {
	m, err := manifest.Load(path)
	if err != nil {
		return File{}, err
	}
	f := File{Event: m.Event, Requires: m.Requires}
	if m.Handler != "" {
		factory, ok := registry.Symbol[Factory](registry.KeySymbolsEvent, m.Handler)
		if !ok {
			h.r.log.Warnw("manifest names an unknown handler", "path", path, "handler", m.Handler)
		} else {
			f.Execute = factory(h.r.hub)
		}
	}
	return f, nil
}

func (h hooks) Verify(name string, f File) bool {
	log := h.r.log.With("file", name)
	switch {
	case f.Execute == nil:
		log.Errorf("%s is missing its execute export", name)
	case f.Event == nil:
		log.Errorf("%s is missing its event data", name)
	case f.Event.Name == "":
		log.Errorf("%s is missing the event name", name)
	case f.Event.Once == nil:
		log.Errorf("%s is missing the once flag", name)
	default:
		if err := manifest.CheckCompat(f.Requires, h.r.opts.Version); err != nil {
			log.Errorw(name+" is not compatible with this bot", "error", err)
			return false
		}
		return true
	}
	return false
}

func (h hooks) Wrap(name string, f File) *Event {
	return &Event{
		Extension: registry.NewExtension(name),
		execute:   f.Execute,
		name:      f.Event.Name,
		once:      *f.Event.Once,
	}
}

func (h hooks) Key(e *Event) string { return e.name }

func (h hooks) OnLoad(ctx context.Context, e *Event) {
	r := h.r
	listener := func(args ...any) {
		if err := e.Execute(ctx, r.client, args...); err != nil {
			r.log.Errorw("event handler failed", "event", e.name, "logger", e.LoggerID(), "error", errors.Wrap(err, e.name))
		}
	}
	if e.once {
		r.client.Once(e.name, listener)
	} else {
		r.client.On(e.name, listener)
	}
	r.log.Debugw("event bound", "event", e.name, "once", e.once)
}
