package command

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"logpose.GO/bot/hub"
	"logpose.GO/config"
	"logpose.GO/core/manifest"
	"logpose.GO/core/registry"
	"logpose.GO/discord"
)

// ErrPrecondition marks an operation attempted before the dependency it
// needs was injected.
var ErrPrecondition = errors.New("command registry precondition not met")

// Capability is a dependency the registry caches after injection.
type Capability int

const (
	CapClient Capability = iota
	CapToken
	CapREST
)

func (c Capability) String() string {
	switch c {
	case CapClient:
		return "client"
	case CapToken:
		return "client token"
	case CapREST:
		return "rest client"
	}
	return fmt.Sprintf("capability(%d)", int(c))
}

// Scope selects the remote command registry a sync replaces.
type Scope int

const (
	// Guild replaces the commands of the home guild only.
	Guild Scope = iota
	// Global replaces the application-wide commands.
	Global
)

func (s Scope) String() string {
	if s == Global {
		return "application"
	}
	return "guild"
}

type Options struct {
	// ApplicationID falls back to the injected client's application.
	ApplicationID string
	HomeGuildID   string
	// Version is checked against each manifest's requires constraint.
	Version string
	REST    []discord.RESTOption
	Logger  *zap.SugaredLogger
}

// Registry holds the loaded commands. Load, then inject the client, then
// dispatch; operations that need the client, token or REST client panic
// with ErrPrecondition when called before injection.
type Registry struct {
	*registry.Registry[string, File, *Command]

	hub  *hub.Hub
	opts Options
	log  *zap.SugaredLogger

	mu     sync.RWMutex
	client *discord.Client
	token  string
	rest   *discord.REST
}

func New(h *hub.Hub, opts Options) *Registry {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop().Sugar()
	}
	r := &Registry{hub: h, opts: opts, log: opts.Logger}
	r.Registry = registry.New[string, File, *Command](hooks{r}, registry.Options{Logger: opts.Logger})
	return r
}

// InjectClient caches client. When the client is ready its token and a
// REST client bound to it are cached too.
func (r *Registry) InjectClient(client *discord.Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.client = client
	if client != nil && client.IsReady() {
		r.token = client.Token()
		r.rest = client.NewREST(r.token)
	}
}

func (r *Registry) IsClientCached() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.client != nil
}

func (r *Registry) IsTokenCached() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.token != ""
}

func (r *Registry) IsRESTCached() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.rest != nil
}

// Check returns an ErrPrecondition error when c has not been injected.
func (r *Registry) Check(c Capability) error {
	var ok bool
	switch c {
	case CapClient:
		ok = r.IsClientCached()
	case CapToken:
		ok = r.IsTokenCached()
	case CapREST:
		ok = r.IsRESTCached()
	}
	if ok {
		return nil
	}
	return errors.Mark(
		errors.AssertionFailedf("tried to use the %s before it was cached", c),
		ErrPrecondition,
	)
}

func (r *Registry) must(caps ...Capability) {
	for _, c := range caps {
		if err := r.Check(c); err != nil {
			r.log.Errorw("capability check failed", "capability", c.String(), "error", err)
			panic(err)
		}
	}
}

// Definitions returns the definitions pushed on sync: every loaded command
// not tagged do-not-register, in load order.
func (r *Registry) Definitions() []discord.ApplicationCommand {
	defs := []discord.ApplicationCommand{}
	for _, cmd := range r.Records() {
		if !cmd.HasTag(TagDoNotRegister) {
			defs = append(defs, cmd.Definition())
		}
	}
	return defs
}

// SyncRegistry replaces the remote command registry of scope with
// Definitions in a single request. A non-empty token gets a fresh REST
// client; otherwise the cached token and REST client are required.
func (r *Registry) SyncRegistry(ctx context.Context, token string, scope Scope) error {
	return r.push(ctx, token, scope, r.Definitions())
}

// Clear removes every command from the remote registry of scope.
func (r *Registry) Clear(ctx context.Context, token string, scope Scope) error {
	return r.push(ctx, token, scope, []discord.ApplicationCommand{})
}

func (r *Registry) push(ctx context.Context, token string, scope Scope, defs []discord.ApplicationCommand) error {
	var rest *discord.REST
	if token != "" {
		rest = discord.NewREST(token, r.opts.REST...)
	} else {
		r.must(CapToken, CapREST)
		r.mu.RLock()
		rest = r.rest
		r.mu.RUnlock()
	}

	route, err := r.route(scope)
	if err != nil {
		r.log.Errorw("failed to refresh application commands", "scope", scope.String(), "error", err)
		return err
	}

	r.log.Infow(fmt.Sprintf("refreshing %d application (/) commands", len(defs)), "scope", scope.String())
	if _, err := rest.PutCommands(ctx, route, defs); err != nil {
		r.log.Errorw("failed to refresh application commands", "scope", scope.String(), "error", err)
		return errors.Wrapf(err, "refresh %s commands", scope)
	}
	r.log.Infow(fmt.Sprintf("successfully refreshed %d application (/) commands", len(defs)), "scope", scope.String())
	return nil
}

func (r *Registry) route(scope Scope) (string, error) {
	appID := r.opts.ApplicationID
	if appID == "" {
		r.mu.RLock()
		if r.client != nil {
			appID = r.client.ApplicationID()
		}
		r.mu.RUnlock()
	}
	if appID == "" {
		return "", errors.WithHint(errors.New("application id unknown"), "set APPLICATION_ID")
	}
	if scope == Global {
		return discord.ApplicationCommandsRoute(appID), nil
	}
	if r.opts.HomeGuildID == "" {
		return "", errors.WithHint(errors.New("home guild id unknown"), "set HOME_GUILD_ID or refresh globally")
	}
	return discord.GuildCommandsRoute(appID, r.opts.HomeGuildID), nil
}

// Execute runs the command the interaction names. It returns false when no
// such command is loaded. Handler errors are logged.
func (r *Registry) Execute(ctx context.Context, i *discord.Interaction) bool {
	r.must(CapClient)
	cmd, ok := r.Lookup(i.CommandName())
	if !ok {
		r.log.Errorw(config.MsgProcessedNonExistentCmd, "command", i.CommandName(), "trace", i.TraceID)
		return false
	}
	if err := cmd.execute(ctx, i, i.Options(), r.cachedClient(), cmd.LoggerID()); err != nil {
		r.log.Errorw("command failed", "command", cmd.Name(), "logger", cmd.LoggerID(), "trace", i.TraceID, "error", err)
	}
	return true
}

// DispatchAutocomplete forwards an autocomplete request to the command's
// autocomplete handler. Commands without one ignore the request.
func (r *Registry) DispatchAutocomplete(ctx context.Context, i *discord.Interaction) bool {
	r.must(CapClient)
	cmd, ok := r.Lookup(i.CommandName())
	if !ok {
		r.log.Errorw("autocomplete for a command that does not exist", "command", i.CommandName(), "trace", i.TraceID)
		return false
	}
	if cmd.autocomplete == nil {
		return true
	}
	if err := cmd.autocomplete(ctx, i, i.Options(), r.cachedClient(), cmd.LoggerID()); err != nil {
		r.log.Errorw("autocomplete failed", "command", cmd.Name(), "logger", cmd.LoggerID(), "trace", i.TraceID, "error", err)
	}
	return true
}

func (r *Registry) cachedClient() *discord.Client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.client
}

// Help renders the help embed of a loaded command.
func (r *Registry) Help(name string) (discord.Embed, bool) {
	cmd, ok := r.Lookup(name)
	if !ok {
		return discord.Embed{}, false
	}
	help := cmd.Help()
	if help == "" {
		help = config.MsgNoHelp
	}
	def := cmd.Definition()
	e := r.hub.StandardEmbed(def.Syntax(), def.Description+"\n\n"+help, "")
	for _, o := range def.Options {
		e.Fields = append(e.Fields, discord.EmbedField{Name: o.Name, Value: o.Description, Inline: true})
	}
	if tags := cmd.Tags(); len(tags) > 0 {
		names := make([]string, len(tags))
		for i, t := range tags {
			names[i] = string(t)
		}
		e.Fields = append(e.Fields, discord.EmbedField{Name: "Tags", Value: strings.Join(names, ", ")})
	}
	return e, true
}

// hooks adapts the registry to the extension loader.
type hooks struct {
	r *Registry
}

func (h hooks) Import(_ context.Context, path string) (File, error) {
	m, err := manifest.Load(path)
	if err != nil {
		return File{}, err
	}
	f := File{Help: m.Help, Requires: m.Requires}
	for _, t := range m.Tags {
		f.Tags = append(f.Tags, Tag(t))
	}
	if m.Definition != nil {
		def, err := toApplicationCommand(m.Definition)
		if err != nil {
			return File{}, err
		}
		f.Definition = &def
	}
	if m.Handler != "" {
		factory, ok := registry.Symbol[Factory](registry.KeySymbolsCommand, m.Handler)
		if !ok {
			h.r.log.Warnw("manifest names an unknown handler", "path", path, "handler", m.Handler)
		} else {
			ex := factory(h.r.hub)
			f.Execute, f.Autocomplete = ex.Execute, ex.Autocomplete
		}
	}
	return f, nil
}

func toApplicationCommand(d *manifest.Definition) (discord.ApplicationCommand, error) {
	def := discord.ApplicationCommand{
		Type:        discord.ChatInputCommand,
		Name:        d.Name,
		Description: d.Description,
	}
	for _, o := range d.Options {
		typ, ok := discord.ParseOptionType(o.Type)
		if !ok {
			return def, errors.Newf("option %q has unknown type %q", o.Name, o.Type)
		}
		def.Options = append(def.Options, discord.ApplicationCommandOption{
			Type:         typ,
			Name:         o.Name,
			Description:  o.Description,
			Required:     o.Required,
			Autocomplete: o.Autocomplete,
			MinValue:     o.MinValue,
			MaxValue:     o.MaxValue,
		})
	}
	return def, nil
}

func (h hooks) Verify(name string, f File) bool {
	log := h.r.log.With("file", name)
	switch {
	case f.Execute == nil:
		log.Errorf("%s is missing its execute export", name)
	case f.Definition == nil:
		log.Errorf("%s is missing its definition", name)
	case f.Definition.Name == "":
		log.Errorf("%s is missing the name of its definition", name)
	case f.Definition.Description == "":
		log.Errorf("%s is missing the description of its definition", name)
	case len(f.Tags) == 0:
		log.Errorf("%s is missing its tags", name)
	default:
		if err := manifest.CheckCompat(f.Requires, h.r.opts.Version); err != nil {
			log.Errorw(name+" is not compatible with this bot", "error", err)
			return false
		}
		return true
	}
	return false
}

func (h hooks) Wrap(name string, f File) *Command { return newCommand(name, f) }

func (h hooks) Key(c *Command) string { return c.Name() }

func (h hooks) OnLoad(_ context.Context, c *Command) {
	h.r.log.Debugw("command ready", "command", c.Name(), "autocomplete", c.HasAutocomplete())
}
