package discord

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"
)

type InteractionType int

const (
	InteractionPing               InteractionType = 1
	InteractionApplicationCommand InteractionType = 2
	InteractionMessageComponent   InteractionType = 3
	InteractionAutocomplete       InteractionType = 4
)

type ResponseType int

const (
	ResponsePong                     ResponseType = 1
	ResponseChannelMessageWithSource ResponseType = 4
	ResponseDeferredChannelMessage   ResponseType = 5
	ResponseAutocompleteResult       ResponseType = 8
)

// InteractionResponse is the body written back to the interactions endpoint.
type InteractionResponse struct {
	Type ResponseType `json:"type"`
	Data any          `json:"data,omitempty"`
}

var (
	ErrAlreadyResponded = errors.New("interaction already responded to")
	ErrNoResponder      = errors.New("interaction has no responder bound")

	// ErrResponseWindowClosed is returned by a responder once the initial
	// response can no longer be delivered.
	ErrResponseWindowClosed = errors.New("interaction response window closed")
)

// Responder delivers the initial response of an interaction.
type Responder func(InteractionResponse) error

type Interaction struct {
	ID            string           `json:"id"`
	ApplicationID string           `json:"application_id"`
	Type          InteractionType  `json:"type"`
	Data          *InteractionData `json:"data,omitempty"`
	GuildID       string           `json:"guild_id,omitempty"`
	ChannelID     string           `json:"channel_id,omitempty"`
	Member        *Member          `json:"member,omitempty"`
	User          *User            `json:"user,omitempty"`
	Token         string           `json:"token"`

	// TraceID correlates log lines of one interaction.
	TraceID    string    `json:"-"`
	ReceivedAt time.Time `json:"-"`

	ctx       context.Context
	responder Responder
	rest      *REST
	responded atomic.Bool
}

type InteractionData struct {
	ID      string              `json:"id"`
	Name    string              `json:"name"`
	Type    int                 `json:"type"`
	Options []InteractionOption `json:"options,omitempty"`
}

type InteractionOption struct {
	Name    string              `json:"name"`
	Type    OptionType          `json:"type"`
	Value   json.RawMessage     `json:"value,omitempty"`
	Options []InteractionOption `json:"options,omitempty"`
	Focused bool                `json:"focused,omitempty"`
}

// Text renders the option value without JSON quoting.
func (o InteractionOption) Text() string {
	var s string
	if json.Unmarshal(o.Value, &s) == nil {
		return s
	}
	return string(o.Value)
}

// Bind attaches the initial-response channel and the REST client used for
// follow-up edits.
func (i *Interaction) Bind(r Responder, rest *REST) {
	i.responder = r
	i.rest = rest
}

// SetContext scopes the interaction's handling to ctx.
func (i *Interaction) SetContext(ctx context.Context) { i.ctx = ctx }

// Context is the context set by the transport, or nil.
func (i *Interaction) Context() context.Context { return i.ctx }

func (i *Interaction) CommandName() string {
	if i.Data == nil {
		return ""
	}
	return i.Data.Name
}

// Invoker is the user behind the interaction, in guilds or DMs.
func (i *Interaction) Invoker() *User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}

func (i *Interaction) IsCommand() bool      { return i.Type == InteractionApplicationCommand }
func (i *Interaction) IsAutocomplete() bool { return i.Type == InteractionAutocomplete }

func (i *Interaction) Options() *OptionResolver {
	if i.Data == nil {
		return &OptionResolver{}
	}
	return &OptionResolver{options: i.Data.Options}
}

// Summary renders "name:value" pairs for logging.
func (i *Interaction) Summary() string {
	opts := i.Options().All()
	parts := make([]string, 0, len(opts))
	for _, o := range opts {
		parts = append(parts, o.Name+":"+o.Text())
	}
	return strings.Join(parts, " ")
}

func (i *Interaction) Responded() bool { return i.responded.Load() }

func (i *Interaction) respond(resp InteractionResponse) error {
	if i.responder == nil {
		return ErrNoResponder
	}
	if !i.responded.CompareAndSwap(false, true) {
		return ErrAlreadyResponded
	}
	return i.responder(resp)
}

func (i *Interaction) Reply(_ context.Context, msg Message) error {
	return i.respond(InteractionResponse{Type: ResponseChannelMessageWithSource, Data: msg})
}

// Defer acknowledges now; complete it later with EditReply.
func (i *Interaction) Defer(_ context.Context) error {
	return i.respond(InteractionResponse{Type: ResponseDeferredChannelMessage})
}

func (i *Interaction) EditReply(ctx context.Context, msg Message) error {
	if i.rest == nil {
		return errors.New("interaction has no REST client bound")
	}
	return i.rest.EditOriginalResponse(ctx, i.ApplicationID, i.Token, msg)
}

// RespondChoices answers an autocomplete interaction.
func (i *Interaction) RespondChoices(_ context.Context, choices []Choice) error {
	if choices == nil {
		choices = []Choice{}
	}
	return i.respond(InteractionResponse{
		Type: ResponseAutocompleteResult,
		Data: map[string]any{"choices": choices},
	})
}

// OptionResolver reads typed values out of an interaction's options.
type OptionResolver struct {
	options []InteractionOption
}

func (r *OptionResolver) All() []InteractionOption { return r.options }

func (r *OptionResolver) get(name string) (InteractionOption, bool) {
	for _, o := range r.options {
		if o.Name == name {
			return o, true
		}
	}
	return InteractionOption{}, false
}

func (r *OptionResolver) Integer(name string) (int64, bool) {
	o, ok := r.get(name)
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseInt(o.Text(), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func (r *OptionResolver) String(name string) (string, bool) {
	o, ok := r.get(name)
	if !ok {
		return "", false
	}
	return o.Text(), true
}

// Focused is the raw text of the option the user is typing into.
func (r *OptionResolver) Focused() string {
	for _, o := range r.options {
		if o.Focused {
			return o.Text()
		}
	}
	return ""
}
