package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"
	"golang.org/x/time/rate"
)

const DefaultBaseURL = "https://discord.com/api/v10"

// APIError is a non-2xx answer from the REST API.
type APIError struct {
	Status  int    `json:"-"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("discord api: %d %s (code %d)", e.Status, e.Message, e.Code)
}

// REST is a token-bound client for the Discord HTTP API. It throttles
// itself but never retries.
type REST struct {
	token   string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	latency atomic.Int64
}

type RESTOption func(*REST)

func WithBaseURL(u string) RESTOption {
	return func(r *REST) { r.baseURL = u }
}

func WithHTTPClient(c *http.Client) RESTOption {
	return func(r *REST) { r.http = c }
}

// WithRateLimit caps outgoing requests per second.
func WithRateLimit(perSecond float64, burst int) RESTOption {
	return func(r *REST) { r.limiter = rate.NewLimiter(rate.Limit(perSecond), burst) }
}

func NewREST(token string, opts ...RESTOption) *REST {
	r := &REST{
		token:   token,
		baseURL: DefaultBaseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
		limiter: rate.NewLimiter(rate.Limit(45), 10),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

func (r *REST) Token() string { return r.token }

// Latency is the round trip time of the last request.
func (r *REST) Latency() time.Duration { return time.Duration(r.latency.Load()) }

// Do sends a JSON request. body and out may be nil.
func (r *REST) Do(ctx context.Context, method, route string, body, out any) error {
	if err := r.limiter.Wait(ctx); err != nil {
		return errors.Wrap(err, "rate limiter")
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return errors.Wrapf(err, "encode %s %s", method, route)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, r.baseURL+route, reader)
	if err != nil {
		return errors.Wrapf(err, "build %s %s", method, route)
	}
	if r.token != "" {
		req.Header.Set("Authorization", "Bot "+r.token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("User-Agent", "DiscordBot (logpose, 1.0)")

	start := time.Now()
	resp, err := r.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, route)
	}
	defer resp.Body.Close()
	r.latency.Store(int64(time.Since(start)))

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrapf(err, "read %s %s", method, route)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		if json.Unmarshal(data, apiErr) != nil || apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return errors.Wrapf(apiErr, "%s %s", method, route)
	}
	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return errors.Wrapf(err, "decode %s %s", method, route)
		}
	}
	return nil
}

// PutCommands replaces the whole command set at route.
func (r *REST) PutCommands(ctx context.Context, route string, cmds []ApplicationCommand) ([]ApplicationCommand, error) {
	if cmds == nil {
		cmds = []ApplicationCommand{}
	}
	var out []ApplicationCommand
	if err := r.Do(ctx, http.MethodPut, route, cmds, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *REST) CurrentUser(ctx context.Context) (*User, error) {
	var u User
	if err := r.Do(ctx, http.MethodGet, "/users/@me", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *REST) CurrentApplication(ctx context.Context) (*Application, error) {
	var a Application
	if err := r.Do(ctx, http.MethodGet, "/oauth2/applications/@me", nil, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// EditOriginalResponse completes a deferred interaction response.
func (r *REST) EditOriginalResponse(ctx context.Context, appID, interactionToken string, msg Message) error {
	return r.Do(ctx, http.MethodPatch, WebhookOriginalRoute(appID, interactionToken), msg, nil)
}

func ApplicationCommandsRoute(appID string) string {
	return "/applications/" + appID + "/commands"
}

func GuildCommandsRoute(appID, guildID string) string {
	return "/applications/" + appID + "/guilds/" + guildID + "/commands"
}

func WebhookOriginalRoute(appID, interactionToken string) string {
	return "/webhooks/" + appID + "/" + interactionToken + "/messages/@original"
}
