// Package interactions receives Discord interactions over HTTP and hands
// them to the bot's event bus.
package interactions

import (
	"context"
	"crypto/ed25519"
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"logpose.GO/api"
	"logpose.GO/discord"
)

const (
	Path = "/interactions"

	headerSignature = "X-Signature-Ed25519"
	headerTimestamp = "X-Signature-Timestamp"

	// ResponseDeadline is how long Discord waits for the initial response.
	ResponseDeadline = 3 * time.Second
	// FollowUpWindow is how long an interaction token accepts follow-up edits.
	FollowUpWindow = 15 * time.Minute
)

func init() {
	api.RegisterRoute(func(e *echo.Echo, d *api.Deps) {
		if d == nil || d.Client == nil || d.Config == nil {
			return
		}
		key, err := discord.ParsePublicKey(d.Config.PublicKey)
		if err != nil {
			d.Logger().Warnw("interactions endpoint disabled", "error", err)
			return
		}
		e.POST(Path, Handler(d.Client, key, ResponseDeadline))
	})
}

// Handler verifies and dispatches one interaction, answering with the first
// response a handler produces.
func Handler(client *discord.Client, key ed25519.PublicKey, deadline time.Duration) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		body, err := io.ReadAll(req.Body)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "unreadable body")
		}
		if !discord.VerifySignature(key, req.Header.Get(headerSignature), req.Header.Get(headerTimestamp), body) {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid request signature")
		}

		i := &discord.Interaction{}
		if err := json.Unmarshal(body, i); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "malformed interaction")
		}
		if i.Type == discord.InteractionPing {
			return c.JSON(http.StatusOK, discord.InteractionResponse{Type: discord.ResponsePong})
		}

		i.TraceID = uuid.NewString()
		i.ReceivedAt = time.Now()
		ctx, cancel := context.WithTimeout(context.WithoutCancel(req.Context()), FollowUpWindow)
		i.SetContext(ctx)

		w := &window{responses: make(chan discord.InteractionResponse, 1)}
		i.Bind(w.deliver, client.REST())

		log := client.Logger()
		done := make(chan struct{})
		go func() {
			defer close(done)
			defer cancel()
			defer func() {
				if p := recover(); p != nil {
					log.Errorw("interaction handler panicked",
						"trace", i.TraceID, "command", i.CommandName(), "error", errors.Newf("%v", p))
				}
			}()
			client.Emit(discord.EventInteractionCreate, i)
		}()

		timer := time.NewTimer(deadline)
		defer timer.Stop()
		select {
		case r := <-w.responses:
			w.close()
			return c.JSON(http.StatusOK, r)
		case <-done:
			if r, ok := w.close(); ok {
				return c.JSON(http.StatusOK, r)
			}
			return echo.NewHTTPError(http.StatusInternalServerError, "interaction was not answered")
		case <-timer.C:
			if r, ok := w.close(); ok {
				return c.JSON(http.StatusOK, r)
			}
			return echo.NewHTTPError(http.StatusGatewayTimeout, "interaction timed out")
		case <-req.Context().Done():
			w.close()
			return req.Context().Err()
		}
	}
}

// window hands the first response of one interaction to the HTTP handler.
// Once closed, late responses are refused.
type window struct {
	mu        sync.Mutex
	closed    bool
	responses chan discord.InteractionResponse
}

func (w *window) deliver(r discord.InteractionResponse) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return discord.ErrResponseWindowClosed
	}
	w.responses <- r
	return nil
}

// close refuses further responses and returns one that was delivered but
// not yet read.
func (w *window) close() (discord.InteractionResponse, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	select {
	case r := <-w.responses:
		return r, true
	default:
		return discord.InteractionResponse{}, false
	}
}