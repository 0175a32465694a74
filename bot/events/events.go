// Package events implements the bot's event handlers.
package events

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"

	"logpose.GO/bot/event"
	"logpose.GO/bot/hub"
	"logpose.GO/config"
	"logpose.GO/discord"
)

func init() {
	event.Provide("ready", ready)
	event.Provide("interaction_create", interactionCreate)
}

// ready hands the logged-in client to the command registry and loads the
// commands.
func ready(h *hub.Hub) event.ExecuteFunc {
	return func(ctx context.Context, client *discord.Client, loggerID string, args ...any) error {
		if len(args) > 0 {
			if c, ok := args[0].(*discord.Client); ok {
				client = c
			}
		}
		h.Commands.InjectClient(client)
		n := h.Commands.LoadFolder(ctx, h.Config.CommandsDir)
		h.Log.Infow(fmt.Sprintf(config.MsgOnline, h.Config.AppName), "logger", loggerID, "commands", n)
		return nil
	}
}

// interactionCreate routes slash commands and autocomplete requests to the
// command registry.
func interactionCreate(h *hub.Hub) event.ExecuteFunc {
	return func(ctx context.Context, _ *discord.Client, loggerID string, args ...any) error {
		if len(args) == 0 {
			return errors.New("interactionCreate emitted without an interaction")
		}
		i, ok := args[0].(*discord.Interaction)
		if !ok {
			return errors.Newf("interactionCreate emitted with %T", args[0])
		}
		if ictx := i.Context(); ictx != nil {
			ctx = ictx
		}

		switch {
		case i.IsCommand():
			h.Log.Infow(fmt.Sprintf("%s: /%s %s", i.Invoker().DisplayName(), i.CommandName(), i.Summary()),
				"logger", loggerID, "trace", i.TraceID)
			h.Commands.Execute(ctx, i)
		case i.IsAutocomplete():
			h.Commands.DispatchAutocomplete(ctx, i)
		default:
			h.Log.Debugw("ignoring interaction", "type", int(i.Type), "trace", i.TraceID)
		}
		return nil
	}
}
