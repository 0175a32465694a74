package commands

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"logpose.GO/bot/autocomplete"
	"logpose.GO/bot/command"
	"logpose.GO/bot/hub"
	"logpose.GO/config"
	"logpose.GO/discord"
)

const commandOption = "command"

func init() {
	command.Provide("ping", ping)
	command.Provide("help", help)
}

func ping(h *hub.Hub) command.Exports {
	return command.Exports{
		Execute: func(ctx context.Context, i *discord.Interaction, _ *discord.OptionResolver, client *discord.Client, _ string) error {
			if err := i.Defer(ctx); err != nil {
				return err
			}
			var latency time.Duration
			if !i.ReceivedAt.IsZero() {
				latency = time.Since(i.ReceivedAt)
			}
			msg := fmt.Sprintf("**Client Ping:** %dms\n**REST Ping:** %dms",
				latency.Milliseconds(), client.Ping().Milliseconds())
			return i.EditReply(ctx, hub.Embeds(h.StandardEmbed("Pong!", msg, "")))
		},
	}
}

// help shows one command's help, or the syntax of every command.
func help(h *hub.Hub) command.Exports {
	return command.Exports{
		Execute: func(ctx context.Context, i *discord.Interaction, opts *discord.OptionResolver, _ *discord.Client, _ string) error {
			name, _ := opts.String(commandOption)
			name = strings.TrimPrefix(strings.TrimSpace(name), "/")
			if name == "" {
				return reply(ctx, i, overview(h))
			}
			e, ok := h.Commands.Help(name)
			if !ok {
				return reply(ctx, i, h.MessageEmbed(fmt.Sprintf(config.MsgUnknownCommandHelp, name)))
			}
			return reply(ctx, i, e)
		},
		Autocomplete: func(ctx context.Context, i *discord.Interaction, opts *discord.OptionResolver, _ *discord.Client, _ string) error {
			typed := strings.ToLower(opts.Focused())
			var names []string
			for _, d := range h.Commands.Definitions() {
				if strings.HasPrefix(d.Name, typed) {
					names = append(names, d.Name)
				}
			}
			sort.Strings(names)
			choices := make([]discord.Choice, 0, len(names))
			for _, n := range names {
				if len(choices) == autocomplete.Limit {
					break
				}
				choices = append(choices, discord.StringChoice(n))
			}
			return i.RespondChoices(ctx, choices)
		},
	}
}

func overview(h *hub.Hub) discord.Embed {
	var b strings.Builder
	for _, d := range h.Commands.Definitions() {
		fmt.Fprintf(&b, "`%s` %s\n", d.Syntax(), d.Description)
	}
	return h.StandardEmbed("Commands", strings.TrimSuffix(b.String(), "\n"), "")
}
