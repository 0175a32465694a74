// Package command loads slash command extensions, keeps the remote
// application-command registry in sync with them and dispatches interactions.
package command

import (
	"context"
	"slices"

	"logpose.GO/bot/hub"
	"logpose.GO/core/registry"
	"logpose.GO/discord"
)

type Tag string

const (
	TagGeneral       Tag = "general"
	TagEconomy       Tag = "economy"
	TagUtility       Tag = "utility"
	TagUseless       Tag = "useless"
	TagComplete      Tag = "complete"
	TagIncomplete    Tag = "incomplete"
	TagDoNotRegister Tag = "do-not-register"
)

// ExecuteFunc runs a chat input command.
type ExecuteFunc func(ctx context.Context, i *discord.Interaction, opts *discord.OptionResolver, client *discord.Client, loggerID string) error

// AutocompleteFunc answers an autocomplete request for a command option.
type AutocompleteFunc func(ctx context.Context, i *discord.Interaction, opts *discord.OptionResolver, client *discord.Client, loggerID string) error

// Exports is what a compiled-in handler contributes to a command manifest.
type Exports struct {
	Execute      ExecuteFunc
	Autocomplete AutocompleteFunc
}

// Factory builds the exports of a handler with the bot's shared dependencies.
type Factory func(h *hub.Hub) Exports

// Provide registers a command handler under name. Call it from init().
func Provide(name string, f Factory) {
	registry.Provide(registry.KeySymbolsCommand, name, f)
}

// Handlers lists the registered command handler names.
func Handlers() []string {
	return registry.SymbolNames[Factory](registry.KeySymbolsCommand)
}

// File is an imported command extension before verification.
type File struct {
	Execute      ExecuteFunc
	Autocomplete AutocompleteFunc
	Definition   *discord.ApplicationCommand
	Tags         []Tag
	Help         string
	Requires     string
}

// Command is a loaded command extension.
type Command struct {
	registry.Extension

	execute      ExecuteFunc
	autocomplete AutocompleteFunc
	definition   discord.ApplicationCommand
	tags         []Tag
	help         string
}

func newCommand(loggerID string, f File) *Command {
	return &Command{
		Extension:    registry.NewExtension(loggerID),
		execute:      f.Execute,
		autocomplete: f.Autocomplete,
		definition:   *f.Definition,
		tags:         slices.Clone(f.Tags),
		help:         f.Help,
	}
}

func (c *Command) Name() string { return c.definition.Name }

func (c *Command) Definition() discord.ApplicationCommand { return c.definition }

func (c *Command) Tags() []Tag { return slices.Clone(c.tags) }

func (c *Command) HasTag(tag Tag) bool { return slices.Contains(c.tags, tag) }

// HasTags reports whether every tag is present.
func (c *Command) HasTags(tags ...Tag) bool {
	for _, t := range tags {
		if !c.HasTag(t) {
			return false
		}
	}
	return true
}

func (c *Command) HasAutocomplete() bool { return c.autocomplete != nil }

func (c *Command) Help() string { return c.help }
