// Package hub carries the shared bot dependencies handed to command and
// event handler factories.
package hub

import (
	"context"

	"go.uber.org/zap"

	"logpose.GO/config"
	"logpose.GO/discord"
	"logpose.GO/model/entity"
)

// Datasets is the read side of the episode and chapter data.
type Datasets interface {
	Episode(ctx context.Context, number int) (*entity.Episode, error)
	Chapter(ctx context.Context, number int) (*entity.Chapter, error)
	MaxEpisode(ctx context.Context) int
	MaxChapter(ctx context.Context) int
}

// Commands is the part of the command registry event handlers drive.
type Commands interface {
	InjectClient(client *discord.Client)
	LoadFolder(ctx context.Context, dir string) int
	Execute(ctx context.Context, i *discord.Interaction) bool
	DispatchAutocomplete(ctx context.Context, i *discord.Interaction) bool
	Help(name string) (discord.Embed, bool)
	Definitions() []discord.ApplicationCommand
}

type Hub struct {
	Config   *config.Config
	Datasets Datasets
	Commands Commands
	Log      *zap.SugaredLogger
}

func New(cfg *config.Config, datasets Datasets, log *zap.SugaredLogger) *Hub {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Hub{Config: cfg, Datasets: datasets, Log: log}
}

// BaseEmbed is an embed in the bot color, with the version footer unless
// footer is false.
func (h *Hub) BaseEmbed(footer bool) discord.Embed {
	e := discord.Embed{Color: h.Config.EmbedColor}
	if footer {
		e.Footer = &discord.EmbedFooter{Text: h.Config.Footer()}
	}
	return e
}

// StandardEmbed has a title, a description and a footer (the version
// footer when footer is empty).
func (h *Hub) StandardEmbed(title, description, footer string) discord.Embed {
	if footer == "" {
		footer = h.Config.Footer()
	}
	return discord.Embed{
		Title:       title,
		Description: description,
		Color:       h.Config.EmbedColor,
		Footer:      &discord.EmbedFooter{Text: footer},
	}
}

func (h *Hub) MessageEmbed(message string) discord.Embed {
	return discord.Embed{Description: message, Color: h.Config.EmbedColor}
}

// Embeds wraps embeds into a reply message.
func Embeds(embeds ...discord.Embed) discord.Message {
	return discord.Message{Embeds: embeds}
}
