package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"

	"logpose.GO/bot/command"
	"logpose.GO/bot/hub"
	"logpose.GO/config"
	"logpose.GO/discord"
	"logpose.GO/model/entity"
	"logpose.GO/service/dataset"
)

func init() {
	command.Provide("episode_info", episodeInfo)
	command.Provide("chapter_info", chapterInfo)
	command.Provide("episode_to_chapter", episodeToChapter)
	command.Provide("chapter_to_episode", chapterToEpisode)
}

func maxEpisode(h *hub.Hub) func(context.Context) int {
	return func(ctx context.Context) int { return h.Datasets.MaxEpisode(ctx) }
}

func maxChapter(h *hub.Hub) func(context.Context) int {
	return func(ctx context.Context) int { return h.Datasets.MaxChapter(ctx) }
}

func episodeInfo(h *hub.Hub) command.Exports {
	return command.Exports{
		Execute: func(ctx context.Context, i *discord.Interaction, opts *discord.OptionResolver, _ *discord.Client, _ string) error {
			last := h.Datasets.MaxEpisode(ctx)
			if last == 0 {
				return reply(ctx, i, h.MessageEmbed(config.MsgDatasetUnavailable))
			}
			n := max(1, number(opts, episodeOption))
			if n > last {
				return reply(ctx, i, h.MessageEmbed(config.MsgUnknownEpisode))
			}
			ep, err := h.Datasets.Episode(ctx, n)
			if errors.Is(err, dataset.ErrNotFound) {
				return reply(ctx, i, h.MessageEmbed(config.MsgUnknownEpisode))
			}
			if err != nil {
				return err
			}
			return reply(ctx, i, episodeEmbed(h, ep, "", ""))
		},
		Autocomplete: suggest(maxEpisode(h)),
	}
}

func chapterInfo(h *hub.Hub) command.Exports {
	return command.Exports{
		Execute: func(ctx context.Context, i *discord.Interaction, opts *discord.OptionResolver, _ *discord.Client, _ string) error {
			last := h.Datasets.MaxChapter(ctx)
			if last == 0 {
				return reply(ctx, i, h.MessageEmbed(config.MsgDatasetUnavailable))
			}
			n := max(1, number(opts, chapterOption))
			if n > last {
				return reply(ctx, i, h.MessageEmbed(config.MsgUnknownChapter))
			}
			ch, err := h.Datasets.Chapter(ctx, n)
			if errors.Is(err, dataset.ErrNotFound) {
				return reply(ctx, i, h.MessageEmbed(config.MsgUnknownChapter))
			}
			if err != nil {
				return err
			}
			return reply(ctx, i, chapterEmbed(h, ch, "1-"+ch.Pages, relatedEpisodes(ch, "Related Episodes")))
		},
		Autocomplete: suggest(maxChapter(h)),
	}
}

// episodeToChapter shows the first chapter an episode adapts. Numbers past
// the last episode are clamped to it.
func episodeToChapter(h *hub.Hub) command.Exports {
	return command.Exports{
		Execute: func(ctx context.Context, i *discord.Interaction, opts *discord.OptionResolver, _ *discord.Client, loggerID string) error {
			last := h.Datasets.MaxEpisode(ctx)
			if last == 0 {
				return reply(ctx, i, h.MessageEmbed(config.MsgDatasetUnavailable))
			}
			n := min(max(1, number(opts, episodeOption)), last)
			ep, err := h.Datasets.Episode(ctx, n)
			if errors.Is(err, dataset.ErrNotFound) {
				return reply(ctx, i, h.MessageEmbed(config.MsgUnknownEpisode))
			}
			if err != nil {
				return err
			}

			e := h.BaseEmbed(false)
			if ep.NoChapters {
				e.Description = config.MsgEpisodeHasNoChapters
				return reply(ctx, i, e)
			}
			ref, ok := dataset.ExtractChapter(ep)
			var ch *entity.Chapter
			if ok {
				ch, err = h.Datasets.Chapter(ctx, ref.Chapter)
				if err != nil && !errors.Is(err, dataset.ErrNotFound) {
					return err
				}
			}
			if ch == nil {
				h.Log.Warnw(fmt.Sprintf("unable to find chapter equivalent of episode %d", n), "logger", loggerID)
				if len(ep.Chapters) > 0 {
					e.Title = ep.Chapters[0]
				}
				e.Description = config.MsgChapterInfoUnavailable
				return reply(ctx, i, e)
			}

			e = chapterEmbed(h, ch, fmt.Sprintf("%d-%d", ref.BeginPage, ref.EndPage), discord.EmbedField{
				Name:  "All Related Chapters",
				Value: strings.Join(ep.Chapters, ", "),
			})
			if ep.IsFiller {
				e.Footer.Text += fmt.Sprintf(" (Ep. %d is filler)", ep.Number)
			}
			return reply(ctx, i, e)
		},
		Autocomplete: suggest(maxEpisode(h)),
	}
}

// chapterToEpisode shows the first episode a chapter was adapted into.
func chapterToEpisode(h *hub.Hub) command.Exports {
	return command.Exports{
		Execute: func(ctx context.Context, i *discord.Interaction, opts *discord.OptionResolver, _ *discord.Client, _ string) error {
			last := h.Datasets.MaxChapter(ctx)
			if last == 0 {
				return reply(ctx, i, h.MessageEmbed(config.MsgDatasetUnavailable))
			}
			n := max(1, number(opts, chapterOption))
			if n > last {
				return reply(ctx, i, h.MessageEmbed(config.MsgUnknownChapter))
			}
			ch, err := h.Datasets.Chapter(ctx, n)
			if errors.Is(err, dataset.ErrNotFound) {
				return reply(ctx, i, h.MessageEmbed(config.MsgUnknownChapter))
			}
			if err != nil {
				return err
			}

			missing := h.BaseEmbed(false)
			missing.Description = config.MsgEpisodeEquivalentMissing
			epNumber, ok := dataset.ExtractEpisode(ch)
			if !ok {
				return reply(ctx, i, missing)
			}
			ep, err := h.Datasets.Episode(ctx, epNumber)
			if errors.Is(err, dataset.ErrNotFound) {
				return reply(ctx, i, missing)
			}
			if err != nil {
				return err
			}
			related := relatedEpisodes(ch, "All Related Episodes")
			return reply(ctx, i, episodeEmbed(h, ep, related.Name, related.Value))
		},
		Autocomplete: suggest(maxChapter(h)),
	}
}
