// Package commands implements the bot's slash command handlers. Each one
// registers itself under the name its manifest's handler field uses.
package commands

import (
	"context"
	"fmt"
	"strings"

	"logpose.GO/bot/autocomplete"
	"logpose.GO/bot/command"
	"logpose.GO/bot/hub"
	"logpose.GO/config"
	"logpose.GO/discord"
	"logpose.GO/model/entity"
)

const (
	episodeOption = "episode"
	chapterOption = "chapter"

	episodeWatchURL = "https://animekai.to/watch/one-piece-dk6r#ep=%d"
	chapterReadURL  = "https://mangafire.to/read/one-piecee.dkw/en/chapter-%d"
)

var blankField = discord.EmbedField{Name: " ", Value: " ", Inline: true}

// number reads an integer option, defaulting to 1.
func number(opts *discord.OptionResolver, name string) int {
	n, ok := opts.Integer(name)
	if !ok {
		return 1
	}
	return int(n)
}

func reply(ctx context.Context, i *discord.Interaction, e discord.Embed) error {
	return i.Reply(ctx, hub.Embeds(e))
}

// suggest answers autocomplete with numbers up to the current dataset size.
func suggest(limit func(ctx context.Context) int) command.AutocompleteFunc {
	return func(ctx context.Context, i *discord.Interaction, opts *discord.OptionResolver, _ *discord.Client, _ string) error {
		return i.RespondChoices(ctx, autocomplete.Choices(opts.Focused(), limit(ctx)))
	}
}

// episodeEmbed describes an episode. related is the "related" field; an
// empty name uses the episode's chapter list.
func episodeEmbed(h *hub.Hub, ep *entity.Episode, relatedName, relatedValue string) discord.Embed {
	if relatedName == "" {
		relatedName, relatedValue = "Related Chapters", strings.Join(ep.Chapters, ", ")
	}
	if relatedValue == "" {
		relatedValue = "-"
	}
	remastered := ep.RemasterAirdate != nil

	fields := []discord.EmbedField{
		{Name: "Japanese Title", Value: orDash(ep.Kanji), Inline: true},
		{Name: "Released", Value: orDash(ep.Airdate), Inline: true},
	}
	if remastered {
		fields = append(fields, blankField)
	}
	fields = append(fields, discord.EmbedField{Name: relatedName, Value: relatedValue, Inline: remastered})
	if remastered {
		fields = append(fields, discord.EmbedField{Name: "Remastered", Value: *ep.RemasterAirdate, Inline: true}, blankField)
	}

	e := h.BaseEmbed(false)
	e.Title = ep.Romaji
	footer := ""
	if en, ok := ep.LatestEnglish(); ok {
		e.Title = en.Title
		footer = en.Distributor
		if en.Airdate != "" {
			footer = fmt.Sprintf("%s Airdate: %s", en.Distributor, en.Airdate)
		}
	}
	if ep.IsFiller {
		e.Title += " (Filler)"
	}
	if ep.ImageURL != "" {
		e.Thumbnail = &discord.EmbedImage{URL: ep.ImageURL}
	}
	e.Description = fmt.Sprintf("**This Episode:** [%d]("+episodeWatchURL+")", ep.Number, ep.Number)
	e.Fields = fields
	if footer != "" {
		e.Footer = &discord.EmbedFooter{Text: footer}
	}
	return e
}

// chapterEmbed describes a chapter. pages is the page span shown in the link.
func chapterEmbed(h *hub.Hub, ch *entity.Chapter, pages string, related discord.EmbedField) discord.Embed {
	e := h.BaseEmbed(false)
	e.Title = ch.VizTitle
	if ch.ImageURL != "" {
		e.Thumbnail = &discord.EmbedImage{URL: ch.ImageURL}
	}
	e.Description = fmt.Sprintf("**This Chapter:** [%d (p. %s)]("+chapterReadURL+")", ch.Number, pages, ch.Number)
	e.Fields = []discord.EmbedField{
		{Name: "Japanese Title", Value: orDash(ch.JapaneseTitle), Inline: true},
		{Name: "Released", Value: orDash(ch.ReleaseDate), Inline: true},
		related,
	}
	e.Footer = &discord.EmbedFooter{Text: fmt.Sprintf("%s: Vol. %s Ch. %d", ch.WSJIssue, ch.Volume, ch.Number)}
	return e
}

func relatedEpisodes(ch *entity.Chapter, name string) discord.EmbedField {
	v := config.MsgNoRelatedEpisodes
	if len(ch.Episodes) > 0 {
		v = strings.Join(ch.Episodes, ", ")
	}
	return discord.EmbedField{Name: name, Value: v}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
