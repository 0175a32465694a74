package commands

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logpose.GO/bot/command"
	"logpose.GO/bot/hub"
	"logpose.GO/config"
	"logpose.GO/discord"
	"logpose.GO/discord/discordtest"
	"logpose.GO/model/entity"
	"logpose.GO/service/dataset"
)

type fakeDatasets struct {
	episodes map[int]*entity.Episode
	chapters map[int]*entity.Chapter
}

func (f *fakeDatasets) Episode(_ context.Context, n int) (*entity.Episode, error) {
	if ep, ok := f.episodes[n]; ok {
		return ep, nil
	}
	return nil, errors.Wrapf(dataset.ErrNotFound, "episode %d", n)
}

func (f *fakeDatasets) Chapter(_ context.Context, n int) (*entity.Chapter, error) {
	if ch, ok := f.chapters[n]; ok {
		return ch, nil
	}
	return nil, errors.Wrapf(dataset.ErrNotFound, "chapter %d", n)
}

func (f *fakeDatasets) MaxEpisode(context.Context) int { return maxKey(f.episodes) }
func (f *fakeDatasets) MaxChapter(context.Context) int { return maxKey(f.chapters) }

func maxKey[T any](m map[int]T) int {
	n := 0
	for k := range m {
		n = max(n, k)
	}
	return n
}

func strPtr(s string) *string { return &s }

func onePiece() *fakeDatasets {
	return &fakeDatasets{
		episodes: map[int]*entity.Episode{
			1: {
				Number:          1,
				ImageURL:        "https://static.example/ep1.png",
				Kanji:           "俺はルフィ!海賊王になる男!",
				Airdate:         "October 20, 1999",
				RemasterAirdate: strPtr("April 4, 2009"),
				EnglishInfo: []entity.EnglishRelease{
					{Distributor: "4Kids", Title: "Dawn of Adventure", Airdate: "September 18, 2004"},
					{Distributor: "Funimation", Title: "I'm Luffy! The Man Who's Gonna Be King of the Pirates!"},
				},
				Chapters: []string{"Chapter 1 (p. 1-53)"},
			},
			2: {
				Number:      2,
				Kanji:       "大剣豪現わる!",
				Airdate:     "November 17, 1999",
				IsFiller:    true,
				EnglishInfo: []entity.EnglishRelease{{Distributor: "4Kids", Title: "Enter Zolo", Airdate: "September 11, 2004"}},
				Chapters:    []string{"Chapter 1 (p. 1-10)"},
			},
			3: {Number: 3, Romaji: "Kaizoku", Chapters: []string{"Chapter 2", "Chapter 3"}},
			54: {Number: 54, IsFiller: true, NoChapters: true, Chapters: []string{"Assumed filler"}},
		},
		chapters: map[int]*entity.Chapter{
			1: {
				Number:        1,
				VizTitle:      "Romance Dawn",
				JapaneseTitle: "ROMANCE DAWN",
				Volume:        "1",
				Pages:         "53",
				ReleaseDate:   "July 22, 1997",
				WSJIssue:      "Weekly Shonen Jump Issue 34 1997",
				Episodes:      []string{"Episode 1", "Episode 4"},
			},
			2: {Number: 2, VizTitle: "They Call Him Straw Hat Luffy", Pages: "23"},
		},
	}
}

type env struct {
	reg *command.Registry
	srv *discordtest.Server
}

func setup(t *testing.T, data hub.Datasets) *env {
	t.Helper()
	srv := discordtest.NewServer(t)
	cfg := &config.Config{
		AppName:     "Log Pose",
		Version:     "1.0.0",
		EmbedColor:  0xf1c40f,
		CommandsDir: filepath.Join("..", "..", "extensions", "commands"),
	}
	h := hub.New(cfg, data, nil)
	reg := command.New(h, command.Options{
		ApplicationID: discordtest.AppID,
		HomeGuildID:   "1",
		Version:       cfg.Version,
		REST:          srv.RESTOptions(),
	})
	h.Commands = reg
	reg.InjectClient(srv.ReadyClient(t))
	require.Equal(t, 6, reg.LoadFolder(context.Background(), cfg.CommandsDir))
	return &env{reg: reg, srv: srv}
}

func intOpt(name string, n int) discord.InteractionOption {
	return discord.InteractionOption{Name: name, Type: discord.OptionInteger, Value: json.RawMessage(strconv.Itoa(n))}
}

func (e *env) interaction(typ discord.InteractionType, name string, opts ...discord.InteractionOption) (*discord.Interaction, *[]discord.InteractionResponse) {
	got := &[]discord.InteractionResponse{}
	i := &discord.Interaction{
		Type:          typ,
		ApplicationID: discordtest.AppID,
		Token:         "interaction-token",
		Data:          &discord.InteractionData{Name: name, Options: opts},
	}
	i.Bind(func(r discord.InteractionResponse) error {
		*got = append(*got, r)
		return nil
	}, discord.NewREST("abc", e.srv.RESTOptions()...))
	return i, got
}

func (e *env) run(t *testing.T, name string, opts ...discord.InteractionOption) discord.Embed {
	t.Helper()
	i, got := e.interaction(discord.InteractionApplicationCommand, name, opts...)
	require.True(t, e.reg.Execute(context.Background(), i))
	require.Len(t, *got, 1)
	require.Equal(t, discord.ResponseChannelMessageWithSource, (*got)[0].Type)
	msg, ok := (*got)[0].Data.(discord.Message)
	require.True(t, ok)
	require.Len(t, msg.Embeds, 1)
	return msg.Embeds[0]
}

func (e *env) complete(t *testing.T, name, typed string) []discord.Choice {
	t.Helper()
	opt := discord.InteractionOption{Name: "x", Value: json.RawMessage(strconv.Quote(typed)), Focused: true}
	i, got := e.interaction(discord.InteractionAutocomplete, name, opt)
	require.True(t, e.reg.DispatchAutocomplete(context.Background(), i))
	require.Len(t, *got, 1)
	require.Equal(t, discord.ResponseAutocompleteResult, (*got)[0].Type)
	return (*got)[0].Data.(map[string]any)["choices"].([]discord.Choice)
}

func fieldNames(e discord.Embed) []string {
	var names []string
	for _, f := range e.Fields {
		names = append(names, f.Name)
	}
	return names
}

func TestExtensionsLoad(t *testing.T) {
	e := setup(t, onePiece())
	var names []string
	for _, d := range e.reg.Definitions() {
		names = append(names, d.Name)
	}
	assert.ElementsMatch(t, []string{"episode_info", "chapter_info", "chapter_to_episode", "episode_to_chapter", "ping", "help"}, names)

	cmd, ok := e.reg.Lookup("episode_info")
	require.True(t, ok)
	assert.True(t, cmd.HasAutocomplete())
	assert.Equal(t, discord.OptionInteger, cmd.Definition().Options[0].Type)
}

func TestEpisodeInfo(t *testing.T) {
	e := setup(t, onePiece())

	embed := e.run(t, "episode_info", intOpt("episode", 1))
	assert.Equal(t, "I'm Luffy! The Man Who's Gonna Be King of the Pirates!", embed.Title)
	assert.Equal(t, "**This Episode:** [1](https://animekai.to/watch/one-piece-dk6r#ep=1)", embed.Description)
	assert.Equal(t, []string{"Japanese Title", "Released", " ", "Related Chapters", "Remastered", " "}, fieldNames(embed))
	assert.Equal(t, "Chapter 1 (p. 1-53)", embed.Fields[3].Value)
	assert.True(t, embed.Fields[3].Inline)
	assert.Equal(t, "Funimation", embed.Footer.Text)
	assert.Equal(t, "https://static.example/ep1.png", embed.Thumbnail.URL)
	assert.Equal(t, 0xf1c40f, embed.Color)

	embed = e.run(t, "episode_info", intOpt("episode", 2))
	assert.Equal(t, "Enter Zolo (Filler)", embed.Title)
	assert.Equal(t, "4Kids Airdate: September 11, 2004", embed.Footer.Text)
	assert.Equal(t, []string{"Japanese Title", "Released", "Related Chapters"}, fieldNames(embed))

	embed = e.run(t, "episode_info", intOpt("episode", 0))
	assert.Contains(t, embed.Description, "[1]")

	embed = e.run(t, "episode_info", intOpt("episode", 55))
	assert.Equal(t, config.MsgUnknownEpisode, embed.Description)

	// a gap in the stored range
	embed = e.run(t, "episode_info", intOpt("episode", 20))
	assert.Equal(t, config.MsgUnknownEpisode, embed.Description)
}

func TestChapterInfo(t *testing.T) {
	e := setup(t, onePiece())

	embed := e.run(t, "chapter_info", intOpt("chapter", 1))
	assert.Equal(t, "Romance Dawn", embed.Title)
	assert.Equal(t, "**This Chapter:** [1 (p. 1-53)](https://mangafire.to/read/one-piecee.dkw/en/chapter-1)", embed.Description)
	assert.Equal(t, "Weekly Shonen Jump Issue 34 1997: Vol. 1 Ch. 1", embed.Footer.Text)
	require.Len(t, embed.Fields, 3)
	assert.Equal(t, "Related Episodes", embed.Fields[2].Name)
	assert.Equal(t, "Episode 1, Episode 4", embed.Fields[2].Value)

	embed = e.run(t, "chapter_info", intOpt("chapter", 2))
	assert.Equal(t, config.MsgNoRelatedEpisodes, embed.Fields[2].Value)

	embed = e.run(t, "chapter_info", intOpt("chapter", 3))
	assert.Equal(t, config.MsgUnknownChapter, embed.Description)
}

func TestEpisodeToChapter(t *testing.T) {
	e := setup(t, onePiece())

	embed := e.run(t, "episode_to_chapter", intOpt("episode", 2))
	assert.Equal(t, "Romance Dawn", embed.Title)
	assert.Contains(t, embed.Description, "[1 (p. 1-10)]")
	assert.Equal(t, "Weekly Shonen Jump Issue 34 1997: Vol. 1 Ch. 1 (Ep. 2 is filler)", embed.Footer.Text)
	assert.Equal(t, "All Related Chapters", embed.Fields[2].Name)

	embed = e.run(t, "episode_to_chapter", intOpt("episode", 3))
	assert.Equal(t, "Chapter 2", embed.Title)
	assert.Equal(t, config.MsgChapterInfoUnavailable, embed.Description)

	// clamped to the last episode, which has no chapters
	embed = e.run(t, "episode_to_chapter", intOpt("episode", 999))
	assert.Equal(t, config.MsgEpisodeHasNoChapters, embed.Description)
}

func TestChapterToEpisode(t *testing.T) {
	e := setup(t, onePiece())

	embed := e.run(t, "chapter_to_episode", intOpt("chapter", 1))
	assert.Equal(t, "I'm Luffy! The Man Who's Gonna Be King of the Pirates!", embed.Title)
	assert.Contains(t, fieldNames(embed), "All Related Episodes")
	assert.Contains(t, embed.Description, "#ep=1")

	embed = e.run(t, "chapter_to_episode", intOpt("chapter", 2))
	assert.Equal(t, config.MsgEpisodeEquivalentMissing, embed.Description)

	embed = e.run(t, "chapter_to_episode", intOpt("chapter", 3))
	assert.Equal(t, config.MsgUnknownChapter, embed.Description)
}

func TestEmptyDatasets(t *testing.T) {
	e := setup(t, &fakeDatasets{})
	for _, name := range []string{"episode_info", "chapter_info", "episode_to_chapter", "chapter_to_episode"} {
		embed := e.run(t, name, intOpt("episode", 1), intOpt("chapter", 1))
		assert.Equal(t, config.MsgDatasetUnavailable, embed.Description, name)
	}
}

func TestNumberAutocomplete(t *testing.T) {
	e := setup(t, onePiece())

	choices := e.complete(t, "episode_info", "5")
	var got []string
	for _, c := range choices {
		got = append(got, c.Name)
	}
	assert.Equal(t, []string{"5", "50", "51", "52", "53", "54"}, got)

	assert.Len(t, e.complete(t, "chapter_to_episode", ""), 25)
	assert.Empty(t, e.complete(t, "chapter_info", "3"))
}

func TestPing(t *testing.T) {
	e := setup(t, onePiece())
	i, got := e.interaction(discord.InteractionApplicationCommand, "ping")
	require.True(t, e.reg.Execute(context.Background(), i))

	require.Len(t, *got, 1)
	assert.Equal(t, discord.ResponseDeferredChannelMessage, (*got)[0].Type)
	edits := e.srv.Edits()
	require.Len(t, edits, 1)
	assert.Equal(t, "Pong!", edits[0].Embeds[0].Title)
	assert.Contains(t, edits[0].Embeds[0].Description, "**REST Ping:**")
}

func TestHelp(t *testing.T) {
	e := setup(t, onePiece())

	embed := e.run(t, "help")
	assert.Equal(t, "Commands", embed.Title)
	assert.Contains(t, embed.Description, "`/episode_info [episode]` Get some info on this episode")
	assert.Contains(t, embed.Description, "`/help (command)`")

	str := func(s string) discord.InteractionOption {
		return discord.InteractionOption{Name: "command", Type: discord.OptionString, Value: json.RawMessage(strconv.Quote(s))}
	}
	embed = e.run(t, "help", str("/ping"))
	assert.Equal(t, "/ping", embed.Title)

	embed = e.run(t, "help", str("gear5"))
	assert.Equal(t, "I don't know a command called `gear5`.", embed.Description)

	var names []string
	for _, c := range e.complete(t, "help", "ep") {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"episode_info", "episode_to_chapter"}, names)
}
