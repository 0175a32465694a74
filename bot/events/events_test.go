package events

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	_ "logpose.GO/bot/commands"

	"logpose.GO/bot/command"
	"logpose.GO/bot/event"
	"logpose.GO/bot/hub"
	"logpose.GO/config"
	"logpose.GO/discord"
	"logpose.GO/discord/discordtest"
)

func TestReadyThenInteraction(t *testing.T) {
	ctx := context.Background()
	core, logs := observer.New(zapcore.InfoLevel)
	log := zap.New(core).Sugar()

	srv := discordtest.NewServer(t)
	client := srv.NewClient()
	cfg := &config.Config{
		AppName:     "Log Pose",
		Version:     "1.0.0",
		CommandsDir: filepath.Join("..", "..", "extensions", "commands"),
	}
	h := hub.New(cfg, nil, log)
	cmds := command.New(h, command.Options{ApplicationID: discordtest.AppID, Version: cfg.Version, Logger: log})
	h.Commands = cmds

	evs := event.New(client, h, event.Options{Version: cfg.Version, Logger: log})
	require.Equal(t, 2, evs.LoadFolder(ctx, filepath.Join("..", "..", "extensions", "events")))
	assert.Zero(t, cmds.Len())

	require.NoError(t, client.Login(ctx, discordtest.Token))
	assert.True(t, cmds.IsClientCached())
	assert.True(t, cmds.IsRESTCached())
	assert.Equal(t, 6, cmds.Len())
	assert.Equal(t, 1, logs.FilterMessage("Log Pose is online!").Len())

	var got []discord.InteractionResponse
	i := &discord.Interaction{
		Type:   discord.InteractionApplicationCommand,
		Data:   &discord.InteractionData{Name: "help"},
		Member: &discord.Member{User: &discord.User{Username: "zoro"}},
	}
	i.Bind(func(r discord.InteractionResponse) error {
		got = append(got, r)
		return nil
	}, nil)

	assert.Equal(t, 1, client.Emit(discord.EventInteractionCreate, i))
	require.Len(t, got, 1)
	assert.Equal(t, 1, logs.FilterMessage("zoro: /help ").Len())

	// ready is bound once
	assert.Zero(t, client.Bus().ListenerCount(discord.EventReady))
}

func TestInteractionCreate_Autocomplete(t *testing.T) {
	var routed []string
	h := hub.New(&config.Config{}, nil, nil)
	h.Commands = &recordingCommands{routed: &routed}

	fn := interactionCreate(h)
	ctx := context.Background()
	require.NoError(t, fn(ctx, nil, "interactionCreate", &discord.Interaction{Type: discord.InteractionAutocomplete, Data: &discord.InteractionData{Name: "episode_info"}}))
	require.NoError(t, fn(ctx, nil, "interactionCreate", &discord.Interaction{Type: discord.InteractionMessageComponent}))
	assert.Equal(t, []string{"autocomplete:episode_info"}, routed)

	assert.Error(t, fn(ctx, nil, "interactionCreate"))
	assert.Error(t, fn(ctx, nil, "interactionCreate", "not an interaction"))
}

type recordingCommands struct {
	hub.Commands
	routed  *[]string
	lastCtx context.Context
}

func (r *recordingCommands) Execute(ctx context.Context, i *discord.Interaction) bool {
	r.lastCtx = ctx
	*r.routed = append(*r.routed, "execute:"+i.CommandName())
	return true
}

func (r *recordingCommands) DispatchAutocomplete(_ context.Context, i *discord.Interaction) bool {
	*r.routed = append(*r.routed, "autocomplete:"+i.CommandName())
	return true
}

type traceKey struct{}

func TestInteractionCreate_UsesInteractionContext(t *testing.T) {
	var routed []string
	rec := &recordingCommands{routed: &routed}
	h := hub.New(&config.Config{}, nil, nil)
	h.Commands = rec
	fn := interactionCreate(h)

	i := &discord.Interaction{Type: discord.InteractionApplicationCommand, Data: &discord.InteractionData{Name: "ping"}}
	require.NoError(t, fn(context.Background(), nil, "interactionCreate", i))
	assert.Nil(t, rec.lastCtx.Value(traceKey{}))

	i.SetContext(context.WithValue(context.Background(), traceKey{}, "req-1"))
	require.NoError(t, fn(context.Background(), nil, "interactionCreate", i))
	assert.Equal(t, "req-1", rec.lastCtx.Value(traceKey{}))
	assert.Equal(t, []string{"execute:ping", "execute:ping"}, routed)
}
