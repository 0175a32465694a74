package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logpose.GO/bot/command"
	"logpose.GO/bot/hub"
	"logpose.GO/config"
	"logpose.GO/discord"
	"logpose.GO/discord/discordtest"
)

func TestRegistry_Register_Apply(t *testing.T) {
	out := &bytes.Buffer{}
	Register(&cobra.Command{
		Use: "test:registry",
		Run: func(c *cobra.Command, args []string) {
			out.WriteString("ok")
		},
	})
	Register(&cobra.Command{Use: "cron:start", Short: "shadow"})
	assert.Panics(t, func() { Register(&cobra.Command{Use: "test:registry"}) })
	Apply()

	c, _, err := rootCmd.Find([]string{"cron:start"})
	require.NoError(t, err)
	assert.NotEqual(t, "shadow", c.Short)

	rootCmd.SetOut(out)
	rootCmd.SetArgs([]string{"test:registry"})
	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "ok", out.String())
	assert.Panics(t, func() { Register(&cobra.Command{Use: "test:late"}) })
}

func TestRootHasMaintenanceCommands(t *testing.T) {
	for _, name := range []string{"cron:start", "commands:refresh", "datasets:scrape", "datasets:update"} {
		c, _, err := rootCmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, c.Name())
	}
	c, _, _ := rootCmd.Find([]string{"commands:refresh"})
	assert.NotNil(t, c.Flags().ShorthandLookup("g"))
	assert.NotNil(t, c.Flags().ShorthandLookup("d"))
}

const homeGuild = "4242"

func newRegistry(t *testing.T) (*command.Registry, *discordtest.Server) {
	t.Helper()
	srv := discordtest.NewServer(t)
	h := hub.New(&config.Config{AppName: "Log Pose", Version: "1.0.0"}, nil, nil)
	cmds := command.New(h, command.Options{
		ApplicationID: discordtest.AppID,
		HomeGuildID:   homeGuild,
		Version:       "1.0.0",
		REST:          srv.RESTOptions(),
	})
	h.Commands = cmds
	return cmds, srv
}

var commandsDir = filepath.Join("..", "extensions", "commands")

func TestRefreshCommands_Guild(t *testing.T) {
	cmds, srv := newRegistry(t)
	require.NoError(t, RefreshCommands(context.Background(), cmds, commandsDir, discordtest.Token, RefreshOptions{}))

	pushed := srv.Commands(discord.GuildCommandsRoute(discordtest.AppID, homeGuild))
	assert.Len(t, pushed, 6)
	assert.False(t, srv.Pushed(discord.ApplicationCommandsRoute(discordtest.AppID)))
}

func TestRefreshCommands_GlobalDeReg(t *testing.T) {
	cmds, srv := newRegistry(t)
	require.NoError(t, RefreshCommands(context.Background(), cmds, commandsDir, discordtest.Token, RefreshOptions{Global: true}))
	route := discord.ApplicationCommandsRoute(discordtest.AppID)
	require.Len(t, srv.Commands(route), 6)

	require.NoError(t, RefreshCommands(context.Background(), cmds, commandsDir, discordtest.Token, RefreshOptions{Global: true, DeReg: true}))
	assert.Empty(t, srv.Commands(route))
	assert.Equal(t, 2, srv.PutCount())
}

func TestRefreshCommands_NeedsToken(t *testing.T) {
	cmds, srv := newRegistry(t)
	assert.Error(t, RefreshCommands(context.Background(), cmds, commandsDir, "", RefreshOptions{}))
	assert.Zero(t, srv.PutCount())
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeJSON(&buf, "-", []int{1, 2}))
	assert.JSONEq(t, "[1,2]", buf.String())

	path := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, writeJSON(&buf, path, map[string]int{"episode": 1}))
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	var got map[string]int
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, map[string]int{"episode": 1}, got)
}
