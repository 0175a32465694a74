// Package app wires configuration, storage and services into the pieces the
// bot process and the CLI share.
package app

import (
	"context"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"logpose.GO/bot/command"
	"logpose.GO/bot/event"
	"logpose.GO/bot/hub"
	"logpose.GO/config"
	"logpose.GO/core/cache"
	"logpose.GO/core/logger"
	"logpose.GO/discord"
	"logpose.GO/service/dataset"
	"logpose.GO/service/scraper"
)

type App struct {
	Config   *config.Config
	Log      *zap.SugaredLogger
	DB       *gorm.DB
	Datasets *dataset.Service
	Scraper  *scraper.Scraper
	Updater  *scraper.Updater
}

// New loads the environment, opens and migrates the database and connects
// the optional Redis cache tier.
func New(ctx context.Context) (*App, error) {
	config.LoadEnv()
	cfg := config.LoadAppConfig()
	if err := logger.Initialize(cfg.LogJSON, cfg.Debug); err != nil {
		return nil, errors.Wrap(err, "init logger")
	}
	log := logger.ComponentLogger("app")

	db, err := config.NewDB()
	if err != nil {
		return nil, errors.Wrap(err, "open database")
	}
	if err := dataset.Migrate(db); err != nil {
		return nil, err
	}

	config.InitRedis()
	if config.PingRedis(ctx) {
		log.Info("redis connection successful, using shared cache tier")
	} else {
		log.Info("redis not configured or not reachable, using memory cache only")
	}

	return Assemble(cfg, db, cache.NewLayered(cache.GetInstance(), config.RedisClient, "logpose:", log), logger.Logger), nil
}

// Assemble builds the services over an already opened database.
func Assemble(cfg *config.Config, db *gorm.DB, c *cache.Layered, log *zap.SugaredLogger) *App {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	datasets := dataset.NewService(db, c, log.Named("datasets"))
	s := scraper.New(cfg.WikiBaseURL, log)
	return &App{
		Config:   cfg,
		Log:      log,
		DB:       db,
		Datasets: datasets,
		Scraper:  s,
		Updater:  scraper.NewUpdater(s, datasets, log),
	}
}

// Hub builds the shared handler dependencies with a command registry
// attached.
func (a *App) Hub() (*hub.Hub, *command.Registry) {
	h := hub.New(a.Config, a.Datasets, a.Log)
	cmds := command.New(h, command.Options{
		ApplicationID: a.Config.ApplicationID,
		HomeGuildID:   a.Config.HomeGuildID,
		Version:       a.Config.Version,
		REST:          a.restOptions(),
		Logger:        a.Log.Named("commands"),
	})
	h.Commands = cmds
	return h, cmds
}

// Client builds the Discord client and binds the event extensions to it.
func (a *App) Client(ctx context.Context, h *hub.Hub) (*discord.Client, *event.Registry) {
	client := discord.NewClient(discord.WithREST(a.restOptions()...), discord.WithLogger(a.Log.Named("client")))
	events := event.New(client, h, event.Options{Version: a.Config.Version, Logger: a.Log.Named("events")})
	n := events.LoadFolder(ctx, a.Config.EventsDir)
	a.Log.Infow("events loaded", "count", n, "dir", a.Config.EventsDir)
	return client, events
}

func (a *App) restOptions() []discord.RESTOption {
	if a.Config.APIBaseURL == "" {
		return nil
	}
	return []discord.RESTOption{discord.WithBaseURL(a.Config.APIBaseURL)}
}

// Close flushes the logger and releases the database and Redis handles.
func (a *App) Close() {
	if sqlDB, err := a.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
	if config.RedisClient != nil {
		_ = config.RedisClient.Close()
	}
	logger.Cleanup()
}
