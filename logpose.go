//go:build !cli

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/common-nighthawk/go-figure"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"logpose.GO/api"
	_ "logpose.GO/api/datasets"
	_ "logpose.GO/api/graphql"
	_ "logpose.GO/api/interactions"
	"logpose.GO/app"
	_ "logpose.GO/bot/commands"
	_ "logpose.GO/bot/events"
	"logpose.GO/core/auth"
	"logpose.GO/cron"
	_ "logpose.GO/custom"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "startup failed:", err)
		os.Exit(1)
	}
	defer a.Close()
	log := a.Log

	figure.NewFigure(a.Config.AppName, "slant", true).Print()
	fmt.Printf("v%s (%s)\n", a.Config.Version, a.Config.Env)

	h, _ := a.Hub()
	client, events := a.Client(ctx, h)
	if events.Len() == 0 {
		log.Warnw("no event extensions loaded, the bot will not answer interactions", "dir", a.Config.EventsDir)
	}

	if !a.Config.SkipInitialRefresh {
		go func() {
			if err := a.Updater.UpdateAll(ctx); err != nil {
				log.Errorw("initial dataset refresh failed", "error", err)
			}
		}()
	}
	scheduler, err := cron.StartCron(ctx, &cron.Deps{Config: a.Config, Updater: a.Updater, Log: log})
	if err != nil {
		log.Fatalw("cron scheduler failed to start", "error", err)
	}
	defer scheduler.Stop()

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.Gzip())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:     true,
		LogStatus:  true,
		LogMethod:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.Debugw("request", "method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency.String())
			return nil
		},
	}))
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			c.Response().Before(func() {
				c.Response().Header().Set("X-Request-Duration-ms", strconv.FormatInt(time.Since(start).Milliseconds(), 10))
			})
			return next(c)
		}
	})

	deps := &api.Deps{
		Config:   a.Config,
		DB:       a.DB,
		Client:   client,
		Datasets: a.Datasets,
		Updater:  a.Updater,
		Log:      log.Named("api"),
	}
	apiGroup := e.Group("/api")
	apiGroup.Use(auth.Middleware())
	api.ApplyModules(apiGroup, deps)
	api.ApplyRoutes(e, deps)

	if err := client.Login(ctx, a.Config.Token); err != nil {
		log.Fatalw("login failed", "error", err)
	}

	go func() {
		log.Infof("Server running on :%s", a.Config.Port)
		if err := e.Start(":" + a.Config.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorw("http server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Errorw("http shutdown failed", "error", err)
	}
}
