// Package datasets exposes the episode and chapter datasets over REST.
package datasets

import (
	"net/http"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/labstack/echo/v4"

	"logpose.GO/api"
	"logpose.GO/service/dataset"
)

func init() {
	api.RegisterModule(func(g *echo.Group, d *api.Deps) {
		if d == nil || d.Datasets == nil {
			return
		}
		RegisterRoutes(g, d)
	})
}

// RegisterRoutes mounts the dataset routes on g (normally /api).
func RegisterRoutes(g *echo.Group, d *api.Deps) {
	h := &handler{deps: d}
	g.GET("/episodes/:number", h.episode)
	g.GET("/chapters/:number", h.chapter)
	g.GET("/stats", h.stats)
	g.POST("/datasets/refresh", h.refresh)
}

type handler struct {
	deps *api.Deps
}

func number(c echo.Context) (int, error) {
	n, err := strconv.Atoi(c.Param("number"))
	if err != nil || n < 1 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "number must be a positive integer")
	}
	return n, nil
}

func (h *handler) episode(c echo.Context) error {
	n, err := number(c)
	if err != nil {
		return err
	}
	ep, err := h.deps.Datasets.Episode(c.Request().Context(), n)
	if err != nil {
		return h.lookupError(err)
	}
	return c.JSON(http.StatusOK, ep)
}

func (h *handler) chapter(c echo.Context) error {
	n, err := number(c)
	if err != nil {
		return err
	}
	ch, err := h.deps.Datasets.Chapter(c.Request().Context(), n)
	if err != nil {
		return h.lookupError(err)
	}
	return c.JSON(http.StatusOK, ch)
}

func (h *handler) stats(c echo.Context) error {
	ctx := c.Request().Context()
	st, err := h.deps.Datasets.Stats(ctx)
	if err != nil {
		h.deps.Logger().Errorw("dataset stats failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"episodes":   st.Episodes,
		"chapters":   st.Chapters,
		"maxEpisode": h.deps.Datasets.MaxEpisode(ctx),
		"maxChapter": h.deps.Datasets.MaxChapter(ctx),
	})
}

// refresh pulls newly published records from the wiki.
func (h *handler) refresh(c echo.Context) error {
	if h.deps.Updater == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "dataset updater not configured")
	}
	ctx := c.Request().Context()
	eps, err := h.deps.Updater.UpdateEpisodes(ctx)
	if err != nil {
		h.deps.Logger().Errorw("episode refresh failed", "error", err)
		return echo.NewHTTPError(http.StatusBadGateway, "episode refresh failed")
	}
	chs, err := h.deps.Updater.UpdateChapters(ctx)
	if err != nil {
		h.deps.Logger().Errorw("chapter refresh failed", "error", err)
		return echo.NewHTTPError(http.StatusBadGateway, "chapter refresh failed")
	}
	return c.JSON(http.StatusOK, map[string]int{"episodes": eps, "chapters": chs})
}

func (h *handler) lookupError(err error) error {
	if errors.Is(err, dataset.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "not found")
	}
	h.deps.Logger().Errorw("dataset lookup failed", "error", err)
	return echo.NewHTTPError(http.StatusInternalServerError)
}
