package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"edition_collector/internal/cache"
	"edition_collector/internal/domain"
)

// handleCollect runs one collection. The run is detached from the request so
// a dropped connection does not abort it halfway through persisting.
func (s *Server) handleCollect(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request().Context()), s.cfg.RunTimeout)
	defer cancel()

	result, err := s.deps.Collector.Collect(ctx, s.now())
	if err != nil {
		s.logger.Error("collection request failed", "error", err)
	}
	if result == nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "collection failed")
	}

	status := http.StatusOK
	if result.Status == domain.RunFailure {
		status = http.StatusInternalServerError
	}
	return c.JSON(status, result)
}

type editionResponse struct {
	domain.Edition
	Articles map[domain.Source][]domain.Article `json:"articles"`
}

func (s *Server) handleLatestEdition(c echo.Context) error {
	ctx := c.Request().Context()

	edition, err := s.deps.Editions.GetLatestPublished(ctx)
	if err != nil {
		return s.editionError(err)
	}
	return s.respondEdition(c, edition)
}

func (s *Server) handleEdition(c echo.Context) error {
	slot, err := domain.ParseSlot(c.Param("type"), c.Param("date"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	edition, err := s.deps.Editions.GetBySlot(c.Request().Context(), slot)
	if err != nil {
		return s.editionError(err)
	}
	if edition.Status != domain.EditionPublished {
		return echo.NewHTTPError(http.StatusNotFound, "edition not found")
	}
	return s.respondEdition(c, edition)
}

func (s *Server) respondEdition(c echo.Context, edition *domain.Edition) error {
	articles, err := s.deps.Articles.ListByEdition(c.Request().Context(), edition.ID)
	if err != nil {
		s.logger.Error("list articles failed", "edition_id", edition.ID, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	grouped := make(map[domain.Source][]domain.Article)
	for _, a := range articles {
		grouped[a.Source] = append(grouped[a.Source], a)
	}
	return c.JSON(http.StatusOK, editionResponse{Edition: *edition, Articles: grouped})
}

func (s *Server) editionError(err error) error {
	if errors.Is(err, domain.ErrEditionNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "edition not found")
	}
	s.logger.Error("load edition failed", "error", err)
	return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
}

type widgetsResponse struct {
	domain.WidgetSnapshot
	Stale bool `json:"stale"`
}

func (s *Server) handleWidgets(c echo.Context) error {
	ctx := c.Request().Context()

	if snap, ok := cache.GetJSON[domain.WidgetSnapshot](ctx, s.deps.Cache, cache.WidgetsKey); ok {
		return c.JSON(http.StatusOK, widgetsResponse{WidgetSnapshot: snap})
	}
	if snap, ok := cache.GetStaleJSON[domain.WidgetSnapshot](ctx, s.deps.Cache, cache.WidgetsKey); ok {
		return c.JSON(http.StatusOK, widgetsResponse{WidgetSnapshot: snap, Stale: true})
	}
	return echo.NewHTTPError(http.StatusNotFound, "no widget data")
}

func (s *Server) handleSourceHealth(c echo.Context) error {
	health, err := s.deps.Health.List(c.Request().Context())
	if err != nil {
		s.logger.Error("list source health failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, health)
}

func (s *Server) handleHealthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
