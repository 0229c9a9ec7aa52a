package controllerImp

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"soilwatch/pkg/reading/controller"
	"soilwatch/pkg/reading/repository"
	"soilwatch/pkg/reading/service"
	"soilwatch/pkg/summary"
)

type ReadingCtrl struct {
	s   service.ReadingService
	log *zap.SugaredLogger
}

var _ controller.ReadingController = (*ReadingCtrl)(nil)

func New(s service.ReadingService, log *zap.SugaredLogger) *ReadingCtrl {
	return &ReadingCtrl{s: s, log: log}
}

func (h *ReadingCtrl) List(c echo.Context) error {
	out, err := h.s.List(service.Filter{
		Location: strings.TrimSpace(c.QueryParam("location")),
		Search:   c.QueryParam("q"),
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ReadingCtrl) Create(c echo.Context) error {
	var in service.NewReading
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid json"})
	}
	m, sugg, err := h.s.Add(in)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"reading": m, "suggestions": sugg})
}

func (h *ReadingCtrl) Replace(c echo.Context) error {
	var list []service.BackupReading
	if err := c.Bind(&list); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid json"})
	}
	if err := h.s.Replace(list); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"count": len(list)})
}

func (h *ReadingCtrl) Backup(c echo.Context) error {
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="soil-readings-backup.json"`)
	return c.JSON(http.StatusOK, h.s.All())
}

func (h *ReadingCtrl) Import(c echo.Context) error {
	n, err := h.s.Import(c.Request().Body)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"imported": n})
}

func (h *ReadingCtrl) Delete(c echo.Context) error {
	if err := h.s.Remove(c.Param("id")); err != nil {
		return h.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *ReadingCtrl) Suggestions(c echo.Context) error {
	out, err := h.s.Suggestions(c.Param("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ReadingCtrl) Evaluate(c echo.Context) error {
	var in service.NewReading
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid json"})
	}
	out, err := h.s.Evaluate(in)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ReadingCtrl) Summary(c echo.Context) error {
	period := summary.Weekly
	if v := c.QueryParam("period"); v != "" {
		p, err := summary.ParsePeriod(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		period = p
	}
	out, err := h.s.Summary(period, strings.TrimSpace(c.QueryParam("location")))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"period": period, "locations": out})
}

func (h *ReadingCtrl) Series(c echo.Context) error {
	out, err := h.s.Series(strings.TrimSpace(c.QueryParam("location")))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ReadingCtrl) Locations(c echo.Context) error {
	out, err := h.s.Locations()
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ReadingCtrl) Dashboard(c echo.Context) error {
	out, err := h.s.Dashboard()
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ReadingCtrl) fail(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidReading):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	}
	h.log.Errorw("reading request failed", "path", c.Path(), "err", err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
}
