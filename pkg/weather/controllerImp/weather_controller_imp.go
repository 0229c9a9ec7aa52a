package controllerImp

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"soilwatch/pkg/weather/service"
)

type WeatherCtrl struct {
	s   service.WeatherService
	log *zap.SugaredLogger
}

func New(s service.WeatherService, log *zap.SugaredLogger) *WeatherCtrl {
	return &WeatherCtrl{s: s, log: log}
}

func (h *WeatherCtrl) Current(c echo.Context) error {
	if !h.s.Configured() {
		return h.fail(c, service.ErrNotConfigured)
	}
	q, err := service.ParseQuery(c.QueryParam("lat"), c.QueryParam("lon"), c.QueryParam("q"))
	if err != nil {
		return h.fail(c, err)
	}
	rep, err := h.s.Current(c.Request().Context(), q)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, rep)
}

func (h *WeatherCtrl) fail(c echo.Context, err error) error {
	var werr *service.Error
	if !errors.As(err, &werr) {
		werr = &service.Error{Kind: service.KindInternal, Err: err}
	}
	body := echo.Map{"error": werr.Kind}
	switch {
	case werr.Detail != "":
		body["detail"] = werr.Detail
	case werr.Err != nil:
		body["detail"] = werr.Err.Error()
	}
	switch {
	case errors.Is(err, context.Canceled):
		h.log.Debugw("weather request canceled by client")
	case werr.Kind == service.KindInternal:
		h.log.Errorw("weather failed", "err", err)
	}
	return c.JSON(werr.Kind.HTTPStatus(), body)
}
