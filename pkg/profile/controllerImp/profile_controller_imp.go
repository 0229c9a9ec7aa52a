package controllerImp

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"soilwatch/pkg/profile/controller"
	"soilwatch/pkg/profile/service"
)

type ProfileCtrl struct {
	s   service.ProfileService
	log *zap.SugaredLogger
}

var _ controller.ProfileController = (*ProfileCtrl)(nil)

func New(s service.ProfileService, log *zap.SugaredLogger) *ProfileCtrl {
	return &ProfileCtrl{s: s, log: log}
}

func (h *ProfileCtrl) List(c echo.Context) error {
	out, err := h.s.List()
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ProfileCtrl) Replace(c echo.Context) error {
	var in []service.ProfileInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid json"})
	}
	out, err := h.s.Replace(in)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ProfileCtrl) Active(c echo.Context) error {
	p, err := h.s.Active()
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *ProfileCtrl) fail(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidProfile):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrNoProfiles):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	}
	h.log.Errorw("profile request failed", "err", err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
}
