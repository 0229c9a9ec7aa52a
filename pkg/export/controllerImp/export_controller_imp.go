package controllerImp

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"soilwatch/pkg/export/service"
	"soilwatch/pkg/summary"
)

type ExportCtrl struct {
	s   service.ExportService
	log *zap.SugaredLogger
}

func New(s service.ExportService, log *zap.SugaredLogger) *ExportCtrl {
	return &ExportCtrl{s: s, log: log}
}

// Download streams the workbook for ?period=weekly|monthly (default weekly).
func (h *ExportCtrl) Download(c echo.Context) error {
	period := summary.Weekly
	if v := c.QueryParam("period"); v != "" {
		p, err := summary.ParsePeriod(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		period = p
	}

	wb, err := h.s.Build(period)
	if errors.Is(err, service.ErrNothingToExport) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	}
	if err != nil {
		h.log.Errorw("export failed", "period", period, "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	defer wb.File.Close()

	buf, err := wb.File.WriteToBuffer()
	if err != nil {
		h.log.Errorw("export write failed", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", wb.Filename))
	return c.Blob(http.StatusOK, service.ContentType, buf.Bytes())
}
