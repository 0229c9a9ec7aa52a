package controllerImp

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"soilwatch/entities"
	"soilwatch/pkg/export/service"
	"soilwatch/pkg/export/serviceImp"
)

type memStore struct{ list []entities.Reading }

func (m *memStore) Load() []entities.Reading            { return m.list }
func (m *memStore) Save(list []entities.Reading) error { m.list = list; return nil }

func get(t *testing.T, h *ExportCtrl, target string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, target, nil), rec)
	if err := h.Download(c); err != nil {
		t.Fatalf("Download: %v", err)
	}
	return rec
}

func TestDownload(t *testing.T) {
	store := &memStore{list: []entities.Reading{{ID: "1", Date: "2024-01-03", Location: "A", Ph: 6.1}}}
	h := New(serviceImp.New(store, time.UTC, zap.NewNop().Sugar()), zap.NewNop().Sugar())

	rec := get(t, h, "/api/export?period=monthly")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body)
	}
	if ct := rec.Header().Get(echo.HeaderContentType); ct != service.ContentType {
		t.Fatalf("content type = %q", ct)
	}
	if cd := rec.Header().Get(echo.HeaderContentDisposition); !strings.Contains(cd, "soil-data-monthly-") {
		t.Fatalf("disposition = %q", cd)
	}
	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("open xlsx: %v", err)
	}
	defer f.Close()
	if v, _ := f.GetCellValue("Monthly", "B3"); v != "2024-01" {
		t.Fatalf("Monthly!B3 = %q", v)
	}
}

func TestDownloadErrors(t *testing.T) {
	h := New(serviceImp.New(&memStore{}, time.UTC, zap.NewNop().Sugar()), zap.NewNop().Sugar())
	if rec := get(t, h, "/api/export?period=yearly"); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad period status = %d", rec.Code)
	}
	if rec := get(t, h, "/api/export"); rec.Code != http.StatusNotFound {
		t.Fatalf("empty export status = %d", rec.Code)
	}
}
