package serviceImp

import (
	"fmt"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"soilwatch/entities"
	"soilwatch/pkg/export/service"
	"soilwatch/pkg/reading/repository"
	"soilwatch/pkg/summary"
)

const readingsSheet = "Readings"

var readingHeader = []any{
	"Date", "Location", "pH", "Moisture", "N", "K", "Hydrogen",
	"Crop Type", "Soil Color", "Seed Type", "Fertilizer Used", "Pesticide Used", "Notes",
}

type exportSvc struct {
	store repository.Store
	loc   *time.Location
	log   *zap.SugaredLogger
	now   func() time.Time
}

func New(store repository.Store, loc *time.Location, log *zap.SugaredLogger) service.ExportService {
	if loc == nil {
		loc = time.UTC
	}
	return &exportSvc{store: store, loc: loc, log: log, now: time.Now}
}

func (s *exportSvc) Build(period summary.Period) (*service.Workbook, error) {
	readings := s.store.Load()
	if len(readings) == 0 {
		return nil, service.ErrNothingToExport
	}
	now := s.now().In(s.loc)
	f, err := Workbook(readings, period)
	if err != nil {
		return nil, err
	}
	s.log.Infow("export built", "period", period, "readings", len(readings))
	return &service.Workbook{Filename: Filename(period, now), File: f}, nil
}

// Filename follows soil-data-<period>-<YYYY-MM-DD>.xlsx.
func Filename(period summary.Period, now time.Time) string {
	return fmt.Sprintf("soil-data-%s-%s.xlsx", period, now.Format("2006-01-02"))
}

// Workbook writes the raw readings sheet and the period summary sheet.
func Workbook(readings []entities.Reading, period summary.Period) (*excelize.File, error) {
	f := excelize.NewFile()
	ok := false
	defer func() {
		if !ok {
			f.Close()
		}
	}()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	if err := f.SetSheetName("Sheet1", readingsSheet); err != nil {
		return nil, err
	}
	if err := writeReadings(f, readings, bold); err != nil {
		return nil, fmt.Errorf("readings sheet: %w", err)
	}
	if err := writeSummary(f, summary.Summarize(readings, period), period, bold); err != nil {
		return nil, fmt.Errorf("summary sheet: %w", err)
	}
	ok = true
	return f, nil
}

func writeReadings(f *excelize.File, readings []entities.Reading, style int) error {
	sorted := make([]entities.Reading, len(readings))
	copy(sorted, readings)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date < sorted[j].Date })

	if err := f.SetSheetRow(readingsSheet, "A1", &readingHeader); err != nil {
		return err
	}
	if err := f.SetCellStyle(readingsSheet, "A1", "M1", style); err != nil {
		return err
	}
	for i, r := range sorted {
		row := []any{
			r.Date, r.Location, r.Ph, num(r.Moisture), num(r.N), num(r.K), num(r.Hydrogen),
			r.CropType, r.SoilColor, r.SeedType, r.FertilizerUsed, r.PesticideUsed, r.Notes,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(readingsSheet, cell, &row); err != nil {
			return err
		}
	}
	return f.SetColWidth(readingsSheet, "A", "B", 14)
}

func writeSummary(f *excelize.File, sum map[string][]summary.Bucket, period summary.Period, style int) error {
	sheet := period.Title()
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	if err := f.SetCellValue(sheet, "A1", fmt.Sprintf("Summary (%s)", period)); err != nil {
		return err
	}
	header := []any{"Location", period.BucketName(), "Average pH", "Count"}
	if err := f.SetSheetRow(sheet, "A2", &header); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", "D2", style); err != nil {
		return err
	}
	row := 3
	for _, loc := range summary.Locations(sum) {
		for _, b := range sum[loc] {
			vals := []any{loc, b.Label, b.Avg, b.Count}
			cell, err := excelize.CoordinatesToCellName(1, row)
			if err != nil {
				return err
			}
			if err := f.SetSheetRow(sheet, cell, &vals); err != nil {
				return err
			}
			row++
		}
	}
	return f.SetColWidth(sheet, "B", "B", 26)
}

func num(v *float64) any {
	if v == nil {
		return ""
	}
	return *v
}
