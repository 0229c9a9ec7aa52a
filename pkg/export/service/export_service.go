package service

import (
	"errors"

	"github.com/xuri/excelize/v2"

	"soilwatch/pkg/summary"
)

var ErrNothingToExport = errors.New("no readings to export")

const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Workbook is a generated spreadsheet; callers must Close the file.
type Workbook struct {
	Filename string
	File     *excelize.File
}

type ExportService interface {
	Build(period summary.Period) (*Workbook, error)
}
