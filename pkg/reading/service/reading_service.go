package service

import (
	"errors"
	"io"

	"soilwatch/entities"
	"soilwatch/pkg/advisory"
	"soilwatch/pkg/summary"
)

var ErrInvalidReading = errors.New("invalid reading")

// NewReading is the input accepted when recording a measurement.
type NewReading struct {
	Date           string   `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Location       string   `json:"location" validate:"required,max=120"`
	Ph             *float64 `json:"ph" validate:"required,gte=0,lte=14"`
	Moisture       *float64 `json:"moisture" validate:"omitempty,gte=0,lte=100"`
	N              *float64 `json:"n" validate:"omitempty,gte=0"`
	K              *float64 `json:"k" validate:"omitempty,gte=0"`
	Hydrogen       *float64 `json:"hydrogen"`
	CropType       string   `json:"cropType"`
	SoilColor      string   `json:"soilColor"`
	SeedType       string   `json:"seedType"`
	FertilizerUsed string   `json:"fertilizerUsed"`
	PesticideUsed  string   `json:"pesticideUsed"`
	Notes          string   `json:"notes"`
}

// BackupReading is one entry of a backup restore. Ph stays a pointer so a
// missing value is rejected instead of stored as zero.
type BackupReading struct {
	ID string `json:"id"`
	NewReading
}

type Filter struct {
	Location string
	Search   string
}

type Point struct {
	Date string  `json:"date"`
	Ph   float64 `json:"ph"`
}

type Dashboard struct {
	ReadingCount   int               `json:"readingCount"`
	LatestPh       *float64          `json:"latestPh"`
	MoistureAvg    int               `json:"moistureAvg"`
	FieldsActive   int               `json:"fieldsActive"`
	Alerts         int               `json:"alerts"`
	ReferenceQuery string            `json:"referenceQuery"`
	Latest         *entities.Reading `json:"latest,omitempty"`
}

type ReadingService interface {
	Add(in NewReading) (*entities.Reading, []advisory.Suggestion, error)
	Evaluate(in NewReading) ([]advisory.Suggestion, error)
	Get(id string) (*entities.Reading, error)
	Suggestions(id string) ([]advisory.Suggestion, error)
	Remove(id string) error
	List(f Filter) ([]entities.Reading, error)
	Locations() ([]string, error)
	Series(location string) ([]Point, error)
	Summary(period summary.Period, location string) (map[string][]summary.Bucket, error)
	Dashboard() (Dashboard, error)
	All() []entities.Reading
	Replace(list []BackupReading) error
	Import(r io.Reader) (int, error)
}
