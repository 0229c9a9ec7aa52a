package entities

import "time"

// Reading is one soil measurement. Optional numbers are nil when not measured.
type Reading struct {
	ID             string   `gorm:"primaryKey;size:36" json:"id"`
	Date           string   `gorm:"index;size:10" json:"date"` // YYYY-MM-DD
	Location       string   `gorm:"index" json:"location"`
	Ph             float64  `json:"ph"`
	Moisture       *float64 `json:"moisture,omitempty"` // percent
	N              *float64 `json:"n,omitempty"`        // ppm
	K              *float64 `json:"k,omitempty"`        // ppm
	Hydrogen       *float64 `json:"hydrogen,omitempty"`
	CropType       string   `json:"cropType,omitempty"`
	SoilColor      string   `json:"soilColor,omitempty"`
	SeedType       string   `json:"seedType,omitempty"`
	FertilizerUsed string   `json:"fertilizerUsed,omitempty"`
	PesticideUsed  string   `json:"pesticideUsed,omitempty"`
	Notes          string   `json:"notes,omitempty"`

	CreatedAt time.Time `json:"-"`
}
