package entities

type Profile struct {
	ID         string   `gorm:"primaryKey;size:36" json:"id"`
	Position   int      `gorm:"index" json:"-"`
	Name       string   `json:"name"`
	Phone      string   `json:"phone,omitempty"`
	Location   string   `json:"location,omitempty"`
	Experience string   `json:"experience,omitempty"`
	Tags       []string `gorm:"serializer:json" json:"tags,omitempty"`
	Active     bool     `json:"active"`
}
