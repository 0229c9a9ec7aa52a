package entities

// Setting is a small key/value row for service state.
type Setting struct {
	Key   string `gorm:"primaryKey;size:64"`
	Value string
}
