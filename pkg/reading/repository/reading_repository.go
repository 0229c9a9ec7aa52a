package repository

import (
	"errors"

	"soilwatch/entities"
)

var ErrNotFound = errors.New("reading not found")

// Store is the whole-collection view of the readings.
type Store interface {
	// Load returns every reading ordered by date, then insertion. It never
	// fails: storage errors and malformed rows yield what could be read.
	Load() []entities.Reading
	// Save replaces the stored collection with list.
	Save(list []entities.Reading) error
}

type ReadingRepository interface {
	Store
	Create(r *entities.Reading) error
	// Append inserts list in one transaction, leaving existing rows alone.
	Append(list []entities.Reading) error
	FindByID(id string) (*entities.Reading, error)
	Delete(id string) error
	List(location string) ([]entities.Reading, error)
}
