package repository

import "soilwatch/entities"

type ProfileRepository interface {
	List() ([]entities.Profile, error)
	Replace(list []entities.Profile) error
	// Saved reports whether a list was ever stored, even an empty one.
	Saved() (bool, error)
}
