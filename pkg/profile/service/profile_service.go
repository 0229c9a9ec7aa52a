package service

import (
	"errors"

	"soilwatch/entities"
)

var (
	ErrInvalidProfile = errors.New("invalid profile")
	ErrNoProfiles     = errors.New("no profiles")
)

// ProfileInput is one entry of a full profile list replacement.
type ProfileInput struct {
	ID         string   `json:"id"`
	Name       string   `json:"name" validate:"required,max=120"`
	Phone      string   `json:"phone" validate:"max=40"`
	Location   string   `json:"location" validate:"max=120"`
	Experience string   `json:"experience" validate:"max=60"`
	Tags       []string `json:"tags" validate:"max=20,dive,max=40"`
	Active     bool     `json:"active"`
}

type ProfileService interface {
	List() ([]entities.Profile, error)
	Replace(in []ProfileInput) ([]entities.Profile, error)
	Active() (*entities.Profile, error)
}
