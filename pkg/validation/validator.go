package validation

import (
	"github.com/go-playground/validator/v10"
)

// Validator wraps go-playground/validator. It satisfies echo.Validator.
type Validator struct{ v *validator.Validate }

func New() *Validator {
	return &Validator{v: validator.New(validator.WithRequiredStructEnabled())}
}

func (cv *Validator) Validate(i any) error { return cv.v.Struct(i) }
