package config

import (
	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-playground/validator/v10"
)

// RegisterCustomValidators adds the config-specific validation tags.
func RegisterCustomValidators(v *validator.Validate) error {
	return v.RegisterValidation("glob", validateGlob)
}

// validateGlob accepts any well-formed doublestar pattern.
func validateGlob(fl validator.FieldLevel) bool {
	return doublestar.ValidatePattern(fl.Field().String())
}
