package employee

import (
	"github.com/go-playground/validator/v10"
)

// CreateDTO carries the profile fields of a brand-new employee row.
type CreateDTO struct {
	FullName   string `validate:"required"`
	JobNumber  string `validate:"required"`
	Username   string
	Password   string
	IBAN       string
	IsContract bool
}

var dtoValidator = validator.New(validator.WithRequiredStructEnabled())

func (d *CreateDTO) Validate() error {
	return dtoValidator.Struct(d)
}
