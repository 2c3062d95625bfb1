// Package identity defines the identity-provisioning collaborator used to
// create login identities for brand-new employees.
package identity

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// CreateLoginDTO is the two-phase create's phase one: the login identity
// created before any profile or salary record is written.
type CreateLoginDTO struct {
	LoginID   uuid.UUID `validate:"required"`
	Email     string    `validate:"required,email"`
	Password  string    `validate:"required"`
	FullName  string    `validate:"required"`
	JobNumber string    `validate:"required"`
}

var dtoValidator = validator.New(validator.WithRequiredStructEnabled())

func (d *CreateLoginDTO) Validate() error {
	return dtoValidator.Struct(d)
}

// Provisioner creates login identities in the external directory service.
type Provisioner interface {
	// CreateLogin returns the id of the created identity. On error no
	// identity exists and the caller must not proceed to phase two.
	CreateLogin(ctx context.Context, data *CreateLoginDTO) (uuid.UUID, error)
}
