package domain

import (
	"strings"

	validation "github.com/jellydator/validation"

	"github.com/allisson/certify/internal/errors"
	customValidation "github.com/allisson/certify/internal/validation"
)

// Campaign holds the constant identifier segments configured for the running process.
type Campaign struct {
	District string
	Program  string
	Year     string
	Officer1 string
	Officer2 string
}

// Validate checks every segment is present and free of separators.
func (c Campaign) Validate() error {
	err := validation.ValidateStruct(&c,
		validation.Field(&c.District, validation.Required, customValidation.IdentifierSegment),
		validation.Field(&c.Program, validation.Required, customValidation.IdentifierSegment),
		validation.Field(&c.Year, validation.Required, customValidation.IdentifierSegment),
		validation.Field(&c.Officer1, validation.Required, customValidation.IdentifierSegment),
		validation.Field(&c.Officer2, validation.Required, customValidation.IdentifierSegment),
	)
	if err != nil {
		return errors.Wrap(ErrInvalidCampaign, err.Error())
	}
	return nil
}

// Prefix returns the five campaign segments joined in identifier order.
func (c Campaign) Prefix() string {
	return strings.Join([]string{c.District, c.Program, c.Year, c.Officer1, c.Officer2}, "-")
}
