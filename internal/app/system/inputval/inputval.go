// Package inputval validates decoded request payloads before they
// reach any core operation.
package inputval

import (
	"github.com/go-playground/validator/v10"

	"github.com/scholarlyhq/scholarly/internal/app/system/apperr"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Struct checks the payload's validate tags and converts the first
// problem into a user-facing Validation failure.
func Struct(payload any) error {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}
	if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
		fe := errs[0]
		if fe.Tag() == "required" {
			return apperr.Validationf("%s is required", fe.Field())
		}
		return apperr.Validationf("%s is invalid", fe.Field())
	}
	return apperr.Validationf("invalid request payload")
}
