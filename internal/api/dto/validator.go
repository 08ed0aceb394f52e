package dto

import (
	"github.com/go-playground/validator/v10"

	ierr "github.com/NexaRift25/tilbod-admin-company-sub001/internal/errors"
)

var validate = validator.New()

// validateStruct runs the tag based validation and converts failures into
// the standard error shape with the offending field reported
func validateStruct(s interface{}) error {
	if err := validate.Struct(s); err != nil {
		if fieldErrs, ok := err.(validator.ValidationErrors); ok && len(fieldErrs) > 0 {
			first := fieldErrs[0]
			return ierr.WithError(err).
				WithHintf("Invalid value for field %s", first.Field()).
				WithReportableDetails(map[string]interface{}{
					"field": first.Field(),
					"rule":  first.Tag(),
				}).
				Mark(ierr.ErrValidation)
		}
		return ierr.WithError(err).
			WithHint("Invalid request").
			Mark(ierr.ErrValidation)
	}
	return nil
}
