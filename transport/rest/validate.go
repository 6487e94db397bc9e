package rest

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/rocketscienceinc/tictactoe-sessions/internal/apperror"
)

var requestValidator = newRequestValidator()

// newRequestValidator - reports fields under their json names.
func newRequestValidator() *validator.Validate {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}

		return name
	})

	return validate
}

// validateRequest - checks the validate tags of a decoded body and reports the first failing field.
func validateRequest(req any) error {
	err := requestValidator.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return apperror.Internalf("failed to validate request: %v", err)
	}

	fieldErr := fieldErrs[0]

	return apperror.WithField(fieldErr.Field(), fmt.Errorf("%w: %s is %s", apperror.ErrMalformedRequest, fieldErr.Field(), fieldErr.Tag()))
}
