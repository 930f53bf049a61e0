package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/SscSPs/personal_ledger_app/internal/apperrors"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report fields by their JSON names so messages match what callers sent.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// validateStruct runs the struct's validate tags and converts failures into
// apperrors.ErrMissingField (a required field is absent) or apperrors.ErrValidation.
func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	var missing, invalid []string
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			missing = append(missing, fe.Field())
			continue
		}
		invalid = append(invalid, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", apperrors.ErrMissingField, strings.Join(missing, ", "))
	}
	return fmt.Errorf("%w: %s", apperrors.ErrValidation, strings.Join(invalid, "; "))
}
