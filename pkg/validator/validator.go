package validator

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ErrorResponse struct {
	FailedField string `json:"field"`
	Tag         string `json:"tag"`
	Value       string `json:"value,omitempty"`
}

func (e *ErrorResponse) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("field '%s' failed on '%s=%s'", e.FailedField, e.Tag, e.Value)
	}
	return fmt.Sprintf("field '%s' failed on '%s'", e.FailedField, e.Tag)
}

var validate = validator.New()

func init() {
	// Register custom validation for UUID
	validate.RegisterValidation("uuid_required", func(fl validator.FieldLevel) bool {
		if id, ok := fl.Field().Interface().(uuid.UUID); ok {
			return id != uuid.Nil
		}
		return false
	})

	// Decimals are structs, so the builtin gt/gte tags do not apply
	validate.RegisterValidation("decimal_gt0", func(fl validator.FieldLevel) bool {
		if d, ok := fl.Field().Interface().(decimal.Decimal); ok {
			return d.IsPositive()
		}
		return false
	})
	validate.RegisterValidation("decimal_gte0", func(fl validator.FieldLevel) bool {
		if d, ok := fl.Field().Interface().(decimal.Decimal); ok {
			return !d.IsNegative()
		}
		return false
	})
}

func ValidateStruct(data interface{}) []*ErrorResponse {
	var errors []*ErrorResponse
	err := validate.Struct(data)
	if err != nil {
		for _, err := range err.(validator.ValidationErrors) {
			var element ErrorResponse
			element.FailedField = err.StructNamespace()
			element.Tag = err.Tag()
			element.Value = err.Param()
			errors = append(errors, &element)
		}
	}
	return errors
}

// FirstError validates data and returns the first failure, or nil.
func FirstError(data interface{}) error {
	if errs := ValidateStruct(data); len(errs) > 0 {
		return errs[0]
	}
	return nil
}
