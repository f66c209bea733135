package validation

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/richxcame/driver-console/pkg/common"
)

// Validate is the global validator instance
var Validate *validator.Validate

func init() {
	Validate = validator.New()

	_ = Validate.RegisterValidation("driver_status", validateDriverStatus)
}

// ValidateStruct validates a struct and returns a ValidationError naming the
// first violated rule.
func ValidateStruct(s interface{}) error {
	err := Validate.Struct(s)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	messages := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		messages = append(messages, describeFieldError(fe))
	}

	return common.NewValidationError(strings.Join(messages, "; "))
}

func describeFieldError(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min":
		return fmt.Sprintf("%s must contain at least %s item(s)", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "driver_status":
		return field + " is not a known driver status"
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}

// validateDriverStatus checks the closed driver status enumeration.
func validateDriverStatus(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "submitted", "on-review", "pending", "approved", "rejected",
		"pending-payment", "deleted", "suspended":
		return true
	}
	return false
}
