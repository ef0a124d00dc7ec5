package val

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/code19m/errx"
	"github.com/go-playground/validator/v10"
)

const (
	CodeValidationFailed = "VALIDATION_FAILED"
)

// ValidateSchema validates a request schema. Failures are reported as a
// validation error whose fields map each invalid field to a description.
func ValidateSchema(schema any) error {
	err := getValidator().Struct(schema)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		fields := make(errx.M)
		for _, fieldErr := range validationErrors {
			fields[fieldErr.Field()] = describe(fieldErr)
		}

		return errx.New(
			"Validation failed. See fields for details.",
			errx.WithCode(CodeValidationFailed),
			errx.WithType(errx.T_Validation),
			errx.WithFields(fields),
		)
	}

	return errx.New(
		fmt.Sprintf("Unknown validation error: %s", err.Error()),
		errx.WithCode(CodeValidationFailed),
		errx.WithType(errx.T_Validation),
	)
}

// Struct validates a configuration struct and returns the failures as
// "namespace: tag=param" entries, or nil when the struct is valid.
func Struct(v any) ([]string, error) {
	err := getValidator().Struct(v)
	if err == nil {
		return nil, nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return nil, errx.Wrap(err, errx.WithCode(CodeValidationFailed))
	}

	failed := make([]string, 0, len(validationErrors))
	for _, fieldErr := range validationErrors {
		tag := fieldErr.Tag()
		if fieldErr.Param() != "" {
			tag += "=" + fieldErr.Param()
		}
		failed = append(failed, fmt.Sprintf("%s: %s", fieldErr.Namespace(), tag))
	}
	return failed, nil
}

func describe(fieldErr validator.FieldError) string {
	param := fieldErr.Param()
	isString := fieldErr.Kind() == reflect.String

	switch fieldErr.Tag() {
	case "required":
		return "This field is required"
	case "min":
		if isString {
			return fmt.Sprintf("Must be at least %s characters", param)
		}
		return fmt.Sprintf("Must be at least %s", param)
	case "max":
		if isString {
			return fmt.Sprintf("Must be at most %s characters", param)
		}
		return fmt.Sprintf("Must be at most %s", param)
	case "gt":
		return fmt.Sprintf("Must be greater than %s", param)
	case "gte":
		return fmt.Sprintf("Must be greater than or equal to %s", param)
	case "lte":
		return fmt.Sprintf("Must be less than or equal to %s", param)
	case "oneof":
		return fmt.Sprintf("Must be one of: %s", strings.ReplaceAll(param, " ", ", "))
	case "excludesall":
		return fmt.Sprintf("Must not contain any of: %s", param)
	case "url":
		return "Must be a valid URL"
	case "hostname_port":
		return "Must be a valid host:port"
	case TagRelPath:
		return "Must be a relative path without '.' or '..' segments"
	}
	return fmt.Sprintf("Failed validation: %s", fieldErr.Tag())
}
