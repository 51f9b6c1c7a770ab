package validator

import (
	"errors"
	"fmt"

	val "github.com/go-playground/validator/v10"
)

type describe func(field, param string) string

func withParam(format string) describe {
	return func(field, param string) string { return fmt.Sprintf(format, field, param) }
}

func fieldOnly(format string) describe {
	return func(field, _ string) string { return fmt.Sprintf(format, field) }
}

var messages = map[string]describe{
	"required": fieldOnly("%s is required"),
	"email":    fieldOnly("%s must be a valid email address"),
	"uuid":     fieldOnly("%s must be a valid UUID"),
	"url":      fieldOnly("%s must be a valid URL"),
	"dateonly": fieldOnly("%s must be a date in YYYY-MM-DD format"),
	"gte":      withParam("%s must be greater than or equal to %s"),
	"min":      withParam("%s must be greater than or equal to %s"),
	"lte":      withParam("%s must be less than or equal to %s"),
	"max":      withParam("%s must be less than or equal to %s"),
	"oneof":    withParam("%s must be one of %s"),
	"gtfield":  withParam("%s must be after %s"),
	"mimetypes": withParam("%s must be one of %s"),
	"maxfilesize": withParam("%s must not exceed %s MB"),
}

// message reports the first failed rule in a form suitable for API clients.
func message(err error) string {
	var fieldErrors val.ValidationErrors
	if !errors.As(err, &fieldErrors) || len(fieldErrors) == 0 {
		return err.Error()
	}

	first := fieldErrors[0]
	if text, ok := messages[first.Tag()]; ok {
		return text(first.Field(), first.Param())
	}

	return fmt.Sprintf("%s is invalid", first.Field())
}
