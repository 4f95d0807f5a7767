package validator

import (
	"errors"
	"reflect"
	"strings"

	val "github.com/go-playground/validator/v10"
)

var templates = map[string]string{
	"required":    "%f is required",
	"gt":          "%f must be greater than %p",
	"gte":         "%f must be greater than or equal to %p",
	"lte":         "%f must be less than or equal to %p",
	"min":         "%f must be at least %p",
	"max":         "%f must be at most %p",
	"oneof":       "%f must be one of [%p]",
	"email":       "%f must be a valid email address",
	"date":        "%f must be a date in YYYY-MM-DD format",
	"uuid":        "%f must be a valid UUID",
	"alphanum":    "%f must contain only letters and digits",
	"nefield":     "%f must differ from %p",
	"dive":        "%f contains an invalid item",
	"mimetypes":   "%f must be one of the types [%p]",
	"maxfilesize": "%f must not exceed %pMB",
}

// jsonName reports struct fields by their wire name so messages match the request body.
func jsonName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")

	switch name {
	case "-":
		return ""
	case "":
		return field.Name
	default:
		return name
	}
}

// describe returns the first failing field and a readable message for it.
func describe(err error) (string, string) {
	var valErrors val.ValidationErrors
	if !errors.As(err, &valErrors) || len(valErrors) == 0 {
		return "", err.Error()
	}

	first := valErrors[0]
	for _, fieldErr := range valErrors {
		if _, ok := templates[fieldErr.Tag()]; ok {
			first = fieldErr

			break
		}
	}

	template, ok := templates[first.Tag()]
	if !ok {
		return first.Field(), first.Error()
	}

	label := first.Field()
	if label == "" {
		label = "value"
	}

	return first.Field(), strings.NewReplacer("%f", label, "%p", first.Param()).Replace(template)
}
