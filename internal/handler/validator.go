package handler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// CustomValidator adapts go-playground/validator to echo's Validator interface
type CustomValidator struct {
	validator *validator.Validate
}

func NewValidator() *CustomValidator {
	return &CustomValidator{validator: validator.New()}
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// fieldErrors collects per-field validation failures so the boundary can
// return all of them at once instead of failing on the first.
func fieldErrors(err error) map[string]string {
	fields := map[string]string{}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		fields["request"] = "invalid request data"
		return fields
	}

	for _, fe := range verrs {
		fields[fieldName(fe)] = messageFor(fe)
	}
	return fields
}

func fieldName(fe validator.FieldError) string {
	// Struct field names map 1:1 to snake_case JSON keys here
	var b strings.Builder
	for i, r := range fe.Field() {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r - 'A' + 'a')
		} else {
			b.WriteRune(r)
		}
	}
	name := b.String()
	// Initialisms keep their casing in field names (ImageURL -> image_url)
	name = strings.ReplaceAll(name, "u_r_l", "url")
	name = strings.ReplaceAll(name, "i_d", "id")
	return name
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s characters long", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters long", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	default:
		return "is invalid"
	}
}
