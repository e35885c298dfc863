// Package validate wraps go-playground/validator for request DTOs and folds
// failures into the VALIDATION error code.
package validate

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"quotekeeper/internal/apperr"
)

var v = validator.New(validator.WithRequiredStructEnabled())

// Struct validates a request DTO and returns a VALIDATION apperr describing
// the first failing field.
func Struct(s any) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
		fe := errs[0]
		return apperr.Validation(fmt.Sprintf("field %q failed on %q", fieldName(fe), fe.Tag()))
	}
	return apperr.Validation(err.Error())
}

// Email validates a single address the same way DTO email fields are checked.
func Email(email string) error {
	if err := v.Var(email, "required,email"); err != nil {
		return apperr.Validation("invalid email")
	}
	return nil
}

func fieldName(fe validator.FieldError) string {
	// StructNamespace is Type.Field; keep the field part, lowercased to match
	// the JSON casing clients send.
	ns := fe.StructNamespace()
	if i := strings.LastIndex(ns, "."); i >= 0 {
		ns = ns[i+1:]
	}
	if ns == "" {
		return fe.Field()
	}
	return strings.ToLower(ns[:1]) + ns[1:]
}
