// Package validation holds the validation rules shared by the command inputs.
package validation

import (
	"strings"

	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/todos/internal/errors"
)

// NotBlank rejects strings made only of whitespace. Empty strings pass, pair it with
// validation.Required to reject those too. The value itself is never trimmed.
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)

// WrapValidationError turns a validation failure into an ErrInvalidInput whose
// client-facing message is the validation message.
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.WithKind(apperrors.ErrInvalidInput, err.Error())
}
