package serverutils

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"ai-tutor-be/internal/apperrors"
)

var validate = validator.New()

// ValidateRequest checks struct tags and folds all failures into a single
// validation error so the middleware can answer with one 400.
func ValidateRequest(req interface{}) error {
	if err := validate.Struct(req); err != nil {
		var sb strings.Builder
		for i, fieldErr := range err.(validator.ValidationErrors) {
			if i > 0 {
				sb.WriteString("; ")
			}
			sb.WriteString(fmt.Sprintf("field '%s' failed on '%s'", fieldErr.Field(), fieldErr.Tag()))
		}
		return apperrors.New(apperrors.KindValidation, sb.String())
	}
	return nil
}
