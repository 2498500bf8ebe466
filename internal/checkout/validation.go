package checkout

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"storefront/internal/models"
)

var postalCodePattern = regexp.MustCompile(`^\d{2}-\d{3}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("postalcode", func(fl validator.FieldLevel) bool {
		return postalCodePattern.MatchString(fl.Field().String())
	})
	return v
}

// ValidateAddress checks a submitted address: every field present, a valid
// email and a DD-DDD postal code. The address is trimmed before checking and
// the trimmed copy is returned.
func ValidateAddress(address models.Address) (models.Address, error) {
	trimmed := address.Trimmed()

	err := validate.Struct(trimmed)
	if err == nil {
		return trimmed, nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return models.Address{}, err
	}

	fields := make(map[string]string, len(validationErrors))
	for _, fe := range validationErrors {
		fields[fe.Field()] = describe(fe)
	}
	return models.Address{}, &AddressError{Fields: fields}
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "postalcode":
		return "must match DD-DDD"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	default:
		return "is invalid"
	}
}
