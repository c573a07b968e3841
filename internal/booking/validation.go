package booking

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var phonePattern = regexp.MustCompile(`^[+\d\s()-]+$`)

// Validate is the shared validator instance.  Struct errors are reported with
// json field names and the custom "phone" tag accepts digits, spaces, plus
// signs, dashes and parentheses.
var Validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	return v
}

// GuestInfo identifies the person making a reservation.
type GuestInfo struct {
	Name  string `json:"guest_name" validate:"required,min=2,max=160"`
	Email string `json:"guest_email" validate:"required,email,max=255"`
	Phone string `json:"guest_phone" validate:"required,min=10,max=40,phone"`
}

func (g GuestInfo) normalized() GuestInfo {
	return GuestInfo{
		Name:  strings.TrimSpace(g.Name),
		Email: strings.ToLower(strings.TrimSpace(g.Email)),
		Phone: strings.TrimSpace(g.Phone),
	}
}

// validationError converts the first validator failure into a ValidationError.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &ValidationError{Message: err.Error()}
	}
	fe := verrs[0]
	var msg string
	switch fe.Tag() {
	case "required":
		msg = "is required"
	case "min":
		msg = "must be at least " + fe.Param() + " characters"
	case "max":
		msg = "must be at most " + fe.Param() + " characters"
	case "email":
		msg = "must be a valid email address"
	case "phone":
		msg = "must contain only digits, spaces and + - ( )"
	default:
		msg = "is invalid"
	}
	return &ValidationError{Field: fe.Field(), Message: msg}
}
