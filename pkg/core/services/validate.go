package services

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/wadjakorntonsri/booking-bridge/pkg/core/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	err := v.RegisterValidation("httpurl", func(fl validator.FieldLevel) bool {
		return domain.IsValidURL(fl.Field().String())
	})
	if err != nil {
		panic(fmt.Sprintf("register httpurl validation: %v", err))
	}
	return v
}

// Validate checks the validate tags of a request struct and reports the first
// failure as a domain validation error.
func Validate(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	fe := verrs[0]
	switch fe.Tag() {
	case "hexcolor":
		return fmt.Errorf("%w (%s)", domain.ErrInvalidColor, fe.Field())
	case "httpurl":
		if fe.Field() == "LocationMapURL" {
			return domain.ErrInvalidMapURL
		}
		return fmt.Errorf("%w: %q", domain.ErrInvalidURL, fe.Value())
	case "email":
		return domain.ErrInvalidEmail
	case "required":
		switch fe.Field() {
		case "Name":
			return domain.ErrNameRequired
		case "Platform":
			return domain.ErrEmptyPlatform
		case "Email":
			return domain.ErrInvalidEmail
		}
	}
	return fmt.Errorf("%w: %s failed on %q", domain.ErrValidation, fe.Field(), fe.Tag())
}
