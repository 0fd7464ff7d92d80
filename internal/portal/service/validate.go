package service

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ngo-portal/portal-backend/internal/portal/domain"
)

// emailPattern accepts anything shaped like local@domain.tld.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	if err := v.RegisterValidation("mailbox", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(fmt.Sprintf("register mailbox validation: %v", err))
	}
	return v
}

// validateDraft checks presence of every required field first, and only
// then the email format, so a draft with both problems reports the missing
// fields.
func validateDraft(draft any) error {
	err := validate.Struct(draft)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate draft: %w", err)
	}

	var missing []string
	var badEmail *domain.InvalidEmailError
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			missing = append(missing, fe.Field())
		case "mailbox":
			badEmail = &domain.InvalidEmailError{Email: fmt.Sprint(fe.Value())}
		}
	}
	if len(missing) > 0 {
		return &domain.MissingFieldsError{Fields: missing}
	}
	if badEmail != nil {
		return badEmail
	}
	return fmt.Errorf("validate draft: %w", err)
}
