package service

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/belleallure/salon-api/internal/core/domain"
	"github.com/belleallure/salon-api/internal/core/ports"
)

var validate = validator.New()

var (
	frenchPhone = regexp.MustCompile(`^(\+33|0)[1-9]\d{8}$`)
	e164Phone   = regexp.MustCompile(`^\+[1-9]\d{7,14}$`)
	phoneNoise  = strings.NewReplacer(" ", "", ".", "", "-", "")
)

// normalizeClient trims the client fields, lower-cases the email and checks
// both contact formats.
func normalizeClient(in ports.ClientInput) (domain.Client, error) {
	c := domain.Client{
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Email:     strings.ToLower(strings.TrimSpace(in.Email)),
		Phone:     strings.TrimSpace(in.Phone),
	}
	for _, f := range []struct{ name, value string }{
		{"first_name", c.FirstName},
		{"last_name", c.LastName},
		{"email", c.Email},
		{"phone", c.Phone},
	} {
		if f.value == "" {
			return domain.Client{}, fmt.Errorf("%w: %s is required", domain.ErrInvalidRequest, f.name)
		}
	}
	if err := validateEmail(c.Email); err != nil {
		return domain.Client{}, err
	}
	if !validPhone(c.Phone) {
		return domain.Client{}, fmt.Errorf("%w: phone must be a valid phone number", domain.ErrValidation)
	}
	return c, nil
}

func validateEmail(email string) error {
	if err := validate.Var(email, "required,email"); err != nil {
		return fmt.Errorf("%w: email must be a valid email", domain.ErrValidation)
	}
	return nil
}

func validPhone(phone string) bool {
	p := phoneNoise.Replace(phone)
	return frenchPhone.MatchString(p) || e164Phone.MatchString(p)
}
