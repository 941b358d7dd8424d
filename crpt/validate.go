/*
Copyright © 2025 ISMP Tools.

Released under MIT license.
*/

package crpt

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("inn", validateInn); err != nil {
		panic(fmt.Sprintf("register inn validation: %v", err))
	}
	return v
}

// validateInn checks a Russian taxpayer identification number:
// 10 digits for organizations, 12 for individuals.
func validateInn(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if len(s) != 10 && len(s) != 12 {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// Validate checks that the submission carries a signature and that all
// required document fields are populated and well-formed. It is called
// before a rate limit slot is spent, so malformed documents fail fast
// without consuming quota.
func (s Submission) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("validate submission: %w", err)
	}
	return nil
}
