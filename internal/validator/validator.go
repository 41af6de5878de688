// internal/validator/validator.go
package validator

import (
	"regexp"

	"crimson-finance/internal/domain"

	"github.com/go-playground/validator/v10"
)

var Validate *validator.Validate

func init() {
	Validate = validator.New()

	// String is not empty and not only whitespace.
	_ = Validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return len(regexp.MustCompile(`\S`).FindString(s)) > 0
	})

	// Monetary amount: unsigned decimal, at most 12 integer digits and
	// 2 fraction digits, e.g. "1234.56".
	_ = Validate.RegisterValidation("money", func(fl validator.FieldLevel) bool {
		_, err := domain.ParseMoney(fl.Field().String())
		return err == nil
	})

	// Transaction type from the closed set.
	_ = Validate.RegisterValidation("txtype", func(fl validator.FieldLevel) bool {
		_, err := domain.ParseTransactionType(fl.Field().String())
		return err == nil
	})
}
