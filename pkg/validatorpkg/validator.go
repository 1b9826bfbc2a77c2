// Package validatorpkg provides custom request binding validators.
package validatorpkg

import (
	"errors"
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/go-petr/bank-ledger/internal/domain"
	"github.com/go-petr/bank-ledger/pkg/moneypkg"
)

var (
	accountNumberRx = regexp.MustCompile(`^[0-9]{1,10}$`)
	nationalIDRx    = regexp.MustCompile(`^[0-9]{10}$`)
)

func stringValidator(valid func(string) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		if s, ok := fl.Field().Interface().(string); ok {
			return valid(s)
		}
		return false
	}
}

// ValidAccountNumber validates a numeric account number of at most 10 digits.
var ValidAccountNumber = stringValidator(accountNumberRx.MatchString)

// ValidNationalID validates a 10 digit national identification number.
var ValidNationalID = stringValidator(nationalIDRx.MatchString)

// ValidMoney validates a decimal amount within the supported precision.
var ValidMoney = stringValidator(moneypkg.IsValidAmount)

// ValidNonNegative validates a decimal amount greater or equal to zero.
var ValidNonNegative = stringValidator(moneypkg.IsNonNegativeAmount)

// ValidISODate validates a yyyy-mm-dd date.
var ValidISODate = stringValidator(func(s string) bool {
	_, err := domain.ParseDate(s)
	return err == nil
})

var validators = map[string]validator.Func{
	"accountnumber": ValidAccountNumber,
	"nationalid":    ValidNationalID,
	"money":         ValidMoney,
	"nonnegative":   ValidNonNegative,
	"isodate":       ValidISODate,
}

// Register adds the custom tags to v.
func Register(v *validator.Validate) error {
	for tag, fn := range validators {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}

	return nil
}

// RegisterGin adds the custom tags to gin's default binding validator.
func RegisterGin() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("unexpected binding validator engine")
	}

	return Register(v)
}
