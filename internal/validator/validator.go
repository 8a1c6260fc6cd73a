// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("month", validateMonth)
		_ = v.RegisterValidation("year", validateYear)
		_ = v.RegisterValidation("positive_amount", validatePositiveAmount)
		_ = v.RegisterValidation("nonnegative_amount", validateNonNegativeAmount)
	}
}

func validateMonth(fl validator.FieldLevel) bool {
	m := fl.Field().Int()
	return m >= 1 && m <= 12
}

func validateYear(fl validator.FieldLevel) bool {
	return fl.Field().Int() > 0
}

func validatePositiveAmount(fl validator.FieldLevel) bool {
	d, ok := fl.Field().Interface().(decimal.Decimal)
	return ok && d.IsPositive()
}

func validateNonNegativeAmount(fl validator.FieldLevel) bool {
	d, ok := fl.Field().Interface().(decimal.Decimal)
	return ok && !d.IsNegative()
}
