// Package validation wraps go-playground/validator with decimal support and
// translates failures into apperr validation errors with stable codes.
package validation

import (
	"errors"
	"reflect"
	"strconv"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/fleetfuel/internal/apperr"
)

type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// decimal.Decimal is compared as a float so the numeric tags (gt, gte) apply.
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.InexactFloat64()
		}

		return nil
	}, decimal.Decimal{})

	// scale=N rejects decimals carrying more than N fractional digits, matching
	// the NUMERIC column the value is stored in. Trailing zeros do not count.
	_ = v.RegisterValidation("scale", func(fl validator.FieldLevel) bool {
		places, err := strconv.ParseInt(fl.Param(), 10, 32)
		if err != nil {
			return false
		}

		d, ok := decimalField(fl)
		if !ok {
			return false
		}

		return d.Equal(d.Truncate(int32(places)))
	})

	return &Validator{v: v}
}

// decimalField returns the field under validation as a decimal. The custom
// type func has already turned it into a float, so it is read from the parent.
func decimalField(fl validator.FieldLevel) (decimal.Decimal, bool) {
	parent := reflect.Indirect(fl.Parent())
	if parent.Kind() != reflect.Struct {
		return decimal.Decimal{}, false
	}

	f := parent.FieldByName(fl.StructFieldName())
	if !f.IsValid() {
		return decimal.Decimal{}, false
	}

	switch v := f.Interface().(type) {
	case decimal.Decimal:
		return v, true
	case *decimal.Decimal:
		if v == nil {
			return decimal.Decimal{}, false
		}

		return *v, true
	}

	return decimal.Decimal{}, false
}

// Struct validates s and returns the first failure as an *apperr.Error.
func (v *Validator) Struct(s any) error {
	err := v.v.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return apperr.Validation("INVALID_INPUT", "%v", err)
	}

	fe := fieldErrs[0]

	return apperr.Validation(codeFor(fe), "%s failed on %q", fe.Field(), fe.Tag())
}

func codeFor(fe validator.FieldError) string {
	field := snake(fe.Field())

	switch fe.Tag() {
	case "required":
		return field + "_REQUIRED"
	case "gt":
		if fe.Param() == "0" {
			return field + "_NOT_POSITIVE"
		}
	case "gte":
		if fe.Param() == "0" {
			return field + "_NEGATIVE"
		}
	case "max", "lte":
		return field + "_TOO_LARGE"
	case "scale":
		return field + "_TOO_PRECISE"
	}

	return field + "_INVALID"
}

// snake turns UnitPrice into UNIT_PRICE and AccountID into ACCOUNT_ID.
func snake(s string) string {
	var b strings.Builder

	var prev rune

	for i, r := range s {
		if i > 0 && unicode.IsUpper(r) && unicode.IsLower(prev) {
			b.WriteByte('_')
		}

		prev = r

		b.WriteRune(unicode.ToUpper(r))
	}

	return b.String()
}
