package validator

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jhoicas/pos-ledger-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

type ErrorResponse struct {
	FailedField string `json:"failed_field"`
	Tag         string `json:"tag"`
	Value       string `json:"value,omitempty"`
}

var validate = validator.New()

func init() {
	// decimal.Decimal no es numérico para validator: se valida con tags propios.
	validate.RegisterValidation("dec_gt0", func(fl validator.FieldLevel) bool {
		d, ok := decimalOf(fl)
		return ok && d.GreaterThan(decimal.Zero)
	})
	validate.RegisterValidation("dec_gte0", func(fl validator.FieldLevel) bool {
		d, ok := decimalOf(fl)
		return ok && !d.LessThan(decimal.Zero)
	})
	validate.RegisterValidation("dec_scale2", func(fl validator.FieldLevel) bool {
		d, ok := decimalOf(fl)
		return ok && entity.ValidMoneyScale(d)
	})
	validate.RegisterValidation("payment_method", func(fl validator.FieldLevel) bool {
		m := fl.Field().String()
		return m == "" || entity.ValidPaymentMethod(m)
	})
	validate.RegisterValidation("movement_type", func(fl validator.FieldLevel) bool {
		return entity.ValidMovementType(fl.Field().String())
	})
}

func decimalOf(fl validator.FieldLevel) (decimal.Decimal, bool) {
	switch v := fl.Field().Interface().(type) {
	case decimal.Decimal:
		return v, true
	case *decimal.Decimal:
		if v == nil {
			return decimal.Zero, false
		}
		return *v, true
	}
	return decimal.Zero, false
}

func ValidateStruct(data interface{}) []*ErrorResponse {
	var errs []*ErrorResponse
	err := validate.Struct(data)
	if err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return []*ErrorResponse{{FailedField: "body", Tag: "invalid"}}
		}
		for _, err := range verrs {
			var element ErrorResponse
			element.FailedField = err.StructNamespace()
			element.Tag = err.Tag()
			element.Value = err.Param()
			errs = append(errs, &element)
		}
	}
	return errs
}

// Summary une los errores en un mensaje legible: "Field:tag, Field2:tag".
func Summary(errs []*ErrorResponse) string {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, e.FailedField+":"+e.Tag)
	}
	return strings.Join(parts, ", ")
}
