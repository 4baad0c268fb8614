package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	pkgerrors "github.com/evolutionflow/admin-bff/pkg/errors"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/shopspring/decimal"
)

var validate = newValidator()

// Weekdays are the day labels the schedule forms use.
var Weekdays = []string{"월", "화", "수", "목", "금", "토", "일"}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" || tag == "-" {
			return f.Name
		}
		return tag
	})
	v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
	mustRegister(v, "notblank", validators.NotBlank)
	mustRegister(v, "enum", knownEnum)
	mustRegister(v, "weekday", func(fl validator.FieldLevel) bool {
		day := fl.Field().String()
		for _, w := range Weekdays {
			if day == w {
				return true
			}
		}
		return false
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s validation: %v", tag, err))
	}
}

// decimalValue lets numeric tags such as min=0 apply to decimal amounts.
func decimalValue(field reflect.Value) any {
	d, ok := field.Interface().(decimal.Decimal)
	if !ok {
		return nil
	}
	f, _ := d.Float64()
	return f
}

type enumValue interface {
	IsValid() bool
}

func knownEnum(fl validator.FieldLevel) bool {
	e, ok := fl.Field().Interface().(enumValue)
	return ok && e.IsValid()
}

// Field is a single value checked against a tag list outside its struct, for
// rules that depend on the operation (create vs update).
type Field struct {
	Name  string
	Value any
	Tag   string
}

// Struct validates v against its validate tags plus any extra fields and
// reports every failure in one VALIDATION_ERROR keyed by JSON field name.
func Struct(v any, extra ...Field) error {
	details := map[string]string{}
	collect(details, "", validate.Struct(v))
	for _, f := range extra {
		collect(details, f.Name, validate.Var(f.Value, f.Tag))
	}
	if len(details) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
	}
	return nil
}

func collect(details map[string]string, name string, err error) {
	if err == nil {
		return
	}
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		key := name
		if key == "" {
			key = "body"
		}
		details[key] = err.Error()
		return
	}
	for _, fe := range errs {
		key := name
		if key == "" {
			key = fe.Field()
		}
		if _, seen := details[key]; !seen {
			details[key] = Message(fe)
		}
	}
}

// Message renders a field failure for API clients.
func Message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "email":
		return "must be a valid email"
	case "eq":
		return fmt.Sprintf("must be %s", fe.Param())
	case "weekday":
		return fmt.Sprintf("unknown weekday %q", fe.Value())
	}
	return "is invalid"
}
