package validator

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"eldercare-reminders/internal/domain/schedule"
)

type Validator struct {
	validate *validator.Validate
}

// New registra además "timelabel" para validar horas tipo "8:00 AM".
func New() *Validator {
	v := validator.New()

	// usar el nombre json en los mensajes
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	_ = v.RegisterValidation("timelabel", func(fl validator.FieldLevel) bool {
		_, err := schedule.ParseTimeLabel(fl.Field().String())
		return err == nil
	})

	return &Validator{validate: v}
}

func (v *Validator) Validate(i any) error {
	return v.validate.Struct(i)
}

// FormatErrors convierte errores de validación en field -> mensaje.
func (v *Validator) FormatErrors(err error) map[string]string {
	out := make(map[string]string)

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		if err != nil {
			out["_"] = err.Error()
		}
		return out
	}

	for _, e := range verrs {
		field := e.Field()
		switch e.Tag() {
		case "required":
			out[field] = field + " is required"
		case "oneof":
			out[field] = field + " must be one of: " + e.Param()
		case "max":
			out[field] = field + " must be at most " + e.Param() + " characters"
		case "timelabel":
			out[field] = field + " must be a time like \"8:00 AM\""
		default:
			out[field] = field + " is invalid"
		}
	}
	return out
}
