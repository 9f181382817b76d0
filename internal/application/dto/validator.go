package dto

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/jhoicas/facturx-api/internal/domain"
	pkgfacturx "github.com/jhoicas/facturx-api/pkg/facturx"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Los nombres de campo en los errores son los del JSON (o del query string).
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "query"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return ""
	})
	_ = v.RegisterValidation("siret", func(fl validator.FieldLevel) bool {
		return pkgfacturx.ValidateSIRET(fl.Field().String()) == nil
	})
	_ = v.RegisterValidation("siren", func(fl validator.FieldLevel) bool {
		return pkgfacturx.ValidateSIREN(fl.Field().String()) == nil
	})
	return v
}

// Validate valida la estructura con las etiquetas `validate` y devuelve las
// violaciones por campo (nil si es válida).
func Validate(req any) []domain.Violation {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []domain.Violation{{Field: "body", Message: err.Error()}}
	}
	out := make([]domain.Violation, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, domain.Violation{Field: fieldPath(fe), Message: message(fe)})
	}
	return out
}

// fieldPath "PreviewRequest.InvoiceRequest.issue_date" → "issue_date".
// Los segmentos en mayúscula son nombres de struct Go (raíz o embebidos).
func fieldPath(fe validator.FieldError) string {
	var parts []string
	for _, p := range strings.Split(fe.Namespace(), ".") {
		if p == "" || unicode.IsUpper([]rune(p)[0]) {
			continue
		}
		parts = append(parts, p)
	}
	if len(parts) == 0 {
		return fe.Field()
	}
	if len(parts) == 1 {
		return parts[0]
	}
	return parts[0] + "[" + strings.Join(parts[1:], "][") + "]"
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "campo obligatorio"
	case "siret":
		return "el SIRET debe tener exactamente 14 dígitos"
	case "siren":
		return "el SIREN debe tener exactamente 9 dígitos"
	case "datetime":
		return "fecha inválida, formato esperado AAAA-MM-DD"
	case "oneof":
		return fmt.Sprintf("valor no admitido, opciones: %s", fe.Param())
	case "len":
		return fmt.Sprintf("debe tener %s caracteres", fe.Param())
	case "uuid":
		return "identificador inválido"
	case "email":
		return "email inválido"
	case "uppercase":
		return "debe ir en mayúsculas"
	case "max":
		return fmt.Sprintf("longitud máxima %s", fe.Param())
	case "min":
		return fmt.Sprintf("mínimo %s", fe.Param())
	default:
		return fmt.Sprintf("no cumple la regla %s", fe.Tag())
	}
}
