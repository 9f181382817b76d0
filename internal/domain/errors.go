package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrDuplicate    = errors.New("recurso duplicado")
	ErrConflict     = errors.New("conflicto con el estado actual")

	// Cálculo y composición de facturas.
	ErrInvalidNumericInput  = errors.New("valor numérico inválido")
	ErrEmptyInvoice         = errors.New("la factura no contiene líneas")
	ErrMissingRequiredField = errors.New("campo obligatorio ausente")
)

// FieldError asocia un error de dominio al campo que lo provocó.
// errors.Is(err, ErrInvalidNumericInput) funciona a través de Unwrap.
type FieldError struct {
	Kind  error
	Field string
	Value string
}

func (e *FieldError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("%s: %s (%q)", e.Kind, e.Field, e.Value)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Field)
}

func (e *FieldError) Unwrap() error { return e.Kind }

// InvalidNumericInput construye el error para un texto que no es un número válido.
func InvalidNumericInput(field, value string) error {
	return &FieldError{Kind: ErrInvalidNumericInput, Field: field, Value: value}
}

// MissingRequiredField construye el error para un dato obligatorio vacío.
func MissingRequiredField(field string) error {
	return &FieldError{Kind: ErrMissingRequiredField, Field: field}
}

// InvalidField construye un error de entrada inválida no numérica (enumerados, formatos).
func InvalidField(field, value string) error {
	return &FieldError{Kind: ErrInvalidInput, Field: field, Value: value}
}

// FieldOf devuelve el campo asociado a err, o "" si no es un *FieldError.
func FieldOf(err error) string {
	var fe *FieldError
	if errors.As(err, &fe) {
		return fe.Field
	}
	return ""
}

// Violation incumplimiento de una regla de validación sobre un campo concreto.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError agrupa todas las violaciones de una petición.
// errors.Is(err, ErrInvalidInput) es verdadero.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	if len(e.Violations) == 0 {
		return ErrInvalidInput.Error()
	}
	v := e.Violations[0]
	if len(e.Violations) == 1 {
		return fmt.Sprintf("%s: %s: %s", ErrInvalidInput, v.Field, v.Message)
	}
	return fmt.Sprintf("%s: %s: %s (y %d más)", ErrInvalidInput, v.Field, v.Message, len(e.Violations)-1)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }
