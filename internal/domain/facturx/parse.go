package facturx

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/facturx-api/internal/domain"
	"github.com/jhoicas/facturx-api/internal/domain/entity"
)

// DefaultVATRate tipo aplicado cuando la línea no indica ninguno.
var DefaultVATRate = decimal.NewFromInt(20)

// ParseInvoiceLine convierte una línea de texto libre en una InvoiceLine validada.
// Cantidad, precio y descuento vacíos valen 0; el tipo de IVA vacío vale 20.
// Un número mal formado o negativo devuelve domain.InvalidNumericInput(campo).
func ParseInvoiceLine(raw entity.RawInvoiceLine) (entity.InvoiceLine, error) {
	qty, err := parseDecimal("quantity", raw.Quantity, decimal.Zero)
	if err != nil {
		return entity.InvoiceLine{}, err
	}
	price, err := parseDecimal("unit_price", raw.UnitPrice, decimal.Zero)
	if err != nil {
		return entity.InvoiceLine{}, err
	}
	discount, err := parseDecimal("discount_value", raw.DiscountValue, decimal.Zero)
	if err != nil {
		return entity.InvoiceLine{}, err
	}
	rate, err := parseDecimal("vat_rate", raw.VATRate, DefaultVATRate)
	if err != nil {
		return entity.InvoiceLine{}, err
	}
	dtype, err := parseDiscountType(raw.DiscountType)
	if err != nil {
		return entity.InvoiceLine{}, err
	}

	return entity.InvoiceLine{
		Description:     strings.TrimSpace(raw.Description),
		Quantity:        qty,
		UnitPrice:       price,
		DiscountValue:   discount,
		DiscountType:    dtype,
		VATRate:         rate,
		VATCategory:     strings.TrimSpace(raw.VATCategory),
		ExemptionCode:   strings.TrimSpace(raw.ExemptionCode),
		ExemptionReason: strings.TrimSpace(raw.ExemptionReason),
	}, nil
}

// ParseInvoiceLines aplica ParseInvoiceLine a cada línea; el campo del error
// incluye el índice: "lines[2][quantity]".
func ParseInvoiceLines(raws []entity.RawInvoiceLine) ([]entity.InvoiceLine, error) {
	out := make([]entity.InvoiceLine, 0, len(raws))
	for i, raw := range raws {
		line, err := ParseInvoiceLine(raw)
		if err != nil {
			return nil, prefixField(err, fmt.Sprintf("lines[%d]", i))
		}
		out = append(out, line)
	}
	return out, nil
}

func parseDecimal(field, s string, def decimal.Decimal) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return def, nil
	}
	// Se acepta la coma decimal francesa ("12,5").
	d, err := decimal.NewFromString(strings.Replace(s, ",", ".", 1))
	if err != nil || d.IsNegative() {
		return decimal.Zero, domain.InvalidNumericInput(field, s)
	}
	return d, nil
}

func parseDiscountType(s string) (entity.DiscountType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(entity.DiscountPercent):
		return entity.DiscountPercent, nil
	case string(entity.DiscountFixed):
		return entity.DiscountFixed, nil
	default:
		return "", domain.InvalidField("discount_type", s)
	}
}

func prefixField(err error, prefix string) error {
	fe, ok := err.(*domain.FieldError)
	if !ok {
		return err
	}
	return &domain.FieldError{Kind: fe.Kind, Field: prefix + "[" + fe.Field + "]", Value: fe.Value}
}
