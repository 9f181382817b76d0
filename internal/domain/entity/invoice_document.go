package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DiscountType modo de aplicación del descuento de línea.
type DiscountType string

const (
	DiscountPercent DiscountType = "percent"
	DiscountFixed   DiscountType = "fixed"
)

// InvoiceLine línea de factura con valores numéricos ya validados (decimales exactos).
type InvoiceLine struct {
	Description     string
	Quantity        decimal.Decimal
	UnitPrice       decimal.Decimal
	DiscountValue   decimal.Decimal
	DiscountType    DiscountType
	VATRate         decimal.Decimal // porcentaje, p. ej. 20 = 20 %
	VATCategory     string          // sólo relevante si VATRate == 0
	ExemptionCode   string          // VATEX-…
	ExemptionReason string
}

// RawInvoiceLine línea tal como llega de un formulario o JSON (texto libre).
type RawInvoiceLine struct {
	Description     string `json:"description"`
	Quantity        string `json:"quantity"`
	UnitPrice       string `json:"unit_price"`
	DiscountValue   string `json:"discount_value"`
	DiscountType    string `json:"discount_type"`
	VATRate         string `json:"vat_rate"`
	VATCategory     string `json:"vat_category"`
	ExemptionCode   string `json:"exemption_code"`
	ExemptionReason string `json:"exemption_reason"`
}

// InvoiceHeader datos de cabecera. Las fechas opcionales usan el valor cero como "ausente".
type InvoiceHeader struct {
	Number                 string
	TypeCode               string
	IssueDate              time.Time
	DueDate                time.Time
	DeliveryDate           time.Time
	Currency               string
	BuyerReference         string
	PurchaseOrderReference string
	PaymentTerms           string
}

// EffectiveDeliveryDate fecha de entrega o, si falta, la fecha de emisión.
func (h InvoiceHeader) EffectiveDeliveryDate() time.Time {
	if h.DeliveryDate.IsZero() {
		return h.IssueDate
	}
	return h.DeliveryDate
}

// InvoiceDocument agregado completo que consume el compositor XML y el generador PDF.
type InvoiceDocument struct {
	Header    InvoiceHeader
	Emitter   Party
	Recipient Party
	Lines     []InvoiceLine
}
