package dto

import (
	"github.com/jhoicas/facturx-api/internal/domain/entity"
)

// InvoiceRequest body para POST /api/invoices y /api/invoices/preview.
// Los importes de línea llegan como texto (coma o punto decimal) y se validan al parsear.
type InvoiceRequest struct {
	InvoiceNumber          string `json:"invoice_number" validate:"omitempty,max=35"` // vacío = numeración automática al emitir
	TypeCode               string `json:"type_code" validate:"omitempty,oneof=380 381 384 389"`
	IssueDate              string `json:"issue_date" validate:"required,datetime=2006-01-02"`
	DueDate                string `json:"due_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	DeliveryDate           string `json:"delivery_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Currency               string `json:"currency,omitempty" validate:"omitempty,len=3,uppercase"`
	BuyerReference         string `json:"buyer_reference,omitempty" validate:"omitempty,max=100"`
	PurchaseOrderReference string `json:"purchase_order_reference,omitempty" validate:"omitempty,max=100"`
	PaymentTerms           string `json:"payment_terms,omitempty" validate:"omitempty,max=500"`
	Profile                string `json:"profile,omitempty" validate:"omitempty,oneof=basic en16931"`

	ClientID             string `json:"client_id,omitempty" validate:"omitempty,uuid"` // rellena el destinatario desde el directorio
	RecipientName        string `json:"recipient_name"`
	RecipientSIRET       string `json:"recipient_siret" validate:"omitempty,siret"`
	RecipientVATNumber   string `json:"recipient_vat_number,omitempty" validate:"omitempty,max=20"`
	RecipientAddress     string `json:"recipient_address,omitempty"`
	RecipientPostalCode  string `json:"recipient_postal_code,omitempty"`
	RecipientCity        string `json:"recipient_city,omitempty"`
	RecipientCountryCode string `json:"recipient_country_code" validate:"omitempty,len=2,uppercase"`
	RecipientEmail       string `json:"recipient_email,omitempty" validate:"omitempty,email"`
	SaveNewClient        bool   `json:"save_new_client,omitempty"`

	Lines []entity.RawInvoiceLine `json:"lines"`
}

// PreviewRequest añade opciones de vista previa.
type PreviewRequest struct {
	InvoiceRequest
	IncludePDF bool `json:"include_pdf,omitempty"`
}

// TaxGroupResponse línea del desglose de IVA (importes formateados a 2 decimales).
type TaxGroupResponse struct {
	Rate            string `json:"rate"`
	Category        string `json:"category"`
	BaseHT          string `json:"base_ht"`
	VATAmount       string `json:"vat_amount"`
	ExemptionCode   string `json:"exemption_code,omitempty"`
	ExemptionReason string `json:"exemption_reason,omitempty"`
}

// LineTotalsResponse importes derivados de una línea.
type LineTotalsResponse struct {
	Description    string `json:"description"`
	GrossHT        string `json:"gross_ht"`
	DiscountAmount string `json:"discount_amount"`
	NetHT          string `json:"net_ht"`
	VATAmount      string `json:"vat_amount"`
	TotalTTC       string `json:"total_ttc"`
	VATCategory    string `json:"vat_category"`
	Clamped        bool   `json:"clamped,omitempty"` // el descuento superaba el bruto
}

// TotalsResponse totales de la factura.
type TotalsResponse struct {
	TotalHT      string               `json:"total_ht"`
	TotalVAT     string               `json:"total_vat"`
	TotalTTC     string               `json:"total_ttc"`
	VATBreakdown []TaxGroupResponse   `json:"vat_breakdown"`
	Lines        []LineTotalsResponse `json:"lines"`
}

// PreviewResponse resultado de la vista previa (sin persistencia).
type PreviewResponse struct {
	InvoiceNumber string         `json:"invoice_number"`
	Profile       string         `json:"profile"`
	Totals        TotalsResponse `json:"totals"`
	XML           string         `json:"xml"`
	XMLHash       string         `json:"xml_hash"`
	PDFBase64     string         `json:"pdf_base64,omitempty"`
}

// InvoiceSummary factura emitida en listados.
type InvoiceSummary struct {
	ID             string `json:"id"`
	Number         string `json:"number"`
	TypeCode       string `json:"type_code"`
	TypeLabel      string `json:"type_label"`
	IssueDate      string `json:"issue_date"`
	DueDate        string `json:"due_date,omitempty"`
	RecipientName  string `json:"recipient_name"`
	RecipientSIRET string `json:"recipient_siret"`
	Currency       string `json:"currency"`
	TotalHT        string `json:"total_ht"`
	TotalVAT       string `json:"total_vat"`
	TotalTTC       string `json:"total_ttc"`
	Status         string `json:"status"`
	CreatedAt      string `json:"created_at"`
}

// InvoiceResponse factura emitida para GET /api/invoices/:id y POST /api/invoices.
type InvoiceResponse struct {
	InvoiceSummary
	Profile       string          `json:"profile"`
	ClientID      string          `json:"client_id,omitempty"`
	XMLHash       string          `json:"xml_hash"`
	TrackID       string          `json:"track_id,omitempty"`
	GatewayErrors string          `json:"gateway_errors,omitempty"`
	Totals        *TotalsResponse `json:"totals,omitempty"`
}

// InvoiceListRequest filtros de GET /api/invoices.
type InvoiceListRequest struct {
	PageRequest
	Status string `query:"status" validate:"omitempty,oneof=GENERATED SENDING SENT REJECTED ERROR"`
	From   string `query:"from" validate:"omitempty,datetime=2006-01-02"`
	To     string `query:"to" validate:"omitempty,datetime=2006-01-02"`
}

// InvoiceListResponse listado paginado.
type InvoiceListResponse struct {
	Items []InvoiceSummary `json:"items"`
	Page  PageResponse     `json:"page"`
}

// InvoiceStatusDTO respuesta ligera para el polling GET /api/invoices/:id/status.
type InvoiceStatusDTO struct {
	ID      string `json:"id"`
	Number  string `json:"number"`
	Status  string `json:"status"` // GENERATED|SENDING|SENT|REJECTED|ERROR
	TrackID string `json:"track_id"`
	Errors  string `json:"errors"`
}
