package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del ciclo de vida de una factura emitida frente a la plataforma (PDP).
const (
	InvoiceStatusGenerated = "GENERATED" // XML generado y persistido
	InvoiceStatusSending   = "SENDING"   // En proceso de envío
	InvoiceStatusSent      = "SENT"      // Aceptada por la plataforma (o simulada en dev)
	InvoiceStatusRejected  = "REJECTED"  // Rechazada con errores
	InvoiceStatusError     = "ERROR"     // Error técnico en el envío
)

// SendableStatuses estados desde los que se puede (re)enviar a la plataforma.
var SendableStatuses = []string{InvoiceStatusGenerated, InvoiceStatusRejected, InvoiceStatusError}

// CanSend indica si una factura en ese estado puede pasar a SENDING.
func CanSend(status string) bool {
	for _, s := range SendableStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// SentInvoice factura emitida y persistida: totales, XML y la petición original
// (DocumentJSON) para poder regenerar el PDF.
type SentInvoice struct {
	ID             string
	Number         string
	TypeCode       string
	Currency       string
	Profile        string
	IssueDate      time.Time
	DueDate        *time.Time
	ClientID       string
	RecipientName  string
	RecipientSIRET string
	TotalHT        decimal.Decimal
	TotalVAT       decimal.Decimal
	TotalTTC       decimal.Decimal
	XML            string
	XMLHash        string // SHA-256 del XML canonicalizado
	DocumentJSON   []byte
	Status         string
	TrackID        string // identificador devuelto por la plataforma tras el envío
	GatewayErrors  string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
