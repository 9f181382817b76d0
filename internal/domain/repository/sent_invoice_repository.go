package repository

import (
	"context"
	"time"

	"github.com/jhoicas/facturx-api/internal/domain/entity"
)

// SentInvoiceFilter criterios de listado de facturas emitidas. Campos vacíos no filtran.
type SentInvoiceFilter struct {
	Status string
	From   time.Time // fecha de emisión >= From
	To     time.Time // fecha de emisión <= To
	Limit  int
	Offset int
}

// SentInvoiceRepository define el puerto de persistencia para las facturas emitidas.
type SentInvoiceRepository interface {
	Create(ctx context.Context, inv *entity.SentInvoice) error
	GetByID(ctx context.Context, id string) (*entity.SentInvoice, error)
	// List devuelve las facturas (sin XML ni documento) ordenadas por emisión descendente.
	List(ctx context.Context, f SentInvoiceFilter) ([]*entity.SentInvoice, error)
	// MarkSending pasa la factura a SENDING solo si está en un estado reenviable
	// (entity.SendableStatuses); en otro caso devuelve domain.ErrConflict.
	MarkSending(ctx context.Context, id string) error
	// UpdateStatus actualiza estado, track ID (vacío = sin cambio) y errores de la plataforma.
	UpdateStatus(ctx context.Context, id, status, trackID, gatewayErrors string) error
}
