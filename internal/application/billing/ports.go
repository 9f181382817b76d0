package billing

import (
	"context"

	"github.com/jhoicas/facturx-api/internal/domain/entity"
	domfacturx "github.com/jhoicas/facturx-api/internal/domain/facturx"
	"github.com/jhoicas/facturx-api/internal/domain/repository"
	infrafacturx "github.com/jhoicas/facturx-api/internal/infrastructure/facturx"
)

// InvoicingTxRunner ejecuta fn en una transacción con los repos de numeración,
// facturas emitidas y clientes.
type InvoicingTxRunner interface {
	RunInvoicing(ctx context.Context, fn func(
		counters repository.InvoiceCounterRepository,
		invoices repository.SentInvoiceRepository,
		clients repository.ClientRepository,
	) error) error
}

// XMLComposer compone el XML CII de una factura.
type XMLComposer interface {
	Compose(doc *entity.InvoiceDocument, totals *domfacturx.InvoiceTotals, profile infrafacturx.Profile) (string, error)
}

// InvoicePDFGenerator genera la representación legible (PDF) de la factura.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(ctx context.Context, doc *entity.InvoiceDocument, totals *domfacturx.InvoiceTotals) ([]byte, error)
}

// ArchiveStore almacén de artefactos (XML, PDF). Puede ser nil: sin archivo.
type ArchiveStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
}

// LedgerExporter exporta el libro de facturas emitidas.
type LedgerExporter interface {
	Export(invoices []*entity.SentInvoice) ([]byte, error)
}
