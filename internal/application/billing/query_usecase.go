package billing

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/samber/lo"

	"github.com/jhoicas/facturx-api/internal/application/dto"
	"github.com/jhoicas/facturx-api/internal/domain"
	"github.com/jhoicas/facturx-api/internal/domain/entity"
	domfacturx "github.com/jhoicas/facturx-api/internal/domain/facturx"
	"github.com/jhoicas/facturx-api/internal/domain/repository"
)

// exportLimit máximo de facturas en una exportación.
const exportLimit = 10000

// InvoiceQueryUseCase consultas sobre facturas emitidas.
type InvoiceQueryUseCase struct {
	invoices repository.SentInvoiceRepository
	exporter LedgerExporter
}

// NewInvoiceQueryUseCase construye el caso de uso.
func NewInvoiceQueryUseCase(invoices repository.SentInvoiceRepository, exporter LedgerExporter) *InvoiceQueryUseCase {
	return &InvoiceQueryUseCase{invoices: invoices, exporter: exporter}
}

// GetByID factura con desglose de totales recalculado desde la solicitud guardada.
func (uc *InvoiceQueryUseCase) GetByID(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	inv, err := uc.invoices.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("billing: obtener factura: %w", err)
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}

	var totals *dto.TotalsResponse
	var req dto.InvoiceRequest
	if json.Unmarshal(inv.DocumentJSON, &req) == nil {
		if lines, err := domfacturx.ParseInvoiceLines(req.Lines); err == nil {
			if t, err := domfacturx.ComputeInvoiceTotals(lines); err == nil {
				r := toTotalsResponse(t, lines)
				totals = &r
			}
		}
	}
	return toInvoiceResponse(inv, totals), nil
}

// List facturas filtradas y paginadas.
func (uc *InvoiceQueryUseCase) List(ctx context.Context, in dto.InvoiceListRequest) (*dto.InvoiceListResponse, error) {
	in.DefaultPage()
	f, err := listFilter(in)
	if err != nil {
		return nil, err
	}
	list, err := uc.invoices.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("billing: listar facturas: %w", err)
	}
	return &dto.InvoiceListResponse{
		Items: lo.Map(list, func(inv *entity.SentInvoice, _ int) dto.InvoiceSummary { return toSummary(inv) }),
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset},
	}, nil
}

// Export libro XLSX con las facturas del filtro (sin paginación).
func (uc *InvoiceQueryUseCase) Export(ctx context.Context, in dto.InvoiceListRequest) (*File, error) {
	f, err := listFilter(in)
	if err != nil {
		return nil, err
	}
	f.Limit, f.Offset = exportLimit, 0
	list, err := uc.invoices.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("billing: listar facturas: %w", err)
	}
	data, err := uc.exporter.Export(list)
	if err != nil {
		return nil, fmt.Errorf("billing: exportar: %w", err)
	}
	return &File{
		Name:        "factures.xlsx",
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Data:        data,
	}, nil
}

func listFilter(in dto.InvoiceListRequest) (repository.SentInvoiceFilter, error) {
	if v := dto.Validate(in); len(v) > 0 {
		return repository.SentInvoiceFilter{}, &domain.ValidationError{Violations: v}
	}
	from, _ := domfacturx.ParseISODate(in.From)
	to, _ := domfacturx.ParseISODate(in.To)
	return repository.SentInvoiceFilter{
		Status: in.Status,
		From:   from,
		To:     to,
		Limit:  in.Limit,
		Offset: in.Offset,
	}, nil
}
