package billing_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/facturx-api/internal/application/billing"
	"github.com/jhoicas/facturx-api/internal/application/dto"
	"github.com/jhoicas/facturx-api/internal/domain"
	"github.com/jhoicas/facturx-api/internal/domain/entity"
)

func TestQueryGetByID_RecalculaTotales(t *testing.T) {
	env, id := generatedInvoice(t)
	uc := billing.NewInvoiceQueryUseCase(invoiceRepo{env.store}, &fakeExporter{})

	resp, err := uc.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "FA-2026-0001", resp.Number)
	assert.Equal(t, "Facture", resp.TypeLabel)
	assert.Equal(t, "2026-02-14", resp.DueDate)
	require.NotNil(t, resp.Totals)
	require.Len(t, resp.Totals.Lines, 1)
	assert.Equal(t, "1000.00", resp.Totals.Lines[0].NetHT)
}

func TestQueryGetByID_Inexistente(t *testing.T) {
	uc := billing.NewInvoiceQueryUseCase(invoiceRepo{newMemStore()}, &fakeExporter{})
	_, err := uc.GetByID(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestQueryList_FiltraPorEstado(t *testing.T) {
	env, id := generatedInvoice(t)
	_, err := env.uc.Generate(context.Background(), validRequest())
	require.NoError(t, err)
	env.store.invoices[id].Status = entity.InvoiceStatusSent

	uc := billing.NewInvoiceQueryUseCase(invoiceRepo{env.store}, &fakeExporter{})
	resp, err := uc.List(context.Background(), dto.InvoiceListRequest{Status: entity.InvoiceStatusSent})
	require.NoError(t, err)

	require.Len(t, resp.Items, 1)
	assert.Equal(t, "FA-2026-0001", resp.Items[0].Number)
	assert.Equal(t, 20, resp.Page.Limit)
}

func TestQueryList_FiltroInvalido(t *testing.T) {
	uc := billing.NewInvoiceQueryUseCase(invoiceRepo{newMemStore()}, &fakeExporter{})
	_, err := uc.List(context.Background(), dto.InvoiceListRequest{Status: "PAGADA", From: "15/01/2026"})

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.ElementsMatch(t, []string{"status", "from"}, violationFields(verr))
}

func TestQueryExport_Libro(t *testing.T) {
	env, _ := generatedInvoice(t)
	exp := &fakeExporter{}
	uc := billing.NewInvoiceQueryUseCase(invoiceRepo{env.store}, exp)

	f, err := uc.Export(context.Background(), dto.InvoiceListRequest{})
	require.NoError(t, err)
	assert.Equal(t, "factures.xlsx", f.Name)
	assert.Len(t, exp.got, 1)
}
