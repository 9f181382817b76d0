package pdf_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/facturx-api/internal/domain/entity"
	domfacturx "github.com/jhoicas/facturx-api/internal/domain/facturx"
	"github.com/jhoicas/facturx-api/internal/infrastructure/pdf"
)

func TestGenerateInvoicePDF_DevuelvePDF(t *testing.T) {
	doc := &entity.InvoiceDocument{
		Header: entity.InvoiceHeader{
			Number:       "FA-2026-0001",
			TypeCode:     "380",
			IssueDate:    time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
			DueDate:      time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC),
			Currency:     "EUR",
			PaymentTerms: "30 jours fin de mois",
		},
		Emitter: entity.Party{
			Name: "Atelier Dupont", Address: "12 rue des Lilas", PostalCode: "75011", City: "Paris",
			SIRET: "12345678901234", IBAN: "FR76 3000 6000 0112 3456 7890 189", BIC: "AGRIFRPP",
			LogoPath: "/ruta/inexistente/logo.png",
		},
		Recipient: entity.Party{Name: "Client SA", SIRET: "98765432100015", CountryCode: "FR"},
		Lines: []entity.InvoiceLine{
			{Description: "Développement", Quantity: decimal.NewFromInt(10), UnitPrice: decimal.NewFromInt(500), VATRate: decimal.NewFromInt(20)},
			{Description: "Formation", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(800), VATRate: decimal.Zero,
				VATCategory: "E", ExemptionReason: "TVA non applicable, art. 293 B du CGI"},
			{Description: "Licence", Quantity: decimal.NewFromInt(5), UnitPrice: decimal.NewFromInt(120), VATRate: decimal.NewFromInt(20),
				DiscountValue: decimal.NewFromInt(10), DiscountType: entity.DiscountPercent},
		},
	}
	totals, err := domfacturx.ComputeInvoiceTotals(doc.Lines)
	require.NoError(t, err)

	out, err := pdf.NewMarotoPDFGenerator().GenerateInvoicePDF(context.Background(), doc, totals)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")), "la salida debe ser un PDF")
	assert.Greater(t, len(out), 1000)
}

func TestGenerateInvoicePDF_SinTotales(t *testing.T) {
	_, err := pdf.NewMarotoPDFGenerator().GenerateInvoicePDF(context.Background(), &entity.InvoiceDocument{}, nil)
	assert.Error(t, err)
}
