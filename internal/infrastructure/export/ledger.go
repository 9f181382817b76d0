// Package export genera el libro de facturas emitidas en formato XLSX.
package export

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/facturx-api/internal/domain/entity"
	pkgfacturx "github.com/jhoicas/facturx-api/pkg/facturx"
)

const ledgerSheet = "Factures"

var ledgerHeaders = []string{
	"Numéro", "Type", "Date", "Échéance", "Client", "SIRET client",
	"Devise", "Total HT", "Total TVA", "Total TTC", "Statut", "Empreinte SHA-256",
}

// LedgerExporter escribe el libro de facturas con excelize.
type LedgerExporter struct{}

// NewLedgerExporter construye el exportador.
func NewLedgerExporter() *LedgerExporter { return &LedgerExporter{} }

// Export una fila por factura, fila final con sumas de HT/TVA/TTC.
func (e *LedgerExporter) Export(invoices []*entity.SentInvoice) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ledgerSheet); err != nil {
		return nil, fmt.Errorf("export: hoja: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"148F77"}},
	})
	if err != nil {
		return nil, fmt.Errorf("export: estilo: %w", err)
	}
	amountStyle, err := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	if err != nil {
		return nil, fmt.Errorf("export: estilo: %w", err)
	}
	dateStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: strPtr("dd/mm/yyyy")})
	if err != nil {
		return nil, fmt.Errorf("export: estilo: %w", err)
	}

	for i, h := range ledgerHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(ledgerSheet, cell, h); err != nil {
			return nil, fmt.Errorf("export: cabecera: %w", err)
		}
	}
	lastCol, _ := excelize.ColumnNumberToName(len(ledgerHeaders))
	_ = f.SetCellStyle(ledgerSheet, "A1", lastCol+"1", headerStyle)

	for i, inv := range invoices {
		row := i + 2
		values := []any{
			inv.Number,
			pkgfacturx.TypeLabel(inv.TypeCode),
			inv.IssueDate,
			dueDateValue(inv),
			inv.RecipientName,
			inv.RecipientSIRET,
			inv.Currency,
			amount(inv.TotalHT),
			amount(inv.TotalVAT),
			amount(inv.TotalTTC),
			inv.Status,
			inv.XMLHash,
		}
		for c, v := range values {
			cell, _ := excelize.CoordinatesToCellName(c+1, row)
			if err := f.SetCellValue(ledgerSheet, cell, v); err != nil {
				return nil, fmt.Errorf("export: fila %d: %w", row, err)
			}
		}
		_ = f.SetCellStyle(ledgerSheet, cellName(3, row), cellName(4, row), dateStyle)
		_ = f.SetCellStyle(ledgerSheet, cellName(8, row), cellName(10, row), amountStyle)
	}

	// Totales
	if n := len(invoices); n > 0 {
		totalRow := n + 2
		_ = f.SetCellValue(ledgerSheet, cellName(1, totalRow), "Total")
		for c := 8; c <= 10; c++ {
			col, _ := excelize.ColumnNumberToName(c)
			formula := fmt.Sprintf("SUM(%s2:%s%d)", col, col, totalRow-1)
			if err := f.SetCellFormula(ledgerSheet, cellName(c, totalRow), formula); err != nil {
				return nil, fmt.Errorf("export: total: %w", err)
			}
		}
		_ = f.SetCellStyle(ledgerSheet, cellName(8, totalRow), cellName(10, totalRow), amountStyle)
	}

	_ = f.SetColWidth(ledgerSheet, "A", "A", 18)
	_ = f.SetColWidth(ledgerSheet, "B", "B", 22)
	_ = f.SetColWidth(ledgerSheet, "C", "D", 12)
	_ = f.SetColWidth(ledgerSheet, "E", "E", 30)
	_ = f.SetColWidth(ledgerSheet, "F", "F", 16)
	_ = f.SetColWidth(ledgerSheet, "H", "J", 14)
	_ = f.SetColWidth(ledgerSheet, "L", "L", 66)
	_ = f.SetPanes(ledgerSheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("export: escribir: %w", err)
	}
	return buf.Bytes(), nil
}

// ── helpers ──────────────────────────────────────────────────────────────────

func amount(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

func dueDateValue(inv *entity.SentInvoice) any {
	if inv.DueDate == nil {
		return ""
	}
	return *inv.DueDate
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

func strPtr(s string) *string { return &s }
