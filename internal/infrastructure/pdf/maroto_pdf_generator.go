// Package pdf implementa la representación legible (PDF) de la factura Factur-X.
// El PDF/A-3 híbrido (PDF + XML embebido) lo produce un paso externo a partir
// de estos bytes y del XML CII.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  [logo]  FACTURE / AVOIR          N° + Date                 │
//	│  ─────────────────────────────────────────────────────────  │
//	│  ÉMETTEUR                 │  DESTINATAIRE                    │
//	│  Numéro | Date | Échéance | Devise                           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Description | Qté | P.U. HT | TVA % | Total HT       │
//	│  RÉCAP TVA: Taux | Base HT | Montant TVA (+ motif)           │
//	│  TOTAUX: HT / TVA / TTC                                      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  Conditions, IBAN + QR SEPA, mentions PMT / PMD              │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"os"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/image"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/facturx-api/internal/domain/entity"
	domfacturx "github.com/jhoicas/facturx-api/internal/domain/facturx"
	pkgfacturx "github.com/jhoicas/facturx-api/pkg/facturx"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 20, Green: 143, Blue: 119}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorDark    = &props.Color{Red: 26, Green: 26, Blue: 26}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa billing.InvoicePDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateInvoicePDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateInvoicePDF(
	_ context.Context,
	doc *entity.InvoiceDocument,
	totals *domfacturx.InvoiceTotals,
) ([]byte, error) {
	if doc == nil || totals == nil {
		return nil, fmt.Errorf("pdf: faltan documento o totales")
	}
	currency := nonEmpty(doc.Header.Currency, pkgfacturx.DefaultCurrency)

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(12).WithRightMargin(12).
		WithTopMargin(15).WithBottomMargin(15).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(pkgfacturx.TypeLabel(doc.Header.TypeCode)+" "+doc.Header.Number, true).
		WithAuthor(doc.Emitter.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(doc))
	m.AddRows(line.NewRow(2, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(partiesRow(doc.Emitter, doc.Recipient))
	m.AddRows(row.New(3))
	m.AddRows(invoiceInfoRows(doc.Header, currency)...)
	m.AddRows(line.NewRow(4, props.Line{Color: colorPrimary, Thickness: 0.3}))

	// Líneas
	m.AddRows(tableHeaderRow())
	m.AddRows(tableDetailRows(doc.Lines, totals.Lines, currency)...)
	m.AddRows(line.NewRow(3, props.Line{Color: colorGray, Thickness: 0.2}))

	// Récap TVA y totales
	m.AddRows(vatRecapRows(totals.VATBreakdown, currency)...)
	m.AddRows(row.New(2))
	m.AddRows(totalsRow(totals, currency))

	// Pie: condiciones de pago, IBAN y menciones legales
	m.AddRows(footerRows(doc, totals, currency)...)

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return out.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: logo opcional + título (izq) y número + fecha (der).
func headerRow(doc *entity.InvoiceDocument) core.Row {
	title := strings.ToUpper(pkgfacturx.TypeLabel(doc.Header.TypeCode))

	left := col.New(3)
	if p := doc.Emitter.LogoPath; p != "" && fileExists(p) {
		left = image.NewFromFileCol(3, p, props.Rect{Percent: 90, Center: false})
	}

	return row.New(22).Add(
		left,
		col.New(5).Add(
			text.New(title, props.Text{
				Style: fontstyle.Bold, Size: 18, Color: colorDark, Top: 4,
			}),
		),
		col.New(4).Add(
			text.New("N° "+doc.Header.Number, props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 4,
			}),
			text.New("Date : "+domfacturx.FormatDateFR(doc.Header.IssueDate), props.Text{
				Size: 8, Align: align.Right, Top: 11, Color: colorGray,
			}),
		),
	)
}

// partiesRow: emisor (izq) y destinatario (der).
func partiesRow(emitter, recipient entity.Party) core.Row {
	emitterName := emitter.Name
	if emitter.LegalForm != "" {
		emitterName += " - " + emitter.LegalForm
	}
	return row.New(34).Add(
		col.New(6).Add(partyBlock("Émetteur", emitterName, emitter)...),
		col.New(6).Add(partyBlock("Destinataire", recipient.Name, recipient)...),
	)
}

func partyBlock(title, name string, p entity.Party) []core.Component {
	lines := []string{name}
	if p.Address != "" {
		lines = append(lines, p.Address)
	}
	if city := strings.TrimSpace(p.PostalCode + " " + p.City); city != "" {
		lines = append(lines, city)
	}
	lines = append(lines,
		"SIRET : "+nonEmpty(p.SIRET, "N/A"),
		"TVA : "+nonEmpty(p.VATNumber, "N/A"),
	)

	out := []core.Component{
		text.New(title, props.Text{Style: fontstyle.Bold, Size: 9, Color: colorPrimary, Top: 1}),
	}
	for i, l := range lines {
		style := props.Text{Size: 8.5, Top: float64(7 + i*5)}
		if i == 0 {
			style.Style = fontstyle.Bold
		}
		out = append(out, text.New(l, style))
	}
	return out
}

// invoiceInfoRows: numéro, date, échéance, devise.
func invoiceInfoRows(h entity.InvoiceHeader, currency string) []core.Row {
	info := [][2]string{
		{"Numéro", h.Number},
		{"Date", domfacturx.FormatDateFR(h.IssueDate)},
		{"Échéance", domfacturx.FormatDateFR(h.DueDate)},
		{"Devise", currency},
	}
	if h.PurchaseOrderReference != "" {
		info = append(info, [2]string{"Bon de commande", h.PurchaseOrderReference})
	}
	rows := make([]core.Row, 0, len(info))
	for _, kv := range info {
		rows = append(rows, row.New(5).Add(
			col.New(3).Add(text.New(kv[0], props.Text{Style: fontstyle.Bold, Size: 8.5})),
			col.New(5).Add(text.New(kv[1], props.Text{Size: 8.5})),
		))
	}
	return rows
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8.5, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Description", 5, align.Left),
		h("Qté", 1, align.Right),
		h("P.U. HT", 2, align.Right),
		h("TVA %", 2, align.Right),
		h("Total HT", 2, align.Right),
	)
}

// tableDetailRows: una fila por línea, con los importes ya calculados.
func tableDetailRows(lines []entity.InvoiceLine, totals []domfacturx.LineTotals, currency string) []core.Row {
	result := make([]core.Row, 0, len(lines))
	for i, l := range lines {
		lt := totals[i]
		cell := func(s string, size int, a align.Type) core.Col {
			return col.New(size).Add(text.New(s, props.Text{Size: 8.5, Align: a, Top: 1, Left: 1, Right: 1}))
		}
		result = append(result, row.New(7).Add(
			cell(l.Description, 5, align.Left),
			cell(domfacturx.FormatAmountFR(l.Quantity), 1, align.Right),
			cell(domfacturx.FormatMoneyFR(l.UnitPrice, currency), 2, align.Right),
			cell(domfacturx.VATLabel(lt.VATRate, lt.VATCategory), 2, align.Right),
			cell(domfacturx.FormatMoneyFR(lt.NetHT, currency), 2, align.Right),
		))
		if lt.HasDiscount() {
			result = append(result, row.New(4).Add(col.New(12).Add(text.New(
				fmt.Sprintf("Remise : -%s", domfacturx.FormatMoneyFR(lt.DiscountAmount, currency)),
				props.Text{Size: 7, Style: fontstyle.Italic, Color: colorGray, Left: 4},
			))))
		}
	}
	return result
}

// vatRecapRows: récapitulatif por tipo/categoría, con el motivo de exoneración debajo.
func vatRecapRows(groups []domfacturx.TaxGroup, currency string) []core.Row {
	if len(groups) == 0 {
		return nil
	}
	head := func(s string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(s, props.Text{Style: fontstyle.Bold, Size: 8, Align: a, Right: 1}))
	}
	rows := []core.Row{row.New(6).Add(
		head("Taux TVA", 4, align.Left),
		head("Base HT", 4, align.Right),
		head("Montant TVA", 4, align.Right),
	)}
	for _, g := range groups {
		rate := domfacturx.FormatAmountFR(g.Rate) + " %"
		if g.Category != pkgfacturx.VATStandard {
			rate += " (" + g.Category + ")"
		}
		rows = append(rows, row.New(5).Add(
			col.New(4).Add(text.New(rate, props.Text{Size: 8})),
			col.New(4).Add(text.New(domfacturx.FormatMoneyFR(g.BaseHT, currency), props.Text{Size: 8, Align: align.Right, Right: 1})),
			col.New(4).Add(text.New(domfacturx.FormatMoneyFR(g.VATAmount, currency), props.Text{Size: 8, Align: align.Right, Right: 1})),
		))
		if g.ExemptionReason != "" {
			rows = append(rows, row.New(4).Add(col.New(12).Add(text.New(g.ExemptionReason, props.Text{
				Size: 7, Style: fontstyle.Italic, Color: colorGray,
			}))))
		}
	}
	return rows
}

// totalsRow: bloque de totales alineado a la derecha.
func totalsRow(t *domfacturx.InvoiceTotals, currency string) core.Row {
	label := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: top})
	}
	value := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1, Top: top})
	}
	grand := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 12, Align: align.Right, Color: colorPrimary, Right: 1, Top: top})
	}

	return row.New(22).Add(
		col.New(6),
		col.New(3).Add(
			label("Total HT", 0),
			label("Total TVA", 6),
			label("Total TTC", 12),
		),
		col.New(3).Add(
			value(domfacturx.FormatMoneyFR(t.TotalHT, currency), 0),
			value(domfacturx.FormatMoneyFR(t.TotalVAT, currency), 6),
			grand(domfacturx.FormatMoneyFR(t.TotalTTC, currency), 12),
		),
	)
}

// footerRows: conditions de paiement, IBAN (+ QR SEPA) y menciones PMT / PMD.
func footerRows(doc *entity.InvoiceDocument, t *domfacturx.InvoiceTotals, currency string) []core.Row {
	var rows []core.Row
	small := props.Text{Size: 7, Color: colorGray, Top: 1}

	if terms := doc.Header.PaymentTerms; terms != "" {
		rows = append(rows, row.New(8).Add(col.New(12).Add(
			text.New("Conditions de paiement : "+terms, props.Text{Size: 8.5, Top: 2}),
		)))
	}

	e := doc.Emitter
	if e.IBAN != "" {
		sentence := "En votre aimable règlement par virement bancaire au " + e.IBAN + "."
		if e.BIC != "" {
			sentence += " BIC : " + e.BIC
		}
		payload := sepaPayload(e, t, currency, doc.Header.Number)
		if payload != "" {
			rows = append(rows, row.New(30).Add(
				col.New(9).Add(text.New(sentence, props.Text{Size: 8, Style: fontstyle.Italic, Top: 3})),
				col.New(3).Add(code.NewQr(payload, props.Rect{Percent: 90, Center: true})),
			))
		} else {
			rows = append(rows, row.New(8).Add(col.New(12).Add(
				text.New(sentence, props.Text{Size: 8, Style: fontstyle.Italic, Top: 2}),
			)))
		}
	}

	rows = append(rows, line.NewRow(3, props.Line{Color: colorGray, Thickness: 0.2}))
	for _, s := range []string{
		nonEmpty(e.RecoveryFeeText, pkgfacturx.DefaultRecoveryFeeText),
		nonEmpty(e.LatePenaltyText, pkgfacturx.DefaultLatePenaltyText),
		pkgfacturx.DefaultNoDiscountText,
	} {
		rows = append(rows, row.New(6).Add(col.New(12).Add(text.New(s, small))))
	}
	return rows
}

// sepaPayload contenido del QR de transferencia SEPA (EPC069-12, versión 002).
// Vacío si la divisa no es EUR o falta el nombre del beneficiario.
func sepaPayload(e entity.Party, t *domfacturx.InvoiceTotals, currency, reference string) string {
	if currency != pkgfacturx.DefaultCurrency || e.Name == "" || e.IBAN == "" {
		return ""
	}
	name := e.Name
	if len(name) > 70 {
		name = name[:70]
	}
	return strings.Join([]string{
		"BCD",
		"002",
		"1",
		"SCT",
		e.BIC,
		name,
		strings.ReplaceAll(e.IBAN, " ", ""),
		"EUR" + domfacturx.FormatAmount(t.TotalTTC),
		"",
		"",
		reference,
	}, "\n")
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if strings.TrimSpace(s) != "" {
		return s
	}
	return fallback
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
