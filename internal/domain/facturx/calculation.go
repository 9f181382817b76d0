// Package facturx contiene el motor de cálculo de facturas (líneas, desglose de IVA
// y totales) y las reglas de validación de negocio para Factur-X / EN 16931.
// Es puro: sin estado compartido, sin E/S y sin logs; seguro para uso concurrente.
package facturx

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/facturx-api/internal/domain"
	"github.com/jhoicas/facturx-api/internal/domain/entity"
	pkgfacturx "github.com/jhoicas/facturx-api/pkg/facturx"
)

// NegativeNetPolicy qué hacer cuando el descuento supera el bruto de la línea.
type NegativeNetPolicy int

const (
	// NegativeNetClamp recorta el neto a cero (comportamiento vigente).
	NegativeNetClamp NegativeNetPolicy = iota
)

// ActiveNegativeNetPolicy política aplicada por ComputeLineTotals.
const ActiveNegativeNetPolicy = NegativeNetClamp

// LineTotals importes derivados de una línea, a precisión completa.
type LineTotals struct {
	GrossHT         decimal.Decimal
	DiscountAmount  decimal.Decimal // cero si no hay descuento
	NetHT           decimal.Decimal
	VATAmount       decimal.Decimal
	TotalTTC        decimal.Decimal
	VATRate         decimal.Decimal
	VATCategory     string // categoría resuelta
	ExemptionCode   string
	ExemptionReason string
	Clamped         bool // el neto se recortó a cero
}

// HasDiscount indica si la línea lleva un descuento efectivo.
func (l LineTotals) HasDiscount() bool { return l.DiscountAmount.IsPositive() }

// TaxGroup desglose de IVA para un par (tipo, categoría).
type TaxGroup struct {
	Rate            decimal.Decimal
	Category        string
	BaseHT          decimal.Decimal
	VATAmount       decimal.Decimal
	ExemptionCode   string
	ExemptionReason string
}

// InvoiceTotals totales de la factura. VATBreakdown respeta el orden de aparición.
type InvoiceTotals struct {
	TotalHT      decimal.Decimal
	TotalVAT     decimal.Decimal
	TotalTTC     decimal.Decimal
	VATBreakdown []TaxGroup
	Lines        []LineTotals // mismo orden que las líneas de entrada
}

// ExemptionConflict informa de una línea cuyo código/motivo de exoneración difiere
// del que ya retuvo su grupo (se conserva el primero).
type ExemptionConflict struct {
	LineIndex       int
	Rate            decimal.Decimal
	Category        string
	KeptCode        string
	KeptReason      string
	DiscardedCode   string
	DiscardedReason string
}

type totalsOptions struct {
	onConflict func(ExemptionConflict)
}

// TotalsOption configura ComputeInvoiceTotals.
type TotalsOption func(*totalsOptions)

// WithExemptionConflictHook registra fn para cada conflicto de metadatos de exoneración.
func WithExemptionConflictHook(fn func(ExemptionConflict)) TotalsOption {
	return func(o *totalsOptions) { o.onConflict = fn }
}

// ResolveCategory devuelve la categoría efectiva: S si el tipo es positivo,
// si no la declarada (recortada) o Z por defecto.
func ResolveCategory(rate decimal.Decimal, declared string) string {
	if rate.IsPositive() {
		return pkgfacturx.VATStandard
	}
	c := strings.ToUpper(strings.TrimSpace(declared))
	if c == "" {
		return pkgfacturx.VATZero
	}
	return c
}

// ComputeLineTotals calcula bruto, descuento, neto, IVA y total de una línea.
func ComputeLineTotals(line entity.InvoiceLine) LineTotals {
	gross := line.Quantity.Mul(line.UnitPrice)

	discount := decimal.Zero
	if line.DiscountValue.IsPositive() {
		if line.DiscountType == entity.DiscountFixed {
			discount = line.DiscountValue
		} else {
			discount = gross.Mul(line.DiscountValue).Shift(-2)
		}
	}

	net := gross.Sub(discount)
	clamped := false
	if net.IsNegative() && ActiveNegativeNetPolicy == NegativeNetClamp {
		net = decimal.Zero
		clamped = true
	}

	// Shift(-2) divide entre 100 sin pérdida de precisión.
	vat := net.Mul(line.VATRate).Shift(-2)

	return LineTotals{
		GrossHT:         gross,
		DiscountAmount:  discount,
		NetHT:           net,
		VATAmount:       vat,
		TotalTTC:        net.Add(vat),
		VATRate:         line.VATRate,
		VATCategory:     ResolveCategory(line.VATRate, line.VATCategory),
		ExemptionCode:   strings.TrimSpace(line.ExemptionCode),
		ExemptionReason: strings.TrimSpace(line.ExemptionReason),
		Clamped:         clamped,
	}
}

// ComputeInvoiceTotals suma las líneas y agrupa el IVA por (tipo, categoría).
// Devuelve domain.ErrEmptyInvoice si no hay líneas.
func ComputeInvoiceTotals(lines []entity.InvoiceLine, opts ...TotalsOption) (*InvoiceTotals, error) {
	if len(lines) == 0 {
		return nil, domain.ErrEmptyInvoice
	}
	var o totalsOptions
	for _, opt := range opts {
		opt(&o)
	}

	out := &InvoiceTotals{
		TotalHT:  decimal.Zero,
		TotalVAT: decimal.Zero,
		Lines:    make([]LineTotals, 0, len(lines)),
	}
	index := make(map[string]int)

	for i, line := range lines {
		lt := ComputeLineTotals(line)
		out.Lines = append(out.Lines, lt)
		out.TotalHT = out.TotalHT.Add(lt.NetHT)
		out.TotalVAT = out.TotalVAT.Add(lt.VATAmount)

		// String() normaliza "20.0" y "20" a la misma clave.
		key := lt.VATRate.String() + "|" + lt.VATCategory
		pos, ok := index[key]
		if !ok {
			index[key] = len(out.VATBreakdown)
			out.VATBreakdown = append(out.VATBreakdown, TaxGroup{
				Rate:            lt.VATRate,
				Category:        lt.VATCategory,
				BaseHT:          lt.NetHT,
				VATAmount:       lt.VATAmount,
				ExemptionCode:   lt.ExemptionCode,
				ExemptionReason: lt.ExemptionReason,
			})
			continue
		}

		g := &out.VATBreakdown[pos]
		g.BaseHT = g.BaseHT.Add(lt.NetHT)
		g.VATAmount = g.VATAmount.Add(lt.VATAmount)
		mergeExemption(g, lt, i, o.onConflict)
	}

	out.TotalTTC = out.TotalHT.Add(out.TotalVAT)
	return out, nil
}

// mergeExemption conserva el primer código/motivo no vacío de cada grupo.
func mergeExemption(g *TaxGroup, lt LineTotals, lineIndex int, onConflict func(ExemptionConflict)) {
	conflict := false
	if lt.ExemptionCode != "" {
		if g.ExemptionCode == "" {
			g.ExemptionCode = lt.ExemptionCode
		} else if g.ExemptionCode != lt.ExemptionCode {
			conflict = true
		}
	}
	if lt.ExemptionReason != "" {
		if g.ExemptionReason == "" {
			g.ExemptionReason = lt.ExemptionReason
		} else if g.ExemptionReason != lt.ExemptionReason {
			conflict = true
		}
	}
	if conflict && onConflict != nil {
		onConflict(ExemptionConflict{
			LineIndex:       lineIndex,
			Rate:            g.Rate,
			Category:        g.Category,
			KeptCode:        g.ExemptionCode,
			KeptReason:      g.ExemptionReason,
			DiscardedCode:   lt.ExemptionCode,
			DiscardedReason: lt.ExemptionReason,
		})
	}
}
