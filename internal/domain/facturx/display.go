package facturx

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	pkgfacturx "github.com/jhoicas/facturx-api/pkg/facturx"
)

// ── Formato de presentación (PDF, en francés) ───────────────────────────────

// FormatAmountFR "1234.5" → "1 234,50" (separador de miles espacio, coma decimal).
func FormatAmountFR(d decimal.Decimal) string {
	s := FormatAmount(d)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return sign + b.String() + "," + frac
}

// FormatMoneyFR importe con símbolo: "1 234,50 €" (otras divisas con su código ISO).
func FormatMoneyFR(d decimal.Decimal, currency string) string {
	if currency == "" || currency == pkgfacturx.DefaultCurrency {
		return FormatAmountFR(d) + " €"
	}
	return FormatAmountFR(d) + " " + currency
}

// FormatDateFR fecha dd/mm/aaaa; la fecha cero produce "".
func FormatDateFR(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(frDateLayout)
}

// VATLabel etiqueta de tipo para tablas: "20,00" o "0,00 (E)" cuando la categoría no es S.
func VATLabel(rate decimal.Decimal, category string) string {
	label := FormatAmountFR(rate)
	if category != pkgfacturx.VATStandard {
		label += " (" + category + ")"
	}
	return label
}
