package facturx

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	isoDateLayout  = "2006-01-02"
	date102Layout  = "20060102"
	frDateLayout   = "02/01/2006"
	quantityDigits = 4
)

// ── Formato técnico (XML) ───────────────────────────────────────────────────

// FormatAmount redondea a 2 decimales (mitad hacia arriba) y siempre muestra dos dígitos.
// Es el único punto donde se redondea un importe.
func FormatAmount(d decimal.Decimal) string {
	return d.Round(2).StringFixed(2)
}

// FormatRate formatea un porcentaje de IVA igual que un importe ("20.00").
func FormatRate(d decimal.Decimal) string {
	return FormatAmount(d)
}

// FormatQuantity redondea a 4 decimales y elimina ceros finales y el punto sobrante.
func FormatQuantity(d decimal.Decimal) string {
	s := d.Round(quantityDigits).StringFixed(quantityDigits)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

// FormatDate102 fecha en formato UNTDID 2379 código 102 (AAAAMMJJ).
func FormatDate102(t time.Time) string {
	return t.Format(date102Layout)
}

// ParseISODate interpreta "YYYY-MM-DD". Vacío devuelve la fecha cero sin error.
func ParseISODate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(isoDateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("fecha %q no es YYYY-MM-DD: %w", s, err)
	}
	return t, nil
}

// FormatISODate inverso de ParseISODate; la fecha cero produce "".
func FormatISODate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(isoDateLayout)
}
