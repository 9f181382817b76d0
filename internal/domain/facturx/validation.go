package facturx

import (
	"fmt"

	"github.com/jhoicas/facturx-api/internal/domain"
	"github.com/jhoicas/facturx-api/internal/domain/entity"
	pkgfacturx "github.com/jhoicas/facturx-api/pkg/facturx"
)

// KnownCategories categorías UNTDID 5305 aceptadas en una línea.
var KnownCategories = map[string]bool{
	pkgfacturx.VATStandard:       true,
	pkgfacturx.VATZero:           true,
	pkgfacturx.VATExempt:         true,
	pkgfacturx.VATReverseCharge:  true,
	pkgfacturx.VATIntraCommunity: true,
	pkgfacturx.VATExport:         true,
	pkgfacturx.VATOutOfScope:     true,
}

// ValidateHeader reglas de cabecera y destinatario. requireNumber es falso cuando
// el número lo asignará la numeración automática.
func ValidateHeader(doc *entity.InvoiceDocument, requireNumber bool) []domain.Violation {
	var out []domain.Violation
	add := func(field, msg string) { out = append(out, domain.Violation{Field: field, Message: msg}) }

	h := doc.Header
	if requireNumber && h.Number == "" {
		add("invoice_number", "el número de factura es obligatorio")
	}
	if h.IssueDate.IsZero() {
		add("issue_date", "la fecha de emisión es obligatoria")
	}
	if !h.DueDate.IsZero() && !h.IssueDate.IsZero() && h.DueDate.Before(h.IssueDate) {
		add("due_date", "la fecha de vencimiento es anterior a la fecha de emisión")
	}
	if _, ok := pkgfacturx.TypeLabels[h.TypeCode]; !ok {
		add("type_code", fmt.Sprintf("tipo de documento %q no soportado", h.TypeCode))
	}

	r := doc.Recipient
	if r.Name == "" {
		add("recipient_name", "el nombre del destinatario es obligatorio")
	}
	if r.SIRET == "" {
		add("recipient_siret", "el SIRET del destinatario es obligatorio")
	} else if err := pkgfacturx.ValidateSIRET(r.SIRET); err != nil {
		add("recipient_siret", "el SIRET debe contener 14 dígitos")
	}
	if r.CountryCode == "" {
		add("recipient_country_code", "el país del destinatario es obligatorio")
	}
	return out
}

// ValidateLines reglas de líneas: al menos una, descripción, cantidad y precio
// positivos, categoría conocida y motivo de exoneración cuando aplica.
func ValidateLines(lines []entity.InvoiceLine) []domain.Violation {
	if len(lines) == 0 {
		return []domain.Violation{{Field: "lines", Message: "la factura debe contener al menos una línea"}}
	}
	var out []domain.Violation
	for i, l := range lines {
		field := func(name string) string { return fmt.Sprintf("lines[%d][%s]", i, name) }
		if l.Description == "" {
			out = append(out, domain.Violation{Field: field("description"), Message: "la descripción es obligatoria"})
		}
		if !l.Quantity.IsPositive() {
			out = append(out, domain.Violation{Field: field("quantity"), Message: "la cantidad debe ser mayor que 0"})
		}
		if !l.UnitPrice.IsPositive() {
			out = append(out, domain.Violation{Field: field("unit_price"), Message: "el precio unitario debe ser mayor que 0"})
		}
		category := ResolveCategory(l.VATRate, l.VATCategory)
		if !KnownCategories[category] {
			out = append(out, domain.Violation{Field: field("vat_category"), Message: fmt.Sprintf("categoría de IVA %q desconocida", category)})
			continue
		}
		if l.VATRate.IsZero() && pkgfacturx.IsExemptionCategory(category) && l.ExemptionCode == "" && l.ExemptionReason == "" {
			out = append(out, domain.Violation{Field: field("exemption_reason"), Message: "una línea exonerada requiere código o motivo de exoneración"})
		}
	}
	return out
}

// ValidateDocument combina ValidateHeader y ValidateLines; nil si no hay violaciones.
func ValidateDocument(doc *entity.InvoiceDocument, requireNumber bool) error {
	v := append(ValidateHeader(doc, requireNumber), ValidateLines(doc.Lines)...)
	if len(v) == 0 {
		return nil
	}
	return &domain.ValidationError{Violations: v}
}
