package billing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jhoicas/facturx-api/internal/application/dto"
	"github.com/jhoicas/facturx-api/internal/domain"
	"github.com/jhoicas/facturx-api/internal/domain/entity"
	domfacturx "github.com/jhoicas/facturx-api/internal/domain/facturx"
	"github.com/jhoicas/facturx-api/internal/domain/repository"
	pkgfacturx "github.com/jhoicas/facturx-api/pkg/facturx"
)

// documentBuilder convierte una solicitud en InvoiceDocument validado.
type documentBuilder struct {
	emitter entity.Party
	clients repository.ClientRepository // nil = no se resuelve client_id
}

// build valida formato y reglas de negocio y reúne todas las violaciones en un
// único *domain.ValidationError. requireNumber exige invoice_number.
func (b documentBuilder) build(ctx context.Context, req *dto.InvoiceRequest, requireNumber bool) (*entity.InvoiceDocument, error) {
	violations := dto.Validate(req)

	if req.ClientID != "" && b.clients != nil {
		if err := b.fillFromClient(ctx, req); err != nil {
			return nil, err
		}
	}

	doc := &entity.InvoiceDocument{
		Header: entity.InvoiceHeader{
			Number:                 strings.TrimSpace(req.InvoiceNumber),
			TypeCode:               orDefault(req.TypeCode, pkgfacturx.TypeCodeInvoice),
			Currency:               orDefault(req.Currency, pkgfacturx.DefaultCurrency),
			BuyerReference:         strings.TrimSpace(req.BuyerReference),
			PurchaseOrderReference: strings.TrimSpace(req.PurchaseOrderReference),
			PaymentTerms:           strings.TrimSpace(req.PaymentTerms),
		},
		Emitter: b.emitter,
		Recipient: entity.Party{
			Name:        strings.TrimSpace(req.RecipientName),
			SIRET:       pkgfacturx.NormalizeIdentifier(req.RecipientSIRET),
			VATNumber:   strings.TrimSpace(req.RecipientVATNumber),
			Address:     strings.TrimSpace(req.RecipientAddress),
			PostalCode:  strings.TrimSpace(req.RecipientPostalCode),
			City:        strings.TrimSpace(req.RecipientCity),
			CountryCode: orDefault(req.RecipientCountryCode, pkgfacturx.DefaultCountry),
		},
	}

	// Las fechas mal formadas ya figuran en violations.
	doc.Header.IssueDate, _ = domfacturx.ParseISODate(req.IssueDate)
	doc.Header.DueDate, _ = domfacturx.ParseISODate(req.DueDate)
	doc.Header.DeliveryDate, _ = domfacturx.ParseISODate(req.DeliveryDate)

	violations = append(violations, domfacturx.ValidateHeader(doc, requireNumber)...)

	lines, err := domfacturx.ParseInvoiceLines(req.Lines)
	if err != nil {
		violations = append(violations, domain.Violation{Field: domain.FieldOf(err), Message: lineParseMessage(err)})
	} else {
		doc.Lines = lines
		violations = append(violations, domfacturx.ValidateLines(lines)...)
	}

	if v := uniqueByField(violations); len(v) > 0 {
		return nil, &domain.ValidationError{Violations: v}
	}
	return doc, nil
}

// fillFromClient completa los campos del destinatario vacíos con el cliente guardado.
func (b documentBuilder) fillFromClient(ctx context.Context, req *dto.InvoiceRequest) error {
	c, err := b.clients.GetByID(ctx, req.ClientID)
	if err != nil {
		return fmt.Errorf("billing: obtener cliente: %w", err)
	}
	if c == nil {
		return fmt.Errorf("cliente %s: %w", req.ClientID, domain.ErrNotFound)
	}
	fill := func(dst *string, v string) {
		if strings.TrimSpace(*dst) == "" {
			*dst = v
		}
	}
	fill(&req.RecipientName, c.Name)
	fill(&req.RecipientSIRET, c.SIRET)
	fill(&req.RecipientVATNumber, c.VATNumber)
	fill(&req.RecipientAddress, c.Address)
	fill(&req.RecipientPostalCode, c.PostalCode)
	fill(&req.RecipientCity, c.City)
	fill(&req.RecipientCountryCode, c.CountryCode)
	fill(&req.RecipientEmail, c.Email)
	return nil
}

// snapshotRequest solicitud con el número asignado y el destinatario resuelto,
// suficiente para regenerar el PDF sin consultar el directorio de clientes.
func snapshotRequest(req dto.InvoiceRequest, doc *entity.InvoiceDocument) dto.InvoiceRequest {
	req.InvoiceNumber = doc.Header.Number
	req.RecipientName = doc.Recipient.Name
	req.RecipientSIRET = doc.Recipient.SIRET
	req.RecipientVATNumber = doc.Recipient.VATNumber
	req.RecipientAddress = doc.Recipient.Address
	req.RecipientPostalCode = doc.Recipient.PostalCode
	req.RecipientCity = doc.Recipient.City
	req.RecipientCountryCode = doc.Recipient.CountryCode
	return req
}

func lineParseMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidNumericInput):
		return "valor numérico inválido"
	default:
		return "valor no admitido"
	}
}

// uniqueByField conserva la primera violación de cada campo.
func uniqueByField(vs []domain.Violation) []domain.Violation {
	seen := make(map[string]bool, len(vs))
	out := vs[:0]
	for _, v := range vs {
		if seen[v.Field] {
			continue
		}
		seen[v.Field] = true
		out = append(out, v)
	}
	return out
}

func orDefault(v, def string) string {
	if s := strings.TrimSpace(v); s != "" {
		return s
	}
	return def
}
