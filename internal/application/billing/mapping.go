package billing

import (
	"time"

	"github.com/samber/lo"

	"github.com/jhoicas/facturx-api/internal/application/dto"
	"github.com/jhoicas/facturx-api/internal/domain/entity"
	domfacturx "github.com/jhoicas/facturx-api/internal/domain/facturx"
	pkgfacturx "github.com/jhoicas/facturx-api/pkg/facturx"
)

func toTotalsResponse(t *domfacturx.InvoiceTotals, lines []entity.InvoiceLine) dto.TotalsResponse {
	return dto.TotalsResponse{
		TotalHT:  domfacturx.FormatAmount(t.TotalHT),
		TotalVAT: domfacturx.FormatAmount(t.TotalVAT),
		TotalTTC: domfacturx.FormatAmount(t.TotalTTC),
		VATBreakdown: lo.Map(t.VATBreakdown, func(g domfacturx.TaxGroup, _ int) dto.TaxGroupResponse {
			return dto.TaxGroupResponse{
				Rate:            domfacturx.FormatRate(g.Rate),
				Category:        g.Category,
				BaseHT:          domfacturx.FormatAmount(g.BaseHT),
				VATAmount:       domfacturx.FormatAmount(g.VATAmount),
				ExemptionCode:   g.ExemptionCode,
				ExemptionReason: g.ExemptionReason,
			}
		}),
		Lines: lo.Map(t.Lines, func(lt domfacturx.LineTotals, i int) dto.LineTotalsResponse {
			return dto.LineTotalsResponse{
				Description:    lines[i].Description,
				GrossHT:        domfacturx.FormatAmount(lt.GrossHT),
				DiscountAmount: domfacturx.FormatAmount(lt.DiscountAmount),
				NetHT:          domfacturx.FormatAmount(lt.NetHT),
				VATAmount:      domfacturx.FormatAmount(lt.VATAmount),
				TotalTTC:       domfacturx.FormatAmount(lt.TotalTTC),
				VATCategory:    lt.VATCategory,
				Clamped:        lt.Clamped,
			}
		}),
	}
}

func toSummary(inv *entity.SentInvoice) dto.InvoiceSummary {
	s := dto.InvoiceSummary{
		ID:             inv.ID,
		Number:         inv.Number,
		TypeCode:       inv.TypeCode,
		TypeLabel:      pkgfacturx.TypeLabel(inv.TypeCode),
		IssueDate:      domfacturx.FormatISODate(inv.IssueDate),
		RecipientName:  inv.RecipientName,
		RecipientSIRET: inv.RecipientSIRET,
		Currency:       inv.Currency,
		TotalHT:        domfacturx.FormatAmount(inv.TotalHT),
		TotalVAT:       domfacturx.FormatAmount(inv.TotalVAT),
		TotalTTC:       domfacturx.FormatAmount(inv.TotalTTC),
		Status:         inv.Status,
		CreatedAt:      inv.CreatedAt.UTC().Format(time.RFC3339),
	}
	if inv.DueDate != nil {
		s.DueDate = domfacturx.FormatISODate(*inv.DueDate)
	}
	return s
}

func toInvoiceResponse(inv *entity.SentInvoice, totals *dto.TotalsResponse) *dto.InvoiceResponse {
	return &dto.InvoiceResponse{
		InvoiceSummary: toSummary(inv),
		Profile:        inv.Profile,
		ClientID:       inv.ClientID,
		XMLHash:        inv.XMLHash,
		TrackID:        inv.TrackID,
		GatewayErrors:  inv.GatewayErrors,
		Totals:         totals,
	}
}

func toStatusDTO(inv *entity.SentInvoice) *dto.InvoiceStatusDTO {
	return &dto.InvoiceStatusDTO{
		ID:      inv.ID,
		Number:  inv.Number,
		Status:  inv.Status,
		TrackID: inv.TrackID,
		Errors:  inv.GatewayErrors,
	}
}

func toClientResponse(c *entity.Client) dto.ClientResponse {
	return dto.ClientResponse{
		ID:          c.ID,
		Name:        c.Name,
		SIRET:       c.SIRET,
		VATNumber:   c.VATNumber,
		Address:     c.Address,
		PostalCode:  c.PostalCode,
		City:        c.City,
		CountryCode: c.CountryCode,
		Email:       c.Email,
	}
}

func dueDatePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
