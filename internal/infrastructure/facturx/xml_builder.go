// Package facturx compone el XML CII (UN/CEFACT CrossIndustryInvoice D16B) de una
// factura Factur-X, calcula su huella y empaqueta los artefactos generados.
package facturx

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/beevik/etree"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/facturx-api/internal/domain"
	"github.com/jhoicas/facturx-api/internal/domain/entity"
	domfacturx "github.com/jhoicas/facturx-api/internal/domain/facturx"
	pkgfacturx "github.com/jhoicas/facturx-api/pkg/facturx"
)

// XMLBuilderService construye el XML CII de la factura. No tiene estado: es seguro
// usarlo desde varias goroutines.
type XMLBuilderService struct{}

// NewXMLBuilderService crea el servicio.
func NewXMLBuilderService() *XMLBuilderService {
	return &XMLBuilderService{}
}

// Compose serializa doc + totals según el perfil. La salida es determinista:
// misma entrada, mismos bytes. Falla con domain.ErrMissingRequiredField si falta
// un dato obligatorio para el perfil.
func (s *XMLBuilderService) Compose(doc *entity.InvoiceDocument, totals *domfacturx.InvoiceTotals, profile Profile) (string, error) {
	tpl, err := templateFor(profile)
	if err != nil {
		return "", err
	}
	return s.compose(tpl, doc, totals)
}

func (s *XMLBuilderService) compose(tpl *template, doc *entity.InvoiceDocument, totals *domfacturx.InvoiceTotals) (string, error) {
	if err := checkRequired(doc, totals, tpl); err != nil {
		return "", err
	}
	c := &buildContext{doc: doc, totals: totals, tpl: tpl}

	xdoc := etree.NewDocument()
	xdoc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := xdoc.CreateElement("rsm:CrossIndustryInvoice")
	root.CreateAttr("xmlns:rsm", pkgfacturx.NamespaceRSM)
	root.CreateAttr("xmlns:qdt", pkgfacturx.NamespaceQDT)
	root.CreateAttr("xmlns:ram", pkgfacturx.NamespaceRAM)
	root.CreateAttr("xmlns:udt", pkgfacturx.NamespaceUDT)

	// ── 1. Contexto: perfil ──
	guideline := root.CreateElement("rsm:ExchangedDocumentContext").
		CreateElement("ram:GuidelineSpecifiedDocumentContextParameter")
	addText(guideline, "ram:ID", tpl.guideline)

	// ── 2. Cabecera del documento ──
	runSteps(root.CreateElement("rsm:ExchangedDocument"), c, tpl.document)

	// ── 3. Transacción: líneas, acuerdo, entrega, liquidación ──
	tx := root.CreateElement("rsm:SupplyChainTradeTransaction")
	for i := range doc.Lines {
		item := tx.CreateElement("ram:IncludedSupplyChainTradeLineItem")
		for _, ls := range tpl.lineItem {
			ls(item, i, c)
		}
	}
	runSteps(tx.CreateElement("ram:ApplicableHeaderTradeAgreement"), c, tpl.agreement)
	runSteps(tx.CreateElement("ram:ApplicableHeaderTradeDelivery"), c, tpl.delivery)
	runSteps(tx.CreateElement("ram:ApplicableHeaderTradeSettlement"), c, tpl.settlement)

	if err := verifySchemaOrder(root); err != nil {
		return "", err
	}

	xdoc.Indent(2)
	out, err := xdoc.WriteToString()
	if err != nil {
		return "", fmt.Errorf("facturx: serializar XML: %w", err)
	}
	return out, nil
}

func checkRequired(doc *entity.InvoiceDocument, totals *domfacturx.InvoiceTotals, tpl *template) error {
	switch {
	case doc == nil:
		return domain.MissingRequiredField("document")
	case totals == nil:
		return domain.MissingRequiredField("totals")
	case strings.TrimSpace(doc.Header.Number) == "":
		return domain.MissingRequiredField("invoice_number")
	case doc.Header.IssueDate.IsZero():
		return domain.MissingRequiredField("issue_date")
	case strings.TrimSpace(doc.Emitter.Name) == "":
		return domain.MissingRequiredField("emitter.name")
	case tpl.legalID(doc.Emitter) == "":
		return domain.MissingRequiredField(tpl.legalIDField)
	case strings.TrimSpace(doc.Recipient.Name) == "":
		return domain.MissingRequiredField("recipient_name")
	}
	if len(totals.Lines) != len(doc.Lines) {
		return fmt.Errorf("%w: totales calculados para %d líneas, el documento tiene %d",
			domain.ErrInvalidInput, len(totals.Lines), len(doc.Lines))
	}
	return nil
}

func runSteps(parent *etree.Element, c *buildContext, steps []step) {
	for _, s := range steps {
		s(parent, c)
	}
}

// ── rsm:ExchangedDocument ───────────────────────────────────────────────────

func documentID(el *etree.Element, c *buildContext) {
	// El número se emite tal cual: la unicidad es responsabilidad de la numeración.
	addRaw(el, "ram:ID", c.doc.Header.Number)
}

func documentTypeCode(el *etree.Element, c *buildContext) {
	addText(el, "ram:TypeCode", orDefault(c.doc.Header.TypeCode, pkgfacturx.TypeCodeInvoice))
}

func documentIssueDate(el *etree.Element, c *buildContext) {
	addDate(el, "ram:IssueDateTime", c.doc.Header.IssueDate)
}

func documentPaymentTermsNote(el *etree.Element, c *buildContext) {
	if terms := strings.TrimSpace(c.doc.Header.PaymentTerms); terms != "" {
		addText(el.CreateElement("ram:IncludedNote"), "ram:Content", terms)
	}
}

// documentLegalNotices menciones obligatorias en Francia: indemnité forfaitaire,
// pénalités de retard y escompte, en ese orden.
func documentLegalNotices(el *etree.Element, c *buildContext) {
	e := c.doc.Emitter
	addNote(el, orDefault(e.RecoveryFeeText, pkgfacturx.DefaultRecoveryFeeText), pkgfacturx.NoteSubjectRecoveryFee)
	addNote(el, orDefault(e.LatePenaltyText, pkgfacturx.DefaultLatePenaltyText), pkgfacturx.NoteSubjectLatePenalty)
	addNote(el, pkgfacturx.DefaultNoDiscountText, pkgfacturx.NoteSubjectNoDiscount)
}

func addNote(parent *etree.Element, content, subject string) {
	note := parent.CreateElement("ram:IncludedNote")
	addText(note, "ram:Content", content)
	addText(note, "ram:SubjectCode", subject)
}

// ── ram:IncludedSupplyChainTradeLineItem ────────────────────────────────────

func lineDocument(item *etree.Element, n int, _ *buildContext) {
	addText(item.CreateElement("ram:AssociatedDocumentLineDocument"), "ram:LineID", strconv.Itoa(n+1))
}

func lineProduct(item *etree.Element, n int, c *buildContext) {
	addText(item.CreateElement("ram:SpecifiedTradeProduct"), "ram:Name", c.doc.Lines[n].Description)
}

func lineAgreement(item *etree.Element, n int, c *buildContext) {
	price := item.CreateElement("ram:SpecifiedLineTradeAgreement").CreateElement("ram:NetPriceProductTradePrice")
	addText(price, "ram:ChargeAmount", domfacturx.FormatAmount(c.doc.Lines[n].UnitPrice))
}

func lineDelivery(item *etree.Element, n int, c *buildContext) {
	qty := addText(item.CreateElement("ram:SpecifiedLineTradeDelivery"), "ram:BilledQuantity",
		domfacturx.FormatQuantity(c.doc.Lines[n].Quantity))
	qty.CreateAttr("unitCode", pkgfacturx.UnitCodeOne)
}

func lineSettlement(item *etree.Element, n int, c *buildContext) {
	lt := c.totals.Lines[n]
	settlement := item.CreateElement("ram:SpecifiedLineTradeSettlement")

	tax := settlement.CreateElement("ram:ApplicableTradeTax")
	addText(tax, "ram:TypeCode", pkgfacturx.VATTypeCode)
	addText(tax, "ram:CategoryCode", lt.VATCategory)
	addText(tax, "ram:RateApplicablePercent", domfacturx.FormatRate(lt.VATRate))

	if lt.HasDiscount() {
		allowance := settlement.CreateElement("ram:SpecifiedTradeAllowanceCharge")
		addText(allowance.CreateElement("ram:ChargeIndicator"), "udt:Indicator", "false")
		addText(allowance, "ram:ActualAmount", domfacturx.FormatAmount(lt.DiscountAmount))
		addText(allowance, "ram:Reason", pkgfacturx.AllowanceReasonRebate)
	}

	summation := settlement.CreateElement("ram:SpecifiedTradeSettlementLineMonetarySummation")
	addText(summation, "ram:LineTotalAmount", domfacturx.FormatAmount(lt.NetHT))
}

// ── ram:ApplicableHeaderTradeAgreement ──────────────────────────────────────

func agreementBuyerReference(el *etree.Element, c *buildContext) {
	if ref := strings.TrimSpace(c.doc.Header.BuyerReference); ref != "" {
		addText(el, "ram:BuyerReference", ref)
	}
}

func agreementSeller(el *etree.Element, c *buildContext) {
	writeParty(el.CreateElement("ram:SellerTradeParty"), c.doc.Emitter, c)
}

func agreementBuyer(el *etree.Element, c *buildContext) {
	writeParty(el.CreateElement("ram:BuyerTradeParty"), c.doc.Recipient, c)
}

func agreementBuyerOrder(el *etree.Element, c *buildContext) {
	if ref := strings.TrimSpace(c.doc.Header.PurchaseOrderReference); ref != "" {
		addText(el.CreateElement("ram:BuyerOrderReferencedDocument"), "ram:IssuerAssignedID", ref)
	}
}

func writeParty(el *etree.Element, p entity.Party, c *buildContext) {
	for _, ps := range c.tpl.party {
		ps(el, p, c)
	}
}

func partyName(el *etree.Element, p entity.Party, _ *buildContext) {
	addText(el, "ram:Name", p.Name)
}

func partyLegalOrganization(el *etree.Element, p entity.Party, c *buildContext) {
	id := c.tpl.legalID(p)
	if id == "" {
		return
	}
	addText(el.CreateElement("ram:SpecifiedLegalOrganization"), "ram:ID", id).
		CreateAttr("schemeID", pkgfacturx.SchemeSIRENE)
}

func partyPostalAddress(el *etree.Element, p entity.Party, _ *buildContext) {
	if !p.HasAddress() {
		return
	}
	addr := el.CreateElement("ram:PostalTradeAddress")
	addOptional(addr, "ram:PostcodeCode", p.PostalCode)
	addOptional(addr, "ram:LineOne", p.Address)
	addOptional(addr, "ram:CityName", p.City)
	addOptional(addr, "ram:CountryID", strings.ToUpper(p.CountryCode))
}

func partyElectronicAddress(el *etree.Element, p entity.Party, _ *buildContext) {
	siret := pkgfacturx.NormalizeIdentifier(p.SIRET)
	if siret == "" {
		return
	}
	addText(el.CreateElement("ram:URIUniversalCommunication"), "ram:URIID", siret).
		CreateAttr("schemeID", pkgfacturx.SchemeSIRET)
}

func partyVATRegistration(el *etree.Element, p entity.Party, _ *buildContext) {
	vat := pkgfacturx.NormalizeIdentifier(p.VATNumber)
	if vat == "" {
		return
	}
	addText(el.CreateElement("ram:SpecifiedTaxRegistration"), "ram:ID", vat).
		CreateAttr("schemeID", pkgfacturx.SchemeVAT)
}

// ── ram:ApplicableHeaderTradeDelivery ───────────────────────────────────────

func deliveryActualEvent(el *etree.Element, c *buildContext) {
	event := el.CreateElement("ram:ActualDeliverySupplyChainEvent")
	addDate(event, "ram:OccurrenceDateTime", c.doc.Header.EffectiveDeliveryDate())
}

// ── ram:ApplicableHeaderTradeSettlement ─────────────────────────────────────

func settlementCurrency(el *etree.Element, c *buildContext) {
	addText(el, "ram:InvoiceCurrencyCode", currencyOf(c))
}

func settlementTaxes(el *etree.Element, c *buildContext) {
	for _, g := range c.totals.VATBreakdown {
		tax := el.CreateElement("ram:ApplicableTradeTax")
		for _, ts := range c.tpl.headerTax {
			ts(tax, g, c)
		}
	}
}

func settlementPaymentTerms(el *etree.Element, c *buildContext) {
	if c.doc.Header.DueDate.IsZero() {
		return
	}
	addDate(el.CreateElement("ram:SpecifiedTradePaymentTerms"), "ram:DueDateDateTime", c.doc.Header.DueDate)
}

func settlementSummation(el *etree.Element, c *buildContext) {
	t := c.totals
	sum := el.CreateElement("ram:SpecifiedTradeSettlementHeaderMonetarySummation")
	addText(sum, "ram:LineTotalAmount", domfacturx.FormatAmount(t.TotalHT))
	addText(sum, "ram:TaxBasisTotalAmount", domfacturx.FormatAmount(t.TotalHT))
	addText(sum, "ram:TaxTotalAmount", domfacturx.FormatAmount(t.TotalVAT)).
		CreateAttr("currencyID", currencyOf(c))
	addText(sum, "ram:GrandTotalAmount", domfacturx.FormatAmount(t.TotalTTC))
	// Sin pagos parciales: el importe a pagar es el total TTC.
	addText(sum, "ram:DuePayableAmount", domfacturx.FormatAmount(t.TotalTTC))
}

// ── ram:ApplicableTradeTax (cabecera) ───────────────────────────────────────

func taxCalculatedAmount(tax *etree.Element, g domfacturx.TaxGroup, _ *buildContext) {
	addText(tax, "ram:CalculatedAmount", domfacturx.FormatAmount(g.VATAmount))
}

func taxTypeCode(tax *etree.Element, _ domfacturx.TaxGroup, _ *buildContext) {
	addText(tax, "ram:TypeCode", pkgfacturx.VATTypeCode)
}

func taxExemptionReason(tax *etree.Element, g domfacturx.TaxGroup, _ *buildContext) {
	if pkgfacturx.IsExemptionCategory(g.Category) {
		addOptional(tax, "ram:ExemptionReason", g.ExemptionReason)
	}
}

func taxBasisAmount(tax *etree.Element, g domfacturx.TaxGroup, _ *buildContext) {
	addText(tax, "ram:BasisAmount", domfacturx.FormatAmount(g.BaseHT))
}

func taxCategoryCode(tax *etree.Element, g domfacturx.TaxGroup, _ *buildContext) {
	addText(tax, "ram:CategoryCode", g.Category)
}

func taxExemptionReasonCode(tax *etree.Element, g domfacturx.TaxGroup, _ *buildContext) {
	if pkgfacturx.IsExemptionCategory(g.Category) {
		addOptional(tax, "ram:ExemptionReasonCode", g.ExemptionCode)
	}
}

func taxRate(tax *etree.Element, g domfacturx.TaxGroup, _ *buildContext) {
	addText(tax, "ram:RateApplicablePercent", domfacturx.FormatRate(g.Rate))
}

// ── helpers ─────────────────────────────────────────────────────────────────

// addText crea <tag> con el texto normalizado en NFC.
func addText(parent *etree.Element, tag, value string) *etree.Element {
	el := parent.CreateElement(tag)
	el.SetText(norm.NFC.String(value))
	return el
}

// addRaw crea <tag> con el texto sin ninguna transformación.
func addRaw(parent *etree.Element, tag, value string) *etree.Element {
	el := parent.CreateElement(tag)
	el.SetText(value)
	return el
}

// addOptional sólo crea el elemento si el valor no está vacío.
func addOptional(parent *etree.Element, tag, value string) {
	if v := strings.TrimSpace(value); v != "" {
		addText(parent, tag, v)
	}
}

func addDate(parent *etree.Element, tag string, t time.Time) {
	addText(parent.CreateElement(tag), "udt:DateTimeString", domfacturx.FormatDate102(t)).
		CreateAttr("format", pkgfacturx.DateFormat102)
}

func currencyOf(c *buildContext) string {
	return strings.ToUpper(orDefault(c.doc.Header.Currency, pkgfacturx.DefaultCurrency))
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return def
}
