package facturx_test

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/facturx-api/internal/domain"
	"github.com/jhoicas/facturx-api/internal/domain/entity"
	domfacturx "github.com/jhoicas/facturx-api/internal/domain/facturx"
	"github.com/jhoicas/facturx-api/internal/infrastructure/facturx"
)

// ──────────────────────────────────────────────────────────────────────────────
// Los tests leen el XML generado con etree y comprueban estructura y orden de
// elementos: la validación XSD de CII rechaza cualquier hijo fuera de secuencia.
// ──────────────────────────────────────────────────────────────────────────────

func TestCompose_EscenarioCompleto_IdentificadorSegunPerfil(t *testing.T) {
	doc := buildTestDoc()
	totals := mustTotals(t, doc)

	cases := []struct {
		profile facturx.Profile
		legalID string
	}{
		{facturx.ProfileEN16931, "123456789"},
		{facturx.ProfileBasic, "12345678901234"},
	}
	for _, tc := range cases {
		t.Run(string(tc.profile), func(t *testing.T) {
			x := compose(t, doc, totals, tc.profile)

			taxes := x.FindElements("//ram:ApplicableHeaderTradeSettlement/ram:ApplicableTradeTax")
			require.Len(t, taxes, 1)
			assert.Equal(t, "1000.00", text(taxes[0], "ram:CalculatedAmount"))
			assert.Equal(t, "5000.00", text(taxes[0], "ram:BasisAmount"))
			assert.Equal(t, "S", text(taxes[0], "ram:CategoryCode"))
			assert.Equal(t, "20.00", text(taxes[0], "ram:RateApplicablePercent"))

			legal := x.FindElement("//ram:SellerTradeParty/ram:SpecifiedLegalOrganization/ram:ID")
			require.NotNil(t, legal)
			assert.Equal(t, tc.legalID, legal.Text())
			assert.Equal(t, "0002", legal.SelectAttrValue("schemeID", ""))

			sum := x.FindElement("//ram:SpecifiedTradeSettlementHeaderMonetarySummation")
			require.NotNil(t, sum)
			assert.Equal(t, []string{"LineTotalAmount", "TaxBasisTotalAmount", "TaxTotalAmount", "GrandTotalAmount", "DuePayableAmount"}, childTags(sum))
			assert.Equal(t, "5000.00", text(sum, "ram:LineTotalAmount"))
			assert.Equal(t, "5000.00", text(sum, "ram:TaxBasisTotalAmount"))
			assert.Equal(t, "1000.00", text(sum, "ram:TaxTotalAmount"))
			assert.Equal(t, "EUR", sum.FindElement("ram:TaxTotalAmount").SelectAttrValue("currencyID", ""))
			assert.Equal(t, "6000.00", text(sum, "ram:GrandTotalAmount"))
			assert.Equal(t, "6000.00", text(sum, "ram:DuePayableAmount"))
		})
	}
}

func TestCompose_Idempotente(t *testing.T) {
	doc := buildTestDoc()
	doc.Lines = append(doc.Lines, exemptLine(), discountedLine())
	totals := mustTotals(t, doc)
	svc := facturx.NewXMLBuilderService()

	for _, p := range []facturx.Profile{facturx.ProfileBasic, facturx.ProfileEN16931} {
		a, err := svc.Compose(doc, totals, p)
		require.NoError(t, err)
		b, err := svc.Compose(doc, totals, p)
		require.NoError(t, err)
		assert.Equal(t, a, b, "perfil %s", p)
	}
}

func TestCompose_ConcurrenteMismaSalida(t *testing.T) {
	doc := buildTestDoc()
	totals := mustTotals(t, doc)
	svc := facturx.NewXMLBuilderService()
	want, err := svc.Compose(doc, totals, facturx.ProfileEN16931)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]string, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = svc.Compose(doc, totals, facturx.ProfileEN16931)
		}(i)
	}
	wg.Wait()
	for _, r := range results {
		assert.Equal(t, want, r)
	}
}

func TestCompose_DeclaracionYRaiz(t *testing.T) {
	doc := buildTestDoc()
	out, err := facturx.NewXMLBuilderService().Compose(doc, mustTotals(t, doc), facturx.ProfileBasic)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, `<?xml version="1.0" encoding="UTF-8"?>`))
	assert.Contains(t, out, "\n  <rsm:ExchangedDocumentContext>")

	x := etree.NewDocument()
	require.NoError(t, x.ReadFromString(out))
	root := x.Root()
	assert.Equal(t, "rsm:CrossIndustryInvoice", root.FullTag())
	assert.Equal(t, []string{"ExchangedDocumentContext", "ExchangedDocument", "SupplyChainTradeTransaction"}, childTags(root))
	assert.Equal(t, "urn:factur-x.eu:1p0:basic", text(root, "//ram:GuidelineSpecifiedDocumentContextParameter/ram:ID"))
}

func TestCompose_CabeceraBasic(t *testing.T) {
	doc := buildTestDoc()
	x := compose(t, doc, mustTotals(t, doc), facturx.ProfileBasic)

	hdr := x.FindElement("//rsm:ExchangedDocument")
	require.NotNil(t, hdr)
	assert.Equal(t, []string{"ID", "TypeCode", "IssueDateTime"}, childTags(hdr))
	assert.Equal(t, "FA-2026-0001", text(hdr, "ram:ID"))
	assert.Equal(t, "380", text(hdr, "ram:TypeCode"))

	issue := hdr.FindElement("ram:IssueDateTime/udt:DateTimeString")
	require.NotNil(t, issue)
	assert.Equal(t, "20260115", issue.Text())
	assert.Equal(t, "102", issue.SelectAttrValue("format", ""))

	delivery := x.FindElement("//ram:ApplicableHeaderTradeDelivery")
	require.NotNil(t, delivery)
	assert.Empty(t, delivery.ChildElements())
	assert.Nil(t, x.FindElement("//ram:URIUniversalCommunication"))
}

func TestCompose_CabeceraEN16931_MencionesLegales(t *testing.T) {
	doc := buildTestDoc()
	doc.Header.PaymentTerms = "Paiement à 30 jours"
	doc.Emitter.LatePenaltyText = "Pénalités: 3x le taux légal"
	x := compose(t, doc, mustTotals(t, doc), facturx.ProfileEN16931)

	hdr := x.FindElement("//rsm:ExchangedDocument")
	require.NotNil(t, hdr)
	assert.Equal(t, []string{"ID", "TypeCode", "IssueDateTime", "IncludedNote", "IncludedNote", "IncludedNote", "IncludedNote"}, childTags(hdr))

	notes := hdr.SelectElements("IncludedNote")
	assert.Equal(t, "Paiement à 30 jours", text(notes[0], "ram:Content"))
	assert.Nil(t, notes[0].FindElement("ram:SubjectCode"))

	var subjects []string
	for _, n := range notes[1:] {
		subjects = append(subjects, text(n, "ram:SubjectCode"))
	}
	assert.Equal(t, []string{"PMT", "PMD", "AAB"}, subjects)
	assert.Contains(t, text(notes[1], "ram:Content"), "40 €")
	assert.Equal(t, "Pénalités: 3x le taux légal", text(notes[2], "ram:Content"))
}

func TestCompose_EntregaEN16931(t *testing.T) {
	doc := buildTestDoc()
	totals := mustTotals(t, doc)

	x := compose(t, doc, totals, facturx.ProfileEN16931)
	assert.Equal(t, "20260115", text(x.Root(), "//ram:ActualDeliverySupplyChainEvent/ram:OccurrenceDateTime/udt:DateTimeString"))

	doc.Header.DeliveryDate = time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	x = compose(t, doc, totals, facturx.ProfileEN16931)
	assert.Equal(t, "20260110", text(x.Root(), "//ram:ActualDeliverySupplyChainEvent/ram:OccurrenceDateTime/udt:DateTimeString"))
}

func TestCompose_PartesEN16931(t *testing.T) {
	doc := buildTestDoc()
	x := compose(t, doc, mustTotals(t, doc), facturx.ProfileEN16931)

	seller := x.FindElement("//ram:SellerTradeParty")
	require.NotNil(t, seller)
	assert.Equal(t, []string{"Name", "SpecifiedLegalOrganization", "PostalTradeAddress", "URIUniversalCommunication", "SpecifiedTaxRegistration"}, childTags(seller))

	uri := seller.FindElement("ram:URIUniversalCommunication/ram:URIID")
	assert.Equal(t, "12345678901234", uri.Text())
	assert.Equal(t, "0009", uri.SelectAttrValue("schemeID", ""))
	assert.Equal(t, "VA", seller.FindElement("ram:SpecifiedTaxRegistration/ram:ID").SelectAttrValue("schemeID", ""))
	assert.Equal(t, []string{"PostcodeCode", "LineOne", "CityName", "CountryID"}, childTags(seller.FindElement("ram:PostalTradeAddress")))

	buyer := x.FindElement("//ram:BuyerTradeParty")
	require.NotNil(t, buyer)
	assert.Equal(t, "Client SA", text(buyer, "ram:Name"))
	assert.Equal(t, "987654321", text(buyer, "ram:SpecifiedLegalOrganization/ram:ID"))
	assert.Equal(t, "98765432100015", text(buyer, "ram:URIUniversalCommunication/ram:URIID"))
	assert.Nil(t, buyer.FindElement("ram:SpecifiedTaxRegistration"))

	agreement := x.FindElement("//ram:ApplicableHeaderTradeAgreement")
	assert.Equal(t, []string{"BuyerReference", "SellerTradeParty", "BuyerTradeParty", "BuyerOrderReferencedDocument"}, childTags(agreement))
	assert.Equal(t, "PO-778", text(agreement, "ram:BuyerOrderReferencedDocument/ram:IssuerAssignedID"))
}

func TestCompose_ExoneracionSoloEnCategoriasExentas(t *testing.T) {
	doc := buildTestDoc()
	zero := entity.InvoiceLine{Description: "Taux zéro", Quantity: d("2"), UnitPrice: d("100"), VATRate: d("0"), DiscountType: entity.DiscountPercent}
	doc.Lines = append(doc.Lines, exemptLine(), zero)
	totals := mustTotals(t, doc)

	x := compose(t, doc, totals, facturx.ProfileEN16931)
	taxes := x.FindElements("//ram:ApplicableHeaderTradeSettlement/ram:ApplicableTradeTax")
	require.Len(t, taxes, 3)

	assert.Equal(t, []string{"CalculatedAmount", "TypeCode", "BasisAmount", "CategoryCode", "RateApplicablePercent"}, childTags(taxes[0]))
	assert.Equal(t, []string{"CalculatedAmount", "TypeCode", "ExemptionReason", "BasisAmount", "CategoryCode", "ExemptionReasonCode", "RateApplicablePercent"}, childTags(taxes[1]))
	assert.Equal(t, "E", text(taxes[1], "ram:CategoryCode"))
	assert.Equal(t, "VATEX-FR-FRANCHISE", text(taxes[1], "ram:ExemptionReasonCode"))
	assert.Equal(t, "TVA non applicable, art. 293 B du CGI", text(taxes[1], "ram:ExemptionReason"))
	assert.Equal(t, "Z", text(taxes[2], "ram:CategoryCode"))
	assert.Equal(t, []string{"CalculatedAmount", "TypeCode", "BasisAmount", "CategoryCode", "RateApplicablePercent"}, childTags(taxes[2]))
}

func TestCompose_ExoneracionParcialNoEmiteVacios(t *testing.T) {
	doc := buildTestDoc()
	l := exemptLine()
	l.ExemptionReason = ""
	doc.Lines = []entity.InvoiceLine{l}

	x := compose(t, doc, mustTotals(t, doc), facturx.ProfileEN16931)
	tax := x.FindElement("//ram:ApplicableHeaderTradeSettlement/ram:ApplicableTradeTax")
	require.NotNil(t, tax)
	assert.Equal(t, []string{"CalculatedAmount", "TypeCode", "BasisAmount", "CategoryCode", "ExemptionReasonCode", "RateApplicablePercent"}, childTags(tax))
}

func TestCompose_BasicSinExoneracion(t *testing.T) {
	doc := buildTestDoc()
	doc.Lines = []entity.InvoiceLine{exemptLine()}
	out, err := facturx.NewXMLBuilderService().Compose(doc, mustTotals(t, doc), facturx.ProfileBasic)
	require.NoError(t, err)
	assert.NotContains(t, out, "ExemptionReason")
	assert.Contains(t, out, "<ram:CategoryCode>E</ram:CategoryCode>")
}

func TestCompose_Lineas(t *testing.T) {
	doc := buildTestDoc()
	doc.Lines = append(doc.Lines, discountedLine())
	x := compose(t, doc, mustTotals(t, doc), facturx.ProfileBasic)

	items := x.FindElements("//ram:IncludedSupplyChainTradeLineItem")
	require.Len(t, items, 2)

	first := items[0]
	assert.Equal(t, []string{"AssociatedDocumentLineDocument", "SpecifiedTradeProduct", "SpecifiedLineTradeAgreement", "SpecifiedLineTradeDelivery", "SpecifiedLineTradeSettlement"}, childTags(first))
	assert.Equal(t, "1", text(first, "ram:AssociatedDocumentLineDocument/ram:LineID"))
	assert.Equal(t, "Dev", text(first, "ram:SpecifiedTradeProduct/ram:Name"))
	assert.Equal(t, "500.00", text(first, "ram:SpecifiedLineTradeAgreement/ram:NetPriceProductTradePrice/ram:ChargeAmount"))
	qty := first.FindElement("ram:SpecifiedLineTradeDelivery/ram:BilledQuantity")
	assert.Equal(t, "10", qty.Text())
	assert.Equal(t, "C62", qty.SelectAttrValue("unitCode", ""))
	assert.Nil(t, first.FindElement(".//ram:SpecifiedTradeAllowanceCharge"))
	assert.Equal(t, "5000.00", text(first, "ram:SpecifiedLineTradeSettlement/ram:SpecifiedTradeSettlementLineMonetarySummation/ram:LineTotalAmount"))

	second := items[1]
	assert.Equal(t, "2", text(second, "ram:AssociatedDocumentLineDocument/ram:LineID"))
	settlement := second.FindElement("ram:SpecifiedLineTradeSettlement")
	assert.Equal(t, []string{"ApplicableTradeTax", "SpecifiedTradeAllowanceCharge", "SpecifiedTradeSettlementLineMonetarySummation"}, childTags(settlement))
	assert.Equal(t, []string{"TypeCode", "CategoryCode", "RateApplicablePercent"}, childTags(settlement.FindElement("ram:ApplicableTradeTax")))
	allowance := settlement.FindElement("ram:SpecifiedTradeAllowanceCharge")
	assert.Equal(t, "false", text(allowance, "ram:ChargeIndicator/udt:Indicator"))
	assert.Equal(t, "60.00", text(allowance, "ram:ActualAmount"))
	assert.Equal(t, "Rabais", text(allowance, "ram:Reason"))
	assert.Equal(t, "540.00", text(settlement, "ram:SpecifiedTradeSettlementLineMonetarySummation/ram:LineTotalAmount"))
}

func TestCompose_Vencimiento(t *testing.T) {
	doc := buildTestDoc()
	doc.Header.DueDate = time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC)
	x := compose(t, doc, mustTotals(t, doc), facturx.ProfileBasic)

	settlement := x.FindElement("//ram:ApplicableHeaderTradeSettlement")
	assert.Equal(t, []string{"InvoiceCurrencyCode", "ApplicableTradeTax", "SpecifiedTradePaymentTerms", "SpecifiedTradeSettlementHeaderMonetarySummation"}, childTags(settlement))
	assert.Equal(t, "20260214", text(settlement, "ram:SpecifiedTradePaymentTerms/ram:DueDateDateTime/udt:DateTimeString"))
}

func TestCompose_NumeroSinReinterpretar(t *testing.T) {
	doc := buildTestDoc()
	doc.Header.Number = "FA/2026-0001 bis"
	x := compose(t, doc, mustTotals(t, doc), facturx.ProfileBasic)
	assert.Equal(t, "FA/2026-0001 bis", text(x.Root(), "//rsm:ExchangedDocument/ram:ID"))
}

func TestCompose_CamposObligatorios(t *testing.T) {
	cases := []struct {
		name    string
		profile facturx.Profile
		mutate  func(*entity.InvoiceDocument)
		field   string
	}{
		{"sin número", facturx.ProfileBasic, func(d *entity.InvoiceDocument) { d.Header.Number = "" }, "invoice_number"},
		{"sin fecha", facturx.ProfileBasic, func(d *entity.InvoiceDocument) { d.Header.IssueDate = time.Time{} }, "issue_date"},
		{"sin SIRET basic", facturx.ProfileBasic, func(d *entity.InvoiceDocument) { d.Emitter.SIRET = "" }, "emitter.siret"},
		{"sin SIREN en16931", facturx.ProfileEN16931, func(d *entity.InvoiceDocument) { d.Emitter.SIREN = ""; d.Emitter.SIRET = "" }, "emitter.siren"},
		{"sin nombre emisor", facturx.ProfileEN16931, func(d *entity.InvoiceDocument) { d.Emitter.Name = "" }, "emitter.name"},
		{"sin comprador", facturx.ProfileBasic, func(d *entity.InvoiceDocument) { d.Recipient.Name = "" }, "recipient_name"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			doc := buildTestDoc()
			totals := mustTotals(t, doc)
			tc.mutate(doc)

			_, err := facturx.NewXMLBuilderService().Compose(doc, totals, tc.profile)
			require.ErrorIs(t, err, domain.ErrMissingRequiredField)
			assert.Equal(t, tc.field, domain.FieldOf(err))
		})
	}
}

func TestCompose_SIRENDerivadoDelSIRET(t *testing.T) {
	doc := buildTestDoc()
	doc.Emitter.SIREN = ""
	x := compose(t, doc, mustTotals(t, doc), facturx.ProfileEN16931)
	assert.Equal(t, "123456789", text(x.Root(), "//ram:SellerTradeParty/ram:SpecifiedLegalOrganization/ram:ID"))
}

func TestCompose_SinTotales(t *testing.T) {
	_, err := facturx.NewXMLBuilderService().Compose(buildTestDoc(), nil, facturx.ProfileBasic)
	require.ErrorIs(t, err, domain.ErrMissingRequiredField)
	assert.Equal(t, "totals", domain.FieldOf(err))
}

func TestParseProfile(t *testing.T) {
	p, err := facturx.ParseProfile(" EN16931 ")
	require.NoError(t, err)
	assert.Equal(t, facturx.ProfileEN16931, p)
	assert.Equal(t, "urn:cen.eu:en16931:2017", p.Guideline())

	_, err = facturx.ParseProfile("extended")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ── helpers ──────────────────────────────────────────────────────────────────

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func buildTestDoc() *entity.InvoiceDocument {
	return &entity.InvoiceDocument{
		Header: entity.InvoiceHeader{
			Number:                 "FA-2026-0001",
			TypeCode:               "380",
			IssueDate:              time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
			Currency:               "EUR",
			BuyerReference:         "SERVICE-ACHATS",
			PurchaseOrderReference: "PO-778",
		},
		Emitter: entity.Party{
			Name:        "Atelier Dupont SARL",
			Address:     "12 rue des Lilas",
			PostalCode:  "75011",
			City:        "Paris",
			CountryCode: "FR",
			SIREN:       "123456789",
			SIRET:       "12345678901234",
			VATNumber:   "FR32123456789",
			IBAN:        "FR7630006000011234567890189",
		},
		Recipient: entity.Party{
			Name:        "Client SA",
			Address:     "5 avenue Foch",
			PostalCode:  "69006",
			City:        "Lyon",
			CountryCode: "FR",
			SIRET:       "98765432100015",
		},
		Lines: []entity.InvoiceLine{{
			Description:  "Dev",
			Quantity:     d("10"),
			UnitPrice:    d("500"),
			VATRate:      d("20"),
			DiscountType: entity.DiscountPercent,
		}},
	}
}

func exemptLine() entity.InvoiceLine {
	return entity.InvoiceLine{
		Description:     "Formation",
		Quantity:        d("1"),
		UnitPrice:       d("800"),
		VATRate:         d("0"),
		VATCategory:     "E",
		ExemptionCode:   "VATEX-FR-FRANCHISE",
		ExemptionReason: "TVA non applicable, art. 293 B du CGI",
		DiscountType:    entity.DiscountPercent,
	}
}

func discountedLine() entity.InvoiceLine {
	return entity.InvoiceLine{
		Description:   "Licence",
		Quantity:      d("5"),
		UnitPrice:     d("120"),
		VATRate:       d("20"),
		DiscountValue: d("10"),
		DiscountType:  entity.DiscountPercent,
	}
}

func mustTotals(t *testing.T, doc *entity.InvoiceDocument) *domfacturx.InvoiceTotals {
	t.Helper()
	totals, err := domfacturx.ComputeInvoiceTotals(doc.Lines)
	require.NoError(t, err)
	return totals
}

func compose(t *testing.T, doc *entity.InvoiceDocument, totals *domfacturx.InvoiceTotals, p facturx.Profile) *etree.Document {
	t.Helper()
	out, err := facturx.NewXMLBuilderService().Compose(doc, totals, p)
	require.NoError(t, err)
	x := etree.NewDocument()
	require.NoError(t, x.ReadFromString(out))
	return x
}

func childTags(el *etree.Element) []string {
	var tags []string
	for _, c := range el.ChildElements() {
		tags = append(tags, c.Tag)
	}
	return tags
}

func text(el *etree.Element, path string) string {
	found := el.FindElement(path)
	if found == nil {
		return ""
	}
	return found.Text()
}
