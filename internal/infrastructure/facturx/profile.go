package facturx

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"

	"github.com/jhoicas/facturx-api/internal/domain"
	"github.com/jhoicas/facturx-api/internal/domain/entity"
	domfacturx "github.com/jhoicas/facturx-api/internal/domain/facturx"
	pkgfacturx "github.com/jhoicas/facturx-api/pkg/facturx"
)

// Profile conjunto de reglas con el que se compone el XML.
type Profile string

const (
	ProfileBasic   Profile = "basic"
	ProfileEN16931 Profile = "en16931"
)

// ParseProfile acepta "basic" o "en16931" (sin distinguir mayúsculas).
func ParseProfile(s string) (Profile, error) {
	switch Profile(strings.ToLower(strings.TrimSpace(s))) {
	case ProfileBasic:
		return ProfileBasic, nil
	case ProfileEN16931:
		return ProfileEN16931, nil
	default:
		return "", fmt.Errorf("%w: perfil Factur-X %q desconocido", domain.ErrInvalidInput, s)
	}
}

// Guideline URN del perfil (BT-24).
func (p Profile) Guideline() string {
	if t, err := templateFor(p); err == nil {
		return t.guideline
	}
	return ""
}

// ── Plantillas ───────────────────────────────────────────────────────────────
// Cada plantilla fija, por elemento padre, la lista ordenada de bloques que se
// escriben. El orden es el del esquema CII; verifySchemaOrder lo comprueba al final.

type buildContext struct {
	doc    *entity.InvoiceDocument
	totals *domfacturx.InvoiceTotals
	tpl    *template
}

type (
	step      func(parent *etree.Element, c *buildContext)
	partyStep func(party *etree.Element, p entity.Party, c *buildContext)
	lineStep  func(item *etree.Element, n int, c *buildContext)
	taxStep   func(tax *etree.Element, g domfacturx.TaxGroup, c *buildContext)
)

type template struct {
	profile   Profile
	guideline string

	document   []step      // rsm:ExchangedDocument
	lineItem   []lineStep  // ram:IncludedSupplyChainTradeLineItem
	agreement  []step      // ram:ApplicableHeaderTradeAgreement
	party      []partyStep // ram:SellerTradeParty y ram:BuyerTradeParty
	delivery   []step      // ram:ApplicableHeaderTradeDelivery
	settlement []step      // ram:ApplicableHeaderTradeSettlement
	headerTax  []taxStep   // ram:ApplicableTradeTax de cabecera

	// legalID identificador de ram:SpecifiedLegalOrganization para una parte.
	legalID      func(p entity.Party) string
	legalIDField string
}

var standardLineItem = []lineStep{
	lineDocument,
	lineProduct,
	lineAgreement,
	lineDelivery,
	lineSettlement,
}

var basicTemplate = &template{
	profile:   ProfileBasic,
	guideline: pkgfacturx.GuidelineBasic,
	document: []step{
		documentID,
		documentTypeCode,
		documentIssueDate,
		documentPaymentTermsNote,
	},
	lineItem: standardLineItem,
	agreement: []step{
		agreementBuyerReference,
		agreementSeller,
		agreementBuyer,
		agreementBuyerOrder,
	},
	party: []partyStep{
		partyName,
		partyLegalOrganization,
		partyPostalAddress,
		partyVATRegistration,
	},
	delivery: nil,
	settlement: []step{
		settlementCurrency,
		settlementTaxes,
		settlementPaymentTerms,
		settlementSummation,
	},
	headerTax: []taxStep{
		taxCalculatedAmount,
		taxTypeCode,
		taxBasisAmount,
		taxCategoryCode,
		taxRate,
	},
	legalID:      func(p entity.Party) string { return pkgfacturx.NormalizeIdentifier(p.SIRET) },
	legalIDField: "emitter.siret",
}

var en16931Template = &template{
	profile:   ProfileEN16931,
	guideline: pkgfacturx.GuidelineEN16931,
	document: []step{
		documentID,
		documentTypeCode,
		documentIssueDate,
		documentPaymentTermsNote,
		documentLegalNotices,
	},
	lineItem: standardLineItem,
	agreement: []step{
		agreementBuyerReference,
		agreementSeller,
		agreementBuyer,
		agreementBuyerOrder,
	},
	party: []partyStep{
		partyName,
		partyLegalOrganization,
		partyPostalAddress,
		partyElectronicAddress,
		partyVATRegistration,
	},
	delivery: []step{
		deliveryActualEvent,
	},
	settlement: []step{
		settlementCurrency,
		settlementTaxes,
		settlementPaymentTerms,
		settlementSummation,
	},
	headerTax: []taxStep{
		taxCalculatedAmount,
		taxTypeCode,
		taxExemptionReason,
		taxBasisAmount,
		taxCategoryCode,
		taxExemptionReasonCode,
		taxRate,
	},
	legalID:      sirenOf,
	legalIDField: "emitter.siren",
}

func templateFor(p Profile) (*template, error) {
	switch p {
	case ProfileBasic:
		return basicTemplate, nil
	case ProfileEN16931:
		return en16931Template, nil
	default:
		return nil, fmt.Errorf("%w: perfil Factur-X %q desconocido", domain.ErrInvalidInput, p)
	}
}

// sirenOf SIREN declarado o, en su defecto, los 9 primeros dígitos del SIRET.
func sirenOf(p entity.Party) string {
	if s := pkgfacturx.NormalizeIdentifier(p.SIREN); s != "" {
		return s
	}
	if s, err := pkgfacturx.SIRENFromSIRET(p.SIRET); err == nil {
		return s
	}
	return ""
}
