package facturx

import (
	"errors"
	"fmt"

	"github.com/beevik/etree"
)

// ErrSchemaOrder una plantilla emitió hijos en un orden distinto al del esquema CII.
var ErrSchemaOrder = errors.New("facturx: orden de elementos no conforme al esquema CII")

var tradePartyOrder = []string{
	"ram:ID",
	"ram:GlobalID",
	"ram:Name",
	"ram:RoleCode",
	"ram:Description",
	"ram:SpecifiedLegalOrganization",
	"ram:DefinedTradeContact",
	"ram:PostalTradeAddress",
	"ram:URIUniversalCommunication",
	"ram:SpecifiedTaxRegistration",
}

var tradeTaxOrder = []string{
	"ram:CalculatedAmount",
	"ram:TypeCode",
	"ram:ExemptionReason",
	"ram:BasisAmount",
	"ram:LineTotalBasisAmount",
	"ram:AllowanceChargeBasisAmount",
	"ram:CategoryCode",
	"ram:ExemptionReasonCode",
	"ram:TaxPointDate",
	"ram:DueDateTypeCode",
	"ram:RateApplicablePercent",
}

// schemaSequences secuencias xs:sequence (CII D16B) de los tipos que se emiten.
var schemaSequences = map[string][]string{
	"rsm:CrossIndustryInvoice": {
		"rsm:ExchangedDocumentContext", "rsm:ExchangedDocument", "rsm:SupplyChainTradeTransaction",
	},
	"rsm:ExchangedDocumentContext": {
		"ram:BusinessProcessSpecifiedDocumentContextParameter", "ram:GuidelineSpecifiedDocumentContextParameter",
	},
	"rsm:ExchangedDocument": {
		"ram:ID", "ram:Name", "ram:TypeCode", "ram:IssueDateTime", "ram:IncludedNote",
	},
	"ram:IncludedNote": {
		"ram:ContentCode", "ram:Content", "ram:SubjectCode",
	},
	"rsm:SupplyChainTradeTransaction": {
		"ram:IncludedSupplyChainTradeLineItem", "ram:ApplicableHeaderTradeAgreement",
		"ram:ApplicableHeaderTradeDelivery", "ram:ApplicableHeaderTradeSettlement",
	},
	"ram:IncludedSupplyChainTradeLineItem": {
		"ram:AssociatedDocumentLineDocument", "ram:SpecifiedTradeProduct", "ram:SpecifiedLineTradeAgreement",
		"ram:SpecifiedLineTradeDelivery", "ram:SpecifiedLineTradeSettlement",
	},
	"ram:SpecifiedLineTradeAgreement": {
		"ram:BuyerOrderReferencedDocument", "ram:GrossPriceProductTradePrice", "ram:NetPriceProductTradePrice",
	},
	"ram:SpecifiedLineTradeSettlement": {
		"ram:ApplicableTradeTax", "ram:BillingSpecifiedPeriod", "ram:SpecifiedTradeAllowanceCharge",
		"ram:SpecifiedTradeSettlementLineMonetarySummation",
	},
	"ram:SpecifiedTradeAllowanceCharge": {
		"ram:ChargeIndicator", "ram:SequenceNumeric", "ram:CalculationPercent", "ram:BasisAmount",
		"ram:BasisQuantity", "ram:ActualAmount", "ram:ReasonCode", "ram:Reason", "ram:CategoryTradeTax",
	},
	"ram:ApplicableTradeTax": tradeTaxOrder,
	"ram:ApplicableHeaderTradeAgreement": {
		"ram:BuyerReference", "ram:SellerTradeParty", "ram:BuyerTradeParty",
		"ram:SellerTaxRepresentativeTradeParty", "ram:BuyerOrderReferencedDocument", "ram:ContractReferencedDocument",
	},
	"ram:SellerTradeParty": tradePartyOrder,
	"ram:BuyerTradeParty":  tradePartyOrder,
	"ram:PostalTradeAddress": {
		"ram:PostcodeCode", "ram:LineOne", "ram:LineTwo", "ram:LineThree",
		"ram:CityName", "ram:CountryID", "ram:CountrySubDivisionName",
	},
	"ram:ApplicableHeaderTradeDelivery": {
		"ram:ShipToTradeParty", "ram:ActualDeliverySupplyChainEvent", "ram:DespatchAdviceReferencedDocument",
	},
	"ram:ApplicableHeaderTradeSettlement": {
		"ram:CreditorReferenceID", "ram:PaymentReference", "ram:TaxCurrencyCode", "ram:InvoiceCurrencyCode",
		"ram:PayeeTradeParty", "ram:SpecifiedTradeSettlementPaymentMeans", "ram:ApplicableTradeTax",
		"ram:BillingSpecifiedPeriod", "ram:SpecifiedTradeAllowanceCharge", "ram:SpecifiedTradePaymentTerms",
		"ram:SpecifiedTradeSettlementHeaderMonetarySummation", "ram:InvoiceReferencedDocument",
		"ram:ReceivableSpecifiedTradeAccountingAccount",
	},
	"ram:SpecifiedTradePaymentTerms": {
		"ram:Description", "ram:DueDateDateTime", "ram:DirectDebitMandateID",
	},
	"ram:SpecifiedTradeSettlementHeaderMonetarySummation": {
		"ram:LineTotalAmount", "ram:ChargeTotalAmount", "ram:AllowanceTotalAmount", "ram:TaxBasisTotalAmount",
		"ram:TaxTotalAmount", "ram:RoundingAmount", "ram:GrandTotalAmount", "ram:TotalPrepaidAmount",
		"ram:DuePayableAmount",
	},
}

var schemaRanks = buildRanks(schemaSequences)

func buildRanks(seqs map[string][]string) map[string]map[string]int {
	out := make(map[string]map[string]int, len(seqs))
	for parent, seq := range seqs {
		ranks := make(map[string]int, len(seq))
		for i, tag := range seq {
			ranks[tag] = i
		}
		out[parent] = ranks
	}
	return out
}

// verifySchemaOrder recorre el árbol y falla si algún hijo de un tipo conocido
// no pertenece a su secuencia o aparece antes que un hermano que debía precederle.
func verifySchemaOrder(el *etree.Element) error {
	if ranks, ok := schemaRanks[el.FullTag()]; ok {
		last := -1
		prev := ""
		for _, child := range el.ChildElements() {
			r, known := ranks[child.FullTag()]
			if !known {
				return fmt.Errorf("%w: %s no admitido dentro de %s", ErrSchemaOrder, child.FullTag(), el.FullTag())
			}
			if r < last {
				return fmt.Errorf("%w: %s después de %s dentro de %s", ErrSchemaOrder, child.FullTag(), prev, el.FullTag())
			}
			last, prev = r, child.FullTag()
		}
	}
	for _, child := range el.ChildElements() {
		if err := verifySchemaOrder(child); err != nil {
			return err
		}
	}
	return nil
}
