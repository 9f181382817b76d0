// Package facturx contiene catálogos y validaciones alineados a la norma
// Factur-X 1.0 / EN 16931 (sintaxis UN/CEFACT CII D16B) para Francia.
package facturx

// =============================================================================
// Espacios de nombres CII (CrossIndustryInvoice D16B)
// =============================================================================

const (
	NamespaceRSM = "urn:un:unece:uncefact:data:standard:CrossIndustryInvoice:100"
	NamespaceQDT = "urn:un:unece:uncefact:data:standard:QualifiedDataType:100"
	NamespaceRAM = "urn:un:unece:uncefact:data:standard:ReusableAggregateBusinessInformationEntity:100"
	NamespaceUDT = "urn:un:unece:uncefact:data:standard:UnqualifiedDataType:100"
)

// =============================================================================
// Perfiles (BT-24, identificador del perfil)
// =============================================================================

const (
	GuidelineBasic   = "urn:factur-x.eu:1p0:basic"
	GuidelineEN16931 = "urn:cen.eu:en16931:2017"
)

// =============================================================================
// UNTDID 1001 - Tipos de documento (BT-3)
// =============================================================================

const (
	TypeCodeInvoice           = "380" // Facture
	TypeCodeCreditNote        = "381" // Avoir
	TypeCodeCorrectiveInvoice = "384" // Facture rectificative
	TypeCodePrepaymentInvoice = "389" // Facture d'acompte (autofacture en EN 16931)
)

// TypeLabels etiqueta visible de cada tipo de documento.
var TypeLabels = map[string]string{
	TypeCodeInvoice:           "Facture",
	TypeCodeCreditNote:        "Avoir",
	TypeCodeCorrectiveInvoice: "Facture rectificative",
	TypeCodePrepaymentInvoice: "Facture d'acompte",
}

// TypeLabel devuelve la etiqueta del tipo o "Facture" si el código no está catalogado.
func TypeLabel(code string) string {
	if l, ok := TypeLabels[code]; ok {
		return l
	}
	return TypeLabels[TypeCodeInvoice]
}

// =============================================================================
// UNTDID 5305 - Categorías de IVA (BT-118 / BT-151)
// =============================================================================

const (
	VATStandard       = "S"  // Taux normal
	VATZero           = "Z"  // Taux zéro
	VATExempt         = "E"  // Exonéré
	VATReverseCharge  = "AE" // Autoliquidation
	VATIntraCommunity = "K"  // Livraison intracommunautaire
	VATExport         = "G"  // Exportation hors UE
	VATOutOfScope     = "O"  // Hors champ de la TVA
	VATTypeCode       = "VAT"
)

// ExemptionCategories categorías en las que el motivo de exoneración (BT-120/BT-121)
// tiene sentido; para S y Z nunca se emite.
var ExemptionCategories = map[string]bool{
	VATExempt:         true,
	VATReverseCharge:  true,
	VATExport:         true,
	VATIntraCommunity: true,
	VATOutOfScope:     true,
}

// IsExemptionCategory indica si la categoría admite código/motivo de exoneración.
func IsExemptionCategory(category string) bool {
	return ExemptionCategories[category]
}

// =============================================================================
// Identificadores y códigos auxiliares
// =============================================================================

const (
	UnitCodeOne           = "C62"  // UN/ECE Rec 20 - "unité"
	SchemeSIRENE          = "0002" // ISO 6523 ICD: système SIRENE
	SchemeSIRET           = "0009" // ISO 6523 ICD: SIRET-CODE (adresse électronique)
	SchemeVAT             = "VA"   // identificador IVA intracomunitario
	DateFormat102         = "102"  // AAAAMMJJ
	DefaultCurrency       = "EUR"
	DefaultCountry        = "FR"
	AllowanceReasonRebate = "Rabais"
)

// =============================================================================
// UNTDID 4451 - Códigos de asunto de nota (BT-21) y textos legales por defecto
// =============================================================================

const (
	NoteSubjectRecoveryFee = "PMT" // indemnité forfaitaire pour frais de recouvrement
	NoteSubjectLatePenalty = "PMD" // pénalités de retard
	NoteSubjectNoDiscount  = "AAB" // escompte
)

const (
	DefaultRecoveryFeeText = "En cas de retard de paiement, une indemnité forfaitaire pour frais de recouvrement de 40 € sera exigée (art. L441-10 et D441-5 du Code de commerce)."
	DefaultLatePenaltyText = "En cas de retard de paiement, des pénalités seront appliquées au taux de trois fois le taux d'intérêt légal en vigueur."
	DefaultNoDiscountText  = "Pas d'escompte pour paiement anticipé."
)
