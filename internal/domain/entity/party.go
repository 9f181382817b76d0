package entity

// Party representa un actor de la factura: el emisor (vendedor) o el destinatario (comprador).
// Para el destinatario sólo se usan identidad, dirección e identificadores.
type Party struct {
	Name        string
	LegalForm   string // forme juridique + capital, sólo informativo en el PDF
	Address     string // calle (LineOne)
	PostalCode  string
	City        string
	CountryCode string // ISO 3166-1 alfa-2
	SIREN       string // 9 dígitos
	SIRET       string // 14 dígitos (SIREN + NIC)
	VATNumber   string // número de IVA intracomunitario
	IBAN        string
	BIC         string

	// Textos legales configurables; vacíos → texto normativo por defecto.
	LatePenaltyText string
	RecoveryFeeText string

	LogoPath string
}

// HasAddress indica si la parte tiene al menos un dato de dirección.
func (p Party) HasAddress() bool {
	return p.Address != "" || p.PostalCode != "" || p.City != "" || p.CountryCode != ""
}
