package config

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/joho/godotenv"

	pkgfacturx "github.com/jhoicas/facturx-api/pkg/facturx"
)

// EmitterConfig datos del emisor leídos del archivo clave=valor (ma-conf.txt).
type EmitterConfig struct {
	Name            string
	LegalForm       string
	Address         string
	PostalCode      string
	City            string
	CountryCode     string
	SIREN           string
	SIRET           string
	VATNumber       string
	BIC             string
	IBAN            string
	RecoveryFeeText string // mención PMT
	LatePenaltyText string // mención PMD
	LogoPath        string
}

var postcodeCity = regexp.MustCompile(`^(\d{5})\s+(.+)$`)

// LoadEmitter lee el archivo del emisor. Claves: name, legal_form, address
// ("rue, 75001 Ville"), siren, siret, num_tva, bic, iban, pmt_text, pmd_text, logo.
func LoadEmitter(path string) (*EmitterConfig, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("config: leer emisor %s: %w", path, err)
	}

	line, postcode, city := ParseAddress(values["address"])
	e := &EmitterConfig{
		Name:            values["name"],
		LegalForm:       values["legal_form"],
		Address:         line,
		PostalCode:      postcode,
		City:            city,
		CountryCode:     pkgfacturx.DefaultCountry,
		SIREN:           pkgfacturx.NormalizeIdentifier(values["siren"]),
		SIRET:           pkgfacturx.NormalizeIdentifier(values["siret"]),
		VATNumber:       values["num_tva"],
		BIC:             values["bic"],
		IBAN:            values["iban"],
		RecoveryFeeText: values["pmt_text"],
		LatePenaltyText: values["pmd_text"],
		LogoPath:        values["logo"],
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return e, nil
}

// Validate comprueba los datos mínimos del emisor.
func (e *EmitterConfig) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return fmt.Errorf("config: el emisor necesita 'name'")
	}
	if e.SIRET == "" {
		return fmt.Errorf("config: el emisor necesita 'siret'")
	}
	if e.SIREN == "" {
		sirenFromSiret, err := pkgfacturx.SIRENFromSIRET(e.SIRET)
		if err != nil {
			return fmt.Errorf("config: emisor: %w", err)
		}
		e.SIREN = sirenFromSiret
	}
	if err := pkgfacturx.ValidateEstablishment(e.SIREN, e.SIRET); err != nil {
		return fmt.Errorf("config: emisor: %w", err)
	}
	return nil
}

// ParseAddress separa "rue, 75001 Ville" en línea, código postal y ciudad.
// Sin coma todo es la línea; sin código postal reconocible el resto es la ciudad.
func ParseAddress(address string) (line, postcode, city string) {
	address = strings.TrimSpace(address)
	if address == "" {
		return "", "", ""
	}
	head, rest, found := strings.Cut(address, ",")
	if !found {
		return address, "", ""
	}
	line = strings.TrimSpace(head)
	rest = strings.TrimSpace(rest)
	if m := postcodeCity.FindStringSubmatch(rest); m != nil {
		return line, m[1], m[2]
	}
	return line, "", rest
}
