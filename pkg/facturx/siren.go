package facturx

import (
	"fmt"
	"strings"
	"unicode"
)

// NormalizeIdentifier elimina espacios y separadores habituales ("123 456 789", "123.456.789").
func NormalizeIdentifier(id string) string {
	var b strings.Builder
	for _, r := range id {
		if unicode.IsSpace(r) || r == '.' || r == '-' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ValidateSIREN verifica que el SIREN tenga exactamente 9 dígitos.
func ValidateSIREN(siren string) error {
	s := NormalizeIdentifier(siren)
	if len(s) != 9 || !allDigits(s) {
		return fmt.Errorf("facturx: SIREN debe tener 9 dígitos, recibido %q", siren)
	}
	return nil
}

// ValidateSIRET verifica que el SIRET tenga exactamente 14 dígitos.
// No se aplica la clave de Luhn: hay establecimientos (La Poste) que no la cumplen.
func ValidateSIRET(siret string) error {
	s := NormalizeIdentifier(siret)
	if len(s) != 14 || !allDigits(s) {
		return fmt.Errorf("facturx: SIRET debe tener 14 dígitos, recibido %q", siret)
	}
	return nil
}

// ValidateEstablishment verifica SIREN, SIRET y que el SIRET empiece por el SIREN.
func ValidateEstablishment(siren, siret string) error {
	if err := ValidateSIREN(siren); err != nil {
		return err
	}
	if err := ValidateSIRET(siret); err != nil {
		return err
	}
	if !strings.HasPrefix(NormalizeIdentifier(siret), NormalizeIdentifier(siren)) {
		return fmt.Errorf("facturx: el SIRET %q no corresponde al SIREN %q", siret, siren)
	}
	return nil
}

// SIRENFromSIRET devuelve los 9 primeros dígitos del SIRET.
func SIRENFromSIRET(siret string) (string, error) {
	if err := ValidateSIRET(siret); err != nil {
		return "", err
	}
	return NormalizeIdentifier(siret)[:9], nil
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
