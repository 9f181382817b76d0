package billing

import (
	"github.com/jhoicas/facturx-api/internal/domain/entity"
	"github.com/jhoicas/facturx-api/pkg/config"
)

// EmitterParty convierte la configuración del emisor en la parte vendedora.
func EmitterParty(e *config.EmitterConfig) entity.Party {
	return entity.Party{
		Name:            e.Name,
		LegalForm:       e.LegalForm,
		Address:         e.Address,
		PostalCode:      e.PostalCode,
		City:            e.City,
		CountryCode:     e.CountryCode,
		SIREN:           e.SIREN,
		SIRET:           e.SIRET,
		VATNumber:       e.VATNumber,
		IBAN:            e.IBAN,
		BIC:             e.BIC,
		LatePenaltyText: e.LatePenaltyText,
		RecoveryFeeText: e.RecoveryFeeText,
		LogoPath:        e.LogoPath,
	}
}
