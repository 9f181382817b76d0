package dto

// CreateClientRequest body para POST /api/clients.
type CreateClientRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	SIRET       string `json:"siret" validate:"required,siret"`
	VATNumber   string `json:"vat_number,omitempty" validate:"omitempty,max=20"`
	Address     string `json:"address,omitempty"`
	PostalCode  string `json:"postal_code,omitempty" validate:"omitempty,max=10"`
	City        string `json:"city,omitempty"`
	CountryCode string `json:"country_code,omitempty" validate:"omitempty,len=2,uppercase"`
	Email       string `json:"email,omitempty" validate:"omitempty,email"`
}

// ClientResponse cliente en respuestas.
type ClientResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	SIRET       string `json:"siret"`
	VATNumber   string `json:"vat_number,omitempty"`
	Address     string `json:"address,omitempty"`
	PostalCode  string `json:"postal_code,omitempty"`
	City        string `json:"city,omitempty"`
	CountryCode string `json:"country_code"`
	Email       string `json:"email,omitempty"`
}

// ClientListRequest filtros de GET /api/clients.
type ClientListRequest struct {
	PageRequest
	Query string `query:"q" validate:"omitempty,max=100"`
}
